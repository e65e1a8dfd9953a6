package fill

import (
	"github.com/goliatone/go-formfill/pkg/brasilapi"
)

const (
	FieldCEP  = "cep"
	FieldCNPJ = "cnpj"
)

// Mapping copies the first non-empty payload value among Keys into the form
// field Target (resolved by id, then name).
type Mapping struct {
	Target string   `json:"target" yaml:"target"`
	Keys   []string `json:"keys" yaml:"keys"`
}

// DefaultCEPMappings covers both the BrasilAPI and the ViaCEP field names.
var DefaultCEPMappings = []Mapping{
	{Target: "logradouro", Keys: []string{"street", "logradouro"}},
	{Target: "bairro", Keys: []string{"neighborhood", "bairro"}},
	{Target: "cidade", Keys: []string{"city", "localidade"}},
	{Target: "municipio", Keys: []string{"city", "localidade"}},
	{Target: "estado", Keys: []string{"state", "uf"}},
	{Target: "uf", Keys: []string{"state", "uf"}},
}

// DefaultCNPJMappings fills the company name fields.
var DefaultCNPJMappings = []Mapping{
	{Target: "razao_social", Keys: []string{"razao_social"}},
	{Target: "nome_fantasia", Keys: []string{"nome_fantasia"}},
}

// DefaultCNPJCEPKeys locate the establishment postal code in a CNPJ payload.
var DefaultCNPJCEPKeys = []string{"cep", "estabelecimento.cep"}

// Targets lists the distinct target fields of mappings in order.
func Targets(mappings ...[]Mapping) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, group := range mappings {
		for _, m := range group {
			if _, ok := seen[m.Target]; ok || m.Target == "" {
				continue
			}
			seen[m.Target] = struct{}{}
			out = append(out, m.Target)
		}
	}
	return out
}

func cloneMappings(in []Mapping) []Mapping {
	out := make([]Mapping, 0, len(in))
	for _, m := range in {
		out = append(out, Mapping{Target: m.Target, Keys: append([]string(nil), m.Keys...)})
	}
	return out
}

// apply writes mapped values into target and returns what was written.
func apply(target Form, payload brasilapi.Payload, mappings []Mapping, written map[string]string) {
	for _, m := range mappings {
		value := payload.First(m.Keys...)
		if value == "" {
			continue
		}
		if target.Set(m.Target, value) {
			written[m.Target] = value
		}
	}
}
