package feedback

import (
	"fmt"

	"github.com/goliatone/go-formfill/pkg/mask"
)

// Catalog holds the user facing texts for one identifier kind. Searching is a
// format string receiving the digit-only identifier.
type Catalog struct {
	Invalid    string
	Incomplete string
	Searching  string
	Filled     string
	Failed     string
}

var catalogs = map[mask.Kind]Catalog{
	mask.KindCEP: {
		Invalid:    "CEP inválido (deve conter 8 dígitos).",
		Incomplete: "CEP incompleto (8 dígitos).",
		Searching:  "Buscando endereço para CEP %s...",
		Filled:     "Endereço preenchido com sucesso!",
		Failed:     "Erro ao buscar o CEP. Tente novamente.",
	},
	mask.KindCNPJ: {
		Invalid:    "CNPJ inválido (deve conter 14 dígitos).",
		Incomplete: "CNPJ incompleto (14 dígitos).",
		Searching:  "Buscando dados do CNPJ %s...",
		Filled:     "Dados do CNPJ preenchidos com sucesso!",
		Failed:     "Erro ao buscar o CNPJ. Tente novamente.",
	},
}

// CatalogFor returns the texts for kind. Unknown kinds get an empty catalog.
func CatalogFor(kind mask.Kind) Catalog {
	return catalogs[kind]
}

// Invalid reports a wrong digit count at lookup time.
func Invalid(kind mask.Kind, field string) Message {
	return Error(CatalogFor(kind).Invalid, field)
}

// Incomplete reports a partially typed identifier on commit.
func Incomplete(kind mask.Kind, field string) Message {
	return Error(CatalogFor(kind).Incomplete, field)
}

// Searching announces an in-flight lookup for digits.
func Searching(kind mask.Kind, digits string) Message {
	return Info(fmt.Sprintf(CatalogFor(kind).Searching, digits))
}

// Filled announces a completed lookup.
func Filled(kind mask.Kind) Message {
	return Success(CatalogFor(kind).Filled)
}

// Failed reports a lookup failure.
func Failed(kind mask.Kind, field string) Message {
	return Error(CatalogFor(kind).Failed, field)
}
