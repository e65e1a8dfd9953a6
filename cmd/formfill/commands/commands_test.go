package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/cep/v1/01310100":
			_, _ = w.Write([]byte(`{"cep":"01310100","state":"SP","city":"São Paulo","neighborhood":"Bela Vista","street":"Avenida Paulista"}`))
		case "/api/cnpj/v1/11222333000181":
			_, _ = w.Write([]byte(`{"razao_social":"ACME LTDA","nome_fantasia":"ACME","cep":"01310100"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "formfill.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestFormatCommand(t *testing.T) {
	out, _, err := run(t, "format", "cnpj", "11222333000181")
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if out != "11.222.333/0001-81\n" {
		t.Fatalf("expected masked cnpj, got %q", out)
	}

	out, _, err = run(t, "format", "cep", "013101009999")
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if out != "01310-100\n" {
		t.Fatalf("expected truncated cep, got %q", out)
	}

	if _, _, err := run(t, "format", "cpf", "123"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestCEPCommandPrintsFields(t *testing.T) {
	srv := newUpstream(t)
	out, stderr, err := run(t, "--base-url", srv.URL, "cep", "01310-100")
	if err != nil {
		t.Fatalf("cep: %v (stderr %q)", err, stderr)
	}

	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	want := map[string]string{
		"cep":        "01310-100",
		"logradouro": "Avenida Paulista",
		"bairro":     "Bela Vista",
		"cidade":     "São Paulo",
		"municipio":  "São Paulo",
		"estado":     "SP",
		"uf":         "SP",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(stderr, "Endereço preenchido com sucesso!") {
		t.Fatalf("expected success feedback, got %q", stderr)
	}
}

func TestCNPJCommandChainsCEPAsYAML(t *testing.T) {
	srv := newUpstream(t)
	cfg := writeConfig(t, "lookup:\n  chain_pause: 0s\n")
	out, stderr, err := run(t, "--config", cfg, "--base-url", srv.URL, "--output", "yaml", "cnpj", "11222333000181")
	if err != nil {
		t.Fatalf("cnpj: %v (stderr %q)", err, stderr)
	}
	for _, line := range []string{"razao_social: ACME LTDA", "logradouro: Avenida Paulista", "uf: SP"} {
		if !strings.Contains(out, line) {
			t.Fatalf("expected %q in output %q", line, out)
		}
	}
	if !strings.Contains(stderr, "Dados do CNPJ preenchidos com sucesso!") {
		t.Fatalf("expected CNPJ success feedback, got %q", stderr)
	}
}

func TestCEPCommandUpstreamFailure(t *testing.T) {
	srv := newUpstream(t)
	_, stderr, err := run(t, "--base-url", srv.URL, "cep", "99999999")
	if err == nil {
		t.Fatalf("expected error for failed lookup")
	}
	if !strings.Contains(stderr, "Erro ao buscar o CEP. Tente novamente.") {
		t.Fatalf("expected failure feedback, got %q", stderr)
	}
}

func TestCEPCommandIncomplete(t *testing.T) {
	_, stderr, err := run(t, "cep", "123")
	if err == nil {
		t.Fatalf("expected error for incomplete cep")
	}
	if !strings.Contains(stderr, "CEP incompleto (8 dígitos).") {
		t.Fatalf("expected incomplete feedback, got %q", stderr)
	}
}

func TestRejectsUnknownOutput(t *testing.T) {
	if _, _, err := run(t, "--output", "xml", "format", "cep", "1"); err == nil {
		t.Fatalf("expected error for unknown output format")
	}
}

func TestRejectsMissingConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if _, _, err := run(t, "--config", missing, "format", "cep", "1"); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
