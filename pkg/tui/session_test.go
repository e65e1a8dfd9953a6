package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfill/pkg/brasilapi"
	"github.com/goliatone/go-formfill/pkg/fill"
)

type stubDriver struct {
	inputs   []string
	confirms []bool
	prompts  []string
	info     []string
	pos      int
	cpos     int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.pos >= len(s.inputs) {
		return "", ErrAborted
	}
	value := s.inputs[s.pos]
	s.pos++
	if cfg.Validator != nil {
		if err := cfg.Validator(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.cpos >= len(s.confirms) {
		return false, nil
	}
	value := s.confirms[s.cpos]
	s.cpos++
	return value, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.info = append(s.info, msg)
	return nil
}

type stubLookup struct {
	cep  map[string]brasilapi.Payload
	cnpj map[string]brasilapi.Payload
}

func (s stubLookup) LookupCEP(_ context.Context, cep string) (brasilapi.Payload, error) {
	if p, ok := s.cep[cep]; ok {
		return p, nil
	}
	return nil, &brasilapi.StatusError{Code: 404, Resource: "cep"}
}

func (s stubLookup) LookupCNPJ(_ context.Context, cnpj string) (brasilapi.Payload, error) {
	if p, ok := s.cnpj[cnpj]; ok {
		return p, nil
	}
	return nil, &brasilapi.StatusError{Code: 404, Resource: "cnpj"}
}

func newTestFiller(t *testing.T) *fill.Filler {
	t.Helper()
	lookup := stubLookup{
		cep: map[string]brasilapi.Payload{
			"01310100": {"street": "Avenida Paulista", "neighborhood": "Bela Vista", "city": "São Paulo", "state": "SP"},
		},
		cnpj: map[string]brasilapi.Payload{
			"11222333000181": {"razao_social": "ACME LTDA", "nome_fantasia": "ACME", "cep": "01310100"},
			"99888777000166": {"razao_social": "SEM ENDERECO SA"},
		},
	}
	f, err := fill.New(lookup, fill.WithSleep(func(context.Context, time.Duration) error { return nil }))
	if err != nil {
		t.Fatalf("fill.New: %v", err)
	}
	return f
}

func TestSessionCNPJChainsCEP(t *testing.T) {
	driver := &stubDriver{inputs: []string{"11222333000181"}}
	var out bytes.Buffer
	s, err := NewSession(newTestFiller(t), WithPromptDriver(driver), WithOutput(&out))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	values, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := map[string]string{
		"cnpj":          "11.222.333/0001-81",
		"cep":           "01310-100",
		"razao_social":  "ACME LTDA",
		"nome_fantasia": "ACME",
		"logradouro":    "Avenida Paulista",
		"bairro":        "Bela Vista",
		"cidade":        "São Paulo",
		"municipio":     "São Paulo",
		"estado":        "SP",
		"uf":            "SP",
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"CNPJ"}, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "Dados do CNPJ preenchidos com sucesso!") {
		t.Fatalf("expected CNPJ success in output, got %q", out.String())
	}
}

func TestSessionPromptsCEPWhenCNPJHasNoAddress(t *testing.T) {
	driver := &stubDriver{inputs: []string{"99888777000166", "01310-100"}}
	var out bytes.Buffer
	s, err := NewSession(newTestFiller(t), WithPromptDriver(driver), WithOutput(&out))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	values, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff([]string{"CNPJ", "CEP"}, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if values["razao_social"] != "SEM ENDERECO SA" || values["logradouro"] != "Avenida Paulista" {
		t.Fatalf("unexpected values: %v", values)
	}
	if values["cep"] != "01310-100" {
		t.Fatalf("expected masked cep, got %q", values["cep"])
	}
}

func TestSessionSkipsEmptyAnswers(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", ""}}
	var out bytes.Buffer
	s, err := NewSession(newTestFiller(t), WithPromptDriver(driver), WithOutput(&out))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	values, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected no values, got %v", values)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no feedback, got %q", out.String())
	}
}

func TestSessionManualCompletion(t *testing.T) {
	driver := &stubDriver{
		inputs:   []string{"", "99999999", "Rua A", "Centro", "Cidade", "Cidade", "XX", "XX", "Razao", "Fantasia"},
		confirms: []bool{true},
	}
	var out bytes.Buffer
	s, err := NewSession(newTestFiller(t), WithPromptDriver(driver), WithOutput(&out), WithManualCompletion(true))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	values, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Erro ao buscar o CEP. Tente novamente.") {
		t.Fatalf("expected CEP failure feedback, got %q", out.String())
	}
	if values["cep"] != "99999-999" {
		t.Fatalf("expected masked cep to stay, got %q", values["cep"])
	}
	if len(values) != 9 {
		t.Fatalf("expected 9 values after manual completion, got %v", values)
	}
}

func TestSessionValidatorRejectsPartialCNPJ(t *testing.T) {
	driver := &stubDriver{inputs: []string{"1234"}}
	s, err := NewSession(newTestFiller(t), WithPromptDriver(driver), WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, err := s.Run(context.Background()); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSessionAborted(t *testing.T) {
	s, err := NewSession(newTestFiller(t), WithPromptDriver(&stubDriver{}), WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, err := s.Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestNewSessionRequiresFiller(t *testing.T) {
	if _, err := NewSession(nil); !errors.Is(err, ErrMissingFiller) {
		t.Fatalf("expected ErrMissingFiller, got %v", err)
	}
}

func TestWriteValuesFormats(t *testing.T) {
	values := map[string]string{"uf": "PE", "cidade": "Recife"}

	var js bytes.Buffer
	if err := WriteValues(&js, OutputFormatJSON, values); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got := js.String(); got != "{\n  \"cidade\": \"Recife\",\n  \"uf\": \"PE\"\n}\n" {
		t.Fatalf("unexpected json %q", got)
	}

	var ym bytes.Buffer
	if err := WriteValues(&ym, OutputFormatYAML, values); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if got := ym.String(); got != "cidade: Recife\nuf: PE\n" {
		t.Fatalf("unexpected yaml %q", got)
	}

	var pretty bytes.Buffer
	if err := WriteValues(&pretty, OutputFormatPrettyText, values); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	if !strings.HasPrefix(pretty.String(), "cidade:") {
		t.Fatalf("expected sorted pretty output, got %q", pretty.String())
	}

	if _, err := ParseOutputFormat("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestSessionFillReportsIncomplete(t *testing.T) {
	var out bytes.Buffer
	s, err := NewSession(newTestFiller(t), WithPromptDriver(&stubDriver{}), WithOutput(&out))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	res, values := s.Fill(context.Background(), fill.FieldCEP, "0131")
	if res.Outcome != fill.OutcomeInvalid {
		t.Fatalf("expected invalid outcome, got %s", res.Outcome)
	}
	if values["cep"] != "0131" {
		t.Fatalf("expected partial cep kept, got %q", values["cep"])
	}
	if got := out.String(); got != "✖ CEP incompleto (8 dígitos).\n" {
		t.Fatalf("unexpected feedback %q", got)
	}
}
