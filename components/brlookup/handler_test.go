package brlookup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfill/pkg/brasilapi"
	"github.com/goliatone/go-formfill/pkg/feedback"
	"github.com/goliatone/go-formfill/pkg/fill"
)

type stubLookup struct {
	cepErr error
	calls  []string
}

func (s *stubLookup) LookupCEP(_ context.Context, cep string) (brasilapi.Payload, error) {
	s.calls = append(s.calls, "cep:"+cep)
	if s.cepErr != nil {
		return nil, s.cepErr
	}
	if cep != "01310100" {
		return nil, &brasilapi.StatusError{Code: http.StatusNotFound, Resource: "cep"}
	}
	return brasilapi.Payload{"street": "Avenida Paulista", "neighborhood": "Bela Vista", "city": "São Paulo", "state": "SP"}, nil
}

func (s *stubLookup) LookupCNPJ(_ context.Context, cnpj string) (brasilapi.Payload, error) {
	s.calls = append(s.calls, "cnpj:"+cnpj)
	return brasilapi.Payload{"razao_social": "ACME <b>LTDA</b>", "nome_fantasia": "ACME", "cep": "01310100"}, nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) LookupData {
	t.Helper()
	var payload lookupResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload.Data
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CEPLookup(t *testing.T) {
	h := NewHandler(WithLookup(&stubLookup{}))

	rec := serve(h, http.MethodGet, "/api/lookup/cep/01310-100")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}

	data := decode(t, rec)
	want := map[string]string{
		"cep":        "01310-100",
		"logradouro": "Avenida Paulista",
		"bairro":     "Bela Vista",
		"cidade":     "São Paulo",
		"municipio":  "São Paulo",
		"estado":     "SP",
		"uf":         "SP",
	}
	if diff := cmp.Diff(want, data.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if data.Outcome != fill.OutcomeFilled || data.Digits != "01310100" || data.Formatted != "01310-100" {
		t.Fatalf("unexpected summary %+v", data)
	}
	if data.Feedback != feedback.Filled("cep") {
		t.Fatalf("unexpected feedback %+v", data.Feedback)
	}
	if !strings.Contains(data.FeedbackHTML, `class="feedback success"`) {
		t.Fatalf("unexpected feedback html %q", data.FeedbackHTML)
	}
}

func TestHandler_CNPJChainsAndEscapedSlash(t *testing.T) {
	lookup := &stubLookup{}
	h := NewHandler(WithLookup(lookup), WithChainPause(0), WithCoalescing(false))

	rec := serve(h, http.MethodGet, "/api/lookup/cnpj/12.345.678%2F0001-95")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decode(t, rec)
	if data.Fields["cnpj"] != "12.345.678/0001-95" || data.Fields["cep"] != "01310-100" || data.Fields["uf"] != "SP" {
		t.Fatalf("unexpected fields %v", data.Fields)
	}
	if data.Fields["razao_social"] != "ACME <b>LTDA</b>" {
		t.Fatalf("field values are data and must be returned verbatim, got %q", data.Fields["razao_social"])
	}
	if diff := cmp.Diff([]string{"cnpj:12345678000195", "cep:01310100"}, lookup.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_ValueQueryParam(t *testing.T) {
	h := NewHandler(WithLookup(&stubLookup{}), WithChainPause(0))
	rec := serve(h, http.MethodGet, "/api/lookup/cnpj?value=12.345.678/0001-95")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		lookup *stubLookup
		target string
		status int
		kind   feedback.Kind
	}{
		{"invalid length", &stubLookup{}, "/api/lookup/cep/0131", http.StatusUnprocessableEntity, feedback.KindError},
		{"not found", &stubLookup{}, "/api/lookup/cep/99999999", http.StatusNotFound, feedback.KindError},
		{"upstream failure", &stubLookup{cepErr: errors.New("down")}, "/api/lookup/cep/01310100", http.StatusBadGateway, feedback.KindError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(NewHandler(WithLookup(tc.lookup)), http.MethodGet, tc.target)
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
			data := decode(t, rec)
			if data.Feedback.Kind != tc.kind || data.Feedback.Focus != "cep" {
				t.Fatalf("unexpected feedback %+v", data.Feedback)
			}
		})
	}
}

func TestHandler_UnknownRoute(t *testing.T) {
	h := NewHandler(WithLookup(&stubLookup{}))
	if rec := serve(h, http.MethodGet, "/api/lookup/cpf/123"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler(WithLookup(&stubLookup{}))
	rec := serve(h, http.MethodPost, "/api/lookup/cep/01310100")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestHandler_GuardRejects(t *testing.T) {
	lookup := &stubLookup{}
	h := NewHandler(
		WithLookup(lookup),
		WithGuard(func(r *http.Request) error {
			return StatusError{Code: http.StatusUnauthorized}
		}),
	)
	rec := serve(h, http.MethodGet, "/api/lookup/cep/01310100")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if len(lookup.calls) != 0 {
		t.Fatalf("guarded request must not reach upstream")
	}
}

func TestHandler_HeadHasNoBody(t *testing.T) {
	h := NewHandler(WithLookup(&stubLookup{}))
	rec := serve(h, http.MethodHead, "/api/lookup/cep/01310100")
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("unexpected HEAD response %d %q", rec.Code, rec.Body.String())
	}
}

func TestHandler_UpstreamClient(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cep/v1/01310100" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"logradouro":"Avenida Paulista","uf":"SP"}`))
	}))
	defer upstream.Close()

	h := NewHandler(WithBaseURL(upstream.URL))
	rec := serve(h, http.MethodGet, "/api/lookup/cep/01310100")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data := decode(t, rec)
	if data.Fields["logradouro"] != "Avenida Paulista" || data.Fields["estado"] != "SP" {
		t.Fatalf("unexpected fields %v", data.Fields)
	}
}
