package brlookup

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/mask"
)

// OpenAPIDocument describes the lookup routes mounted at routePath.
func OpenAPIDocument(routePath string) *openapi3.T {
	routePath = "/" + strings.Trim(strings.TrimSpace(routePath), "/")
	if routePath == "/" {
		routePath = defaultRoutePath
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Form fill lookups",
			Description: "Postal code (CEP) and company registry (CNPJ) lookups that return form field values.",
			Version:     "1.0.0",
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath(routePath+"/cep/{value}", &openapi3.PathItem{
				Get: lookupOperation(mask.KindCEP, "lookupCEP", "Look up an address by postal code", `^\d{5}-?\d{3}$`),
			}),
			openapi3.WithPath(routePath+"/cnpj/{value}", &openapi3.PathItem{
				Get: lookupOperation(mask.KindCNPJ, "lookupCNPJ", "Look up a company by CNPJ", `^\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}$`),
			}),
		),
	}
	return doc
}

func lookupOperation(kind mask.Kind, id, summary, pattern string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Tags = []string{string(kind)}

	param := openapi3.NewPathParameter("value").
		WithDescription("Digits, optionally masked.").
		WithSchema(openapi3.NewStringSchema().WithPattern(pattern))
	op.AddParameter(param)

	data := openapi3.NewObjectSchema().
		WithProperty("kind", openapi3.NewStringSchema().WithEnum(string(kind))).
		WithProperty("digits", openapi3.NewStringSchema()).
		WithProperty("formatted", openapi3.NewStringSchema()).
		WithProperty("outcome", openapi3.NewStringSchema().WithEnum("filled", "invalid", "failed")).
		WithProperty("session", openapi3.NewStringSchema()).
		WithProperty("fields", openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewStringSchema())).
		WithProperty("feedback", openapi3.NewObjectSchema().
			WithProperty("kind", openapi3.NewStringSchema().WithEnum("info", "success", "error")).
			WithProperty("message", openapi3.NewStringSchema()).
			WithProperty("focus", openapi3.NewStringSchema())).
		WithProperty("feedback_html", openapi3.NewStringSchema())
	body := openapi3.NewObjectSchema().WithProperty("data", data)

	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, jsonResponse("Fields filled.", body)),
		openapi3.WithStatus(http.StatusNotFound, jsonResponse("Identifier not found upstream.", body)),
		openapi3.WithStatus(http.StatusUnprocessableEntity, jsonResponse("Wrong digit count.", body)),
		openapi3.WithStatus(http.StatusBadGateway, jsonResponse("Upstream lookup failed.", body)),
	)
	return op
}

func jsonResponse(description string, schema *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(schema),
	}
}

// serveOpenAPI describes the routes under the prefix the request arrived on,
// so one handler serves correct paths wherever it is mounted.
func (h *lookupHandler) serveOpenAPI(w http.ResponseWriter, r *http.Request) {
	mount := strings.TrimSuffix(r.URL.Path, "/openapi.json")
	if mount == "" {
		mount = h.opts.RoutePath
	}
	body, err := h.openAPIBody(mount)
	if err != nil {
		h.opts.Logger.Error("openapi document failed", zap.String("mount", mount), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

func (h *lookupHandler) openAPIBody(mount string) ([]byte, error) {
	h.openAPIMu.Lock()
	defer h.openAPIMu.Unlock()
	if body, ok := h.openAPIDocs[mount]; ok {
		return body, nil
	}
	body, err := json.Marshal(OpenAPIDocument(mount))
	if err != nil {
		return nil, err
	}
	if h.openAPIDocs == nil {
		h.openAPIDocs = make(map[string][]byte)
	}
	h.openAPIDocs[mount] = body
	return body, nil
}
