// Package brlookup exposes the CEP and CNPJ fill flows as a small net/http
// component so browser forms can delegate lookups to the application server.
//
// The handler answers GET and HEAD requests on
//
//	{base}/api/lookup/cep/{value}
//	{base}/api/lookup/cnpj/{value}
//	{base}/api/lookup/openapi.json
//
// Values may be masked; a masked CNPJ must escape its slash (%2F) or be sent
// through the "value" query parameter instead. Lookup responses carry the
// fields a form should populate plus the feedback message to display.
package brlookup
