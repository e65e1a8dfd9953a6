package brasilapi

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Payload is a decoded JSON object. Treat it as read-only: coalesced lookups
// share the same value between callers.
type Payload map[string]any

// First returns the first non-empty value found under keys. A key may be a
// dotted path into nested objects, e.g. "estabelecimento.cep".
func (p Payload) First(keys ...string) string {
	for _, key := range keys {
		if v := p.String(key); v != "" {
			return v
		}
	}
	return ""
}

// String resolves path and renders scalar values as text. Missing values,
// nulls, booleans and nested structures yield "".
func (p Payload) String(path string) string {
	v, ok := p.Get(path)
	if !ok {
		return ""
	}
	return scalarString(v)
}

// Get resolves a dotted path.
func (p Payload) Get(path string) (any, bool) {
	path = strings.TrimSpace(path)
	if p == nil || path == "" {
		return nil, false
	}
	var current any = map[string]any(p)
	for _, segment := range strings.Split(path, ".") {
		obj, ok := asObject(current)
		if !ok {
			return nil, false
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func asObject(v any) (map[string]any, bool) {
	switch obj := v.(type) {
	case map[string]any:
		return obj, true
	case Payload:
		return obj, true
	}
	return nil, false
}

// scalarString trims strings, so whitespace-only values count as empty.
func scalarString(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case json.Number:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	}
	return ""
}
