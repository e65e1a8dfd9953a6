// Package brasilapi is a small client for the BrasilAPI postal code (CEP) and
// company registry (CNPJ) endpoints.
//
// Responses are kept loosely typed: different upstream providers name the
// same attribute differently (street vs logradouro, city vs localidade), so
// callers read values through Payload.First with a list of alternate keys.
package brasilapi
