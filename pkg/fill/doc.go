// Package fill implements the lookup-and-populate flows behind the CEP and
// CNPJ fields.
//
// A CNPJ lookup fills the company name fields and, when the registry returns
// an address postal code, writes the masked CEP and chains into a CEP lookup
// after a short pause. Failures never escape the flows: they are rendered as
// form feedback and reported through Result for callers that need a status.
package fill
