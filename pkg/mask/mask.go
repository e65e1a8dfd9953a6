package mask

import "strings"

const (
	// CEPLength is the number of digits in a complete postal code.
	CEPLength = 8
	// CNPJLength is the number of digits in a complete company registration number.
	CNPJLength = 14
)

// Kind identifies one of the masked identifier formats.
type Kind string

const (
	KindCEP  Kind = "cep"
	KindCNPJ Kind = "cnpj"
)

// ParseKind resolves a kind from its name, ignoring case and surrounding space.
func ParseKind(raw string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindCEP:
		return KindCEP, true
	case KindCNPJ:
		return KindCNPJ, true
	}
	return "", false
}

// Length reports the exact digit count required by the kind.
func (k Kind) Length() int {
	switch k {
	case KindCEP:
		return CEPLength
	case KindCNPJ:
		return CNPJLength
	}
	return 0
}

// Format applies the kind's display mask to raw.
func (k Kind) Format(raw string) string {
	switch k {
	case KindCEP:
		return FormatCEP(raw)
	case KindCNPJ:
		return FormatCNPJ(raw)
	}
	return raw
}

// Complete reports whether raw carries exactly the number of digits the kind
// requires. Extra digits make the value incomplete, not truncated.
func (k Kind) Complete(raw string) bool {
	n := k.Length()
	return n > 0 && len(OnlyDigits(raw)) == n
}

// OnlyDigits drops every rune outside ASCII 0-9.
func OnlyDigits(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FormatCEP renders up to 8 digits as ddddd-ddd. Values with five or fewer
// digits are returned bare so the hyphen only appears once it separates
// something.
func FormatCEP(raw string) string {
	d := truncate(OnlyDigits(raw), CEPLength)
	if len(d) <= 5 {
		return d
	}
	return d[:5] + "-" + d[5:]
}

// cnpjSeparators maps digit offsets to the separator written before them.
var cnpjSeparators = map[int]byte{
	2:  '.',
	5:  '.',
	8:  '/',
	12: '-',
}

// FormatCNPJ renders up to 14 digits as dd.ddd.ddd/dddd-dd. A separator is only
// written once a digit follows it, so partial input grows the mask
// progressively (12.3, 12.345.6, 12.345.678/9, ...).
func FormatCNPJ(raw string) string {
	d := truncate(OnlyDigits(raw), CNPJLength)
	var b strings.Builder
	b.Grow(len(d) + len(cnpjSeparators))
	for i := 0; i < len(d); i++ {
		if sep, ok := cnpjSeparators[i]; ok {
			b.WriteByte(sep)
		}
		b.WriteByte(d[i])
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
