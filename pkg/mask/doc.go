// Package mask normalizes and formats the numeric identifiers handled by the
// form filler: the 8 digit postal code (CEP) and the 14 digit company
// registration number (CNPJ).
//
// Every formatter first strips non-digits and truncates to the identifier
// length, so it is safe to call on each keystroke with partially typed input.
package mask
