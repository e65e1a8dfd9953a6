package fill

import (
	"context"

	"github.com/goliatone/go-formfill/pkg/feedback"
	"github.com/goliatone/go-formfill/pkg/form"
	"github.com/goliatone/go-formfill/pkg/mask"
)

// Editor is a Form whose values can be rewritten in place without raising
// events.
type Editor interface {
	Form
	Replace(idOrName, value string) bool
}

func kindForField(field string) (mask.Kind, bool) {
	switch field {
	case FieldCEP:
		return mask.KindCEP, true
	case FieldCNPJ:
		return mask.KindCNPJ, true
	}
	return "", false
}

// OnInput re-masks the cep or cnpj field after a keystroke. Other fields are
// left alone.
func OnInput(target Editor, field string) {
	kind, ok := kindForField(field)
	if !ok {
		return
	}
	value, ok := target.Value(field)
	if !ok {
		return
	}
	if formatted := kind.Format(value); formatted != value {
		target.Replace(field, formatted)
	}
}

// OnChange runs the lookup for a committed cep or cnpj field when it carries
// exactly the required digits. Partial values get an "incomplete" message and
// empty values are ignored.
func (f *Filler) OnChange(ctx context.Context, target Form, field string) Result {
	kind, ok := kindForField(field)
	if !ok {
		return Result{Outcome: OutcomeSkipped}
	}
	value, _ := target.Value(field)
	digits := mask.OnlyDigits(value)

	switch {
	case len(digits) == kind.Length():
		if kind == mask.KindCNPJ {
			return f.FillCNPJ(ctx, target, digits)
		}
		return f.FillCEP(ctx, target, digits)
	case digits != "":
		target.ShowFeedback(feedback.Incomplete(kind, field))
		return Result{Kind: kind, Digits: digits, Outcome: OutcomeInvalid, Err: ErrInvalidLength}
	}
	return Result{Kind: kind, Outcome: OutcomeSkipped}
}

// Bind wires masking and lookups to the cep and cnpj fields present in m.
// Synthetic events raised by the flows themselves are ignored, so writing the
// CEP returned by a CNPJ lookup does not trigger a second CEP lookup.
// Lookups run synchronously on the goroutine that commits the field.
func Bind(ctx context.Context, m *form.Memory, f *Filler) {
	if m == nil || f == nil {
		return
	}
	bound := map[string]bool{}
	for _, field := range []string{FieldCEP, FieldCNPJ} {
		if m.Has(field) {
			bound[field] = true
		}
	}
	if len(bound) == 0 {
		return
	}
	m.Subscribe(func(ev form.Event) {
		if ev.Synthetic || !bound[ev.Field] {
			return
		}
		switch ev.Type {
		case form.EventInput:
			OnInput(m, ev.Field)
		case form.EventChange:
			f.OnChange(ctx, m, ev.Field)
		}
	})
}
