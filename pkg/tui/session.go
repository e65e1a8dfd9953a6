package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goliatone/go-formfill/pkg/feedback"
	"github.com/goliatone/go-formfill/pkg/fill"
	"github.com/goliatone/go-formfill/pkg/form"
	"github.com/goliatone/go-formfill/pkg/mask"
)

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput sets where feedback lines are printed.
func WithOutput(out io.Writer) Option {
	return func(s *Session) {
		if out != nil {
			s.out = out
		}
	}
}

// WithManualCompletion asks, after lookups, whether to type the fields the
// registries left empty.
func WithManualCompletion(enabled bool) Option {
	return func(s *Session) {
		s.manual = enabled
	}
}

// Session walks a user through a CNPJ and CEP form in the terminal. The
// typed identifiers are masked and looked up exactly as the form would do on
// commit; feedback is printed as it is shown.
type Session struct {
	filler *fill.Filler
	driver PromptDriver
	out    io.Writer
	manual bool
}

// NewSession builds a session with the survey driver by default.
func NewSession(filler *fill.Filler, opts ...Option) (*Session, error) {
	if filler == nil {
		return nil, ErrMissingFiller
	}
	s := &Session{filler: filler, out: os.Stdout}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(s.out)
	}
	return s, nil
}

// echoForm prints every feedback message while keeping it on the form.
type echoForm struct {
	*form.Memory
	term *feedback.TerminalRenderer
}

func (e *echoForm) ShowFeedback(msg feedback.Message) {
	e.Memory.ShowFeedback(msg)
	_ = e.term.Show(msg)
}

// Run prompts for the identifiers, performs the lookups and returns the
// resulting field values.
func (s *Session) Run(ctx context.Context) (map[string]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	target := s.newForm()

	cnpj, err := s.driver.Input(ctx, InputConfig{
		Message:   "CNPJ",
		Help:      "14 dígitos; deixe vazio para informar apenas o CEP.",
		Validator: optionalLength(mask.KindCNPJ),
	})
	if err != nil {
		return nil, err
	}
	cepFilled := false
	if cnpj != "" {
		res := s.commit(ctx, target, fill.FieldCNPJ, cnpj)
		cepFilled = res.Chained != nil && res.Chained.Outcome == fill.OutcomeFilled
	}

	if !cepFilled {
		current, _ := target.Value(fill.FieldCEP)
		cep, err := s.driver.Input(ctx, InputConfig{
			Message:   "CEP",
			Default:   current,
			Help:      "8 dígitos; deixe vazio para pular.",
			Validator: optionalLength(mask.KindCEP),
		})
		if err != nil {
			return nil, err
		}
		if cep != "" {
			s.commit(ctx, target, fill.FieldCEP, cep)
		}
	}

	if s.manual {
		if err := s.completeManually(ctx, target); err != nil {
			return nil, err
		}
	}
	return target.Values(), nil
}

// Fill commits raw into field on a fresh form, as if typed and blurred, and
// returns the flow result with the resulting field values.
func (s *Session) Fill(ctx context.Context, field, raw string) (fill.Result, map[string]string) {
	if ctx == nil {
		ctx = context.Background()
	}
	target := s.newForm()
	res := s.commit(ctx, target, field, raw)
	return res, target.Values()
}

func (s *Session) newForm() *echoForm {
	return &echoForm{
		Memory: form.NewWithFields(s.filler.Targets()...),
		term:   feedback.NewTerminalRenderer(s.out),
	}
}

func (s *Session) commit(ctx context.Context, target *echoForm, field, value string) fill.Result {
	target.Replace(field, value)
	fill.OnInput(target, field)
	return s.filler.OnChange(ctx, target, field)
}

func (s *Session) completeManually(ctx context.Context, target *echoForm) error {
	var missing []string
	for _, f := range target.Fields() {
		if f.Value == "" && f.Key() != fill.FieldCNPJ && f.Key() != fill.FieldCEP {
			missing = append(missing, f.Key())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	ok, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("%d campo(s) ficaram vazios. Preencher manualmente?", len(missing)),
	})
	if err != nil || !ok {
		return err
	}
	for _, key := range missing {
		value, err := s.driver.Input(ctx, InputConfig{Message: key})
		if err != nil {
			return err
		}
		target.Replace(key, value)
	}
	return nil
}

func optionalLength(kind mask.Kind) func(string) error {
	return func(raw string) error {
		if raw == "" || kind.Complete(raw) {
			return nil
		}
		return fmt.Errorf("%s incompleto (%d dígitos)", string(kind), kind.Length())
	}
}
