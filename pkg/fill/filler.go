package fill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/brasilapi"
	"github.com/goliatone/go-formfill/pkg/feedback"
	"github.com/goliatone/go-formfill/pkg/mask"
)

var (
	// ErrMissingLookup is returned by New without a lookup backend.
	ErrMissingLookup = errors.New("fill: missing lookup")
	// ErrInvalidLength marks results rejected for their digit count.
	ErrInvalidLength = errors.New("fill: invalid identifier length")
)

// Form is the surface the flows operate on.
type Form interface {
	Value(idOrName string) (string, bool)
	// Set writes non-empty values to existing fields and notifies listeners.
	Set(idOrName, value string) bool
	ShowFeedback(msg feedback.Message)
	SetLoading(loading bool)
}

// Outcome summarises a flow run.
type Outcome string

const (
	OutcomeFilled  Outcome = "filled"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Result describes what a flow did. Err carries the underlying failure for
// OutcomeInvalid and OutcomeFailed; it has already been shown as feedback.
type Result struct {
	Session string
	Kind    mask.Kind
	Digits  string
	Outcome Outcome
	Fields  map[string]string
	Err     error
	Chained *Result
}

// Filler runs the lookup flows against a brasilapi.Lookup.
type Filler struct {
	lookup       brasilapi.Lookup
	logger       *zap.Logger
	pause        time.Duration
	sleep        SleepFunc
	cepMappings  []Mapping
	cnpjMappings []Mapping
	cnpjCEPKeys  []string
	newSession   func() string
}

// New builds a Filler with defaults plus overrides.
func New(lookup brasilapi.Lookup, opts ...Option) (*Filler, error) {
	if lookup == nil {
		return nil, ErrMissingLookup
	}
	f := &Filler{
		lookup:       lookup,
		logger:       zap.NewNop(),
		pause:        DefaultChainPause,
		sleep:        sleepContext,
		cepMappings:  cloneMappings(DefaultCEPMappings),
		cnpjMappings: cloneMappings(DefaultCNPJMappings),
		cnpjCEPKeys:  append([]string(nil), DefaultCNPJCEPKeys...),
		newSession:   newSessionID,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f, nil
}

// Targets lists every field the filler may write, CNPJ fields first.
func (f *Filler) Targets() []string {
	out := Targets(f.cnpjMappings, f.cepMappings)
	return append([]string{FieldCNPJ, FieldCEP}, out...)
}

// FillCEP validates raw, looks the postal code up and fills the address
// fields.
func (f *Filler) FillCEP(ctx context.Context, target Form, raw string) Result {
	return f.fillCEP(ctx, target, raw, f.newSession())
}

// FillCNPJ validates raw, looks the company up, fills its fields and chains
// into FillCEP when the registry returns a postal code.
func (f *Filler) FillCNPJ(ctx context.Context, target Form, raw string) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	session := f.newSession()
	digits := mask.OnlyDigits(raw)
	res := Result{Session: session, Kind: mask.KindCNPJ, Digits: digits, Fields: map[string]string{}}
	log := f.logger.With(zap.String("session", session), zap.String("cnpj", digits))

	if len(digits) != mask.CNPJLength {
		target.ShowFeedback(feedback.Invalid(mask.KindCNPJ, FieldCNPJ))
		res.Outcome = OutcomeInvalid
		res.Err = fmt.Errorf("%w: cnpj has %d digits", ErrInvalidLength, len(digits))
		return res
	}

	target.SetLoading(true)
	defer target.SetLoading(false)
	target.ShowFeedback(feedback.Searching(mask.KindCNPJ, digits))
	log.Debug("cnpj lookup started")

	payload, err := f.lookup.LookupCNPJ(ctx, digits)
	if err != nil {
		return f.fail(log, target, res, err)
	}

	apply(target, payload, f.cnpjMappings, res.Fields)

	if cep := payload.First(f.cnpjCEPKeys...); cep != "" {
		formatted := mask.FormatCEP(cep)
		if target.Set(FieldCEP, formatted) {
			res.Fields[FieldCEP] = formatted
		}
		if err := f.sleep(ctx, f.pause); err != nil {
			return f.fail(log, target, res, err)
		}
		chained := f.fillCEP(ctx, target, cep, session)
		for k, v := range chained.Fields {
			res.Fields[k] = v
		}
		res.Chained = &chained
	}

	// The chained CEP flow reports its own errors; the CNPJ data is filled
	// either way, so the final message is the CNPJ success.
	target.ShowFeedback(feedback.Filled(mask.KindCNPJ))
	res.Outcome = OutcomeFilled
	log.Debug("cnpj lookup filled", zap.Int("fields", len(res.Fields)))
	return res
}

func (f *Filler) fillCEP(ctx context.Context, target Form, raw, session string) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	digits := mask.OnlyDigits(raw)
	res := Result{Session: session, Kind: mask.KindCEP, Digits: digits, Fields: map[string]string{}}
	log := f.logger.With(zap.String("session", session), zap.String("cep", digits))

	if len(digits) != mask.CEPLength {
		target.ShowFeedback(feedback.Invalid(mask.KindCEP, FieldCEP))
		res.Outcome = OutcomeInvalid
		res.Err = fmt.Errorf("%w: cep has %d digits", ErrInvalidLength, len(digits))
		return res
	}

	target.SetLoading(true)
	defer target.SetLoading(false)
	target.ShowFeedback(feedback.Searching(mask.KindCEP, digits))
	log.Debug("cep lookup started")

	payload, err := f.lookup.LookupCEP(ctx, digits)
	if err != nil {
		return f.fail(log, target, res, err)
	}

	apply(target, payload, f.cepMappings, res.Fields)
	target.ShowFeedback(feedback.Filled(mask.KindCEP))
	res.Outcome = OutcomeFilled
	log.Debug("cep lookup filled", zap.Int("fields", len(res.Fields)))
	return res
}

func (f *Filler) fail(log *zap.Logger, target Form, res Result, err error) Result {
	field := FieldCEP
	if res.Kind == mask.KindCNPJ {
		field = FieldCNPJ
	}
	log.Error("lookup failed", zap.String("kind", string(res.Kind)), zap.Error(err))
	target.ShowFeedback(feedback.Failed(res.Kind, field))
	res.Outcome = OutcomeFailed
	res.Err = err
	return res
}
