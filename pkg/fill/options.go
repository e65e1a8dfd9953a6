package fill

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultChainPause separates the CNPJ lookup from the chained CEP lookup.
const DefaultChainPause = 300 * time.Millisecond

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures a Filler.
type Option func(*Filler)

// WithLogger sets the logger used for lookup failures and flow tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithChainPause overrides the pause before the chained CEP lookup.
// Negative values are treated as zero.
func WithChainPause(d time.Duration) Option {
	return func(f *Filler) {
		if d < 0 {
			d = 0
		}
		f.pause = d
	}
}

// WithSleep replaces the pause implementation, mainly for tests.
func WithSleep(fn SleepFunc) Option {
	return func(f *Filler) {
		if fn != nil {
			f.sleep = fn
		}
	}
}

// WithCEPMappings replaces the CEP payload to field mappings.
func WithCEPMappings(mappings []Mapping) Option {
	return func(f *Filler) {
		if mappings != nil {
			f.cepMappings = cloneMappings(mappings)
		}
	}
}

// WithCNPJMappings replaces the CNPJ payload to field mappings.
func WithCNPJMappings(mappings []Mapping) Option {
	return func(f *Filler) {
		if mappings != nil {
			f.cnpjMappings = cloneMappings(mappings)
		}
	}
}

// WithSessionIDs overrides session id generation.
func WithSessionIDs(fn func() string) Option {
	return func(f *Filler) {
		if fn != nil {
			f.newSession = fn
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func newSessionID() string {
	return uuid.NewString()
}
