package brlookup

import (
	"net/http"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/brasilapi"
	"github.com/goliatone/go-formfill/pkg/fill"
)

const defaultRoutePath = "/api/lookup"

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath  string
	ValueParam string
	Guard      GuardFunc

	// Lookup defaults to a BrasilAPI client against BaseURL.
	Lookup     brasilapi.Lookup
	BaseURL    string
	Timeout    time.Duration
	ChainPause time.Duration
	Coalesce   bool

	Logger       *zap.Logger
	Theme        *theme.RendererConfig
	CEPMappings  []fill.Mapping
	CNPJMappings []fill.Mapping
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:  defaultRoutePath,
		ValueParam: "value",
		BaseURL:    brasilapi.DefaultBaseURL,
		Timeout:    15 * time.Second,
		ChainPause: fill.DefaultChainPause,
		Coalesce:   true,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.ValueParam == "" {
		opts.ValueParam = "value"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = brasilapi.DefaultBaseURL
	}
	if opts.Timeout < 0 {
		opts.Timeout = 0
	}
	if opts.ChainPause < 0 {
		opts.ChainPause = 0
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithValueParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ValueParam = name
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithLookup replaces the upstream client, e.g. with a stub in tests.
func WithLookup(lookup brasilapi.Lookup) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Lookup = lookup
	}
}

func WithBaseURL(base string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.BaseURL = base
	}
}

func WithTimeout(timeout time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Timeout = timeout
	}
}

func WithChainPause(pause time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ChainPause = pause
	}
}

// WithCoalescing toggles collapsing identical concurrent upstream lookups.
func WithCoalescing(enabled bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Coalesce = enabled
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithTheme(cfg *theme.RendererConfig) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Theme = cfg
	}
}

func WithCEPMappings(mappings []fill.Mapping) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CEPMappings = mappings
	}
}

func WithCNPJMappings(mappings []fill.Mapping) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CNPJMappings = mappings
	}
}

func (o Options) lookup() brasilapi.Lookup {
	lookup := o.Lookup
	if lookup == nil {
		lookup = brasilapi.NewClient(
			brasilapi.WithBaseURL(o.BaseURL),
			brasilapi.WithTimeout(o.Timeout),
		)
	}
	if o.Coalesce {
		lookup = brasilapi.NewCoalescing(lookup)
	}
	return lookup
}

func (o Options) fillOptions() []fill.Option {
	return []fill.Option{
		fill.WithLogger(o.Logger),
		fill.WithChainPause(o.ChainPause),
		fill.WithCEPMappings(o.CEPMappings),
		fill.WithCNPJMappings(o.CNPJMappings),
	}
}
