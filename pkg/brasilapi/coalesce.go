package brasilapi

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Coalescing collapses identical concurrent lookups into a single upstream
// request. The shared request is detached from every caller's cancellation;
// a caller whose context ends stops waiting without failing the others.
type Coalescing struct {
	next  Lookup
	group singleflight.Group
}

var _ Lookup = (*Coalescing)(nil)

// NewCoalescing wraps next.
func NewCoalescing(next Lookup) *Coalescing {
	return &Coalescing{next: next}
}

func (c *Coalescing) LookupCEP(ctx context.Context, cep string) (Payload, error) {
	shared := context.WithoutCancel(ctx)
	return c.do(ctx, "cep:"+cep, func() (Payload, error) {
		return c.next.LookupCEP(shared, cep)
	})
}

func (c *Coalescing) LookupCNPJ(ctx context.Context, cnpj string) (Payload, error) {
	shared := context.WithoutCancel(ctx)
	return c.do(ctx, "cnpj:"+cnpj, func() (Payload, error) {
		return c.next.LookupCNPJ(shared, cnpj)
	})
}

func (c *Coalescing) do(ctx context.Context, key string, fn func() (Payload, error)) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ch := c.group.DoChan(key, func() (any, error) {
		return fn()
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		payload, _ := res.Val.(Payload)
		return payload, nil
	}
}
