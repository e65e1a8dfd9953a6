package brlookup

import "net/http"

// Component bundles the lookup handler, its configuration and routing helpers.
type Component struct {
	opts    Options
	handler http.Handler
}

// New constructs a component with default options plus any overrides. The
// handler is built once so upstream coalescing spans every request.
func New(fns ...OptionFn) *Component {
	opts := NewOptions(fns...)
	return &Component{opts: opts, handler: HandlerWithOptions(opts)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns the net/http handler for lookups.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	return c.handler
}

// MountPath returns where the component lives under basePath.
func (c *Component) MountPath(basePath string) string {
	return mountPath(basePath, c.Options().RoutePath)
}

// RegisterRoutes mounts the component's own handler under basePath on mux,
// so requests on every mount share its upstream coalescing.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return register(mux, c.MountPath(basePath), c.handler)
}
