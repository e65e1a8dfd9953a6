package brlookup

import (
	"fmt"
	"net/http"
	"path"
	"strings"
)

// Mux accepts subtree registrations, e.g. *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath is the prefix the lookup routes answer on below basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath)
}

// RegisterRoutes mounts a new lookup handler below basePath and returns the
// pattern it was registered with.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (string, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, basePath, opts)
}

// RegisterRoutesWithOptions builds a handler from opts and mounts it under
// basePath.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("brlookup: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	opts.RoutePath = mountPath(basePath, opts.RoutePath)
	return register(mux, opts.RoutePath, HandlerWithOptions(opts))
}

// register mounts handler on the subtree rooted at mount.
func register(mux Mux, mount string, handler http.Handler) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("brlookup: missing mux")
	}
	pattern := mount + "/"
	if mount == "/" {
		pattern = mount
	}
	mux.Handle(pattern, handler)
	return pattern, nil
}

// mountPath joins basePath and routePath into a clean absolute prefix with no
// trailing slash.
func mountPath(basePath, routePath string) string {
	return path.Join("/", strings.TrimSpace(basePath), strings.TrimSpace(routePath))
}
