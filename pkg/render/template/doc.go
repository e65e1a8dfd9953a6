// Package template defines the template rendering seam used by the HTML
// feedback renderer. The pongo2-backed implementation lives in gotemplate.
package template
