package feedback

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formfill/pkg/render/template"
	"github.com/goliatone/go-formfill/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

const defaultTemplate = "templates/feedback"

// HTMLOption configures an HTMLRenderer.
type HTMLOption func(*HTMLRenderer)

// WithTemplateRenderer swaps the template engine, e.g. to load themed
// partials from disk.
func WithTemplateRenderer(engine template.TemplateRenderer) HTMLOption {
	return func(r *HTMLRenderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithTemplateName overrides the template used for the feedback element.
func WithTemplateName(name string) HTMLOption {
	return func(r *HTMLRenderer) {
		if name = strings.TrimSpace(name); name != "" {
			r.template = name
		}
	}
}

// WithTheme attaches a go-theme renderer config. Its CSS variables are
// emitted as an inline style and a "feedback" partial, when present,
// replaces the default template. The partial is a template file path; bare
// names resolve against the working directory and the extension defaults to
// ".tpl".
func WithTheme(cfg *theme.RendererConfig) HTMLOption {
	return func(r *HTMLRenderer) {
		r.theme = cfg
	}
}

// HTMLRenderer renders feedback messages as the live-region element forms
// display under their fields.
type HTMLRenderer struct {
	engine   template.TemplateRenderer
	template string
	theme    *theme.RendererConfig
}

// NewHTMLRenderer builds a renderer backed by the embedded pongo2 template.
func NewHTMLRenderer(opts ...HTMLOption) (*HTMLRenderer, error) {
	r := &HTMLRenderer{template: defaultTemplate}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	var loadOpts []gotemplate.Option
	if r.theme != nil && r.template == defaultTemplate {
		if partial := strings.TrimSpace(r.theme.Partials["feedback"]); partial != "" {
			r.template = partial
			if r.engine == nil {
				dir, name, ext := splitPartial(partial)
				r.template = name
				loadOpts = append(loadOpts, gotemplate.WithBaseDir(dir), gotemplate.WithExtension(ext))
			}
		}
	}
	if r.engine == nil {
		engine, err := gotemplate.New(append(loadOpts, gotemplate.WithFS(templatesFS))...)
		if err != nil {
			return nil, fmt.Errorf("feedback: template engine: %w", err)
		}
		r.engine = engine
	}
	if r.template != defaultTemplate {
		if _, err := r.Render(Info("ok")); err != nil {
			return nil, fmt.Errorf("feedback: template %q: %w", r.template, err)
		}
	}
	return r, nil
}

// Render writes the element for msg. A zero message renders nothing.
func (r *HTMLRenderer) Render(msg Message, out ...io.Writer) (string, error) {
	if r == nil || r.engine == nil {
		return "", errors.New("feedback: renderer not initialised")
	}
	if msg.IsZero() {
		return "", nil
	}
	kind := msg.Kind
	if kind == "" {
		kind = KindInfo
	}
	data := map[string]any{
		"kind":  string(kind),
		"text":  SanitizeText(msg.Text),
		"focus": msg.Focus,
		"style": r.style(),
	}
	html, err := r.engine.RenderTemplate(r.template, data)
	if err != nil {
		return "", fmt.Errorf("feedback: render: %w", err)
	}
	html = strings.TrimRight(html, "\n")
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, html); err != nil {
			return "", err
		}
	}
	return html, nil
}

func splitPartial(partial string) (dir, name, ext string) {
	dir = filepath.Dir(partial)
	name = filepath.Base(partial)
	ext = filepath.Ext(name)
	if ext == "" {
		ext = ".tpl"
	}
	return dir, name, ext
}

func (r *HTMLRenderer) style() string {
	if r.theme == nil || len(r.theme.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(r.theme.CSSVars))
	for key := range r.theme.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+r.theme.CSSVars[key])
	}
	return strings.Join(parts, "; ")
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// SanitizeText strips markup from text that may originate from upstream
// registries before it is placed in a page. The result is HTML-escaped text.
func SanitizeText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(raw))
}
