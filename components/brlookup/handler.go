package brlookup

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/brasilapi"
	"github.com/goliatone/go-formfill/pkg/feedback"
	"github.com/goliatone/go-formfill/pkg/fill"
	"github.com/goliatone/go-formfill/pkg/form"
	"github.com/goliatone/go-formfill/pkg/mask"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// LookupData is the payload returned for a lookup request.
type LookupData struct {
	Kind         mask.Kind         `json:"kind"`
	Digits       string            `json:"digits"`
	Formatted    string            `json:"formatted"`
	Outcome      fill.Outcome      `json:"outcome"`
	Session      string            `json:"session,omitempty"`
	Fields       map[string]string `json:"fields"`
	Feedback     feedback.Message  `json:"feedback"`
	FeedbackHTML string            `json:"feedback_html,omitempty"`
}

type lookupResponse struct {
	Data LookupData `json:"data"`
}

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options
// value. The filler and upstream client are created once and shared by all
// requests; every request gets its own form.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })

	filler, err := fill.New(opts.lookup(), opts.fillOptions()...)
	if err != nil {
		return errorHandler(opts.Logger, err)
	}
	html, err := feedback.NewHTMLRenderer(feedback.WithTheme(opts.Theme))
	if err != nil {
		return errorHandler(opts.Logger, err)
	}
	return &lookupHandler{opts: opts, filler: filler, html: html}
}

type lookupHandler struct {
	opts   Options
	filler *fill.Filler
	html   *feedback.HTMLRenderer

	openAPIMu   sync.Mutex
	openAPIDocs map[string][]byte
}

func (h *lookupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if h.opts.Guard != nil {
		if err := h.opts.Guard(r); err != nil {
			writeGuardError(w, err)
			return
		}
	}

	segments := pathSegments(r.URL)
	if len(segments) > 0 && segments[len(segments)-1] == "openapi.json" {
		h.serveOpenAPI(w, r)
		return
	}

	kind, raw, ok := h.parseTarget(r, segments)
	if !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	data, status := h.lookup(r, kind, raw)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(lookupResponse{Data: data})
}

func (h *lookupHandler) lookup(r *http.Request, kind mask.Kind, raw string) (LookupData, int) {
	field := fill.FieldCEP
	if kind == mask.KindCNPJ {
		field = fill.FieldCNPJ
	}

	f := form.NewWithFields(h.filler.Targets()...)
	f.Replace(field, kind.Format(raw))

	var res fill.Result
	if kind == mask.KindCNPJ {
		res = h.filler.FillCNPJ(r.Context(), f, raw)
	} else {
		res = h.filler.FillCEP(r.Context(), f, raw)
	}

	msg := f.Feedback()
	data := LookupData{
		Kind:      kind,
		Digits:    res.Digits,
		Formatted: kind.Format(res.Digits),
		Outcome:   res.Outcome,
		Session:   res.Session,
		Fields:    f.Values(),
		Feedback:  msg,
	}
	if rendered, err := h.html.Render(msg); err == nil {
		data.FeedbackHTML = rendered
	} else {
		h.opts.Logger.Warn("feedback render failed", zap.Error(err))
	}
	return data, statusFor(res)
}

func (h *lookupHandler) parseTarget(r *http.Request, segments []string) (mask.Kind, string, bool) {
	query := strings.TrimSpace(r.URL.Query().Get(h.opts.ValueParam))

	if len(segments) > 0 {
		if kind, ok := mask.ParseKind(segments[len(segments)-1]); ok && query != "" {
			return kind, query, true
		}
	}
	if len(segments) < 2 {
		return "", "", false
	}
	kind, ok := mask.ParseKind(segments[len(segments)-2])
	if !ok {
		return "", "", false
	}
	return kind, segments[len(segments)-1], true
}

func statusFor(res fill.Result) int {
	switch res.Outcome {
	case fill.OutcomeFilled:
		return http.StatusOK
	case fill.OutcomeInvalid:
		return http.StatusUnprocessableEntity
	}
	if brasilapi.IsNotFound(res.Err) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// pathSegments splits the escaped path so an encoded slash inside a masked
// CNPJ stays within its segment.
func pathSegments(u *url.URL) []string {
	if u == nil {
		return nil
	}
	trimmed := strings.Trim(u.EscapedPath(), "/")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if decoded, err := url.PathUnescape(part); err == nil {
			part = decoded
		}
		out = append(out, part)
	}
	return out
}

// errorHandler answers 500 for a handler that could not be built; the cause is
// logged once here.
func errorHandler(logger *zap.Logger, err error) http.Handler {
	logger.Error("lookup handler unavailable", zap.Error(err))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	})
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
