package form

import (
	"strings"
	"sync"

	"github.com/goliatone/go-formfill/pkg/feedback"
)

// EventType mirrors the DOM events raised on field updates.
type EventType string

const (
	EventInput  EventType = "input"
	EventChange EventType = "change"
)

// Event describes a field update. Synthetic events come from programmatic
// writes (Set); user interaction (Type, Commit) raises non-synthetic ones.
type Event struct {
	Type      EventType
	Field     string
	Value     string
	Synthetic bool
}

// Listener receives events in dispatch order, on the dispatching goroutine.
type Listener func(Event)

// Field is a single input. Either ID or Name may be empty.
type Field struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

// Key returns the identifier used in snapshots, preferring the id.
func (f Field) Key() string {
	if f.ID != "" {
		return f.ID
	}
	return f.Name
}

// Control is a button or link that is disabled while the form is busy.
type Control struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// Memory is a concurrency safe in-memory form.
type Memory struct {
	mu        sync.Mutex
	fields    []*Field
	controls  []*Control
	feedback  feedback.Message
	focus     string
	loading   bool
	listeners []Listener
}

// Option configures a Memory form.
type Option func(*Memory)

// WithField appends a field addressed by both id and name.
func WithField(id, value string) Option {
	return func(m *Memory) {
		m.fields = append(m.fields, &Field{ID: id, Name: id, Value: value})
	}
}

// WithNamedField appends a field that can only be addressed by name.
func WithNamedField(name, value string) Option {
	return func(m *Memory) {
		m.fields = append(m.fields, &Field{Name: name, Value: value})
	}
}

// WithControl appends an interactive control.
func WithControl(label string) Option {
	return func(m *Memory) {
		m.controls = append(m.controls, &Control{Label: label})
	}
}

// New builds a form from options, in declaration order.
func New(opts ...Option) *Memory {
	m := &Memory{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// NewWithFields builds a form with one id-addressable empty field per name.
func NewWithFields(names ...string) *Memory {
	opts := make([]Option, 0, len(names))
	for _, name := range names {
		opts = append(opts, WithField(name, ""))
	}
	return New(opts...)
}

// Subscribe registers fn for subsequent events.
func (m *Memory) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Has reports whether a field resolves for idOrName.
func (m *Memory) Has(idOrName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookupLocked(idOrName) != nil
}

// Value returns the current value of a field.
func (m *Memory) Value(idOrName string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.lookupLocked(idOrName)
	if f == nil {
		return "", false
	}
	return f.Value, true
}

// Set writes value to the field resolved by idOrName and raises synthetic
// input and change events. Empty values and missing fields are ignored; the
// return value reports whether a write happened.
func (m *Memory) Set(idOrName, value string) bool {
	if value == "" {
		return false
	}
	key, ok := m.assign(idOrName, value)
	if !ok {
		return false
	}
	m.dispatch(Event{Type: EventInput, Field: key, Value: value, Synthetic: true})
	m.dispatch(Event{Type: EventChange, Field: key, Value: value, Synthetic: true})
	return true
}

// Replace overwrites a field value without raising events. Input handlers use
// it to apply a mask to what the user typed.
func (m *Memory) Replace(idOrName, value string) bool {
	_, ok := m.assign(idOrName, value)
	return ok
}

// Type simulates the user editing a field: the raw value is stored and an
// input event is raised.
func (m *Memory) Type(idOrName, raw string) bool {
	key, ok := m.assign(idOrName, raw)
	if !ok {
		return false
	}
	value, _ := m.Value(key)
	m.dispatch(Event{Type: EventInput, Field: key, Value: value})
	return true
}

// Commit simulates the user leaving a field, raising a change event with the
// current value.
func (m *Memory) Commit(idOrName string) bool {
	m.mu.Lock()
	f := m.lookupLocked(idOrName)
	if f == nil {
		m.mu.Unlock()
		return false
	}
	ev := Event{Type: EventChange, Field: f.Key(), Value: f.Value}
	m.mu.Unlock()

	m.dispatch(ev)
	return true
}

// ShowFeedback replaces the current feedback and records its focus target.
func (m *Memory) ShowFeedback(msg feedback.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback = msg
	if msg.Focus != "" && m.lookupLocked(msg.Focus) != nil {
		m.focus = msg.Focus
	}
}

// Feedback returns the message currently displayed.
func (m *Memory) Feedback() feedback.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.feedback
}

// Focused returns the field that last received focus through feedback.
func (m *Memory) Focused() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focus
}

// SetLoading marks the form busy and disables or re-enables every control.
func (m *Memory) SetLoading(loading bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = loading
	for _, c := range m.controls {
		c.Disabled = loading
	}
}

// Loading reports whether a lookup is in flight.
func (m *Memory) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Controls returns a copy of the controls.
func (m *Memory) Controls() []Control {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Control, 0, len(m.controls))
	for _, c := range m.controls {
		out = append(out, *c)
	}
	return out
}

// Fields returns a copy of the fields in declaration order.
func (m *Memory) Fields() []Field {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Field, 0, len(m.fields))
	for _, f := range m.fields {
		out = append(out, *f)
	}
	return out
}

// Values snapshots field values keyed by id (or name when no id is set).
// Empty fields are omitted.
func (m *Memory) Values() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		if f.Value == "" {
			continue
		}
		out[f.Key()] = f.Value
	}
	return out
}

func (m *Memory) assign(idOrName, value string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.lookupLocked(idOrName)
	if f == nil {
		return "", false
	}
	f.Value = value
	return f.Key(), true
}

// lookupLocked resolves by id first, then by name.
func (m *Memory) lookupLocked(idOrName string) *Field {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil
	}
	for _, f := range m.fields {
		if f.ID == idOrName {
			return f
		}
	}
	for _, f := range m.fields {
		if f.Name == idOrName {
			return f
		}
	}
	return nil
}

func (m *Memory) dispatch(ev Event) {
	m.mu.Lock()
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}
