// Package feedback models the inline status message shown next to a form
// while identifiers are validated and looked up, and renders it as HTML or as
// a terminal line.
package feedback

import "fmt"

// Kind classifies a feedback message. It doubles as the CSS modifier class.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Message is the transient feedback state of a form. Focus optionally names
// the field that should receive focus when the message is shown.
type Message struct {
	Kind  Kind   `json:"kind" yaml:"kind"`
	Text  string `json:"message" yaml:"message"`
	Focus string `json:"focus,omitempty" yaml:"focus,omitempty"`
}

// IsZero reports whether no message has been set.
func (m Message) IsZero() bool {
	return m.Kind == "" && m.Text == ""
}

func (m Message) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("[%s] %s", m.Kind, m.Text)
}

// Info builds an informational message.
func Info(text string) Message {
	return Message{Kind: KindInfo, Text: text}
}

// Success builds a success message.
func Success(text string) Message {
	return Message{Kind: KindSuccess, Text: text}
}

// Error builds an error message that moves focus to field when non-empty.
func Error(text, field string) Message {
	return Message{Kind: KindError, Text: text, Focus: field}
}
