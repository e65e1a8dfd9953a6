package feedback

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// TerminalRenderer prints feedback as single prefixed lines, coloured when the
// destination is a terminal.
type TerminalRenderer struct {
	out    io.Writer
	color  bool
	styles map[Kind]lipgloss.Style
}

// NewTerminalRenderer writes to out. Colour is enabled when out is a TTY.
func NewTerminalRenderer(out io.Writer) *TerminalRenderer {
	if out == nil {
		out = os.Stdout
	}
	return &TerminalRenderer{
		out:   out,
		color: isTerminal(out),
		styles: map[Kind]lipgloss.Style{
			KindInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			KindSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
			KindError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		},
	}
}

// WithColor forces colour on or off.
func (r *TerminalRenderer) WithColor(enabled bool) *TerminalRenderer {
	r.color = enabled
	return r
}

// Format returns the line for msg without a trailing newline.
func (r *TerminalRenderer) Format(msg Message) string {
	if msg.IsZero() {
		return ""
	}
	prefix := prefixFor(msg.Kind)
	line := prefix + " " + msg.Text
	if !r.color {
		return line
	}
	style, ok := r.styles[msg.Kind]
	if !ok {
		return line
	}
	return style.Render(prefix) + " " + msg.Text
}

// Show writes msg followed by a newline.
func (r *TerminalRenderer) Show(msg Message) error {
	line := r.Format(msg)
	if line == "" {
		return nil
	}
	_, err := io.WriteString(r.out, line+"\n")
	return err
}

func prefixFor(kind Kind) string {
	switch kind {
	case KindSuccess:
		return "✔"
	case KindError:
		return "✖"
	default:
		return "…"
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
