package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrMissingFiller is returned when a session is built without a filler.
	ErrMissingFiller = errors.New("tui: missing filler")
)
