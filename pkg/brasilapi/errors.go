package brasilapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidLength is returned when an identifier does not carry the exact
// number of digits the endpoint expects. No request is made.
var ErrInvalidLength = errors.New("brasilapi: invalid identifier length")

// HTTPError is implemented by errors that map onto an HTTP status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Code     int
	Resource string
}

func (e *StatusError) Error() string {
	text := http.StatusText(e.Code)
	if text == "" {
		text = "unknown status"
	}
	return fmt.Sprintf("brasilapi: %s lookup failed with status %d (%s)", e.Resource, e.Code, text)
}

func (e *StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusBadGateway
	}
	return e.Code
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}
