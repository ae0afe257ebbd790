package duckchat

import (
	"errors"
	"fmt"
)

// Sentinel errors for session establishment. Callers match with errors.Is.
var (
	// ErrSessionInit reports that Start could not produce a session.
	ErrSessionInit = errors.New("session init failed")

	// ErrHandshake reports a failed token handshake: the status request
	// errored, returned a non-success status, or carried no token header.
	ErrHandshake = errors.New("handshake failed")

	// ErrMissingToken reports a success response without the token header.
	ErrMissingToken = errors.New("response carries no session token header")

	// ErrStreamInterrupted reports a response body that failed mid-stream.
	// It arrives in the terminal Fragment's Err field; the exchange is not
	// committed in that case.
	ErrStreamInterrupted = errors.New("stream interrupted")
)

// TransportError describes an HTTP-level failure: either the request never
// produced a response (Status == 0) or the server answered with a
// non-success status.
type TransportError struct {
	// Status is the HTTP status code, or 0 when no response arrived.
	Status int

	// Reason is the HTTP status text, or a short description of the
	// network failure.
	Reason string

	// Body holds the leading bytes of the error response body, if any.
	Body string

	err error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("transport: %s", e.Reason)
	case e.Body != "":
		return fmt.Sprintf("transport: %d %s: %s", e.Status, e.Reason, e.Body)
	default:
		return fmt.Sprintf("transport: %d %s", e.Status, e.Reason)
	}
}

// Unwrap exposes the underlying network error, when one exists.
func (e *TransportError) Unwrap() error { return e.err }
