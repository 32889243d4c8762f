// Package failures maps errors onto the kinds surfaced by the HTTP endpoints.
package failures

import (
	"errors"
	"net/http"
)

// Kind is an endpoint-level error classification.
type Kind string

const (
	InvalidInput              Kind = "InvalidInput"
	FormatNotFound            Kind = "FormatNotFound"
	HumanVerificationRequired Kind = "HumanVerificationRequired"
	UpstreamUnavailable       Kind = "UpstreamUnavailable"
)

// Error carries a Kind, a caller-facing message and the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an *Error with no cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap returns an *Error around err.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports the Kind of err. Unclassified errors are UpstreamUnavailable.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return UpstreamUnavailable
}

// Status returns the HTTP status code for kind.
func Status(kind Kind) int {
	switch kind {
	case InvalidInput:
		return http.StatusBadRequest
	case FormatNotFound:
		return http.StatusNotFound
	case HumanVerificationRequired:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
