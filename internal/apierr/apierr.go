// Package apierr defines the error-kind taxonomy surfaced to clients of the
// retrieval service.
package apierr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport-layer status mapping.
type Kind string

const (
	InvalidArgument     Kind = "invalid_argument"
	NotInitialized      Kind = "not_initialized"
	CollectionMissing   Kind = "collection_missing"
	UpstreamUnavailable Kind = "upstream_unavailable"
	InferenceError      Kind = "inference_error"
	Internal            Kind = "internal"
)

// Error wraps an underlying cause with a client-facing Kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an Error around an existing cause.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind of err if it (or something it wraps) is an *Error,
// else Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}
