package services

import (
	"errors"
	"fmt"
)

// Kind classifies a Failure for the HTTP boundary.
type Kind int

const (
	// KindInternal covers generation, resolution and persistence failures.
	KindInternal Kind = iota + 1
	// KindNotFound is a point lookup that found no row. It is not alarming.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Failure is the uniform error surfaced by the service layer once a failure
// has been handed to the error reporter. Label is the short, human-readable
// summary; Message carries the underlying detail.
type Failure struct {
	Kind    Kind
	Service string
	Label   string
	Message string
	Cause   error
}

// Error implements error.
func (f *Failure) Error() string {
	if f.Message == "" {
		return f.Label
	}
	return fmt.Sprintf("%s: %s", f.Label, f.Message)
}

// Unwrap returns the underlying cause.
func (f *Failure) Unwrap() error { return f.Cause }

// AsFailure extracts a *Failure from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsNotFound reports whether err is a not-found Failure.
func IsNotFound(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == KindNotFound
}
