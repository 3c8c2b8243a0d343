// Package errs defines the two error kinds the accounting core distinguishes:
// business errors, which the caller can correct (bad input, missing rate,
// out-of-order transaction), and system errors, which come from an external
// collaborator and are candidates for retry by the ingestion layer.
//
// The core never swallows either kind; everything surfaces to the caller with
// a descriptive message.
package errs

import (
	"errors"
	"fmt"
)

// Kind discriminates the error taxonomy.
type Kind int

const (
	// KindBusiness marks caller-correctable errors.
	KindBusiness Kind = iota
	// KindSystem marks integration or infrastructure failures.
	KindSystem
)

func (k Kind) String() string {
	switch k {
	case KindBusiness:
		return "business"
	case KindSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Error is a classified error. It wraps an underlying cause when built with
// a %w verb.
type Error struct {
	kind Kind
	err  error
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return errors.Unwrap(e.err) }

// Kind returns the classification of the error.
func (e *Error) Kind() Kind { return e.kind }

// Businessf creates a business error with a formatted message.
func Businessf(format string, args ...any) error {
	return &Error{kind: KindBusiness, err: fmt.Errorf(format, args...)}
}

// Systemf creates a system error with a formatted message.
func Systemf(format string, args ...any) error {
	return &Error{kind: KindSystem, err: fmt.Errorf(format, args...)}
}

// IsBusiness reports whether err is, or wraps, a business error.
func IsBusiness(err error) bool { return is(err, KindBusiness) }

// IsSystem reports whether err is, or wraps, a system error.
func IsSystem(err error) bool { return is(err, KindSystem) }

func is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.kind == kind
}
