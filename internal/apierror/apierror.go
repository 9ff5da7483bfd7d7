// Package apierror provides standardized error types and response structures.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
)

// Kind classifies a business error for HTTP mapping and retry decisions.
type Kind int

const (
	// KindNotFound — a referenced customer/variant/warehouse/bank-account/entry
	// does not exist. Terminal; no retry.
	KindNotFound Kind = iota
	// KindInvalidArgument — malformed or out-of-domain input (negative
	// quantities, missing required reference, duplicate sale ledger entry).
	KindInvalidArgument
	// KindInvalidOperation — a business-rule violation discovered during
	// validation (balance/due would go negative, edit outside the allowed
	// window, insufficient warehouse stock, inactive customer).
	KindInvalidOperation
	// KindConflict — optimistic-lock / serialization failure; retried by the
	// caller before being surfaced.
	KindConflict
)

// Error is the canonical business error carried from services to handlers.
// Messages are written for end users: they name the offending entity ids and
// the numeric values involved.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func InvalidOperation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidOperation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from an error chain. Unclassified errors report -1.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Kind(-1)
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}
