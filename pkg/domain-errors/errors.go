// Package domainerrors defines coded errors for domain and service layers.
//
// Stores return sentinel errors (pkg/platform/sentinel); services translate
// them into coded errors; transport maps codes onto HTTP statuses. Validation
// failures carry a structured field/message list so callers can report every
// broken rule at once instead of the first one found.
package domainerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies a domain error for transport mapping.
type Code string

const (
	CodeValidation         Code = "validation"
	CodeInvariantViolation Code = "invariant_violation"
	CodeBadRequest         Code = "bad_request"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInternal           Code = "internal"
)

// FieldViolation is a single broken validation rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a coded domain error, optionally wrapping a cause and carrying
// field-level violations for CodeValidation.
type Error struct {
	Code       Code
	Message    string
	Violations []FieldViolation

	cause error
}

func (e *Error) Error() string {
	if len(e.Violations) > 0 {
		parts := make([]string, 0, len(e.Violations))
		for _, v := range e.Violations {
			parts = append(parts, v.Field+": "+v.Message)
		}
		return e.Message + " (" + strings.Join(parts, "; ") + ")"
	}
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a coded error with a plain message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf constructs a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal for plain errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ViolationsOf extracts field violations from err, if any.
func ViolationsOf(err error) []FieldViolation {
	var de *Error
	if errors.As(err, &de) {
		return de.Violations
	}
	return nil
}

// Violations accumulates field-level rule failures so multiple broken rules
// surface together in a single validation error.
type Violations struct {
	list []FieldViolation
}

// Add records a broken rule for a field.
func (v *Violations) Add(field, message string) {
	v.list = append(v.list, FieldViolation{Field: field, Message: message})
}

// Addf records a broken rule with a formatted message.
func (v *Violations) Addf(field, format string, args ...any) {
	v.Add(field, fmt.Sprintf(format, args...))
}

// Empty reports whether no violations were recorded.
func (v *Violations) Empty() bool { return len(v.list) == 0 }

// Err returns nil when no violations were recorded, otherwise a CodeValidation
// error carrying every recorded violation.
func (v *Violations) Err() error {
	if len(v.list) == 0 {
		return nil
	}
	return &Error{Code: CodeValidation, Message: "validation failed", Violations: v.list}
}
