package domain

import (
	"errors"
	"strings"
)

// --- ERROR KINDS ---
// Closed set. Every failure raised by the core wraps exactly one of them,
// so callers branch with errors.Is(err, domain.ErrNotFound).
var (
	ErrValidation    = errors.New("validation error")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrAuth          = errors.New("unauthorized")
	ErrConflict      = errors.New("conflict")
)

// ErrStaleWrite is the cause attached to version conflicts. Unlike other
// conflicts it is safe to retry after re-reading.
var ErrStaleWrite = errors.New("stale write")

// Error carries the kind plus the context of the failure site.
type Error struct {
	Kind   error
	Entity string // "profile", "post", "comment"
	Field  string
	Value  string
	Msg    string // human-readable, safe to show to clients
	Err    error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Entity != "" {
		b.WriteString(e.Entity)
		b.WriteString(": ")
	}
	b.WriteString(e.Message())
	if e.Field != "" {
		b.WriteString(" (field=")
		b.WriteString(e.Field)
		if e.Value != "" {
			b.WriteString(", value=")
			b.WriteString(e.Value)
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Message is the fixed client-facing text.
func (e *Error) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// --- CONSTRUCTORS ---

func NewValidationError(entity, field, value, msg string) *Error {
	return &Error{Kind: ErrValidation, Entity: entity, Field: field, Value: value, Msg: msg}
}

func NewNotFoundError(entity, id, msg string) *Error {
	return &Error{Kind: ErrNotFound, Entity: entity, Field: "id", Value: id, Msg: msg}
}

func NewAlreadyExistsError(entity, id, msg string) *Error {
	return &Error{Kind: ErrAlreadyExists, Entity: entity, Field: "id", Value: id, Msg: msg}
}

func NewAuthError(msg string, cause error) *Error {
	return &Error{Kind: ErrAuth, Msg: msg, Err: cause}
}

func NewConflictError(entity, msg string) *Error {
	return &Error{Kind: ErrConflict, Entity: entity, Msg: msg}
}

func NewStaleWriteError(entity, id string) *Error {
	return &Error{Kind: ErrConflict, Entity: entity, Field: "version", Value: id,
		Msg: "Concurrent modification, retry", Err: ErrStaleWrite}
}

// KindOf returns the kind sentinel wrapped by err, or nil for foreign errors.
func KindOf(err error) error {
	for _, k := range []error{ErrValidation, ErrAlreadyExists, ErrNotFound, ErrAuth, ErrConflict} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// PublicMessage extracts the client-facing text of a domain error.
func PublicMessage(err error) (string, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Message(), true
	}
	return "", false
}
