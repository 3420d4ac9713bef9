package errorutil

import (
	"errors"
	"fmt"
)

// Kind classifies a DomainError independently of any transport.
type Kind string

const (
	KindNotFound     Kind = "NotFound"
	KindForbidden    Kind = "Forbidden"
	KindValidation   Kind = "Validation"
	KindUnauthorized Kind = "Unauthorized"
	KindConflict     Kind = "Conflict"
	KindUnexpected   Kind = "Unexpected"
)

// DomainError standardizes application errors.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError by kind, so errors.Is(err, ErrNotFound) works
// for any not-found error regardless of message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == "" && t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound     = &DomainError{Kind: KindNotFound}
	ErrForbidden    = &DomainError{Kind: KindForbidden}
	ErrValidation   = &DomainError{Kind: KindValidation}
	ErrUnauthorized = &DomainError{Kind: KindUnauthorized}
	ErrConflict     = &DomainError{Kind: KindConflict}
	ErrUnexpected   = &DomainError{Kind: KindUnexpected}
)

// NewDomainError constructs a DomainError.
func NewDomainError(kind Kind, code, message string, details map[string]any) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(KindValidation, "VALIDATION_FAILED", message, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return NewDomainError(KindNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource), details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(KindUnauthorized, "UNAUTHORIZED", message, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(KindForbidden, "FORBIDDEN", message, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(KindConflict, "CONFLICT", message, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Kind:    KindUnexpected,
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
		Err:     err,
	}
}

// ToDomainError converts generic errors to DomainError. Anything that is not
// already a DomainError is treated as unexpected.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError(err).(*DomainError)
}

// KindOf reports the kind of err, or KindUnexpected for foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Kind
}
