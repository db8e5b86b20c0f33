package shared

import "errors"

// Kind classifies a domain failure so callers can tell bad input from wrong timing.
type Kind string

const (
	KindValidation Kind = "validation"
	KindState      Kind = "state"
	KindNotFound   Kind = "not_found"
	KindResource   Kind = "resource"
	KindExternal   Kind = "external"
	KindForbidden  Kind = "forbidden"
	KindInternal   Kind = "internal"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind Kind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

// KindOf returns the Kind of the first DomainError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// CodeOf returns the Code of the first DomainError in err's chain, or "internal_error".
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return "internal_error"
}

// Common domain errors
var (
	ErrInvalidValue      = NewDomainError(KindValidation, "invalid_value", "value must be greater than zero")
	ErrInvalidTransition = NewDomainError(KindState, "invalid_transition", "operation not allowed in current state")
)
