package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLockedInvoice is returned when an edit or delete targets a paid invoice
	ErrLockedInvoice = errors.New("invoice is paid and locked")

	// ErrNotFound is returned when an edit references an unknown identifier
	ErrNotFound = errors.New("not found")

	// ErrNoClientEmail is returned when dispatching to a client without an email address
	ErrNoClientEmail = errors.New("client has no email address")
)

// ValidationReason identifies why an entity failed validation
type ValidationReason string

const (
	ReasonMissingClient ValidationReason = "missing_client"
	ReasonEmptyItems    ValidationReason = "empty_items"
	ReasonInvalidField  ValidationReason = "invalid_field"
)

// ValidationError reports an entity that cannot be persisted as-is
type ValidationError struct {
	Reason ValidationReason
	Field  string
	Detail string
}

var (
	ErrMissingClient   = &ValidationError{Reason: ReasonMissingClient}
	ErrEmptyItems      = &ValidationError{Reason: ReasonEmptyItems}
	ErrNegativeTaxRate = &ValidationError{Reason: ReasonInvalidField, Field: "taxRate", Detail: "cannot be negative"}
)

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingClient:
		return "validation failed: invoice has no client"
	case ReasonEmptyItems:
		return "validation failed: invoice has no line items"
	}
	if e.Detail != "" {
		return fmt.Sprintf("validation failed: %s %s", e.Field, e.Detail)
	}
	return fmt.Sprintf("validation failed: %s", e.Field)
}

// Is matches on reason, and on field when the target names one
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	if t.Reason != e.Reason {
		return false
	}
	return t.Field == "" || t.Field == e.Field
}

// IsValidation returns true if err carries a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
