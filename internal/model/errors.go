package model

import (
	"errors"
	"fmt"
)

// Validation causes, comparable with errors.Is through a ValidationError.
var (
	ErrTargetYearOrder    = errors.New("target years out of order")
	ErrReductionRange     = errors.New("target reduction must be between 0 and 1")
	ErrUnknownScope       = errors.New("unknown scope")
	ErrUnknownTargetType  = errors.New("unknown target type")
	ErrUnknownSector      = errors.New("unknown sector")
	ErrMissingGHG         = errors.New("missing historic emissions or intensity data")
	ErrScopeDecomposition = errors.New("scope decomposition incomplete")
	ErrMissingIdentity    = errors.New("company id is required")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrUnknownField       = errors.New("unknown field")
	ErrAlreadyProjected   = errors.New("projections already attached")
)

// Warning kinds logged in the "warning" field of non-fatal events.
const (
	WarningMissingData = "missing_data"
	WarningLookup      = "lookup"
)

// ValidationError is a fatal, per-company input problem. Field names the
// offending input using its interchange key.
type ValidationError struct {
	CompanyID string
	Field     string
	Err       error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("company %q: %v", e.CompanyID, e.Err)
	}
	return fmt.Sprintf("company %q: %s: %v", e.CompanyID, e.Field, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid builds a ValidationError.
func Invalid(companyID, field string, err error) *ValidationError {
	return &ValidationError{CompanyID: companyID, Field: field, Err: err}
}
