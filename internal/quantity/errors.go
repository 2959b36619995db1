package quantity

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, comparable with errors.Is.
var (
	// ErrIncompatibleUnits is the cause of every DimensionalityError.
	ErrIncompatibleUnits = constError("incompatible units")

	// ErrUnknownUnit is returned for unit tokens the registry does not define.
	ErrUnknownUnit = constError("unknown unit")

	// ErrInvalidSyntax is returned for malformed unit expressions.
	ErrInvalidSyntax = constError("invalid unit syntax")

	// ErrInvalidMagnitude is returned for magnitudes that are not finite numbers.
	ErrInvalidMagnitude = constError("invalid magnitude")
)

// DimensionalityError reports an operation between units of different dimensions,
// or a unit outside the family required by a Kind.
type DimensionalityError struct {
	From string
	To   string
}

func (e *DimensionalityError) Error() string {
	return fmt.Sprintf("cannot convert from %q to %q: %s", e.From, e.To, ErrIncompatibleUnits)
}

// Unwrap returns ErrIncompatibleUnits.
func (e *DimensionalityError) Unwrap() error { return ErrIncompatibleUnits }

// UnitParseError reports text the registry could not turn into a quantity or unit.
type UnitParseError struct {
	Text   string
	Reason string
	Err    error
}

func (e *UnitParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("parsing %q: %v", e.Text, e.Err)
	}
	return fmt.Sprintf("parsing %q: %v: %s", e.Text, e.Err, e.Reason)
}

// Unwrap returns the sentinel cause.
func (e *UnitParseError) Unwrap() error { return e.Err }
