// Package quantity implements unit-aware physical and monetary quantities.
//
// A Registry parses "<magnitude> <unit>" text into a Quantity whose unit
// carries a gonum dimension vector. Arithmetic and conversion check dimensional
// compatibility and fail with a *DimensionalityError instead of silently mixing
// units. Currencies are dimensions of their own, so no exchange rate is ever
// applied implicitly.
package quantity

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats/scalar"
)

// Tolerances used by Equal.
const (
	absTolerance = 1e-12
	relTolerance = 1e-9
)

// Quantity is a magnitude paired with a unit.
type Quantity struct {
	magnitude float64
	unit      Unit
}

// New returns magnitude in unit u.
func New(magnitude float64, u Unit) Quantity {
	return Quantity{magnitude: magnitude, unit: u}
}

// Parse parses "<magnitude> <unit>". The magnitude defaults to 1 when omitted.
// Non-finite magnitudes are rejected; use ParseOptional for "nan" values.
func (r *Registry) Parse(text string) (Quantity, error) {
	mag, unitText, err := splitMagnitude(r.normalize(text))
	if err != nil {
		return Quantity{}, err
	}
	if math.IsNaN(mag) || math.IsInf(mag, 0) {
		return Quantity{}, &UnitParseError{Text: text, Reason: "magnitude must be finite", Err: ErrInvalidMagnitude}
	}
	u, err := r.ParseUnit(unitText)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{magnitude: mag, unit: u}, nil
}

// MustParse is Parse that panics on error.
func (r *Registry) MustParse(text string) Quantity {
	q, err := r.Parse(text)
	if err != nil {
		panic(err)
	}
	return q
}

// Magnitude returns the numeric value in the quantity's own unit.
func (q Quantity) Magnitude() float64 { return q.magnitude }

// Unit returns the quantity's unit.
func (q Quantity) Unit() Unit { return q.unit }

// String renders the quantity as "<magnitude> <unit>" with a round-trippable magnitude.
func (q Quantity) String() string {
	m := strconv.FormatFloat(q.magnitude, 'g', -1, 64)
	if q.unit.text == "" {
		return m
	}
	return m + " " + q.unit.text
}

// To converts q into u.
func (q Quantity) To(u Unit) (Quantity, error) {
	if !q.unit.Compatible(u) {
		return Quantity{}, &DimensionalityError{From: q.unit.String(), To: u.String()}
	}
	if q.unit.text == u.text && q.unit.Factor() == u.Factor() {
		return Quantity{magnitude: q.magnitude, unit: u}, nil
	}
	return Quantity{magnitude: q.magnitude * q.unit.Factor() / u.Factor(), unit: u}, nil
}

// MagnitudeIn returns the magnitude of q expressed in u.
func (q Quantity) MagnitudeIn(u Unit) (float64, error) {
	c, err := q.To(u)
	if err != nil {
		return 0, err
	}
	return c.magnitude, nil
}

// Add returns q + o in q's unit.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	c, err := o.To(q.unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{magnitude: q.magnitude + c.magnitude, unit: q.unit}, nil
}

// Sub returns q - o in q's unit.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	c, err := o.To(q.unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{magnitude: q.magnitude - c.magnitude, unit: q.unit}, nil
}

// Mul returns q × o with the product unit.
func (q Quantity) Mul(o Quantity) Quantity {
	return Quantity{magnitude: q.magnitude * o.magnitude, unit: q.unit.Mul(o.unit)}
}

// Div returns q ÷ o with the quotient unit.
func (q Quantity) Div(o Quantity) Quantity {
	return Quantity{magnitude: q.magnitude / o.magnitude, unit: q.unit.Div(o.unit)}
}

// Scale multiplies the magnitude by f.
func (q Quantity) Scale(f float64) Quantity {
	return Quantity{magnitude: q.magnitude * f, unit: q.unit}
}

// Compare returns -1, 0 or +1 comparing q with o, treating values within
// tolerance as equal.
func (q Quantity) Compare(o Quantity) (int, error) {
	c, err := o.To(q.unit)
	if err != nil {
		return 0, err
	}
	switch {
	case scalar.EqualWithinAbsOrRel(q.magnitude, c.magnitude, absTolerance, relTolerance):
		return 0, nil
	case q.magnitude < c.magnitude:
		return -1, nil
	default:
		return 1, nil
	}
}

// Min returns the smaller of q and o, in q's unit.
func (q Quantity) Min(o Quantity) (Quantity, error) {
	c, err := o.To(q.unit)
	if err != nil {
		return Quantity{}, err
	}
	if c.magnitude < q.magnitude {
		return c, nil
	}
	return q, nil
}

// Max returns the larger of q and o, in q's unit.
func (q Quantity) Max(o Quantity) (Quantity, error) {
	c, err := o.To(q.unit)
	if err != nil {
		return Quantity{}, err
	}
	if c.magnitude > q.magnitude {
		return c, nil
	}
	return q, nil
}

// Equal reports domain equality: compatible units and magnitudes equal within
// tolerance after conversion.
func (q Quantity) Equal(o Quantity) bool {
	cmp, err := q.Compare(o)
	return err == nil && cmp == 0
}

// IsZero reports whether the magnitude is zero.
func (q Quantity) IsZero() bool { return q.magnitude == 0 }
