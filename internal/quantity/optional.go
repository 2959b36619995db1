package quantity

import "math"

// Optional is a quantity that may be known to be missing. A missing value
// still carries the unit of its category so series stay homogeneous.
type Optional struct {
	value   Quantity
	present bool
}

// Present wraps a known value.
func Present(q Quantity) Optional { return Optional{value: q, present: true} }

// Missing returns a missing value in unit u.
func Missing(u Unit) Optional { return Optional{value: Quantity{unit: u}} }

// ParseOptional parses like Parse but maps a "nan" magnitude to Missing.
func (r *Registry) ParseOptional(text string) (Optional, error) {
	mag, unitText, err := splitMagnitude(r.normalize(text))
	if err != nil {
		return Optional{}, err
	}
	u, err := r.ParseUnit(unitText)
	if err != nil {
		return Optional{}, err
	}
	if math.IsNaN(mag) {
		return Missing(u), nil
	}
	q, err := r.Parse(text)
	if err != nil {
		return Optional{}, err
	}
	return Present(q), nil
}

// Get returns the value and whether it is present.
func (o Optional) Get() (Quantity, bool) { return o.value, o.present }

// IsMissing reports whether the value is missing.
func (o Optional) IsMissing() bool { return !o.present }

// Unit returns the unit of the value or of its category when missing.
func (o Optional) Unit() Unit { return o.value.unit }

// MustGet returns the value, panicking when it is missing.
func (o Optional) MustGet() Quantity {
	if !o.present {
		panic("quantity: MustGet on missing value")
	}
	return o.value
}

// To converts a present value; a missing value only changes its unit.
func (o Optional) To(u Unit) (Optional, error) {
	if !o.present {
		if !o.value.unit.IsDimensionless() && !o.value.unit.Compatible(u) {
			return Optional{}, &DimensionalityError{From: o.value.unit.String(), To: u.String()}
		}
		return Missing(u), nil
	}
	q, err := o.value.To(u)
	if err != nil {
		return Optional{}, err
	}
	return Present(q), nil
}

// Add sums two optionals. Missing is the identity: a + missing = a.
func (o Optional) Add(p Optional) (Optional, error) {
	switch {
	case !o.present && !p.present:
		return o, nil
	case !p.present:
		return o, nil
	case !o.present:
		if o.value.unit.IsDimensionless() {
			return p, nil
		}
		return p.To(o.value.unit)
	}
	sum, err := o.value.Add(p.value)
	if err != nil {
		return Optional{}, err
	}
	return Present(sum), nil
}

// Mul multiplies two optionals; the result is missing if either side is.
func (o Optional) Mul(p Optional) Optional {
	prod := o.value.unit.Mul(p.value.unit)
	if !o.present || !p.present {
		return Missing(prod)
	}
	return Present(o.value.Mul(p.value))
}

// Equal is domain equality: two missing values are equal, present values
// compare within tolerance.
func (o Optional) Equal(p Optional) bool {
	if !o.present || !p.present {
		return o.present == p.present
	}
	return o.value.Equal(p.value)
}

// String renders a present value like Quantity.String and a missing one as "nan <unit>".
func (o Optional) String() string {
	if o.present {
		return o.value.String()
	}
	if o.value.unit.text == "" {
		return "nan"
	}
	return "nan " + o.value.unit.text
}

// Float returns the magnitude, or NaN when missing. Intended for numeric
// kernels that already handle NaN.
func (o Optional) Float() float64 {
	if !o.present {
		return math.NaN()
	}
	return o.value.magnitude
}
