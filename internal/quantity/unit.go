package quantity

import (
	"strings"

	"gonum.org/v1/gonum/unit"
)

// Unit is a parsed unit: its canonical text plus an SI scale factor and
// dimension vector. The zero Unit is dimensionless.
type Unit struct {
	text string
	si   *unit.Unit
}

// Dimensionless is the unit of pure numbers.
//
//nolint:gochecknoglobals // Immutable value.
var Dimensionless = Unit{}

// ParseUnit parses unit text such as "t CO2/(t Steel)" after normalization.
// Empty text yields Dimensionless.
func (r *Registry) ParseUnit(text string) (Unit, error) {
	canonical := r.normalize(text)
	if canonical == "" {
		return Dimensionless, nil
	}
	si, err := r.parseExpression(canonical)
	if err != nil {
		return Unit{}, err
	}
	return Unit{text: canonical, si: si}, nil
}

// MustParseUnit is ParseUnit for package-level constants and tests. It panics on error.
func (r *Registry) MustParseUnit(text string) Unit {
	u, err := r.ParseUnit(text)
	if err != nil {
		panic(err)
	}
	return u
}

func (u Unit) base() *unit.Unit {
	if u.si == nil {
		return unit.New(1, nil)
	}
	return u.si.Copy()
}

// String returns the canonical text, "dimensionless" for the zero Unit.
func (u Unit) String() string {
	if u.text == "" {
		return "dimensionless"
	}
	return u.text
}

// Text returns the canonical text, empty for dimensionless.
func (u Unit) Text() string { return u.text }

// Factor returns the SI scale of one of this unit.
func (u Unit) Factor() float64 { return u.base().Value() }

// Dimensions returns a copy of the unit's dimension vector.
func (u Unit) Dimensions() unit.Dimensions { return nonZero(u.base().Dimensions()) }

// IsDimensionless reports whether the unit has no dimensions.
func (u Unit) IsDimensionless() bool { return len(u.Dimensions()) == 0 }

// Compatible reports whether values of u and o can be converted into each other.
func (u Unit) Compatible(o Unit) bool {
	return unit.DimensionsMatch(u.base(), o.base())
}

// Mul returns the product unit.
func (u Unit) Mul(o Unit) Unit {
	return Unit{text: joinText(u.text, "*", o.text), si: u.base().Mul(o.base())}
}

// Div returns the quotient unit.
func (u Unit) Div(o Unit) Unit {
	return Unit{text: joinText(u.text, "/", o.text), si: u.base().Div(o.base())}
}

// SameAs reports whether u and o have identical scale and dimensions.
func (u Unit) SameAs(o Unit) bool {
	return u.Compatible(o) && u.Factor() == o.Factor()
}

// joinText renders "a op b". Operators are left-associative, so only a compound
// right operand of a division needs parentheses.
func joinText(a, op, b string) string {
	switch {
	case b == "":
		return a
	case a == "" && op == "*":
		return b
	case a == "":
		a = "1"
	}
	if op == "/" && isCompound(b) {
		b = "(" + b + ")"
	}
	if op == "*" {
		return a + " " + b
	}
	return a + "/" + b
}

func isCompound(s string) bool {
	return strings.ContainsAny(s, " */") && !(strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && balanced(s[1:len(s)-1]))
}

func balanced(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
