package quantity

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the quantity as "<magnitude> <unit>".
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.String())
}

// UnmarshalJSON re-parses "<magnitude> <unit>" through the default registry.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("quantity must be a string: %w", err)
	}
	parsed, err := Default().Parse(text)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// MarshalJSON encodes a missing value as null.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return o.value.MarshalJSON()
}

// UnmarshalJSON accepts null, "nan <unit>", or "<magnitude> <unit>".
func (o *Optional) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Missing(Dimensionless)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("quantity must be a string or null: %w", err)
	}
	parsed, err := Default().ParseOptional(text)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// MarshalText lets units appear as map keys and YAML scalars.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.text), nil
}

// UnmarshalText parses a unit through the default registry.
func (u *Unit) UnmarshalText(data []byte) error {
	parsed, err := Default().ParseUnit(string(data))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
