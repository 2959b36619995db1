package model

import (
	"fmt"

	"github.com/rshade/tempscore/internal/quantity"
)

// UnknownYear marks a realization whose year could not be determined.
const UnknownYear = 0

// Realization is one observed or known-missing data point.
type Realization struct {
	Year  int
	Value quantity.Optional
}

// YearKnown reports whether the realization carries a real year.
func (r Realization) YearKnown() bool { return r.Year != UnknownYear }

// Add sums two realizations of the same year. Missing is the identity.
// Mismatched years are a programming error and panic.
func (r Realization) Add(o Realization) (Realization, error) {
	if r.Year != o.Year {
		panic(fmt.Sprintf("model: adding realizations of different years %d and %d", r.Year, o.Year))
	}
	sum, err := r.Value.Add(o.Value)
	if err != nil {
		return Realization{}, err
	}
	return Realization{Year: r.Year, Value: sum}, nil
}

// Equal compares two realizations of the same year; two missing values are equal.
// Mismatched years are a programming error and panic.
func (r Realization) Equal(o Realization) bool {
	if r.Year != o.Year {
		panic(fmt.Sprintf("model: comparing realizations of different years %d and %d", r.Year, o.Year))
	}
	return r.Value.Equal(o.Value)
}

// ScopeSeries holds one realization series per scope.
type ScopeSeries map[Scope][]Realization

// Get returns the series for scope, nil when absent.
func (s ScopeSeries) Get(scope Scope) []Realization {
	if s == nil {
		return nil
	}
	return s[scope]
}

// HistoricData is a company's normalized historic record.
type HistoricData struct {
	Productions          []Realization
	Emissions            ScopeSeries
	EmissionsIntensities ScopeSeries
}

// IsEmpty reports whether no series carries any realization.
func (h *HistoricData) IsEmpty() bool {
	if h == nil {
		return true
	}
	if len(h.Productions) > 0 {
		return false
	}
	for _, series := range []ScopeSeries{h.Emissions, h.EmissionsIntensities} {
		for _, rs := range series {
			if len(rs) > 0 {
				return false
			}
		}
	}
	return true
}
