package model

import (
	"sort"

	"github.com/rshade/tempscore/internal/quantity"
)

// Projection is a year-indexed intensity series for one scope. Values are
// magnitudes in Unit; Years is strictly increasing.
type Projection struct {
	Scope  Scope
	Unit   quantity.Unit
	Years  []int
	Values []float64
}

// At returns the projected value at year.
func (p *Projection) At(year int) (quantity.Quantity, bool) {
	if p == nil {
		return quantity.Quantity{}, false
	}
	i := sort.SearchInts(p.Years, year)
	if i == len(p.Years) || p.Years[i] != year {
		return quantity.Quantity{}, false
	}
	return quantity.New(p.Values[i], p.Unit), true
}

// Len returns the number of projected years.
func (p *Projection) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Years)
}

// ScopeProjections holds one projection per scope.
type ScopeProjections map[Scope]*Projection

// Get returns the projection for scope, nil when absent.
func (s ScopeProjections) Get(scope Scope) *Projection {
	if s == nil {
		return nil
	}
	return s[scope]
}
