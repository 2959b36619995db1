package model

import (
	"fmt"

	"github.com/rshade/tempscore/internal/quantity"
)

// Target is a validated emissions reduction target.
type Target struct {
	Scope     Scope
	Type      TargetType
	BaseYear  int
	StartYear int
	EndYear   int
	// NetZeroYear is zero when the target declares none.
	NetZeroYear int
	// BaseYearQty is the emissions or intensity in the base year, if reported.
	BaseYearQty quantity.Optional
	// BaseYearErr is the reported uncertainty of BaseYearQty, if any.
	BaseYearErr quantity.Optional
	// ReductionPct is the fraction of BaseYearQty removed by EndYear.
	ReductionPct float64
}

// TargetSpec holds the candidate fields of a target before validation.
// A nil StartYear defaults to BaseYear.
type TargetSpec struct {
	Scope        Scope
	Type         TargetType
	BaseYear     int
	StartYear    *int
	EndYear      int
	NetZeroYear  int
	BaseYearQty  quantity.Optional
	BaseYearErr  quantity.Optional
	ReductionPct float64
}

// NewTarget validates spec. It requires base ≤ start < end and a reduction
// fraction in [0, 1], and returns a *ValidationError naming the scope otherwise.
func NewTarget(companyID string, spec TargetSpec) (Target, error) {
	if !spec.Scope.Valid() {
		return Target{}, Invalid(companyID, "target_scope", fmt.Errorf("%w: %q", ErrUnknownScope, spec.Scope))
	}

	start := spec.BaseYear
	if spec.StartYear != nil {
		start = *spec.StartYear
	}

	switch {
	case start < spec.BaseYear:
		return Target{}, Invalid(companyID, "target_start_year", fmt.Errorf(
			"%w: scope %s: target start year (%d) must be equal or greater than base year %d",
			ErrTargetYearOrder, spec.Scope, start, spec.BaseYear))
	case spec.EndYear <= spec.BaseYear:
		return Target{}, Invalid(companyID, "target_end_year", fmt.Errorf(
			"%w: scope %s: target end year (%d) must be greater than base year %d",
			ErrTargetYearOrder, spec.Scope, spec.EndYear, spec.BaseYear))
	case spec.EndYear <= start:
		return Target{}, Invalid(companyID, "target_end_year", fmt.Errorf(
			"%w: scope %s: target end year (%d) must be greater than start year %d",
			ErrTargetYearOrder, spec.Scope, spec.EndYear, start))
	case spec.NetZeroYear != 0 && spec.NetZeroYear < spec.EndYear:
		return Target{}, Invalid(companyID, "netzero_year", fmt.Errorf(
			"%w: scope %s: netzero year (%d) must not precede target end year %d",
			ErrTargetYearOrder, spec.Scope, spec.NetZeroYear, spec.EndYear))
	}

	if spec.ReductionPct < 0 || spec.ReductionPct > 1 {
		return Target{}, Invalid(companyID, "target_reduction_pct", fmt.Errorf(
			"%w: scope %s: got %g", ErrReductionRange, spec.Scope, spec.ReductionPct))
	}

	targetType := spec.Type
	if targetType == "" {
		targetType = TargetIntensity
	}

	return Target{
		Scope:        spec.Scope,
		Type:         targetType,
		BaseYear:     spec.BaseYear,
		StartYear:    start,
		EndYear:      spec.EndYear,
		NetZeroYear:  spec.NetZeroYear,
		BaseYearQty:  spec.BaseYearQty,
		BaseYearErr:  spec.BaseYearErr,
		ReductionPct: spec.ReductionPct,
	}, nil
}
