package model

import "github.com/rshade/tempscore/internal/quantity"

// AggregateFields are the per-scope, per-time-frame figures the scoring
// engine computes for a company.
type AggregateFields struct {
	Scope     Scope
	TimeFrame TimeFrame

	CumulativeBudget       quantity.Optional
	CumulativeScaledBudget quantity.Optional
	CumulativeTrajectory   quantity.Optional
	CumulativeTarget       quantity.Optional

	BenchmarkTemperature  quantity.Quantity
	BenchmarkGlobalBudget quantity.Quantity

	// Exceedance years are nil when the budget is never exceeded.
	TrajectoryExceedanceYear *int
	TargetExceedanceYear     *int

	TrajectoryScore  *float64
	TargetScore      *float64
	TemperatureScore float64
	ScoreResultType  ScoreResultType
}

// CompanyAggregates is a company extended with scoring figures for one scope
// and time frame. It is built once and not modified afterward.
type CompanyAggregates struct {
	*Company
	AggregateFields
}

// ExtendTrusted attaches fields to base without re-validating either. Callers
// must pass a Company produced by the validating constructor and fields
// computed from it.
func ExtendTrusted(base *Company, fields AggregateFields) *CompanyAggregates {
	return &CompanyAggregates{Company: base, AggregateFields: fields}
}
