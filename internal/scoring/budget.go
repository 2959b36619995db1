package scoring

import (
	"gonum.org/v1/gonum/floats"

	"github.com/rshade/tempscore/internal/model"
	"github.com/rshade/tempscore/internal/quantity"
)

// scopeInputs are the year-aligned series one scope is scored from.
// production and budget are nil when unknown.
type scopeInputs struct {
	years      []int
	production []float64
	budget     []float64
	trajectory *model.Projection
	target     *model.Projection
}

// Cumulative is the emissions implied by an intensity path at the given
// production, summed over every year: Σ intensity(y) × production(y).
func Cumulative(intensity, production []float64) float64 {
	return floats.Dot(intensity, production)
}

// ExceedanceYear is the first year at which running cumulative emissions
// exceed budget. It returns nil if they never do.
func ExceedanceYear(years []int, intensity, production []float64, budget float64) *int {
	running := 0.0
	for i, y := range years {
		running += intensity[i] * production[i]
		if running > budget {
			year := y
			return &year
		}
	}
	return nil
}

// TemperatureScore maps the ratio of cumulative emissions to budget onto a
// temperature: the benchmark temperature plus the warming caused by the
// share of the global budget overshot (or undershot).
func TemperatureScore(benchmarkTemperature, globalBudget, ratio, tcreMultiplier float64) float64 {
	return benchmarkTemperature + globalBudget*(ratio-1)*tcreMultiplier
}

func (s *Scorer) aggregate(c *model.Company, in scopeInputs, scope model.Scope, tf model.TimeFrame) model.AggregateFields {
	em := c.EmissionsMetric
	fields := model.AggregateFields{
		Scope:                  scope,
		TimeFrame:              tf,
		CumulativeBudget:       quantity.Missing(em),
		CumulativeScaledBudget: quantity.Missing(em),
		CumulativeTrajectory:   quantity.Missing(em),
		CumulativeTarget:       quantity.Missing(em),
	}
	if in.production == nil || in.budget == nil {
		return fields
	}

	n := min(s.HorizonEnd(tf)-s.projection.BaseYear+1, len(in.years))
	budget := Cumulative(in.budget[:n], in.production[:n])
	fields.CumulativeBudget = quantity.Present(quantity.New(budget, em))
	fields.CumulativeScaledBudget = quantity.Present(quantity.New(budget*s.controls.BudgetScale, em))
	total := Cumulative(in.budget, in.production) * s.controls.BudgetScale

	if p := in.trajectory; p != nil {
		fields.CumulativeTrajectory = quantity.Present(quantity.New(Cumulative(p.Values[:n], in.production[:n]), em))
		fields.TrajectoryExceedanceYear = ExceedanceYear(in.years, p.Values, in.production, total)
	}
	if p := in.target; p != nil {
		fields.CumulativeTarget = quantity.Present(quantity.New(Cumulative(p.Values[:n], in.production[:n]), em))
		fields.TargetExceedanceYear = ExceedanceYear(in.years, p.Values, in.production, total)
	}
	return fields
}

// applyScores sets the trajectory, target and combined scores and the result
// type. A score is defined only when its cumulative emissions and a positive
// scaled budget are known; with neither defined the fallback score is used.
func (s *Scorer) applyScores(c *model.Company, fields *model.AggregateFields, temperature, globalBudget float64) {
	probability := s.controls.TargetProbability
	if c.TargetProbability != nil {
		probability = *c.TargetProbability
	}

	if scaled, ok := fields.CumulativeScaledBudget.Get(); ok && scaled.Magnitude() > 0 {
		score := func(cum quantity.Optional) *float64 {
			q, ok := cum.Get()
			if !ok {
				return nil
			}
			v := TemperatureScore(temperature, globalBudget, q.Magnitude()/scaled.Magnitude(), s.controls.TCREMultiplier())
			return &v
		}
		fields.TrajectoryScore = score(fields.CumulativeTrajectory)
		fields.TargetScore = score(fields.CumulativeTarget)
	}

	switch {
	case fields.TrajectoryScore != nil && fields.TargetScore != nil:
		fields.ScoreResultType = model.ResultComplete
		fields.TemperatureScore = *fields.TargetScore*probability + *fields.TrajectoryScore*(1-probability)
	case fields.TrajectoryScore != nil:
		fields.ScoreResultType = model.ResultTrajectoryOnly
		fields.TemperatureScore = *fields.TrajectoryScore
	case fields.TargetScore != nil:
		fields.ScoreResultType = model.ResultTargetOnly
		fields.TemperatureScore = *fields.TargetScore
	default:
		fields.ScoreResultType = model.ResultDefault
		fields.TemperatureScore = s.controls.FallbackScore
	}
}
