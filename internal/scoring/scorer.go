// Package scoring integrates projected intensities against sector benchmark
// budgets and maps the overshoot to a temperature score.
package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/rshade/tempscore/internal/config"
	"github.com/rshade/tempscore/internal/logging"
	"github.com/rshade/tempscore/internal/model"
	"github.com/rshade/tempscore/internal/projection"
	"github.com/rshade/tempscore/internal/quantity"
)

// ErrNotProjected is returned when a company reaches the scorer without projections.
var ErrNotProjected = errors.New("company has not been projected")

//nolint:gochecknoglobals // Units of the benchmark pathway figures, parsed once.
var (
	temperatureUnit  = quantity.Default().MustParseUnit("delta_degC")
	globalBudgetUnit = quantity.Default().MustParseUnit("Gt CO2")
)

// Scorer computes company aggregates for every scored scope and time frame.
// It only reads its benchmarks and is safe for concurrent use.
type Scorer struct {
	projection config.ProjectionControls
	controls   config.ScoringControls
	benchmarks *model.BenchmarkSet
}

// NewScorer creates a scorer.
func NewScorer(projectionControls config.ProjectionControls, controls config.ScoringControls, benchmarks *model.BenchmarkSet) *Scorer {
	if benchmarks == nil {
		benchmarks = &model.BenchmarkSet{}
	}
	return &Scorer{projection: projectionControls, controls: controls, benchmarks: benchmarks}
}

// HorizonEnd returns the last year counted for tf.
func (s *Scorer) HorizonEnd(tf model.TimeFrame) int {
	end := s.projection.TargetYear
	switch tf {
	case model.TimeFrameShort:
		end = s.projection.BaseYear + s.controls.ShortHorizon
	case model.TimeFrameMid:
		end = s.projection.BaseYear + s.controls.MidHorizon
	}
	return min(end, s.projection.TargetYear)
}

// Score returns one aggregate per scored scope and time frame, in scope then
// time frame order. c must already carry projections.
func (s *Scorer) Score(ctx context.Context, c *model.Company) ([]*model.CompanyAggregates, error) {
	log := logging.FromContext(ctx)
	if !c.Projected() {
		return nil, model.Invalid(c.ID, "projected_intensities", ErrNotProjected)
	}

	years := s.projection.Years()
	production, err := projection.Production(c, s.benchmarks, s.projection)
	if err != nil {
		return nil, model.Invalid(c.ID, "production", err)
	}

	var temperature, globalBudget float64
	if s.benchmarks.EI != nil {
		if temperature, err = s.benchmarks.EI.BenchmarkTemperature.MagnitudeIn(temperatureUnit); err != nil {
			return nil, fmt.Errorf("benchmark temperature: %w", err)
		}
		if globalBudget, err = s.benchmarks.EI.BenchmarkGlobalBudget.MagnitudeIn(globalBudgetUnit); err != nil {
			return nil, fmt.Errorf("benchmark global budget: %w", err)
		}
	}

	out := make([]*model.CompanyAggregates, 0, len(model.ScoredScopes)*len(model.AllTimeFrames))
	for _, scope := range model.ScoredScopes {
		budget, err := s.benchmarkPath(c, scope, years)
		if err != nil {
			return nil, model.Invalid(c.ID, "benchmark", fmt.Errorf("%s: %w", scope, err))
		}
		if budget == nil {
			log.Warn().Ctx(ctx).
				Str("component", "scoring").
				Str("operation", "score").
				Str("warning", model.WarningLookup).
				Str("company_id", c.ID).
				Str("scope", string(scope)).
				Str("sector", c.Sector).
				Str("region", c.Region).
				Msg("no emissions intensity benchmark; using fallback score")
		}

		in := scopeInputs{
			years:      years,
			production: production,
			budget:     budget,
			trajectory: c.ProjectedIntensities.Get(scope),
			target:     c.ProjectedTargets.Get(scope),
		}
		for _, tf := range model.AllTimeFrames {
			fields := s.aggregate(c, in, scope, tf)
			fields.BenchmarkTemperature = quantity.New(temperature, temperatureUnit)
			fields.BenchmarkGlobalBudget = quantity.New(globalBudget, globalBudgetUnit)
			s.applyScores(c, &fields, temperature, globalBudget)
			out = append(out, model.ExtendTrusted(c, fields))
		}
	}

	log.Debug().Ctx(ctx).
		Str("component", "scoring").
		Str("operation", "score").
		Str("company_id", c.ID).
		Int("aggregates", len(out)).
		Msg("company scored")
	return out, nil
}

// benchmarkPath returns the benchmark intensity for scope at every year, in
// the company's intensity metric. S1S2S3 without its own benchmark is the
// sum of the S1S2 and S3 benchmarks; the S3 benchmark only counts when the
// company has an S3 projection.
func (s *Scorer) benchmarkPath(c *model.Company, scope model.Scope, years []int) ([]float64, error) {
	withS3 := c.ProjectedIntensities.Get(model.ScopeS3) != nil || c.ProjectedTargets.Get(model.ScopeS3) != nil
	b, err := projection.ScopeBenchmark(s.benchmarks, c, scope, years, withS3)
	if err != nil || b == nil {
		return nil, err
	}
	return s.sample(c, b, years)
}

func (s *Scorer) sample(c *model.Company, b *model.Benchmark, years []int) ([]float64, error) {
	bYears, bValues, err := projection.BenchmarkIn(b, c.IntensityMetric())
	if err != nil || len(bYears) == 0 {
		return nil, err
	}
	out := make([]float64, len(years))
	for i, y := range years {
		out[i] = projection.InterpolateAtYear(bYears, bValues, y)
	}
	return out, nil
}
