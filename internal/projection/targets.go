package projection

import (
	"fmt"
	"math"
	"sort"

	"github.com/rshade/tempscore/internal/config"
	"github.com/rshade/tempscore/internal/model"
	"github.com/rshade/tempscore/internal/quantity"
)

// BenchmarkIn returns the benchmark series converted to u.
func BenchmarkIn(b *model.Benchmark, u quantity.Unit) ([]int, []float64, error) {
	if b == nil || len(b.Projections) == 0 {
		return nil, nil, nil
	}
	factor, err := quantity.New(1, b.Metric).MagnitudeIn(u)
	if err != nil {
		return nil, nil, fmt.Errorf("benchmark %s/%s: %w", b.Sector, b.Region, err)
	}
	years, values, err := b.Series()
	if err != nil {
		return nil, nil, fmt.Errorf("benchmark %s/%s: %w", b.Sector, b.Region, err)
	}
	for i := range values {
		values[i] *= factor
	}
	return years, values, nil
}

// ScopeBenchmark returns the EI benchmark of scope for c. S1S2S3 without a
// benchmark of its own is the sum of the S1S2 and S3 benchmarks sampled at
// years, in the company's intensity metric; the S3 part is only added when
// withS3 is set. It returns nil when no benchmark applies.
func ScopeBenchmark(
	set *model.BenchmarkSet,
	c *model.Company,
	scope model.Scope,
	years []int,
	withS3 bool,
) (*model.Benchmark, error) {
	if set == nil {
		return nil, nil
	}
	if b, ok := set.EI.Lookup(scope, c.Sector, c.Region); ok {
		return b, nil
	}
	if scope != model.ScopeS1S2S3 {
		return nil, nil
	}

	parts := []model.Scope{model.ScopeS1S2}
	if withS3 {
		parts = append(parts, model.ScopeS3)
	}
	ei := c.IntensityMetric()
	var sum []float64
	for _, part := range parts {
		b, ok := set.EI.Lookup(part, c.Sector, c.Region)
		if !ok {
			continue
		}
		bYears, bValues, err := BenchmarkIn(b, ei)
		if err != nil {
			return nil, err
		}
		if len(bYears) == 0 {
			continue
		}
		if sum == nil {
			sum = make([]float64, len(years))
		}
		for i, y := range years {
			sum[i] += InterpolateAtYear(bYears, bValues, y)
		}
	}
	if sum == nil {
		return nil, nil
	}

	out := &model.Benchmark{
		Sector:      c.Sector,
		Region:      c.Region,
		Metric:      ei,
		Projections: make([]model.BenchmarkProjection, len(years)),
	}
	for i, y := range years {
		out.Projections[i] = model.BenchmarkProjection{Year: y, Value: quantity.New(sum[i], ei)}
	}
	return out, nil
}

// scopeEmissions is the company's base-year emissions for scope. S1S2S3 is
// S1S2 plus S3, a missing S3 adding nothing.
func scopeEmissions(c *model.Company, scope model.Scope) (quantity.Optional, error) {
	switch scope {
	case model.ScopeS1S2:
		return c.GHGS1S2, nil
	case model.ScopeS3:
		return c.GHGS3, nil
	case model.ScopeS1S2S3:
		if c.GHGS1S2.IsMissing() {
			return c.GHGS1S2, nil
		}
		return c.GHGS1S2.Add(c.GHGS3)
	}
	return quantity.Missing(c.EmissionsMetric), nil
}

// targetBase is the value a target's reduction applies to: the reported
// base-year quantity when present, otherwise the company's figure at the
// target's base year.
// Absolute targets are in the emissions metric, intensity targets in the
// intensity metric.
func targetBase(c *model.Company, t model.Target) (float64, bool, error) {
	want := c.IntensityMetric()
	if t.Type == model.TargetAbsolute {
		want = c.EmissionsMetric
	}
	if q, ok := t.BaseYearQty.Get(); ok {
		v, err := q.MagnitudeIn(want)
		if err != nil {
			return 0, false, fmt.Errorf("target %s base year quantity: %w", t.Scope, err)
		}
		return v, true, nil
	}
	if t.Type == model.TargetIntensity {
		return targetBaseIntensity(c, t)
	}

	ghg, err := scopeEmissions(c, t.Scope)
	if err != nil {
		return 0, false, err
	}
	q, ok := ghg.Get()
	if !ok {
		return 0, false, nil
	}
	v, err := q.MagnitudeIn(want)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// targetBaseIntensity reads the historic intensity at the target's base year
// when the history spans it, and falls back to the base-year intensity.
func targetBaseIntensity(c *model.Company, t model.Target) (float64, bool, error) {
	years, values, err := historicIntensity(c, t.Scope)
	if err != nil {
		return 0, false, err
	}
	if len(years) > 0 && years[0] <= t.BaseYear && t.BaseYear <= years[len(years)-1] {
		return InterpolateAtYear(years, values, t.BaseYear), true, nil
	}
	return baseIntensity(c, t.Scope)
}

// targetPath chains same-type targets by end year into a list of known
// points: the first target's base year and value, each target's end year at
// (1 − reduction) of its base, and zero at the latest net-zero year beyond
// the last end year. Targets ending no later than an earlier one are ignored.
func targetPath(c *model.Company, targets []model.Target) ([]int, []float64, error) {
	sort.SliceStable(targets, func(i, j int) bool { return targets[i].EndYear < targets[j].EndYear })

	var years []int
	var values []float64
	netZero := 0
	for _, t := range targets {
		if len(years) > 0 && t.EndYear <= years[len(years)-1] {
			continue
		}
		base, ok, err := targetBase(c, t)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case !ok && len(years) == 0:
			continue
		case !ok:
			base = InterpolateAtYear(years, values, t.BaseYear)
		case len(years) == 0:
			years, values = append(years, t.BaseYear), append(values, base)
		}
		years = append(years, t.EndYear)
		values = append(values, base*(1-t.ReductionPct))
		netZero = max(netZero, t.NetZeroYear)
	}
	if len(years) > 0 && netZero > years[len(years)-1] {
		years = append(years, netZero)
		values = append(values, 0)
	}
	return years, values, nil
}

// valueAt is the path value at year, flat before the first and after the
// last known point.
func valueAt(years []int, values []float64, year int) float64 {
	switch {
	case year <= years[0]:
		return values[0]
	case year >= years[len(years)-1]:
		return values[len(values)-1]
	}
	return InterpolateAtYear(years, values, year)
}

// ProjectTargets projects the intensity implied by the company's targets for
// scope over years. Intensity targets take precedence; absolute targets are
// divided by projected production, falling back to the benchmark where
// production is not positive. Each value is min(target, benchmark) and then
// floored at EIMaxNegative. A nil projection means the scope has no usable
// target.
func ProjectTargets(
	c *model.Company,
	scope model.Scope,
	bench *model.Benchmark,
	production []float64,
	years []int,
	controls config.ProjectionControls,
) (*model.Projection, error) {
	ei := c.IntensityMetric()
	bYears, bValues, err := BenchmarkIn(bench, ei)
	if err != nil {
		return nil, err
	}

	targets := c.TargetsFor(scope)
	var intensity, absolute []model.Target
	for _, t := range targets {
		if t.Type == model.TargetIntensity {
			intensity = append(intensity, t)
		} else {
			absolute = append(absolute, t)
		}
	}

	chosen, isAbsolute := intensity, false
	if len(chosen) == 0 {
		chosen, isAbsolute = absolute, true
	}
	if isAbsolute && len(production) != len(years) {
		return nil, nil
	}
	tYears, tValues, err := targetPath(c, chosen)
	if err != nil || len(tYears) == 0 {
		return nil, err
	}

	out := &model.Projection{Scope: scope, Unit: ei, Years: years, Values: make([]float64, len(years))}
	for i, y := range years {
		bm := math.Inf(1)
		if len(bYears) > 0 {
			bm = InterpolateAtYear(bYears, bValues, y)
		}

		v := valueAt(tYears, tValues, y)
		if isAbsolute {
			switch {
			case production[i] > 0:
				v /= production[i]
			case len(bYears) > 0:
				v = bm
			default:
				return nil, nil
			}
		}
		out.Values[i] = math.Max(math.Min(v, bm), controls.EIMaxNegative)
	}
	return out, nil
}
