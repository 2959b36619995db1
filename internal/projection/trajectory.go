package projection

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/rshade/tempscore/internal/config"
	"github.com/rshade/tempscore/internal/model"
	"github.com/rshade/tempscore/internal/quantity"
)

// historicIntensity returns the known intensity points of scope, sorted by
// year, in the company's intensity metric. Reported intensities are used when
// any are present; otherwise emissions are divided by production of the same
// year. S1S2 falls back to S1 + S2 emissions when neither S1S2 series exists.
func historicIntensity(c *model.Company, scope model.Scope) ([]int, []float64, error) {
	ei := c.IntensityMetric()
	if c.Historic == nil {
		return nil, nil, nil
	}

	if years, values, err := presentPoints(c.Historic.EmissionsIntensities.Get(scope), ei); err != nil || len(years) > 0 {
		return years, values, err
	}

	emissions := c.Historic.Emissions.Get(scope)
	if len(emissions) == 0 && scope == model.ScopeS1S2 {
		emissions = sumByYear(c.Historic.Emissions.Get(model.ScopeS1), c.Historic.Emissions.Get(model.ScopeS2))
	}
	productions := make(map[int]quantity.Quantity, len(c.Historic.Productions))
	for _, p := range c.Historic.Productions {
		if q, ok := p.Value.Get(); ok && !q.IsZero() {
			productions[p.Year] = q
		}
	}

	var years []int
	var values []float64
	for _, r := range emissions {
		e, ok := r.Value.Get()
		if !ok {
			continue
		}
		p, ok := productions[r.Year]
		if !ok {
			continue
		}
		v, err := e.Div(p).MagnitudeIn(ei)
		if err != nil {
			return nil, nil, err
		}
		years = append(years, r.Year)
		values = append(values, v)
	}
	return years, values, nil
}

func presentPoints(series []model.Realization, u quantity.Unit) ([]int, []float64, error) {
	var years []int
	var values []float64
	for _, r := range series {
		q, ok := r.Value.Get()
		if !ok {
			continue
		}
		v, err := q.MagnitudeIn(u)
		if err != nil {
			return nil, nil, err
		}
		years = append(years, r.Year)
		values = append(values, v)
	}
	return years, values, nil
}

// sumByYear adds two series year by year, keeping only years present in both.
func sumByYear(a, b []model.Realization) []model.Realization {
	byYear := make(map[int]model.Realization, len(b))
	for _, r := range b {
		byYear[r.Year] = r
	}
	var out []model.Realization
	for _, r := range a {
		other, ok := byYear[r.Year]
		if !ok || r.Value.IsMissing() || other.Value.IsMissing() {
			continue
		}
		sum, err := r.Add(other)
		if err != nil {
			continue
		}
		out = append(out, sum)
	}
	return out
}

// trend is the median year-over-year change of a gap-filled series, after
// winsorizing the changes at the configured percentiles, clipped to
// [LowerDelta, UpperDelta].
func trend(values []float64, controls config.ProjectionControls) float64 {
	changes := make([]float64, 0, len(values))
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		changes = append(changes, values[i]/values[i-1]-1)
	}
	if len(changes) == 0 {
		return 0
	}
	sort.Float64s(changes)

	lo := stat.Quantile(controls.LowerPercentile, stat.Empirical, changes, nil)
	hi := stat.Quantile(controls.UpperPercentile, stat.Empirical, changes, nil)
	for i, c := range changes {
		changes[i] = math.Min(math.Max(c, lo), hi)
	}

	return math.Min(math.Max(median(changes), controls.LowerDelta), controls.UpperDelta)
}

// median of sorted values.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// ProjectTrajectory extends the company's historic intensity for scope over
// years. Gaps are interpolated, the series is extended from its last known
// value at the median year-over-year change, years before the first known
// value repeat it, and every value is floored at EIMaxNegative. With no
// history, a base-year intensity from ghg and base production is used as a
// single flat point. A nil projection means nothing could be derived.
func ProjectTrajectory(c *model.Company, scope model.Scope, years []int, controls config.ProjectionControls) (*model.Projection, error) {
	hYears, hValues, err := historicIntensity(c, scope)
	if err != nil {
		return nil, err
	}
	if len(hYears) == 0 {
		v, ok, err := baseIntensity(c, scope)
		if err != nil || !ok {
			return nil, err
		}
		hYears, hValues = []int{controls.BaseYear}, []float64{v}
	}

	filledYears, filled := fillGaps(hYears, hValues)
	first, last := filledYears[0], filledYears[len(filledYears)-1]
	lastValue := filled[len(filled)-1]
	rate := trend(filled, controls)

	out := &model.Projection{Scope: scope, Unit: c.IntensityMetric(), Years: years, Values: make([]float64, len(years))}
	for i, y := range years {
		var v float64
		switch {
		case y < first:
			v = filled[0]
		case y <= last:
			v = filled[y-first]
		default:
			v = lastValue * math.Pow(1+rate, float64(y-last))
		}
		out.Values[i] = math.Max(v, controls.EIMaxNegative)
	}
	return out, nil
}

// baseIntensity is the scope's base-year emissions over base-year production.
func baseIntensity(c *model.Company, scope model.Scope) (float64, bool, error) {
	ghg, err := scopeEmissions(c, scope)
	if err != nil {
		return 0, false, err
	}
	e, ok := ghg.Get()
	if !ok {
		return 0, false, nil
	}
	p, ok := c.BaseYearProduction.Get()
	if !ok || p.IsZero() {
		return 0, false, nil
	}
	v, err := e.Div(p).MagnitudeIn(c.IntensityMetric())
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
