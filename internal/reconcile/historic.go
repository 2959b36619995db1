package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rshade/tempscore/internal/model"
	"github.com/rshade/tempscore/internal/quantity"
)

// Historic data categories, used in error messages.
const (
	categoryProductions = "productions"
	categoryEmissions   = "emissions"
	categoryIntensities = "emissions_intensities"
)

// NormalizeHistoric converts every raw realization into the canonical unit of
// its category: the production metric, the emissions metric, or emissions per
// production for intensities. Null values become Missing in that unit.
// Incompatible units fail with a wrapped *quantity.DimensionalityError naming
// the category, scope and year. Series are returned sorted by year.
func NormalizeHistoric(h *model.HistoricInput, productionMetric, emissionsMetric quantity.Unit, deps Deps) (*model.HistoricData, error) {
	if h == nil {
		return &model.HistoricData{}, nil
	}
	intensityMetric := emissionsMetric.Div(productionMetric)

	out := &model.HistoricData{
		Emissions:            model.ScopeSeries{},
		EmissionsIntensities: model.ScopeSeries{},
	}

	prods, err := normalizeSeries(h.Productions, productionMetric, deps.Registry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", categoryProductions, err)
	}
	out.Productions = prods

	for _, group := range []struct {
		category string
		raw      map[string][]model.RealizationInput
		unit     quantity.Unit
		dst      model.ScopeSeries
	}{
		{categoryEmissions, h.Emissions, emissionsMetric, out.Emissions},
		{categoryIntensities, h.EmissionsIntensities, intensityMetric, out.EmissionsIntensities},
	} {
		for key, series := range group.raw {
			scope, err := model.ParseScope(key)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", group.category, err)
			}
			rs, err := normalizeSeries(series, group.unit, deps.Registry)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", group.category, scope, err)
			}
			group.dst[scope] = rs
		}
	}
	return out, nil
}

func normalizeSeries(raw []model.RealizationInput, canonical quantity.Unit, reg *quantity.Registry) ([]model.Realization, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]model.Realization, 0, len(raw))
	for _, r := range raw {
		v, err := normalizeValue(r.Value, canonical, reg)
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", r.Year, err)
		}
		out = append(out, model.Realization{Year: r.Year, Value: v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func normalizeValue(text *string, canonical quantity.Unit, reg *quantity.Registry) (quantity.Optional, error) {
	if text == nil || strings.TrimSpace(*text) == "" {
		return quantity.Missing(canonical), nil
	}
	v, err := reg.ParseOptional(*text)
	if err != nil {
		return quantity.Optional{}, err
	}
	return v.To(canonical)
}

// BaseRealization selects the base realization of a sorted series: the most
// recent year with a value. When no value is present the earliest record is
// returned with UnknownYear and a Missing value. When forcedYear is set and the
// most recent valid year differs, the forced year is returned with a Missing
// value rather than an interpolated one.
func BaseRealization(series []model.Realization, u quantity.Unit, forcedYear *int) model.Realization {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i].Value.IsMissing() {
			continue
		}
		if forcedYear != nil && series[i].Year != *forcedYear {
			return model.Realization{Year: *forcedYear, Value: quantity.Missing(u)}
		}
		return series[i]
	}
	return model.Realization{Year: model.UnknownYear, Value: quantity.Missing(u)}
}
