package reconcile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rshade/tempscore/internal/logging"
	"github.com/rshade/tempscore/internal/model"
	"github.com/rshade/tempscore/internal/quantity"
)

// ResolveBaseYearProduction returns the company's base-year production: the
// explicit value if supplied, else the base realization of historic
// production, else Missing with a logged warning. The year is known only when
// the value comes from history.
func ResolveBaseYearProduction(ctx context.Context, c *model.Company) (model.Realization, error) {
	if !c.BaseYearProduction.IsMissing() {
		v, err := c.BaseYearProduction.To(c.ProductionMetric)
		if err != nil {
			return model.Realization{}, err
		}
		return model.Realization{Year: model.UnknownYear, Value: v}, nil
	}

	var prods []model.Realization
	if c.Historic != nil {
		prods = c.Historic.Productions
	}
	if len(prods) > 0 {
		base := BaseRealization(prods, c.ProductionMetric, nil)
		if base.Value.IsMissing() {
			missingData(ctx, c.ID, "base_year_production").Msg("historic production has no valid value")
		}
		return base, nil
	}

	missingData(ctx, c.ID, "base_year_production").Msg("no historic production data")
	return model.Realization{Year: model.UnknownYear, Value: quantity.Missing(c.ProductionMetric)}, nil
}

// productionYear is the year intensities must be read at to be multiplied by
// base production, or nil when the production year is unknown.
func productionYear(base model.Realization) *int {
	if !base.YearKnown() {
		return nil
	}
	year := base.Year
	return &year
}

// ResolveGHGS1S2 returns base-year S1+S2 emissions, trying in order: the
// explicit value, historic S1S2 emissions, historic S1 plus S2 emissions,
// S1S2 intensity × base production, and (S1 + S2 intensity) × base production.
// Intensities are read at the base production year when it is known.
// Claiming S1 or S2 emissions without the other is a ValidationError, as is
// finding nothing at all.
func ResolveGHGS1S2(ctx context.Context, c *model.Company, base model.Realization) (quantity.Optional, error) {
	if !c.GHGS1S2.IsMissing() {
		v, err := c.GHGS1S2.To(c.EmissionsMetric)
		if err != nil {
			return quantity.Optional{}, model.Invalid(c.ID, "ghg_s1s2", err)
		}
		return v, nil
	}

	h := c.Historic
	if h == nil {
		h = &model.HistoricData{}
	}
	em := c.EmissionsMetric
	ei := c.IntensityMetric()
	baseProduction, year := base.Value, productionYear(base)

	if s := h.Emissions.Get(model.ScopeS1S2); len(s) > 0 {
		if r := BaseRealization(s, em, nil); !r.Value.IsMissing() {
			return r.Value, nil
		}
	}

	s1, s2 := h.Emissions.Get(model.ScopeS1), h.Emissions.Get(model.ScopeS2)
	if len(s1) > 0 || len(s2) > 0 {
		if len(s1) == 0 || len(s2) == 0 {
			return quantity.Optional{}, model.Invalid(c.ID, "ghg_s1s2",
				fmt.Errorf("%w: S1S2 from S1 and S2 requires both scopes", model.ErrScopeDecomposition))
		}
		sum, ok, err := sumBase(s1, s2, em, nil)
		if err != nil {
			return quantity.Optional{}, model.Invalid(c.ID, "ghg_s1s2", err)
		}
		if ok {
			return sum, nil
		}
	}

	if !baseProduction.IsMissing() {
		if s := h.EmissionsIntensities.Get(model.ScopeS1S2); len(s) > 0 {
			if r := BaseRealization(s, ei, year); !r.Value.IsMissing() {
				return toEmissions(r.Value, baseProduction, em)
			}
		}
		i1, i2 := h.EmissionsIntensities.Get(model.ScopeS1), h.EmissionsIntensities.Get(model.ScopeS2)
		if len(i1) > 0 && len(i2) > 0 {
			sum, ok, err := sumBase(i1, i2, ei, year)
			if err != nil {
				return quantity.Optional{}, model.Invalid(c.ID, "ghg_s1s2", err)
			}
			if ok {
				return toEmissions(sum, baseProduction, em)
			}
		}
	}

	log := logging.FromContext(ctx)
	log.Error().Ctx(ctx).
		Str("component", "reconcile").
		Str("operation", "resolve_base_year").
		Str("company_id", c.ID).
		Msg("no source for base-year S1S2 emissions")
	return quantity.Optional{}, model.Invalid(c.ID, "ghg_s1s2", model.ErrMissingGHG)
}

// ResolveGHGS3 follows the S1S2 precedence for scope 3 without the
// decomposition step. An unresolved value is Missing, not an error.
func ResolveGHGS3(ctx context.Context, c *model.Company, base model.Realization) (quantity.Optional, error) {
	em := c.EmissionsMetric
	baseProduction, year := base.Value, productionYear(base)
	if !c.GHGS3.IsMissing() {
		v, err := c.GHGS3.To(em)
		if err != nil {
			return quantity.Optional{}, model.Invalid(c.ID, "ghg_s3", err)
		}
		return v, nil
	}

	if c.Historic != nil {
		if s := c.Historic.Emissions.Get(model.ScopeS3); len(s) > 0 {
			if r := BaseRealization(s, em, nil); !r.Value.IsMissing() {
				return r.Value, nil
			}
		}
		if s := c.Historic.EmissionsIntensities.Get(model.ScopeS3); len(s) > 0 && !baseProduction.IsMissing() {
			if r := BaseRealization(s, c.IntensityMetric(), year); !r.Value.IsMissing() {
				return toEmissions(r.Value, baseProduction, em)
			}
		}
	}

	missingData(ctx, c.ID, "ghg_s3").Msg("no scope 3 emissions or intensity data")
	return quantity.Missing(em), nil
}

// sumBase adds the base realizations of two series at the same year. The
// first series is read at forced when set, the second at the first series'
// base year; if either value is missing there, ok is false.
func sumBase(a, b []model.Realization, u quantity.Unit, forced *int) (quantity.Optional, bool, error) {
	baseA := BaseRealization(a, u, forced)
	if baseA.Value.IsMissing() {
		return quantity.Optional{}, false, nil
	}
	year := baseA.Year
	baseB := BaseRealization(b, u, &year)
	if baseB.Value.IsMissing() {
		return quantity.Optional{}, false, nil
	}
	sum, err := baseA.Add(baseB)
	if err != nil {
		return quantity.Optional{}, false, err
	}
	return sum.Value, true, nil
}

func toEmissions(intensity, production quantity.Optional, em quantity.Unit) (quantity.Optional, error) {
	return intensity.Mul(production).To(em)
}

func missingData(ctx context.Context, companyID, field string) *zerolog.Event {
	log := logging.FromContext(ctx)
	return log.Warn().Ctx(ctx).
		Str("component", "reconcile").
		Str("operation", "resolve_base_year").
		Str("warning", model.WarningMissingData).
		Str("company_id", companyID).
		Str("field", field)
}
