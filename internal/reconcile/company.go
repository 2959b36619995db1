package reconcile

import (
	"context"

	"github.com/rshade/tempscore/internal/logging"
	"github.com/rshade/tempscore/internal/model"
)

// NewCompany builds a fully reconciled company from a raw record: validation,
// default metrics, historic normalization, then base-year production and
// emissions. Every failure is a *model.ValidationError for this company.
func NewCompany(ctx context.Context, raw model.CompanyInput, deps Deps) (*model.Company, error) {
	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).
		Str("component", "reconcile").
		Str("operation", "new_company").
		Str("company_id", raw.CompanyID).
		Msg("constructing company")

	c, err := ValidateNew(raw, deps)
	if err != nil {
		return nil, err
	}
	if err = DeriveDefaults(c, deps); err != nil {
		return nil, err
	}

	historic, err := NormalizeHistoric(raw.Historic, c.ProductionMetric, c.EmissionsMetric, deps)
	if err != nil {
		return nil, model.Invalid(c.ID, "historic_data", err)
	}
	c.Historic = historic
	if historic.IsEmpty() {
		log.Warn().Ctx(ctx).
			Str("component", "reconcile").
			Str("operation", "new_company").
			Str("warning", model.WarningMissingData).
			Str("company_id", c.ID).
			Msg("company has no historic data")
	}

	baseProduction, err := ResolveBaseYearProduction(ctx, c)
	if err != nil {
		return nil, model.Invalid(c.ID, "base_year_production", err)
	}
	c.BaseYearProduction = baseProduction.Value

	if c.GHGS1S2, err = ResolveGHGS1S2(ctx, c, baseProduction); err != nil {
		return nil, err
	}
	if c.GHGS3, err = ResolveGHGS3(ctx, c, baseProduction); err != nil {
		return nil, err
	}

	log.Debug().Ctx(ctx).
		Str("component", "reconcile").
		Str("operation", "new_company").
		Str("company_id", c.ID).
		Str("production_metric", c.ProductionMetric.String()).
		Str("ghg_s1s2", c.GHGS1S2.String()).
		Msg("company constructed")
	return c, nil
}
