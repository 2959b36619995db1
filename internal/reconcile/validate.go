// Package reconcile builds validated companies from raw provider records.
//
// Construction has two explicit phases. ValidateNew checks identity, targets
// and any supplied metrics without filling anything in. DeriveDefaults then
// fills only the optional fields that were absent: the production metric from
// the sector table and the emissions metric from the production metric.
// NewCompany composes both with historic normalization and base-year
// derivation.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/rshade/tempscore/internal/config"
	"github.com/rshade/tempscore/internal/model"
	"github.com/rshade/tempscore/internal/quantity"
)

// Deps are the read-only collaborators of company construction.
type Deps struct {
	Registry *quantity.Registry
	Sectors  config.SectorUnits
}

// DefaultDeps uses the process-wide registry and the built-in sector table.
func DefaultDeps() Deps {
	return Deps{Registry: quantity.Default(), Sectors: config.DefaultSectorUnits()}
}

// largeVolumeProduction lists production metrics whose emissions default to Mt CO2.
//
//nolint:gochecknoglobals // Static lookup table.
var largeVolumeProduction = map[string]bool{
	"TWh":        true,
	"PJ":         true,
	"Mt Steel":   true,
	"megaFe_ton": true,
	"mmboe":      true,
}

// Default emissions metrics.
const (
	largeEmissionsMetric   = "Mt CO2"
	defaultEmissionsMetric = "t CO2"
)

// ValidateNew validates a raw record and returns a company with parsed
// identity, classification, financials, targets and any explicit metrics and
// base-year figures. Historic data is not yet attached.
func ValidateNew(raw model.CompanyInput, deps Deps) (*model.Company, error) {
	id := strings.TrimSpace(raw.CompanyID)
	if id == "" {
		return nil, model.Invalid(raw.CompanyName, "company_id", model.ErrMissingIdentity)
	}
	reg := deps.Registry

	c := &model.Company{
		ID:             id,
		Name:           raw.CompanyName,
		LEI:            raw.CompanyLEI,
		ISIN:           raw.CompanyISIN,
		Sector:         raw.Sector,
		Region:         raw.Region,
		Country:        raw.Country,
		IndustryLevel1: raw.IndustryLevel1,
		IndustryLevel2: raw.IndustryLevel2,
		IndustryLevel3: raw.IndustryLevel3,
		IndustryLevel4: raw.IndustryLevel4,
		ReportDate:     raw.ReportDate,
		Currency:       raw.CompanyCurrency,
	}

	financials := []struct {
		field string
		text  *string
		dst   *quantity.Optional
	}{
		{"company_revenue", raw.Revenue, &c.Revenue},
		{"company_market_cap", raw.MarketCap, &c.MarketCap},
		{"company_enterprise_value", raw.EnterpriseValue, &c.EnterpriseValue},
		{"company_ev_plus_cash", raw.EVPlusCash, &c.EVPlusCash},
		{"company_total_assets", raw.TotalAssets, &c.TotalAssets},
		{"company_cash_equivalents", raw.CashEquivalents, &c.CashEquivalents},
	}
	for _, f := range financials {
		v, err := parseOptional(reg, f.text, quantity.KindMonetary)
		if err != nil {
			return nil, model.Invalid(id, f.field, err)
		}
		*f.dst = v
	}

	if p := raw.TargetProbability; p != nil {
		if *p < 0 || *p > 1 {
			return nil, model.Invalid(id, "target_probability", fmt.Errorf("must be between 0 and 1, got %g", *p))
		}
		prob := *p
		c.TargetProbability = &prob
	}

	if raw.ProductionMetric != nil && strings.TrimSpace(*raw.ProductionMetric) != "" {
		u, err := reg.ParseMetric(*raw.ProductionMetric, quantity.KindProduction)
		if err != nil {
			return nil, model.Invalid(id, "production_metric", err)
		}
		c.ProductionMetric = u
	}
	if raw.EmissionsMetric != nil && strings.TrimSpace(*raw.EmissionsMetric) != "" {
		u, err := reg.ParseMetric(*raw.EmissionsMetric, quantity.KindEmissions)
		if err != nil {
			return nil, model.Invalid(id, "emissions_metric", err)
		}
		c.EmissionsMetric = u
	}

	explicit := []struct {
		field string
		text  *string
		kind  quantity.Kind
		dst   *quantity.Optional
	}{
		{"base_year_production", raw.BaseYearProduction, quantity.KindProduction, &c.BaseYearProduction},
		{"ghg_s1s2", raw.GHGS1S2, quantity.KindEmissions, &c.GHGS1S2},
		{"ghg_s3", raw.GHGS3, quantity.KindEmissions, &c.GHGS3},
	}
	for _, f := range explicit {
		v, err := parseOptional(reg, f.text, f.kind)
		if err != nil {
			return nil, model.Invalid(id, f.field, err)
		}
		*f.dst = v
	}

	for _, in := range raw.Targets {
		t, err := validateTarget(id, in, reg)
		if err != nil {
			return nil, err
		}
		c.Targets = append(c.Targets, t)
	}

	return c, nil
}

func validateTarget(companyID string, in model.TargetInput, reg *quantity.Registry) (model.Target, error) {
	scope, err := model.ParseScope(in.Scope)
	if err != nil {
		return model.Target{}, model.Invalid(companyID, "target_scope", err)
	}
	targetType := model.TargetIntensity
	if in.Type != "" {
		if targetType, err = model.ParseTargetType(in.Type); err != nil {
			return model.Target{}, model.Invalid(companyID, "target_type", err)
		}
	}

	kind := quantity.KindEmissionsIntensity
	if targetType == model.TargetAbsolute {
		kind = quantity.KindEmissions
	}
	baseQty, err := parseOptional(reg, in.BaseYearQty, kind)
	if err != nil {
		return model.Target{}, model.Invalid(companyID, "target_base_year_qty", err)
	}
	baseErr, err := parseOptional(reg, in.BaseYearErr, quantity.KindAny)
	if err != nil {
		return model.Target{}, model.Invalid(companyID, "target_base_year_err", err)
	}

	netZero := 0
	if in.NetZeroYear != nil {
		netZero = *in.NetZeroYear
	}

	return model.NewTarget(companyID, model.TargetSpec{
		Scope:        scope,
		Type:         targetType,
		BaseYear:     in.BaseYear,
		StartYear:    in.StartYear,
		EndYear:      in.EndYear,
		NetZeroYear:  netZero,
		BaseYearQty:  baseQty,
		BaseYearErr:  baseErr,
		ReductionPct: in.ReductionPct,
	})
}

// parseOptional parses optional quantity text, checking kind when present.
// Nil or blank text is Missing.
func parseOptional(reg *quantity.Registry, text *string, kind quantity.Kind) (quantity.Optional, error) {
	if text == nil || strings.TrimSpace(*text) == "" {
		return quantity.Missing(quantity.Dimensionless), nil
	}
	v, err := reg.ParseOptional(*text)
	if err != nil {
		return quantity.Optional{}, err
	}
	if !v.IsMissing() || !v.Unit().IsDimensionless() {
		if !kind.Admits(v.Unit()) {
			return quantity.Optional{}, &quantity.DimensionalityError{From: v.Unit().String(), To: kind.String()}
		}
	}
	return v, nil
}

// DeriveDefaults fills the production and emissions metrics when they were
// not supplied. The production metric comes from the sector table for the
// company's region, falling back to the Global entry; an unknown sector is a
// ValidationError. The emissions metric defaults to Mt CO2 for large-volume
// production metrics and t CO2 otherwise.
func DeriveDefaults(c *model.Company, deps Deps) error {
	if c.ProductionMetric.Text() == "" {
		text, err := deps.Sectors.ProductionMetric(c.Sector, c.Region)
		if err != nil {
			return model.Invalid(c.ID, "sector", fmt.Errorf("%w: %w", model.ErrUnknownSector, err))
		}
		u, err := deps.Registry.ParseMetric(text, quantity.KindProduction)
		if err != nil {
			return model.Invalid(c.ID, "production_metric", err)
		}
		c.ProductionMetric = u
	}

	if c.EmissionsMetric.Text() == "" {
		text := defaultEmissionsMetric
		if largeVolumeProduction[c.ProductionMetric.Text()] {
			text = largeEmissionsMetric
		}
		u, err := deps.Registry.ParseMetric(text, quantity.KindEmissions)
		if err != nil {
			return model.Invalid(c.ID, "emissions_metric", err)
		}
		c.EmissionsMetric = u
	}
	return nil
}
