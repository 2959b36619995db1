package model

import (
	"fmt"

	"github.com/rshade/tempscore/internal/quantity"
)

// Company is a validated company with normalized historic data and resolved
// base-year figures. Identity and classification never change after
// construction; projections are attached once by the projector.
type Company struct {
	ID   string
	Name string
	LEI  string
	ISIN string

	Sector         string
	Region         string
	Country        string
	IndustryLevel1 string
	IndustryLevel2 string
	IndustryLevel3 string
	IndustryLevel4 string
	ReportDate     string
	Currency       string

	Revenue         quantity.Optional
	MarketCap       quantity.Optional
	EnterpriseValue quantity.Optional
	EVPlusCash      quantity.Optional
	TotalAssets     quantity.Optional
	CashEquivalents quantity.Optional

	// TargetProbability overrides the configured probability when set.
	TargetProbability *float64

	ProductionMetric quantity.Unit
	EmissionsMetric  quantity.Unit

	Historic *HistoricData
	Targets  []Target

	BaseYearProduction quantity.Optional
	GHGS1S2            quantity.Optional
	GHGS3              quantity.Optional

	ProjectedIntensities ScopeProjections
	ProjectedTargets     ScopeProjections
}

// IntensityMetric is the emissions intensity unit of this company's series.
func (c *Company) IntensityMetric() quantity.Unit {
	return c.EmissionsMetric.Div(c.ProductionMetric)
}

// TargetsFor returns the company's targets for scope in declaration order.
func (c *Company) TargetsFor(scope Scope) []Target {
	var out []Target
	for _, t := range c.Targets {
		if t.Scope == scope {
			out = append(out, t)
		}
	}
	return out
}

// AttachProjections sets the projected intensity and target series. It may
// be called once; later calls fail with ErrAlreadyProjected.
func (c *Company) AttachProjections(intensities, targets ScopeProjections) error {
	if c.ProjectedIntensities != nil || c.ProjectedTargets != nil {
		return Invalid(c.ID, "projections", ErrAlreadyProjected)
	}
	if intensities == nil {
		intensities = ScopeProjections{}
	}
	if targets == nil {
		targets = ScopeProjections{}
	}
	c.ProjectedIntensities = intensities
	c.ProjectedTargets = targets
	return nil
}

// Projected reports whether projections have been attached.
func (c *Company) Projected() bool { return c.ProjectedIntensities != nil }

// Field returns a field by its interchange key, for callers such as grouping
// that select fields by name.
func (c *Company) Field(name string) (any, error) {
	switch name {
	case "company_id":
		return c.ID, nil
	case "company_name":
		return c.Name, nil
	case "company_lei":
		return c.LEI, nil
	case "company_isin":
		return c.ISIN, nil
	case "sector":
		return c.Sector, nil
	case "region":
		return c.Region, nil
	case "country":
		return c.Country, nil
	case "industry_level_1":
		return c.IndustryLevel1, nil
	case "industry_level_2":
		return c.IndustryLevel2, nil
	case "industry_level_3":
		return c.IndustryLevel3, nil
	case "industry_level_4":
		return c.IndustryLevel4, nil
	case "report_date":
		return c.ReportDate, nil
	case "company_currency":
		return c.Currency, nil
	case "company_revenue":
		return c.Revenue, nil
	case "company_market_cap":
		return c.MarketCap, nil
	case "company_enterprise_value":
		return c.EnterpriseValue, nil
	case "company_ev_plus_cash":
		return c.EVPlusCash, nil
	case "company_total_assets":
		return c.TotalAssets, nil
	case "company_cash_equivalents":
		return c.CashEquivalents, nil
	case "production_metric":
		return c.ProductionMetric, nil
	case "emissions_metric":
		return c.EmissionsMetric, nil
	case "base_year_production":
		return c.BaseYearProduction, nil
	case "ghg_s1s2":
		return c.GHGS1S2, nil
	case "ghg_s3":
		return c.GHGS3, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// FieldString is Field rendered as text, for grouping keys.
func (c *Company) FieldString(name string) (string, error) {
	v, err := c.Field(name)
	if err != nil {
		return "", err
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}
