package model

// RealizationInput is one raw data point. Value is "<magnitude> <unit>" text;
// nil or "nan ..." means known-missing.
type RealizationInput struct {
	Year  int     `json:"year"  yaml:"year"`
	Value *string `json:"value" yaml:"value"`
}

// HistoricInput is a company's raw historic record keyed by scope name.
type HistoricInput struct {
	Productions          []RealizationInput            `json:"productions,omitempty"           yaml:"productions,omitempty"`
	Emissions            map[string][]RealizationInput `json:"emissions,omitempty"             yaml:"emissions,omitempty"`
	EmissionsIntensities map[string][]RealizationInput `json:"emissions_intensities,omitempty" yaml:"emissions_intensities,omitempty"`
}

// TargetInput is a raw target declaration.
type TargetInput struct {
	Scope        string  `json:"target_scope"                    yaml:"target_scope"`
	Type         string  `json:"target_type,omitempty"           yaml:"target_type,omitempty"`
	BaseYear     int     `json:"target_base_year"                yaml:"target_base_year"`
	StartYear    *int    `json:"target_start_year,omitempty"     yaml:"target_start_year,omitempty"`
	EndYear      int     `json:"target_end_year"                 yaml:"target_end_year"`
	NetZeroYear  *int    `json:"netzero_year,omitempty"          yaml:"netzero_year,omitempty"`
	BaseYearQty  *string `json:"target_base_year_qty,omitempty"  yaml:"target_base_year_qty,omitempty"`
	BaseYearErr  *string `json:"target_base_year_err,omitempty"  yaml:"target_base_year_err,omitempty"`
	ReductionPct float64 `json:"target_reduction_pct"            yaml:"target_reduction_pct"`
}

// CompanyInput is the raw company record supplied by a company provider.
// Quantity fields are free text and pass through the unit normalizer.
type CompanyInput struct {
	CompanyID   string `json:"company_id"             yaml:"company_id"`
	CompanyName string `json:"company_name"           yaml:"company_name"`
	CompanyLEI  string `json:"company_lei,omitempty"  yaml:"company_lei,omitempty"`
	CompanyISIN string `json:"company_isin,omitempty" yaml:"company_isin,omitempty"`

	Sector          string `json:"sector"                     yaml:"sector"`
	Region          string `json:"region"                     yaml:"region"`
	Country         string `json:"country,omitempty"          yaml:"country,omitempty"`
	IndustryLevel1  string `json:"industry_level_1,omitempty" yaml:"industry_level_1,omitempty"`
	IndustryLevel2  string `json:"industry_level_2,omitempty" yaml:"industry_level_2,omitempty"`
	IndustryLevel3  string `json:"industry_level_3,omitempty" yaml:"industry_level_3,omitempty"`
	IndustryLevel4  string `json:"industry_level_4,omitempty" yaml:"industry_level_4,omitempty"`
	ReportDate      string `json:"report_date,omitempty"      yaml:"report_date,omitempty"`
	CompanyCurrency string `json:"company_currency,omitempty" yaml:"company_currency,omitempty"`

	Revenue         *string `json:"company_revenue,omitempty"          yaml:"company_revenue,omitempty"`
	MarketCap       *string `json:"company_market_cap,omitempty"       yaml:"company_market_cap,omitempty"`
	EnterpriseValue *string `json:"company_enterprise_value,omitempty" yaml:"company_enterprise_value,omitempty"`
	EVPlusCash      *string `json:"company_ev_plus_cash,omitempty"     yaml:"company_ev_plus_cash,omitempty"`
	TotalAssets     *string `json:"company_total_assets,omitempty"     yaml:"company_total_assets,omitempty"`
	CashEquivalents *string `json:"company_cash_equivalents,omitempty" yaml:"company_cash_equivalents,omitempty"`

	TargetProbability *float64 `json:"target_probability,omitempty" yaml:"target_probability,omitempty"`

	ProductionMetric   *string `json:"production_metric,omitempty"    yaml:"production_metric,omitempty"`
	EmissionsMetric    *string `json:"emissions_metric,omitempty"     yaml:"emissions_metric,omitempty"`
	BaseYearProduction *string `json:"base_year_production,omitempty" yaml:"base_year_production,omitempty"`
	GHGS1S2            *string `json:"ghg_s1s2,omitempty"             yaml:"ghg_s1s2,omitempty"`
	GHGS3              *string `json:"ghg_s3,omitempty"               yaml:"ghg_s3,omitempty"`

	Historic *HistoricInput `json:"historic_data,omitempty" yaml:"historic_data,omitempty"`
	Targets  []TargetInput  `json:"target_data,omitempty"   yaml:"target_data,omitempty"`
}
