package config

import (
	"errors"
	"fmt"
)

// Projection defaults.
const (
	DefaultBaseYear        = 2019
	DefaultTargetYear      = 2050
	DefaultLowerPercentile = 0.1
	DefaultUpperPercentile = 0.9
	DefaultLowerDelta      = -0.10
	DefaultUpperDelta      = 0.03
	DefaultEIMaxNegative   = 0.0
)

// Scoring defaults.
const (
	DefaultTCRE              = 2.2
	DefaultCarbonConversion  = 3664.0
	DefaultTargetProbability = 0.428571
	DefaultBudgetScale       = 1.0
	DefaultFallbackScore     = 3.2
	DefaultShortHorizon      = 5
	DefaultMidHorizon        = 15
)

// Control validation errors.
var (
	ErrYearRange          = errors.New("target year must be after base year")
	ErrPercentileRange    = errors.New("percentiles must satisfy 0 <= lower < upper <= 1")
	ErrDeltaRange         = errors.New("lower delta must not exceed upper delta")
	ErrProbabilityRange   = errors.New("target probability must be between 0 and 1")
	ErrNonPositiveControl = errors.New("control must be positive")
	ErrHorizonOrder       = errors.New("horizons must satisfy 0 < short < mid")
)

// ProjectionControls parameterize the emissions intensity projector.
type ProjectionControls struct {
	// BaseYear is the first projected year.
	BaseYear int `yaml:"base_year" json:"base_year"`
	// TargetYear is the last projected year.
	TargetYear int `yaml:"target_year" json:"target_year"`
	// LowerPercentile and UpperPercentile bound the historic series used for trends.
	LowerPercentile float64 `yaml:"lower_percentile" json:"lower_percentile"`
	UpperPercentile float64 `yaml:"upper_percentile" json:"upper_percentile"`
	// LowerDelta and UpperDelta clip the year-over-year intensity change.
	LowerDelta float64 `yaml:"lower_delta" json:"lower_delta"`
	UpperDelta float64 `yaml:"upper_delta" json:"upper_delta"`
	// EIMaxNegative is the floor under every projected intensity.
	EIMaxNegative float64 `yaml:"ei_max_negative" json:"ei_max_negative"`
}

// DefaultProjectionControls returns the stock projection parameters.
func DefaultProjectionControls() ProjectionControls {
	return ProjectionControls{
		BaseYear:        DefaultBaseYear,
		TargetYear:      DefaultTargetYear,
		LowerPercentile: DefaultLowerPercentile,
		UpperPercentile: DefaultUpperPercentile,
		LowerDelta:      DefaultLowerDelta,
		UpperDelta:      DefaultUpperDelta,
		EIMaxNegative:   DefaultEIMaxNegative,
	}
}

// Validate checks the projection controls are internally consistent.
func (p ProjectionControls) Validate() error {
	if p.TargetYear <= p.BaseYear {
		return fmt.Errorf("%w: base %d, target %d", ErrYearRange, p.BaseYear, p.TargetYear)
	}
	if p.LowerPercentile < 0 || p.UpperPercentile > 1 || p.LowerPercentile >= p.UpperPercentile {
		return fmt.Errorf("%w: got %.2f..%.2f", ErrPercentileRange, p.LowerPercentile, p.UpperPercentile)
	}
	if p.LowerDelta > p.UpperDelta {
		return fmt.Errorf("%w: got %.3f > %.3f", ErrDeltaRange, p.LowerDelta, p.UpperDelta)
	}
	return nil
}

// Years returns every year from BaseYear to TargetYear inclusive.
func (p ProjectionControls) Years() []int {
	years := make([]int, 0, p.TargetYear-p.BaseYear+1)
	for y := p.BaseYear; y <= p.TargetYear; y++ {
		years = append(years, y)
	}
	return years
}

// ScoringControls parameterize the budget and temperature score computation.
type ScoringControls struct {
	// TCRE is the transient climate response to cumulative emissions, °C per 1000 PgC.
	TCRE float64 `yaml:"tcre" json:"tcre"`
	// CarbonConversion converts 1000 PgC into Gt CO2.
	CarbonConversion float64 `yaml:"carbon_conversion" json:"carbon_conversion"`
	// TargetProbability weights target scores against trajectory scores.
	TargetProbability float64 `yaml:"target_probability" json:"target_probability"`
	// BudgetScale apportions the benchmark budget to the company.
	BudgetScale float64 `yaml:"budget_scale" json:"budget_scale"`
	// FallbackScore substitutes undefined scores.
	FallbackScore float64 `yaml:"fallback_score" json:"fallback_score"`
	// ShortHorizon and MidHorizon are offsets from the base year; the long
	// horizon is the projection target year.
	ShortHorizon int `yaml:"short_horizon" json:"short_horizon"`
	MidHorizon   int `yaml:"mid_horizon" json:"mid_horizon"`
}

// DefaultScoringControls returns the stock scoring parameters.
func DefaultScoringControls() ScoringControls {
	return ScoringControls{
		TCRE:              DefaultTCRE,
		CarbonConversion:  DefaultCarbonConversion,
		TargetProbability: DefaultTargetProbability,
		BudgetScale:       DefaultBudgetScale,
		FallbackScore:     DefaultFallbackScore,
		ShortHorizon:      DefaultShortHorizon,
		MidHorizon:        DefaultMidHorizon,
	}
}

// TCREMultiplier is the warming per Gt CO2 in excess of budget.
func (s ScoringControls) TCREMultiplier() float64 {
	return s.TCRE / s.CarbonConversion
}

// Validate checks the scoring controls.
func (s ScoringControls) Validate() error {
	if s.TCRE <= 0 {
		return fmt.Errorf("%w: tcre %.3f", ErrNonPositiveControl, s.TCRE)
	}
	if s.CarbonConversion <= 0 {
		return fmt.Errorf("%w: carbon_conversion %.3f", ErrNonPositiveControl, s.CarbonConversion)
	}
	if s.BudgetScale <= 0 {
		return fmt.Errorf("%w: budget_scale %.3f", ErrNonPositiveControl, s.BudgetScale)
	}
	if s.TargetProbability < 0 || s.TargetProbability > 1 {
		return fmt.Errorf("%w: got %.3f", ErrProbabilityRange, s.TargetProbability)
	}
	if s.ShortHorizon <= 0 || s.MidHorizon <= s.ShortHorizon {
		return fmt.Errorf("%w: got %d, %d", ErrHorizonOrder, s.ShortHorizon, s.MidHorizon)
	}
	return nil
}

// PortfolioConfig holds defaults for portfolio runs.
type PortfolioConfig struct {
	// Method is the default aggregation method.
	Method string `yaml:"method" json:"method"`
	// Workers bounds concurrent company pipelines.
	Workers int `yaml:"workers" json:"workers"`
	// BatchSize is the number of companies handed to the worker pool at a time.
	BatchSize int `yaml:"batch_size" json:"batch_size"`
}

// Portfolio defaults.
const (
	DefaultMethod    = "WATS"
	DefaultWorkers   = 4
	DefaultBatchSize = 100
)

// Validate checks the portfolio defaults.
func (p PortfolioConfig) Validate() error {
	if p.Workers <= 0 {
		return fmt.Errorf("%w: workers %d", ErrNonPositiveControl, p.Workers)
	}
	if p.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size %d", ErrNonPositiveControl, p.BatchSize)
	}
	return nil
}
