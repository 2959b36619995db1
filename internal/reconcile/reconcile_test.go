package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/tempscore/internal/model"
	"github.com/rshade/tempscore/internal/quantity"
)

func strPtr(s string) *string { return &s }

func point(year int, value string) model.RealizationInput {
	if value == "" {
		return model.RealizationInput{Year: year}
	}
	return model.RealizationInput{Year: year, Value: strPtr(value)}
}

func steelInput() model.CompanyInput {
	return model.CompanyInput{
		CompanyID:   "STEEL-1",
		CompanyName: "Acme Steel",
		Sector:      "Steel",
		Region:      "Global",
	}
}

// ---------------------------------------------------------------------------
// Base realization
// ---------------------------------------------------------------------------

func TestBaseRealization(t *testing.T) {
	reg := quantity.Default()
	u := reg.MustParseUnit("t Steel")
	present := func(year int, v float64) model.Realization {
		return model.Realization{Year: year, Value: quantity.Present(quantity.New(v, u))}
	}
	missing := func(year int) model.Realization {
		return model.Realization{Year: year, Value: quantity.Missing(u)}
	}
	forced := func(y int) *int { return &y }

	tests := []struct {
		name      string
		series    []model.Realization
		forced    *int
		wantYear  int
		wantValue float64
		wantMiss  bool
	}{
		{
			name:      "most recent non-missing",
			series:    []model.Realization{present(2018, 100), missing(2019), present(2020, 120)},
			wantYear:  2020,
			wantValue: 120,
		},
		{
			name:      "skips trailing missing",
			series:    []model.Realization{present(2018, 100), present(2019, 110), missing(2020)},
			wantYear:  2019,
			wantValue: 110,
		},
		{
			name:     "all missing gives unknown year",
			series:   []model.Realization{missing(2018), missing(2019)},
			wantYear: model.UnknownYear,
			wantMiss: true,
		},
		{
			name:     "forced year mismatch",
			series:   []model.Realization{present(2018, 100), present(2020, 120)},
			forced:   forced(2019),
			wantYear: 2019,
			wantMiss: true,
		},
		{
			name:      "forced year match",
			series:    []model.Realization{present(2018, 100), present(2020, 120)},
			forced:    forced(2020),
			wantYear:  2020,
			wantValue: 120,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BaseRealization(tt.series, u, tt.forced)
			assert.Equal(t, tt.wantYear, got.Year)
			assert.Equal(t, tt.wantMiss, got.Value.IsMissing())
			if !tt.wantMiss {
				assert.InDelta(t, tt.wantValue, got.Value.MustGet().Magnitude(), 1e-12)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNewCompany_BaseYearProductionFromHistory(t *testing.T) {
	raw := steelInput()
	raw.GHGS1S2 = strPtr("50 t CO2")
	raw.Historic = &model.HistoricInput{
		Productions: []model.RealizationInput{point(2018, "100 t Steel"), point(2019, ""), point(2020, "120 t Steel")},
	}

	c, err := NewCompany(context.Background(), raw, DefaultDeps())
	require.NoError(t, err)

	prod := c.BaseYearProduction.MustGet()
	assert.InDelta(t, 120, prod.Magnitude(), 1e-12)
	assert.Equal(t, "t Steel", prod.Unit().Text())
}

func TestNewCompany_GHGS1S2Precedence(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*model.CompanyInput)
		want     float64
		wantErr  error
		wantUnit string
	}{
		{
			name: "explicit value wins",
			mutate: func(c *model.CompanyInput) {
				c.GHGS1S2 = strPtr("0.07 kt CO2")
				c.Historic.Emissions = map[string][]model.RealizationInput{"S1S2": {point(2020, "10 t CO2")}}
			},
			want: 70,
		},
		{
			name: "historic S1S2",
			mutate: func(c *model.CompanyInput) {
				c.Historic.Emissions = map[string][]model.RealizationInput{"S1S2": {point(2019, "40 t CO2"), point(2020, "45 t CO2")}}
			},
			want: 45,
		},
		{
			name: "sum of S1 and S2",
			mutate: func(c *model.CompanyInput) {
				c.Historic.Emissions = map[string][]model.RealizationInput{
					"S1": {point(2020, "50 t CO2")},
					"S2": {point(2020, "30 t CO2")},
				}
			},
			want: 80,
		},
		{
			name: "S1 without S2",
			mutate: func(c *model.CompanyInput) {
				c.Historic.Emissions = map[string][]model.RealizationInput{"S1": {point(2020, "50 t CO2")}}
			},
			wantErr: model.ErrScopeDecomposition,
		},
		{
			name: "S1S2 intensity times base production",
			mutate: func(c *model.CompanyInput) {
				c.Historic.EmissionsIntensities = map[string][]model.RealizationInput{
					"S1S2": {point(2020, "0.5 t CO2/(t Steel)")},
				}
			},
			want: 50,
		},
		{
			name: "S1 plus S2 intensity times base production",
			mutate: func(c *model.CompanyInput) {
				c.Historic.EmissionsIntensities = map[string][]model.RealizationInput{
					"S1": {point(2020, "300 kg CO2/(t Steel)")},
					"S2": {point(2020, "0.2 t CO2/(t Steel)")},
				}
			},
			want: 50,
		},
		{
			name: "intensity year differs from production year",
			mutate: func(c *model.CompanyInput) {
				c.Historic.EmissionsIntensities = map[string][]model.RealizationInput{
					"S1S2": {point(2021, "0.5 t CO2/(t Steel)")},
				}
			},
			wantErr: model.ErrMissingGHG,
		},
		{
			name: "explicit production accepts intensity of any year",
			mutate: func(c *model.CompanyInput) {
				c.BaseYearProduction = strPtr("200 t Steel")
				c.Historic.EmissionsIntensities = map[string][]model.RealizationInput{
					"S1S2": {point(2021, "0.5 t CO2/(t Steel)")},
				}
			},
			want: 100,
		},
		{
			name:    "nothing available",
			mutate:  func(c *model.CompanyInput) {},
			wantErr: model.ErrMissingGHG,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := steelInput()
			raw.Historic = &model.HistoricInput{Productions: []model.RealizationInput{point(2020, "100 t Steel")}}
			tt.mutate(&raw)

			c, err := NewCompany(context.Background(), raw, DefaultDeps())
			if tt.wantErr != nil {
				var vErr *model.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "STEEL-1", vErr.CompanyID)
				assert.Equal(t, "ghg_s1s2", vErr.Field)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			ghg := c.GHGS1S2.MustGet()
			assert.InDelta(t, tt.want, ghg.Magnitude(), 1e-9)
			assert.Equal(t, "t CO2", ghg.Unit().Text())
		})
	}
}

func TestNewCompany_GHGS3Optional(t *testing.T) {
	raw := steelInput()
	raw.GHGS1S2 = strPtr("50 t CO2")

	c, err := NewCompany(context.Background(), raw, DefaultDeps())
	require.NoError(t, err)
	assert.True(t, c.GHGS3.IsMissing())
	assert.True(t, c.BaseYearProduction.IsMissing())
}

func TestNewCompany_DimensionalityInHistory(t *testing.T) {
	raw := steelInput()
	raw.GHGS1S2 = strPtr("50 t CO2")
	raw.Historic = &model.HistoricInput{
		Emissions: map[string][]model.RealizationInput{"S1": {point(2020, "5 MWh")}},
	}

	_, err := NewCompany(context.Background(), raw, DefaultDeps())
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "historic_data", vErr.Field)
	assert.ErrorIs(t, err, quantity.ErrIncompatibleUnits)
	assert.Contains(t, err.Error(), "emissions S1")
	assert.Contains(t, err.Error(), "year 2020")
}

func TestValidateNew(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		_, err := ValidateNew(model.CompanyInput{CompanyName: "Nameless"}, DefaultDeps())
		assert.ErrorIs(t, err, model.ErrMissingIdentity)
	})

	t.Run("monetary field must be a currency", func(t *testing.T) {
		raw := steelInput()
		raw.MarketCap = strPtr("5 t Steel")
		_, err := ValidateNew(raw, DefaultDeps())
		var vErr *model.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "company_market_cap", vErr.Field)
	})

	t.Run("target years out of order", func(t *testing.T) {
		raw := steelInput()
		start := 2020
		raw.Targets = []model.TargetInput{{Scope: "S1S2", BaseYear: 2022, StartYear: &start, EndYear: 2030, ReductionPct: 0.5}}
		_, err := ValidateNew(raw, DefaultDeps())
		assert.ErrorIs(t, err, model.ErrTargetYearOrder)
	})

	t.Run("currency symbols are normalized", func(t *testing.T) {
		raw := steelInput()
		raw.Revenue = strPtr("12 billion €")
		c, err := ValidateNew(raw, DefaultDeps())
		require.NoError(t, err)
		assert.Equal(t, "billion EUR", c.Revenue.Unit().Text())
		assert.Empty(t, c.ProductionMetric.Text(), "validation must not derive defaults")
	})
}

func TestDeriveDefaults(t *testing.T) {
	tests := []struct {
		name           string
		sector         string
		region         string
		wantProduction string
		wantEmissions  string
		wantErr        bool
	}{
		{name: "region override", sector: "Electricity Utilities", region: "North America", wantProduction: "MWh", wantEmissions: "t CO2"},
		{name: "global fallback", sector: "Electricity Utilities", region: "Europe", wantProduction: "GJ", wantEmissions: "t CO2"},
		{name: "large volume energy", sector: "Energy", region: "Global", wantProduction: "PJ", wantEmissions: "Mt CO2"},
		{name: "steel tonnes", sector: "Steel", region: "Global", wantProduction: "t Steel", wantEmissions: "t CO2"},
		{name: "unknown sector", sector: "Space Tourism", region: "Global", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &model.Company{ID: "X", Sector: tt.sector, Region: tt.region}
			err := DeriveDefaults(c, DefaultDeps())
			if tt.wantErr {
				var vErr *model.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "sector", vErr.Field)
				assert.ErrorIs(t, err, model.ErrUnknownSector)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProduction, c.ProductionMetric.Text())
			assert.Equal(t, tt.wantEmissions, c.EmissionsMetric.Text())
		})
	}
}

func TestDeriveDefaults_KeepsSuppliedMetric(t *testing.T) {
	raw := steelInput()
	raw.ProductionMetric = strPtr("Mt Steel")

	c, err := ValidateNew(raw, DefaultDeps())
	require.NoError(t, err)
	require.NoError(t, DeriveDefaults(c, DefaultDeps()))

	assert.Equal(t, "Mt Steel", c.ProductionMetric.Text())
	assert.Equal(t, "Mt CO2", c.EmissionsMetric.Text())
}
