package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rshade/tempscore/internal/config"
	"github.com/rshade/tempscore/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

func TestCheckSchemaVersion(t *testing.T) {
	tests := []struct {
		version string
		wantErr error
	}{
		{version: "1.0.0"},
		{version: "1.4.2"},
		{version: "v1.2"},
		{version: "", wantErr: ErrMissingSchemaVersion},
		{version: "2.0.0", wantErr: ErrUnsupportedSchema},
		{version: "0.9.0", wantErr: ErrUnsupportedSchema},
		{version: "banana", wantErr: ErrUnsupportedSchema},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := CheckSchemaVersion(tt.version)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"a.json": FormatJSON, "a.YAML": FormatYAML, "a.yml": FormatYAML, "a.csv": FormatCSV, "a.xlsx": FormatXLSX,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := FormatOf("a.txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

// ---------------------------------------------------------------------------
// Companies
// ---------------------------------------------------------------------------

const companiesJSON = `{
  "schema_version": "1.0.0",
  "companies": [
    {
      "company_id": "C1",
      "company_name": "Acme Steel",
      "sector": "Steel",
      "region": "Europe",
      "base_year_production": "100 t Steel",
      "ghg_s1s2": "50 t CO2",
      "target_data": [
        {"target_scope": "S1S2", "target_base_year": 2020, "target_end_year": 2030, "target_reduction_pct": 0.5}
      ]
    },
    {"company_id": "C2", "company_name": "Beta", "sector": "Steel", "region": "Global"}
  ]
}`

func TestLoadCompanies(t *testing.T) {
	doc, err := LoadCompanies(context.Background(), writeFile(t, "companies.json", companiesJSON))
	require.NoError(t, err)
	require.Len(t, doc.Companies, 2)
	assert.Equal(t, "Acme Steel", doc.Companies[0].CompanyName)
	require.NotNil(t, doc.Companies[0].GHGS1S2)
	assert.Equal(t, "50 t CO2", *doc.Companies[0].GHGS1S2)
	require.Len(t, doc.Companies[0].Targets, 1)
	assert.InDelta(t, 0.5, doc.Companies[0].Targets[0].ReductionPct, 1e-12)
}

func TestLoadCompanies_YAML(t *testing.T) {
	yamlDoc := `schema_version: "1.1.0"
companies:
  - company_id: Y1
    company_name: Yaml Power
    sector: Electricity Utilities
    region: Global
    historic_data:
      productions:
        - year: 2019
          value: 10 TWh
`
	doc, err := LoadCompanies(context.Background(), writeFile(t, "companies.yaml", yamlDoc))
	require.NoError(t, err)
	require.Len(t, doc.Companies, 1)
	require.NotNil(t, doc.Companies[0].Historic)
	assert.Equal(t, "10 TWh", *doc.Companies[0].Historic.Productions[0].Value)
}

func TestLoadCompanies_Errors(t *testing.T) {
	_, err := LoadCompanies(context.Background(), writeFile(t, "c.json", `{"schema_version": "2.0.0", "companies": []}`))
	assert.ErrorIs(t, err, ErrUnsupportedSchema)

	_, err = LoadCompanies(context.Background(), writeFile(t, "c.json", `{"schema_version": "1.0.0", "firms": []}`))
	assert.Error(t, err)

	_, err = LoadCompanies(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Providers
// ---------------------------------------------------------------------------

func TestWaterfall(t *testing.T) {
	primary := NewStaticProvider("primary", []model.CompanyInput{{CompanyID: "A", CompanyName: "A1"}})
	secondary := NewStaticProvider("secondary", []model.CompanyInput{
		{CompanyID: "A", CompanyName: "A2"},
		{CompanyID: "B", CompanyName: "B2"},
	})
	w := NewWaterfall(primary, secondary)

	got, missing, err := w.Companies(context.Background(), []string{"B", "A", "Z", "A"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B2", got[0].CompanyName)
	assert.Equal(t, "A1", got[1].CompanyName, "earlier provider wins")
	assert.Equal(t, []string{"Z"}, missing)

	_, missing, err = w.Companies(context.Background(), []string{"X", "Y"})
	require.ErrorIs(t, err, ErrNoCompaniesFound)
	assert.Equal(t, []string{"X", "Y"}, missing)
	assert.Equal(t, "None of the companies in your portfolio could be found", ErrNoCompaniesFound.Error())
}

func TestNewFileProvider(t *testing.T) {
	p, err := NewFileProvider(context.Background(), writeFile(t, "companies.json", companiesJSON))
	require.NoError(t, err)
	assert.Equal(t, []string{"C1", "C2"}, p.IDs())

	got, err := p.Companies(context.Background(), []string{"C2", "nope"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Beta", got[0].CompanyName)
}

// ---------------------------------------------------------------------------
// Benchmarks
// ---------------------------------------------------------------------------

const benchmarksYAML = `schema_version: "1.0.0"
production:
  benchmarks:
    - sector: Steel
      region: Global
      benchmark_metric: dimensionless
      projections:
        - {year: 2015, value: 0.5}
        - {year: 2019, value: 0.02}
        - {year: 2050, value: 0.01}
    - sector: Coal
      region: Global
      benchmark_metric: dimensionless
      projections:
        - {year: 2060, value: 0.02}
emissions_intensity:
  benchmark_temperature: 1.5 delta_degC
  benchmark_global_budget: 396 Gt CO2
  is_AFOLU_included: false
  S1S2:
    benchmarks:
      - sector: Steel
        region: Europe
        benchmark_metric: t CO2/(t Steel)
        projections:
          - {year: 2019, value: 1.8}
          - {year: 2050, value: "150 kg CO2/(t Steel)"}
`

func TestFileBenchmarkProvider(t *testing.T) {
	controls := config.DefaultProjectionControls()
	p := NewFileBenchmarkProvider(writeFile(t, "benchmarks.yaml", benchmarksYAML), controls)

	set, err := p.Benchmarks(context.Background())
	require.NoError(t, err)

	require.Len(t, set.Production, 1, "benchmark outside the window is dropped")
	steel := set.Production[0]
	require.Len(t, steel.Projections, 2)
	assert.Equal(t, 2019, steel.Projections[0].Year)

	require.NotNil(t, set.EI)
	assert.InDelta(t, 1.5, set.EI.BenchmarkTemperature.Magnitude(), 1e-12)
	assert.False(t, set.EI.IsAFOLUIncluded)

	b, ok := set.EI.Lookup(model.ScopeS1S2, "Steel", "Europe")
	require.True(t, ok)
	_, values, err := b.Series()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.8, 0.15}, values, 1e-9)

	_, ok = set.EI.Lookup(model.ScopeS3, "Steel", "Europe")
	assert.False(t, ok)
}

func TestBuildBenchmarkSet_Errors(t *testing.T) {
	bad := strings.Replace(benchmarksYAML, "t CO2/(t Steel)", "t Steel", 1)
	p := NewFileBenchmarkProvider(writeFile(t, "benchmarks.yaml", bad), config.DefaultProjectionControls())
	_, err := p.Benchmarks(context.Background())
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Portfolio
// ---------------------------------------------------------------------------

func TestReadPortfolioCSV(t *testing.T) {
	csvDoc := "company_id,company_name,company_isin,investment_value,fund\n" +
		"C1,Acme Steel,XS0001,\"1,000.50\",core\n" +
		",,,,\n" +
		"C2,Beta,,250,satellite\n"

	holdings, err := ReadPortfolioCSV(strings.NewReader(csvDoc))
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, "C1", holdings[0].CompanyID)
	assert.Equal(t, "XS0001", holdings[0].ISIN)
	assert.True(t, holdings[0].InvestmentValue.Equal(decimal.RequireFromString("1000.50")))
	assert.Equal(t, "core", holdings[0].UserFields["fund"])
	assert.Equal(t, []string{"C1", "C2"}, IDs(holdings))
}

func TestReadPortfolioCSV_Errors(t *testing.T) {
	_, err := ReadPortfolioCSV(strings.NewReader("company_id,company_name\nC1,Acme\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ReadPortfolioCSV(strings.NewReader("company_id,investment_value\nC1,lots\n"))
	assert.ErrorIs(t, err, ErrInvalidHolding)

	_, err = ReadPortfolioCSV(strings.NewReader("company_id,investment_value\nC1,-5\n"))
	assert.ErrorIs(t, err, ErrInvalidHolding)
}

func TestLoadPortfolio_JSON(t *testing.T) {
	doc := `{"schema_version": "1.0.0", "portfolio": [
	  {"company_id": "C1", "company_name": "Acme", "investment_value": 1000000, "region_tag": "EU"}
	]}`
	holdings, err := LoadPortfolio(context.Background(), writeFile(t, "portfolio.json", doc))
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.True(t, holdings[0].InvestmentValue.Equal(decimal.NewFromInt(1000000)))
	assert.Equal(t, "EU", holdings[0].UserFields["region_tag"])
}

func TestLoadPortfolio_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"company_id", "company_name", "investment_value"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"C1", "Acme", 1500}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"C2", "Beta", 500}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	holdings, err := LoadPortfolio(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, "Beta", holdings[1].CompanyName)
	assert.True(t, holdings[0].InvestmentValue.Equal(decimal.NewFromInt(1500)))
}

func TestLoadPortfolio_Empty(t *testing.T) {
	_, err := LoadPortfolio(context.Background(), writeFile(t, "p.csv", "company_id,investment_value\n"))
	assert.ErrorIs(t, err, ErrEmptyPortfolio)
}
