package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rshade/tempscore/internal/model"
)

// ============================================================================
// Fixtures
// ============================================================================

func sampleAggregations() model.ScoreAggregations {
	all := model.Aggregation{
		Score:      1.75,
		Proportion: 1,
		Contributions: []model.AggregationContribution{
			{CompanyID: "B", CompanyName: "Beta", TemperatureScore: 2, ScoreResultType: model.ResultTrajectoryOnly,
				Contribution: 1, ContributionRelative: 57.142857},
			{CompanyID: "A", CompanyName: "Alpha", TemperatureScore: 1.5, ScoreResultType: model.ResultComplete,
				Contribution: 0.75, ContributionRelative: 42.857143},
		},
	}
	steel := model.Aggregation{
		Score:      1.5,
		Proportion: 0.5,
		Contributions: []model.AggregationContribution{
			{CompanyID: "A", CompanyName: "Alpha", TemperatureScore: 1.5, ScoreResultType: model.ResultComplete,
				Contribution: 1.5, ContributionRelative: 100},
		},
	}
	electricity := model.Aggregation{
		Score:      2,
		Proportion: 0.5,
		Contributions: []model.AggregationContribution{
			{CompanyID: "B", CompanyName: "Beta", TemperatureScore: 2, ScoreResultType: model.ResultTrajectoryOnly,
				Contribution: 2, ContributionRelative: 100},
		},
	}
	return model.ScoreAggregations{
		model.TimeFrameLong: {
			model.ScopeS1S2S3: {All: all, InfluencePercentage: 50},
			model.ScopeS1S2: {
				All:                 all,
				InfluencePercentage: 50,
				Grouped:             map[string]model.Aggregation{"Steel": steel, "Electricity Utilities": electricity},
			},
		},
		model.TimeFrameShort: {
			model.ScopeS1S2: {All: steel, InfluencePercentage: 100},
		},
	}
}

func sampleReport() *Report {
	trajectory := 2.0
	year := 2035
	companies := []*model.CompanyAggregates{
		model.ExtendTrusted(&model.Company{ID: "B", Name: "Beta", Sector: "Electricity Utilities"}, model.AggregateFields{
			Scope: model.ScopeS1S2, TimeFrame: model.TimeFrameLong, TemperatureScore: 2,
			TrajectoryScore: &trajectory, ScoreResultType: model.ResultTrajectoryOnly, TrajectoryExceedanceYear: &year,
		}),
		model.ExtendTrusted(&model.Company{ID: "A", Name: "Alpha", Sector: "Steel"}, model.AggregateFields{
			Scope: model.ScopeS1S2, TimeFrame: model.TimeFrameLong, TemperatureScore: 3.2,
			ScoreResultType: model.ResultDefault,
		}),
		model.ExtendTrusted(&model.Company{ID: "A", Name: "Alpha", Sector: "Steel"}, model.AggregateFields{
			Scope: model.ScopeS1S2, TimeFrame: model.TimeFrameShort, TemperatureScore: 3.2,
			ScoreResultType: model.ResultDefault,
		}),
	}
	return New("WATS", sampleAggregations(), companies, []string{"MISSING-1"})
}

// ============================================================================
// Formatting
// ============================================================================

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name      string
		f         float64
		precision int
		want      string
	}{
		{name: "thousands with decimals", f: 1234.567, precision: 2, want: "1,234.57"},
		{name: "no decimals", f: 18248.4, precision: 0, want: "18,248"},
		{name: "negative", f: -1234.5, precision: 1, want: "-1,234.5"},
		{name: "negative below one", f: -0.25, precision: 2, want: "-0.25"},
		{name: "small", f: 1.5, precision: 3, want: "1.500"},
		{name: "nan", f: math.NaN(), precision: 2, want: "n/a"},
		{name: "infinite", f: math.Inf(1), precision: 2, want: "n/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.f, tt.precision))
		})
	}
}

func TestFormatTemperatureAndPercent(t *testing.T) {
	assert.Equal(t, "1.75°C", FormatTemperature(1.7499, 2))
	assert.Equal(t, "n/a", FormatTemperature(math.NaN(), 2))
	assert.Equal(t, "42.9%", FormatPercent(42.857, 1))
	assert.Equal(t, "n/a", formatOptionalFloat(nil, 2))
	assert.Empty(t, formatOptionalYear(nil))
}

// ============================================================================
// Flattening
// ============================================================================

func TestFlatten_Order(t *testing.T) {
	scores, contributions := Flatten(sampleAggregations())

	require.Len(t, scores, 5)
	got := make([]string, len(scores))
	for i, s := range scores {
		got[i] = string(s.TimeFrame) + "/" + string(s.Scope) + "/" + s.Group
	}
	assert.Equal(t, []string{
		"SHORT/S1S2/ALL",
		"LONG/S1S2/ALL",
		"LONG/S1S2/Electricity Utilities",
		"LONG/S1S2/Steel",
		"LONG/S1S2S3/ALL",
	}, got)

	assert.InDelta(t, 50.0, scores[1].Influence, 1e-9)
	assert.Zero(t, scores[2].Influence)
	assert.Equal(t, 2, scores[1].Companies)

	// 1 + 2 + 1 + 1 + 2 contributions, in aggregator order.
	require.Len(t, contributions, 7)
	assert.Equal(t, "A", contributions[0].CompanyID)
	assert.Equal(t, "B", contributions[1].CompanyID)
	assert.Equal(t, "A", contributions[2].CompanyID)
}

func TestFlatten_Empty(t *testing.T) {
	scores, contributions := Flatten(nil)
	assert.Empty(t, scores)
	assert.Empty(t, contributions)
}

func TestCompanyRecords_Sorted(t *testing.T) {
	r := sampleReport()
	require.Len(t, r.Companies, 3)
	assert.Equal(t, "A", r.Companies[0].CompanyID)
	assert.Equal(t, model.TimeFrameShort, r.Companies[0].TimeFrame)
	assert.Equal(t, model.TimeFrameLong, r.Companies[1].TimeFrame)
	assert.Equal(t, "B", r.Companies[2].CompanyID)
	require.NotNil(t, r.Companies[2].TrajectoryExceedanceYear)
	assert.Equal(t, 2035, *r.Companies[2].TrajectoryExceedanceYear)

	assert.Nil(t, CompanyRecords(nil))
}

// ============================================================================
// Writers
// ============================================================================

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var decoded struct {
		Method       string                                `json:"method"`
		Scores       []ScoreRecord                         `json:"scores"`
		Aggregations map[string]map[string]json.RawMessage `json:"aggregations"`
		Missing      []string                              `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "WATS", decoded.Method)
	assert.Len(t, decoded.Scores, 5)
	assert.Contains(t, decoded.Aggregations["LONG"], "S1S2")
	assert.Equal(t, []string{"MISSING-1"}, decoded.Missing)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, scoreColumns, rows[0])
	assert.Equal(t, []string{"SHORT", "S1S2", "ALL", "1.5", "0.5", "100", "1"}, rows[1])
	assert.Equal(t, "1.75", rows[2][3])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetScores, SheetContributions, SheetCompanies}, f.GetSheetList())

	scores, err := f.GetRows(SheetScores)
	require.NoError(t, err)
	require.Len(t, scores, 6)
	assert.Equal(t, scoreColumns, scores[0])
	assert.Equal(t, "Steel", scores[4][2])

	contributions, err := f.GetRows(SheetContributions)
	require.NoError(t, err)
	assert.Len(t, contributions, 8)

	companies, err := f.GetRows(SheetCompanies)
	require.NoError(t, err)
	require.Len(t, companies, 4)
	assert.Equal(t, "2035", companies[3][10])
}

func TestWriteXLSX_NoCompanies(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, New("EQUAL", sampleAggregations(), nil, nil)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{SheetScores, SheetContributions}, f.GetSheetList())
}

// ============================================================================
// Table rendering
// ============================================================================

func TestRenderTable_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, sampleReport(), TableOptions{Precision: 2, Contributions: true}))

	out := buf.String()
	assert.Contains(t, out, "TEMPERATURE SCORES (WATS)")
	assert.Contains(t, out, "TIME FRAME")
	assert.Contains(t, out, "1.75°C")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "CONTRIBUTIONS")
	assert.Contains(t, out, "Beta")
	assert.Contains(t, out, "Not scored (1): MISSING-1")
	assert.NotContains(t, out, "╭")
}

func TestRenderTable_Styled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, sampleReport(), TableOptions{Styled: true, Precision: 1}))

	out := buf.String()
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "TEMPERATURE SCORES")
	assert.Contains(t, out, "2.0°C")
	assert.NotContains(t, out, "CONTRIBUTIONS")
}

func TestScoreColor(t *testing.T) {
	assert.Equal(t, coolColor(), scoreColor(1.5))
	assert.Equal(t, warmColor(), scoreColor(1.9))
	assert.Equal(t, hotColor(), scoreColor(3.2))
}

func TestRenderCompanies(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCompanies(&buf, sampleReport().Companies, 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "EXCEEDANCE")
	assert.Contains(t, lines[3], "TRAJECTORY_ONLY")
	assert.Contains(t, lines[3], "2035")
	assert.Contains(t, lines[1], "n/a")
}
