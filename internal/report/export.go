package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Column headers shared by the CSV and Excel writers.
//
//nolint:gochecknoglobals // Static column layouts.
var (
	scoreColumns = []string{
		"time_frame", "scope", "group", "temperature_score", "proportion", "influence_percentage", "companies",
	}
	contributionColumns = []string{
		"time_frame", "scope", "group", "company_id", "company_name", "temperature_score",
		"score_result_type", "contribution", "contribution_relative",
	}
	companyColumns = []string{
		"company_id", "company_name", "sector", "region", "time_frame", "scope", "temperature_score",
		"trajectory_score", "target_score", "score_result_type",
		"trajectory_exceedance_year", "target_exceedance_year",
	}
)

// Sheet names of the Excel workbook.
const (
	SheetScores        = "Scores"
	SheetContributions = "Contributions"
	SheetCompanies     = "Companies"
)

// Excel column width bounds.
const (
	minColWidth = 10
	maxColWidth = 50
)

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// WriteCSV writes the score rows as CSV with a header. Numbers are written
// at full precision.
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(scoreColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range r.Scores {
		if err := cw.Write(scoreRow(s)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func scoreRow(s ScoreRecord) []string {
	return []string{
		string(s.TimeFrame),
		string(s.Scope),
		s.Group,
		strconv.FormatFloat(s.Score, 'f', -1, 64),
		strconv.FormatFloat(s.Proportion, 'f', -1, 64),
		strconv.FormatFloat(s.Influence, 'f', -1, 64),
		strconv.Itoa(s.Companies),
	}
}

// WriteXLSX writes a workbook with score, contribution and (when present)
// company sheets. Header rows are styled, frozen and filterable.
func WriteXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	scores := make([][]any, len(r.Scores))
	for i, s := range r.Scores {
		scores[i] = []any{string(s.TimeFrame), string(s.Scope), s.Group, s.Score, s.Proportion, s.Influence, s.Companies}
	}
	contributions := make([][]any, len(r.Contributions))
	for i, c := range r.Contributions {
		contributions[i] = []any{
			string(c.TimeFrame), string(c.Scope), c.Group, c.CompanyID, c.CompanyName,
			c.TemperatureScore, string(c.ScoreResultType), c.Contribution, c.ContributionRelative,
		}
	}

	if err = f.SetSheetName("Sheet1", SheetScores); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if err = writeSheet(f, SheetScores, scoreColumns, scores, headerStyle); err != nil {
		return err
	}
	if _, err = f.NewSheet(SheetContributions); err != nil {
		return fmt.Errorf("creating sheet %s: %w", SheetContributions, err)
	}
	if err = writeSheet(f, SheetContributions, contributionColumns, contributions, headerStyle); err != nil {
		return err
	}

	if len(r.Companies) > 0 {
		companies := make([][]any, len(r.Companies))
		for i, c := range r.Companies {
			companies[i] = []any{
				c.CompanyID, c.CompanyName, c.Sector, c.Region, string(c.TimeFrame), string(c.Scope),
				c.TemperatureScore, cellFloat(c.TrajectoryScore), cellFloat(c.TargetScore),
				string(c.ScoreResultType), cellInt(c.TrajectoryExceedanceYear), cellInt(c.TargetExceedanceYear),
			}
		}
		if _, err = f.NewSheet(SheetCompanies); err != nil {
			return fmt.Errorf("creating sheet %s: %w", SheetCompanies, err)
		}
		if err = writeSheet(f, SheetCompanies, companyColumns, companies, headerStyle); err != nil {
			return err
		}
	}

	if err = f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, columns []string, rows [][]any, headerStyle int) error {
	header := make([]any, len(columns))
	widths := make([]int, len(columns))
	for i, col := range columns {
		header[i] = col
		widths[i] = len(col)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err = f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, cellErr := excelize.CoordinatesToCellName(1, i+2)
		if cellErr != nil {
			return cellErr
		}
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
		for j, v := range row {
			if n := len(fmt.Sprint(v)); n > widths[j] {
				widths[j] = n
			}
		}
	}

	if err = f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing %s header: %w", sheet, err)
	}
	if len(rows) > 0 {
		if err = f.AutoFilter(sheet, "A1:"+lastHeader, nil); err != nil {
			return fmt.Errorf("filtering %s: %w", sheet, err)
		}
	}
	for j, width := range widths {
		col, colErr := excelize.ColumnNumberToName(j + 1)
		if colErr != nil {
			return colErr
		}
		if err = f.SetColWidth(sheet, col, col, float64(min(max(width+2, minColWidth), maxColWidth))); err != nil {
			return err
		}
	}
	return nil
}

// cellFloat and cellInt leave undefined values as empty cells.
func cellFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func cellInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
