package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/rshade/tempscore/internal/logging"
	"github.com/rshade/tempscore/internal/portfolio"
)

// Portfolio column names. Any other column becomes a user field.
const (
	ColumnCompanyID       = "company_id"
	ColumnCompanyName     = "company_name"
	ColumnCompanyISIN     = "company_isin"
	ColumnInvestmentValue = "investment_value"
)

// Portfolio errors.
var (
	ErrMissingColumn  = errors.New("portfolio is missing a required column")
	ErrInvalidHolding = errors.New("invalid portfolio row")
	ErrEmptyWorkbook  = errors.New("workbook has no sheets")
	ErrEmptyPortfolio = errors.New("portfolio has no holdings")
)

// PortfolioFile is the JSON/YAML portfolio document. Each holding is a flat
// record of the portfolio columns plus any user fields.
type PortfolioFile struct {
	SchemaVersion string           `json:"schema_version" yaml:"schema_version"`
	Holdings      []map[string]any `json:"portfolio"      yaml:"portfolio"`
}

// LoadPortfolio reads holdings from a JSON, YAML, CSV or XLSX file.
func LoadPortfolio(ctx context.Context, path string) ([]portfolio.Holding, error) {
	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).
		Str("component", "ingest").
		Str("operation", "load_portfolio").
		Str("path", path).
		Msg("loading portfolio")

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	var holdings []portfolio.Holding
	switch format {
	case FormatCSV:
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("opening portfolio: %w", openErr)
		}
		defer f.Close()
		holdings, err = ReadPortfolioCSV(f)
	case FormatXLSX:
		holdings, err = readPortfolioXLSX(path)
	default:
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("reading portfolio: %w", readErr)
		}
		holdings, err = ParsePortfolio(data, format)
	}
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return nil, ErrEmptyPortfolio
	}

	log.Debug().Ctx(ctx).
		Str("component", "ingest").
		Str("operation", "load_portfolio").
		Int("holding_count", len(holdings)).
		Str("total_investment", portfolio.TotalInvestment(holdings).String()).
		Msg("portfolio loaded")
	return holdings, nil
}

// ParsePortfolio decodes a JSON or YAML portfolio document.
func ParsePortfolio(data []byte, format Format) ([]portfolio.Holding, error) {
	var doc PortfolioFile
	if err := decode(data, format, &doc); err != nil {
		return nil, fmt.Errorf("parsing portfolio: %w", err)
	}
	if err := CheckSchemaVersion(doc.SchemaVersion); err != nil {
		return nil, err
	}

	out := make([]portfolio.Holding, 0, len(doc.Holdings))
	for i, rec := range doc.Holdings {
		fields := make(map[string]string, len(rec))
		for k, v := range rec {
			fields[k] = fmt.Sprint(v)
		}
		h, err := holdingFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("holding %d: %w", i+1, err)
		}
		out = append(out, h)
	}
	return out, nil
}

// ReadPortfolioCSV reads holdings from CSV with a header row.
func ReadPortfolioCSV(r io.Reader) ([]portfolio.Holding, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading portfolio CSV: %w", err)
	}
	return holdingsFromRows(rows)
}

func readPortfolioXLSX(path string) ([]portfolio.Holding, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening portfolio workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return holdingsFromRows(rows)
}

// holdingsFromRows treats the first row as the header. Blank rows are skipped.
func holdingsFromRows(rows [][]string) ([]portfolio.Holding, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for _, required := range []string{ColumnCompanyID, ColumnInvestmentValue} {
		if !contains(header, required) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	out := make([]portfolio.Holding, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				fields[name] = strings.TrimSpace(row[i])
			}
		}
		h, err := holdingFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		out = append(out, h)
	}
	return out, nil
}

func holdingFromFields(fields map[string]string) (portfolio.Holding, error) {
	id := fields[ColumnCompanyID]
	if id == "" {
		return portfolio.Holding{}, fmt.Errorf("%w: empty %s", ErrInvalidHolding, ColumnCompanyID)
	}
	value, err := decimal.NewFromString(strings.ReplaceAll(fields[ColumnInvestmentValue], ",", ""))
	if err != nil {
		return portfolio.Holding{}, fmt.Errorf("%w: company %s: %s %q", ErrInvalidHolding, id, ColumnInvestmentValue, fields[ColumnInvestmentValue])
	}
	if value.IsNegative() {
		return portfolio.Holding{}, fmt.Errorf("%w: company %s: negative %s", ErrInvalidHolding, id, ColumnInvestmentValue)
	}

	h := portfolio.Holding{
		CompanyID:       id,
		CompanyName:     fields[ColumnCompanyName],
		ISIN:            fields[ColumnCompanyISIN],
		InvestmentValue: value,
		UserFields:      make(map[string]string),
	}
	for k, v := range fields {
		switch k {
		case ColumnCompanyID, ColumnCompanyName, ColumnCompanyISIN, ColumnInvestmentValue:
		default:
			h.UserFields[k] = v
		}
	}
	return h, nil
}

// IDs returns the holdings' company ids in portfolio order.
func IDs(holdings []portfolio.Holding) []string {
	out := make([]string, len(holdings))
	for i, h := range holdings {
		out[i] = h.CompanyID
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
