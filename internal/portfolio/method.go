// Package portfolio aggregates company temperature scores into portfolio and
// group scores under a selectable weighting method.
package portfolio

import (
	"fmt"
	"strings"
)

type constError string

func (e constError) Error() string { return string(e) }

// Aggregation errors.
const (
	ErrUnknownMethod    constError = "unknown aggregation method"
	ErrMissingWeight    constError = "missing weighting data"
	ErrZeroTotalWeight  constError = "total portfolio weight is zero"
	ErrEmptyPortfolio   constError = "portfolio has no scored holdings"
	ErrUnknownGroupName constError = "unknown grouping field"
)

// Method selects how holdings are weighted.
type Method string

// Weighting methods.
const (
	// MethodEqual weights every holding equally.
	MethodEqual Method = "EQUAL"
	// MethodWATS weights by investment value.
	MethodWATS Method = "WATS"
	// MethodTETS weights by total company emissions.
	MethodTETS Method = "TETS"
	// MethodMOTS weights by emissions owned through market cap.
	MethodMOTS Method = "MOTS"
	// MethodEOTS weights by emissions owned through enterprise value.
	MethodEOTS Method = "EOTS"
	// MethodECOTS weights by emissions owned through enterprise value plus cash.
	MethodECOTS Method = "ECOTS"
	// MethodAOTS weights by emissions owned through total assets.
	MethodAOTS Method = "AOTS"
	// MethodROTS weights by emissions owned through revenue.
	MethodROTS Method = "ROTS"
)

// AllMethods lists every weighting method.
//
//nolint:gochecknoglobals // Fixed enumeration.
var AllMethods = []Method{
	MethodEqual, MethodWATS, MethodTETS, MethodMOTS, MethodEOTS, MethodECOTS, MethodAOTS, MethodROTS,
}

// ParseMethod parses a method name case-insensitively.
func ParseMethod(s string) (Method, error) {
	want := Method(strings.ToUpper(strings.TrimSpace(s)))
	for _, m := range AllMethods {
		if m == want {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// OwnedEmissions reports whether the method weights by the share of company
// emissions owned through the investment.
func (m Method) OwnedEmissions() bool {
	return m.valueField() != ""
}

// valueField is the company field that the investment is a share of.
func (m Method) valueField() string {
	switch m {
	case MethodMOTS:
		return "company_market_cap"
	case MethodEOTS:
		return "company_enterprise_value"
	case MethodECOTS:
		return "company_ev_plus_cash"
	case MethodAOTS:
		return "company_total_assets"
	case MethodROTS:
		return "company_revenue"
	default:
		return ""
	}
}
