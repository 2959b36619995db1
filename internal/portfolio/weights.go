package portfolio

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rshade/tempscore/internal/model"
	"github.com/rshade/tempscore/internal/quantity"
)

//nolint:gochecknoglobals // Common unit for comparing emissions across companies.
var tonnesCO2 = quantity.Default().MustParseUnit("t CO2")

// Holding is one portfolio position.
type Holding struct {
	CompanyID       string
	CompanyName     string
	ISIN            string
	InvestmentValue decimal.Decimal
	// UserFields are extra portfolio columns, usable as grouping keys.
	UserFields map[string]string
}

// Row joins a holding with the company's aggregate for one scope and time frame.
type Row struct {
	*model.CompanyAggregates
	Holding Holding
}

// scopeEmissions returns the company's base-year emissions covered by scope in
// tonnes CO2. S1S2S3 adds S1S2 and S3, a missing side counting as zero.
func scopeEmissions(c *model.Company, scope model.Scope) (float64, bool, error) {
	var parts []quantity.Optional
	switch scope {
	case model.ScopeS1S2:
		parts = []quantity.Optional{c.GHGS1S2}
	case model.ScopeS3:
		parts = []quantity.Optional{c.GHGS3}
	default:
		parts = []quantity.Optional{c.GHGS1S2, c.GHGS3}
	}

	total, found := 0.0, false
	for _, p := range parts {
		q, ok := p.Get()
		if !ok {
			continue
		}
		v, err := q.MagnitudeIn(tonnesCO2)
		if err != nil {
			return 0, false, err
		}
		total += v
		found = true
	}
	return total, found, nil
}

// rawWeights returns one unnormalized weight per row.
func rawWeights(method Method, rows []Row) ([]float64, error) {
	weights := make([]float64, len(rows))
	var missing []string

	for i, r := range rows {
		switch {
		case method == MethodEqual:
			weights[i] = 1
		case method == MethodWATS:
			weights[i] = r.Holding.InvestmentValue.InexactFloat64()
		default:
			emissions, ok, err := scopeEmissions(r.Company, r.Scope)
			if err != nil {
				return nil, fmt.Errorf("company %s: %w", r.Company.ID, err)
			}
			if !ok {
				missing = append(missing, r.Company.ID)
				continue
			}
			if method == MethodTETS {
				weights[i] = emissions
				continue
			}
			owned, ok := ownedShare(method, r)
			if !ok {
				missing = append(missing, r.Company.ID)
				continue
			}
			weights[i] = owned * emissions
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w for %s: %s", ErrMissingWeight, method, strings.Join(missing, ", "))
	}
	return weights, nil
}

// ownedShare is investment / company value for an owned-emissions method.
func ownedShare(method Method, r Row) (float64, bool) {
	v, err := r.Company.Field(method.valueField())
	if err != nil {
		return 0, false
	}
	value, ok := v.(quantity.Optional)
	if !ok {
		return 0, false
	}
	q, ok := value.Get()
	if !ok || q.Magnitude() <= 0 {
		return 0, false
	}
	share := r.Holding.InvestmentValue.Div(decimal.NewFromFloat(q.Magnitude()))
	return share.InexactFloat64(), true
}

// normalize scales weights to sum to one.
func normalize(weights []float64) ([]float64, error) {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return nil, ErrZeroTotalWeight
	}
	out := make([]float64, len(weights))
	for i, w := range weights {
		out[i] = w / total
	}
	return out, nil
}

// TotalInvestment sums the holdings' investment values exactly.
func TotalInvestment(holdings []Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.InvestmentValue)
	}
	return total
}
