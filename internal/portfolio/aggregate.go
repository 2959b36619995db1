package portfolio

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rshade/tempscore/internal/config"
	"github.com/rshade/tempscore/internal/logging"
	"github.com/rshade/tempscore/internal/model"
)

// GroupSeparator joins the values of several grouping fields into one key.
const GroupSeparator = "-"

// Options configure an aggregation run.
type Options struct {
	Method        Method
	FallbackScore float64
	// GroupBy names company fields or portfolio user fields to group by.
	GroupBy    []string
	TimeFrames []model.TimeFrame
	Scopes     []model.Scope
	Anonymize  bool
}

// DefaultOptions aggregates every scored scope and time frame with the
// configured default method and fallback.
func DefaultOptions(cfg config.PortfolioConfig, scoring config.ScoringControls) (Options, error) {
	method, err := ParseMethod(cfg.Method)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Method:        method,
		FallbackScore: scoring.FallbackScore,
		TimeFrames:    model.AllTimeFrames,
		Scopes:        model.ScoredScopes,
	}, nil
}

// Aggregator combines per-company scores into portfolio scores.
type Aggregator struct {
	opts Options
}

// NewAggregator validates opts and returns an aggregator.
func NewAggregator(opts Options) (*Aggregator, error) {
	if _, err := ParseMethod(string(opts.Method)); err != nil {
		return nil, err
	}
	if len(opts.TimeFrames) == 0 {
		opts.TimeFrames = model.AllTimeFrames
	}
	if len(opts.Scopes) == 0 {
		opts.Scopes = model.ScoredScopes
	}
	return &Aggregator{opts: opts}, nil
}

// Aggregate scores the portfolio for every configured time frame and scope.
// Rows are the join of holdings with company aggregates; rows for other
// scopes or time frames are ignored.
func (a *Aggregator) Aggregate(ctx context.Context, rows []Row) (model.ScoreAggregations, error) {
	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).
		Str("component", "portfolio").
		Str("operation", "aggregate").
		Str("method", string(a.opts.Method)).
		Int("rows", len(rows)).
		Msg("aggregating portfolio")

	if len(rows) == 0 {
		return nil, ErrEmptyPortfolio
	}
	if err := a.checkGrouping(rows[0]); err != nil {
		return nil, err
	}

	out := make(model.ScoreAggregations, len(a.opts.TimeFrames))
	for _, tf := range a.opts.TimeFrames {
		out[tf] = make(model.ScoreAggregationScopes, len(a.opts.Scopes))
		for _, scope := range a.opts.Scopes {
			selected := selectRows(rows, tf, scope)
			if len(selected) == 0 {
				continue
			}
			agg, err := a.scoreAggregation(selected)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", tf, scope, err)
			}
			out[tf][scope] = agg
		}
	}

	if a.opts.Anonymize {
		out.Anonymize()
	}

	log.Debug().Ctx(ctx).
		Str("component", "portfolio").
		Str("operation", "aggregate").
		Int("time_frames", len(out)).
		Msg("portfolio aggregated")
	return out, nil
}

func selectRows(rows []Row, tf model.TimeFrame, scope model.Scope) []Row {
	var out []Row
	for _, r := range rows {
		if r.TimeFrame == tf && r.Scope == scope {
			out = append(out, r)
		}
	}
	return out
}

func (a *Aggregator) scoreAggregation(rows []Row) (*model.ScoreAggregation, error) {
	weights, err := a.weights(rows)
	if err != nil {
		return nil, err
	}

	all := a.aggregation(rows, weights)
	all.Proportion = 1

	influence := 0.0
	for i, r := range rows {
		if r.ScoreResultType.UsesTarget() {
			influence += weights[i]
		}
	}

	result := &model.ScoreAggregation{All: all, InfluencePercentage: influence * 100}
	if len(a.opts.GroupBy) == 0 {
		return result, nil
	}

	members := make(map[string][]int)
	for i, r := range rows {
		key := a.groupKey(r)
		members[key] = append(members[key], i)
	}
	result.Grouped = make(map[string]model.Aggregation, len(members))
	for key, idx := range members {
		groupRows := make([]Row, len(idx))
		share := 0.0
		for j, i := range idx {
			groupRows[j] = rows[i]
			share += weights[i]
		}
		groupWeights, err := a.weights(groupRows)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", key, err)
		}
		agg := a.aggregation(groupRows, groupWeights)
		agg.Proportion = share
		result.Grouped[key] = agg
	}
	return result, nil
}

// weights returns normalized weights for rows under the configured method.
// Investment weights are computed in decimal arithmetic.
func (a *Aggregator) weights(rows []Row) ([]float64, error) {
	if a.opts.Method == MethodWATS {
		holdings := make([]Holding, len(rows))
		for i, r := range rows {
			holdings[i] = r.Holding
		}
		total := TotalInvestment(holdings)
		if !total.IsPositive() {
			return nil, ErrZeroTotalWeight
		}
		out := make([]float64, len(rows))
		for i, h := range holdings {
			out[i] = h.InvestmentValue.Div(total).InexactFloat64()
		}
		return out, nil
	}

	raw, err := rawWeights(a.opts.Method, rows)
	if err != nil {
		return nil, err
	}
	return normalize(raw)
}

// aggregation builds the weighted score and contributions, largest first.
func (a *Aggregator) aggregation(rows []Row, weights []float64) model.Aggregation {
	contributions := make([]model.AggregationContribution, len(rows))
	score := 0.0
	for i, r := range rows {
		s := r.TemperatureScore
		if r.ScoreResultType == model.ResultDefault {
			s = a.opts.FallbackScore
		}
		contributions[i] = model.AggregationContribution{
			CompanyID:        r.Company.ID,
			CompanyName:      r.Company.Name,
			TemperatureScore: s,
			ScoreResultType:  r.ScoreResultType,
			Contribution:     weights[i] * s,
			InvestmentValue:  r.Holding.InvestmentValue.InexactFloat64(),
		}
		score += contributions[i].Contribution
	}
	for i := range contributions {
		if score != 0 {
			contributions[i].ContributionRelative = contributions[i].Contribution / score * 100
		}
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Contribution > contributions[j].Contribution
	})
	return model.Aggregation{Score: score, Contributions: contributions}
}

// groupKey joins the row's grouping field values. Company fields take
// precedence over portfolio user fields of the same name.
func (a *Aggregator) groupKey(r Row) string {
	parts := make([]string, len(a.opts.GroupBy))
	for i, field := range a.opts.GroupBy {
		if v, err := r.Company.FieldString(field); err == nil {
			parts[i] = v
			continue
		}
		parts[i] = r.Holding.UserFields[field]
	}
	return strings.Join(parts, GroupSeparator)
}

func (a *Aggregator) checkGrouping(sample Row) error {
	for _, field := range a.opts.GroupBy {
		if _, err := sample.Company.FieldString(field); err == nil {
			continue
		}
		if _, ok := sample.Holding.UserFields[field]; ok {
			continue
		}
		return fmt.Errorf("%w: %q", ErrUnknownGroupName, field)
	}
	return nil
}

// Join pairs each holding with every aggregate of its company. It returns
// the ids of holdings with no scored company, in portfolio order.
func Join(holdings []Holding, scored map[string][]*model.CompanyAggregates) ([]Row, []string) {
	var rows []Row
	var missing []string
	for _, h := range holdings {
		aggs, ok := scored[h.CompanyID]
		if !ok {
			missing = append(missing, h.CompanyID)
			continue
		}
		for _, agg := range aggs {
			rows = append(rows, Row{CompanyAggregates: agg, Holding: h})
		}
	}
	return rows, missing
}
