package model

import (
	"sort"
	"strconv"
)

// AggregationContribution is one company's share of an aggregated score.
type AggregationContribution struct {
	CompanyID            string          `json:"company_id"`
	CompanyName          string          `json:"company_name"`
	TemperatureScore     float64         `json:"temperature_score"`
	ScoreResultType      ScoreResultType `json:"score_result_type"`
	Contribution         float64         `json:"contribution"`
	ContributionRelative float64         `json:"contribution_relative"`
	InvestmentValue      float64         `json:"investment_value,omitempty"`
}

// Aggregation is a weighted score with its per-company contributions.
// Contributions sum to Score and their relative shares sum to 100.
type Aggregation struct {
	Score         float64                   `json:"score"`
	Proportion    float64                   `json:"proportion"`
	Contributions []AggregationContribution `json:"contributions"`
}

// ScoreAggregation is the portfolio score for one scope and time frame.
type ScoreAggregation struct {
	All                 Aggregation            `json:"all"`
	InfluencePercentage float64                `json:"influence_percentage"`
	Grouped             map[string]Aggregation `json:"grouped,omitempty"`
}

// ScoreAggregationScopes maps scope to aggregation.
type ScoreAggregationScopes map[Scope]*ScoreAggregation

// ScoreAggregations maps time frame and scope to aggregation.
type ScoreAggregations map[TimeFrame]ScoreAggregationScopes

// Get returns the aggregation for a time frame and scope, nil when absent.
func (s ScoreAggregations) Get(tf TimeFrame, scope Scope) *ScoreAggregation {
	if s == nil {
		return nil
	}
	return s[tf][scope]
}

// Anonymize replaces company names and ids in every contribution with
// stable placeholders ("Company 1", ...), numbered in first-seen order.
func (s ScoreAggregations) Anonymize() {
	names := make(map[string]string)
	rename := func(cs []AggregationContribution) {
		for i := range cs {
			alias, ok := names[cs[i].CompanyID]
			if !ok {
				alias = "Company " + strconv.Itoa(len(names)+1)
				names[cs[i].CompanyID] = alias
			}
			cs[i].CompanyID = alias
			cs[i].CompanyName = alias
		}
	}
	for _, tf := range AllTimeFrames {
		for _, scope := range AllScopes {
			agg := s.Get(tf, scope)
			if agg == nil {
				continue
			}
			rename(agg.All.Contributions)
			keys := make([]string, 0, len(agg.Grouped))
			for key := range agg.Grouped {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				rename(agg.Grouped[key].Contributions)
			}
		}
	}
}
