// Package report renders portfolio temperature scores as a terminal table,
// JSON, CSV or an Excel workbook.
//
// Every writer works from the same flattened Report so the formats agree on
// row order: time frame rank, then scope rank, then the portfolio-wide row
// followed by groups in key order.
package report

import (
	"sort"

	"github.com/rshade/tempscore/internal/model"
)

// AllGroup labels the portfolio-wide aggregation in flattened rows.
const AllGroup = "ALL"

// ScoreRecord is one aggregated score.
type ScoreRecord struct {
	TimeFrame  model.TimeFrame `json:"time_frame"`
	Scope      model.Scope     `json:"scope"`
	Group      string          `json:"group"`
	Score      float64         `json:"score"`
	Proportion float64         `json:"proportion"`
	// Influence is the share of the score driven by company targets; it is
	// reported on the portfolio-wide row only.
	Influence float64 `json:"influence_percentage"`
	Companies int     `json:"companies"`
}

// ContributionRecord is one company's contribution to a ScoreRecord.
type ContributionRecord struct {
	TimeFrame            model.TimeFrame       `json:"time_frame"`
	Scope                model.Scope           `json:"scope"`
	Group                string                `json:"group"`
	CompanyID            string                `json:"company_id"`
	CompanyName          string                `json:"company_name"`
	TemperatureScore     float64               `json:"temperature_score"`
	ScoreResultType      model.ScoreResultType `json:"score_result_type"`
	Contribution         float64               `json:"contribution"`
	ContributionRelative float64               `json:"contribution_relative"`
}

// CompanyRecord is one company's score for a scope and time frame.
type CompanyRecord struct {
	CompanyID                string                `json:"company_id"`
	CompanyName              string                `json:"company_name"`
	Sector                   string                `json:"sector"`
	Region                   string                `json:"region"`
	TimeFrame                model.TimeFrame       `json:"time_frame"`
	Scope                    model.Scope           `json:"scope"`
	TemperatureScore         float64               `json:"temperature_score"`
	TrajectoryScore          *float64              `json:"trajectory_score,omitempty"`
	TargetScore              *float64              `json:"target_score,omitempty"`
	ScoreResultType          model.ScoreResultType `json:"score_result_type"`
	TrajectoryExceedanceYear *int                  `json:"trajectory_exceedance_year,omitempty"`
	TargetExceedanceYear     *int                  `json:"target_exceedance_year,omitempty"`
}

// Report is everything a run produces for output.
type Report struct {
	Method        string                  `json:"method"`
	Scores        []ScoreRecord           `json:"scores"`
	Contributions []ContributionRecord    `json:"contributions"`
	Companies     []CompanyRecord         `json:"companies,omitempty"`
	Aggregations  model.ScoreAggregations `json:"aggregations"`
	// Missing lists portfolio companies that could not be scored.
	Missing []string `json:"missing,omitempty"`
}

// New flattens aggregations into a Report. companies may be nil, for
// example when the output is anonymized.
func New(method string, aggs model.ScoreAggregations, companies []*model.CompanyAggregates, missing []string) *Report {
	r := &Report{Method: method, Aggregations: aggs, Missing: missing}
	r.Scores, r.Contributions = Flatten(aggs)
	r.Companies = CompanyRecords(companies)
	return r
}

// Flatten turns nested aggregations into score and contribution rows.
func Flatten(aggs model.ScoreAggregations) ([]ScoreRecord, []ContributionRecord) {
	var scores []ScoreRecord
	var contributions []ContributionRecord

	add := func(tf model.TimeFrame, scope model.Scope, group string, agg model.Aggregation, influence float64) {
		scores = append(scores, ScoreRecord{
			TimeFrame:  tf,
			Scope:      scope,
			Group:      group,
			Score:      agg.Score,
			Proportion: agg.Proportion,
			Influence:  influence,
			Companies:  len(agg.Contributions),
		})
		for _, c := range agg.Contributions {
			contributions = append(contributions, ContributionRecord{
				TimeFrame:            tf,
				Scope:                scope,
				Group:                group,
				CompanyID:            c.CompanyID,
				CompanyName:          c.CompanyName,
				TemperatureScore:     c.TemperatureScore,
				ScoreResultType:      c.ScoreResultType,
				Contribution:         c.Contribution,
				ContributionRelative: c.ContributionRelative,
			})
		}
	}

	for _, tf := range model.AllTimeFrames {
		for _, scope := range model.AllScopes {
			agg := aggs.Get(tf, scope)
			if agg == nil {
				continue
			}
			add(tf, scope, AllGroup, agg.All, agg.InfluencePercentage)

			keys := make([]string, 0, len(agg.Grouped))
			for key := range agg.Grouped {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				add(tf, scope, key, agg.Grouped[key], 0)
			}
		}
	}
	return scores, contributions
}

// CompanyRecords converts company aggregates, ordered by company id, then
// time frame and scope rank.
func CompanyRecords(aggs []*model.CompanyAggregates) []CompanyRecord {
	if len(aggs) == 0 {
		return nil
	}
	out := make([]CompanyRecord, 0, len(aggs))
	for _, a := range aggs {
		if a == nil || a.Company == nil {
			continue
		}
		out = append(out, CompanyRecord{
			CompanyID:                a.ID,
			CompanyName:              a.Name,
			Sector:                   a.Sector,
			Region:                   a.Region,
			TimeFrame:                a.TimeFrame,
			Scope:                    a.Scope,
			TemperatureScore:         a.TemperatureScore,
			TrajectoryScore:          a.TrajectoryScore,
			TargetScore:              a.TargetScore,
			ScoreResultType:          a.ScoreResultType,
			TrajectoryExceedanceYear: a.TrajectoryExceedanceYear,
			TargetExceedanceYear:     a.TargetExceedanceYear,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CompanyID != out[j].CompanyID {
			return out[i].CompanyID < out[j].CompanyID
		}
		if out[i].TimeFrame != out[j].TimeFrame {
			return out[i].TimeFrame.Rank() < out[j].TimeFrame.Rank()
		}
		return out[i].Scope.Rank() < out[j].Scope.Rank()
	})
	return out
}
