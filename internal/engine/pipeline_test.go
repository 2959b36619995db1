package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/tempscore/internal/config"
	"github.com/rshade/tempscore/internal/engine/batch"
	"github.com/rshade/tempscore/internal/model"
)

func strPtr(s string) *string { return &s }

func steelInput(id string) model.CompanyInput {
	return model.CompanyInput{
		CompanyID:          id,
		CompanyName:        "Steel " + id,
		Sector:             "Steel",
		Region:             "Global",
		BaseYearProduction: strPtr("100 t Steel"),
		GHGS1S2:            strPtr("50 t CO2"),
		Targets: []model.TargetInput{{
			Scope:        "S1S2",
			Type:         "intensity",
			BaseYear:     2020,
			EndYear:      2030,
			ReductionPct: 0.5,
		}},
	}
}

func TestPipeline_Run(t *testing.T) {
	cfg := config.Default()
	cfg.Portfolio.BatchSize = 2

	inputs := []model.CompanyInput{
		steelInput("S-1"),
		{CompanyID: "BAD-1", CompanyName: "Nowhere", Sector: "Underwater Basket Weaving", Region: "Global"},
		steelInput("S-2"),
	}

	var snapshots []batch.Snapshot
	p := NewPipeline(cfg, &model.BenchmarkSet{}, WithWorkers(1), WithProgress(func(s batch.Snapshot) {
		snapshots = append(snapshots, s)
	}))
	result, err := p.Run(context.Background(), inputs)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Scored())
	assert.Equal(t, "S-1", result.Companies[0].ID)
	assert.Equal(t, "S-2", result.Companies[1].ID)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "BAD-1", result.Failures[0].CompanyID)
	assert.ErrorIs(t, result.Failures[0].Err, model.ErrUnknownSector)
	assert.NotEmpty(t, result.Failures[0].Field())

	aggs := result.Aggregates["S-1"]
	assert.Len(t, aggs, len(model.ScoredScopes)*len(model.AllTimeFrames))

	target := result.Companies[0].ProjectedTargets.Get(model.ScopeS1S2)
	q, ok := target.At(2030)
	require.True(t, ok)
	assert.InDelta(t, 0.25, q.Magnitude(), 1e-9)

	require.Len(t, snapshots, 2)
	assert.Equal(t, 3, snapshots[1].Done)
}

func TestPipeline_Validate(t *testing.T) {
	p := NewPipeline(config.Default(), nil)
	result, err := p.Validate(context.Background(), []model.CompanyInput{steelInput("S-1")})
	require.NoError(t, err)
	require.Len(t, result.Companies, 1)
	assert.False(t, result.Companies[0].Projected())
	assert.Empty(t, result.Aggregates)
	assert.Empty(t, result.Failures)
}

func TestPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPipeline(config.Default(), nil).Run(ctx, []model.CompanyInput{steelInput("S-1")})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_InvalidBatchSize(t *testing.T) {
	cfg := config.Default()
	cfg.Portfolio.BatchSize = 0
	_, err := NewPipeline(cfg, nil).Run(context.Background(), nil)
	require.ErrorIs(t, err, batch.ErrInvalidBatchSize)
}
