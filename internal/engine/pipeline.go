// Package engine runs the per-company construction, projection and scoring
// chain over a set of company records.
package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/rshade/tempscore/internal/config"
	"github.com/rshade/tempscore/internal/engine/batch"
	"github.com/rshade/tempscore/internal/logging"
	"github.com/rshade/tempscore/internal/model"
	"github.com/rshade/tempscore/internal/projection"
	"github.com/rshade/tempscore/internal/reconcile"
	"github.com/rshade/tempscore/internal/scoring"
)

// Failure records why one company could not be scored.
type Failure struct {
	CompanyID string
	Err       error
}

// Field returns the offending field for validation failures, empty otherwise.
func (f Failure) Field() string {
	var ve *model.ValidationError
	if errors.As(f.Err, &ve) {
		return ve.Field
	}
	return ""
}

// Result is the outcome of a pipeline run. Companies and their aggregates
// are in input order; failed companies appear only in Failures.
type Result struct {
	Companies  []*model.Company
	Aggregates map[string][]*model.CompanyAggregates
	Failures   []Failure
}

// Scored reports how many companies were scored.
func (r *Result) Scored() int { return len(r.Companies) }

// Pipeline turns company records into scored aggregates. It is safe to run
// repeatedly; each run shares only read-only benchmarks and unit tables.
type Pipeline struct {
	deps       reconcile.Deps
	projector  *projection.Projector
	scorer     *scoring.Scorer
	batchSize  int
	workers    int
	onProgress batch.ProgressFunc
}

// Option customizes a pipeline.
type Option func(*Pipeline)

// WithProgress reports progress after each batch of companies.
func WithProgress(fn batch.ProgressFunc) Option {
	return func(p *Pipeline) { p.onProgress = fn }
}

// WithWorkers overrides the configured worker count.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithDeps overrides the unit registry and sector table.
func WithDeps(deps reconcile.Deps) Option {
	return func(p *Pipeline) { p.deps = deps }
}

// NewPipeline builds a pipeline from cfg over the given benchmarks.
func NewPipeline(cfg *config.Config, benchmarks *model.BenchmarkSet, opts ...Option) *Pipeline {
	deps := reconcile.DefaultDeps()
	deps.Sectors = cfg.Sectors
	p := &Pipeline{
		deps:      deps,
		projector: projection.NewProjector(cfg.Projection, benchmarks),
		scorer:    scoring.NewScorer(cfg.Projection, cfg.Scoring, benchmarks),
		batchSize: cfg.Portfolio.BatchSize,
		workers:   cfg.Portfolio.Workers,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run constructs, projects and scores every input. Per-company failures are
// collected in the result and do not stop the run; only cancellation or an
// invalid pipeline configuration returns an error.
func (p *Pipeline) Run(ctx context.Context, inputs []model.CompanyInput) (*Result, error) {
	return p.run(ctx, inputs, true)
}

// Validate constructs every input without projecting or scoring.
func (p *Pipeline) Validate(ctx context.Context, inputs []model.CompanyInput) (*Result, error) {
	return p.run(ctx, inputs, false)
}

func (p *Pipeline) run(ctx context.Context, inputs []model.CompanyInput, score bool) (*Result, error) {
	ctx = logging.WithTrace(ctx, *logging.FromContext(ctx))
	log := logging.FromContext(ctx)
	log.Info().Ctx(ctx).
		Str("component", "engine").
		Str("operation", "run").
		Int("companies", len(inputs)).
		Bool("score", score).
		Msg("pipeline started")

	proc, err := batch.NewProcessor[model.CompanyInput](p.batchSize, p.workers)
	if err != nil {
		return nil, err
	}
	if p.onProgress != nil {
		proc.WithProgress(p.onProgress)
	}

	companies := make([]*model.Company, len(inputs))
	aggregates := make([][]*model.CompanyAggregates, len(inputs))
	var mu sync.Mutex
	var failures []Failure

	err = proc.Run(ctx, inputs, func(ctx context.Context, in model.CompanyInput, i int) error {
		c, aggs, err := p.one(ctx, in, score)
		if err != nil {
			log.Error().Ctx(ctx).
				Str("component", "engine").
				Str("operation", "run").
				Str("company_id", in.CompanyID).
				Err(err).
				Msg("company failed")
			mu.Lock()
			failures = append(failures, Failure{CompanyID: in.CompanyID, Err: err})
			mu.Unlock()
			return nil
		}
		companies[i] = c
		aggregates[i] = aggs
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Aggregates: make(map[string][]*model.CompanyAggregates, len(inputs))}
	for i, c := range companies {
		if c == nil {
			continue
		}
		result.Companies = append(result.Companies, c)
		if score {
			result.Aggregates[c.ID] = aggregates[i]
		}
	}
	result.Failures = orderFailures(inputs, failures)

	log.Info().Ctx(ctx).
		Str("component", "engine").
		Str("operation", "run").
		Int("scored", len(result.Companies)).
		Int("failed", len(result.Failures)).
		Msg("pipeline finished")
	return result, nil
}

func (p *Pipeline) one(ctx context.Context, in model.CompanyInput, score bool) (*model.Company, []*model.CompanyAggregates, error) {
	c, err := reconcile.NewCompany(ctx, in, p.deps)
	if err != nil || !score {
		return c, nil, err
	}
	if err = p.projector.Project(ctx, c); err != nil {
		return nil, nil, err
	}
	aggs, err := p.scorer.Score(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	return c, aggs, nil
}

// orderFailures sorts failures into input order.
func orderFailures(inputs []model.CompanyInput, failures []Failure) []Failure {
	if len(failures) < 2 {
		return failures
	}
	byID := make(map[string][]Failure, len(failures))
	for _, f := range failures {
		byID[f.CompanyID] = append(byID[f.CompanyID], f)
	}
	out := make([]Failure, 0, len(failures))
	for _, in := range inputs {
		if fs, ok := byID[in.CompanyID]; ok {
			out = append(out, fs...)
			delete(byID, in.CompanyID)
		}
	}
	return out
}
