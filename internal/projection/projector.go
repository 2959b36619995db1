package projection

import (
	"context"
	"fmt"

	"github.com/rshade/tempscore/internal/config"
	"github.com/rshade/tempscore/internal/logging"
	"github.com/rshade/tempscore/internal/model"
)

// projectedScopes are the scopes projected directly. S1S2S3 is derived from
// them unless the company states S1S2S3 targets.
//
//nolint:gochecknoglobals // Fixed scope list.
var projectedScopes = []model.Scope{model.ScopeS1S2, model.ScopeS3}

// Projector attaches trajectory and target projections to companies.
// It only reads its benchmarks and is safe for concurrent use.
type Projector struct {
	controls   config.ProjectionControls
	benchmarks *model.BenchmarkSet
}

// NewProjector creates a projector over the given benchmarks.
func NewProjector(controls config.ProjectionControls, benchmarks *model.BenchmarkSet) *Projector {
	if benchmarks == nil {
		benchmarks = &model.BenchmarkSet{}
	}
	return &Projector{controls: controls, benchmarks: benchmarks}
}

// Production projects the company's base-year production over the
// configured years in its production metric. It returns nil when the
// base-year production is unknown.
func Production(c *model.Company, benchmarks *model.BenchmarkSet, controls config.ProjectionControls) ([]float64, error) {
	base, ok := c.BaseYearProduction.Get()
	if !ok {
		return nil, nil
	}
	base, err := base.To(c.ProductionMetric)
	if err != nil {
		return nil, fmt.Errorf("base year production: %w", err)
	}
	var growth *model.Benchmark
	if benchmarks != nil {
		growth, _ = benchmarks.Production.Lookup(c.Sector, c.Region)
	}
	return ProjectProduction(base, growth, controls.Years())
}

// Project computes S1S2 and S3 trajectories and targets, derives the S1S2S3
// trajectory as their sum and the S1S2S3 target as described on totalTarget,
// and attaches all of them to c. It fails if c was already projected.
func (p *Projector) Project(ctx context.Context, c *model.Company) error {
	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).
		Str("component", "projection").
		Str("operation", "project").
		Str("company_id", c.ID).
		Msg("projecting company")

	years := p.controls.Years()
	production, err := Production(c, p.benchmarks, p.controls)
	if err != nil {
		return model.Invalid(c.ID, "production", err)
	}

	intensities := model.ScopeProjections{}
	targets := model.ScopeProjections{}
	for _, scope := range projectedScopes {
		bench, _ := p.benchmarks.EI.Lookup(scope, c.Sector, c.Region)

		trajectory, err := ProjectTrajectory(c, scope, years, p.controls)
		if err != nil {
			return model.Invalid(c.ID, "projected_intensities", fmt.Errorf("%s: %w", scope, err))
		}
		target, err := ProjectTargets(c, scope, bench, production, years, p.controls)
		if err != nil {
			return model.Invalid(c.ID, "projected_targets", fmt.Errorf("%s: %w", scope, err))
		}

		if trajectory == nil {
			log.Warn().Ctx(ctx).
				Str("component", "projection").
				Str("operation", "project").
				Str("warning", model.WarningMissingData).
				Str("company_id", c.ID).
				Str("scope", string(scope)).
				Msg("no historic or base-year intensity; trajectory not projected")
		}
		if trajectory != nil {
			intensities[scope] = trajectory
		}
		if target != nil {
			targets[scope] = target
		}
	}

	if sum := sumProjections(model.ScopeS1S2S3, intensities.Get(model.ScopeS1S2), intensities.Get(model.ScopeS3)); sum != nil {
		intensities[model.ScopeS1S2S3] = sum
	}
	total, err := p.totalTarget(c, production, years, intensities, targets)
	if err != nil {
		return model.Invalid(c.ID, "projected_targets", fmt.Errorf("%s: %w", model.ScopeS1S2S3, err))
	}
	if total != nil {
		targets[model.ScopeS1S2S3] = total
	}
	for _, scope := range []model.Scope{model.ScopeS1, model.ScopeS2} {
		if len(c.TargetsFor(scope)) > 0 {
			log.Warn().Ctx(ctx).
				Str("component", "projection").
				Str("operation", "project").
				Str("warning", model.WarningMissingData).
				Str("company_id", c.ID).
				Str("scope", string(scope)).
				Msg("single-scope target is not projected; report it as an S1S2 target")
		}
	}

	if err := c.AttachProjections(intensities, targets); err != nil {
		return err
	}

	log.Debug().Ctx(ctx).
		Str("component", "projection").
		Str("operation", "project").
		Str("company_id", c.ID).
		Int("intensity_scopes", len(intensities)).
		Int("target_scopes", len(targets)).
		Msg("projection complete")
	return nil
}

// totalTarget is the S1S2S3 target path. Targets stated for S1S2S3 itself win.
// Otherwise, when S1S2 or S3 has a target, each side contributes its target,
// or its trajectory when it has none; a side without any projection adds
// nothing. With no target at all the result is nil.
func (p *Projector) totalTarget(
	c *model.Company,
	production []float64,
	years []int,
	intensities, targets model.ScopeProjections,
) (*model.Projection, error) {
	withS3 := intensities.Get(model.ScopeS3) != nil || targets.Get(model.ScopeS3) != nil
	bench, err := ScopeBenchmark(p.benchmarks, c, model.ScopeS1S2S3, years, withS3)
	if err != nil {
		return nil, err
	}
	direct, err := ProjectTargets(c, model.ScopeS1S2S3, bench, production, years, p.controls)
	if err != nil || direct != nil {
		return direct, err
	}

	s1s2, s3 := targets.Get(model.ScopeS1S2), targets.Get(model.ScopeS3)
	if s1s2 == nil && s3 == nil {
		return nil, nil
	}
	if s1s2 == nil {
		s1s2 = intensities.Get(model.ScopeS1S2)
	}
	if s3 == nil {
		s3 = intensities.Get(model.ScopeS3)
	}
	return sumProjections(model.ScopeS1S2S3, s1s2, s3), nil
}

// sumProjections adds two projections over the same years. A nil side is
// treated as missing and the other side is returned under scope.
func sumProjections(scope model.Scope, a, b *model.Projection) *model.Projection {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		a, b = b, nil
	}
	out := &model.Projection{Scope: scope, Unit: a.Unit, Years: a.Years, Values: make([]float64, len(a.Values))}
	copy(out.Values, a.Values)
	if b != nil {
		for i := range out.Values {
			out.Values[i] += b.Values[i]
		}
	}
	return out
}
