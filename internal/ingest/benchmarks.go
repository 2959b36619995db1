package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/rshade/tempscore/internal/config"
	"github.com/rshade/tempscore/internal/logging"
	"github.com/rshade/tempscore/internal/model"
	"github.com/rshade/tempscore/internal/quantity"
)

// BenchmarkFile is the on-disk benchmark document.
type BenchmarkFile struct {
	SchemaVersion      string          `json:"schema_version"                yaml:"schema_version"`
	Production         *BenchmarkList  `json:"production,omitempty"          yaml:"production,omitempty"`
	EmissionsIntensity *EIBenchmarkDoc `json:"emissions_intensity,omitempty" yaml:"emissions_intensity,omitempty"`
}

// BenchmarkList holds sector/region benchmarks of one kind.
type BenchmarkList struct {
	Benchmarks []BenchmarkDoc `json:"benchmarks" yaml:"benchmarks"`
}

// EIBenchmarkDoc holds emissions intensity benchmarks per scope and the
// pathway's temperature and global budget.
type EIBenchmarkDoc struct {
	BenchmarkTemperature  string         `json:"benchmark_temperature"   yaml:"benchmark_temperature"`
	BenchmarkGlobalBudget string         `json:"benchmark_global_budget" yaml:"benchmark_global_budget"`
	IsAFOLUIncluded       bool           `json:"is_AFOLU_included"       yaml:"is_AFOLU_included"`
	S1S2                  *BenchmarkList `json:"S1S2,omitempty"          yaml:"S1S2,omitempty"`
	S3                    *BenchmarkList `json:"S3,omitempty"            yaml:"S3,omitempty"`
	S1S2S3                *BenchmarkList `json:"S1S2S3,omitempty"        yaml:"S1S2S3,omitempty"`
}

// BenchmarkDoc is one sector/region pathway. Projection values are numbers
// in Metric or "<magnitude> <unit>" text.
type BenchmarkDoc struct {
	Sector      string          `json:"sector"           yaml:"sector"`
	Region      string          `json:"region"           yaml:"region"`
	Metric      string          `json:"benchmark_metric" yaml:"benchmark_metric"`
	Projections []ProjectionDoc `json:"projections"      yaml:"projections"`
}

// ProjectionDoc is one benchmark value.
type ProjectionDoc struct {
	Year  int `json:"year"  yaml:"year"`
	Value any `json:"value" yaml:"value"`
}

// BenchmarkProvider supplies the reference data for a scoring run.
type BenchmarkProvider interface {
	Benchmarks(ctx context.Context) (*model.BenchmarkSet, error)
}

// FileBenchmarkProvider reads benchmarks from a JSON or YAML file and keeps
// only projections within the configured projection window.
type FileBenchmarkProvider struct {
	path     string
	controls config.ProjectionControls
	registry *quantity.Registry
}

// NewFileBenchmarkProvider creates a provider for path.
func NewFileBenchmarkProvider(path string, controls config.ProjectionControls) *FileBenchmarkProvider {
	return &FileBenchmarkProvider{path: path, controls: controls, registry: quantity.Default()}
}

// Benchmarks loads and converts the file.
func (p *FileBenchmarkProvider) Benchmarks(ctx context.Context) (*model.BenchmarkSet, error) {
	format, err := FormatOf(p.path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("reading benchmarks: %w", err)
	}
	doc, err := ParseBenchmarks(ctx, data, format)
	if err != nil {
		return nil, err
	}
	return BuildBenchmarkSet(ctx, doc, p.registry, p.controls)
}

// ParseBenchmarks decodes a benchmark document.
func ParseBenchmarks(ctx context.Context, data []byte, format Format) (*BenchmarkFile, error) {
	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).
		Str("component", "ingest").
		Str("operation", "parse_benchmarks").
		Int("data_size_bytes", len(data)).
		Msg("parsing benchmarks")

	var doc BenchmarkFile
	if err := decode(data, format, &doc); err != nil {
		return nil, fmt.Errorf("parsing benchmarks: %w", err)
	}
	if err := CheckSchemaVersion(doc.SchemaVersion); err != nil {
		return nil, err
	}
	return &doc, nil
}

// BuildBenchmarkSet converts a benchmark document, trimming every benchmark
// to [BaseYear, TargetYear]. Benchmarks left empty are dropped with a warning.
func BuildBenchmarkSet(
	ctx context.Context,
	doc *BenchmarkFile,
	reg *quantity.Registry,
	controls config.ProjectionControls,
) (*model.BenchmarkSet, error) {
	set := &model.BenchmarkSet{}

	if doc.Production != nil {
		bs, err := buildList(ctx, doc.Production, reg, quantity.KindDimensionless, controls)
		if err != nil {
			return nil, fmt.Errorf("production benchmarks: %w", err)
		}
		set.Production = bs
	}

	if ei := doc.EmissionsIntensity; ei != nil {
		temperature, err := reg.ParseKind(ei.BenchmarkTemperature, quantity.KindTemperatureDelta)
		if err != nil {
			return nil, fmt.Errorf("benchmark_temperature: %w", err)
		}
		budget, err := reg.ParseKind(ei.BenchmarkGlobalBudget, quantity.KindEmissions)
		if err != nil {
			return nil, fmt.Errorf("benchmark_global_budget: %w", err)
		}
		set.EI = &model.EIBenchmarks{
			Scopes:                make(map[model.Scope]model.Benchmarks),
			BenchmarkTemperature:  temperature,
			BenchmarkGlobalBudget: budget,
			IsAFOLUIncluded:       ei.IsAFOLUIncluded,
		}
		for scope, list := range map[model.Scope]*BenchmarkList{
			model.ScopeS1S2:   ei.S1S2,
			model.ScopeS3:     ei.S3,
			model.ScopeS1S2S3: ei.S1S2S3,
		} {
			if list == nil {
				continue
			}
			bs, err := buildList(ctx, list, reg, quantity.KindBenchmark, controls)
			if err != nil {
				return nil, fmt.Errorf("%s benchmarks: %w", scope, err)
			}
			set.EI.Scopes[scope] = bs
		}
	}
	return set, nil
}

func buildList(
	ctx context.Context,
	list *BenchmarkList,
	reg *quantity.Registry,
	kind quantity.Kind,
	controls config.ProjectionControls,
) (model.Benchmarks, error) {
	log := logging.FromContext(ctx)
	out := make(model.Benchmarks, 0, len(list.Benchmarks))
	for _, d := range list.Benchmarks {
		b, err := buildBenchmark(d, reg, kind)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", d.Sector, d.Region, err)
		}
		if !b.Trim(controls.BaseYear, controls.TargetYear) {
			log.Warn().Ctx(ctx).
				Str("component", "ingest").
				Str("operation", "load_benchmarks").
				Str("warning", model.WarningMissingData).
				Str("sector", b.Sector).
				Str("region", b.Region).
				Int("base_year", controls.BaseYear).
				Int("target_year", controls.TargetYear).
				Msg("benchmark has no projections in the projection window")
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func buildBenchmark(d BenchmarkDoc, reg *quantity.Registry, kind quantity.Kind) (*model.Benchmark, error) {
	metric, err := reg.ParseMetric(d.Metric, kind)
	if err != nil {
		return nil, fmt.Errorf("benchmark_metric: %w", err)
	}
	region := d.Region
	if region == "" {
		region = model.GlobalRegion
	}
	b := &model.Benchmark{Sector: d.Sector, Region: region, Metric: metric}
	for _, p := range d.Projections {
		q, err := projectionValue(p.Value, metric, reg)
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", p.Year, err)
		}
		b.Projections = append(b.Projections, model.BenchmarkProjection{Year: p.Year, Value: q})
	}
	return b, nil
}

func projectionValue(v any, metric quantity.Unit, reg *quantity.Registry) (quantity.Quantity, error) {
	switch x := v.(type) {
	case float64:
		return quantity.New(x, metric), nil
	case int:
		return quantity.New(float64(x), metric), nil
	case string:
		q, err := reg.Parse(x)
		if err != nil {
			return quantity.Quantity{}, err
		}
		return q.To(metric)
	default:
		return quantity.Quantity{}, fmt.Errorf("%w: value %v", quantity.ErrInvalidMagnitude, v)
	}
}
