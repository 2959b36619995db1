package model

import (
	"sort"

	"github.com/rshade/tempscore/internal/quantity"
)

// GlobalRegion is the region used when no region-specific benchmark exists.
const GlobalRegion = "Global"

// BenchmarkProjection is one benchmark value.
type BenchmarkProjection struct {
	Year  int
	Value quantity.Quantity
}

// Benchmark is a sector/region pathway: production growth rates or
// emissions intensities by year. Benchmarks are shared read-only.
type Benchmark struct {
	Sector      string
	Region      string
	Metric      quantity.Unit
	Projections []BenchmarkProjection
}

// Trim drops projections outside [from, to] and sorts the rest by year.
// It reports whether any projection remains.
func (b *Benchmark) Trim(from, to int) bool {
	kept := b.Projections[:0]
	for _, p := range b.Projections {
		if p.Year >= from && p.Year <= to {
			kept = append(kept, p)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Year < kept[j].Year })
	b.Projections = kept
	return len(kept) > 0
}

// Series returns years and magnitudes in the benchmark's metric.
func (b *Benchmark) Series() ([]int, []float64, error) {
	years := make([]int, len(b.Projections))
	values := make([]float64, len(b.Projections))
	for i, p := range b.Projections {
		v, err := p.Value.MagnitudeIn(b.Metric)
		if err != nil {
			return nil, nil, err
		}
		years[i] = p.Year
		values[i] = v
	}
	return years, values, nil
}

// Benchmarks is a list of benchmarks searchable by sector and region.
type Benchmarks []*Benchmark

// Lookup finds the benchmark for sector and region, falling back to the
// Global region.
func (bs Benchmarks) Lookup(sector, region string) (*Benchmark, bool) {
	var global *Benchmark
	for _, b := range bs {
		if b.Sector != sector {
			continue
		}
		if b.Region == region {
			return b, true
		}
		if b.Region == GlobalRegion {
			global = b
		}
	}
	return global, global != nil
}

// EIBenchmarks groups emissions intensity benchmarks by scope together with
// the temperature and global carbon budget of the pathway they describe.
type EIBenchmarks struct {
	Scopes                map[Scope]Benchmarks
	BenchmarkTemperature  quantity.Quantity
	BenchmarkGlobalBudget quantity.Quantity
	IsAFOLUIncluded       bool
}

// Lookup finds the EI benchmark for scope, sector and region.
func (e *EIBenchmarks) Lookup(scope Scope, sector, region string) (*Benchmark, bool) {
	if e == nil {
		return nil, false
	}
	return e.Scopes[scope].Lookup(sector, region)
}

// BenchmarkSet is all reference data a scoring run needs.
type BenchmarkSet struct {
	// Production holds dimensionless year-over-year growth rates.
	Production Benchmarks
	EI         *EIBenchmarks
}
