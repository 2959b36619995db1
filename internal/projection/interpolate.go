// Package projection projects company emissions intensities from the base
// year to the target year along two lineages: the historic trend
// ("trajectory") and the company's stated reduction targets ("target").
package projection

import (
	"math"
	"sort"
)

// InterpolateAtYear evaluates the piecewise-linear series (years, values) at
// year. The bracketing interval is found by ordered search; a year before the
// first or after the last known year uses the first or last interval, so the
// edge line is continued rather than held flat. A single-point series is
// constant. years must be strictly increasing.
func InterpolateAtYear(years []int, values []float64, year int) float64 {
	switch len(years) {
	case 0:
		return math.NaN()
	case 1:
		return values[0]
	}
	i := sort.SearchInts(years, year)
	if i < len(years) && years[i] == year {
		return values[i]
	}
	switch {
	case i == 0:
		i = 1
	case i == len(years):
		i = len(years) - 1
	}
	y0, y1 := float64(years[i-1]), float64(years[i])
	y := float64(year)
	return (values[i-1]*(y1-y) + values[i]*(y-y0)) / (y1 - y0)
}

// NetZeroInterpolation bounds a benchmark series by a straight line from the
// benchmark's first value down to zero at nzYear, never below floor:
//
//	min(max(v0·(nz−y)/(nz−y0), floor), benchmark(y))
func NetZeroInterpolation(years []int, values []float64, year, nzYear int, floor float64) float64 {
	bm := InterpolateAtYear(years, values, year)
	nz := 0.0
	if len(years) > 0 && nzYear != years[0] {
		nz = values[0] * float64(nzYear-year) / float64(nzYear-years[0])
	}
	return math.Min(math.Max(nz, floor), bm)
}

// fillGaps returns a value for every year from the first to the last point,
// linearly interpolating between known points.
func fillGaps(years []int, values []float64) ([]int, []float64) {
	if len(years) == 0 {
		return nil, nil
	}
	first, last := years[0], years[len(years)-1]
	outYears := make([]int, 0, last-first+1)
	outValues := make([]float64, 0, last-first+1)
	for y := first; y <= last; y++ {
		outYears = append(outYears, y)
		outValues = append(outValues, InterpolateAtYear(years, values, y))
	}
	return outYears, outValues
}
