package projection

import (
	"fmt"

	"github.com/rshade/tempscore/internal/model"
	"github.com/rshade/tempscore/internal/quantity"
)

// ProjectProduction compounds base production by the benchmark's year-over-year
// growth rates. years[0] carries the base value; each later year multiplies
// the previous one by 1 + growth(year). A nil benchmark means no growth.
// Magnitudes are in base's unit.
func ProjectProduction(base quantity.Quantity, growth *model.Benchmark, years []int) ([]float64, error) {
	out := make([]float64, len(years))
	if len(years) == 0 {
		return out, nil
	}

	var gYears []int
	var gValues []float64
	if growth != nil && len(growth.Projections) > 0 {
		var err error
		gYears, gValues, err = growth.Series()
		if err != nil {
			return nil, fmt.Errorf("production benchmark %s/%s: %w", growth.Sector, growth.Region, err)
		}
	}

	out[0] = base.Magnitude()
	for i := 1; i < len(years); i++ {
		rate := 0.0
		if len(gYears) > 0 {
			rate = InterpolateAtYear(gYears, gValues, years[i])
		}
		out[i] = out[i-1] * (1 + rate)
	}
	return out, nil
}
