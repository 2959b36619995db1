package quantity

import (
	"sort"
	"strings"
	"sync"

	"gonum.org/v1/gonum/unit"

	"github.com/rshade/tempscore/internal/unitnorm"
)

// definition is one registry token: its SI scale factor and dimensions.
type definition struct {
	factor     float64
	dims       unit.Dimensions
	prefixable bool
}

// Registry resolves unit text into Units. It is read-only after construction
// and safe for concurrent use.
type Registry struct {
	defs      map[string]definition
	normalize func(string) string
}

// siPrefixes are the decimal prefixes accepted in front of prefixable tokens.
//
//nolint:gochecknoglobals // Static vocabulary.
var siPrefixes = map[string]float64{
	"k": 1e3,
	"M": 1e6,
	"G": 1e9,
	"T": 1e12,
	"P": 1e15,
	"E": 1e18,
}

// Energy content of one barrel of oil equivalent, in joules.
const boeJoules = 6.1178632e9

//nolint:gochecknoglobals // Lazily built shared registry.
var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, building it on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry builds a registry with the full tempscore vocabulary. Text is
// passed through unitnorm.Normalize before parsing.
func NewRegistry() *Registry {
	d := registeredDims()
	r := &Registry{
		defs:      make(map[string]definition, 128),
		normalize: unitnorm.Normalize,
	}

	mass := unit.Dimensions{unit.MassDim: 1}
	length := unit.Dimensions{unit.LengthDim: 1}
	volume := unit.Dimensions{unit.LengthDim: 3}
	duration := unit.Dimensions{unit.TimeDim: 1}
	energy := unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -2}
	power := unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -3}
	none := unit.Dimensions{}

	// Mass
	r.define("g", 1e-3, mass, true)
	r.define("t", 1e3, mass, true)
	r.define("tonne", 1e3, mass, false)
	r.define("lb", 0.45359237, mass, false)

	// Greenhouse gases
	co2 := unit.Dimensions{d.co2: 1}
	r.define("CO2", 1, co2, false)
	r.define("CO2e", 1, co2, false)
	r.define("CO2eq", 1, co2, false)

	// Energy and power
	r.define("J", 1, energy, true)
	r.define("Wh", 3600, energy, true)
	r.define("W", 1, power, true)
	r.define("boe", boeJoules, energy, true)
	r.define("mmboe", boeJoules*1e6, energy, false)

	// Length, area, volume
	r.define("m", 1, length, true)
	r.define("mi", 1609.344, length, false)
	r.define("bbl", 0.158987294928, volume, false)
	r.define("bcm", 1e9, volume, false)

	// Time
	r.define("s", 1, duration, false)
	r.define("min", 60, duration, false)
	for _, name := range []string{"h", "hr", "hour"} {
		r.define(name, 3600, duration, false)
	}
	for _, name := range []string{"d", "day"} {
		r.define(name, 86400, duration, false)
	}
	for _, name := range []string{"a", "yr", "year"} {
		r.define(name, 31557600, duration, false)
	}

	// Transport activity
	r.define("passenger", 1, unit.Dimensions{d.passenger: 1}, false)
	r.define("pkm", 1e3, unit.Dimensions{d.passenger: 1, unit.LengthDim: 1}, true)
	r.define("tkm", 1e6, unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 1}, true)

	// Commodities
	for name, dim := range d.commodity {
		r.define(name, 1, unit.Dimensions{dim: 1}, false)
	}
	r.define("Aluminium", 1, unit.Dimensions{d.commodity["Aluminum"]: 1}, false)
	steelMass := unit.Dimensions{unit.MassDim: 1, d.commodity["Steel"]: 1}
	r.define("Fe_ton", 1e3, steelMass, false)
	r.define("megaFe_ton", 1e9, steelMass, false)

	// Currencies, one dimension each
	for code, dim := range d.currency {
		r.define(code, 1, unit.Dimensions{dim: 1}, false)
	}

	// Scale words and ratios
	r.define("thousand", 1e3, none, false)
	r.define("million", 1e6, none, false)
	r.define("billion", 1e9, none, false)
	r.define("trillion", 1e12, none, false)
	r.define("percent", 0.01, none, false)
	r.define("%", 0.01, none, false)
	r.define("dimensionless", 1, none, false)

	// Temperature differences
	r.define("delta_degC", 1, unit.Dimensions{unit.TemperatureDim: 1}, false)
	r.define("delta_degF", 5.0/9.0, unit.Dimensions{unit.TemperatureDim: 1}, false)

	return r
}

func (r *Registry) define(name string, factor float64, dims unit.Dimensions, prefixable bool) {
	r.defs[name] = definition{factor: factor, dims: nonZero(dims), prefixable: prefixable}
}

// Tokens returns every unprefixed token the registry defines, sorted.
func (r *Registry) Tokens() []string {
	out := make([]string, 0, len(r.defs))
	for name := range r.defs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// lookup resolves a single token, trying an exact match, then an SI prefix
// on a prefixable token, then a fused greenhouse-gas suffix such as "tCO2e".
func (r *Registry) lookup(token string) (*unit.Unit, bool) {
	if def, ok := r.defs[token]; ok {
		return unit.New(def.factor, def.dims), true
	}
	for prefix, scale := range siPrefixes {
		rest, found := strings.CutPrefix(token, prefix)
		if !found || rest == "" {
			continue
		}
		if def, ok := r.defs[rest]; ok && def.prefixable {
			return unit.New(scale*def.factor, def.dims), true
		}
	}
	for _, gas := range []string{"CO2eq", "CO2e", "CO2"} {
		rest, found := strings.CutSuffix(token, gas)
		if !found || rest == "" {
			continue
		}
		massUnit, ok := r.lookup(rest)
		if !ok {
			continue
		}
		gasUnit, _ := r.lookup(gas)
		return massUnit.Mul(gasUnit), true
	}
	return nil, false
}
