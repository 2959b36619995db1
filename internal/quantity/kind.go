package quantity

import "gonum.org/v1/gonum/unit"

// Kind is a semantic family of quantities with a restricted set of units.
type Kind int

// Kinds of quantity used by the data model.
const (
	KindAny Kind = iota
	KindProduction
	KindEmissions
	KindEmissionsIntensity
	KindMonetary
	KindBenchmark
	KindTemperatureDelta
	KindDimensionless
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindProduction:
		return "production"
	case KindEmissions:
		return "emissions"
	case KindEmissionsIntensity:
		return "emissions intensity"
	case KindMonetary:
		return "monetary"
	case KindBenchmark:
		return "benchmark"
	case KindTemperatureDelta:
		return "temperature delta"
	case KindDimensionless:
		return "dimensionless"
	default:
		return "unknown"
	}
}

// Admits reports whether u belongs to the unit family of k.
//
// Emissions must be exactly mass × CO2. Intensities carry CO2 to the first power
// without being emissions. Production is anything non-empty without CO2.
// Monetary units are a single currency. Benchmarks are intensities or pure ratios.
func (k Kind) Admits(u Unit) bool {
	d := registeredDims()
	dims := u.Dimensions()
	switch k {
	case KindAny:
		return true
	case KindEmissions:
		return isEmissions(dims, d)
	case KindEmissionsIntensity:
		return dims[d.co2] == 1 && !isEmissions(dims, d)
	case KindProduction:
		return len(dims) > 0 && dims[d.co2] == 0
	case KindMonetary:
		if len(dims) != 1 {
			return false
		}
		for dim, exp := range dims {
			return exp == 1 && d.isCurrency[dim]
		}
		return false
	case KindBenchmark:
		return len(dims) == 0 || KindEmissionsIntensity.Admits(u)
	case KindTemperatureDelta:
		return len(dims) == 1 && dims[unit.TemperatureDim] == 1
	case KindDimensionless:
		return len(dims) == 0
	default:
		return false
	}
}

func isEmissions(dims unit.Dimensions, d *domainDims) bool {
	return len(dims) == 2 && dims[unit.MassDim] == 1 && dims[d.co2] == 1
}

// As checks that q belongs to kind, returning a DimensionalityError otherwise.
func As(kind Kind, q Quantity) (Quantity, error) {
	if !kind.Admits(q.unit) {
		return Quantity{}, &DimensionalityError{From: q.unit.String(), To: kind.String()}
	}
	return q, nil
}

// ParseKind parses text and checks the result belongs to kind.
func (r *Registry) ParseKind(text string, kind Kind) (Quantity, error) {
	q, err := r.Parse(text)
	if err != nil {
		return Quantity{}, err
	}
	return As(kind, q)
}

// ParseMetric parses a unit that must belong to kind, such as a company's
// production or emissions metric.
func (r *Registry) ParseMetric(text string, kind Kind) (Unit, error) {
	u, err := r.ParseUnit(text)
	if err != nil {
		return Unit{}, err
	}
	if !kind.Admits(u) {
		return Unit{}, &DimensionalityError{From: u.String(), To: kind.String()}
	}
	return u, nil
}
