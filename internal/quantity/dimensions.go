package quantity

import (
	"sync"

	"gonum.org/v1/gonum/unit"
)

// domainDims holds the non-SI dimensions used by the registry. gonum panics on
// duplicate dimension symbols, so they are registered exactly once per process.
type domainDims struct {
	co2        unit.Dimension
	passenger  unit.Dimension
	commodity  map[string]unit.Dimension
	currency   map[string]unit.Dimension
	isCurrency map[unit.Dimension]bool
}

// Commodities with their own physical dimension.
//
//nolint:gochecknoglobals // Static vocabulary.
var commodityNames = []string{"Steel", "Aluminum", "Cement", "Coal"}

// CurrencyCodes lists the ISO codes defined as currency dimensions.
//
//nolint:gochecknoglobals // Static vocabulary.
var CurrencyCodes = []string{
	"USD", "EUR", "JPY", "GBP", "CNY", "AUD", "CAD", "HKD", "SGD", "SEK",
	"KRW", "NOK", "NZD", "INR", "TWD", "ZAR", "BRL", "DKK", "PLN", "THB",
	"ILS", "IDR", "CZK", "AED", "TRY", "UAH", "NGN", "MAD", "MYR", "CHF", "MXN",
}

//nolint:gochecknoglobals // Process-wide dimension registration, guarded by dimsOnce.
var (
	dimsOnce sync.Once
	dims     *domainDims
)

func registeredDims() *domainDims {
	dimsOnce.Do(func() {
		d := &domainDims{
			co2:        unit.NewDimension("[CO2]"),
			passenger:  unit.NewDimension("[passenger]"),
			commodity:  make(map[string]unit.Dimension, len(commodityNames)),
			currency:   make(map[string]unit.Dimension, len(CurrencyCodes)),
			isCurrency: make(map[unit.Dimension]bool, len(CurrencyCodes)),
		}
		for _, name := range commodityNames {
			d.commodity[name] = unit.NewDimension("[" + name + "]")
		}
		for _, code := range CurrencyCodes {
			dim := unit.NewDimension("[" + code + "]")
			d.currency[code] = dim
			d.isCurrency[dim] = true
		}
		dims = d
	})
	return dims
}

// nonZero returns a copy of d without zero exponents.
func nonZero(d unit.Dimensions) unit.Dimensions {
	out := make(unit.Dimensions, len(d))
	for k, v := range d {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}
