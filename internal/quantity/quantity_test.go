package quantity

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	reg := Default()

	tests := []struct {
		name     string
		text     string
		wantMag  float64
		wantUnit string
	}{
		{name: "emissions", text: "5 t CO2", wantMag: 5, wantUnit: "t CO2"},
		{name: "scientific magnitude", text: "1.5e3 MWh", wantMag: 1500, wantUnit: "MWh"},
		{name: "implicit magnitude", text: "t CO2", wantMag: 1, wantUnit: "t CO2"},
		{name: "negative magnitude", text: "-0.25 t CO2/(t Steel)", wantMag: -0.25, wantUnit: "t CO2/(t Steel)"},
		{name: "currency symbol normalized", text: "5 €", wantMag: 5, wantUnit: "EUR"},
		{name: "passenger km shorthand", text: "12 g CO2/passenger.km", wantMag: 12, wantUnit: "g CO2/pkm"},
		{name: "dimensionless", text: "0.5", wantMag: 0.5, wantUnit: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := reg.Parse(tt.text)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantMag, q.Magnitude(), 1e-12)
			assert.Equal(t, tt.wantUnit, q.Unit().Text())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	reg := Default()

	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "unknown token", text: "5 florps", wantErr: ErrUnknownUnit},
		{name: "unbalanced parenthesis", text: "5 t CO2/(t Steel", wantErr: ErrInvalidSyntax},
		{name: "fractional exponent", text: "1 m**1.5", wantErr: ErrInvalidSyntax},
		{name: "nan rejected", text: "nan t CO2", wantErr: ErrInvalidMagnitude},
		{name: "inf rejected", text: "inf MWh", wantErr: ErrInvalidMagnitude},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Parse(tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var parseErr *UnitParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestConversion(t *testing.T) {
	reg := Default()

	tests := []struct {
		name string
		from string
		to   string
		want float64
	}{
		{name: "megatonnes to tonnes", from: "1 Mt CO2", to: "t CO2", want: 1e6},
		{name: "terawatt hours to petajoules", from: "1 TWh", to: "PJ", want: 3.6},
		{name: "million barrels oil equivalent", from: "1 mmboe", to: "GJ", want: 6.1178632e6},
		{name: "passenger kilometres", from: "1 pkm", to: "passenger m", want: 1000},
		{name: "area with exponent", from: "1 billion m**2", to: "km**2", want: 1000},
		{name: "percent to ratio", from: "50 %", to: "", want: 0.5},
		{name: "fused gas suffix", from: "1500 kgCO2e", to: "t CO2e", want: 1.5},
		{name: "steel mass aliases", from: "2 megaFe_ton", to: "Mt Steel", want: 2},
		{name: "pounds", from: "1000 lb", to: "kg", want: 453.59237},
		{name: "temperature delta", from: "9 delta_degF", to: "delta_degC", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := reg.MustParse(tt.from)
			target := reg.MustParseUnit(tt.to)

			got, err := q.To(target)
			require.NoError(t, err)
			assert.InEpsilon(t, tt.want, got.Magnitude(), 1e-9)

			back, err := got.To(q.Unit())
			require.NoError(t, err)
			assert.InEpsilon(t, q.Magnitude(), back.Magnitude(), 1e-12)
		})
	}
}

func TestConversion_Incompatible(t *testing.T) {
	reg := Default()

	tests := []struct {
		name string
		from string
		to   string
	}{
		{name: "emissions to energy", from: "5 t CO2", to: "MWh"},
		{name: "no implicit exchange rate", from: "5 USD", to: "EUR"},
		{name: "steel to aluminium", from: "1 t Steel", to: "t Aluminium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.MustParse(tt.from).To(reg.MustParseUnit(tt.to))
			require.Error(t, err)

			var dimErr *DimensionalityError
			require.ErrorAs(t, err, &dimErr)
			assert.Equal(t, tt.to, dimErr.To)
			assert.ErrorIs(t, err, ErrIncompatibleUnits)
		})
	}
}

func TestArithmetic(t *testing.T) {
	reg := Default()
	production := reg.MustParse("100 t Steel")
	emissions := reg.MustParse("50 t CO2")

	intensity := emissions.Div(production)
	assert.Equal(t, "t CO2/(t Steel)", intensity.Unit().String())
	assert.InDelta(t, 0.5, intensity.Magnitude(), 1e-12)
	assert.True(t, KindEmissionsIntensity.Admits(intensity.Unit()))

	back := production.Mul(intensity)
	assert.True(t, back.Equal(emissions))

	sum, err := emissions.Add(reg.MustParse("0.05 kt CO2"))
	require.NoError(t, err)
	assert.InDelta(t, 100, sum.Magnitude(), 1e-9)
	assert.Equal(t, "t CO2", sum.Unit().Text())

	diff, err := emissions.Sub(reg.MustParse("20000 kg CO2"))
	require.NoError(t, err)
	assert.InDelta(t, 30, diff.Magnitude(), 1e-9)

	_, err = emissions.Add(production)
	assert.ErrorIs(t, err, ErrIncompatibleUnits)

	assert.InDelta(t, 25, emissions.Scale(0.5).Magnitude(), 1e-12)
}

func TestCompareMinMax(t *testing.T) {
	reg := Default()
	a := reg.MustParse("1 Mt CO2")
	b := reg.MustParse("900000 t CO2")

	cmp, err := a.Compare(b)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)

	lower, err := a.Min(b)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, lower.Magnitude(), 1e-12)
	assert.Equal(t, "Mt CO2", lower.Unit().Text())

	upper, err := b.Max(a)
	require.NoError(t, err)
	assert.InDelta(t, 1e6, upper.Magnitude(), 1e-6)

	assert.True(t, a.Equal(reg.MustParse("1000000 t CO2")))
	assert.False(t, a.Equal(reg.MustParse("1 MWh")))

	tCO2 := reg.MustParseUnit("t CO2")
	tenth := 0.1
	cmp, err = New(tenth+0.2, tCO2).Compare(New(0.3, tCO2))
	require.NoError(t, err)
	assert.Equal(t, 0, cmp, "float rounding stays within tolerance")

	cmp, err = New(0.3, tCO2).Compare(New(0.3001, tCO2))
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)
}

func TestOptional(t *testing.T) {
	reg := Default()
	tCO2 := reg.MustParseUnit("t CO2")
	five := Present(New(5, tCO2))

	t.Run("missing is the identity for add", func(t *testing.T) {
		got, err := five.Add(Missing(tCO2))
		require.NoError(t, err)
		assert.True(t, got.Equal(five))

		got, err = Missing(tCO2).Add(five)
		require.NoError(t, err)
		assert.True(t, got.Equal(five))
	})

	t.Run("two missing values are equal", func(t *testing.T) {
		assert.True(t, Missing(tCO2).Equal(Missing(tCO2)))
		assert.False(t, Missing(tCO2).Equal(five))
	})

	t.Run("nan parses to missing", func(t *testing.T) {
		o, err := reg.ParseOptional("nan t CO2")
		require.NoError(t, err)
		assert.True(t, o.IsMissing())
		assert.Equal(t, "t CO2", o.Unit().Text())
		assert.Equal(t, "nan t CO2", o.String())
	})

	t.Run("missing multiplication stays missing", func(t *testing.T) {
		prod := Present(reg.MustParse("10 t Steel"))
		got := Missing(reg.MustParseUnit("t CO2/(t Steel)")).Mul(prod)
		assert.True(t, got.IsMissing())
		assert.True(t, got.Unit().Compatible(tCO2))
	})
}

func TestKindAdmits(t *testing.T) {
	reg := Default()

	tests := []struct {
		unit string
		kind Kind
		want bool
	}{
		{unit: "t CO2", kind: KindEmissions, want: true},
		{unit: "Gt CO2e", kind: KindEmissions, want: true},
		{unit: "t CO2", kind: KindEmissionsIntensity, want: false},
		{unit: "MWh", kind: KindEmissions, want: false},
		{unit: "t CO2/(t Steel)", kind: KindEmissionsIntensity, want: true},
		{unit: "t CO2/MWh", kind: KindEmissionsIntensity, want: true},
		{unit: "t CO2/MWh", kind: KindBenchmark, want: true},
		{unit: "t Steel", kind: KindProduction, want: true},
		{unit: "bbl/d", kind: KindProduction, want: true},
		{unit: "t CO2", kind: KindProduction, want: false},
		{unit: "billion USD", kind: KindMonetary, want: true},
		{unit: "USD/EUR", kind: KindMonetary, want: false},
		{unit: "delta_degC", kind: KindTemperatureDelta, want: true},
		{unit: "%", kind: KindDimensionless, want: true},
		{unit: "", kind: KindBenchmark, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.unit, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Admits(reg.MustParseUnit(tt.unit)))
		})
	}
}

func TestParseKind(t *testing.T) {
	reg := Default()

	q, err := reg.ParseKind("50 t CO2", KindEmissions)
	require.NoError(t, err)
	assert.InDelta(t, 50, q.Magnitude(), 1e-12)

	_, err = reg.ParseKind("50 t Steel", KindEmissions)
	var dimErr *DimensionalityError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, "emissions", dimErr.To)

	_, err = reg.ParseMetric("MWh", KindMonetary)
	assert.True(t, errors.Is(err, ErrIncompatibleUnits))
}

func TestJSON(t *testing.T) {
	reg := Default()

	t.Run("quantity round trips exactly", func(t *testing.T) {
		q := New(0.1+0.2, reg.MustParseUnit("t CO2/(t Steel)"))
		data, err := json.Marshal(q)
		require.NoError(t, err)
		assert.JSONEq(t, `"0.30000000000000004 t CO2/(t Steel)"`, string(data))

		var back Quantity
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, q.Magnitude(), back.Magnitude())
		assert.Equal(t, q.Unit().Text(), back.Unit().Text())
	})

	t.Run("missing optional is null", func(t *testing.T) {
		data, err := json.Marshal(Missing(reg.MustParseUnit("t CO2")))
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))

		var back Optional
		require.NoError(t, json.Unmarshal(data, &back))
		assert.True(t, back.IsMissing())
	})

	t.Run("bad unit fails", func(t *testing.T) {
		var q Quantity
		assert.Error(t, json.Unmarshal([]byte(`"5 florps"`), &q))
	})
}

func TestRegistryTokens(t *testing.T) {
	tokens := NewRegistry().Tokens()
	for _, want := range []string{"t", "CO2", "Steel", "USD", "pkm", "mmboe", "delta_degC"} {
		assert.Contains(t, tokens, want)
	}
}
