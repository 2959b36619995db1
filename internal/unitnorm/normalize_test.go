package unitnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "euro symbol", raw: "€", want: "EUR"},
		{name: "hong kong prefix before dollar", raw: "HK$ 5", want: "HKD 5"},
		{name: "bare dollar keeps trailing digits", raw: "$5", want: "USD5"},
		{name: "US dollar prefix", raw: "US$ 12", want: "USD 12"},
		{name: "canonical code untouched", raw: "5 USD", want: "5 USD"},
		{name: "real keeps dollar prefix", raw: "R$", want: "BRL"},
		{name: "rand as standalone token", raw: "billion R", want: "billion ZAR"},
		{name: "letter symbol inside a word is kept", raw: "t Rubber", want: "t Rubber"},
		{name: "embedded in intensity", raw: "t CO2/(million €)", want: "t CO2/(million EUR)"},
		{name: "mixed code and symbol", raw: "EUR/£", want: "EUR/GBP"},
		{name: "passenger km dotted", raw: "passenger.km", want: "pkm"},
		{name: "passenger km spaced", raw: "g CO2/passenger km", want: "g CO2/pkm"},
		{name: "no currency", raw: "t CO2/(t Steel)", want: "t CO2/(t Steel)"},
		{name: "trims whitespace", raw: "  Mt CO2 ", want: "Mt CO2"},
		{name: "empty", raw: "", want: ""},
		{name: "multi-byte symbol", raw: "₹ crore", want: "INR crore"},
		{name: "hryvnia", raw: "₴", want: "UAH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"€", "HK$ 5", "$5", "5 USD", "NZ$/t", "R$ million", "RM", "Rp",
		"t CO2/(billion $)", "passenger.km", "zł", "د.م.", "SKr", "US$", "billion USD",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestISOCodes(t *testing.T) {
	codes := ISOCodes()
	assert.Contains(t, codes, "USD")
	assert.Contains(t, codes, "EUR")
	assert.IsIncreasing(t, codes)
}
