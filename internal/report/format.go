package report

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// notAvailable stands in for undefined values in rendered output.
const notAvailable = "n/a"

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats a float with the given precision and thousand separators.
// Example: FormatFloat(1234.567, 2) returns "1,234.57". NaN and infinities
// render as "n/a".
func FormatFloat(f float64, precision int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return notAvailable
	}
	const base = 10
	multiplier := math.Pow(base, float64(precision))
	rounded := math.Round(f*multiplier) / multiplier

	if precision <= 0 {
		return FormatNumber(int64(rounded))
	}

	formatted := fmt.Sprintf("%.*f", precision, rounded)
	intPart, fracPart, ok := strings.Cut(formatted, ".")
	if !ok {
		return formatted
	}
	negative := strings.HasPrefix(intPart, "-")
	var n int64
	if _, err := fmt.Sscanf(strings.TrimPrefix(intPart, "-"), "%d", &n); err != nil {
		return formatted
	}
	sign := ""
	if negative {
		sign = "-"
	}
	return sign + printer.Sprintf("%d", n) + "." + fracPart
}

// FormatTemperature renders a temperature score as "1.75°C".
func FormatTemperature(score float64, precision int) string {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return notAvailable
	}
	return fmt.Sprintf("%.*f°C", precision, score)
}

// FormatPercent renders a share in percent as "42.5%".
func FormatPercent(pct float64, precision int) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return notAvailable
	}
	return fmt.Sprintf("%.*f%%", precision, pct)
}

func formatOptionalFloat(v *float64, precision int) string {
	if v == nil {
		return notAvailable
	}
	return FormatFloat(*v, precision)
}

func formatOptionalYear(y *int) string {
	if y == nil {
		return ""
	}
	return fmt.Sprintf("%d", *y)
}
