// Package unitnorm rewrites free-form unit text into the vocabulary understood
// by the quantity registry.
//
// Normalize is a pure text transform. It maps domain shorthands such as
// "passenger.km" onto registry tokens and replaces currency symbols embedded
// anywhere in a unit expression with their ISO 4217 codes. Canonical codes
// already present in the text are never rewritten, which keeps the transform
// idempotent.
package unitnorm

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// currencySymbols maps every recognised currency symbol or prefix to its ISO code.
//
//nolint:gochecknoglobals // Static lookup table.
var currencySymbols = map[string]string{
	"$":    "USD",
	"US$":  "USD",
	"€":    "EUR",
	"¥":    "JPY",
	"£":    "GBP",
	"元":    "CNY",
	"A$":   "AUD",
	"C$":   "CAD",
	"HK$":  "HKD",
	"S$":   "SGD",
	"SKr":  "SEK",
	"₩":    "KRW",
	"NKr":  "NOK",
	"NZ$":  "NZD",
	"₹":    "INR",
	"NT$":  "TWD",
	"R":    "ZAR",
	"R$":   "BRL",
	"DKr":  "DKK",
	"zł":   "PLN",
	"฿":    "THB",
	"₪":    "ILS",
	"Rp":   "IDR",
	"Kč":   "CZK",
	"د.إ":  "AED",
	"₺":    "TRY",
	"₴":    "UAH",
	"₦":    "NGN",
	"د.م.": "MAD",
	"RM":   "MYR",
}

//nolint:gochecknoglobals // Compiled once from the static tables above.
var (
	// keepPattern matches ISO codes that must pass through untouched.
	keepPattern = regexp.MustCompile(`(` + strings.Join(isoCodes(), "|") + `)`)

	// symbolPattern matches currency symbols, longest alternatives first.
	symbolPattern = func() *regexp.Regexp {
		re := regexp.MustCompile(`(` + strings.Join(symbolAlternatives(), "|") + `)`)
		re.Longest()
		return re
	}()

	passengerKM = regexp.MustCompile(`passenger[.\s*]+km`)
)

// ISOCodes returns the currency codes the normalizer can emit, sorted.
func ISOCodes() []string {
	return isoCodes()
}

func isoCodes() []string {
	seen := make(map[string]bool, len(currencySymbols))
	codes := make([]string, 0, len(currencySymbols))
	for _, code := range currencySymbols {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}

func symbolAlternatives() []string {
	symbols := make([]string, 0, len(currencySymbols))
	for sym := range currencySymbols {
		symbols = append(symbols, sym)
	}
	sort.Slice(symbols, func(i, j int) bool {
		if len(symbols[i]) != len(symbols[j]) {
			return len(symbols[i]) > len(symbols[j])
		}
		return symbols[i] < symbols[j]
	})
	quoted := make([]string, len(symbols))
	for i, sym := range symbols {
		quoted[i] = regexp.QuoteMeta(sym)
	}
	return quoted
}

// Normalize canonicalizes raw unit text.
//
// The input is NFC-normalized and trimmed, passenger kilometre spellings
// become "pkm", and currency symbols outside already-canonical ISO codes are
// replaced with those codes. Text that contains no currency symbol is returned
// unchanged apart from the trim.
func Normalize(raw string) string {
	s := strings.TrimSpace(norm.NFC.String(raw))
	if s == "" {
		return s
	}
	s = passengerKM.ReplaceAllString(s, "pkm")

	var b strings.Builder
	b.Grow(len(s) + 8)

	last := 0
	for _, loc := range keepPattern.FindAllStringIndex(s, -1) {
		b.WriteString(replaceSymbols(s[last:loc[0]]))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(replaceSymbols(s[last:]))
	return b.String()
}

// replaceSymbols rewrites currency symbols within one unprotected segment.
// Symbols spelled with letters only (R, RM, Rp, SKr, ...) must stand alone so
// that ordinary words and unit names are left intact.
func replaceSymbols(segment string) string {
	if segment == "" {
		return segment
	}
	matches := symbolPattern.FindAllStringIndex(segment, -1)
	if len(matches) == 0 {
		return segment
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		sym := segment[m[0]:m[1]]
		if isLetterSymbol(sym) && !standsAlone(segment, m[0], m[1]) {
			continue
		}
		b.WriteString(segment[last:m[0]])
		b.WriteString(currencySymbols[sym])
		last = m[1]
	}
	b.WriteString(segment[last:])
	return b.String()
}

func isLetterSymbol(sym string) bool {
	for _, r := range sym {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func standsAlone(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); unicode.IsLetter(r) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
