package utils

import (
	"math"
	"strconv"
	"strings"
)

var numberCleaner = strings.NewReplacer(
	"$", "",
	"€", "",
	"£", "",
	"USD", "",
	"\"", "",
	"'", "",
	",", "",
	" ", "",
)

// StripCurrency removes currency symbols and stray quote characters from a cell.
func StripCurrency(s string) string {
	s = strings.NewReplacer("$", "", "€", "", "£", "", "\"", "").Replace(s)
	return strings.TrimSpace(s)
}

// ParseNumber parses a money or quantity cell such as "$1,234.50".
// The second return value is false for blank or unparsable cells.
func ParseNumber(s string) (float64, bool) {
	s = numberCleaner.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// maxInteger bounds integer cells so conversions and Pack*Size products stay
// well inside int range on every platform.
const maxInteger = 1_000_000

// ParseInteger parses a cell that must hold a whole number. "2.0" is
// accepted; fractional values such as "2.5" and values beyond maxInteger are
// invalid.
func ParseInteger(s string) (int, bool) {
	v, ok := ParseNumber(s)
	if !ok || math.Abs(v) > maxInteger {
		return 0, false
	}
	r := math.Round(v)
	if math.Abs(v-r) > roundingSlack*math.Max(1, math.Abs(v)) {
		return 0, false
	}
	return int(r), true
}

// roundingSlack absorbs binary representation error so that products such
// as 2.555*3 (7.66499999...) round like the decimal value they stand for.
const roundingSlack = 1e-9

// RoundOneDecimal rounds half away from zero to one decimal place.
func RoundOneDecimal(v float64) float64 {
	scaled := v * 10
	scaled += math.Copysign(roundingSlack*math.Max(1, math.Abs(scaled)), scaled)
	r := math.Round(scaled) / 10
	if r == 0 {
		return 0
	}
	return r
}

// FormatOneDecimal renders v rounded to exactly one decimal place.
func FormatOneDecimal(v float64) string {
	return strconv.FormatFloat(RoundOneDecimal(v), 'f', 1, 64)
}
