package finviz

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// magnitudes maps finviz value suffixes to their multipliers.
var magnitudes = map[byte]float64{
	'K': 1e3,
	'M': 1e6,
	'B': 1e9,
	'T': 1e12,
}

// Normalize converts a finviz-formatted token into a number.
// Handles thousands separators, "%" (the numeral is kept, 12.5% → 12.5)
// and K/M/B/T magnitude suffixes. The "-" placeholder yields ErrNoValue.
func Normalize(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return 0, ErrNoValue
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")

	multiplier := 1.0
	if n := len(s); n > 1 {
		if m, ok := magnitudes[s[n-1]]; ok {
			multiplier = m
			s = s[:n-1]
		}
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
	}
	return val * multiplier, nil
}

// normalizeOrRaw returns the normalized number, or the raw string when the
// token cannot be normalized.
func normalizeOrRaw(raw string) any {
	if v, err := Normalize(raw); err == nil {
		return v
	}
	return raw
}
