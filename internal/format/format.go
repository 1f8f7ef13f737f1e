// Package format renders evaluation results for display.
package format

import (
	"strconv"
	"strings"
)

// Precision is the number of fractional digits a result is rendered with
// before trimming.
const Precision = 6

// Number renders v as fixed-point decimal text with Precision fractional
// digits. Infinities and NaN use strconv's spelling ("+Inf", "-Inf", "NaN").
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', Precision, 64)
}

// Trim removes trailing zeros from the fractional part of s, then a
// dangling decimal point. Text without a decimal point is returned as is,
// so integers such as "100" keep their zeros.
func Trim(s string) string {
	if !strings.ContainsRune(s, '.') {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Answer is the display form of a result.
func Answer(v float64) string {
	s := Trim(Number(v))
	if s == "-0" {
		return "0"
	}
	return s
}
