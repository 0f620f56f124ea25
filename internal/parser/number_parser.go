package parser

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumberOrNull parses user-typed numbers. Blank, non-numeric and
// non-finite input all yield nil; a comma is accepted as the decimal separator.
func ParseNumberOrNull(value string) *float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	num, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
	if err != nil || math.IsInf(num, 0) || math.IsNaN(num) {
		return nil
	}
	return &num
}

// ClampInt rounds n to the nearest integer, halves towards +Inf (-2.5 becomes -2),
// and clamps it to [min, max]
func ClampInt(n float64, min, max int) int {
	if math.IsNaN(n) {
		return min
	}
	r := math.Floor(n + 0.5)
	if r < float64(min) {
		return min
	}
	if r > float64(max) {
		return max
	}
	return int(r)
}

// FormatKg shows a weight with at most two decimals and no trailing zeros.
// A nil weight formats as the empty string.
func FormatKg(n *float64) string {
	if n == nil {
		return ""
	}
	if *n == math.Trunc(*n) {
		return strconv.FormatFloat(*n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(*n, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatNumber prints n in its shortest exact form, e.g. 100, 97.5
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// FormatOptional prints a nullable number, using placeholder for nil
func FormatOptional(n *float64, placeholder string) string {
	if n == nil {
		return placeholder
	}
	return FormatNumber(*n)
}
