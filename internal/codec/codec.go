// Package codec maps integer indexes onto fixed-point decimal values and
// round-trips them through their canonical text form and a JSON transport
// cycle. Every function here is pure; the verify engine calls them billions
// of times, once per index.
package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// MaxSafeInteger is 2^53 - 1, the largest integer float64 represents exactly.
const MaxSafeInteger = int64(1)<<53 - 1

// Pow10 returns 10^n for n in [0, 18]. Panics outside that range, callers
// validate decimal places before reaching here.
func Pow10(n int) int64 {
	if n < 0 || n > 18 {
		panic(fmt.Sprintf("codec: pow10 exponent %d out of range", n))
	}
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// TotalNumbers is the size of the index space for a run:
// maxInteger * 10^decimalPlaces - 1.
func TotalNumbers(maxInteger int64, decimalPlaces int) int64 {
	return maxInteger*Pow10(decimalPlaces) - 1
}

// ValueAt reconstructs the decimal value for an index. The index encodes
// intPart*10^decimalPlaces + fracPart, so the mapping is a bijection onto
// the value space (modulo the float64 rounding under test).
func ValueAt(index int64, decimalPlaces int) float64 {
	multiplier := Pow10(decimalPlaces)
	intPart := index / multiplier
	fracPart := index % multiplier
	return float64(intPart) + float64(fracPart)/float64(multiplier)
}

// Format renders v in fixed-point notation with exactly decimalPlaces
// fractional digits. No exponent form, ever.
func Format(v float64, decimalPlaces int) string {
	return strconv.FormatFloat(v, 'f', decimalPlaces, 64)
}

// Serialize formats v to its canonical text and re-parses that text into a
// float64. The format-then-reparse pair is the point: it measures whether
// the truncated text alone is enough to reconstruct the value.
func Serialize(v float64, decimalPlaces int) (string, float64, error) {
	text := Format(v, decimalPlaces)
	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return text, 0, fmt.Errorf("reparse %q: %w", text, err)
	}
	return text, parsed, nil
}

// Transcode pushes an already round-tripped value through a JSON
// encode/decode cycle, catching precision loss introduced by structured
// transport rather than by text formatting.
func Transcode(v float64) (float64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("marshal %v: %w", v, err)
	}
	var out float64
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("unmarshal %q: %w", data, err)
	}
	return out, nil
}

// Equivalent reports whether a round trip preserved the original value.
// Two independent conditions, either failing is a defect:
//
//  1. transcoding preserved the serialized value bit for bit, and
//  2. the serialized value prints the same fixed-point text as the
//     original, so a numerically drifted value cannot hide behind
//     identical-looking output.
func Equivalent(original, serialized, deserialized float64, decimalPlaces int) bool {
	if serialized != deserialized {
		return false
	}
	return Format(serialized, decimalPlaces) == Format(original, decimalPlaces)
}

// SafeDigits returns the maximum number of fractional digits whose full
// value space for maxInteger stays within MaxSafeInteger scaled units.
// Returns -1 when even zero digits overflow.
func SafeDigits(maxInteger int64) int {
	if maxInteger <= 0 || maxInteger > MaxSafeInteger {
		return -1
	}
	digits := -1
	for d := 0; d <= 18; d++ {
		// maxInteger * 10^d must not exceed 2^53
		if maxInteger > (MaxSafeInteger+1)/Pow10(d) {
			break
		}
		digits = d
	}
	return digits
}
