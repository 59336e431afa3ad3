package engine

import (
	"math"
	"strconv"
	"strings"

	"max.ks1230/kinder-converter/internal/entity/currency"
)

const (
	fixedDecimals     = 2
	minFixedMagnitude = 0.01
	smallValueDigits  = 4

	// toPrecision switches to exponent notation outside [1e-7, 10^digits).
	minFixedExponent = -6

	// toFixed falls back to plain number formatting from here on.
	maxFixedMagnitude = 1e21

	// enough to print any float64 without rounding
	exactSignificantDigits = 767
)

// FormatForDisplay renders value the way a currency field shows it.
// Every rounding works on the exact binary value and sends ties away from zero.
func FormatForDisplay(code currency.Code, value float64) string {
	abs := math.Abs(value)

	switch {
	case (code == currency.JPY || code == currency.KZT) && abs >= 1:
		return formatNumber(roundHalfUp(value))
	case code == currency.KINDER:
		return toFixed(value, fixedDecimals)
	case abs >= minFixedMagnitude:
		return toFixed(value, fixedDecimals)
	}
	return toPrecision(value, smallValueDigits)
}

// roundHalfUp rounds to the nearest integer, ties toward +Inf.
func roundHalfUp(value float64) float64 {
	floor := math.Floor(value)
	if value-floor >= 0.5 {
		return floor + 1
	}
	return floor
}

func formatNumber(value float64) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case math.IsInf(value, 1):
		return "Infinity"
	case math.IsInf(value, -1):
		return "-Infinity"
	case value == 0:
		return "0"
	case math.Abs(value) >= maxFixedMagnitude:
		return strconv.FormatFloat(value, 'e', -1, 64)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// toFixed formats value with exactly decimals digits after the point.
func toFixed(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) >= maxFixedMagnitude {
		return formatNumber(value)
	}

	sign, abs := splitSign(value)
	digits, exp := decimalDigits(abs)

	// units of 10^-decimals
	units := "0"
	if keep := exp + decimals; keep >= 0 {
		if rounded, _ := roundDigits(digits, keep); rounded != "" {
			units = rounded
		}
	}
	if decimals == 0 {
		return sign + units
	}
	if len(units) <= decimals {
		units = strings.Repeat("0", decimals-len(units)+1) + units
	}
	point := len(units) - decimals
	return sign + units[:point] + "." + units[point:]
}

// toPrecision formats value with the given number of significant digits,
// using exponent notation ("1.000e-7") only for very small or large magnitudes.
func toPrecision(value float64, digits int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return formatNumber(value)
	}
	if value == 0 {
		return "0." + strings.Repeat("0", digits-1)
	}

	sign, abs := splitSign(value)
	all, exp := decimalDigits(abs)
	mantissa, carried := roundDigits(all, digits)
	// scientific exponent: value = d.ddd × 10^e
	e := exp - 1
	if carried {
		mantissa = mantissa[:digits]
		e++
	}

	if e < minFixedExponent || e >= digits {
		res := mantissa[:1]
		if digits > 1 {
			res += "." + mantissa[1:]
		}
		expSign := "+"
		if e < 0 {
			expSign, e = "-", -e
		}
		return sign + res + "e" + expSign + strconv.Itoa(e)
	}
	if e < 0 {
		return sign + "0." + strings.Repeat("0", -e-1) + mantissa
	}
	if e == digits-1 {
		return sign + mantissa
	}
	return sign + mantissa[:e+1] + "." + mantissa[e+1:]
}

func splitSign(value float64) (string, float64) {
	if value < 0 {
		return "-", -value
	}
	return "", value
}

// decimalDigits returns the exact decimal expansion of a positive finite value
// as significant digits and an exponent such that value = 0.digits × 10^exp.
func decimalDigits(value float64) (string, int) {
	s := strconv.FormatFloat(value, 'e', exactSignificantDigits, 64)
	idx := strings.LastIndexByte(s, 'e')
	exp, _ := strconv.Atoi(s[idx+1:])
	digits := strings.TrimRight(s[:1]+s[2:idx], "0")
	return digits, exp + 1
}

// roundDigits keeps the first n digits, rounding half up on the rest. When the
// rounding carries past the first digit the result is one digit longer.
func roundDigits(digits string, n int) (string, bool) {
	if len(digits) <= n {
		return digits + strings.Repeat("0", n-len(digits)), false
	}
	kept := []byte(digits[:n])
	if digits[n] < '5' {
		return string(kept), false
	}
	for i := n - 1; i >= 0; i-- {
		if kept[i] < '9' {
			kept[i]++
			return string(kept), false
		}
		kept[i] = '0'
	}
	return "1" + string(kept), true
}
