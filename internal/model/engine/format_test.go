package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"max.ks1230/kinder-converter/internal/entity/currency"
)

func Test_FormatForDisplay(t *testing.T) {
	tests := []struct {
		name  string
		code  currency.Code
		value float64
		want  string
	}{
		{"yen is shown without decimals", currency.JPY, 149.0, "149"},
		{"yen rounds half up", currency.JPY, 149.5, "150"},
		{"tenge rounds to integer", currency.KZT, 4499.6, "4500"},
		{"negative yen rounds half up", currency.JPY, -1.5, "-1"},
		{"tenge below one falls through to two decimals", currency.KZT, 0.5, "0.50"},
		{"yen below one falls through to two decimals", currency.JPY, 0.07, "0.07"},
		{"kinder uses the binary value when rounding", currency.KINDER, 1.005, "1.00"},
		{"kinder keeps two decimals for tiny values", currency.KINDER, 0.001, "0.00"},
		{"rubles use two decimals", currency.RUB, 925, "925.00"},
		{"negative rubles use two decimals", currency.RUB, -5.5, "-5.50"},
		{"threshold is inclusive", currency.USD, 0.01, "0.01"},
		{"small dollars use four significant digits", currency.USD, 0.00009, "0.00009000"},
		{"just below threshold", currency.USD, 0.009, "0.009000"},
		{"tiny tenge uses four significant digits", currency.KZT, 0.001, "0.001000"},
		{"very small values switch to exponent notation", currency.RUB, 0.0000001, "1.000e-7"},
		{"zero uses four significant digits", currency.USD, 0, "0.000"},
		{"kinder tie rounds up", currency.KINDER, 0.125, "0.13"},
		{"rubles tie rounds up", currency.RUB, 1.125, "1.13"},
		{"dollars tie rounds up", currency.USD, 0.625, "0.63"},
		{"negative tie rounds away from zero", currency.USD, -0.625, "-0.63"},
		{"tie on the fourth significant digit rounds up", currency.USD, 0.0078125, "0.007813"},
		{"negative tie on the fourth significant digit", currency.RUB, -0.0078125, "-0.007813"},
		{"rounding can carry into the next magnitude", currency.USD, 0.0099999, "0.01000"},
		{"large yen stays in plain notation", currency.JPY, 1490000.4, "1490000"},
		{"yen above 2^52 is not shifted by rounding", currency.JPY, 4503599627370497, "4503599627370497"},
		{"huge kinder switches to exponent notation", currency.KINDER, 1e21, "1e+21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatForDisplay(tt.code, tt.value))
		})
	}
}

func Test_toPrecision_ShouldHandleLargeExponent(t *testing.T) {
	assert.Equal(t, "1.235e+4", toPrecision(12345.6, 4))
	assert.Equal(t, "1235", toPrecision(1234.56, 4))
	assert.Equal(t, "0.000", toPrecision(-0.0, 4))
}

func Test_toFixed_ShouldRoundOnExactBinaryValue(t *testing.T) {
	assert.Equal(t, "0.13", toFixed(0.125, 2))
	assert.Equal(t, "1.00", toFixed(1.005, 2))
	assert.Equal(t, "-0.00", toFixed(-0.001, 2))
	assert.Equal(t, "1", toFixed(0.5, 0))
	assert.Equal(t, "0.0", toFixed(0.04, 1))
	assert.Equal(t, "10.00", toFixed(9.999, 2))
}
