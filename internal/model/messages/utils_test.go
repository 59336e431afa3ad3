package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"max.ks1230/kinder-converter/internal/entity/currency"
)

func Test_parseCommand(t *testing.T) {
	tests := []struct {
		text    string
		wantCmd string
		wantArg string
	}{
		{"/start", "/start", ""},
		{"/convert 10 USD", "/convert", "10 USD"},
		{"  /convert   10 USD ", "/convert", "10 USD"},
		{"10 USD", "", "10 USD"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmd, arg := parseCommand(tt.text)
			assert.Equal(t, tt.wantCmd, cmd)
			assert.Equal(t, tt.wantArg, arg)
		})
	}
}

func Test_parseConversion(t *testing.T) {
	raw, code, ok := parseConversion("12.5 kzt")
	assert.True(t, ok)
	assert.Equal(t, "12.5", raw)
	assert.Equal(t, currency.KZT, code)

	raw, code, ok = parseConversion("jpy 7")
	assert.True(t, ok)
	assert.Equal(t, "7", raw)
	assert.Equal(t, currency.JPY, code)

	raw, _, ok = parseConversion("Infinity usd")
	assert.True(t, ok)
	assert.Equal(t, "Infinity", raw)

	_, _, ok = parseConversion("USD")
	assert.False(t, ok)
	_, _, ok = parseConversion("inf USD")
	assert.False(t, ok)
	_, _, ok = parseConversion("nan USD")
	assert.False(t, ok)
	_, _, ok = parseConversion("a b")
	assert.False(t, ok)
}
