package widget

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParseAmount reads the longest numeric prefix of raw, the way a browser number field does.
// Text without a numeric prefix yields NaN.
func ParseAmount(raw string) float64 {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	for _, inf := range []struct {
		prefix string
		sign   int
	}{{"Infinity", 1}, {"+Infinity", 1}, {"-Infinity", -1}} {
		if strings.HasPrefix(s, inf.prefix) {
			return math.Inf(inf.sign)
		}
	}

	match := numberPrefix.FindString(s)
	if match == "" {
		return math.NaN()
	}
	// out of range values come back as ±Inf together with ErrRange
	v, err := strconv.ParseFloat(match, 64)
	if err != nil && !math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}
