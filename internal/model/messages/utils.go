package messages

import (
	"math"
	"strconv"
	"strings"

	"max.ks1230/kinder-converter/internal/entity/currency"
	"max.ks1230/kinder-converter/internal/model/widget"
)

const (
	commandParts    = 2
	conversionParts = 2
	sessionPrefix   = "tg:"
)

func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	split := strings.SplitN(text, " ", commandParts)

	if strings.HasPrefix(text, "/") {
		if len(split) == commandParts {
			return split[0], strings.TrimSpace(split[1])
		}
		return text, ""
	}
	return "", text
}

// parseConversion accepts "<amount> <currency>" and "<currency> <amount>".
// The amount is recognised by the same rule the session parses it with.
func parseConversion(arg string) (raw string, code currency.Code, ok bool) {
	fields := strings.Fields(arg)
	if len(fields) != conversionParts {
		return "", "", false
	}

	first, second := fields[0], fields[1]
	if isAmount(first) {
		return first, currency.Code(strings.ToUpper(second)), true
	}
	if isAmount(second) {
		return second, currency.Code(strings.ToUpper(first)), true
	}
	return "", "", false
}

func isAmount(raw string) bool {
	return !math.IsNaN(widget.ParseAmount(raw))
}

func sessionID(userID int64) string {
	return sessionPrefix + strconv.FormatInt(userID, 10)
}

func formatFields(update widget.Update, source currency.Code) string {
	lines := make([]string, 0, len(currency.Currencies))
	for _, code := range currency.Currencies {
		value := update.Fields[code]
		if value == "" {
			continue
		}
		line := string(code) + ": " + value
		if code == source {
			line = "▶ " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func isEmpty(fields map[currency.Code]string) bool {
	for _, v := range fields {
		if v != "" {
			return false
		}
	}
	return true
}
