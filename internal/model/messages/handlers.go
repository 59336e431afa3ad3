package messages

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"max.ks1230/kinder-converter/internal/entity/currency"
	"max.ks1230/kinder-converter/internal/model/customerr"
	"max.ks1230/kinder-converter/internal/model/rates"
	"max.ks1230/kinder-converter/internal/model/widget"
)

const (
	dontUnderstandMessage = "I don't understand you :("
	helloMessage          = "Hello! I am Kinder converter bot 🍫"
	clearedMessage        = "Fields cleared"
	noSavedMessage        = "Nothing saved yet"

	incorrectUsageMessage   = "That is an incorrect command usage. Try: /convert 10 USD"
	unknownCurrencyMessage  = "I only know RUB, USD, KZT, JPY and KINDER"
	ratesNotLoadedMessage   = "Rates are not loaded yet, try again in a moment"
	invalidAmountMessage    = "Your amount is incorrect"
	cannotRefreshMessage    = "Can't reach the rates service, using fallback rates"
	cannotSaveValuesMessage = "Can't load your saved values atm. Try later"
)

const helpMessage = `/convert <amount> <currency> - convert an amount, e.g. /convert 10 USD
<amount> <currency> - the same without the command
/lucky - convert a random amount of dollars
/last - show your last conversion
/rates - current rates
/refresh - pull fresh rates`

const (
	startCommand   = "/start"
	helpCommand    = "/help"
	convertCommand = "/convert"
	luckyCommand   = "/lucky"
	lastCommand    = "/last"
	ratesCommand   = "/rates"
	refreshCommand = "/refresh"
)

type sessionProvider interface {
	Get(id string) *widget.Session
}

type ratesSource interface {
	Status() rates.Status
	Refresh(ctx context.Context) (rates.Status, error)
}

type ratesReader interface {
	Rates() currency.Table
}

type handler func(ctx context.Context, arg string, userID int64) (string, error)

type handlerMap map[string]handler

type HandlerService struct {
	handlersMap handlerMap
	sessions    sessionProvider
	puller      ratesSource
	rates       ratesReader
}

func newHandler(sessions sessionProvider, puller ratesSource, reader ratesReader) *HandlerService {
	res := &HandlerService{
		sessions: sessions,
		puller:   puller,
		rates:    reader,
	}
	res.handlersMap = newMap(res)
	return res
}

func (s *HandlerService) HandleMessage(ctx context.Context, text string, userID int64) (string, error) {
	cmd, arg := parseCommand(text)

	handler, ok := s.handlersMap[cmd]
	if ok {
		return handler(ctx, arg, userID)
	}
	return dontUnderstandMessage, nil
}

// commandLabel names the command of text for metrics and traces.
func (s *HandlerService) commandLabel(text string) string {
	cmd, _ := parseCommand(text)
	if cmd == "" {
		return "text"
	}
	if _, ok := s.handlersMap[cmd]; !ok {
		return "unknown"
	}
	return cmd
}

func newMap(s *HandlerService) handlerMap {
	m := make(handlerMap)
	m[startCommand] = s.handleStart
	m[helpCommand] = s.handleHelp
	m[convertCommand] = s.handleConvert
	m[luckyCommand] = s.handleLucky
	m[lastCommand] = s.handleLast
	m[ratesCommand] = s.handleRates
	m[refreshCommand] = s.handleRefresh

	m[""] = s.handleNoCommand

	return m
}

func (s *HandlerService) handleStart(_ context.Context, _ string, _ int64) (string, error) {
	return helloMessage + "\n\n" + helpMessage, nil
}

func (s *HandlerService) handleHelp(_ context.Context, _ string, _ int64) (string, error) {
	return helpMessage, nil
}

func (s *HandlerService) handleConvert(ctx context.Context, arg string, userID int64) (string, error) {
	raw, code, ok := parseConversion(arg)
	if !ok {
		return incorrectUsageMessage, nil
	}
	if !currency.IsKnown(code) {
		return unknownCurrencyMessage, nil
	}

	update, err := s.session(userID).HandleInput(ctx, code, raw)
	if err != nil {
		return conversionFailureMessage(err), nil
	}
	if len(update.Flashed) == 0 {
		return clearedMessage, nil
	}
	return formatFields(update, code), nil
}

func (s *HandlerService) handleNoCommand(ctx context.Context, arg string, userID int64) (string, error) {
	if _, _, ok := parseConversion(arg); !ok {
		return dontUnderstandMessage + "\n\n" + helpMessage, nil
	}
	return s.handleConvert(ctx, arg, userID)
}

func (s *HandlerService) handleLucky(ctx context.Context, _ string, userID int64) (string, error) {
	update, err := s.session(userID).Lucky(ctx)
	if err != nil {
		if customerr.IsUnknownCurrency(err) {
			return ratesNotLoadedMessage, nil
		}
		return "", errors.Wrap(err, "handle lucky")
	}
	return "🍀 " + formatFields(update, ""), nil
}

func (s *HandlerService) handleLast(ctx context.Context, _ string, userID int64) (string, error) {
	update, err := s.session(userID).Restore(ctx)
	if err != nil && !customerr.IsUnknownCurrency(err) && !customerr.IsInvalidAmount(err) {
		return cannotSaveValuesMessage, errors.Wrap(err, "handle last")
	}
	if isEmpty(update.Fields) {
		return noSavedMessage, nil
	}
	return formatFields(update, ""), nil
}

func (s *HandlerService) handleRates(_ context.Context, _ string, _ int64) (string, error) {
	table := s.rates.Rates()
	if len(table) == 0 {
		return ratesNotLoadedMessage, nil
	}

	lines := make([]string, 0, len(currency.Currencies)+2)
	for _, code := range currency.Currencies {
		rate, ok := table[code]
		if !ok || code == currency.Base {
			continue
		}
		lines = append(lines, fmt.Sprintf("1 %s = %.4f %s", currency.Base, rate, code))
	}
	lines = append(lines, "", s.puller.Status().Label())
	return strings.Join(lines, "\n"), nil
}

func (s *HandlerService) handleRefresh(ctx context.Context, _ string, _ int64) (string, error) {
	status, err := s.puller.Refresh(ctx)
	if err != nil {
		return cannotRefreshMessage + "\n" + status.Label(), nil
	}
	return status.Label(), nil
}

func (s *HandlerService) session(userID int64) *widget.Session {
	return s.sessions.Get(sessionID(userID))
}

func conversionFailureMessage(err error) string {
	switch {
	case customerr.IsUnknownCurrency(err):
		return ratesNotLoadedMessage
	case customerr.IsInvalidAmount(err):
		return invalidAmountMessage
	}
	return dontUnderstandMessage
}
