package engine

import (
	"math"
	"math/rand"
	"sync"

	"github.com/pkg/errors"
	"max.ks1230/kinder-converter/internal/entity/currency"
	"max.ks1230/kinder-converter/internal/model/customerr"
)

const (
	minRandomAmount = 1
	maxRandomAmount = 1000
)

// Result maps a currency to its display value. An empty value means the field should be cleared.
type Result map[currency.Code]string

// Engine converts amounts between the supported currencies using the current rate table.
// The table is replaced as a whole, so readers never see a partially applied refresh.
type Engine struct {
	mu          sync.RWMutex
	rates       currency.Table
	kinderPrice float64
}

// New creates an engine without rates. A non-positive kinderPriceRUB falls back to the default price.
func New(kinderPriceRUB float64) *Engine {
	if kinderPriceRUB <= 0 || math.IsInf(kinderPriceRUB, 0) || math.IsNaN(kinderPriceRUB) {
		kinderPriceRUB = currency.DefaultKinderPriceRUB
	}
	return &Engine{kinderPrice: kinderPriceRUB}
}

// SetRates validates raw and makes it the current table. On error the previous table is kept.
func (e *Engine) SetRates(raw currency.Table) error {
	table, err := e.normalize(raw)
	if err != nil {
		return errors.Wrap(err, "set rates")
	}

	e.mu.Lock()
	e.rates = table
	e.mu.Unlock()
	return nil
}

func (e *Engine) normalize(raw currency.Table) (currency.Table, error) {
	table := make(currency.Table, len(raw)+2)
	for code, rate := range raw {
		switch {
		case math.IsNaN(rate) || math.IsInf(rate, 0):
			return nil, &customerr.InvalidRateDataError{Currency: string(code), Rate: rate, Reason: "rate is not finite"}
		case rate <= 0:
			return nil, &customerr.InvalidRateDataError{Currency: string(code), Rate: rate, Reason: "rate is not positive"}
		case code == currency.Base && rate != 1:
			return nil, &customerr.InvalidRateDataError{Currency: string(code), Rate: rate, Reason: "base rate must be 1"}
		}
		// derived below
		if code == currency.KINDER {
			continue
		}
		table[code] = rate
	}

	table[currency.Base] = 1
	if rub, ok := table[currency.RUB]; ok {
		table[currency.KINDER] = rub / e.kinderPrice
	}
	return table, nil
}

// Rates returns a copy of the current table, nil if no rates were set.
func (e *Engine) Rates() currency.Table {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rates.Clone()
}

func (e *Engine) HasRates() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.rates) > 0
}

// Convert expresses amount of source in every other supported currency with a known rate.
// A zero amount yields an empty value for every other currency.
func (e *Engine) Convert(source currency.Code, amount float64) (Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	sourceRate, ok := e.rates[source]
	if !ok || !currency.IsKnown(source) {
		return nil, &customerr.UnknownCurrencyError{Currency: string(source)}
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, &customerr.InvalidAmountError{Amount: amount}
	}

	res := make(Result, len(currency.Currencies)-1)
	if amount == 0 {
		for _, target := range currency.Currencies {
			if target != source {
				res[target] = ""
			}
		}
		return res, nil
	}

	amountInBase := amount / sourceRate
	for _, target := range currency.Currencies {
		if target == source {
			continue
		}
		rate, ok := e.rates[target]
		if !ok {
			continue
		}
		res[target] = FormatForDisplay(target, amountInBase*rate)
	}
	return res, nil
}

// RandomSample fills every currency with a known rate, base included,
// with the base amount produced by generate.
func (e *Engine) RandomSample(generate func() int) (Result, error) {
	amount := generate()
	if amount < minRandomAmount || amount > maxRandomAmount {
		return nil, &customerr.InvalidAmountError{Amount: float64(amount)}
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.rates) == 0 {
		return nil, &customerr.UnknownCurrencyError{Currency: string(currency.Base)}
	}

	res := make(Result, len(currency.Currencies))
	for _, code := range currency.Currencies {
		rate, ok := e.rates[code]
		if !ok {
			continue
		}
		res[code] = FormatForDisplay(code, float64(amount)*rate)
	}
	return res, nil
}

// RandomAmount returns a uniformly chosen base amount in [1, 1000].
func RandomAmount() int {
	return rand.Intn(maxRandomAmount-minRandomAmount+1) + minRandomAmount
}
