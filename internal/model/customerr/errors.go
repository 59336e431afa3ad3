package customerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidRateDataError is returned when a rate table cannot be applied.
type InvalidRateDataError struct {
	Currency string
	Rate     float64
	Reason   string
}

func (e *InvalidRateDataError) Error() string {
	return fmt.Sprintf("invalid rate data: %s=%v: %s", e.Currency, e.Rate, e.Reason)
}

// UnknownCurrencyError is returned when a currency has no rate in the current table.
type UnknownCurrencyError struct {
	Currency string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency %s", e.Currency)
}

// InvalidAmountError is returned for NaN or infinite amounts.
type InvalidAmountError struct {
	Amount float64
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %v", e.Amount)
}

func IsInvalidRateData(err error) bool {
	var target *InvalidRateDataError
	return errors.As(err, &target)
}

func IsUnknownCurrency(err error) bool {
	var target *UnknownCurrencyError
	return errors.As(err, &target)
}

func IsInvalidAmount(err error) bool {
	var target *InvalidAmountError
	return errors.As(err, &target)
}
