package currency

import "time"

type Code string

const (
	RUB    Code = "RUB"
	USD    Code = "USD"
	KZT    Code = "KZT"
	JPY    Code = "JPY"
	KINDER Code = "KINDER"
)

// Base is the currency every rate is expressed against.
const Base = USD

// DefaultKinderPriceRUB is the price of one KINDER bar in RUB.
const DefaultKinderPriceRUB = 100.0

// Currencies lists the supported currencies in display order.
var Currencies = []Code{RUB, USD, KZT, JPY, KINDER}

// IsKnown reports whether code belongs to the supported set.
func IsKnown(code Code) bool {
	for _, c := range Currencies {
		if c == code {
			return true
		}
	}
	return false
}

// Table maps a currency to the amount of it bought by one unit of Base.
type Table map[Code]float64

// Clone returns an independent copy of t.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	res := make(Table, len(t))
	for k, v := range t {
		res[k] = v
	}
	return res
}

// FallbackRates is used when neither the rate source nor the cache are available.
// KINDER is derived from RUB when the table is applied.
func FallbackRates() Table {
	return Table{
		USD: 1,
		RUB: 92.5,
		KZT: 450,
		JPY: 149,
	}
}

type Rate struct {
	Name      Code
	BaseRate  float64
	UpdatedAt time.Time
}
