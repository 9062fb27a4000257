// Package rate converts annual interest rates into daily accruals.
//
// Three conventions are modelled: Continuous compounds the unapplied accrual
// together with the principal, Periodic compounds a fixed number of times per
// year and ignores the accrual, and Banded applies a different rate to each
// slice of the balance.
package rate

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/date"
)

// Precision is the number of decimal places kept for daily rates and
// calculated amounts.
const Precision = 20

// Rate computes one day of interest.
type Rate interface {
	Calculate(d date.Date, balance, accrued decimal.Decimal) Calculation
	String() string
}

// Calculation is the result of applying a rate for one day.
type Calculation struct {
	Rate    Rate
	Date    date.Date
	Balance decimal.Decimal
	Accrued decimal.Decimal

	// DailyRate is the rate applied for the day. For banded rates it is the
	// effective rate over balance and accrued combined.
	DailyRate decimal.Decimal

	// Amount is the interest accrued for the day.
	Amount decimal.Decimal

	// Parts holds one calculation per band for banded rates.
	Parts []Calculation
}

func (c Calculation) String() string {
	return fmt.Sprintf("%s %s: %s on %s (+%s accrued) at %s",
		c.Date, c.Rate, c.Amount.StringFixed(6), c.Balance.StringFixed(2), c.Accrued.StringFixed(2), c.DailyRate.StringFixed(10))
}

type memoKey struct {
	kind   string
	annual string
	n      int
	year   int
}

// dailyRates memoizes daily rates per (rate, year). The computation is pure so
// the cache is shared by every rate value.
var dailyRates sync.Map

func memoize(key memoKey, compute func() decimal.Decimal) decimal.Decimal {
	if v, ok := dailyRates.Load(key); ok {
		return v.(decimal.Decimal)
	}
	v, _ := dailyRates.LoadOrStore(key, compute())
	return v.(decimal.Decimal)
}

// root returns base^(1/n).
func root(base decimal.Decimal, n int) decimal.Decimal {
	exponent := decimal.NewFromInt(1).DivRound(decimal.NewFromInt(int64(n)), Precision+10)
	result, err := base.PowWithPrecision(exponent, Precision+4)
	if err != nil {
		// only reachable for a negative base, which Validate rules out
		panic(fmt.Sprintf("rate: %s^(1/%d): %v", base, n, err))
	}
	return result.Round(Precision)
}

// Validate rejects annual rates of -100% or less, for which no daily rate exists.
func Validate(annual decimal.Decimal) error {
	if annual.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("annual rate %s must be greater than -1", annual)
	}
	return nil
}

func percent(d decimal.Decimal) string {
	return d.Shift(2).StringFixed(2) + "%"
}
