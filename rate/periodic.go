package rate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/date"
)

// Periodic compounds a fixed number of times per year. The unapplied accrual
// is not compounded, so for a changing balance it drifts slightly from
// Continuous:
//
//	daily  = periods * ((1 + annual)^(1/periods) - 1) / days in year
//	amount = daily * balance
type Periodic struct {
	Annual  decimal.Decimal
	Periods int
}

// NewPeriodic returns a periodic rate compounding the given number of times a year.
func NewPeriodic(annual decimal.Decimal, periods int) (Periodic, error) {
	if err := Validate(annual); err != nil {
		return Periodic{}, err
	}
	if periods <= 0 {
		return Periodic{}, fmt.Errorf("period count %d must be positive", periods)
	}
	return Periodic{Annual: annual, Periods: periods}, nil
}

// DailyRate returns the daily rate for the given year.
func (r Periodic) DailyRate(year int) decimal.Decimal {
	return memoize(memoKey{kind: "periodic", annual: r.Annual.String(), n: r.Periods, year: year}, func() decimal.Decimal {
		periods := decimal.NewFromInt(int64(r.Periods))
		perPeriod := root(decimal.NewFromInt(1).Add(r.Annual), r.Periods).Sub(decimal.NewFromInt(1))
		return periods.Mul(perPeriod).DivRound(decimal.NewFromInt(int64(date.DaysInYear(year))), Precision)
	})
}

func (r Periodic) Calculate(d date.Date, balance, accrued decimal.Decimal) Calculation {
	daily := r.DailyRate(d.Year())
	return Calculation{
		Rate:      r,
		Date:      d,
		Balance:   balance,
		Accrued:   accrued,
		DailyRate: daily,
		Amount:    daily.Mul(balance).Round(Precision),
	}
}

func (r Periodic) String() string {
	return fmt.Sprintf("periodic %s over %d periods", percent(r.Annual), r.Periods)
}
