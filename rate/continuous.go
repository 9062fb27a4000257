package rate

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/date"
)

// Continuous compounds daily over balance and accrued interest:
//
//	daily  = (1 + annual)^(1/days in year) - 1
//	amount = daily * (balance + accrued)
type Continuous struct {
	Annual decimal.Decimal
}

// NewContinuous returns a continuous rate for the given annual rate.
func NewContinuous(annual decimal.Decimal) (Continuous, error) {
	if err := Validate(annual); err != nil {
		return Continuous{}, err
	}
	return Continuous{Annual: annual}, nil
}

// DailyRate returns the daily rate for the given year.
func (r Continuous) DailyRate(year int) decimal.Decimal {
	return memoize(memoKey{kind: "continuous", annual: r.Annual.String(), year: year}, func() decimal.Decimal {
		return root(decimal.NewFromInt(1).Add(r.Annual), date.DaysInYear(year)).Sub(decimal.NewFromInt(1))
	})
}

func (r Continuous) Calculate(d date.Date, balance, accrued decimal.Decimal) Calculation {
	daily := r.DailyRate(d.Year())
	return Calculation{
		Rate:      r,
		Date:      d,
		Balance:   balance,
		Accrued:   accrued,
		DailyRate: daily,
		Amount:    daily.Mul(balance.Add(accrued)).Round(Precision),
	}
}

func (r Continuous) String() string { return "continuous " + percent(r.Annual) }
