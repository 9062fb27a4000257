package instrument

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/ledger"
	"github.com/robinvdvleuten/finsim/provider"
	"github.com/robinvdvleuten/finsim/rate"
	"github.com/robinvdvleuten/finsim/schedule"
)

// PersonalCurrent returns a personal current account that charges a monthly
// fee of 5.85 on the 1st, taken on the 15th. It pays no interest.
func PersonalCurrent(name string, books ledger.Books) BankAccount {
	fee := BankFee{Description: "Account fee", Amount: decimal.RequireFromString("5.85")}
	return NewBankAccount(StandardAccounts(name), books,
		WithFees(provider.Scheduled(fee, schedule.Monthly(1)), schedule.Monthly(15)),
		WithYearlyJournal(),
	)
}

// PersonalSavings returns a savings account with a banded continuous rate,
// paying interest every quarter. It charges no fees.
func PersonalSavings(name string, books ledger.Books) BankAccount {
	return NewBankAccount(StandardAccounts(name), books,
		WithInterest(provider.Always[rate.Rate](SavingsRate()), schedule.Any(
			schedule.Yearly(time.January, 1),
			schedule.Yearly(time.April, 1),
			schedule.Yearly(time.July, 1),
			schedule.Yearly(time.October, 1),
		)),
		WithYearlyJournal(),
	)
}

// BusinessCurrent returns a business current account that charges a monthly
// fee of 30.00 on the 1st, taken on the 26th.
func BusinessCurrent(name string, books ledger.Books) BankAccount {
	fee := BankFee{Description: "Account fee", Amount: decimal.RequireFromString("30.00")}
	return NewBankAccount(StandardAccounts(name), books,
		WithFees(provider.Scheduled(fee, schedule.Monthly(1)), schedule.Monthly(26)),
		WithYearlyJournal(),
	)
}

// SavingsRate is the banded rate of PersonalSavings: 1.25% up to 500000,
// 1.45% up to 1000000 and nothing above.
func SavingsRate() rate.Banded {
	banded, err := rate.NewBanded(
		rate.Threshold[rate.Rate]{Lower: decimal.Zero, Value: mustContinuous("0.0125")},
		rate.Threshold[rate.Rate]{Lower: decimal.NewFromInt(500000), Value: mustContinuous("0.0145")},
		rate.Threshold[rate.Rate]{Lower: decimal.NewFromInt(1000000), Value: mustContinuous("0")},
	)
	if err != nil {
		panic(err)
	}
	return banded
}

func mustContinuous(annual string) rate.Continuous {
	r, err := rate.NewContinuous(decimal.RequireFromString(annual))
	if err != nil {
		panic(err)
	}
	return r
}
