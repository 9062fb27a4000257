package instrument_test

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/engine"
	"github.com/robinvdvleuten/finsim/instrument"
	"github.com/robinvdvleuten/finsim/ledger"
	"github.com/robinvdvleuten/finsim/provider"
	"github.com/robinvdvleuten/finsim/rate"
	"github.com/robinvdvleuten/finsim/schedule"
)

var start = date.MustParse("2021-01-01")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func opened(name, amount string) ledger.Books {
	return ledger.Create(ledger.MustTransaction(start.Add(-1), ledger.OpeningDescription,
		ledger.NewChange(dec(amount), "assets", "bank_accounts", name),
		ledger.NewChange(dec(amount).Neg(), "equity", "opening"),
	))
}

func run(t *testing.T, a instrument.BankAccount, from date.Date, days int) instrument.BankAccount {
	t.Helper()
	for i := 0; i < days; i++ {
		next, events, err := a.OnTick(from.Add(i))
		assert.NoError(t, err)
		assert.Equal(t, 0, len(events))
		a = next.(instrument.BankAccount)
	}
	return a
}

func dispatch(t *testing.T, a instrument.BankAccount, payload any) instrument.BankAccount {
	t.Helper()
	next, _, err := a.OnAction(start, engine.Action{Source: engine.NewPath("..", "alice"), Payload: payload})
	assert.NoError(t, err)
	return next.(instrument.BankAccount)
}

func TestPersonalCurrentFees(t *testing.T) {
	a := instrument.PersonalCurrent("current", opened("current", "1000"))

	a = run(t, a, start, 14)
	assertDecimal(t, "1000", a.Balance())
	assertDecimal(t, "5.85", a.FeesPayable())

	a = run(t, a, start.Add(14), 1)
	assertDecimal(t, "994.15", a.Balance())
	assertDecimal(t, "0", a.FeesPayable())
	assertDecimal(t, "5.85", a.Books().Balance("expenses", "bank_accounts", "fees", "current"))

	a = run(t, a, start.Add(15), 17)
	assertDecimal(t, "5.85", a.FeesPayable())
	assertDecimal(t, "11.70", a.Books().TotalBalance("expenses"))

	assertDecimal(t, "0", a.Books().TotalBalance())
	assert.NoError(t, a.Books().Audit())
}

func TestInterest(t *testing.T) {
	r, err := rate.NewContinuous(dec("0.015"))
	assert.NoError(t, err)
	jan2 := start.Next()

	a := instrument.NewBankAccount(instrument.StandardAccounts("savings"), opened("savings", "10000"),
		instrument.WithInterest(provider.Always[rate.Rate](r), schedule.Day(jan2)),
	)

	a = run(t, a, start, 1)
	first := r.Calculate(start, dec("10000"), decimal.Zero).Amount
	assertDecimal(t, first.String(), a.InterestAccrued())
	assertDecimal(t, "10000", a.Balance())

	a = run(t, a, jan2, 1)
	second := r.Calculate(jan2, dec("10000"), first).Amount
	assertDecimal(t, "0", a.InterestAccrued())
	assertDecimal(t, dec("10000").Add(first).Add(second).String(), a.Balance())
	assertDecimal(t, first.Add(second).Neg().String(), a.Books().Balance("income", "bank_accounts", "interest", "savings"))

	// The payment schedule is exhausted, interest keeps accruing.
	a = run(t, a, jan2.Next(), 3)
	assert.True(t, a.InterestAccrued().IsPositive())
	assert.Equal(t, 5, len(a.Accruals()))
	assert.Equal(t, jan2.Next(), a.Accruals()[2].Date)

	assertDecimal(t, "0", a.Books().TotalBalance())
	assert.NoError(t, a.Books().Audit())
}

func TestAccrualOrder(t *testing.T) {
	r, err := rate.NewContinuous(dec("0.015"))
	assert.NoError(t, err)

	// Interest is accrued before it is applied on the same day, so a daily
	// payment schedule never leaves anything accrued.
	a := instrument.NewBankAccount(instrument.StandardAccounts("savings"), opened("savings", "10000"),
		instrument.WithInterest(provider.Always[rate.Rate](r), schedule.Daily()),
	)
	a = run(t, a, start, 10)
	assertDecimal(t, "0", a.InterestAccrued())
	assert.True(t, a.Balance().GreaterThan(dec("10000")))
}

func TestDepositAndWithdrawal(t *testing.T) {
	a := instrument.NewBankAccount(instrument.StandardAccounts("current"), opened("current", "1000"))

	a = dispatch(t, a, instrument.Deposit{Amount: dec("250")})
	assertDecimal(t, "1250", a.Balance())
	assertDecimal(t, "-250", a.Books().Balance(instrument.TransfersAccount...))

	a = dispatch(t, a, instrument.Withdrawal{
		Amount:      dec("100"),
		Description: "Groceries",
		Counter:     ledger.Path{"expenses", "groceries"},
	})
	assertDecimal(t, "1150", a.Balance())
	assertDecimal(t, "100", a.Books().Balance("expenses", "groceries"))

	journal := a.Books().Journal()
	assert.Equal(t, 3, len(journal))
	assert.Equal(t, "Deposit: ../alice", journal[1].Description())
	assert.Equal(t, "Groceries", journal[2].Description())
}

func TestInvalidAmounts(t *testing.T) {
	a := instrument.NewBankAccount(instrument.StandardAccounts("current"), opened("current", "1000"))

	tests := []struct {
		name    string
		payload any
	}{
		{"ZeroDeposit", instrument.Deposit{Amount: decimal.Zero}},
		{"NegativeWithdrawal", instrument.Withdrawal{Amount: dec("-5")}},
		{"ZeroSalary", instrument.SalaryPayment{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _, err := a.OnAction(start, engine.Action{Payload: tt.payload})
			assert.True(t, errors.Is(err, instrument.ErrNonPositiveAmount))
			assert.Equal(t, 1, len(next.(instrument.BankAccount).Books().Journal()))
		})
	}
}

func TestUnknownPayloadIsIgnored(t *testing.T) {
	a := instrument.NewBankAccount(instrument.StandardAccounts("current"), opened("current", "1000"))
	a = dispatch(t, a, "hello")
	assert.Equal(t, 1, len(a.Books().Journal()))
}

func TestSalaryPayment(t *testing.T) {
	a := instrument.NewBankAccount(instrument.StandardAccounts("current"), opened("current", "0"))

	payment := instrument.SalaryPayment{
		Employer:        "acme",
		Net:             dec("3000"),
		HealthInsurance: dec("150"),
		WageTax:         dec("850"),
	}
	assertDecimal(t, "4000", payment.Gross())

	a = dispatch(t, a, payment)
	assertDecimal(t, "3000", a.Balance())
	assertDecimal(t, "-4000", a.Books().Balance("income", "salary", "acme"))
	assertDecimal(t, "850", a.Books().Balance("expenses", "taxes", "wage_tax"))
	assertDecimal(t, "150", a.Books().Balance("expenses", "insurance", "health"))
	assertDecimal(t, "0", a.Books().TotalBalance())
}

func TestYearlyJournal(t *testing.T) {
	a := instrument.PersonalCurrent("current", opened("current", "1000"))
	a = run(t, a, start.Add(-2), 3)

	assert.Equal(t, 1, len(a.Books().History()))
	journal := a.Books().Journal()
	assert.Equal(t, ledger.OpeningDescription, journal[0].Description())
	assert.Equal(t, start, journal[0].Date())
	assert.Equal(t, "Account fee", journal[1].Description())
	assert.NoError(t, a.Books().Audit())
}

func TestPersonalSavings(t *testing.T) {
	a := instrument.PersonalSavings("savings", opened("savings", "600000"))

	a = run(t, a, start, 1)
	accruals := a.Accruals()
	assert.Equal(t, 1, len(accruals))
	assert.Equal(t, 3, len(accruals[0].Parts))
	assertDecimal(t, "0", a.InterestAccrued())
	assertDecimal(t, dec("600000").Add(accruals[0].Amount).String(), a.Balance())

	a = run(t, a, start.Next(), 30)
	assert.True(t, a.InterestAccrued().IsPositive())
}
