// Package instrument holds the financial instruments owned by simulated
// entities. Every instrument books to its own ledger.Books.
package instrument

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/engine"
	"github.com/robinvdvleuten/finsim/ledger"
	"github.com/robinvdvleuten/finsim/provider"
	"github.com/robinvdvleuten/finsim/rate"
	"github.com/robinvdvleuten/finsim/schedule"
)

// Accounts names the ledger accounts a bank account books to.
type Accounts struct {
	Asset              ledger.Path
	InterestIncome     ledger.Path
	InterestReceivable ledger.Path
	FeeExpenses        ledger.Path
	FeesPayable        ledger.Path
	SalaryIncome       ledger.Path
	WageTax            ledger.Path
	HealthInsurance    ledger.Path
}

// StandardAccounts returns the account layout used for a bank account called name.
func StandardAccounts(name string) Accounts {
	return Accounts{
		Asset:              ledger.Path{"assets", "bank_accounts", name},
		InterestIncome:     ledger.Path{"income", "bank_accounts", "interest", name},
		InterestReceivable: ledger.Path{"receivable", "bank_accounts", "interest", name},
		FeeExpenses:        ledger.Path{"expenses", "bank_accounts", "fees", name},
		FeesPayable:        ledger.Path{"payable", "bank_accounts", "fees", name},
		SalaryIncome:       ledger.Path{"income", "salary"},
		WageTax:            ledger.Path{"expenses", "taxes", "wage_tax"},
		HealthInsurance:    ledger.Path{"expenses", "insurance", "health"},
	}
}

// BankAccount is an engine.Behavior that accrues interest and fees every
// day and books deposits and withdrawals as they arrive.
//
// A day runs in a fixed order: interest is accrued on the opening balance,
// fees are charged, accrued interest is paid out when the interest payment
// schedule matches and payable fees are taken when the fee payment schedule
// matches. Each step reads the balances the previous one wrote.
type BankAccount struct {
	accounts Accounts
	books    ledger.Books

	rates            provider.Provider[rate.Rate]
	interestSchedule schedule.Schedule
	fees             provider.Provider[BankFee]
	feeSchedule      schedule.Schedule

	yearly   bool
	accruals []rate.Calculation
}

// Option configures a BankAccount.
type Option func(*BankAccount)

// WithInterest accrues interest at the first rate rates provides each day
// and pays it out whenever payments matches.
func WithInterest(rates provider.Provider[rate.Rate], payments schedule.Schedule) Option {
	return func(a *BankAccount) {
		a.rates = rates
		a.interestSchedule = payments
	}
}

// WithFees charges every fee fees provides and takes the total payable
// whenever payments matches.
func WithFees(fees provider.Provider[BankFee], payments schedule.Schedule) Option {
	return func(a *BankAccount) {
		a.fees = fees
		a.feeSchedule = payments
	}
}

// WithYearlyJournal opens a new journal every 1 January.
func WithYearlyJournal() Option {
	return func(a *BankAccount) {
		a.yearly = true
	}
}

// NewBankAccount returns a bank account booking to books. Without options it
// neither accrues interest nor charges fees.
func NewBankAccount(accounts Accounts, books ledger.Books, opts ...Option) BankAccount {
	a := BankAccount{accounts: accounts, books: books}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func (a BankAccount) Accounts() Accounts  { return a.accounts }
func (a BankAccount) Books() ledger.Books { return a.books }

// Balance returns the balance of the asset account.
func (a BankAccount) Balance() decimal.Decimal {
	return a.books.Balance(a.accounts.Asset...)
}

// InterestAccrued returns the interest accrued but not yet paid out.
func (a BankAccount) InterestAccrued() decimal.Decimal {
	return a.books.Balance(a.accounts.InterestReceivable...)
}

// FeesPayable returns the fees charged but not yet taken, as a positive amount.
func (a BankAccount) FeesPayable() decimal.Decimal {
	return a.books.Balance(a.accounts.FeesPayable...).Neg()
}

// Accruals returns every interest calculation in the order they were made.
func (a BankAccount) Accruals() []rate.Calculation { return slices.Clone(a.accruals) }

func (a BankAccount) OnTick(d date.Date) (engine.Behavior, []engine.Event, error) {
	next, err := a.tick(d)
	if err != nil {
		return a, nil, err
	}
	return next, nil, nil
}

func (a BankAccount) tick(d date.Date) (BankAccount, error) {
	if a.yearly && d.Month() == time.January && d.Day() == 1 {
		a.books = a.books.OpenJournal(d)
	}

	steps := []func(BankAccount, date.Date) (BankAccount, error){
		BankAccount.accrueInterest,
		BankAccount.accrueFees,
		BankAccount.applyInterest,
		BankAccount.applyFees,
	}
	for _, step := range steps {
		var err error
		if a, err = step(a, d); err != nil {
			return a, err
		}
	}
	return a, nil
}

func (a BankAccount) accrueInterest(d date.Date) (BankAccount, error) {
	var rates []rate.Rate
	a.rates, rates = provider.Poll(a.rates, d)
	if len(rates) == 0 {
		return a, nil
	}

	calc := rates[0].Calculate(d, a.Balance(), a.InterestAccrued())
	a.accruals = append(slices.Clip(a.accruals), calc)
	if calc.Amount.IsZero() {
		return a, nil
	}
	return a.enter(d, "Interest accrued",
		ledger.NewChange(calc.Amount, a.accounts.InterestReceivable...),
		ledger.NewChange(calc.Amount.Neg(), a.accounts.InterestIncome...),
	)
}

func (a BankAccount) accrueFees(d date.Date) (BankAccount, error) {
	var fees []BankFee
	a.fees, fees = provider.Poll(a.fees, d)
	for _, fee := range fees {
		var err error
		a, err = a.enter(d, fee.Description,
			ledger.NewChange(fee.Amount, a.accounts.FeeExpenses...),
			ledger.NewChange(fee.Amount.Neg(), a.accounts.FeesPayable...),
		)
		if err != nil {
			return a, err
		}
	}
	return a, nil
}

func (a BankAccount) applyInterest(d date.Date) (BankAccount, error) {
	var matched bool
	a.interestSchedule, matched = schedule.Poll(a.interestSchedule, d)
	accrued := a.InterestAccrued()
	if !matched || accrued.IsZero() {
		return a, nil
	}
	return a.enter(d, "Interest applied",
		ledger.NewChange(accrued, a.accounts.Asset...),
		ledger.NewChange(accrued.Neg(), a.accounts.InterestReceivable...),
	)
}

func (a BankAccount) applyFees(d date.Date) (BankAccount, error) {
	var matched bool
	a.feeSchedule, matched = schedule.Poll(a.feeSchedule, d)
	payable := a.FeesPayable()
	if !matched || payable.IsZero() {
		return a, nil
	}
	return a.enter(d, "Fees paid",
		ledger.NewChange(payable, a.accounts.FeesPayable...),
		ledger.NewChange(payable.Neg(), a.accounts.Asset...),
	)
}

// OnAction books Deposit, Withdrawal and SalaryPayment payloads. Other
// payloads are ignored.
func (a BankAccount) OnAction(d date.Date, action engine.Action) (engine.Behavior, []engine.Event, error) {
	var (
		next BankAccount
		err  error
	)
	switch p := action.Payload.(type) {
	case Deposit:
		next, err = a.deposit(d, action.Source, p)
	case Withdrawal:
		next, err = a.withdraw(d, action.Source, p)
	case SalaryPayment:
		next, err = a.salary(d, p)
	default:
		return a, nil, nil
	}
	if err != nil {
		return a, nil, err
	}
	return next, nil, nil
}

func (a BankAccount) deposit(d date.Date, source engine.Path, p Deposit) (BankAccount, error) {
	if !p.Amount.IsPositive() {
		return a, &AmountError{Date: d, Kind: "deposit", Amount: p.Amount}
	}
	return a.enter(d, describe("Deposit", p.Description, source),
		ledger.NewChange(p.Amount, a.accounts.Asset...),
		ledger.NewChange(p.Amount.Neg(), counter(p.Counter)...),
	)
}

func (a BankAccount) withdraw(d date.Date, source engine.Path, p Withdrawal) (BankAccount, error) {
	if !p.Amount.IsPositive() {
		return a, &AmountError{Date: d, Kind: "withdrawal", Amount: p.Amount}
	}
	return a.enter(d, describe("Withdrawal", p.Description, source),
		ledger.NewChange(p.Amount, counter(p.Counter)...),
		ledger.NewChange(p.Amount.Neg(), a.accounts.Asset...),
	)
}

func (a BankAccount) salary(d date.Date, p SalaryPayment) (BankAccount, error) {
	if !p.Net.IsPositive() {
		return a, &AmountError{Date: d, Kind: "salary", Amount: p.Net}
	}
	income := a.accounts.SalaryIncome
	if p.Employer != "" {
		income = append(slices.Clip(income), p.Employer)
	}
	return a.enter(d, "Salary "+p.Employer,
		ledger.NewChange(p.Net, a.accounts.Asset...),
		ledger.NewChange(p.WageTax, a.accounts.WageTax...),
		ledger.NewChange(p.HealthInsurance, a.accounts.HealthInsurance...),
		ledger.NewChange(p.Gross().Neg(), income...),
	)
}

func (a BankAccount) enter(d date.Date, description string, changes ...ledger.Change) (BankAccount, error) {
	books, err := a.books.Enter(d, description, changes...)
	if err != nil {
		return a, err
	}
	a.books = books
	return a, nil
}

func counter(p ledger.Path) ledger.Path {
	if len(p) == 0 {
		return TransfersAccount
	}
	return p
}

func describe(kind, description string, source engine.Path) string {
	switch {
	case description != "":
		return description
	case len(source) > 0:
		return kind + ": " + source.String()
	default:
		return kind
	}
}
