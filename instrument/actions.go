package instrument

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/engine"
	"github.com/robinvdvleuten/finsim/ledger"
)

// TransfersAccount is the counter account used by deposits and withdrawals
// that do not name one.
var TransfersAccount = ledger.Path{"equity", "transfers"}

// Deposit adds Amount to the asset account of the receiving bank account.
// To addresses the bank account relative to the sender when the deposit is
// emitted as an event; it is ignored once the deposit is an action.
type Deposit struct {
	To          engine.Path
	Amount      decimal.Decimal
	Description string
	Counter     ledger.Path
}

func (d Deposit) Recipient() engine.Path { return d.To }

// Withdrawal takes Amount from the asset account of the receiving bank
// account. Overdrafts are allowed.
type Withdrawal struct {
	To          engine.Path
	Amount      decimal.Decimal
	Description string
	Counter     ledger.Path
}

func (w Withdrawal) Recipient() engine.Path { return w.To }

// SalaryPayment pays Net into the receiving bank account and books the gross
// salary with the taxes withheld from it.
type SalaryPayment struct {
	To              engine.Path
	Employer        string
	Net             decimal.Decimal
	HealthInsurance decimal.Decimal
	WageTax         decimal.Decimal
}

func (s SalaryPayment) Recipient() engine.Path { return s.To }

// Gross is the sum of the net salary and everything withheld from it.
func (s SalaryPayment) Gross() decimal.Decimal {
	return s.Net.Add(s.HealthInsurance).Add(s.WageTax)
}

// BankFee is a fee charged by the bank. It is booked as payable when charged
// and taken from the asset account when the fee payment schedule matches.
type BankFee struct {
	Description string
	Amount      decimal.Decimal
}
