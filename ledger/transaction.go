package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/date"
)

// OpeningDescription is the description of the synthetic transaction that
// starts a journal.
const OpeningDescription = "Opening balance"

// Path addresses an account in the tree, one name per level.
type Path []string

// ParsePath splits a colon separated account name like "assets:bank:savings".
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return strings.Split(s, ":")
}

func (p Path) String() string { return strings.Join(p, ":") }

// Change is one leg of a transaction.
type Change struct {
	Amount decimal.Decimal
	Path   Path
}

// NewChange returns a change of amount against the account at path.
func NewChange(amount decimal.Decimal, path ...string) Change {
	return Change{Amount: amount, Path: path}
}

// Transaction is a dated set of changes that sums to exactly zero.
// The zero value is an empty, balanced transaction.
type Transaction struct {
	date        date.Date
	description string
	changes     []Change
}

// NewTransaction builds a transaction and rejects it with an
// *UnbalancedTransactionError when its changes do not sum to zero.
func NewTransaction(on date.Date, description string, changes ...Change) (Transaction, error) {
	txn := Transaction{
		date:        on,
		description: description,
		changes:     append([]Change(nil), changes...),
	}
	if sum := txn.Sum(); !sum.IsZero() {
		return Transaction{}, &UnbalancedTransactionError{
			Date:        on,
			Description: description,
			Sum:         sum,
			Changes:     txn.changes,
		}
	}
	return txn, nil
}

// MustTransaction is like NewTransaction but panics when unbalanced.
func MustTransaction(on date.Date, description string, changes ...Change) Transaction {
	txn, err := NewTransaction(on, description, changes...)
	if err != nil {
		panic(err)
	}
	return txn
}

func (t Transaction) Date() date.Date     { return t.date }
func (t Transaction) Description() string { return t.description }

// Changes returns a copy of the transaction legs.
func (t Transaction) Changes() []Change {
	return append([]Change(nil), t.changes...)
}

// Sum adds up every leg. It is zero for every constructed transaction.
func (t Transaction) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range t.changes {
		sum = sum.Add(c.Amount)
	}
	return sum
}
