// Package ledger provides double-entry bookkeeping for simulated entities.
// A Books value pairs an append-only journal of balanced transactions with
// the account tree derived from it.
//
// Every value in this package is immutable. Entering a transaction returns
// new Books and leaves the receiver untouched, so old snapshots stay valid.
//
// Example usage:
//
//	books := ledger.Empty(date.MustParse("2024-01-01"))
//
//	txn, err := ledger.NewTransaction(date.MustParse("2024-01-02"), "Salary",
//	    ledger.NewChange(decimal.NewFromInt(2500), "assets", "bank"),
//	    ledger.NewChange(decimal.NewFromInt(-2500), "income", "salary"),
//	)
//	if err != nil {
//	    log.Fatal(err) // *ledger.UnbalancedTransactionError
//	}
//	books = books.EnterTransaction(txn)
//
//	fmt.Println(books.TotalBalance("assets")) // 2500
package ledger

import (
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/finsim/date"
)

// RootName is the name of the root account of every ledger.
const RootName = "ledger"

// Books holds a journal and the ledger derived from it. Replaying the
// journal into an empty ledger always reproduces Ledger().
type Books struct {
	journal []Transaction
	ledger  *Account
	closed  [][]Transaction
}

// New returns books with an empty journal and ledger.
func New() Books {
	return Books{ledger: NewAccount(RootName)}
}

// Create returns books whose journal starts with the given opening transaction.
func Create(opening Transaction) Books {
	return New().EnterTransaction(opening)
}

// Empty returns books opened on the given date with no balances.
func Empty(on date.Date) Books {
	return Create(Transaction{date: on, description: OpeningDescription})
}

// EnterTransaction appends txn to the journal and books its changes.
func (b Books) EnterTransaction(txn Transaction) Books {
	return Books{
		journal: append(slices.Clip(b.journal), txn),
		ledger:  b.Ledger().Enter(txn.changes...),
		closed:  b.closed,
	}
}

// Enter builds a transaction from changes and enters it.
func (b Books) Enter(on date.Date, description string, changes ...Change) (Books, error) {
	txn, err := NewTransaction(on, description, changes...)
	if err != nil {
		return b, err
	}
	return b.EnterTransaction(txn), nil
}

// OpenJournal starts a new accounting period. The current journal moves to
// History and the new journal holds a single opening transaction that carries
// every account's balance forward.
func (b Books) OpenJournal(on date.Date) Books {
	opening := Transaction{
		date:        on,
		description: OpeningDescription,
		changes:     b.Ledger().OpeningChanges(),
	}
	return Books{
		journal: []Transaction{opening},
		ledger:  b.Ledger(),
		closed:  append(slices.Clip(b.closed), b.journal),
	}
}

// Journal returns the transactions of the current period in entry order.
func (b Books) Journal() []Transaction { return slices.Clone(b.journal) }

// History returns the journals of closed periods, oldest first.
func (b Books) History() [][]Transaction { return slices.Clone(b.closed) }

// Ledger returns the root of the account tree.
func (b Books) Ledger() *Account {
	if b.ledger == nil {
		return NewAccount(RootName)
	}
	return b.ledger
}

func (b Books) Balance(path ...string) decimal.Decimal {
	return b.Ledger().Balance(path...)
}

func (b Books) TotalBalance(path ...string) decimal.Decimal {
	return b.Ledger().TotalBalance(path...)
}

// Replay enters journal into an empty ledger.
func Replay(journal []Transaction) *Account {
	root := NewAccount(RootName)
	for _, txn := range journal {
		root = root.Enter(txn.changes...)
	}
	return root
}

// Audit replays the journal and returns an *AuditError if it does not
// reproduce the ledger.
func (b Books) Audit() error {
	if err, ok := diff(nil, b.Ledger(), Replay(b.journal)); !ok {
		return err
	}
	return nil
}
