// Package report summarises a simulation as a markdown document, one
// section per entity, and renders it for the terminal or as HTML.
package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/engine"
	"github.com/robinvdvleuten/finsim/ledger"
	"github.com/robinvdvleuten/finsim/simulator"
)

// Report compares the books of every entity between two snapshots.
type Report struct {
	Title    string
	Currency string
	From     date.Date
	To       date.Date
	Entities []Entity
}

// Days is the number of simulated days between From and To.
func (r Report) Days() int { return r.To.Sub(r.From) }

// Entity holds the bank accounts of one top level node.
type Entity struct {
	Name     string
	Accounts []Account

	// Flows holds the income and expense categories that moved during the
	// period, summed over every account of the entity.
	Flows        []Flow
	Transactions int
}

// NetWorth is the closing balance of every account.
func (e Entity) NetWorth() decimal.Decimal {
	sum := decimal.Zero
	for _, a := range e.Accounts {
		sum = sum.Add(a.Closing)
	}
	return sum
}

// Account is the asset balance of one bank account at both ends of the
// period.
type Account struct {
	Name    string
	Opening decimal.Decimal
	Closing decimal.Decimal
}

func (a Account) Change() decimal.Decimal { return a.Closing.Sub(a.Opening) }

// Flow is the change of an income or expense account, e.g. expenses:rent.
type Flow struct {
	Account string
	Amount  decimal.Decimal
}

var assets = ledger.Path{"assets"}

// New builds a report of everything that happened after from up to and
// including to.
func New(title, currency string, from, to simulator.Snapshot) Report {
	r := Report{
		Title:    title,
		Currency: currency,
		From:     from.Date,
		To:       to.Date,
	}
	for _, child := range to.Entities() {
		r.Entities = append(r.Entities, newEntity(child, from, to))
	}
	return r
}

func newEntity(child engine.Child, from, to simulator.Snapshot) Entity {
	e := Entity{Name: child.Name}
	flows := map[string]decimal.Decimal{}

	for path, books := range simulator.Ledgers(child.State) {
		node := engine.NewPath(child.Name).Join(path)
		before := openingBooks(from.State, node)

		e.Accounts = append(e.Accounts, Account{
			Name:    path.String(),
			Opening: before.TotalBalance(assets...),
			Closing: books.TotalBalance(assets...),
		})

		for _, top := range []string{"income", "expenses"} {
			account := books.Ledger().Find(top)
			if account == nil {
				continue
			}
			account.Walk(func(sub ledger.Path, a *ledger.Account) {
				if len(sub) == 0 {
					return
				}
				full := append(ledger.Path{top}, sub...)
				change := a.Balance().Sub(before.Balance(full...))
				if !change.IsZero() {
					key := full.String()
					flows[key] = flows[key].Add(change)
				}
			})
		}

		e.Transactions += countTransactions(books, from.Date, to.Date)
	}

	for account, amount := range flows {
		e.Flows = append(e.Flows, Flow{Account: account, Amount: amount})
	}
	slices.SortFunc(e.Flows, func(a, b Flow) int { return strings.Compare(a.Account, b.Account) })
	return e
}

// openingBooks returns the books at node in state, or empty books when
// the node did not exist yet.
func openingBooks(state engine.State, node engine.Path) ledger.Books {
	found, ok := engine.Find(state, node)
	if !ok {
		return ledger.New()
	}
	if a, ok := found.(engine.Actor); ok {
		if b, ok := a.Behavior().(simulator.Booked); ok {
			return b.Books()
		}
	}
	return ledger.New()
}

func countTransactions(books ledger.Books, from, to date.Date) int {
	n := 0
	for _, journal := range append(books.History(), books.Journal()) {
		for _, txn := range journal {
			if txn.Description() == ledger.OpeningDescription {
				continue
			}
			if txn.Date().After(from) && !txn.Date().After(to) {
				n++
			}
		}
	}
	return n
}
