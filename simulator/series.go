package simulator

import (
	"fmt"
	"iter"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/engine"
	"github.com/robinvdvleuten/finsim/ledger"
)

// Booked is implemented by behaviors that keep their own books.
type Booked interface {
	Books() ledger.Books
}

// Point is the balance of an account on one day.
type Point struct {
	Date    date.Date
	Balance decimal.Decimal
}

// Balance returns the total balance of account summed over every booked
// actor at or below node.
func Balance(state engine.State, node engine.Path, account ledger.Path) (decimal.Decimal, error) {
	found, ok := engine.Find(state, node)
	if !ok {
		return decimal.Zero, fmt.Errorf("no node at %q", node.String())
	}
	return total(found, account), nil
}

func total(state engine.State, account ledger.Path) decimal.Decimal {
	switch s := state.(type) {
	case engine.Actor:
		if b, ok := s.Behavior().(Booked); ok {
			return b.Books().TotalBalance(account...)
		}
	case engine.Container:
		sum := decimal.Zero
		for _, child := range s.Children() {
			sum = sum.Add(total(child.State, account))
		}
		return sum
	}
	return decimal.Zero
}

// Ledgers yields the books of every booked actor at or below state together
// with its path, depth first in child order.
func Ledgers(state engine.State) iter.Seq2[engine.Path, ledger.Books] {
	return func(yield func(engine.Path, ledger.Books) bool) {
		walkBooks(nil, state, yield)
	}
}

func walkBooks(path engine.Path, state engine.State, yield func(engine.Path, ledger.Books) bool) bool {
	switch s := state.(type) {
	case engine.Actor:
		if b, ok := s.Behavior().(Booked); ok {
			return yield(path, b.Books())
		}
	case engine.Container:
		for _, child := range s.Children() {
			if !walkBooks(path.Join(engine.NewPath(child.Name)), child.State, yield) {
				return false
			}
		}
	}
	return true
}

// Series returns the balance of account below node for every snapshot.
func Series(snaps []Snapshot, node engine.Path, account ledger.Path) ([]Point, error) {
	points := make([]Point, 0, len(snaps))
	for _, snap := range snaps {
		balance, err := Balance(snap.State, node, account)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", snap.Date, err)
		}
		points = append(points, Point{Date: snap.Date, Balance: balance})
	}
	return points, nil
}
