package ledger

import (
	"github.com/shopspring/decimal"
)

// Account is a node in the account tree. Accounts are immutable: applying a
// change returns a new root that shares every untouched subtree with the old one.
type Account struct {
	name     string
	balance  decimal.Decimal
	total    decimal.Decimal
	children []*Account
}

// NewAccount returns an empty account.
func NewAccount(name string) *Account {
	return &Account{name: name, balance: decimal.Zero, total: decimal.Zero}
}

func (a *Account) Name() string { return a.name }

// Children returns the direct sub-accounts in the order they were first used.
func (a *Account) Children() []*Account {
	return append([]*Account(nil), a.children...)
}

// Child returns the direct sub-account called name, or nil.
func (a *Account) Child(name string) *Account {
	if i := a.index(name); i >= 0 {
		return a.children[i]
	}
	return nil
}

func (a *Account) index(name string) int {
	for i, child := range a.children {
		if child.name == name {
			return i
		}
	}
	return -1
}

// Find walks path from a and returns the account it names, or nil when any
// segment has never been used.
func (a *Account) Find(path ...string) *Account {
	node := a
	for _, name := range path {
		if node = node.Child(name); node == nil {
			return nil
		}
	}
	return node
}

// Balance returns the amount booked directly on the account at path.
// Unknown paths read as zero.
func (a *Account) Balance(path ...string) decimal.Decimal {
	if node := a.Find(path...); node != nil {
		return node.balance
	}
	return decimal.Zero
}

// TotalBalance returns the amount booked on the account at path and all its
// descendants. Unknown paths read as zero.
func (a *Account) TotalBalance(path ...string) decimal.Decimal {
	if node := a.Find(path...); node != nil {
		return node.total
	}
	return decimal.Zero
}

// Apply books a single change and returns the new tree. Intermediate accounts
// are created on first use.
func (a *Account) Apply(c Change) *Account {
	return a.apply(c.Path, c.Amount)
}

func (a *Account) apply(path []string, amount decimal.Decimal) *Account {
	next := *a
	next.total = a.total.Add(amount)
	if len(path) == 0 {
		next.balance = a.balance.Add(amount)
		return &next
	}

	children := make([]*Account, len(a.children), len(a.children)+1)
	copy(children, a.children)

	i := a.index(path[0])
	if i < 0 {
		children = append(children, NewAccount(path[0]))
		i = len(children) - 1
	}
	children[i] = children[i].apply(path[1:], amount)
	next.children = children
	return &next
}

// Enter books every change in order.
func (a *Account) Enter(changes ...Change) *Account {
	next := a
	for _, c := range changes {
		next = next.Apply(c)
	}
	return next
}

// Walk visits a and its descendants depth first, parents before children.
func (a *Account) Walk(fn func(path Path, account *Account)) {
	a.walk(nil, fn)
}

func (a *Account) walk(path Path, fn func(Path, *Account)) {
	fn(path, a)
	for _, child := range a.children {
		childPath := make(Path, len(path)+1)
		copy(childPath, path)
		childPath[len(path)] = child.name
		child.walk(childPath, fn)
	}
}

// OpeningChanges returns one change per account carrying its own balance.
// Entering them into an empty tree rebuilds a with the same shape and totals.
// The root and parents without a balance of their own are left out, since
// their children recreate them; empty leaves are kept to preserve the shape.
func (a *Account) OpeningChanges() []Change {
	var changes []Change
	a.Walk(func(path Path, account *Account) {
		if account.balance.IsZero() && (len(path) == 0 || len(account.children) > 0) {
			return
		}
		changes = append(changes, Change{Amount: account.balance, Path: path})
	})
	return changes
}

// Equal reports whether both trees have the same shape, names and balances.
func (a *Account) Equal(b *Account) bool {
	_, ok := diff(nil, a, b)
	return ok
}

// diff returns the path of the first account that differs between a and b.
func diff(path Path, a, b *Account) (*AuditError, bool) {
	if a.name != b.name || !a.balance.Equal(b.balance) || !a.total.Equal(b.total) {
		return &AuditError{Path: path, Want: a.total, Got: b.total}, false
	}
	if len(a.children) != len(b.children) {
		return &AuditError{Path: path, Want: a.total, Got: b.total}, false
	}
	for i := range a.children {
		childPath := append(append(Path(nil), path...), a.children[i].name)
		if err, ok := diff(childPath, a.children[i], b.children[i]); !ok {
			return err, false
		}
	}
	return nil, true
}
