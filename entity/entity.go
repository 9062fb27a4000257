// Package entity models the individuals and corporations of a simulation.
//
// An entity is an engine.Container holding its bank accounts and an owner
// actor. The owner turns income, expense and payroll providers into
// deposits, withdrawals and salary payments addressed to bank accounts by
// relative path. The container's engine.Router delivers the ones addressed
// to its own accounts and lets the rest bubble up to the world container,
// which delivers salaries to the bank accounts of employees.
package entity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/engine"
	"github.com/robinvdvleuten/finsim/instrument"
	"github.com/robinvdvleuten/finsim/ledger"
	"github.com/robinvdvleuten/finsim/provider"
	"github.com/robinvdvleuten/finsim/schedule"
)

// OwnerName is the name of the owner actor inside an entity container.
const OwnerName = "owner"

// Kind tells individuals and corporations apart.
type Kind string

const (
	Individual  Kind = "individual"
	Corporation Kind = "corporation"
)

func (k Kind) Valid() bool { return k == Individual || k == Corporation }

// Amount is a categorised sum of money. The category names the income or
// expense account it is booked against.
type Amount struct {
	Category string
	Value    decimal.Decimal
}

// Salary is paid monthly on Day by a corporation. Payee is the employee's
// bank account relative to the employer's container, e.g. "../alice/current".
type Salary struct {
	Employee        string
	Payee           engine.Path
	Day             int
	Net             decimal.Decimal
	HealthInsurance decimal.Decimal
	WageTax         decimal.Decimal
}

// Gross is the net salary plus health insurance and wage tax.
func (s Salary) Gross() decimal.Decimal {
	return s.Net.Add(s.HealthInsurance).Add(s.WageTax)
}

// Schedule returns the monthly payment schedule of s.
func (s Salary) Schedule() schedule.Schedule { return schedule.Monthly(s.Day) }

// Entity is the owner behavior of an entity container.
type Entity struct {
	name     string
	kind     Kind
	bank     string
	income   provider.Provider[Amount]
	expenses provider.Provider[Amount]
	payroll  provider.Provider[Salary]
}

// Option configures an Entity.
type Option func(*Entity)

// WithIncome deposits every amount income provides into the entity's bank.
func WithIncome(income provider.Provider[Amount]) Option {
	return func(e *Entity) {
		e.income = income
	}
}

// WithExpenses withdraws every amount expenses provides from the entity's bank.
func WithExpenses(expenses provider.Provider[Amount]) Option {
	return func(e *Entity) {
		e.expenses = expenses
	}
}

// WithSalaries pays every salary on its monthly payment day.
func WithSalaries(salaries ...Salary) Option {
	return func(e *Entity) {
		payroll := make([]provider.Provider[Salary], 0, len(salaries))
		for _, s := range salaries {
			payroll = append(payroll, provider.Scheduled(s, s.Schedule()))
		}
		e.payroll = provider.Merge(payroll...)
	}
}

// New returns an entity that pays and gets paid through its bank account
// called bank.
func New(name string, kind Kind, bank string, opts ...Option) Entity {
	e := Entity{name: name, kind: kind, bank: bank}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e Entity) Name() string { return e.name }
func (e Entity) Kind() Kind   { return e.kind }
func (e Entity) Bank() string { return e.bank }

func (e Entity) String() string { return fmt.Sprintf("%s (%s)", e.name, e.kind) }

func (e Entity) OnTick(d date.Date) (engine.Behavior, []engine.Event, error) {
	var (
		income   []Amount
		expenses []Amount
		salaries []Salary
	)
	e.income, income = provider.Poll(e.income, d)
	e.expenses, expenses = provider.Poll(e.expenses, d)
	e.payroll, salaries = provider.Poll(e.payroll, d)

	own := engine.NewPath(engine.Up, e.bank)

	var events []engine.Event
	for _, a := range income {
		events = append(events, engine.Event{Payload: instrument.Deposit{
			To:          own,
			Amount:      a.Value,
			Description: a.Category,
			Counter:     ledger.Path{"income", a.Category},
		}})
	}
	for _, a := range expenses {
		events = append(events, engine.Event{Payload: instrument.Withdrawal{
			To:          own,
			Amount:      a.Value,
			Description: a.Category,
			Counter:     ledger.Path{"expenses", a.Category},
		}})
	}
	for _, s := range salaries {
		events = append(events,
			engine.Event{Payload: instrument.Withdrawal{
				To:          own,
				Amount:      s.Gross(),
				Description: "Salary " + s.Employee,
				Counter:     ledger.Path{"expenses", "salaries", s.Employee},
			}},
			engine.Event{Payload: instrument.SalaryPayment{
				To:              s.Payee.Prepend(engine.Up),
				Employer:        e.name,
				Net:             s.Net,
				HealthInsurance: s.HealthInsurance,
				WageTax:         s.WageTax,
			}},
		)
	}
	return e, events, nil
}

// OnAction ignores every action; money only moves through bank accounts.
func (e Entity) OnAction(d date.Date, a engine.Action) (engine.Behavior, []engine.Event, error) {
	return e, nil, nil
}

// Bank is a named bank account of an entity.
type Bank struct {
	Name    string
	Account instrument.BankAccount
}

// NewContainer returns the state tree of e: one actor per bank account in
// order, followed by the owner actor.
func NewContainer(start date.Date, e Entity, banks ...Bank) engine.Container {
	children := make([]engine.Child, 0, len(banks)+1)
	for _, b := range banks {
		children = append(children, engine.Child{Name: b.Name, State: engine.NewActor(start, b.Account)})
	}
	children = append(children, engine.Child{Name: OwnerName, State: engine.NewActor(start, e)})
	return engine.NewContainer(start, engine.Router{}, children)
}
