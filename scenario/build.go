package scenario

import (
	"errors"
	"fmt"

	"github.com/robinvdvleuten/finsim/engine"
	"github.com/robinvdvleuten/finsim/entity"
	"github.com/robinvdvleuten/finsim/instrument"
	"github.com/robinvdvleuten/finsim/ledger"
	"github.com/robinvdvleuten/finsim/provider"
	"github.com/robinvdvleuten/finsim/rate"
	"github.com/robinvdvleuten/finsim/schedule"
)

// OpeningAccount is the equity account opening balances are drawn from.
var OpeningAccount = ledger.Path{"equity", "opening"}

// Build returns the schedule described by s. Every field that is set must
// match; a schedule with only Any matches when one of its members does.
func (s ScheduleConfig) Build() (schedule.Schedule, error) {
	var parts []schedule.Schedule

	if s.Daily {
		parts = append(parts, schedule.Daily())
	}
	if s.Weekly != "" {
		wd, err := parseWeekday(s.Weekly)
		if err != nil {
			return nil, err
		}
		parts = append(parts, schedule.Weekly(wd))
	}
	if s.Monthly != 0 {
		parts = append(parts, schedule.Monthly(s.Monthly))
	}
	if s.Yearly != "" {
		month, day, err := parseYearly(s.Yearly)
		if err != nil {
			return nil, err
		}
		parts = append(parts, schedule.Yearly(month, day))
	}
	if s.Date != nil {
		parts = append(parts, schedule.Day(*s.Date))
	}
	switch {
	case s.From != nil && s.Until != nil:
		parts = append(parts, schedule.Range(*s.From, *s.Until))
	case s.From != nil:
		parts = append(parts, schedule.From(*s.From))
	case s.Until != nil:
		parts = append(parts, schedule.Until(*s.Until))
	}
	if len(s.Any) > 0 {
		members := make([]schedule.Schedule, 0, len(s.Any))
		for _, m := range s.Any {
			built, err := m.Build()
			if err != nil {
				return nil, err
			}
			members = append(members, built)
		}
		parts = append(parts, schedule.Any(members...))
	}

	switch len(parts) {
	case 0:
		return nil, errors.New("empty schedule")
	case 1:
		return parts[0], nil
	default:
		return schedule.All(parts...), nil
	}
}

// Build returns the rate described by r.
func (r RateConfig) Build() (rate.Rate, error) {
	switch r.Type {
	case ContinuousRate:
		return rate.NewContinuous(r.Annual.Decimal)
	case PeriodicRate:
		return rate.NewPeriodic(r.Annual.Decimal, r.Periods)
	case BandedRate:
		thresholds := make([]rate.Threshold[rate.Rate], 0, len(r.Bands))
		for _, b := range r.Bands {
			value, err := b.Rate.Build()
			if err != nil {
				return nil, err
			}
			thresholds = append(thresholds, rate.Threshold[rate.Rate]{Lower: b.From.Decimal, Value: value})
		}
		return rate.NewBanded(thresholds...)
	default:
		return nil, fmt.Errorf("unknown rate type %q", r.Type)
	}
}

// Build validates c and returns the initial state tree: one container per
// entity, in configuration order, dated on Start.
func (c *Config) Build() (engine.Container, error) {
	if err := c.Validate(); err != nil {
		return engine.Container{}, err
	}

	entities := make(map[string]EntityConfig, len(c.Entities))
	for _, e := range c.Entities {
		entities[e.Name] = e
	}

	children := make([]engine.Child, 0, len(c.Entities))
	for _, e := range c.Entities {
		container, err := c.buildEntity(e, entities)
		if err != nil {
			return engine.Container{}, fmt.Errorf("entity %s: %w", e.Name, err)
		}
		children = append(children, engine.Child{Name: e.Name, State: container})
	}
	return engine.NewContainer(c.Start, engine.Router{}, children), nil
}

func (c *Config) buildEntity(e EntityConfig, entities map[string]EntityConfig) (engine.Container, error) {
	banks := make([]entity.Bank, 0, len(e.Accounts))
	for _, a := range e.Accounts {
		account, err := c.buildAccount(a)
		if err != nil {
			return engine.Container{}, fmt.Errorf("account %s: %w", a.Name, err)
		}
		banks = append(banks, entity.Bank{Name: a.Name, Account: account})
	}

	var opts []entity.Option
	if len(e.Income) > 0 {
		income, err := buildFlows(e.Income)
		if err != nil {
			return engine.Container{}, fmt.Errorf("income: %w", err)
		}
		opts = append(opts, entity.WithIncome(income))
	}
	if len(e.Expenses) > 0 {
		expenses, err := buildFlows(e.Expenses)
		if err != nil {
			return engine.Container{}, fmt.Errorf("expenses: %w", err)
		}
		opts = append(opts, entity.WithExpenses(expenses))
	}
	if len(e.Salaries) > 0 {
		salaries := make([]entity.Salary, 0, len(e.Salaries))
		for _, s := range e.Salaries {
			account := s.Account
			if account == "" {
				account = entities[s.Employee].BankName()
			}
			salaries = append(salaries, entity.Salary{
				Employee:        s.Employee,
				Payee:           engine.NewPath(engine.Up, s.Employee, account),
				Day:             s.Day,
				Net:             s.Net.Decimal,
				HealthInsurance: s.HealthInsurance.Decimal,
				WageTax:         s.WageTax.Decimal,
			})
		}
		opts = append(opts, entity.WithSalaries(salaries...))
	}

	owner := entity.New(e.Name, e.Kind, e.BankName(), opts...)
	return entity.NewContainer(c.Start, owner, banks...), nil
}

func (c *Config) buildAccount(a AccountConfig) (instrument.BankAccount, error) {
	books, err := c.openBooks(a)
	if err != nil {
		return instrument.BankAccount{}, err
	}

	switch a.Type {
	case PersonalCurrent:
		return instrument.PersonalCurrent(a.Name, books), nil
	case PersonalSavings:
		return instrument.PersonalSavings(a.Name, books), nil
	case BusinessCurrent:
		return instrument.BusinessCurrent(a.Name, books), nil
	}

	var opts []instrument.Option
	if a.Rate != nil {
		r, err := a.Rate.Build()
		if err != nil {
			return instrument.BankAccount{}, err
		}
		payments, err := buildOr(a.Interest, schedule.Monthly(1))
		if err != nil {
			return instrument.BankAccount{}, err
		}
		opts = append(opts, instrument.WithInterest(provider.Always(r), payments))
	}
	if len(a.Fees) > 0 {
		fees := make([]provider.Provider[instrument.BankFee], 0, len(a.Fees))
		for _, f := range a.Fees {
			s, err := f.Schedule.Build()
			if err != nil {
				return instrument.BankAccount{}, err
			}
			fee := instrument.BankFee{Description: f.Description, Amount: f.Amount.Decimal}
			fees = append(fees, provider.Scheduled(fee, s))
		}
		payments, err := buildOr(a.FeePayment, schedule.Monthly(1))
		if err != nil {
			return instrument.BankAccount{}, err
		}
		opts = append(opts, instrument.WithFees(provider.Merge(fees...), payments))
	}
	if a.YearlyJournal {
		opts = append(opts, instrument.WithYearlyJournal())
	}
	return instrument.NewBankAccount(instrument.StandardAccounts(a.Name), books, opts...), nil
}

// openBooks books the opening balance of a against OpeningAccount.
func (c *Config) openBooks(a AccountConfig) (ledger.Books, error) {
	if a.Opening.IsZero() {
		return ledger.Empty(c.Start), nil
	}
	asset := instrument.StandardAccounts(a.Name).Asset
	txn, err := ledger.NewTransaction(c.Start, ledger.OpeningDescription,
		ledger.NewChange(a.Opening.Decimal, asset...),
		ledger.NewChange(a.Opening.Neg(), OpeningAccount...),
	)
	if err != nil {
		return ledger.Books{}, err
	}
	return ledger.Create(txn), nil
}

func buildOr(s *ScheduleConfig, fallback schedule.Schedule) (schedule.Schedule, error) {
	if s == nil {
		return fallback, nil
	}
	return s.Build()
}

func buildFlows(flows []FlowConfig) (provider.Provider[entity.Amount], error) {
	providers := make([]provider.Provider[entity.Amount], 0, len(flows))
	for _, f := range flows {
		s, err := f.Schedule.Build()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Category, err)
		}
		providers = append(providers, provider.Scheduled(entity.Amount{Category: f.Category, Value: f.Amount.Decimal}, s))
	}
	return provider.Merge(providers...), nil
}
