package scenario

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"

	"github.com/robinvdvleuten/finsim/engine"
	"github.com/robinvdvleuten/finsim/entity"
	"github.com/robinvdvleuten/finsim/rate"
)

// FieldError reports a problem with one configuration field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string    { return e.Field + ": " + e.Message }
func (e *FieldError) GetField() string { return e.Field }

// ValidationErrors wraps every problem found in a configuration.
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

type validator struct {
	errs []error
}

func (v *validator) errorf(field, format string, args ...any) {
	v.errs = append(v.errs, &FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the whole configuration and returns a *ValidationErrors
// holding every problem found, or nil.
func (c *Config) Validate() error {
	v := &validator{}

	if c.Start.IsZero() {
		v.errorf("start", "is required")
	}
	if c.Days <= 0 {
		v.errorf("days", "must be positive, got %d", c.Days)
	}
	if c.Currency != "" && money.GetCurrency(strings.ToUpper(c.Currency)) == nil {
		v.errorf("currency", "unknown currency %q", c.Currency)
	}
	if len(c.Entities) == 0 {
		v.errorf("entities", "at least one entity is required")
	}

	entities := make(map[string]EntityConfig, len(c.Entities))
	for i, e := range c.Entities {
		field := fmt.Sprintf("entities[%d]", i)
		v.name(field+".name", e.Name)
		if _, ok := entities[e.Name]; ok {
			v.errorf(field+".name", "duplicate entity %q", e.Name)
		}
		entities[e.Name] = e
	}

	for i, e := range c.Entities {
		v.entity(fmt.Sprintf("entities[%d]", i), e, entities)
	}

	if len(v.errs) > 0 {
		return &ValidationErrors{Errors: v.errs}
	}
	return nil
}

// name checks that s can be used as a path segment.
func (v *validator) name(field, s string) {
	switch {
	case s == "":
		v.errorf(field, "is required")
	case s == engine.Up || s == entity.OwnerName:
		v.errorf(field, "%q is reserved", s)
	case strings.Contains(s, "/"):
		v.errorf(field, "must not contain '/'")
	}
}

func (v *validator) entity(field string, e EntityConfig, entities map[string]EntityConfig) {
	if !e.Kind.Valid() {
		v.errorf(field+".kind", "must be %q or %q, got %q", entity.Individual, entity.Corporation, e.Kind)
	}

	if len(e.Accounts) == 0 {
		v.errorf(field+".accounts", "at least one bank account is required")
	}
	accounts := make(map[string]bool, len(e.Accounts))
	for i, a := range e.Accounts {
		af := fmt.Sprintf("%s.accounts[%d]", field, i)
		v.name(af+".name", a.Name)
		if accounts[a.Name] {
			v.errorf(af+".name", "duplicate account %q", a.Name)
		}
		accounts[a.Name] = true
		v.account(af, a)
	}
	if e.Bank != "" && !accounts[e.Bank] {
		v.errorf(field+".bank", "no account named %q", e.Bank)
	}

	if len(e.Salaries) > 0 && e.Kind != entity.Corporation {
		v.errorf(field+".salaries", "only corporations pay salaries")
	}
	for i, s := range e.Salaries {
		v.salary(fmt.Sprintf("%s.salaries[%d]", field, i), s, entities)
	}

	for i, f := range e.Income {
		v.flow(fmt.Sprintf("%s.income[%d]", field, i), f)
	}
	for i, f := range e.Expenses {
		v.flow(fmt.Sprintf("%s.expenses[%d]", field, i), f)
	}
}

func (v *validator) account(field string, a AccountConfig) {
	if a.Opening.IsNegative() {
		v.errorf(field+".opening", "must not be negative")
	}

	switch a.Type {
	case PersonalCurrent, PersonalSavings, BusinessCurrent:
		if a.Rate != nil || a.Interest != nil || len(a.Fees) > 0 || a.FeePayment != nil {
			v.errorf(field+".type", "%s accounts take no rate, interest or fees", a.Type)
		}
	case Custom:
		if a.Rate != nil {
			v.rate(field+".rate", *a.Rate)
		}
		if a.Interest != nil {
			v.schedule(field+".interest", *a.Interest)
		}
		for i, fee := range a.Fees {
			ff := fmt.Sprintf("%s.fees[%d]", field, i)
			if fee.Description == "" {
				v.errorf(ff+".description", "is required")
			}
			v.positive(ff+".amount", fee.Amount)
			v.schedule(ff+".schedule", fee.Schedule)
		}
		if a.FeePayment != nil {
			v.schedule(field+".fee_payment", *a.FeePayment)
		}
	default:
		v.errorf(field+".type", "unknown account type %q", a.Type)
	}
}

func (v *validator) rate(field string, r RateConfig) {
	switch r.Type {
	case ContinuousRate:
		if err := rate.Validate(r.Annual.Decimal); err != nil {
			v.errorf(field+".annual", "%s", err)
		}
	case PeriodicRate:
		if err := rate.Validate(r.Annual.Decimal); err != nil {
			v.errorf(field+".annual", "%s", err)
		}
		if r.Periods <= 0 {
			v.errorf(field+".periods", "must be positive, got %d", r.Periods)
		}
	case BandedRate:
		if len(r.Bands) == 0 {
			v.errorf(field+".bands", "at least one band is required")
		}
		seen := make(map[string]bool, len(r.Bands))
		for i, b := range r.Bands {
			bf := fmt.Sprintf("%s.bands[%d]", field, i)
			if b.From.IsNegative() {
				v.errorf(bf+".from", "must not be negative")
			}
			if key := b.From.String(); seen[key] {
				v.errorf(bf+".from", "duplicate band at %s", key)
			} else {
				seen[key] = true
			}
			if b.Rate.Type == BandedRate {
				v.errorf(bf+".rate.type", "bands cannot nest")
				continue
			}
			v.rate(bf+".rate", b.Rate)
		}
	default:
		v.errorf(field+".type", "unknown rate type %q", r.Type)
	}
}

func (v *validator) salary(field string, s SalaryConfig, entities map[string]EntityConfig) {
	employee, ok := entities[s.Employee]
	if !ok {
		v.errorf(field+".employee", "no entity named %q", s.Employee)
	} else {
		account := s.Account
		if account == "" {
			account = employee.BankName()
		}
		found := false
		for _, a := range employee.Accounts {
			found = found || a.Name == account
		}
		if !found {
			v.errorf(field+".account", "%s has no account named %q", s.Employee, account)
		}
	}

	if s.Day < 1 || s.Day > 31 {
		v.errorf(field+".day", "must be between 1 and 31, got %d", s.Day)
	}
	v.positive(field+".net", s.Net)
	if s.HealthInsurance.IsNegative() {
		v.errorf(field+".health_insurance", "must not be negative")
	}
	if s.WageTax.IsNegative() {
		v.errorf(field+".wage_tax", "must not be negative")
	}
}

func (v *validator) flow(field string, f FlowConfig) {
	if f.Category == "" {
		v.errorf(field+".category", "is required")
	}
	v.positive(field+".amount", f.Amount)
	v.schedule(field+".schedule", f.Schedule)
}

func (v *validator) positive(field string, d Decimal) {
	if !d.IsPositive() {
		v.errorf(field, "must be positive, got %s", d.String())
	}
}

func (v *validator) schedule(field string, s ScheduleConfig) {
	if s.empty() {
		v.errorf(field, "is empty")
		return
	}
	if s.Weekly != "" {
		if _, err := parseWeekday(s.Weekly); err != nil {
			v.errorf(field+".weekly", "%s", err)
		}
	}
	if s.Monthly < 0 || s.Monthly > 31 {
		v.errorf(field+".monthly", "must be between 1 and 31, got %d", s.Monthly)
	}
	if s.Yearly != "" {
		if _, _, err := parseYearly(s.Yearly); err != nil {
			v.errorf(field+".yearly", "%s", err)
		}
	}
	if s.From != nil && s.Until != nil && s.Until.Before(*s.From) {
		v.errorf(field+".until", "is before from")
	}
	for i, member := range s.Any {
		v.schedule(fmt.Sprintf("%s.any[%d]", field, i), member)
	}
}

func (s ScheduleConfig) empty() bool {
	return !s.Daily && s.Weekly == "" && s.Monthly == 0 && s.Yearly == "" &&
		s.Date == nil && s.From == nil && s.Until == nil && len(s.Any) == 0
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// parseYearly parses a month and day such as "01-15" or "1-15".
func parseYearly(s string) (time.Month, int, error) {
	t, err := time.Parse("1-2", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid day of the year %q, want MM-DD", s)
	}
	return t.Month(), t.Day(), nil
}
