// Package scenario loads the seed data of a simulation from YAML and builds
// the initial state tree from it. JSON documents are accepted too, being
// valid YAML.
//
// Loading runs in two phases, like the rest of the codebase: Validate checks
// every rule and reports all problems at once, and Build turns a valid
// configuration into an engine.Container without further checks.
package scenario

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/entity"
)

// Config is a complete simulation scenario.
type Config struct {
	Name  string    `yaml:"name,omitempty"`
	Start date.Date `yaml:"start"`
	Days  int       `yaml:"days"`

	// Currency is an ISO 4217 code used when printing amounts, e.g. EUR.
	// Amounts are printed as plain decimals without it.
	Currency string `yaml:"currency,omitempty"`

	Entities []EntityConfig `yaml:"entities"`
}

// EntityConfig describes one individual or corporation.
type EntityConfig struct {
	Name string      `yaml:"name"`
	Kind entity.Kind `yaml:"kind"`

	// Bank is the account the entity pays from and gets paid into. It
	// defaults to the first account.
	Bank     string          `yaml:"bank,omitempty"`
	Accounts []AccountConfig `yaml:"accounts"`
	Salaries []SalaryConfig  `yaml:"salaries,omitempty"`
	Income   []FlowConfig    `yaml:"income,omitempty"`
	Expenses []FlowConfig    `yaml:"expenses,omitempty"`
}

// BankName returns the configured bank, or the first account's name.
func (e EntityConfig) BankName() string {
	if e.Bank == "" && len(e.Accounts) > 0 {
		return e.Accounts[0].Name
	}
	return e.Bank
}

// Account types.
const (
	PersonalCurrent = "personal_current"
	PersonalSavings = "personal_savings"
	BusinessCurrent = "business_current"
	Custom          = "custom"
)

// AccountConfig describes a bank account. Rate, Interest, Fees and
// FeePayment only apply to custom accounts.
type AccountConfig struct {
	Name          string          `yaml:"name"`
	Type          string          `yaml:"type"`
	Opening       Decimal         `yaml:"opening,omitempty"`
	Rate          *RateConfig     `yaml:"rate,omitempty"`
	Interest      *ScheduleConfig `yaml:"interest,omitempty"`
	Fees          []FeeConfig     `yaml:"fees,omitempty"`
	FeePayment    *ScheduleConfig `yaml:"fee_payment,omitempty"`
	YearlyJournal bool            `yaml:"yearly_journal,omitempty"`
}

// Rate types.
const (
	ContinuousRate = "continuous"
	PeriodicRate   = "periodic"
	BandedRate     = "banded"
)

// RateConfig describes an interest rate. Annual is a fraction, 0.015 for 1.5%.
type RateConfig struct {
	Type    string       `yaml:"type"`
	Annual  Decimal      `yaml:"annual,omitempty"`
	Periods int          `yaml:"periods,omitempty"`
	Bands   []BandConfig `yaml:"bands,omitempty"`
}

// BandConfig is one band of a banded rate, reaching up to the next band.
type BandConfig struct {
	From Decimal    `yaml:"from"`
	Rate RateConfig `yaml:"rate"`
}

// FeeConfig is a bank fee charged whenever Schedule matches.
type FeeConfig struct {
	Description string         `yaml:"description"`
	Amount      Decimal        `yaml:"amount"`
	Schedule    ScheduleConfig `yaml:"schedule"`
}

// SalaryConfig is a monthly salary paid to Employee. Account names the
// employee's bank account and defaults to the employee's bank.
type SalaryConfig struct {
	Employee        string  `yaml:"employee"`
	Account         string  `yaml:"account,omitempty"`
	Day             int     `yaml:"day"`
	Net             Decimal `yaml:"net"`
	HealthInsurance Decimal `yaml:"health_insurance,omitempty"`
	WageTax         Decimal `yaml:"wage_tax,omitempty"`
}

// FlowConfig is a recurring income or expense.
type FlowConfig struct {
	Category string         `yaml:"category"`
	Amount   Decimal        `yaml:"amount"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// ScheduleConfig describes a schedule. Every field that is set narrows it
// further; Any matches when one of its members does.
type ScheduleConfig struct {
	Daily   bool             `yaml:"daily,omitempty"`
	Weekly  string           `yaml:"weekly,omitempty"`
	Monthly int              `yaml:"monthly,omitempty"`
	Yearly  string           `yaml:"yearly,omitempty"`
	Date    *date.Date       `yaml:"date,omitempty"`
	From    *date.Date       `yaml:"from,omitempty"`
	Until   *date.Date       `yaml:"until,omitempty"`
	Any     []ScheduleConfig `yaml:"any,omitempty"`
}

// Decimal is an exact decimal read from a YAML scalar without passing
// through a float.
type Decimal struct {
	decimal.Decimal
}

// D wraps d.
func D(d decimal.Decimal) Decimal { return Decimal{d} }

func (d *Decimal) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", node.Line)
	}
	v, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid number %q", node.Line, node.Value)
	}
	d.Decimal = v
	return nil
}

func (d Decimal) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: d.String()}, nil
}

func (d Decimal) IsZero() bool { return d.Decimal.IsZero() }

// Parse decodes a scenario and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and parses the scenario at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Marshal encodes cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
