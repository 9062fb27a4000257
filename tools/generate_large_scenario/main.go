// Large Scenario Generator
//
// This tool generates a large scenario for performance testing and profiling.
// It creates households with varied accounts, expenses and income, and
// corporations that employ them, to stress-test routing and booking.
//
// Usage:
//
//	go run main.go > large.yaml
//	go run main.go 5000 > large.yaml  # Specify the number of individuals
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/entity"
	"github.com/robinvdvleuten/finsim/scenario"
)

const (
	defaultIndividuals = 1000
	employeesPerCorp   = 25
)

var (
	expenses = []string{
		"rent", "groceries", "utilities", "transport", "insurance",
		"subscriptions", "restaurants", "clothing", "healthcare",
	}

	weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
)

func main() {
	individuals := defaultIndividuals
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil && n > 0 {
			individuals = n
		}
	}

	cfg := &scenario.Config{
		Name:  fmt.Sprintf("Generated scenario with %d individuals", individuals),
		Start: date.New(2020, 1, 1),
		Days:  365,
	}

	for i := 0; i < individuals; i++ {
		cfg.Entities = append(cfg.Entities, generateIndividual(i))
	}
	for c := 0; c*employeesPerCorp < individuals; c++ {
		cfg.Entities = append(cfg.Entities, generateCorporation(c, individuals))
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Generated an invalid scenario: %v\n", err)
		os.Exit(1)
	}

	out, err := cfg.Marshal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	_, _ = os.Stdout.Write(out)

	fmt.Fprintf(os.Stderr, "Generated %d entities (%d bytes)\n", len(cfg.Entities), len(out))
}

func generateIndividual(i int) scenario.EntityConfig {
	e := scenario.EntityConfig{
		Name: fmt.Sprintf("person%05d", i),
		Kind: entity.Individual,
		Bank: "current",
		Accounts: []scenario.AccountConfig{
			{Name: "current", Type: scenario.PersonalCurrent, Opening: randomAmount(500, 5000)},
		},
	}

	if rand.Intn(2) == 0 {
		e.Accounts = append(e.Accounts, scenario.AccountConfig{
			Name:    "savings",
			Type:    scenario.PersonalSavings,
			Opening: randomAmount(1000, 50000),
		})
	}

	for _, category := range pick(expenses, 2+rand.Intn(4)) {
		e.Expenses = append(e.Expenses, scenario.FlowConfig{
			Category: category,
			Amount:   randomAmount(10, 900),
			Schedule: randomSchedule(),
		})
	}

	return e
}

func generateCorporation(c, individuals int) scenario.EntityConfig {
	e := scenario.EntityConfig{
		Name: fmt.Sprintf("corp%04d", c),
		Kind: entity.Corporation,
		Accounts: []scenario.AccountConfig{
			{Name: "business", Type: scenario.BusinessCurrent, Opening: randomAmount(100000, 1000000)},
		},
		Income: []scenario.FlowConfig{{
			Category: "sales",
			Amount:   randomAmount(20000, 200000),
			Schedule: scenario.ScheduleConfig{Monthly: 1 + rand.Intn(28)},
		}},
	}

	for i := c * employeesPerCorp; i < min((c+1)*employeesPerCorp, individuals); i++ {
		net := randomAmount(1800, 6000)
		e.Salaries = append(e.Salaries, scenario.SalaryConfig{
			Employee:        fmt.Sprintf("person%05d", i),
			Day:             20 + rand.Intn(9),
			Net:             net,
			HealthInsurance: scenario.D(net.Mul(decimal.RequireFromString("0.07")).Round(2)),
			WageTax:         scenario.D(net.Mul(decimal.RequireFromString("0.3")).Round(2)),
		})
	}

	return e
}

func randomSchedule() scenario.ScheduleConfig {
	switch rand.Intn(3) {
	case 0:
		return scenario.ScheduleConfig{Weekly: weekdays[rand.Intn(len(weekdays))]}
	case 1:
		return scenario.ScheduleConfig{Monthly: 1 + rand.Intn(28)}
	default:
		return scenario.ScheduleConfig{Yearly: fmt.Sprintf("%02d-%02d", 1+rand.Intn(12), 1+rand.Intn(28))}
	}
}

func randomAmount(lo, hi int) scenario.Decimal {
	cents := int64(lo*100 + rand.Intn((hi-lo)*100))
	return scenario.D(decimal.New(cents, -2))
}

func pick(from []string, n int) []string {
	shuffled := append([]string(nil), from...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:min(n, len(shuffled))]
}
