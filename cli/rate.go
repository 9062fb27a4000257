package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/output"
	"github.com/robinvdvleuten/finsim/scenario"
)

type RateCmd struct {
	Rate    string `help:"Rate in scenario syntax, e.g. '{type: continuous, annual: 0.015}'." arg:""`
	Balance string `help:"Balance the rate applies to." default:"1000"`
	Accrued string `help:"Interest accrued but not yet paid." default:"0"`
	On      string `help:"Day to calculate for." default:"2024-01-01" placeholder:"YYYY-MM-DD"`
}

func (cmd *RateCmd) Run(ctx *kong.Context, globals *Globals) error {
	var cfg scenario.RateConfig
	if err := yaml.Unmarshal([]byte(cmd.Rate), &cfg); err != nil {
		return fmt.Errorf("invalid rate: %w", err)
	}

	r, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("invalid rate: %w", err)
	}

	balance, err := decimal.NewFromString(cmd.Balance)
	if err != nil {
		return fmt.Errorf("invalid balance %q", cmd.Balance)
	}
	accrued, err := decimal.NewFromString(cmd.Accrued)
	if err != nil {
		return fmt.Errorf("invalid accrued interest %q", cmd.Accrued)
	}
	on, err := date.Parse(cmd.On)
	if err != nil {
		return err
	}

	calc := r.Calculate(on, balance, accrued)

	_, _ = fmt.Fprintln(ctx.Stdout, headingStyle.Render(r.String()))
	_, _ = fmt.Fprintln(ctx.Stdout, output.CalculationTable(calc))

	return nil
}
