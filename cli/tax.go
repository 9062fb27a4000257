package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/output"
	"github.com/robinvdvleuten/finsim/tax"
)

type TaxCmd struct {
	Taxable  string `help:"Taxable amount, e.g. revenue minus deductible costs." arg:""`
	Year     int    `help:"Year whose tax bands apply." default:"2025"`
	Bands    string `help:"YAML or JSON file with tax bands per year. Defaults to Dutch corporate income tax." type:"existingfile" optional:""`
	Currency string `help:"Currency code to format amounts in." default:"EUR"`
}

func (cmd *TaxCmd) Run(ctx *kong.Context, globals *Globals) error {
	taxable, err := decimal.NewFromString(cmd.Taxable)
	if err != nil {
		return fmt.Errorf("invalid taxable amount %q", cmd.Taxable)
	}

	byYear := tax.Corporate()
	if cmd.Bands != "" {
		if byYear, err = tax.LoadFile(cmd.Bands); err != nil {
			return err
		}
	}

	bands, err := byYear.Get(cmd.Year)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(ctx.Stdout, headingStyle.Render(fmt.Sprintf("Tax due in %d", cmd.Year)))
	_, _ = fmt.Fprintln(ctx.Stdout, output.TaxTable(bands.Calculate(taxable), cmd.Currency))

	return nil
}
