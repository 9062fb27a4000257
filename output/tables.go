package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/finsim/ledger"
	"github.com/robinvdvleuten/finsim/rate"
	"github.com/robinvdvleuten/finsim/tax"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Table renders rows below headers. Columns listed in numeric are right
// aligned.
func Table(headers []string, rows [][]string, numeric ...int) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cellStyle
			if row == table.HeaderRow {
				style = headerStyle
			}
			if slices.Contains(numeric, col) {
				style = style.Align(lipgloss.Right)
			}
			return style
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// LedgerTable renders every account below root with its own and its total
// balance, formatted in currency when it is set.
func LedgerTable(root *ledger.Account, currency string) string {
	var rows [][]string
	root.Walk(func(path ledger.Path, account *ledger.Account) {
		if len(path) == 0 {
			return
		}
		rows = append(rows, []string{
			path.String(),
			Money(account.Balance(), currency),
			Money(account.TotalBalance(), currency),
		})
	})
	rows = append(rows, []string{"total", "", Money(root.TotalBalance(), currency)})
	return Table([]string{"Account", "Balance", "Total"}, rows, 1, 2)
}

// CalculationTable renders one day of interest. Banded calculations get a
// row per band followed by the total.
func CalculationTable(c rate.Calculation) string {
	headers := []string{"Rate", "Balance", "Accrued", "Daily rate", "Interest"}
	row := func(label string, c rate.Calculation) []string {
		return []string{
			label,
			c.Balance.StringFixed(2),
			c.Accrued.StringFixed(2),
			c.DailyRate.StringFixed(10),
			c.Amount.StringFixed(6),
		}
	}

	if len(c.Parts) == 0 {
		return Table(headers, [][]string{row(c.Rate.String(), c)}, 1, 2, 3, 4)
	}

	var labels []string
	if banded, ok := c.Rate.(rate.Banded); ok {
		for _, b := range banded.Bands() {
			labels = append(labels, b.Band.String())
		}
	}

	rows := make([][]string, 0, len(c.Parts)+1)
	for i, part := range c.Parts {
		label := part.Rate.String()
		if i < len(labels) {
			label = labels[i] + ": " + label
		}
		rows = append(rows, row(label, part))
	}
	rows = append(rows, row("total", c))
	return Table(headers, rows, 1, 2, 3, 4)
}

// TaxTable renders the tax due on each band of a taxable amount followed by
// the total.
func TaxTable(c tax.Calculation, currency string) string {
	rows := make([][]string, 0, len(c.Parts)+1)
	for _, part := range c.Parts {
		rows = append(rows, []string{
			part.Band.String(),
			part.Rate.Shift(2).StringFixed(2) + "%",
			Money(part.Taxable, currency),
			Money(part.Due, currency),
		})
	}
	rows = append(rows, []string{"total", "", Money(c.Taxable, currency), Money(c.Due, currency)})
	return Table([]string{"Portion of the taxable amount", "Rate", "Taxable", "Tax due"}, rows, 1, 2, 3)
}
