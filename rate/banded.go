package rate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/date"
)

// Banded applies a separate rate to each band of balance plus accrued.
// Balance fills the bands before accrued does.
type Banded struct {
	bands []BandValue[Rate]
}

// NewBanded builds a banded rate from lower bound thresholds.
func NewBanded(thresholds ...Threshold[Rate]) (Banded, error) {
	bands, err := NewBands(thresholds...)
	if err != nil {
		return Banded{}, err
	}
	return Banded{bands: bands}, nil
}

// Bands returns the bands in ascending order.
func (r Banded) Bands() []BandValue[Rate] {
	return append([]BandValue[Rate](nil), r.bands...)
}

func (r Banded) Calculate(d date.Date, balance, accrued decimal.Decimal) Calculation {
	parts := make([]Calculation, 0, len(r.bands))
	amount := decimal.Zero
	for _, b := range r.bands {
		portion := b.Band.Portion(balance, accrued)
		part := b.Value.Calculate(d, portion[0], portion[1])
		parts = append(parts, part)
		amount = amount.Add(part.Amount)
	}

	daily := decimal.Zero
	if base := balance.Add(accrued); !base.IsZero() {
		daily = amount.DivRound(base, Precision)
	}

	return Calculation{
		Rate:      r,
		Date:      d,
		Balance:   balance,
		Accrued:   accrued,
		DailyRate: daily,
		Amount:    amount,
		Parts:     parts,
	}
}

func (r Banded) String() string {
	parts := make([]string, 0, len(r.bands))
	for _, b := range r.bands {
		parts = append(parts, b.Band.String()+": "+b.Value.String())
	}
	return "banded [" + strings.Join(parts, ", ") + "]"
}
