// Package tax computes banded taxes such as corporate income tax. Each band
// of the taxable amount is taxed at its own rate, and the bands may change
// from year to year.
package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/finsim/rate"
)

var (
	// ErrNoYear is returned when no bands are known for a year or any year
	// before it.
	ErrNoYear = errors.New("no tax bands for year")

	// ErrNegativeRate is returned for a band with a rate below zero.
	ErrNegativeRate = errors.New("tax rate must not be negative")
)

// Bands holds the rate of each band of a taxable amount.
type Bands struct {
	bands []rate.BandValue[decimal.Decimal]
}

// NewBands builds bands from the lower bound of each band and its rate.
// Amounts below the lowest threshold are untaxed.
func NewBands(thresholds ...rate.Threshold[decimal.Decimal]) (Bands, error) {
	for _, t := range thresholds {
		if t.Value.IsNegative() {
			return Bands{}, fmt.Errorf("%w: %s above %s", ErrNegativeRate, t.Value, t.Lower)
		}
	}
	if len(thresholds) > 0 && !slices.ContainsFunc(thresholds, func(t rate.Threshold[decimal.Decimal]) bool {
		return t.Lower.IsZero()
	}) {
		thresholds = append([]rate.Threshold[decimal.Decimal]{{Lower: decimal.Zero, Value: decimal.Zero}}, thresholds...)
	}

	bands, err := rate.NewBands(thresholds...)
	if err != nil {
		return Bands{}, err
	}
	return Bands{bands: bands}, nil
}

// Bands returns the bands in ascending order.
func (b Bands) Bands() []rate.BandValue[decimal.Decimal] {
	return slices.Clone(b.bands)
}

// Part is the tax due on the portion of the taxable amount inside one band.
type Part struct {
	Band    rate.Band
	Rate    decimal.Decimal
	Taxable decimal.Decimal
	Due     decimal.Decimal
}

// Calculation is the tax due on a taxable amount, band by band.
type Calculation struct {
	Taxable decimal.Decimal
	Due     decimal.Decimal
	Parts   []Part
}

// Calculate returns the tax due on taxable. Nothing is due on a loss.
func (b Bands) Calculate(taxable decimal.Decimal) Calculation {
	c := Calculation{Taxable: taxable, Due: decimal.Zero}
	for _, band := range b.bands {
		portion := band.Band.Portion(taxable)[0]
		due := portion.Mul(band.Value)
		c.Parts = append(c.Parts, Part{
			Band:    band.Band,
			Rate:    band.Value,
			Taxable: portion,
			Due:     due,
		})
		c.Due = c.Due.Add(due)
	}
	return c
}

// BandsByYear holds the bands set for each year. A year without bands of
// its own uses those of the latest year before it.
type BandsByYear struct {
	years []int
	bands map[int]Bands
}

// NewBandsByYear indexes bands by year.
func NewBandsByYear(bands map[int]Bands) BandsByYear {
	y := BandsByYear{bands: make(map[int]Bands, len(bands))}
	for year, b := range bands {
		y.years = append(y.years, year)
		y.bands[year] = b
	}
	slices.Sort(y.years)
	return y
}

// Years returns every year with bands of its own, in ascending order.
func (y BandsByYear) Years() []int { return slices.Clone(y.years) }

// Get returns the bands that apply in year.
func (y BandsByYear) Get(year int) (Bands, error) {
	i, found := slices.BinarySearch(y.years, year)
	if found {
		return y.bands[year], nil
	}
	if i == 0 {
		return Bands{}, fmt.Errorf("%w %d", ErrNoYear, year)
	}
	return y.bands[y.years[i-1]], nil
}
