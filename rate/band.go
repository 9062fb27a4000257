package rate

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

var (
	// ErrNegativeBand is returned for a band whose lower bound is below zero.
	ErrNegativeBand = errors.New("lower bound must be greater than or equal to 0")

	// ErrNoBands is returned when building bands from an empty threshold list.
	ErrNoBands = errors.New("at least one band is required")

	// ErrDuplicateBand is returned when two thresholds share a lower bound.
	ErrDuplicateBand = errors.New("duplicate band lower bound")
)

// Band is a contiguous range of amounts starting at a lower bound. A band
// without a size is open-ended.
type Band struct {
	lower decimal.Decimal
	size  decimal.Decimal
	open  bool
}

// NewBand returns the band [lower, lower+size).
func NewBand(lower, size decimal.Decimal) (Band, error) {
	if lower.IsNegative() {
		return Band{}, fmt.Errorf("%w: %s", ErrNegativeBand, lower)
	}
	return Band{lower: lower, size: size}, nil
}

// NewOpenBand returns the band from lower upwards.
func NewOpenBand(lower decimal.Decimal) (Band, error) {
	if lower.IsNegative() {
		return Band{}, fmt.Errorf("%w: %s", ErrNegativeBand, lower)
	}
	return Band{lower: lower, open: true}, nil
}

func (b Band) Lower() decimal.Decimal { return b.lower }

// Size returns the width of the band and false for an open-ended band.
func (b Band) Size() (decimal.Decimal, bool) { return b.size, !b.open }

func (b Band) String() string {
	upper := b.lower.Add(b.size).StringFixed(2)
	switch {
	case b.lower.IsZero() && b.open:
		return "always"
	case b.lower.IsZero():
		return "up to " + upper
	case b.open:
		return "above " + b.lower.StringFixed(2)
	default:
		return "from " + b.lower.StringFixed(2) + " to " + upper
	}
}

// Portion returns how much of each amount falls inside the band when the
// amounts are stacked in order. Earlier amounts fill the space below the band
// first; whatever lands inside the band is attributed to the amount that put
// it there, up to the band's size.
//
// For the band [1000, 2000):
//
//	Portion(3000)                  == [1000]
//	Portion(500, 1000, 1000, 1000) == [0, 500, 500, 0]
func (b Band) Portion(amounts ...decimal.Decimal) []decimal.Decimal {
	portions := make([]decimal.Decimal, len(amounts))
	for i := range portions {
		portions[i] = decimal.Zero
	}

	total := decimal.Sum(decimal.Zero, amounts...)
	remainder := total.Sub(b.lower)
	if !remainder.IsPositive() {
		return portions
	}

	unallocated := b.lower.Neg()
	toAllocate := remainder
	if !b.open {
		toAllocate = decimal.Min(remainder, b.size)
	}

	for i, amount := range amounts {
		unallocated = unallocated.Add(amount)
		if !unallocated.IsPositive() {
			continue
		}
		portion := decimal.Min(toAllocate, unallocated, amount)
		portions[i] = portion
		toAllocate = toAllocate.Sub(portion)
	}
	return portions
}

// Threshold pairs the lower bound of a band with its value.
type Threshold[T any] struct {
	Lower decimal.Decimal
	Value T
}

// BandValue is a band together with the value that applies inside it.
type BandValue[T any] struct {
	Band  Band
	Value T
}

// NewBands sorts thresholds by lower bound and turns each into a band that
// reaches up to the next threshold. The last band is open-ended.
func NewBands[T any](thresholds ...Threshold[T]) ([]BandValue[T], error) {
	if len(thresholds) == 0 {
		return nil, ErrNoBands
	}

	sorted := slices.Clone(thresholds)
	slices.SortStableFunc(sorted, func(a, b Threshold[T]) int { return a.Lower.Cmp(b.Lower) })

	bands := make([]BandValue[T], 0, len(sorted))
	for i, t := range sorted {
		var (
			band Band
			err  error
		)
		if i == len(sorted)-1 {
			band, err = NewOpenBand(t.Lower)
		} else {
			next := sorted[i+1].Lower
			if next.Equal(t.Lower) {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateBand, t.Lower)
			}
			band, err = NewBand(t.Lower, next.Sub(t.Lower))
		}
		if err != nil {
			return nil, err
		}
		bands = append(bands, BandValue[T]{Band: band, Value: t.Value})
	}
	return bands, nil
}
