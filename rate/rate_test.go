package rate_test

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/rate"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// assertClose checks that got is within 1e-18 of want.
func assertClose(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	diff := dec(want).Sub(got).Abs()
	assert.True(t, diff.LessThan(dec("0.000000000000000001")), "want %s, got %s", want, got)
}

func TestContinuous(t *testing.T) {
	r, err := rate.NewContinuous(dec("0.015"))
	assert.NoError(t, err)

	tests := []struct {
		name  string
		on    date.Date
		daily string
	}{
		{"2021", date.MustParse("2021-01-01"), "0.0000407915511136574768467302214320609"},
		{"LeapYear", date.MustParse("2024-01-01"), "0.0000406800965212954282538034158566215"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := r.Calculate(tt.on, dec("10000"), decimal.Zero)
			assertClose(t, tt.daily, c.DailyRate)
			assert.True(t, c.Amount.Equal(c.DailyRate.Mul(dec("10000"))))

			withAccrued := r.Calculate(tt.on, dec("10000"), dec("500"))
			assert.True(t, withAccrued.Amount.Equal(c.DailyRate.Mul(dec("10500"))))
			assert.Equal(t, tt.on, withAccrued.Date)
		})
	}
}

func TestPeriodic(t *testing.T) {
	r, err := rate.NewPeriodic(dec("0.015"), 12)
	assert.NoError(t, err)

	tests := []struct {
		name  string
		on    date.Date
		daily string
	}{
		{"2021", date.MustParse("2021-06-30"), "0.0000408160345134021674317728920344263"},
		{"LeapYear", date.MustParse("2024-06-30"), "0.0000407045152934201942967134032583760"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := r.Calculate(tt.on, dec("10000"), dec("500"))
			assertClose(t, tt.daily, c.DailyRate)
			// accrued interest is not compounded
			assert.True(t, c.Amount.Equal(c.DailyRate.Mul(dec("10000"))))
		})
	}

	_, err = rate.NewPeriodic(dec("0.015"), 0)
	assert.Error(t, err)
}

func TestDailyRateIsMemoized(t *testing.T) {
	a := rate.Continuous{Annual: dec("0.02")}
	b := rate.Continuous{Annual: dec("0.020")}

	assert.True(t, a.DailyRate(2021).Equal(a.DailyRate(2021)))
	assert.False(t, a.DailyRate(2021).Equal(a.DailyRate(2024)))
	assert.True(t, b.DailyRate(2021).Equal(a.DailyRate(2021)))
}

func TestInvalidAnnualRate(t *testing.T) {
	_, err := rate.NewContinuous(dec("-1"))
	assert.Error(t, err)
	_, err = rate.NewPeriodic(dec("-1.5"), 4)
	assert.Error(t, err)
}

func TestBanded(t *testing.T) {
	one := rate.Continuous{Annual: dec("0.01")}
	two := rate.Continuous{Annual: dec("0.02")}
	three := rate.Continuous{Annual: dec("0.03")}

	banded, err := rate.NewBanded(
		rate.Threshold[rate.Rate]{Lower: dec("2000"), Value: three},
		rate.Threshold[rate.Rate]{Lower: dec("0"), Value: one},
		rate.Threshold[rate.Rate]{Lower: dec("1000"), Value: two},
	)
	assert.NoError(t, err)

	on := date.MustParse("2021-01-01")
	c := banded.Calculate(on, dec("10000"), dec("500"))

	assert.Equal(t, 3, len(c.Parts))

	tests := []struct {
		balance string
		accrued string
		rate    rate.Continuous
	}{
		{"1000", "0", one},
		{"1000", "0", two},
		{"8000", "500", three},
	}
	want := decimal.Zero
	for i, tt := range tests {
		part := c.Parts[i]
		assert.True(t, dec(tt.balance).Equal(part.Balance), "band %d balance %s", i, part.Balance)
		assert.True(t, dec(tt.accrued).Equal(part.Accrued), "band %d accrued %s", i, part.Accrued)
		assert.Equal(t, rate.Rate(tt.rate), part.Rate)
		want = want.Add(part.Amount)
	}
	assert.True(t, want.Equal(c.Amount))

	expected := dec("1000").Mul(dec("0.0000272615520089941663393768895430215")).
		Add(dec("1000").Mul(dec("0.0000542552451767719379729880398919100"))).
		Add(dec("8500").Mul(dec("0.0000809862990531184697007636827496643")))
	assert.True(t, expected.Sub(c.Amount).Abs().LessThan(dec("0.00000000000001")), "want %s, got %s", expected, c.Amount)
}

func TestBandedRequiresBands(t *testing.T) {
	_, err := rate.NewBanded()
	assert.True(t, errors.Is(err, rate.ErrNoBands))

	_, err = rate.NewBanded(rate.Threshold[rate.Rate]{Lower: dec("-1"), Value: rate.Continuous{}})
	assert.True(t, errors.Is(err, rate.ErrNegativeBand))
}
