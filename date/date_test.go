package date_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/finsim/date"
)

func TestDaysInYear(t *testing.T) {
	tests := []struct {
		year int
		want int
	}{
		{2021, 365},
		{2024, 366},
		{1900, 365},
		{2000, 366},
		{2100, 365},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, date.DaysInYear(tt.year))
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 28, date.DaysInMonth(2023, time.February))
	assert.Equal(t, 29, date.DaysInMonth(2024, time.February))
	assert.Equal(t, 30, date.DaysInMonth(2024, time.April))
	assert.Equal(t, 31, date.DaysInMonth(2024, time.December))
	assert.Equal(t, 29, date.MustParse("2024-02-10").DaysInMonth())
	assert.Equal(t, 366, date.MustParse("2024-02-10").DaysInYear())
}

func TestNewNormalizes(t *testing.T) {
	assert.Equal(t, date.New(2024, time.February, 1), date.New(2024, time.January, 32))
	assert.Equal(t, date.New(2025, time.January, 1), date.New(2024, time.December, 31).Next())
	assert.Equal(t, date.New(2024, time.February, 29), date.New(2024, time.March, 1).Add(-1))
}

func TestCompare(t *testing.T) {
	a := date.MustParse("2024-01-31")
	b := date.MustParse("2024-02-01")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, 1, b.Sub(a))
	assert.Equal(t, 366, date.MustParse("2025-01-01").Sub(date.MustParse("2024-01-01")))
}

func TestParse(t *testing.T) {
	d, err := date.Parse("2024-7-1")
	assert.NoError(t, err)
	assert.Equal(t, "2024-07-01", d.String())

	_, err = date.Parse("01/07/2024")
	assert.Error(t, err)
}

func TestCodecs(t *testing.T) {
	type doc struct {
		Start date.Date `json:"start" yaml:"start"`
	}

	in := doc{Start: date.MustParse("2024-02-29")}

	data, err := json.Marshal(in)
	assert.NoError(t, err)
	assert.Equal(t, `{"start":"2024-02-29"}`, string(data))

	var fromJSON doc
	assert.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, in, fromJSON)

	var fromYAML doc
	assert.NoError(t, yaml.Unmarshal([]byte("start: 2024-02-29\n"), &fromYAML))
	assert.Equal(t, in, fromYAML)

	out, err := yaml.Marshal(in)
	assert.NoError(t, err)

	var roundTrip doc
	assert.NoError(t, yaml.Unmarshal(out, &roundTrip))
	assert.Equal(t, in, roundTrip)
}
