package schedule

import (
	"time"

	"github.com/robinvdvleuten/finsim/date"
)

type never struct{}

// Never is exhausted on its first check.
func Never() Schedule { return never{} }

func (never) Check(date.Date) Result { return Done() }
func (never) schedule()              {}

type daily struct{}

// Daily matches every day.
func Daily() Schedule { return daily{} }

func (s daily) Check(date.Date) Result { return Active(s, true) }
func (daily) schedule()                {}

type weekly struct {
	weekday time.Weekday
}

// Weekly matches every given weekday.
func Weekly(weekday time.Weekday) Schedule { return weekly{weekday: weekday} }

func (s weekly) Check(d date.Date) Result { return Active(s, d.Weekday() == s.weekday) }
func (weekly) schedule()                  {}

type monthly struct {
	day int
}

// Monthly matches the given day of every month. A day beyond the end of a
// month matches that month's last day, so Monthly(31) fires on 30 April.
func Monthly(day int) Schedule { return monthly{day: day} }

func (s monthly) Check(d date.Date) Result {
	return Active(s, d.Day() == clampDay(s.day, d))
}
func (monthly) schedule() {}

type yearly struct {
	month time.Month
	day   int
}

// Yearly matches the given day of the given month every year, clamped like Monthly.
func Yearly(month time.Month, day int) Schedule { return yearly{month: month, day: day} }

func (s yearly) Check(d date.Date) Result {
	return Active(s, d.Month() == s.month && d.Day() == clampDay(s.day, d))
}
func (yearly) schedule() {}

func clampDay(day int, d date.Date) int {
	return min(day, d.DaysInMonth())
}

type day struct {
	on date.Date
}

// Day matches only on. It is exhausted from the day after.
func Day(on date.Date) Schedule { return day{on: on} }

func (s day) Check(d date.Date) Result {
	if d.After(s.on) {
		return Done()
	}
	return Active(s, d == s.on)
}
func (day) schedule() {}

type from struct {
	start date.Date
}

// From matches start and every day after it.
func From(start date.Date) Schedule { return from{start: start} }

func (s from) Check(d date.Date) Result { return Active(s, !d.Before(s.start)) }
func (from) schedule()                  {}

type until struct {
	end date.Date
}

// Until matches every day strictly before end and is exhausted from end.
func Until(end date.Date) Schedule { return until{end: end} }

func (s until) Check(d date.Date) Result {
	if !d.Before(s.end) {
		return Done()
	}
	return Active(s, true)
}
func (until) schedule() {}

type between struct {
	start date.Date
	end   date.Date
}

// Range matches [start, end) and is exhausted from end.
func Range(start, end date.Date) Schedule { return between{start: start, end: end} }

func (s between) Check(d date.Date) Result {
	if !d.Before(s.end) {
		return Done()
	}
	return Active(s, !d.Before(s.start))
}
func (between) schedule() {}
