// Package schedule provides composable per-day boolean rules.
//
// A Schedule is checked once per simulated day and answers with a Result:
// either Active, carrying the schedule to use tomorrow and whether today
// matched, or Done, meaning the schedule will never match again. Callers must
// drop an exhausted schedule and never check it again; Poll does this for them.
//
//	s := schedule.Any(schedule.Day(payday), schedule.Monthly(31))
//	for d := start; d.Before(end); d = d.Next() {
//	    var matched bool
//	    s, matched = schedule.Poll(s, d)
//	    ...
//	}
package schedule

import (
	"github.com/robinvdvleuten/finsim/date"
)

// Schedule is a per-day predicate with an explicit exhaustion signal.
// The set of implementations is closed; use Func for custom rules.
type Schedule interface {
	// Check evaluates the schedule on d. Days must be checked in increasing
	// order and an exhausted schedule must not be checked again.
	Check(d date.Date) Result

	schedule()
}

// Result is the outcome of checking a schedule on one day.
type Result struct {
	next    Schedule
	matched bool
}

// Active returns a result for a schedule that is still live.
func Active(next Schedule, matched bool) Result {
	return Result{next: next, matched: matched}
}

// Done returns the result of a permanently exhausted schedule.
func Done() Result { return Result{} }

// Exhausted reports whether the schedule will never match again.
func (r Result) Exhausted() bool { return r.next == nil }

// Next returns the schedule to check on the following day, or nil when exhausted.
func (r Result) Next() Schedule { return r.next }

// Matched reports whether the checked day matched. Always false when exhausted.
func (r Result) Matched() bool { return r.matched }

// Poll checks s on d and returns the schedule to keep for the next day. A nil
// schedule is treated as exhausted, and an exhausted schedule comes back as nil.
func Poll(s Schedule, d date.Date) (Schedule, bool) {
	if s == nil {
		return nil, false
	}
	r := s.Check(d)
	return r.Next(), r.Matched()
}

// Func adapts a function to a Schedule. Returning live=false exhausts it.
type Func func(d date.Date) (matched, live bool)

func (f Func) Check(d date.Date) Result {
	matched, live := f(d)
	if !live {
		return Done()
	}
	return Active(f, matched)
}

func (Func) schedule() {}
