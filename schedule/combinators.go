package schedule

import (
	"github.com/robinvdvleuten/finsim/date"
)

type anyOf struct {
	schedules []Schedule
}

// Any matches when at least one live child matches. Exhausted children are
// dropped; Any is exhausted once none remain, so Any() with no children is
// exhausted on its first check.
func Any(schedules ...Schedule) Schedule {
	return anyOf{schedules: append([]Schedule(nil), schedules...)}
}

func (s anyOf) Check(d date.Date) Result {
	live := make([]Schedule, 0, len(s.schedules))
	matched := false
	for _, child := range s.schedules {
		r := child.Check(d)
		if r.Exhausted() {
			continue
		}
		live = append(live, r.Next())
		matched = matched || r.Matched()
	}
	if len(live) == 0 {
		return Done()
	}
	return Active(anyOf{schedules: live}, matched)
}
func (anyOf) schedule() {}

type allOf struct {
	schedules []Schedule
}

// All matches when every child matches. It is exhausted as soon as any child
// is, and All() with no children is exhausted on its first check.
func All(schedules ...Schedule) Schedule {
	return allOf{schedules: append([]Schedule(nil), schedules...)}
}

func (s allOf) Check(d date.Date) Result {
	if len(s.schedules) == 0 {
		return Done()
	}
	next := make([]Schedule, 0, len(s.schedules))
	matched := true
	for _, child := range s.schedules {
		r := child.Check(d)
		if r.Exhausted() {
			return Done()
		}
		next = append(next, r.Next())
		matched = matched && r.Matched()
	}
	return Active(allOf{schedules: next}, matched)
}
func (allOf) schedule() {}
