// Package provider provides composable per-day value streams.
//
// A Provider mirrors a schedule.Schedule but yields zero or more values per
// day instead of a boolean. It shares the same exhaustion contract: a Done
// result means the provider will never yield again and must be dropped.
// A live provider with nothing to say today returns Active with no values,
// which is never confused with exhaustion.
package provider

import (
	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/schedule"
)

// Provider yields values per day until it is exhausted. The set of
// implementations is closed; use Func for custom streams.
type Provider[T any] interface {
	// Get returns the values for d. Days must be requested in increasing
	// order and an exhausted provider must not be asked again.
	Get(d date.Date) Result[T]

	provider()
}

// Result is the outcome of asking a provider for one day.
type Result[T any] struct {
	next   Provider[T]
	values []T
}

// Active returns a result for a provider that is still live.
func Active[T any](next Provider[T], values ...T) Result[T] {
	return Result[T]{next: next, values: values}
}

// Done returns the result of a permanently exhausted provider.
func Done[T any]() Result[T] { return Result[T]{} }

func (r Result[T]) Exhausted() bool { return r.next == nil }

// Next returns the provider to ask on the following day, or nil when exhausted.
func (r Result[T]) Next() Provider[T] { return r.next }

// Values returns today's values. Empty when exhausted.
func (r Result[T]) Values() []T { return r.values }

// Poll asks p for d and returns the provider to keep for the next day. A nil
// provider is treated as exhausted, and an exhausted provider comes back as nil.
func Poll[T any](p Provider[T], d date.Date) (Provider[T], []T) {
	if p == nil {
		return nil, nil
	}
	r := p.Get(d)
	return r.Next(), r.Values()
}

type never[T any] struct{}

// Never is exhausted on its first request.
func Never[T any]() Provider[T] { return never[T]{} }

func (never[T]) Get(date.Date) Result[T] { return Done[T]() }
func (never[T]) provider()               {}

type always[T any] struct {
	value T
}

// Always yields value every day.
func Always[T any](value T) Provider[T] { return always[T]{value: value} }

func (p always[T]) Get(date.Date) Result[T] { return Active[T](p, p.value) }
func (always[T]) provider()                 {}

type scheduled[T any] struct {
	value    T
	schedule schedule.Schedule
}

// Scheduled yields value on every day s matches and is exhausted with s.
func Scheduled[T any](value T, s schedule.Schedule) Provider[T] {
	return scheduled[T]{value: value, schedule: s}
}

func (p scheduled[T]) Get(d date.Date) Result[T] {
	r := p.schedule.Check(d)
	if r.Exhausted() {
		return Done[T]()
	}
	next := scheduled[T]{value: p.value, schedule: r.Next()}
	if r.Matched() {
		return Active[T](next, p.value)
	}
	return Active[T](next)
}
func (scheduled[T]) provider() {}

// Func adapts a function to a Provider. Returning live=false exhausts it.
type Func[T any] func(d date.Date) (values []T, live bool)

func (f Func[T]) Get(d date.Date) Result[T] {
	values, live := f(d)
	if !live {
		return Done[T]()
	}
	return Active[T](f, values...)
}

func (Func[T]) provider() {}
