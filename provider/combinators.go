package provider

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/schedule"
)

type next[T any] struct {
	providers []Provider[T]
}

// Next yields the first non-empty value list among its live children, in
// order. Every live child is advanced each day; exhausted children are
// dropped and Next is exhausted once none remain.
func Next[T any](providers ...Provider[T]) Provider[T] {
	return next[T]{providers: slices.Clone(providers)}
}

func (p next[T]) Get(d date.Date) Result[T] {
	live, days := poll(p.providers, d)
	if len(live) == 0 {
		return Done[T]()
	}
	var values []T
	for _, v := range days {
		if len(v) > 0 {
			values = v
			break
		}
	}
	return Active[T](next[T]{providers: live}, values...)
}
func (next[T]) provider() {}

type merge[T any] struct {
	providers []Provider[T]
}

// Merge yields the values of all live children concatenated in order. It is
// exhausted once every child is.
func Merge[T any](providers ...Provider[T]) Provider[T] {
	return merge[T]{providers: slices.Clone(providers)}
}

func (p merge[T]) Get(d date.Date) Result[T] {
	live, days := poll(p.providers, d)
	if len(live) == 0 {
		return Done[T]()
	}
	return Active[T](merge[T]{providers: live}, concat(days)...)
}
func (merge[T]) provider() {}

// poll asks every provider for d and keeps the live ones with their values.
func poll[T any](providers []Provider[T], d date.Date) ([]Provider[T], [][]T) {
	live := make([]Provider[T], 0, len(providers))
	values := make([][]T, 0, len(providers))
	for _, p := range providers {
		r := p.Get(d)
		if r.Exhausted() {
			continue
		}
		live = append(live, r.Next())
		values = append(values, r.Values())
	}
	return live, values
}

func concat[T any](lists [][]T) []T {
	var out []T
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

type mapped[U, T any] struct {
	upstream  Provider[U]
	transform func(U) T
}

// Map transforms each value of upstream and is exhausted with it.
func Map[U, T any](upstream Provider[U], transform func(U) T) Provider[T] {
	return mapped[U, T]{upstream: upstream, transform: transform}
}

func (p mapped[U, T]) Get(d date.Date) Result[T] {
	r := p.upstream.Get(d)
	if r.Exhausted() {
		return Done[T]()
	}
	values := make([]T, 0, len(r.Values()))
	for _, v := range r.Values() {
		values = append(values, p.transform(v))
	}
	return Active[T](mapped[U, T]{upstream: r.Next(), transform: p.transform}, values...)
}
func (mapped[U, T]) provider() {}

type flatMapped[U, T any] struct {
	upstream  Provider[U]
	transform func(U) []T
}

// FlatMap transforms each value of upstream into a list and flattens the
// lists. It is exhausted with upstream.
func FlatMap[U, T any](upstream Provider[U], transform func(U) []T) Provider[T] {
	return flatMapped[U, T]{upstream: upstream, transform: transform}
}

func (p flatMapped[U, T]) Get(d date.Date) Result[T] {
	r := p.upstream.Get(d)
	if r.Exhausted() {
		return Done[T]()
	}
	var values []T
	for _, v := range r.Values() {
		values = append(values, p.transform(v)...)
	}
	return Active[T](flatMapped[U, T]{upstream: r.Next(), transform: p.transform}, values...)
}
func (flatMapped[U, T]) provider() {}

type mergeMapped[U, T any] struct {
	upstream  Provider[U]
	transform func(date.Date, U) Provider[T]
	pool      []Provider[T]
}

// MergeMap turns every value of upstream into a new provider via transform
// and merges all of them. New providers join the pool the day they are made
// and are asked for that same day. The pool grows only while upstream is
// live and shrinks as its members exhaust; MergeMap is exhausted when
// upstream is gone and the pool is empty.
func MergeMap[U, T any](upstream Provider[U], transform func(date.Date, U) Provider[T]) Provider[T] {
	return mergeMapped[U, T]{upstream: upstream, transform: transform}
}

func (p mergeMapped[U, T]) Get(d date.Date) Result[T] {
	pool := slices.Clip(p.pool)
	upstream := p.upstream
	if upstream != nil {
		r := upstream.Get(d)
		upstream = r.Next()
		for _, v := range r.Values() {
			pool = append(pool, p.transform(d, v))
		}
	}

	live, days := poll(pool, d)
	if upstream == nil && len(live) == 0 {
		return Done[T]()
	}
	return Active[T](mergeMapped[U, T]{upstream: upstream, transform: p.transform, pool: live}, concat(days)...)
}
func (mergeMapped[U, T]) provider() {}

// Sequence yields each value on its date and is exhausted after the last one.
// Values are merged in date order.
func Sequence[T any](days map[date.Date]T) Provider[T] {
	keys := maps.Keys(days)
	slices.SortFunc(keys, func(a, b date.Date) int { return a.Compare(b) })

	providers := make([]Provider[T], 0, len(keys))
	for _, d := range keys {
		providers = append(providers, Scheduled(days[d], schedule.Day(d)))
	}
	return Merge(providers...)
}
