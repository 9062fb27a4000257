// Package simulator drives an engine state tree forward one calendar day
// at a time and hands out an immutable snapshot per day.
//
//	sim := simulator.New(start, world, simulator.WithEnd(end))
//	for snap, err := range sim.All(ctx) {
//		if err != nil {
//			return err
//		}
//		// use snap
//	}
package simulator

import (
	"context"
	"errors"
	"iter"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/engine"
	"github.com/robinvdvleuten/finsim/telemetry"
)

// ErrDone is returned by Next once the end date has been simulated.
var ErrDone = errors.New("simulation finished")

// Snapshot is the state of the whole tree at the end of one simulated day.
type Snapshot struct {
	Date  date.Date
	State engine.State

	// Events holds the events that bubbled out of the root that day.
	Events []engine.Event
}

// Entities returns the top level children of the snapshot, or nil when the
// root is not a container.
func (s Snapshot) Entities() []engine.Child {
	if c, ok := s.State.(engine.Container); ok {
		return c.Children()
	}
	return nil
}

// Simulator yields one Snapshot per day, starting the day after start.
// It is a cursor and not safe for concurrent use; the snapshots it returns
// are.
type Simulator struct {
	current date.Date
	state   engine.State
	end     date.Date
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithEnd stops the simulation after end has been simulated.
func WithEnd(end date.Date) Option {
	return func(s *Simulator) {
		s.end = end
	}
}

// WithDays stops the simulation after the given number of days.
func WithDays(days int) Option {
	return func(s *Simulator) {
		s.end = s.current.Add(days)
	}
}

// New returns a simulator whose first snapshot is the day after start.
// Without an end it runs until the caller stops asking.
func New(start date.Date, root engine.State, opts ...Option) *Simulator {
	s := &Simulator{current: start, state: root}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Date returns the last simulated day.
func (s *Simulator) Date() date.Date { return s.current }

// State returns the state at the end of the last simulated day.
func (s *Simulator) State() engine.State { return s.state }

// Next simulates one more day. It returns ErrDone past the end date and the
// context's error when ctx is done. A failed day leaves the simulator on the
// previous day.
func (s *Simulator) Next(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	d := s.current.Next()
	if !s.end.IsZero() && d.After(s.end) {
		return Snapshot{}, ErrDone
	}

	timer := telemetry.FromContext(ctx).Start(d.String())
	state, events, err := s.state.Tick(d)
	timer.End()
	if err != nil {
		return Snapshot{}, err
	}

	s.current, s.state = d, state
	return Snapshot{Date: d, State: state, Events: events}, nil
}

// All returns an iterator over the remaining snapshots. It stops after the
// end date, and after yielding the first error.
func (s *Simulator) All(ctx context.Context) iter.Seq2[Snapshot, error] {
	return func(yield func(Snapshot, error) bool) {
		for {
			snap, err := s.Next(ctx)
			if errors.Is(err, ErrDone) {
				return
			}
			if !yield(snap, err) || err != nil {
				return
			}
		}
	}
}

// Run simulates days days after start and returns every snapshot.
func Run(ctx context.Context, start date.Date, root engine.State, days int) ([]Snapshot, error) {
	timer := telemetry.FromContext(ctx).Start("Simulate")
	defer timer.End()

	snaps := make([]Snapshot, 0, days)
	for snap, err := range New(start, root, WithDays(days)).All(ctx) {
		if err != nil {
			return snaps, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}
