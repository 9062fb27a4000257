package engine

import (
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/finsim/date"
)

// Behavior is the entity specific part of an Actor. Implementations should be
// values so that returning a modified copy leaves the previous one untouched.
type Behavior interface {
	// OnTick runs once per day after the actor's date moved to d.
	OnTick(d date.Date) (Behavior, []Event, error)

	// OnAction handles an action delivered on day d.
	OnAction(d date.Date, a Action) (Behavior, []Event, error)
}

// Actor is a leaf State. It tracks the current date and logs every action
// it receives.
type Actor struct {
	date     date.Date
	behavior Behavior
	log      []LogEntry
}

// NewActor returns an actor positioned at start.
func NewActor(start date.Date, behavior Behavior) Actor {
	return Actor{date: start, behavior: behavior}
}

func (a Actor) Date() date.Date    { return a.date }
func (a Actor) Behavior() Behavior { return a.behavior }

// Log returns every action dispatched to the actor in order.
func (a Actor) Log() []LogEntry { return slices.Clone(a.log) }

func (a Actor) Tick(d date.Date) (State, []Event, error) {
	behavior, events, err := a.behavior.OnTick(d)
	if err != nil {
		return a, nil, err
	}
	return Actor{date: d, behavior: behavior, log: a.log}, events, nil
}

func (a Actor) Dispatch(action Action) (State, []Event, error) {
	if len(action.Destination) > 0 {
		return a, nil, &UnroutableActionError{Action: action, Reason: "actor has no children"}
	}
	behavior, events, err := a.behavior.OnAction(a.date, action)
	if err != nil {
		return a, nil, err
	}
	return Actor{
		date:     a.date,
		behavior: behavior,
		log:      append(slices.Clip(a.log), LogEntry{Date: a.date, Action: action}),
	}, events, nil
}
