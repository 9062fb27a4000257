// Package engine steps a tree of simulated entities forward one day at a time.
//
// Every node is a State. Leaves are Actors wrapping entity specific
// Behavior; inner nodes are Containers that own named children and a Policy.
// A day runs in two phases. First every child ticks, in order, and the
// events they emit bubble up to their container. Then the container's policy
// turns events into actions, the actions are routed down to the children
// they name, and any events those produce go round again until none are
// left. Events the policy passes through bubble further up.
//
// States are immutable values: Tick and Dispatch return the next state and
// never modify the receiver, so a previous day's tree stays intact.
package engine

import (
	"github.com/robinvdvleuten/finsim/date"
)

// DefaultMaxRounds bounds the event to action rounds a container runs per
// tick or dispatch before it reports a *FixedPointError.
const DefaultMaxRounds = 64

// State is a node in the simulation tree.
type State interface {
	// Tick advances the state to d.
	Tick(d date.Date) (State, []Event, error)

	// Dispatch delivers an action addressed to this node or one of its descendants.
	Dispatch(a Action) (State, []Event, error)
}

// LogEntry records an action dispatched to a node.
type LogEntry struct {
	Date   date.Date
	Action Action
}

// prefix returns copies of events with name in front of their source.
func prefix(name string, events []Event) []Event {
	if len(events) == 0 {
		return nil
	}
	out := make([]Event, len(events))
	for i, e := range events {
		e.Source = e.Source.Prepend(name)
		out[i] = e
	}
	return out
}

// Find returns the node at p below s. An empty path returns s itself.
func Find(s State, p Path) (State, bool) {
	for _, name := range p {
		c, ok := s.(Container)
		if !ok {
			return nil, false
		}
		if s, ok = c.Child(name); !ok {
			return nil, false
		}
	}
	return s, true
}
