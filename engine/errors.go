package engine

import (
	"errors"
	"fmt"

	"github.com/robinvdvleuten/finsim/date"
)

var (
	// ErrUnroutable is wrapped by every *UnroutableActionError.
	ErrUnroutable = errors.New("unroutable action")

	// ErrNoFixedPoint is wrapped by every *FixedPointError.
	ErrNoFixedPoint = errors.New("events did not settle")
)

// UnroutableActionError is returned when an action's destination does not
// name a node in the tree.
type UnroutableActionError struct {
	Action Action
	Reason string
}

func (e *UnroutableActionError) Error() string {
	return fmt.Sprintf("cannot route action from %q to %q: %s", e.Action.Source.String(), e.Action.Destination.String(), e.Reason)
}

func (e *UnroutableActionError) Unwrap() error { return ErrUnroutable }

// FixedPointError is returned when a container keeps turning events into
// actions into events for more rounds than it allows in one day. It points
// at a cycle in entity logic.
type FixedPointError struct {
	Date    date.Date
	Rounds  int
	Pending []Event
}

func (e *FixedPointError) Error() string {
	return fmt.Sprintf("%s: %d events still pending after %d rounds", e.Date, len(e.Pending), e.Rounds)
}

func (e *FixedPointError) Unwrap() error { return ErrNoFixedPoint }

func (e *FixedPointError) GetDate() date.Date { return e.Date }

// childError wraps an error raised inside a named child.
type childError struct {
	child string
	err   error
}

func (e *childError) Error() string { return e.child + ": " + e.err.Error() }
func (e *childError) Unwrap() error { return e.err }

func wrapChild(name string, err error) error {
	if err == nil {
		return nil
	}
	return &childError{child: name, err: err}
}
