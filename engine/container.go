package engine

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/finsim/date"
)

// Child is a named node owned by a Container.
type Child struct {
	Name  string
	State State
}

// Policy decides what a container does with the events of its children.
// Returned events bubble up to the container's parent; returned actions are
// routed down to the children they name. Policies should be comparable
// values with no hidden state.
type Policy interface {
	OnEvent(e Event) ([]Event, []Action)
}

// ActionHandler is implemented by policies that accept actions addressed to
// the container itself. Returned actions must name a child.
type ActionHandler interface {
	OnAction(d date.Date, a Action) ([]Event, []Action, error)
}

// Container is an inner State that owns an ordered list of children.
type Container struct {
	date      date.Date
	children  []Child
	policy    Policy
	log       []LogEntry
	maxRounds int
}

// ContainerOption configures a Container.
type ContainerOption func(*Container)

// WithMaxRounds bounds the event to action rounds per tick or dispatch.
func WithMaxRounds(n int) ContainerOption {
	return func(c *Container) {
		c.maxRounds = n
	}
}

// NewContainer returns a container positioned at start. A nil policy
// defaults to Router.
func NewContainer(start date.Date, policy Policy, children []Child, opts ...ContainerOption) Container {
	if policy == nil {
		policy = Router{}
	}
	c := Container{
		date:      start,
		children:  slices.Clone(children),
		policy:    policy,
		maxRounds: DefaultMaxRounds,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c Container) Date() date.Date { return c.date }
func (c Container) Policy() Policy  { return c.policy }

// Children returns the children in container order.
func (c Container) Children() []Child { return slices.Clone(c.children) }

// Child returns the state of the child called name.
func (c Container) Child(name string) (State, bool) {
	if i := c.index(name); i >= 0 {
		return c.children[i].State, true
	}
	return nil, false
}

// Log returns every action dispatched to the container from outside.
func (c Container) Log() []LogEntry { return slices.Clone(c.log) }

func (c Container) index(name string) int {
	for i, child := range c.children {
		if child.Name == name {
			return i
		}
	}
	return -1
}

// Tick ticks every child in order, then settles their events.
func (c Container) Tick(d date.Date) (State, []Event, error) {
	next := c
	next.date = d
	next.children = slices.Clone(c.children)

	var events []Event
	for i, child := range next.children {
		state, emitted, err := child.State.Tick(d)
		if err != nil {
			return c, nil, wrapChild(child.Name, err)
		}
		next.children[i].State = state
		events = append(events, prefix(child.Name, emitted)...)
	}

	settled, up, err := next.settle(events)
	if err != nil {
		return c, nil, err
	}
	return settled, up, nil
}

// Dispatch routes an action to the child named by the head of its
// destination, or to the policy when the destination is empty.
func (c Container) Dispatch(a Action) (State, []Event, error) {
	next := c
	next.log = append(slices.Clip(c.log), LogEntry{Date: c.date, Action: a})

	var (
		up     []Event
		events []Event
		err    error
	)
	if len(a.Destination) == 0 {
		var actions []Action
		up, actions, err = next.handle(a)
		if err != nil {
			return c, nil, err
		}
		next, events, err = next.deliver(actions)
	} else {
		next, events, err = next.route(a)
	}
	if err != nil {
		return c, nil, err
	}

	settled, more, err := next.settle(events)
	if err != nil {
		return c, nil, err
	}
	return settled, append(up, more...), nil
}

func (c Container) handle(a Action) ([]Event, []Action, error) {
	handler, ok := c.policy.(ActionHandler)
	if !ok {
		return nil, nil, &UnroutableActionError{Action: a, Reason: "container does not accept actions"}
	}
	up, actions, err := handler.OnAction(c.date, a)
	if err != nil {
		return nil, nil, err
	}
	for _, action := range actions {
		if len(action.Destination) == 0 {
			return nil, nil, &UnroutableActionError{Action: action, Reason: "container cannot address itself"}
		}
	}
	return up, actions, nil
}

// route hands a to the child named by its destination head. The child sees
// the remaining destination and a source that starts one level further up.
func (c Container) route(a Action) (Container, []Event, error) {
	name := a.Destination.Head()
	i := c.index(name)
	if i < 0 {
		return c, nil, &UnroutableActionError{Action: a, Reason: fmt.Sprintf("no child named %q", name)}
	}

	state, emitted, err := c.children[i].State.Dispatch(Action{
		Source:      a.Source.Prepend(Up),
		Destination: a.Destination.Tail(),
		Payload:     a.Payload,
	})
	if err != nil {
		return c, nil, wrapChild(name, err)
	}

	next := c
	next.children = slices.Clone(c.children)
	next.children[i].State = state
	return next, prefix(name, emitted), nil
}

func (c Container) deliver(actions []Action) (Container, []Event, error) {
	var events []Event
	for _, a := range actions {
		var (
			emitted []Event
			err     error
		)
		c, emitted, err = c.route(a)
		if err != nil {
			return c, nil, err
		}
		events = append(events, emitted...)
	}
	return c, events, nil
}

// settle runs events through the policy and routes the resulting actions
// until no events remain. Events the policy passes up are returned in the
// order they were produced.
func (c Container) settle(events []Event) (Container, []Event, error) {
	var up []Event
	for round := 0; len(events) > 0; round++ {
		if round >= c.maxRounds {
			return c, nil, &FixedPointError{Date: c.date, Rounds: round, Pending: events}
		}

		var actions []Action
		for _, e := range events {
			bubbled, generated := c.policy.OnEvent(e)
			up = append(up, bubbled...)
			actions = append(actions, generated...)
		}

		var (
			handled []Event
			err     error
		)
		events = nil
		for _, a := range actions {
			if len(a.Destination) == 0 {
				var (
					more    []Action
					bubbled []Event
				)
				bubbled, more, err = c.handle(a)
				if err != nil {
					return c, nil, err
				}
				up = append(up, bubbled...)
				c, handled, err = c.deliver(more)
			} else {
				c, handled, err = c.route(a)
			}
			if err != nil {
				return c, nil, err
			}
			events = append(events, handled...)
		}
	}
	return c, up, nil
}
