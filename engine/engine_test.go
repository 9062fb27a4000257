package engine_test

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/engine"
)

var day0 = date.MustParse("2020-01-01")

// note is a message addressed relative to its sender.
type note struct {
	To engine.Path
}

func (n note) Recipient() engine.Path { return n.To }

// notifier sends a note to target every day and records who notified it.
type notifier struct {
	Target   engine.Path
	Received []string
}

func (n notifier) OnTick(d date.Date) (engine.Behavior, []engine.Event, error) {
	if n.Target == nil {
		return n, nil, nil
	}
	return n, []engine.Event{{Payload: note{To: n.Target}}}, nil
}

func (n notifier) OnAction(d date.Date, a engine.Action) (engine.Behavior, []engine.Event, error) {
	if _, ok := a.Payload.(note); !ok {
		return n, nil, nil
	}
	received := append(append([]string(nil), n.Received...), d.String()+" "+a.Source.String())
	return notifier{Target: n.Target, Received: received}, nil, nil
}

func actor(target ...string) engine.Child {
	return engine.Child{State: engine.NewActor(day0, notifier{Target: engine.NewPath(target...)})}
}

func named(name string, child engine.Child) engine.Child {
	child.Name = name
	return child
}

func chain() engine.Container {
	return engine.NewContainer(day0, engine.Router{}, []engine.Child{
		named("entity 1", actor("..", "entity 2")),
		named("entity 2", actor("..", "entity 3")),
		named("entity 3", actor("..", "entity 1")),
	})
}

func run(t *testing.T, state engine.State, days int) []engine.State {
	t.Helper()
	var states []engine.State
	for i := 1; i <= days; i++ {
		var err error
		state, _, err = state.Tick(day0.Add(i))
		assert.NoError(t, err)
		states = append(states, state)
	}
	return states
}

func received(t *testing.T, state engine.State, name string) []string {
	t.Helper()
	child, ok := state.(engine.Container).Child(name)
	assert.True(t, ok)
	return child.(engine.Actor).Behavior().(notifier).Received
}

func TestChain(t *testing.T) {
	states := run(t, chain(), 3)

	assert.Equal(t, []string{
		"2020-01-02 ../entity 3",
		"2020-01-03 ../entity 3",
		"2020-01-04 ../entity 3",
	}, received(t, states[2], "entity 1"))
	assert.Equal(t, []string{
		"2020-01-02 ../entity 1",
		"2020-01-03 ../entity 1",
		"2020-01-04 ../entity 1",
	}, received(t, states[2], "entity 2"))
	assert.Equal(t, []string{
		"2020-01-02 ../entity 2",
		"2020-01-03 ../entity 2",
		"2020-01-04 ../entity 2",
	}, received(t, states[2], "entity 3"))

	for i, state := range states {
		for _, name := range []string{"entity 1", "entity 2", "entity 3"} {
			assert.Equal(t, i+1, len(received(t, state, name)))
		}
	}
}

func TestDeterminism(t *testing.T) {
	first := run(t, chain(), 10)
	second := run(t, chain(), 10)
	assert.Equal(t, first, second)
}

func TestTickLeavesPreviousStateUntouched(t *testing.T) {
	initial := chain()
	next, _, err := initial.Tick(day0.Next())
	assert.NoError(t, err)

	assert.Equal(t, 0, len(received(t, initial, "entity 1")))
	assert.Equal(t, 1, len(received(t, next, "entity 1")))
	assert.Equal(t, day0, initial.Date())
	assert.Equal(t, day0.Next(), next.(engine.Container).Date())
}

func TestActorLog(t *testing.T) {
	states := run(t, chain(), 2)

	child, _ := states[1].(engine.Container).Child("entity 2")
	log := child.(engine.Actor).Log()
	assert.Equal(t, 2, len(log))
	assert.Equal(t, day0.Add(1), log[0].Date)
	assert.Equal(t, day0.Add(2), log[1].Date)
	assert.Equal(t, engine.NewPath("..", "entity 1"), log[1].Action.Source)
	assert.Equal(t, 0, len(log[1].Action.Destination))
}

func TestNestedRouting(t *testing.T) {
	corp := engine.NewContainer(day0, engine.Router{}, []engine.Child{
		named("payroll", actor("..", "..", "alice")),
	})
	root := engine.NewContainer(day0, engine.Router{}, []engine.Child{
		{Name: "corp", State: corp},
		named("alice", actor()),
	})

	state, events, err := root.Tick(day0.Next())
	assert.NoError(t, err)
	assert.Equal(t, 0, len(events))
	assert.Equal(t, []string{"2020-01-02 ../corp/payroll"}, received(t, state, "alice"))
}

func TestUnaddressedEventsBubbleUp(t *testing.T) {
	root := engine.NewContainer(day0, engine.Router{}, []engine.Child{
		named("a", actor("..", "..", "outside")),
	})

	_, events, err := root.Tick(day0.Next())
	assert.NoError(t, err)
	assert.Equal(t, 1, len(events))
	assert.Equal(t, engine.NewPath("a"), events[0].Source)
}

func TestUnroutableActions(t *testing.T) {
	root := chain()

	_, _, err := root.Dispatch(engine.Action{Destination: engine.NewPath("nobody")})
	assert.True(t, errors.Is(err, engine.ErrUnroutable))

	var unroutable *engine.UnroutableActionError
	assert.True(t, errors.As(err, &unroutable))
	assert.Equal(t, engine.NewPath("nobody"), unroutable.Action.Destination)

	_, _, err = root.Dispatch(engine.Action{})
	assert.True(t, errors.Is(err, engine.ErrUnroutable))

	_, _, err = root.Dispatch(engine.Action{Destination: engine.NewPath("entity 1", "deeper")})
	assert.True(t, errors.Is(err, engine.ErrUnroutable))

	broken := engine.NewContainer(day0, engine.Router{}, []engine.Child{
		named("a", actor("..", "ghost")),
	})
	_, _, err = broken.Tick(day0.Next())
	assert.True(t, errors.Is(err, engine.ErrUnroutable))
}

func TestDispatchFromOutside(t *testing.T) {
	root := chain()

	state, _, err := root.Dispatch(engine.Action{
		Source:      engine.NewPath("driver"),
		Destination: engine.NewPath("entity 2"),
		Payload:     note{},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"2020-01-01 ../driver"}, received(t, state, "entity 2"))
	assert.Equal(t, 1, len(state.(engine.Container).Log()))
	assert.Equal(t, 0, len(root.Log()))
}

// pingPong answers every note with a note back to its sender.
type pingPong struct{}

func (p pingPong) OnTick(d date.Date) (engine.Behavior, []engine.Event, error) {
	return p, nil, nil
}

func (p pingPong) OnAction(d date.Date, a engine.Action) (engine.Behavior, []engine.Event, error) {
	return p, []engine.Event{{Payload: note{To: a.Source}}}, nil
}

func TestFixedPointIsBounded(t *testing.T) {
	root := engine.NewContainer(day0, engine.Router{}, []engine.Child{
		{Name: "ping", State: engine.NewActor(day0, pingPong{})},
		{Name: "pong", State: engine.NewActor(day0, pingPong{})},
	}, engine.WithMaxRounds(5))

	_, _, err := root.Dispatch(engine.Action{
		Source:      engine.NewPath("pong"),
		Destination: engine.NewPath("ping"),
		Payload:     note{},
	})
	assert.True(t, errors.Is(err, engine.ErrNoFixedPoint))

	var fixedPoint *engine.FixedPointError
	assert.True(t, errors.As(err, &fixedPoint))
	assert.Equal(t, 5, fixedPoint.Rounds)
	assert.Equal(t, 1, len(fixedPoint.Pending))
}

// forward is a policy that accepts actions addressed to the container and
// passes their payload to a fixed child.
type forward struct {
	engine.Router
	To string
}

func (f forward) OnAction(d date.Date, a engine.Action) ([]engine.Event, []engine.Action, error) {
	return nil, []engine.Action{{Source: a.Source, Destination: engine.NewPath(f.To), Payload: a.Payload}}, nil
}

func TestActionHandler(t *testing.T) {
	root := engine.NewContainer(day0, forward{To: "entity"}, []engine.Child{
		named("entity", actor()),
	})

	state, _, err := root.Dispatch(engine.Action{Source: engine.NewPath("driver"), Payload: note{}})
	assert.NoError(t, err)
	assert.Equal(t, []string{"2020-01-01 ../driver"}, received(t, state, "entity"))
}

func TestPathResolve(t *testing.T) {
	tests := []struct {
		base string
		rel  string
		want string
		ok   bool
	}{
		{"b", "../a", "a", true},
		{"corp/b", "../../alice/bank", "alice/bank", true},
		{"b", "../../x", "", false},
		{"alice", "bank", "alice/bank", true},
		{"alice", "..", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.base+"+"+tt.rel, func(t *testing.T) {
			got, ok := engine.ParsePath(tt.base).Resolve(engine.ParsePath(tt.rel))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFind(t *testing.T) {
	corp := engine.NewContainer(day0, nil, []engine.Child{named("payroll", actor())})
	root := engine.NewContainer(day0, nil, []engine.Child{{Name: "corp", State: corp}})

	found, ok := engine.Find(root, engine.ParsePath("corp/payroll"))
	assert.True(t, ok)
	_, isActor := found.(engine.Actor)
	assert.True(t, isActor)

	_, ok = engine.Find(root, engine.ParsePath("corp/payroll/deeper"))
	assert.False(t, ok)
	_, ok = engine.Find(root, engine.ParsePath("nobody"))
	assert.False(t, ok)

	self, ok := engine.Find(root, nil)
	assert.True(t, ok)
	assert.Equal(t, engine.State(root), self)
}
