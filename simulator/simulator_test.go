package simulator_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/engine"
	"github.com/robinvdvleuten/finsim/entity"
	"github.com/robinvdvleuten/finsim/instrument"
	"github.com/robinvdvleuten/finsim/ledger"
	"github.com/robinvdvleuten/finsim/provider"
	"github.com/robinvdvleuten/finsim/schedule"
	"github.com/robinvdvleuten/finsim/simulator"
	"github.com/robinvdvleuten/finsim/telemetry"
)

var start = date.MustParse("2021-01-01")

var errBroken = errors.New("broken")

// counter counts its ticks and fails on the day it is told to.
type counter struct {
	Ticks  int
	FailOn date.Date
}

func (c counter) OnTick(d date.Date) (engine.Behavior, []engine.Event, error) {
	if d == c.FailOn {
		return c, nil, errBroken
	}
	return counter{Ticks: c.Ticks + 1, FailOn: c.FailOn}, nil, nil
}

func (c counter) OnAction(d date.Date, a engine.Action) (engine.Behavior, []engine.Event, error) {
	return c, nil, nil
}

func counting(failOn date.Date) engine.Container {
	return engine.NewContainer(start, nil, []engine.Child{
		{Name: "counter", State: engine.NewActor(start, counter{FailOn: failOn})},
	})
}

func ticks(t *testing.T, snap simulator.Snapshot) int {
	t.Helper()
	entities := snap.Entities()
	assert.Equal(t, 1, len(entities))
	return entities[0].State.(engine.Actor).Behavior().(counter).Ticks
}

func TestFirstSnapshotIsTheDayAfterStart(t *testing.T) {
	snaps, err := simulator.Run(context.Background(), start, counting(date.Date{}), 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(snaps))

	for i, snap := range snaps {
		assert.Equal(t, start.Add(i+1), snap.Date)
		assert.Equal(t, i+1, ticks(t, snap))
	}
}

func TestNext(t *testing.T) {
	ctx := context.Background()
	sim := simulator.New(start, counting(date.Date{}), simulator.WithEnd(start.Add(2)))

	for i := 1; i <= 2; i++ {
		snap, err := sim.Next(ctx)
		assert.NoError(t, err)
		assert.Equal(t, start.Add(i), snap.Date)
	}

	_, err := sim.Next(ctx)
	assert.IsError(t, err, simulator.ErrDone)
	assert.Equal(t, start.Add(2), sim.Date())
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := simulator.New(start, counting(date.Date{}))
	_, err := sim.Next(ctx)
	assert.IsError(t, err, context.Canceled)
	assert.Equal(t, start, sim.Date())
}

func TestErrorStopsIteration(t *testing.T) {
	sim := simulator.New(start, counting(start.Add(3)))

	var (
		dates []date.Date
		last  error
	)
	for snap, err := range sim.All(context.Background()) {
		if err != nil {
			last = err
			continue
		}
		dates = append(dates, snap.Date)
	}

	assert.IsError(t, last, errBroken)
	assert.Equal(t, []date.Date{start.Add(1), start.Add(2)}, dates)
	assert.Equal(t, start.Add(2), sim.Date())
}

func TestSnapshotsAreIndependent(t *testing.T) {
	snaps, err := simulator.Run(context.Background(), start, counting(date.Date{}), 10)
	assert.NoError(t, err)

	assert.Equal(t, 1, ticks(t, snaps[0]))
	assert.Equal(t, 10, ticks(t, snaps[9]))
}

func world() engine.Container {
	wage := entity.Amount{Category: "wage", Value: decimal.NewFromInt(10)}
	alice := entity.NewContainer(start,
		entity.New("alice", entity.Individual, "current",
			entity.WithIncome(provider.Scheduled(wage, schedule.Daily())),
		),
		entity.Bank{Name: "current", Account: instrument.NewBankAccount(instrument.StandardAccounts("current"), ledger.Empty(start))},
		entity.Bank{Name: "spare", Account: instrument.NewBankAccount(instrument.StandardAccounts("spare"), ledger.Empty(start))},
	)
	return engine.NewContainer(start, nil, []engine.Child{{Name: "alice", State: alice}})
}

func TestDeterminism(t *testing.T) {
	first, err := simulator.Run(context.Background(), start, world(), 30)
	assert.NoError(t, err)
	second, err := simulator.Run(context.Background(), start, world(), 30)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSeries(t *testing.T) {
	snaps, err := simulator.Run(context.Background(), start, world(), 3)
	assert.NoError(t, err)

	points, err := simulator.Series(snaps, engine.ParsePath("alice"), ledger.Path{"assets"})
	assert.NoError(t, err)
	assert.Equal(t, 3, len(points))
	for i, p := range points {
		assert.Equal(t, start.Add(i+1), p.Date)
		assert.True(t, decimal.NewFromInt(int64(10*(i+1))).Equal(p.Balance), "got %s", p.Balance)
	}

	income, err := simulator.Balance(snaps[2].State, engine.ParsePath("alice/current"), ledger.Path{"income", "wage"})
	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-30).Equal(income))

	_, err = simulator.Series(snaps, engine.ParsePath("bob"), ledger.Path{"assets"})
	assert.Error(t, err)
}

func TestTelemetry(t *testing.T) {
	collector := telemetry.NewTimingCollector()
	ctx := telemetry.WithCollector(context.Background(), collector)

	_, err := simulator.Run(ctx, start, counting(date.Date{}), 2)
	assert.NoError(t, err)

	var buf bytes.Buffer
	collector.Report(&buf)
	assert.Contains(t, buf.String(), "Simulate")
	assert.Contains(t, buf.String(), "2021-01-02")
}
