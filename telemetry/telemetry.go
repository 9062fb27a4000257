// Package telemetry times a simulation run. The simulator opens a timer for
// the whole run and one below it for every simulated day, so a slow day
// stands out in the report.
//
// A collector travels in the context. Code that is not handed one gets a
// collector that records nothing:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(ctx, collector)
//
//	run := telemetry.FromContext(ctx).Start("Simulate")
//	day := run.Child("2021-01-02")
//	day.End()
//	run.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"io"
)

type collectorKey struct{}

// Collector hands out timers and reports what they measured.
type Collector interface {
	Start(name string) Timer
	Report(w io.Writer)
}

// Timer measures one step. Steps inside it get a Child timer.
type Timer interface {
	End()
	Child(name string) Timer
}

// WithCollector returns a context carrying collector.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey{}, collector)
}

// FromContext returns the collector in ctx, or one that records nothing.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey{}).(Collector); ok {
		return collector
	}
	return discard{}
}

// discard is used when telemetry is off.
type discard struct{}

func (discard) Start(string) Timer { return discard{} }
func (discard) Report(io.Writer)   {}
func (discard) End()               {}
func (discard) Child(string) Timer { return discard{} }
