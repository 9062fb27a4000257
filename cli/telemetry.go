package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/robinvdvleuten/finsim/output"
	"github.com/robinvdvleuten/finsim/telemetry"
)

// maxReportedDays is how many day timers the telemetry report lists before
// folding the rest into a summary line.
const maxReportedDays = 10

// startTelemetry opens a root timer called name when telemetry is enabled.
// The returned report function ends it and writes the report to w; it is
// safe to call more than once.
func startTelemetry(ctx context.Context, globals *Globals, w io.Writer, name string) (context.Context, func()) {
	if !globals.Telemetry {
		return ctx, func() {}
	}

	collector := telemetry.NewTimingCollector(
		telemetry.WithStyles(output.NewStyles(w)),
		telemetry.WithMaxChildren(maxReportedDays),
	)
	ctx = telemetry.WithCollector(ctx, collector)
	root := collector.Start(name)

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			root.End()
			_, _ = fmt.Fprintln(w)
			collector.Report(w)
		})
	}
}
