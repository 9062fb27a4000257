package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/engine"
	"github.com/robinvdvleuten/finsim/ledger"
	"github.com/robinvdvleuten/finsim/output"
	"github.com/robinvdvleuten/finsim/simulator"
	"github.com/robinvdvleuten/finsim/store"
	"github.com/robinvdvleuten/finsim/telemetry"
)

type RunCmd struct {
	File    ScenarioFile `help:"Scenario file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Days    int          `help:"Number of days to simulate, overriding the scenario (0 keeps it)." default:"0"`
	Node    string       `help:"Report the children of this path instead of every entity, e.g. alice."`
	Account string       `help:"Ledger account to report, colon separated." default:"assets"`
	Every   int          `help:"Report every n-th day; the last day is always reported." default:"30"`
	DB      string       `help:"Record the run into this SQLite database." type:"path"`
	Watch   bool         `help:"Simulate again whenever the scenario file changes." short:"w"`
}

func (cmd *RunCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	if !cmd.Watch {
		return cmd.simulate(context.Background(), ctx.Stdout, ctx.Stderr, globals)
	}

	if cmd.File.IsStdin() {
		return fmt.Errorf("--watch needs a scenario file, not stdin")
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return watch(runCtx, cmd.File.AbsoluteFilename(), ctx.Stderr, func() {
		err := cmd.simulate(runCtx, ctx.Stdout, ctx.Stderr, globals)
		var cmdErr *CommandError
		if err != nil && !errors.As(err, &cmdErr) {
			printError(ctx.Stderr, err.Error())
		}
	})
}

func (cmd *RunCmd) simulate(ctx context.Context, stdout, stderr io.Writer, globals *Globals) error {
	ctx, report := startTelemetry(ctx, globals, stderr, fmt.Sprintf("run %s", filepath.Base(cmd.File.Filename)))
	defer report()

	cfg, source, err := cmd.File.Load()
	if err != nil {
		return failed(stderr, globals, source, err, validationSummary)
	}

	root, err := cfg.Build()
	if err != nil {
		return err
	}

	days := cfg.Days
	if cmd.Days > 0 {
		days = cmd.Days
	}

	var run *store.Run
	if cmd.DB != "" {
		st, err := store.Open(cmd.DB)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer st.Close()

		if run, err = st.NewRun(ctx, cfg.Name, cfg.Start); err != nil {
			return err
		}
	}

	r := reporter{
		node:     engine.ParsePath(cmd.Node),
		account:  ledger.ParsePath(cmd.Account),
		every:    max(cmd.Every, 1),
		days:     days,
		currency: cfg.Currency,
	}
	if err := r.columns(root); err != nil {
		return err
	}

	last, err := r.simulate(ctx, simulator.New(cfg.Start, root, simulator.WithDays(days)), run)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return err
		}
		return failed(stderr, globals, nil, err, func(int) string {
			return fmt.Sprintf("simulation failed on %s", last.Next())
		})
	}

	_, _ = fmt.Fprintln(stdout, output.Table(r.headers(), r.rows, r.numeric()...))
	printSuccess(stdout, fmt.Sprintf("Simulated %d days, %s to %s", days, cfg.Start.Next(), last))
	if run != nil {
		printInfof(stdout, "Recorded run %s in %s", run.ID, pathStyle.Render(cmd.DB))
	}
	return nil
}

// reporter collects one table row of balances every few simulated days.
type reporter struct {
	node     engine.Path
	account  ledger.Path
	every    int
	days     int
	currency string

	paths []engine.Path
	rows  [][]string
}

// columns reports the children of node when it is a container, or node
// itself otherwise.
func (r *reporter) columns(root engine.State) error {
	found, ok := engine.Find(root, r.node)
	if !ok {
		return fmt.Errorf("no node at %q", r.node.String())
	}
	c, ok := found.(engine.Container)
	if !ok {
		r.paths = []engine.Path{r.node}
		return nil
	}
	for _, child := range c.Children() {
		r.paths = append(r.paths, r.node.Join(engine.NewPath(child.Name)))
	}
	return nil
}

func (r *reporter) headers() []string {
	headers := []string{"Date"}
	for _, p := range r.paths {
		headers = append(headers, p.String())
	}
	return headers
}

func (r *reporter) numeric() []int {
	cols := make([]int, 0, len(r.paths))
	for i := range r.paths {
		cols = append(cols, i+1)
	}
	return cols
}

// simulate runs sim to the end, recording every snapshot into run when set.
// It returns the last simulated day, also when it fails.
func (r *reporter) simulate(ctx context.Context, sim *simulator.Simulator, run *store.Run) (date.Date, error) {
	timer := telemetry.FromContext(ctx).Start("Simulate")
	defer timer.End()

	n := 0
	for snap, err := range sim.All(ctx) {
		if err != nil {
			return sim.Date(), err
		}
		if run != nil {
			if err := run.Record(ctx, snap); err != nil {
				return sim.Date(), fmt.Errorf("failed to record %s: %w", snap.Date, err)
			}
		}

		n++
		if n%r.every != 0 && n != r.days {
			continue
		}
		row := []string{snap.Date.String()}
		for _, p := range r.paths {
			balance, err := simulator.Balance(snap.State, p, r.account)
			if err != nil {
				return sim.Date(), err
			}
			row = append(row, output.Money(balance, r.currency))
		}
		r.rows = append(r.rows, row)
	}
	return sim.Date(), nil
}

// failed reports every error in err to w and returns a CommandError, so the
// caller exits non-zero without printing err again.
func failed(w io.Writer, globals *Globals, source []byte, err error, summary func(n int) string) error {
	n, ferr := reportErrors(w, globals.Format, source, err)
	if ferr != nil {
		return ferr
	}
	if globals.Format != "json" {
		_, _ = fmt.Fprintln(w)
		printError(w, summary(n))
	}
	return NewCommandError(1)
}

func validationSummary(n int) string {
	return fmt.Sprintf("%d validation error(s) found", n)
}
