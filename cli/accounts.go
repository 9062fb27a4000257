package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/engine"
	"github.com/robinvdvleuten/finsim/output"
	"github.com/robinvdvleuten/finsim/simulator"
)

type AccountsCmd struct {
	File ScenarioFile `help:"Scenario file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	On   string       `help:"Day to show, defaults to the last day of the scenario." placeholder:"YYYY-MM-DD"`
	Node string       `help:"Only show bank accounts at or below this path, e.g. alice."`
}

func (cmd *AccountsCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx, report := startTelemetry(context.Background(), globals, ctx.Stderr, fmt.Sprintf("accounts %s", filepath.Base(cmd.File.Filename)))
	defer report()

	cfg, source, err := cmd.File.Load()
	if err != nil {
		return failed(ctx.Stderr, globals, source, err, validationSummary)
	}

	end := cfg.Start.Add(cfg.Days)
	if cmd.On != "" {
		if end, err = date.Parse(cmd.On); err != nil {
			return err
		}
		if end.Before(cfg.Start) {
			return fmt.Errorf("%s is before the scenario starts on %s", end, cfg.Start)
		}
	}

	root, err := cfg.Build()
	if err != nil {
		return err
	}

	sim := simulator.New(cfg.Start, root, simulator.WithEnd(end))
	for _, err := range sim.All(runCtx) {
		if err != nil {
			return failed(ctx.Stderr, globals, nil, err, func(int) string {
				return fmt.Sprintf("simulation failed on %s", sim.Date().Next())
			})
		}
	}

	node := engine.ParsePath(cmd.Node)
	found, ok := engine.Find(sim.State(), node)
	if !ok {
		return fmt.Errorf("no node at %q", cmd.Node)
	}

	n := 0
	for path, books := range simulator.Ledgers(found) {
		_, _ = fmt.Fprintln(ctx.Stdout, headingStyle.Render(node.Join(path).String()))
		_, _ = fmt.Fprintln(ctx.Stdout, output.LedgerTable(books.Ledger(), cfg.Currency))
		n++
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("%d bank account(s) on %s", n, sim.Date()))

	return nil
}
