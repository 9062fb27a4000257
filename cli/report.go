package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/finsim/report"
	"github.com/robinvdvleuten/finsim/simulator"
	"github.com/robinvdvleuten/finsim/telemetry"
)

type ReportCmd struct {
	File   ScenarioFile `help:"Scenario file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Days   int          `help:"Number of days to simulate, overriding the scenario (0 keeps it)." default:"0"`
	As     string       `help:"Output format." enum:"terminal,markdown,html" default:"terminal"`
	Style  string       `help:"Terminal style: auto, dark, light or notty." default:"auto"`
	Width  int          `help:"Wrap terminal output at this width." default:"100"`
	Output string       `help:"Write the report to this file instead of stdout." short:"o" type:"path"`
}

func (cmd *ReportCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx, finish := startTelemetry(context.Background(), globals, ctx.Stderr, fmt.Sprintf("report %s", filepath.Base(cmd.File.Filename)))
	defer finish()

	cfg, source, err := cmd.File.Load()
	if err != nil {
		return failed(ctx.Stderr, globals, source, err, validationSummary)
	}

	root, err := cfg.Build()
	if err != nil {
		return err
	}

	days := cfg.Days
	if cmd.Days > 0 {
		days = cmd.Days
	}

	sim := simulator.New(cfg.Start, root, simulator.WithDays(days))
	last := simulator.Snapshot{Date: cfg.Start, State: root}
	for snap, err := range sim.All(runCtx) {
		if err != nil {
			return failed(ctx.Stderr, globals, nil, err, func(int) string {
				return fmt.Sprintf("simulation failed on %s", sim.Date().Next())
			})
		}
		last = snap
	}

	title := cfg.Name
	if title == "" {
		title = filepath.Base(cmd.File.Filename)
	}

	timer := telemetry.FromContext(runCtx).Start("Render")
	out, err := cmd.render(report.New(title, cfg.Currency, simulator.Snapshot{Date: cfg.Start, State: root}, last))
	timer.End()
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if cmd.Output == "" {
		_, err = fmt.Fprint(ctx.Stdout, out)
		return err
	}
	if err := os.WriteFile(cmd.Output, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Wrote report: %s", pathStyle.Render(cmd.Output)))
	return nil
}

func (cmd *ReportCmd) render(r report.Report) (string, error) {
	md, err := report.Markdown(r)
	if err != nil {
		return "", err
	}
	switch cmd.As {
	case "markdown":
		return md, nil
	case "html":
		return report.HTML(md)
	default:
		return report.Terminal(md, cmd.Style, cmd.Width)
	}
}
