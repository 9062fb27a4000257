package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/finsim/telemetry"
)

type CheckCmd struct {
	File ScenarioFile `help:"Scenario file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx, report := startTelemetry(context.Background(), globals, ctx.Stderr, fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))
	defer report()
	collector := telemetry.FromContext(runCtx)

	timer := collector.Start("Validate")
	cfg, source, err := cmd.File.Load()
	timer.End()
	if err != nil {
		return failed(ctx.Stderr, globals, source, err, validationSummary)
	}

	timer = collector.Start("Build")
	_, err = cfg.Build()
	timer.End()
	if err != nil {
		return failed(ctx.Stderr, globals, source, err, validationSummary)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed: %d entities, %d days from %s", len(cfg.Entities), cfg.Days, cfg.Start))

	return nil
}
