package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/finsim/scenario"
)

type InitCmd struct {
	File  string `help:"Where to write the scenario." arg:"" optional:"" default:"scenario.yaml" type:"path"`
	Force bool   `help:"Overwrite an existing file without confirmation prompt." short:"f"`
}

func (cmd *InitCmd) Run(ctx *kong.Context, globals *Globals) error {
	path, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		overwrite := cmd.Force

		if !overwrite {
			confirmed, err := promptYesNo(fmt.Sprintf("File %q already exists. Overwrite it?", path))
			if err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			overwrite = confirmed
		}

		if !overwrite {
			return fmt.Errorf("file already exists: %s", path)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(scenario.Template), 0644); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}

	printInfof(ctx.Stdout, "Created scenario: %s", pathStyle.Render(path))
	printInfof(ctx.Stdout, "Run it with: finsim run %s", filepath.Base(path))

	return nil
}
