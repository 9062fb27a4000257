package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/finsim/ledger"
	"github.com/robinvdvleuten/finsim/output"
	"github.com/robinvdvleuten/finsim/simulator"
	"github.com/robinvdvleuten/finsim/store"
)

// DoctorCmd provides doctor utilities for debugging scenarios and stored runs.
type DoctorCmd struct {
	State StateCmd `cmd:"" help:"Dump the state tree of a scenario after some days."`
	Query QueryCmd `cmd:"" help:"Evaluate a JSONPath expression against a scenario file."`
	Runs  RunsCmd  `cmd:"" help:"List the runs recorded in a database."`
}

// StateCmd dumps the state tree of a scenario.
type StateCmd struct {
	File ScenarioFile `help:"Scenario file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Days int          `help:"Number of days to simulate before dumping." default:"0"`
}

// Run executes the state command.
func (cmd *StateCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	cfg, source, err := cmd.File.Load()
	if err != nil {
		return failed(ctx.Stderr, globals, source, err, validationSummary)
	}

	root, err := cfg.Build()
	if err != nil {
		return err
	}

	sim := simulator.New(cfg.Start, root, simulator.WithDays(cmd.Days))
	for _, err := range sim.All(context.Background()) {
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(ctx.Stdout, repr.String(sim.State(), repr.Indent("  ")))

	return nil
}

// QueryCmd evaluates a JSONPath expression such as "$.entities[*].name"
// against the raw scenario document.
type QueryCmd struct {
	Expr string       `help:"JSONPath expression." arg:""`
	File ScenarioFile `help:"Scenario file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the query command.
func (cmd *QueryCmd) Run(ctx *kong.Context) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	source, err := cmd.File.Source()
	if err != nil {
		return fmt.Errorf("failed to read scenario: %w", err)
	}
	doc, err := toJSON(source)
	if err != nil {
		return fmt.Errorf("failed to decode scenario: %w", err)
	}

	result, err := jsonpath.Get(cmd.Expr, doc)
	if err != nil {
		return fmt.Errorf("error evaluating %q: %w", cmd.Expr, err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.Stdout, string(out))
	return nil
}

// toJSON decodes a YAML document into the generic values JSONPath
// evaluates against: maps, slices, strings, float64 and bool.
func toJSON(contents []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return nil, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RunsCmd lists stored runs, or the balances of one of them.
type RunsCmd struct {
	DB      string `help:"SQLite database written by 'run --db'." arg:"" type:"existingfile"`
	ID      string `help:"Show the recorded balances of this run." name:"run"`
	Node    string `help:"Path of the bank account to show, e.g. alice/current."`
	Account string `help:"Ledger account to show, colon separated." default:"assets"`
}

// Run executes the runs command.
func (cmd *RunsCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	st, err := store.Open(cmd.DB)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	if cmd.ID == "" {
		runs, err := st.Runs(runCtx)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(runs))
		for _, r := range runs {
			rows = append(rows, []string{r.ID, r.Name, r.Start.String(), r.CreatedAt.Format("2006-01-02 15:04:05")})
		}
		_, _ = fmt.Fprintln(ctx.Stdout, output.Table([]string{"Run", "Name", "Start", "Created"}, rows))
		return nil
	}

	if cmd.Node == "" {
		return fmt.Errorf("--node is required with --run")
	}

	points, err := st.Series(runCtx, cmd.ID, cmd.Node, ledger.ParsePath(cmd.Account))
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("no balances of %s recorded at %q in run %s", cmd.Account, cmd.Node, cmd.ID)
	}

	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{p.Date.String(), p.Balance.StringFixed(2)})
	}
	_, _ = fmt.Fprintln(ctx.Stdout, output.Table([]string{"Date", cmd.Account}, rows, 1))

	return nil
}
