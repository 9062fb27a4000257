package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/finsim/scenario"
	"github.com/robinvdvleuten/finsim/store"
)

const month = `name: Month
start: 2024-01-01
days: 31
entities:
  - name: alice
    kind: individual
    accounts:
      - {name: current, type: custom, opening: 100}
    expenses:
      - {category: rent, amount: 40, schedule: {monthly: 1}}
  - name: acme
    kind: corporation
    accounts:
      - {name: business, type: custom, opening: 10000}
    salaries:
      - {employee: alice, day: 25, net: 1000, health_insurance: 100, wage_tax: 200}
`

// execute runs the command line args in-process and returns what it wrote.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var (
		cmds           Commands
		stdout, stderr bytes.Buffer
	)
	parser, err := kong.New(&cmds,
		kong.Name("finsim"),
		kong.Writers(&stdout, &stderr),
		kong.Bind(&cmds.Globals),
		kong.Exit(func(int) {}),
	)
	assert.NoError(t, err)

	ctx, err := parser.Parse(args)
	if err != nil {
		return stdout.String(), stderr.String(), err
	}
	err = ctx.Run()
	return stdout.String(), stderr.String(), err
}

func writeScenario(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestCheckCmd(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		stdout, _, err := execute(t, "check", writeScenario(t, month))
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Check passed: 2 entities, 31 days from 2024-01-01")
	})

	t.Run("Invalid", func(t *testing.T) {
		path := writeScenario(t, "start: 2024-01-01\ndays: 0\nentities: []\n")
		_, stderr, err := execute(t, "check", path)

		var cmdErr *CommandError
		assert.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, 1, cmdErr.ExitCode())
		assert.Contains(t, stderr, "must be positive, got 0")
		assert.Contains(t, stderr, "at least one entity is required")
		assert.Contains(t, stderr, "2 validation error(s) found")
	})

	t.Run("JSON", func(t *testing.T) {
		path := writeScenario(t, "start: 2024-01-01\ndays: 0\nentities: []\n")
		_, stderr, err := execute(t, "--format", "json", "check", path)

		assert.Error(t, err)
		assert.Contains(t, stderr, `"field": "days"`)
		assert.Contains(t, stderr, `"field": "entities"`)
		assert.NotContains(t, stderr, "validation error(s) found")
	})

	t.Run("SourceContext", func(t *testing.T) {
		path := writeScenario(t, "start: 2024-01-01\ndays: 1\nentities:\n  - name: a\n    kind: individual\n    accounts:\n      - {name: c, type: custom, opening: lots}\n")
		_, stderr, err := execute(t, "check", path)

		assert.Error(t, err)
		assert.Contains(t, stderr, `line 7: invalid number "lots"`)
		assert.Contains(t, stderr, "{name: c, type: custom, opening: lots}")
	})

	t.Run("Telemetry", func(t *testing.T) {
		_, stderr, err := execute(t, "--telemetry", "check", writeScenario(t, month))
		assert.NoError(t, err)
		assert.Contains(t, stderr, "check scenario.yaml")
		assert.Contains(t, stderr, "Validate")
		assert.Contains(t, stderr, "Build")
	})
}

func TestRunCmd(t *testing.T) {
	t.Run("Entities", func(t *testing.T) {
		stdout, _, err := execute(t, "run", writeScenario(t, month), "--every", "10")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "alice")
		assert.Contains(t, stdout, "acme")
		assert.Contains(t, stdout, "2024-01-11")
		assert.Contains(t, stdout, "1060.00")
		assert.Contains(t, stdout, "8700.00")
		assert.Contains(t, stdout, "Simulated 31 days, 2024-01-02 to 2024-02-01")
	})

	t.Run("Node", func(t *testing.T) {
		stdout, _, err := execute(t, "run", writeScenario(t, month), "--node", "alice", "--account", "income")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "alice/current")
		assert.Contains(t, stdout, "-1300.00")
	})

	t.Run("Days", func(t *testing.T) {
		stdout, _, err := execute(t, "run", writeScenario(t, month), "--days", "5")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Simulated 5 days, 2024-01-02 to 2024-01-06")
		assert.Contains(t, stdout, "100.00")
	})

	t.Run("UnknownNode", func(t *testing.T) {
		_, _, err := execute(t, "run", writeScenario(t, month), "--node", "bob")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), `no node at "bob"`)
	})

	t.Run("Record", func(t *testing.T) {
		db := filepath.Join(t.TempDir(), "runs.db")
		stdout, _, err := execute(t, "run", writeScenario(t, month), "--db", db)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Recorded run")

		st, err := store.Open(db)
		assert.NoError(t, err)
		runs, err := st.Runs(context.Background())
		assert.NoError(t, err)
		assert.NoError(t, st.Close())
		assert.Equal(t, 1, len(runs))
		assert.Equal(t, "Month", runs[0].Name)

		stdout, _, err = execute(t, "doctor", "runs", db)
		assert.NoError(t, err)
		assert.Contains(t, stdout, runs[0].ID)

		stdout, _, err = execute(t, "doctor", "runs", db, "--run", runs[0].ID, "--node", "acme/business")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "2024-02-01")
		assert.Contains(t, stdout, "8700.00")
	})
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scenario.yaml")

	stdout, _, err := execute(t, "init", path)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "Created scenario")

	written, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, scenario.Template, string(written))

	assert.NoError(t, os.WriteFile(path, []byte("changed"), 0600))
	_, _, err = execute(t, "init", path, "--force")
	assert.NoError(t, err)

	written, err = os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, scenario.Template, string(written))

	stdout, _, err = execute(t, "check", path)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "Check passed")
}

func TestAccountsCmd(t *testing.T) {
	stdout, _, err := execute(t, "accounts", writeScenario(t, month), "--on", "2024-01-25", "--node", "alice")
	assert.NoError(t, err)
	assert.Contains(t, stdout, "alice/current")
	assert.Contains(t, stdout, "assets:bank_accounts:current")
	assert.Contains(t, stdout, "1100.00")
	assert.Contains(t, stdout, "1 bank account(s) on 2024-01-25")

	_, _, err = execute(t, "accounts", writeScenario(t, month), "--on", "2023-12-31")
	assert.Error(t, err)
}

func TestAccountsCmdCurrency(t *testing.T) {
	stdout, _, err := execute(t, "accounts", writeScenario(t, month+"currency: USD\n"), "--node", "acme")
	assert.NoError(t, err)
	assert.Contains(t, stdout, "$8,700.00")
}

func TestReportCmd(t *testing.T) {
	t.Run("Markdown", func(t *testing.T) {
		stdout, _, err := execute(t, "report", writeScenario(t, month), "--as", "markdown")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "# Month")
		assert.Contains(t, stdout, "| current | 100.00 | 1060.00 | 960.00 |")
	})

	t.Run("HTML", func(t *testing.T) {
		stdout, _, err := execute(t, "report", writeScenario(t, month), "--as", "html")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "<h2>acme</h2>")
	})

	t.Run("Terminal", func(t *testing.T) {
		stdout, _, err := execute(t, "report", writeScenario(t, month), "--style", "notty")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "8700.00")
	})

	t.Run("Output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.html")
		stdout, _, err := execute(t, "report", writeScenario(t, month+"currency: USD\n"), "--as", "html", "-o", path)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Wrote report")

		contents, err := os.ReadFile(path)
		assert.NoError(t, err)
		assert.Contains(t, string(contents), "$1,060.00")
	})
}

func TestRateCmd(t *testing.T) {
	stdout, _, err := execute(t, "rate", "{type: continuous, annual: 0.05}", "--balance", "1000")
	assert.NoError(t, err)
	assert.Contains(t, stdout, "continuous 5.00%")
	assert.Contains(t, stdout, "1000.00")

	stdout, _, err = execute(t, "rate", "{type: banded, bands: [{from: 0, rate: {type: continuous, annual: 0.01}}, {from: 500, rate: {type: continuous, annual: 0.02}}]}")
	assert.NoError(t, err)
	assert.Contains(t, stdout, "total")

	_, _, err = execute(t, "rate", "{type: sideways}")
	assert.Error(t, err)
}

func TestTaxCmd(t *testing.T) {
	t.Run("Corporate", func(t *testing.T) {
		stdout, _, err := execute(t, "tax", "300000", "--year", "2025")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Tax due in 2025")
		assert.Contains(t, stdout, "up to 200000.00")
		assert.Contains(t, stdout, "25.80%")
		assert.Contains(t, stdout, "63,800.00")
	})

	t.Run("BandsFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bands.yaml")
		assert.NoError(t, os.WriteFile(path, []byte("- {year: 2020, bands: [{above: 1000, rate: 0.5}]}\n"), 0600))

		stdout, _, err := execute(t, "tax", "3000", "--year", "2024", "--bands", path)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "above 1000.00")
		assert.Contains(t, stdout, "1,000.00")
	})

	t.Run("BeforeFirstYear", func(t *testing.T) {
		_, _, err := execute(t, "tax", "300000", "--year", "2000")
		assert.Error(t, err)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		_, _, err := execute(t, "tax", "lots")
		assert.Error(t, err)
	})
}

func TestDoctorStateCmd(t *testing.T) {
	stdout, _, err := execute(t, "doctor", "state", writeScenario(t, month), "--days", "1")
	assert.NoError(t, err)
	assert.Contains(t, stdout, "Container")
}

func TestDoctorQueryCmd(t *testing.T) {
	path := writeScenario(t, month)

	stdout, _, err := execute(t, "doctor", "query", "$.entities[*].name", path)
	assert.NoError(t, err)
	assert.Contains(t, stdout, `"alice"`)
	assert.Contains(t, stdout, `"acme"`)

	stdout, _, err = execute(t, "doctor", "query", "$.entities[1].salaries[0].net", path)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "1000")

	_, _, err = execute(t, "doctor", "query", "$.entities[", path)
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	path := writeScenario(t, month)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	runs := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, path, &out, func() { runs <- struct{}{} })
	}()

	wait := func() {
		t.Helper()
		select {
		case <-runs:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a run")
		}
	}

	wait()
	assert.NoError(t, os.WriteFile(path, []byte(month+"\n"), 0600))
	wait()

	cancel()
	assert.NoError(t, <-done)
	assert.Contains(t, out.String(), "Watching")
	assert.Contains(t, out.String(), "scenario.yaml changed")
}

func TestErrorRenderer(t *testing.T) {
	t.Run("FieldError", func(t *testing.T) {
		r := NewErrorRenderer(nil)
		out := r.Render(&scenario.FieldError{Field: "days", Message: "must be positive, got 0"})
		assert.Contains(t, out, "days")
		assert.Contains(t, out, "must be positive, got 0")
	})

	t.Run("SourceLine", func(t *testing.T) {
		source := []byte("a: 1\nb: 2\nc: 3\nd: 4\ne: 5\nf: 6\ng: 7\n")
		r := NewErrorRenderer(source)
		out := r.Render(errors.New("line 3: broken"))
		assert.Contains(t, out, "line 3: broken")
		assert.Contains(t, out, " > ")
		for _, shown := range []string{"a: 1", "c: 3", "e: 5"} {
			assert.Contains(t, out, shown)
		}
		assert.NotContains(t, out, "f: 6")
		assert.NotContains(t, out, "g: 7")
	})

	t.Run("RenderAll", func(t *testing.T) {
		r := NewErrorRenderer(nil)
		out := r.RenderAll([]error{errors.New("first"), errors.New("second")})
		assert.Contains(t, out, "first")
		assert.Contains(t, out, "second")
		assert.Equal(t, "", r.RenderAll(nil))
	})
}
