package cli

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	Format    string `help:"Error output format." enum:"text,json" default:"text"`
}

type Commands struct {
	Globals

	Run      RunCmd      `cmd:"" help:"Simulate a scenario and report balances."`
	Check    CheckCmd    `cmd:"" help:"Validate a scenario file and build its initial state."`
	Init     InitCmd     `cmd:"" help:"Write an example scenario file."`
	Accounts AccountsCmd `cmd:"" help:"Show the ledgers of every bank account on a given day."`
	Report   ReportCmd   `cmd:"" help:"Summarise a simulated scenario as a markdown report."`
	Rate     RateCmd     `cmd:"" help:"Show how an interest rate accrues on one day."`
	Tax      TaxCmd      `cmd:"" help:"Show the tax due on a taxable amount, band by band."`
	Doctor   DoctorCmd   `cmd:"" help:"Doctor utilities for debugging scenarios and stored runs."`
}
