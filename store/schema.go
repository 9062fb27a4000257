package store

// Schema creates the tables of a store. Amounts are stored as decimal text so
// they read back exactly.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	start TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS balances (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	date TEXT NOT NULL,
	node TEXT NOT NULL,
	account TEXT NOT NULL,
	balance TEXT NOT NULL,
	total TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS journal (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	seq INTEGER NOT NULL,
	date TEXT NOT NULL,
	node TEXT NOT NULL,
	description TEXT NOT NULL,
	account TEXT NOT NULL,
	amount TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_balances_run ON balances(run_id, node, account, date);
CREATE INDEX IF NOT EXISTS idx_journal_run ON journal(run_id, seq);
`
