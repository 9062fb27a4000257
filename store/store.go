// Package store persists simulation runs to SQLite: the balance of every
// account per day and the journal entries booked along the way.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/finsim/date"
	"github.com/robinvdvleuten/finsim/ledger"
	"github.com/robinvdvleuten/finsim/simulator"
)

// Store is a SQLite database holding any number of runs.
type Store struct {
	db *sql.DB
}

// Open opens the database at path and creates the schema when missing.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RunOption configures a new run.
type RunOption func(*Run)

// WithRunID overrides the generated run ID.
func WithRunID(id string) RunOption {
	return func(r *Run) {
		r.ID = id
	}
}

// Run records the snapshots of one simulation.
type Run struct {
	ID    string
	Name  string
	Start date.Date

	store *Store
	last  date.Date
	seq   int
}

// NewRun registers a run starting on start. Run IDs are ULIDs unless set
// with WithRunID, so they sort by creation time.
func (s *Store) NewRun(ctx context.Context, name string, start date.Date, opts ...RunOption) (*Run, error) {
	r := &Run{ID: ulid.Make().String(), Name: name, Start: start, store: s}
	for _, opt := range opts {
		opt(r)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, name, start, created_at)
		VALUES (?, ?, ?, ?)`,
		r.ID, r.Name, r.Start.String(), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("create run %s: %w", r.ID, err)
	}
	return r, nil
}

// Record writes the balances of every booked actor in snap, and the journal
// entries dated after the previously recorded snapshot, closed periods
// included. The first call writes the whole journal up to snap's date,
// opening balances included.
func (r *Run) Record(ctx context.Context, snap simulator.Snapshot) (err error) {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	balances, err := tx.PrepareContext(ctx, `
		INSERT INTO balances (run_id, date, node, account, balance, total)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer balances.Close()

	entries, err := tx.PrepareContext(ctx, `
		INSERT INTO journal (run_id, seq, date, node, description, account, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer entries.Close()

	day := snap.Date.String()
	seq := r.seq
	for path, books := range simulator.Ledgers(snap.State) {
		node := path.String()

		var werr error
		books.Ledger().Walk(func(p ledger.Path, a *ledger.Account) {
			if werr != nil || len(p) == 0 {
				return
			}
			_, werr = balances.ExecContext(ctx, r.ID, day, node, p.String(), a.Balance(), a.TotalBalance())
		})
		if werr != nil {
			return fmt.Errorf("record balances of %s: %w", node, werr)
		}

		for i, journal := range append(books.History(), books.Journal()) {
			for j, txn := range journal {
				// Later periods open by carrying forward balances that are
				// already in the journal.
				if i > 0 && j == 0 {
					continue
				}
				if txn.Date().After(snap.Date) || (!r.last.IsZero() && !txn.Date().After(r.last)) {
					continue
				}
				seq++
				for _, c := range txn.Changes() {
					_, err := entries.ExecContext(ctx, r.ID, seq, txn.Date().String(), node, txn.Description(), c.Path.String(), c.Amount)
					if err != nil {
						return fmt.Errorf("record journal of %s: %w", node, err)
					}
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.last = snap.Date
	r.seq = seq
	return nil
}

// RunInfo describes a stored run.
type RunInfo struct {
	ID        string
	Name      string
	Start     date.Date
	CreatedAt time.Time
}

// Runs lists every stored run, oldest first.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id, name, start, created_at FROM runs ORDER BY run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var (
			info  RunInfo
			start string
		)
		if err := rows.Scan(&info.ID, &info.Name, &start, &info.CreatedAt); err != nil {
			return nil, err
		}
		if info.Start, err = date.Parse(start); err != nil {
			return nil, err
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// Series returns the recorded total balance of account at node per day.
func (s *Store) Series(ctx context.Context, runID, node string, account ledger.Path) ([]simulator.Point, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, total FROM balances
		WHERE run_id = ? AND node = ? AND account = ?
		ORDER BY date`,
		runID, node, account.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []simulator.Point
	for rows.Next() {
		var (
			day   string
			point simulator.Point
		)
		if err := rows.Scan(&day, &point.Balance); err != nil {
			return nil, err
		}
		if point.Date, err = date.Parse(day); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, rows.Err()
}

// Entry is one change of a recorded journal transaction.
type Entry struct {
	Seq         int
	Date        date.Date
	Node        string
	Description string
	Account     ledger.Path
	Amount      decimal.Decimal
}

// Journal returns the recorded journal of a run in booking order.
func (s *Store) Journal(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, date, node, description, account, amount FROM journal
		WHERE run_id = ?
		ORDER BY seq, rowid`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			day     string
			account string
		)
		if err := rows.Scan(&e.Seq, &day, &e.Node, &e.Description, &account, &e.Amount); err != nil {
			return nil, err
		}
		if e.Date, err = date.Parse(day); err != nil {
			return nil, err
		}
		e.Account = ledger.ParsePath(account)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
