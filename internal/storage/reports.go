package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/cnab-must-flow/internal/model"
)

// StoreBalances returns every store with the sum of its signed amounts,
// ordered by store name.
func (s *SQLiteStorage) StoreBalances(ctx context.Context) ([]model.StoreBalance, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.owner,
		       COALESCE(SUM(t.signed_amount_cents), 0),
		       COUNT(t.id)
		FROM stores s
		LEFT JOIN transactions t ON t.store_id = s.id
		GROUP BY s.id, s.name, s.owner
		ORDER BY s.name COLLATE NOCASE ASC, s.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query store balances: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var balances []model.StoreBalance
	for rows.Next() {
		var b model.StoreBalance
		var cents int64
		if err := rows.Scan(&b.Store.ID, &b.Store.Name, &b.Store.Owner, &cents, &b.TransactionCount); err != nil {
			return nil, fmt.Errorf("failed to scan store balance: %w", err)
		}
		b.Balance = model.AmountFromCents(cents)
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// SaveImportRun records a finished import.
func (s *SQLiteStorage) SaveImportRun(ctx context.Context, run *model.ImportRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateImportRun(run); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO import_runs (id, source, lines, imported, invalid, duplicate, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.Lines, run.Imported, run.Invalid, run.Duplicate,
		run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save import run: %w", classifyError(err))
	}
	return nil
}

// ImportRuns returns the most recent imports first. A non-positive limit
// returns every run.
func (s *SQLiteStorage) ImportRuns(ctx context.Context, limit int) ([]model.ImportRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, source, lines, imported, invalid, duplicate, started_at, finished_at
		FROM import_runs
		ORDER BY started_at DESC, id ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.ImportRun
	for rows.Next() {
		var run model.ImportRun
		if err := rows.Scan(&run.ID, &run.Source, &run.Lines, &run.Imported, &run.Invalid,
			&run.Duplicate, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		run.StartedAt = run.StartedAt.UTC()
		run.FinishedAt = run.FinishedAt.UTC()
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
