package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/cnab-must-flow/internal/model"
)

// ExistingHashes returns the subset of hashes already stored. An empty input
// never reaches the database.
func (s *SQLiteStorage) ExistingHashes(ctx context.Context, hashes []string) (map[string]struct{}, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	existing := make(map[string]struct{})
	for _, batch := range chunk(hashes, maxQueryParams) {
		query := `SELECT hash FROM transactions WHERE hash IN (` + placeholders(len(batch)) + `)`

		rows, err := s.db.QueryContext(ctx, query, toArgs(batch)...)
		if err != nil {
			return nil, fmt.Errorf("failed to query transaction hashes: %w", err)
		}

		for rows.Next() {
			var hash string
			if err := rows.Scan(&hash); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to scan transaction hash: %w", err)
			}
			existing[hash] = struct{}{}
		}
		err = rows.Err()
		_ = rows.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read transaction hashes: %w", err)
		}
	}
	return existing, nil
}

// CreateTransactions inserts transactions in a single transaction and assigns
// their IDs. A hash collision rolls back the whole batch.
func (s *SQLiteStorage) CreateTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	ids := make([]int64, len(transactions))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO transactions (
				store_id, transaction_type, amount_cents, signed_amount_cents,
				occurred_at, tax_id, card, hash
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for i, txn := range transactions {
			res, err := stmt.ExecContext(ctx,
				txn.StoreID,
				int(txn.Type),
				model.AmountToCents(txn.Amount),
				model.AmountToCents(txn.SignedAmount),
				txn.OccurredAt.UTC(),
				txn.TaxID,
				txn.Card,
				txn.Hash,
			)
			if err != nil {
				return fmt.Errorf("failed to insert transaction %s: %w", txn.Hash, classifyError(err))
			}
			if ids[i], err = res.LastInsertId(); err != nil {
				return fmt.Errorf("failed to read transaction id: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for i := range transactions {
		transactions[i].ID = ids[i]
	}
	return nil
}

// TransactionsByStore returns every transaction of a store ordered by occurrence.
func (s *SQLiteStorage) TransactionsByStore(ctx context.Context, storeID int64) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, store_id, transaction_type, amount_cents, signed_amount_cents,
		       occurred_at, tax_id, card, hash
		FROM transactions
		WHERE store_id = ?
		ORDER BY occurred_at ASC, id ASC
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var txType int
		var amountCents, signedCents int64
		if err := rows.Scan(&txn.ID, &txn.StoreID, &txType, &amountCents, &signedCents,
			&txn.OccurredAt, &txn.TaxID, &txn.Card, &txn.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Type = model.TransactionType(txType)
		txn.Amount = model.AmountFromCents(amountCents)
		txn.SignedAmount = model.AmountFromCents(signedCents)
		txn.OccurredAt = txn.OccurredAt.UTC()
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}
