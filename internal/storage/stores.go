package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/cnab-must-flow/internal/model"
)

// LookupExistingStores returns the persisted stores matching the given
// canonical identifiers, keyed by identifier.
func (s *SQLiteStorage) LookupExistingStores(ctx context.Context, identifiers []string) (map[string]*model.Store, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	stores := make(map[string]*model.Store)
	for _, batch := range chunk(normalizeIdentifiers(identifiers), maxQueryParams) {
		query := `SELECT id, identifier, name, owner FROM stores WHERE identifier IN (` + placeholders(len(batch)) + `)`

		if err := s.scanStores(ctx, s.db, query, toArgs(batch), stores); err != nil {
			return nil, err
		}
	}
	return stores, nil
}

func (s *SQLiteStorage) scanStores(ctx context.Context, q queryable, query string, args []any, into map[string]*model.Store) error {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query stores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var identifier string
		store := &model.Store{}
		if err := rows.Scan(&store.ID, &identifier, &store.Name, &store.Owner); err != nil {
			return fmt.Errorf("failed to scan store: %w", err)
		}
		into[identifier] = store
	}
	return rows.Err()
}

// CreateStores inserts stores in a single transaction and assigns their IDs.
// If any insert fails nothing is written and no ID is assigned.
func (s *SQLiteStorage) CreateStores(ctx context.Context, stores []*model.Store) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateStores(stores); err != nil {
		return err
	}

	ids := make([]int64, len(stores))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO stores (identifier, name, owner) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for i, store := range stores {
			res, err := stmt.ExecContext(ctx, store.Identifier(), store.Name, store.Owner)
			if err != nil {
				return fmt.Errorf("failed to insert store %q: %w", store.Identifier(), classifyError(err))
			}
			if ids[i], err = res.LastInsertId(); err != nil {
				return fmt.Errorf("failed to read store id: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for i, store := range stores {
		store.ID = ids[i]
	}
	return nil
}

func normalizeIdentifiers(identifiers []string) []string {
	seen := make(map[string]struct{}, len(identifiers))
	out := make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		id = normalizeIdentifier(id)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
