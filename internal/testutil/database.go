// Package testutil provides test utilities for the cnab-must-flow project.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/cnab-must-flow/internal/model"
	"github.com/Veraticus/cnab-must-flow/internal/storage"
)

// TestDB represents a migrated in-memory test database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	s, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return &TestDB{
		Storage: s,
		t:       t,
	}
}

// MustCreateStore persists a store or fails the test.
func (db *TestDB) MustCreateStore(name, owner string) *model.Store {
	db.t.Helper()

	store := model.NewStore(name, owner)
	if err := db.Storage.CreateStores(context.Background(), []*model.Store{store}); err != nil {
		db.t.Fatalf("failed to create store %q: %v", store.Identifier(), err)
	}
	return store
}

// MustBalances returns the current store balances keyed by canonical identifier.
func (db *TestDB) MustBalances() map[string]model.StoreBalance {
	db.t.Helper()

	balances, err := db.Storage.StoreBalances(context.Background())
	if err != nil {
		db.t.Fatalf("failed to load balances: %v", err)
	}

	byID := make(map[string]model.StoreBalance, len(balances))
	for _, b := range balances {
		byID[b.Store.Identifier()] = b
	}
	return byID
}
