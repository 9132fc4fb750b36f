// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/cnab-must-flow/internal/model"
)

// StoreRepository resolves and creates stores by canonical identifier.
type StoreRepository interface {
	// LookupExistingStores returns the stores already persisted for the given
	// canonical identifiers. Unknown identifiers are simply absent.
	LookupExistingStores(ctx context.Context, identifiers []string) (map[string]*model.Store, error)
	// CreateStores persists stores and assigns their IDs in place. It fails
	// atomically when any identifier already exists.
	CreateStores(ctx context.Context, stores []*model.Store) error
}

// TransactionRepository persists transactions keyed by content hash.
type TransactionRepository interface {
	// ExistingHashes returns the subset of hashes that are already stored.
	ExistingHashes(ctx context.Context, hashes []string) (map[string]struct{}, error)
	// CreateTransactions persists transactions. It fails atomically when any
	// hash already exists.
	CreateTransactions(ctx context.Context, transactions []model.Transaction) error
}

// ReportRepository answers read-only questions about imported data.
type ReportRepository interface {
	StoreBalances(ctx context.Context) ([]model.StoreBalance, error)
	ImportRuns(ctx context.Context, limit int) ([]model.ImportRun, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	StoreRepository
	TransactionRepository
	ReportRepository

	SaveImportRun(ctx context.Context, run *model.ImportRun) error

	// Database management
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	Close() error
}
