// Package storage provides the data persistence layer for the cnab application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/cnab-must-flow/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidStore       = errors.New("invalid store")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidImportRun   = errors.New("invalid import run")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func normalizeIdentifier(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// validateStores validates a slice of stores.
func validateStores(stores []*model.Store) error {
	if stores == nil {
		return fmt.Errorf("%w: stores", ErrNilParameter)
	}
	if len(stores) == 0 {
		return fmt.Errorf("%w: stores", ErrEmptySlice)
	}

	for i, store := range stores {
		if store == nil {
			return fmt.Errorf("store at index %d: %w", i, ErrNilParameter)
		}
		if strings.TrimSpace(store.Name) == "" {
			return fmt.Errorf("store at index %d: %w: missing name", i, ErrInvalidStore)
		}
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn.StoreID == 0 {
		return fmt.Errorf("%w: missing store", ErrInvalidTransaction)
	}
	if !txn.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %d", ErrInvalidTransaction, int(txn.Type))
	}
	if txn.OccurredAt.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.Hash == "" {
		return fmt.Errorf("%w: missing hash", ErrInvalidTransaction)
	}
	if txn.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount", ErrInvalidTransaction)
	}
	return nil
}

// validateImportRun validates an import run.
func validateImportRun(run *model.ImportRun) error {
	if run == nil {
		return fmt.Errorf("%w: import run", ErrNilParameter)
	}
	if run.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidImportRun)
	}
	if run.StartedAt.IsZero() || run.FinishedAt.IsZero() {
		return fmt.Errorf("%w: missing timestamps", ErrInvalidImportRun)
	}
	if run.FinishedAt.Before(run.StartedAt) {
		return fmt.Errorf("%w: finished before it started", ErrInvalidImportRun)
	}
	return nil
}
