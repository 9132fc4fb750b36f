package importer

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Veraticus/cnab-must-flow/internal/model"
)

type mockStoreRepository struct {
	mock.Mock
	nextID int64
}

func (m *mockStoreRepository) LookupExistingStores(ctx context.Context, identifiers []string) (map[string]*model.Store, error) {
	args := m.Called(ctx, identifiers)
	stores, _ := args.Get(0).(map[string]*model.Store)
	return stores, args.Error(1)
}

func (m *mockStoreRepository) CreateStores(ctx context.Context, stores []*model.Store) error {
	args := m.Called(ctx, stores)
	if err := args.Error(0); err != nil {
		return err
	}
	for _, s := range stores {
		m.nextID++
		s.ID = 100 + m.nextID
	}
	return nil
}

type mockTransactionRepository struct {
	mock.Mock
}

func (m *mockTransactionRepository) ExistingHashes(ctx context.Context, hashes []string) (map[string]struct{}, error) {
	args := m.Called(ctx, hashes)
	existing, _ := args.Get(0).(map[string]struct{})
	return existing, args.Error(1)
}

func (m *mockTransactionRepository) CreateTransactions(ctx context.Context, transactions []model.Transaction) error {
	args := m.Called(ctx, transactions)
	return args.Error(0)
}
