package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/cnab-must-flow/internal/model"
)

func TestSQLiteStorage_StoreBalances(t *testing.T) {
	s, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	padaria := createTestStore(t, s, "PADARIA DO ZE", "JOSE DA SILVA")
	bar := createTestStore(t, s, "BAR DO JOAO", "JOAO MACEDO")
	empty := createTestStore(t, s, "LOJA VAZIA", "NINGUEM")

	require.NoError(t, s.CreateTransactions(ctx, []model.Transaction{
		createTestTransaction(padaria, model.TypeDebit, 10000, "p1"),
		createTestTransaction(padaria, model.TypeRent, 2550, "p2"),
		createTestTransaction(bar, model.TypeFinancing, 14200, "b1"),
	}))

	balances, err := s.StoreBalances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 3)

	assert.Equal(t, bar.ID, balances[0].Store.ID)
	assert.Equal(t, "-142.00", balances[0].Balance.StringFixed(2))
	assert.Equal(t, 1, balances[0].TransactionCount)

	assert.Equal(t, empty.ID, balances[1].Store.ID)
	assert.True(t, balances[1].Balance.IsZero())
	assert.Equal(t, 0, balances[1].TransactionCount)

	assert.Equal(t, padaria.ID, balances[2].Store.ID)
	assert.Equal(t, "74.50", balances[2].Balance.StringFixed(2))
	assert.Equal(t, 2, balances[2].TransactionCount)
}

func TestSQLiteStorage_ImportRuns(t *testing.T) {
	s, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	older := model.ImportRun{
		ID: "run-1", Source: "jan.txt", Lines: 10, Imported: 8, Invalid: 1, Duplicate: 1,
		StartedAt: start, FinishedAt: start.Add(time.Second),
	}
	newer := model.ImportRun{
		ID: "run-2", Source: "feb.txt", Lines: 3, Imported: 3,
		StartedAt: start.Add(time.Hour), FinishedAt: start.Add(time.Hour + time.Second),
	}
	require.NoError(t, s.SaveImportRun(ctx, &older))
	require.NoError(t, s.SaveImportRun(ctx, &newer))

	runs, err := s.ImportRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, older.Source, runs[1].Source)
	assert.Equal(t, 8, runs[1].Imported)
	assert.True(t, runs[1].StartedAt.Equal(start))

	limited, err := s.ImportRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "run-2", limited[0].ID)
}

func TestSQLiteStorage_SaveImportRun_Validation(t *testing.T) {
	s, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	now := time.Now()

	assert.ErrorIs(t, s.SaveImportRun(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, s.SaveImportRun(ctx, &model.ImportRun{StartedAt: now, FinishedAt: now}), ErrInvalidImportRun)
	assert.ErrorIs(t, s.SaveImportRun(ctx, &model.ImportRun{ID: "x"}), ErrInvalidImportRun)
	assert.ErrorIs(t, s.SaveImportRun(ctx, &model.ImportRun{ID: "x", StartedAt: now, FinishedAt: now.Add(-time.Second)}), ErrInvalidImportRun)
}
