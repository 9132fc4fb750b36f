package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/cnab-must-flow/internal/cnab"
	"github.com/Veraticus/cnab-must-flow/internal/model"
)

func cnabLine(txType, amount, clock, owner, store string) string {
	pad := func(s string, width int) string {
		return s + strings.Repeat(" ", width-len([]rune(s)))
	}
	return txType + "20190301" + amount + "12345678901" + "123456789012" + clock + pad(owner, 14) + pad(store, 18)
}

func newTestImporter() (*Importer, *mockStoreRepository, *mockTransactionRepository) {
	stores := &mockStoreRepository{}
	txns := &mockTransactionRepository{}
	return New(stores, txns, Config{Location: saoPaulo}), stores, txns
}

func TestImporter_Import_MixedFile(t *testing.T) {
	valid := cnabLine("1", "0000012345", "123000", "JOSE DA SILVA", "PADARIA DO ZE")
	invalidType := cnabLine("X", "0000012345", "123000", "JOSE DA SILVA", "PADARIA DO ZE")
	duplicate := cnabLine("4", "0000005000", "090000", "JOAO MACEDO", "BAR DO JOAO")

	im, stores, txns := newTestImporter()
	ctx := context.Background()

	stores.On("LookupExistingStores", mock.Anything,
		[]string{"padaria do ze - jose da silva", "bar do joao - joao macedo"}).
		Return(map[string]*model.Store{
			"bar do joao - joao macedo": {ID: 7, Name: "BAR DO JOAO", Owner: "JOAO MACEDO"},
		}, nil)
	stores.On("CreateStores", mock.Anything, mock.MatchedBy(func(s []*model.Store) bool {
		return len(s) == 1 && s[0].Name == "PADARIA DO ZE"
	})).Return(nil)
	txns.On("ExistingHashes", mock.Anything, []string{model.HashLine(valid), model.HashLine(duplicate)}).
		Return(map[string]struct{}{model.HashLine(duplicate): {}}, nil)
	txns.On("CreateTransactions", mock.Anything, mock.MatchedBy(func(t []model.Transaction) bool {
		return len(t) == 1 && t[0].Hash == model.HashLine(valid) && t[0].StoreID == 101
	})).Return(nil)

	summary, err := im.Import(ctx, []string{valid, invalidType, duplicate})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Invalid)
	assert.Equal(t, 1, summary.Duplicate)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, cnab.CodeInvalidType, summary.Errors[0].Code)
	assert.Equal(t, 2, summary.Errors[0].Line)
	assert.Equal(t, []model.StoreImportCount{{Store: "padaria do ze - jose da silva", Count: 1}}, summary.Stores)

	stores.AssertExpectations(t)
	txns.AssertExpectations(t)
}

func TestImporter_Import_SameStoreCreatedOnce(t *testing.T) {
	lines := []string{
		cnabLine("1", "0000010000", "100000", "JOSE DA SILVA", "PADARIA DO ZE"),
		cnabLine("2", "0000002000", "110000", "jose da silva", "padaria do ze"),
		cnabLine("6", "0000003000", "120000", "Jose da Silva", "Padaria do Ze"),
	}

	im, stores, txns := newTestImporter()

	stores.On("LookupExistingStores", mock.Anything, []string{"padaria do ze - jose da silva"}).
		Return(map[string]*model.Store{}, nil)
	stores.On("CreateStores", mock.Anything, mock.MatchedBy(func(s []*model.Store) bool {
		return len(s) == 1
	})).Return(nil).Once()
	txns.On("ExistingHashes", mock.Anything, mock.Anything).Return(map[string]struct{}{}, nil)

	var saved []model.Transaction
	txns.On("CreateTransactions", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]model.Transaction)
		}).
		Return(nil)

	summary, err := im.Import(context.Background(), lines)
	require.NoError(t, err)

	require.Len(t, saved, 3)
	for _, txn := range saved {
		assert.Same(t, saved[0].Store, txn.Store)
		assert.Equal(t, int64(101), txn.StoreID)
	}
	assert.Equal(t, "-20.00", saved[1].SignedAmount.StringFixed(2))
	assert.Equal(t, 3, summary.Imported)
	assert.Equal(t, []model.StoreImportCount{{Store: "padaria do ze - jose da silva", Count: 3}}, summary.Stores)

	stores.AssertExpectations(t)
}

func TestImporter_Import_AllInvalid(t *testing.T) {
	im, stores, txns := newTestImporter()

	summary, err := im.Import(context.Background(), []string{"", "short line"})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Imported)
	assert.Equal(t, 2, summary.Invalid)
	assert.Equal(t, 0, summary.Duplicate)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, cnab.CodeEmptyLine, summary.Errors[0].Code)
	assert.Equal(t, cnab.CodeInvalidLength, summary.Errors[1].Code)
	assert.Empty(t, summary.Stores)

	stores.AssertNotCalled(t, "LookupExistingStores", mock.Anything, mock.Anything)
	txns.AssertNotCalled(t, "ExistingHashes", mock.Anything, mock.Anything)
	txns.AssertNotCalled(t, "CreateTransactions", mock.Anything, mock.Anything)
}

func TestImporter_Import_AllDuplicates(t *testing.T) {
	line := cnabLine("1", "0000012345", "123000", "JOSE DA SILVA", "PADARIA DO ZE")

	im, stores, txns := newTestImporter()
	stores.On("LookupExistingStores", mock.Anything, mock.Anything).
		Return(map[string]*model.Store{
			"padaria do ze - jose da silva": {ID: 1, Name: "PADARIA DO ZE", Owner: "JOSE DA SILVA"},
		}, nil)
	txns.On("ExistingHashes", mock.Anything, mock.Anything).
		Return(map[string]struct{}{model.HashLine(line): {}}, nil)

	summary, err := im.Import(context.Background(), []string{line})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Imported)
	assert.Equal(t, 1, summary.Duplicate)
	assert.Empty(t, summary.Stores)
	stores.AssertNotCalled(t, "CreateStores", mock.Anything, mock.Anything)
	txns.AssertNotCalled(t, "CreateTransactions", mock.Anything, mock.Anything)
}

func TestImporter_Import_StorageErrorsAbort(t *testing.T) {
	line := cnabLine("1", "0000012345", "123000", "JOSE DA SILVA", "PADARIA DO ZE")
	errBoom := errors.New("boom")

	tests := []struct {
		setup func(*mockStoreRepository, *mockTransactionRepository)
		name  string
	}{
		{
			name: "store lookup fails",
			setup: func(s *mockStoreRepository, _ *mockTransactionRepository) {
				s.On("LookupExistingStores", mock.Anything, mock.Anything).Return(nil, errBoom)
			},
		},
		{
			name: "store creation fails",
			setup: func(s *mockStoreRepository, _ *mockTransactionRepository) {
				s.On("LookupExistingStores", mock.Anything, mock.Anything).Return(map[string]*model.Store{}, nil)
				s.On("CreateStores", mock.Anything, mock.Anything).Return(errBoom)
			},
		},
		{
			name: "hash lookup fails",
			setup: func(s *mockStoreRepository, tx *mockTransactionRepository) {
				s.On("LookupExistingStores", mock.Anything, mock.Anything).Return(map[string]*model.Store{}, nil)
				s.On("CreateStores", mock.Anything, mock.Anything).Return(nil)
				tx.On("ExistingHashes", mock.Anything, mock.Anything).Return(nil, errBoom)
			},
		},
		{
			name: "transaction insert fails",
			setup: func(s *mockStoreRepository, tx *mockTransactionRepository) {
				s.On("LookupExistingStores", mock.Anything, mock.Anything).Return(map[string]*model.Store{}, nil)
				s.On("CreateStores", mock.Anything, mock.Anything).Return(nil)
				tx.On("ExistingHashes", mock.Anything, mock.Anything).Return(map[string]struct{}{}, nil)
				tx.On("CreateTransactions", mock.Anything, mock.Anything).Return(errBoom)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im, stores, txns := newTestImporter()
			tt.setup(stores, txns)

			summary, err := im.Import(context.Background(), []string{line})
			require.Error(t, err)
			assert.ErrorIs(t, err, errBoom)
			assert.Nil(t, summary)
		})
	}
}

func TestImporter_Import_Canceled(t *testing.T) {
	im, stores, _ := newTestImporter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := im.Import(ctx, []string{cnabLine("1", "0000012345", "123000", "JOSE DA SILVA", "PADARIA DO ZE")})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, summary)
	stores.AssertNotCalled(t, "LookupExistingStores", mock.Anything, mock.Anything)
}

func TestImporter_Parse(t *testing.T) {
	im, _, _ := newTestImporter()

	records, validationErrors, err := im.Parse(context.Background(), []string{
		cnabLine("1", "0000012345", "123000", "JOSE DA SILVA", "PADARIA DO ZE"),
		cnabLine("0", "0000012345", "123000", "JOSE DA SILVA", "PADARIA DO ZE"),
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].LineNumber)
	require.Len(t, validationErrors, 1)
	assert.Equal(t, cnab.CodeUnknownType, validationErrors[0].Code)
}
