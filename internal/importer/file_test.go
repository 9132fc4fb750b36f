package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/cnab-must-flow/internal/cnab"
	"github.com/Veraticus/cnab-must-flow/internal/common"
	"github.com/Veraticus/cnab-must-flow/internal/model"
	"github.com/Veraticus/cnab-must-flow/internal/testutil"
)

func newFileImporter(db *testutil.TestDB) *FileImporter {
	im := New(
		NewLoggingStoreRepository(db.Storage, nil),
		NewLoggingTransactionRepository(db.Storage, nil),
		Config{Location: saoPaulo},
	)
	return NewFileImporter(im, db.Storage)
}

func TestFileImporter_ImportContent_EndToEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fi := newFileImporter(db)
	ctx := context.Background()

	padaria := testutil.DefaultLine()
	bar := testutil.DefaultLine().With(func(l *testutil.Line) {
		l.Type = "3"
		l.Amount = "0000014200"
		l.Owner = "JOÃO MACEDO"
		l.Store = "BAR DO JOÃO"
	})
	invalid := testutil.DefaultLine().With(func(l *testutil.Line) { l.Date = "20190230" })

	summary, err := fi.ImportContent(ctx, "first.txt", []byte(testutil.File(padaria, bar, invalid)))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 1, summary.Invalid)
	assert.Equal(t, 0, summary.Duplicate)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, cnab.CodeInvalidDate, summary.Errors[0].Code)
	assert.Equal(t, 3, summary.Errors[0].Line)
	assert.Equal(t, []model.StoreImportCount{
		{Store: "padaria do ze - jose da silva", Count: 1},
		{Store: "bar do joão - joão macedo", Count: 1},
	}, summary.Stores)

	balances := db.MustBalances()
	assert.Equal(t, "123.45", balances["padaria do ze - jose da silva"].Balance.StringFixed(2))
	assert.Equal(t, "-142.00", balances["bar do joão - joão macedo"].Balance.StringFixed(2))

	stored, err := db.Storage.TransactionsByStore(ctx, balances["padaria do ze - jose da silva"].Store.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].OccurredAt.Equal(time.Date(2019, 3, 1, 15, 30, 0, 0, time.UTC)))

	// Re-importing the same file only reports duplicates.
	again, err := fi.ImportContent(ctx, "again.txt", []byte(testutil.File(padaria, bar, invalid)))
	require.NoError(t, err)
	assert.Equal(t, 0, again.Imported)
	assert.Equal(t, 2, again.Duplicate)
	assert.Equal(t, 1, again.Invalid)
	assert.Empty(t, again.Stores)

	runs, err := db.Storage.ImportRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	sources := []string{runs[0].Source, runs[1].Source}
	assert.ElementsMatch(t, []string{"first.txt", "again.txt"}, sources)
}

func TestFileImporter_ImportContent_ReusesExistingStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	existing := db.MustCreateStore("Padaria do Ze", "Jose da Silva")
	fi := newFileImporter(db)

	summary, err := fi.ImportContent(context.Background(), "cnab.txt", []byte(testutil.File(testutil.DefaultLine())))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)

	balances := db.MustBalances()
	require.Len(t, balances, 1)
	assert.Equal(t, existing.ID, balances[existing.Identifier()].Store.ID)
	assert.Equal(t, "Padaria do Ze", balances[existing.Identifier()].Store.Name, "stored casing is kept")
}

func TestFileImporter_ImportContent_RepeatedLineInOneFile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fi := newFileImporter(db)
	line := testutil.DefaultLine()

	summary, err := fi.ImportContent(context.Background(), "cnab.txt", []byte(testutil.File(line, line)))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Duplicate)
}

func TestFileImporter_ImportContent_EmptyFile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fi := newFileImporter(db)

	summary, err := fi.ImportContent(context.Background(), "empty.txt", nil)
	assert.Nil(t, summary)
	assert.True(t, errors.Is(err, common.ErrNoInput))
}

type failingRecorder struct{}

func (failingRecorder) SaveImportRun(context.Context, *model.ImportRun) error {
	return errors.New("audit table unavailable")
}

func TestFileImporter_ImportContent_RecorderFailureKeepsSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	im := New(db.Storage, db.Storage, Config{Location: saoPaulo})
	fi := NewFileImporter(im, failingRecorder{})

	summary, err := fi.ImportContent(context.Background(), "cnab.txt", []byte(testutil.File(testutil.DefaultLine())))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
}
