package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/cnab-must-flow/internal/common"
	"github.com/Veraticus/cnab-must-flow/internal/storage"
	"github.com/Veraticus/cnab-must-flow/internal/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func useDatabase(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "cnab.db")
	viper.Set("database.path", dbPath)
	viper.Set("import.timezone", "America/Sao_Paulo")
	t.Cleanup(viper.Reset)
	return dbPath
}

func executeImport(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := importCmd()
	cmd.SetContext(context.Background())
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--no-progress"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestExpandPatterns(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "cnab_01.txt", "")
	b := writeFile(t, dir, "cnab_02.txt", "")
	writeFile(t, dir, "notes.md", "")

	files, err := expandPatterns([]string{filepath.Join(dir, "cnab_*.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)

	files, err = expandPatterns([]string{a, filepath.Join(dir, "missing_*.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)

	_, err = expandPatterns([]string{filepath.Join(dir, "missing.txt")})
	assert.ErrorIs(t, err, common.ErrNoInput)

	_, err = expandPatterns([]string{"[invalid"})
	assert.Error(t, err)
}

func TestRunImport(t *testing.T) {
	dbPath := useDatabase(t)
	dir := t.TempDir()

	padaria := testutil.DefaultLine()
	invalid := testutil.DefaultLine().With(func(l *testutil.Line) { l.Time = "250000" })
	path := writeFile(t, dir, "march.txt", testutil.File(padaria, invalid))

	out, err := executeImport(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "march.txt")
	assert.Contains(t, out, "imported 1")
	assert.Contains(t, out, "CNAB_INVALID_TIME")

	out, err = executeImport(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 0")
	assert.Contains(t, out, "duplicate 1")

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runs, err := store.ImportRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	balances, err := store.StoreBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, "123.45", balances[0].Balance.StringFixed(2))
}

func TestRunImport_DryRun(t *testing.T) {
	dbPath := useDatabase(t)
	path := writeFile(t, t.TempDir(), "march.txt", testutil.File(testutil.DefaultLine()))

	out, err := executeImport(t, "--dry-run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "march.txt (dry run)")
	assert.Contains(t, out, "valid 1")

	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr), "dry run must not create the database")
}

func TestRunImport_UnreadableFileFails(t *testing.T) {
	useDatabase(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", testutil.File(testutil.DefaultLine()))
	sub := filepath.Join(dir, "folder.txt")
	require.NoError(t, os.Mkdir(sub, 0o700))

	out, err := executeImport(t, good, sub)

	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.UserMessage, "1 of 2 files")
	assert.Contains(t, out, "good.txt")
}
