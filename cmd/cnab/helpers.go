package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/cnab-must-flow/internal/config"
	"github.com/Veraticus/cnab-must-flow/internal/importer"
	"github.com/Veraticus/cnab-must-flow/internal/service"
	"github.com/Veraticus/cnab-must-flow/internal/storage"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// loadConfig resolves the typed configuration from viper.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context, cfg *config.Config) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newFileImporter wires the importer with logging repositories and import
// run recording.
func newFileImporter(store service.Storage, cfg *config.Config) *importer.FileImporter {
	log := slog.Default().With("component", "importer")

	im := importer.New(
		importer.NewLoggingStoreRepository(store, log),
		importer.NewLoggingTransactionRepository(store, log),
		importer.Config{Location: cfg.Location},
	)
	return importer.NewFileImporter(im, store)
}
