package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/cnab-must-flow/internal/cli"
	"github.com/Veraticus/cnab-must-flow/internal/common"
	"github.com/Veraticus/cnab-must-flow/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates on startup; use this to prepare a database ahead
of time or to check which version it is at.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	slog.Info("Starting database migration",
		"database", cfg.DatabasePath,
		"status_only", status)

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if status {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		line := fmt.Sprintf("schema version %d of %d", current, storage.ExpectedSchemaVersion)
		if current < storage.ExpectedSchemaVersion {
			line = cli.FormatWarning(line + ", run `cnab migrate` to update")
		} else {
			line = cli.FormatSuccess(line)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cfg.DatabasePath, line))
		return err
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	common.LogInfo("Database migrations completed", common.Fields{
		"database": cfg.DatabasePath,
		"version":  storage.ExpectedSchemaVersion,
	})
	return nil
}
