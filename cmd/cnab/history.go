package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/cnab-must-flow/internal/cli"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ImportRuns(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to load import history: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderImportRuns(runs))
			return err
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of imports to show (0 for all)")

	return cmd
}
