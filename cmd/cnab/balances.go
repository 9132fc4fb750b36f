package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/cnab-must-flow/internal/cli"
)

func balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show the balance of every store",
		Long: `Show every imported store with its number of transactions and its balance,
the sum of entries minus the sum of exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			balances, err := store.StoreBalances(ctx)
			if err != nil {
				return fmt.Errorf("failed to load store balances: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBalances(balances))
			return err
		},
	}
}
