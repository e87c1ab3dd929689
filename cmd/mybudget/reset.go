package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mybudget/mybudget/internal/cli"
	"github.com/mybudget/mybudget/internal/service"
)

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all transactions and budgets",
		Long: `Reset removes every transaction and budget from the database.
Categories are kept and the default categories are restored if missing.

This is a destructive operation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			txns, err := svc.ledger.List(ctx, service.TransactionFilter{})
			if err != nil {
				return fmt.Errorf("failed to count transactions: %w", err)
			}
			budgets, err := svc.registry.List(ctx, nil)
			if err != nil {
				return fmt.Errorf("failed to count budgets: %w", err)
			}

			if len(txns) == 0 && len(budgets) == 0 {
				fmt.Fprintln(os.Stdout, "Nothing to reset.")
				return nil
			}

			if !force {
				fmt.Fprintf(os.Stdout, "This will delete %d transactions and %d budgets.\n", len(txns), len(budgets))
				fmt.Fprint(os.Stdout, "\nAre you sure you want to continue? [y/N]: ")

				var response string
				if _, err := fmt.Scanln(&response); err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				if response != "y" && response != "Y" {
					fmt.Fprintln(os.Stdout, "Reset canceled.")
					return nil
				}
			}

			if err := svc.store.Reset(ctx); err != nil {
				return fmt.Errorf("failed to reset database: %w", err)
			}

			fmt.Fprintf(os.Stdout, "%s\n", cli.SuccessStyle.Render(
				fmt.Sprintf("Base réinitialisée : %d transactions et %d budgets supprimés", len(txns), len(budgets))))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}
