package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mybudget/mybudget/internal/cli"
	"github.com/mybudget/mybudget/internal/model"
	"github.com/mybudget/mybudget/internal/ofx"
)

func importCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "import <file.ofx>",
		Short: "Import transactions from an OFX bank statement",
		Long: `Import reads an OFX/QFX statement exported from a bank and records
its transactions under the given category. Debits become expenses and
credits become incomes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			categoryID, err := resolveCategory(ctx, svc.store, category)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open OFX file: %w", err)
			}
			defer func() { _ = f.Close() }()

			entries, err := ofx.NewParser().ParseFile(ctx, f)
			if err != nil {
				return fmt.Errorf("failed to parse OFX file: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintf(os.Stdout, "%s\n", cli.SubtleStyle.Render("Aucune transaction dans le fichier."))
				return nil
			}

			imported := 0
			for _, entry := range entries {
				txn, err := model.NewTransaction(entry.Amount, entry.Description, entry.Type, categoryID, entry.Date)
				if err != nil {
					fmt.Fprintf(os.Stdout, "%s\n", cli.WarningStyle.Render(
						fmt.Sprintf("Transaction ignorée (%s) : %v", entry.Description, err)))
					continue
				}
				if _, err := svc.ledger.Add(ctx, txn); err != nil {
					return fmt.Errorf("failed to record imported transaction: %w", err)
				}
				imported++
			}

			fmt.Fprintf(os.Stdout, "%s\n", cli.SuccessStyle.Render(
				fmt.Sprintf("%d transactions importées dans %s", imported, category)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "autres", "category for imported transactions")

	return cmd
}
