package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mybudget/mybudget/internal/cli"
	"github.com/mybudget/mybudget/internal/service"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions and budget summaries",
	}
	cmd.AddCommand(exportCSVCmd())
	cmd.AddCommand(exportJSONCmd())
	cmd.AddCommand(exportBudgetCmd())
	return cmd
}

// openOutput returns the writer for a destination path, "-" meaning stdout.
func openOutput(path string) (*os.File, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func exportCSVCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export all transactions to CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if output == "" {
				output = fmt.Sprintf("transactions_%s.csv", time.Now().Format("2006-01-02"))
			}
			w, closeFn, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closeFn()

			count, err := svc.exporter.TransactionsCSV(ctx, w, service.TransactionFilter{})
			if err != nil {
				return fmt.Errorf("csv export failed: %w", err)
			}

			if output != "-" {
				fmt.Fprintf(os.Stdout, "%s\n", cli.SuccessStyle.Render(
					fmt.Sprintf("%d transactions exportées vers %s", count, output)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: transactions_<date>.csv, - for stdout)")

	return cmd
}

func exportJSONCmd() *cobra.Command {
	var (
		output string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "json",
		Short: "Export all transactions to JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if output == "" {
				output = fmt.Sprintf("transactions_%s.json", time.Now().Format("2006-01-02"))
			}
			w, closeFn, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closeFn()

			count, err := svc.exporter.TransactionsJSON(ctx, w, service.TransactionFilter{}, pretty)
			if err != nil {
				return fmt.Errorf("json export failed: %w", err)
			}

			if output != "-" {
				fmt.Fprintf(os.Stdout, "%s\n", cli.SuccessStyle.Render(
					fmt.Sprintf("%d transactions exportées vers %s", count, output)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: transactions_<date>.json, - for stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "indent the JSON output")

	return cmd
}

func exportBudgetCmd() *cobra.Command {
	var (
		category string
		monthStr string
		startStr string
		endStr   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Export a budget summary to JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			start, end, err := budgetPeriod(monthStr, startStr, endStr)
			if err != nil {
				return err
			}

			categoryID, err := resolveCategory(ctx, svc.store, category)
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("budget_%s_%s.json", category, start.Format("2006-01"))
			}
			w, closeFn, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closeFn()

			found, err := svc.exporter.BudgetSummaryJSON(ctx, w, categoryID, start, end)
			if err != nil {
				return fmt.Errorf("budget export failed: %w", err)
			}
			if !found {
				return fmt.Errorf("no budget for %s over %s to %s", category, cli.FormatDate(start), cli.FormatDate(end))
			}

			if output != "-" {
				fmt.Fprintf(os.Stdout, "%s\n", cli.SuccessStyle.Render("Résumé de budget exporté vers "+output))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category name (required)")
	cmd.Flags().StringVarP(&monthStr, "month", "m", "", "calendar month YYYY-MM (shortcut for --start/--end)")
	cmd.Flags().StringVar(&startStr, "start", "", "period start YYYY-MM-DD")
	cmd.Flags().StringVar(&endStr, "end", "", "period end YYYY-MM-DD")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: budget_<category>_<month>.json, - for stdout)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}
