package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mybudget/mybudget/internal/cli"
	"github.com/mybudget/mybudget/internal/common"
	"github.com/mybudget/mybudget/internal/model"
	"github.com/mybudget/mybudget/internal/service"
)

func addCmd() *cobra.Command {
	var (
		amount      float64
		description string
		txnType     string
		category    string
		dateStr     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new transaction",
		Long: `Record a new expense or income transaction.

After recording an expense, every budget covering the transaction date is
checked and alerts are printed when a budget is exceeded or near its limit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			day := time.Now()
			if dateStr != "" {
				if day, err = parseDate(dateStr); err != nil {
					return err
				}
			}

			categoryID, err := resolveCategory(ctx, svc.store, category)
			if err != nil {
				return err
			}

			txn, err := model.NewTransaction(amount, description, model.TransactionType(txnType), categoryID, day)
			if err != nil {
				return err
			}

			id, err := svc.ledger.Add(ctx, txn)
			if err != nil {
				return fmt.Errorf("failed to record transaction: %w", err)
			}

			fmt.Fprintf(os.Stdout, "%s\n", cli.SuccessStyle.Render(
				fmt.Sprintf("Transaction #%d enregistrée : %s (%s)", id, description, cli.FormatAmount(amount))))

			if txn.Type == model.TypeExpense {
				alerts, err := svc.alerts.Evaluate(ctx, categoryID, txn.Date)
				if err != nil {
					slog.Warn("budget alert evaluation failed", "error", err)
					return nil
				}
				if len(alerts) > 0 {
					byID, err := categoryNames(ctx, svc.store)
					if err != nil {
						return err
					}
					fmt.Fprint(os.Stdout, cli.RenderAlerts(alerts, byID))
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "transaction amount (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "transaction description (required)")
	cmd.Flags().StringVarP(&txnType, "type", "t", "expense", "transaction type (expense, income)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name (required)")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func listCmd() *cobra.Command {
	var (
		category string
		txnType  string
		fromStr  string
		toStr    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			filter := service.TransactionFilter{}
			if category != "" {
				id, err := resolveCategory(ctx, svc.store, category)
				if err != nil {
					return err
				}
				filter.CategoryID = &id
			}
			if txnType != "" {
				typ := model.TransactionType(txnType)
				if !typ.Valid() {
					return fmt.Errorf("invalid type %q (expected expense or income)", txnType)
				}
				filter.Type = &typ
			}
			if fromStr != "" {
				from, err := parseDate(fromStr)
				if err != nil {
					return err
				}
				filter.StartDate = &from
			}
			if toStr != "" {
				to, err := parseDate(toStr)
				if err != nil {
					return err
				}
				filter.EndDate = &to
			}

			txns, err := svc.ledger.List(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}
			byID, err := categoryNames(ctx, svc.store)
			if err != nil {
				return err
			}

			fmt.Fprint(os.Stdout, cli.RenderTransactionTable(txns, byID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category name")
	cmd.Flags().StringVarP(&txnType, "type", "t", "", "filter by type (expense, income)")
	cmd.Flags().StringVar(&fromStr, "from", "", "earliest date YYYY-MM-DD")
	cmd.Flags().StringVar(&toStr, "to", "", "latest date YYYY-MM-DD")

	return cmd
}

func updateCmd() *cobra.Command {
	var (
		amount      float64
		description string
		txnType     string
		category    string
		dateStr     string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an existing transaction",
		Long: `Update replaces the stored transaction with new values.
Flags that are not provided keep the existing values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			existing, err := svc.ledger.Get(ctx, id)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return fmt.Errorf("transaction #%d not found", id)
				}
				return err
			}

			newAmount := existing.Amount
			if cmd.Flags().Changed("amount") {
				newAmount = amount
			}
			newDescription := existing.Description
			if cmd.Flags().Changed("description") {
				newDescription = description
			}
			newType := existing.Type
			if cmd.Flags().Changed("type") {
				newType = model.TransactionType(txnType)
			}
			newCategoryID := existing.CategoryID
			if cmd.Flags().Changed("category") {
				if newCategoryID, err = resolveCategory(ctx, svc.store, category); err != nil {
					return err
				}
			}
			newDate := existing.Date
			if cmd.Flags().Changed("date") {
				if newDate, err = parseDate(dateStr); err != nil {
					return err
				}
			}

			replacement, err := model.NewTransaction(newAmount, newDescription, newType, newCategoryID, newDate)
			if err != nil {
				return err
			}

			updated, err := svc.ledger.Update(ctx, id, replacement)
			if err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}
			if !updated {
				return fmt.Errorf("transaction #%d not found", id)
			}

			fmt.Fprintf(os.Stdout, "%s\n", cli.SuccessStyle.Render(fmt.Sprintf("Transaction #%d mise à jour", id)))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "new amount")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&txnType, "type", "t", "", "new type (expense, income)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category name")
	cmd.Flags().StringVar(&dateStr, "date", "", "new date YYYY-MM-DD")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			deleted, err := svc.ledger.Delete(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}
			if !deleted {
				return fmt.Errorf("transaction #%d not found", id)
			}

			fmt.Fprintf(os.Stdout, "%s\n", cli.SuccessStyle.Render(fmt.Sprintf("Transaction #%d supprimée", id)))
			return nil
		},
	}
}
