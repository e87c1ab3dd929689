package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mybudget/mybudget/internal/cli"
	"github.com/mybudget/mybudget/internal/model"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage category budgets",
	}
	cmd.AddCommand(budgetCreateCmd())
	cmd.AddCommand(budgetStatusCmd())
	cmd.AddCommand(budgetListCmd())
	return cmd
}

// budgetPeriod resolves the --month shortcut or the explicit --start/--end pair.
func budgetPeriod(monthStr, startStr, endStr string) (time.Time, time.Time, error) {
	if monthStr != "" {
		m, err := time.Parse("2006-01", monthStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", monthStr)
		}
		start := time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		return start, end, nil
	}
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("either --month or both --start and --end are required")
	}
	start, err := parseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func budgetCreateCmd() *cobra.Command {
	var (
		category string
		amount   float64
		monthStr string
		startStr string
		endStr   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a budget for a category and period",
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

			b, err := model.NewBudget(categoryID, amount, start, end)
			if err != nil {
				return err
			}

			id, err := svc.registry.Create(ctx, b)
			if err != nil {
				return fmt.Errorf("failed to create budget: %w", err)
			}

			fmt.Fprintf(os.Stdout, "%s\n", cli.SuccessStyle.Render(fmt.Sprintf(
				"Budget #%d créé : %s pour %s (%s → %s)",
				id, cli.FormatAmount(amount), category,
				cli.FormatDate(start), cli.FormatDate(end))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category name (required)")
	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "budget amount (required)")
	cmd.Flags().StringVarP(&monthStr, "month", "m", "", "calendar month YYYY-MM (shortcut for --start/--end)")
	cmd.Flags().StringVar(&startStr, "start", "", "period start YYYY-MM-DD")
	cmd.Flags().StringVar(&endStr, "end", "", "period end YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func budgetStatusCmd() *cobra.Command {
	var (
		category string
		monthStr string
		startStr string
		endStr   string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show spending against a budget",
		Long: `Show how much of the budget for a category and period has been spent.

The period must match an existing budget exactly.`,
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

			status, err := svc.registry.Status(ctx, categoryID, start, end)
			if err != nil {
				return fmt.Errorf("failed to compute budget status: %w", err)
			}
			if status == nil {
				fmt.Fprintf(os.Stdout, "%s\n", cli.SubtleStyle.Render(fmt.Sprintf(
					"Aucun budget %s pour la période %s → %s.",
					category, cli.FormatDate(start), cli.FormatDate(end))))
				return nil
			}

			fmt.Fprint(os.Stdout, cli.RenderBudgetStatus(status, category))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category name (required)")
	cmd.Flags().StringVarP(&monthStr, "month", "m", "", "calendar month YYYY-MM (shortcut for --start/--end)")
	cmd.Flags().StringVar(&startStr, "start", "", "period start YYYY-MM-DD")
	cmd.Flags().StringVar(&endStr, "end", "", "period end YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func budgetListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets with their current status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var categoryID *int
			if category != "" {
				id, err := resolveCategory(ctx, svc.store, category)
				if err != nil {
					return err
				}
				categoryID = &id
			}

			budgets, err := svc.registry.List(ctx, categoryID)
			if err != nil {
				return fmt.Errorf("failed to list budgets: %w", err)
			}
			if len(budgets) == 0 {
				fmt.Fprintf(os.Stdout, "%s\n", cli.SubtleStyle.Render("Aucun budget défini."))
				return nil
			}

			byID, err := categoryNames(ctx, svc.store)
			if err != nil {
				return err
			}

			for i := range budgets {
				b := &budgets[i]
				status, err := svc.registry.Status(ctx, b.CategoryID, b.PeriodStart, b.PeriodEnd)
				if err != nil {
					return fmt.Errorf("failed to compute budget status: %w", err)
				}
				if status == nil {
					continue
				}
				name := byID[b.CategoryID]
				if name == "" {
					name = fmt.Sprintf("#%d", b.CategoryID)
				}
				fmt.Fprintf(os.Stdout, "%s\n%s\n",
					cli.SubtleStyle.Render(fmt.Sprintf("%s → %s", cli.FormatDate(b.PeriodStart), cli.FormatDate(b.PeriodEnd))),
					cli.RenderBudgetStatus(status, name))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category name")

	return cmd
}
