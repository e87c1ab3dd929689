package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mybudget/mybudget/internal/cli"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Spending statistics and projections",
	}
	cmd.AddCommand(statsSummaryCmd())
	cmd.AddCommand(statsTrendCmd())
	cmd.AddCommand(statsAverageCmd())
	cmd.AddCommand(statsTopCmd())
	cmd.AddCommand(statsWeekdayCmd())
	cmd.AddCommand(statsPredictCmd())
	return cmd
}

func statsSummaryCmd() *cobra.Command {
	var (
		year  int
		month int
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Monthly income/expense summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			now := time.Now()
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("invalid month %d", month)
			}

			summary, err := svc.stats.MonthlySummary(ctx, year, time.Month(month))
			if err != nil {
				return fmt.Errorf("failed to compute summary: %w", err)
			}

			byID, err := categoryNames(ctx, svc.store)
			if err != nil {
				return err
			}

			fmt.Fprint(os.Stdout, cli.RenderMonthlySummary(summary, byID))
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "year (default: current)")
	cmd.Flags().IntVarP(&month, "month", "m", 0, "month 1-12 (default: current)")

	return cmd
}

func statsTrendCmd() *cobra.Command {
	var (
		category string
		months   int
	)

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Monthly expense trend for a category",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			points, err := svc.stats.CategoryTrend(ctx, categoryID, months)
			if err != nil {
				return fmt.Errorf("failed to compute trend: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render(fmt.Sprintf("Tendance %s sur %d mois", category, months)))
			var maxTotal float64
			for _, p := range points {
				if p.Total > maxTotal {
					maxTotal = p.Total
				}
			}
			for _, p := range points {
				bar := ""
				if maxTotal > 0 {
					width := int(p.Total / maxTotal * 30)
					for i := 0; i < width; i++ {
						bar += "█"
					}
				}
				fmt.Fprintf(os.Stdout, "%04d-%02d  %10s  %s\n", p.Year, p.Month, cli.FormatAmount(p.Total), bar)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category name (required)")
	cmd.Flags().IntVarP(&months, "months", "n", 6, "number of months")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func statsAverageCmd() *cobra.Command {
	var (
		category string
		months   int
	)

	cmd := &cobra.Command{
		Use:   "average",
		Short: "Average monthly spending for a category",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			avg, err := svc.stats.AverageSpending(ctx, categoryID, months)
			if err != nil {
				return fmt.Errorf("failed to compute average: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Dépense moyenne %s sur %d mois : %s\n",
				cli.BoldStyle.Render(category), months, cli.FormatAmount(avg))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category name (required)")
	cmd.Flags().IntVarP(&months, "months", "n", 3, "number of months")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func statsTopCmd() *cobra.Command {
	var (
		limit int
		days  int
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Largest expenses of the trailing period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			expenses, err := svc.stats.TopExpenses(ctx, limit, days)
			if err != nil {
				return fmt.Errorf("failed to compute top expenses: %w", err)
			}

			byID, err := categoryNames(ctx, svc.store)
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render(fmt.Sprintf("Top %d dépenses (%d jours)", limit, days)))
			fmt.Fprint(os.Stdout, cli.RenderTransactionTable(expenses, byID))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 5, "number of expenses")
	cmd.Flags().IntVarP(&days, "days", "d", 30, "trailing window in days")

	return cmd
}

func statsWeekdayCmd() *cobra.Command {
	var (
		category string
		months   int
	)

	cmd := &cobra.Command{
		Use:   "weekday",
		Short: "Spending broken down by day of week",
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

			byWeekday, err := svc.stats.SpendingByWeekday(ctx, categoryID, months)
			if err != nil {
				return fmt.Errorf("failed to compute weekday spending: %w", err)
			}

			labels := map[time.Weekday]string{
				time.Monday:    "Lundi",
				time.Tuesday:   "Mardi",
				time.Wednesday: "Mercredi",
				time.Thursday:  "Jeudi",
				time.Friday:    "Vendredi",
				time.Saturday:  "Samedi",
				time.Sunday:    "Dimanche",
			}

			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render(fmt.Sprintf("Dépenses par jour (%d mois)", months)))
			order := []time.Weekday{
				time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
				time.Friday, time.Saturday, time.Sunday,
			}
			for _, day := range order {
				fmt.Fprintf(os.Stdout, "  %-10s %s\n", labels[day], cli.FormatAmount(byWeekday[day]))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "restrict to one category")
	cmd.Flags().IntVarP(&months, "months", "n", 3, "number of months")

	return cmd
}

func statsPredictCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Project end-of-month spending for a category",
		Long: `Predict extrapolates the current month's spending linearly:
the daily average so far is multiplied by the number of days in the month.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			projection, err := svc.stats.PredictEndOfMonth(ctx, categoryID)
			if err != nil {
				return fmt.Errorf("failed to compute projection: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render(fmt.Sprintf("Projection fin de mois : %s", category)))
			fmt.Fprintf(os.Stdout, "Dépensé à ce jour    : %s (%d/%d jours)\n",
				cli.FormatAmount(projection.CurrentSpending), projection.DaysElapsed, projection.DaysInMonth)
			fmt.Fprintf(os.Stdout, "Moyenne quotidienne  : %s\n", cli.FormatAmount(projection.DailyAverage))
			fmt.Fprintf(os.Stdout, "Projection fin de mois : %s\n", cli.BoldStyle.Render(cli.FormatAmount(projection.ProjectedTotal)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category name (required)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}
