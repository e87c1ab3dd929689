package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mybudget/mybudget/internal/cli"
	"github.com/mybudget/mybudget/internal/model"
)

type seedTransaction struct {
	description string
	typ         model.TransactionType
	amount      float64
	categoryID  int
	dayOffset   int
}

type seedBudget struct {
	amount     float64
	categoryID int
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo data",
		Long: `Seed fills the current month with realistic demo transactions and
budgets so the dashboard and statistics have something to show.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			today := time.Now().UTC()
			start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
			end := start.AddDate(0, 1, -1)

			budgets := []seedBudget{
				{amount: 400, categoryID: 1}, // alimentation
				{amount: 800, categoryID: 2}, // logement
				{amount: 300, categoryID: 3}, // loisirs
				{amount: 150, categoryID: 4}, // transports
				{amount: 100, categoryID: 5}, // santé
			}

			transactions := []seedTransaction{
				{description: "Courses Leclerc", typ: model.TypeExpense, amount: 65.50, categoryID: 1, dayOffset: 2},
				{description: "Boulangerie", typ: model.TypeExpense, amount: 8.90, categoryID: 1, dayOffset: 3},
				{description: "Marché", typ: model.TypeExpense, amount: 45.20, categoryID: 1, dayOffset: 5},
				{description: "Supermarché", typ: model.TypeExpense, amount: 78.30, categoryID: 1, dayOffset: 8},
				{description: "Restaurant rapide", typ: model.TypeExpense, amount: 12.50, categoryID: 1, dayOffset: 10},
				{description: "Courses hebdo", typ: model.TypeExpense, amount: 55.00, categoryID: 1, dayOffset: 12},
				{description: "Loyer", typ: model.TypeExpense, amount: 650.00, categoryID: 2, dayOffset: 1},
				{description: "Électricité", typ: model.TypeExpense, amount: 45.00, categoryID: 2, dayOffset: 5},
				{description: "Internet", typ: model.TypeExpense, amount: 25.00, categoryID: 2, dayOffset: 6},
				{description: "Cinéma", typ: model.TypeExpense, amount: 12.50, categoryID: 3, dayOffset: 7},
				{description: "Concert", typ: model.TypeExpense, amount: 45.00, categoryID: 3, dayOffset: 14},
				{description: "Livres", typ: model.TypeExpense, amount: 28.90, categoryID: 3, dayOffset: 11},
				{description: "Sortie restaurant", typ: model.TypeExpense, amount: 60.00, categoryID: 3, dayOffset: 15},
				{description: "Abonnement transport", typ: model.TypeExpense, amount: 75.00, categoryID: 4, dayOffset: 1},
				{description: "Essence", typ: model.TypeExpense, amount: 45.00, categoryID: 4, dayOffset: 9},
				{description: "Pharmacie", typ: model.TypeExpense, amount: 25.00, categoryID: 5, dayOffset: 6},
				{description: "Médecin", typ: model.TypeExpense, amount: 50.00, categoryID: 5, dayOffset: 13},
				{description: "Salaire", typ: model.TypeIncome, amount: 2500.00, categoryID: 6, dayOffset: 1},
				{description: "Freelance", typ: model.TypeIncome, amount: 150.00, categoryID: 6, dayOffset: 10},
			}

			fmt.Fprintf(os.Stdout, "Période : %s → %s\n", cli.FormatDate(start), cli.FormatDate(end))

			bar := progressbar.NewOptions(len(budgets)+len(transactions),
				progressbar.OptionSetDescription("Création des données de démonstration"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			for _, sb := range budgets {
				b, err := model.NewBudget(sb.categoryID, sb.amount, start, end)
				if err != nil {
					return err
				}
				if _, err := svc.registry.Create(ctx, b); err != nil {
					return fmt.Errorf("failed to seed budget: %w", err)
				}
				_ = bar.Add(1)
			}

			for _, st := range transactions {
				txn, err := model.NewTransaction(st.amount, st.description, st.typ, st.categoryID, start.AddDate(0, 0, st.dayOffset))
				if err != nil {
					return err
				}
				if _, err := svc.ledger.Add(ctx, txn); err != nil {
					return fmt.Errorf("failed to seed transaction: %w", err)
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			byID, err := categoryNames(ctx, svc.store)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render("Résumé des budgets"))
			for _, sb := range budgets {
				status, err := svc.registry.Status(ctx, sb.categoryID, start, end)
				if err != nil || status == nil {
					continue
				}
				fmt.Fprint(os.Stdout, cli.RenderBudgetStatus(status, byID[sb.categoryID]))
				fmt.Fprintln(os.Stdout)
			}

			fmt.Fprintf(os.Stdout, "%s\n", cli.SuccessStyle.Render(
				fmt.Sprintf("%d transactions et %d budgets créés", len(transactions), len(budgets))))
			return nil
		},
	}
}
