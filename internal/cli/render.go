package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/mybudget/mybudget/internal/budget"
	"github.com/mybudget/mybudget/internal/model"
	"github.com/mybudget/mybudget/internal/stats"
)

// FormatAmount renders a monetary amount with two decimals and a euro sign.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f €", amount)
}

// FormatDate renders a date in the short form used across all listings.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// SignedAmount renders expenses with a leading minus and incomes with a plus.
func SignedAmount(tx model.Transaction) string {
	if tx.Type == model.TypeExpense {
		return ErrorStyle.Render("-" + FormatAmount(tx.Amount))
	}
	return SuccessStyle.Render("+" + FormatAmount(tx.Amount))
}

// RenderTransactionTable renders transactions as an aligned text table.
func RenderTransactionTable(transactions []model.Transaction, categories map[int]string) string {
	if len(transactions) == 0 {
		return SubtleStyle.Render("Aucune transaction.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-5s %-12s %-30s %-14s %-12s %s\n",
		"ID", "Date", "Description", "Catégorie", "Type", "Montant")
	b.WriteString(SubtleStyle.Render(strings.Repeat("─", 90)))
	b.WriteString("\n")
	for _, tx := range transactions {
		name := categories[tx.CategoryID]
		if name == "" {
			name = fmt.Sprintf("#%d", tx.CategoryID)
		}
		fmt.Fprintf(&b, "%-5d %-12s %-30s %-14s %-12s %s\n",
			tx.ID, FormatDate(tx.Date), truncate(tx.Description, 30), truncate(name, 14), tx.Type, SignedAmount(tx))
	}
	return b.String()
}

// RenderBudgetStatus renders a single budget status line with a progress gauge.
func RenderBudgetStatus(status *model.BudgetStatus, categoryName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s / %s (%.1f%%)\n",
		BoldStyle.Render(categoryName),
		FormatAmount(status.Spent),
		FormatAmount(status.BudgetAmount),
		status.Percentage)
	b.WriteString(renderGauge(status.Percentage))
	b.WriteString("\n")
	switch {
	case status.Exceeded:
		fmt.Fprintf(&b, "%s\n", ErrorStyle.Render(fmt.Sprintf("Budget dépassé de %s", FormatAmount(-status.Remaining))))
	case status.Percentage >= budget.NearLimitThreshold:
		fmt.Fprintf(&b, "%s\n", WarningStyle.Render(fmt.Sprintf("Attention : plus que %s disponibles", FormatAmount(status.Remaining))))
	default:
		fmt.Fprintf(&b, "%s\n", SuccessStyle.Render(fmt.Sprintf("Reste %s", FormatAmount(status.Remaining))))
	}
	return b.String()
}

// RenderAlerts renders evaluator alerts, one line each.
func RenderAlerts(alerts []budget.Alert, categories map[int]string) string {
	var b strings.Builder
	for _, a := range alerts {
		name := categories[a.Budget.CategoryID]
		if name == "" {
			name = fmt.Sprintf("catégorie #%d", a.Budget.CategoryID)
		}
		switch a.Level {
		case budget.AlertExceeded:
			fmt.Fprintf(&b, "%s\n", ErrorStyle.Render(fmt.Sprintf(
				"⚠ Budget %s dépassé : %s dépensés sur %s (+%s)",
				name, FormatAmount(a.Status.Spent), FormatAmount(a.Status.BudgetAmount), FormatAmount(a.Overage()))))
		case budget.AlertNearLimit:
			fmt.Fprintf(&b, "%s\n", WarningStyle.Render(fmt.Sprintf(
				"Budget %s à %.1f%% : reste %s",
				name, a.Status.Percentage, FormatAmount(a.Status.Remaining))))
		}
	}
	return b.String()
}

// RenderMonthlySummary renders the monthly summary with per-category breakdown.
func RenderMonthlySummary(summary *stats.MonthlySummary, categories map[int]string) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Résumé %04d-%02d", summary.Year, summary.Month)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Revenus   : %s\n", SuccessStyle.Render(FormatAmount(summary.TotalIncome)))
	fmt.Fprintf(&b, "Dépenses  : %s\n", ErrorStyle.Render(FormatAmount(summary.TotalExpense)))
	balance := FormatAmount(summary.Balance)
	if summary.Balance < 0 {
		balance = ErrorStyle.Render(balance)
	} else {
		balance = SuccessStyle.Render(balance)
	}
	fmt.Fprintf(&b, "Solde     : %s\n", balance)
	fmt.Fprintf(&b, "Transactions : %d\n", summary.TransactionCount)
	if len(summary.ByCategory) > 0 {
		b.WriteString("\nDépenses par catégorie :\n")
		for _, cs := range summary.ByCategory {
			name := cs.Name
			if name == "" {
				name = categories[cs.CategoryID]
			}
			if name == "" {
				name = fmt.Sprintf("#%d", cs.CategoryID)
			}
			fmt.Fprintf(&b, "  %-14s %s\n", name, FormatAmount(cs.Expense))
		}
	}
	return b.String()
}

// renderGauge draws a 30-cell progress bar for a percentage.
func renderGauge(percentage float64) string {
	const width = 30
	filled := int(percentage / 100 * width)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	style := SuccessStyle
	switch {
	case percentage > 100:
		style = ErrorStyle
	case percentage >= budget.NearLimitThreshold:
		style = WarningStyle
	}
	return style.Render(bar)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
