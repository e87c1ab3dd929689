package model

import (
	"math"
	"time"
)

// Budget is a spending cap for one category over an explicit period,
// inclusive on both ends. Several budgets may coexist for the same category,
// including with overlapping periods; the registry does not prevent that.
type Budget struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Amount      float64
	CategoryID  int
	ID          int64
}

// NewBudget validates and constructs a budget. The period start must be
// strictly before the period end; equal or reversed bounds are rejected.
func NewBudget(categoryID int, amount float64, periodStart, periodEnd time.Time) (*Budget, error) {
	if amount <= 0 {
		return nil, newValidationError("budget", "amount must be positive, got %.2f", amount)
	}
	start, end := DateOnly(periodStart), DateOnly(periodEnd)
	if !start.Before(end) {
		return nil, newValidationError("budget", "period start must be before period end")
	}

	return &Budget{
		CategoryID:  categoryID,
		Amount:      amount,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil
}

// ContainsDate reports whether d falls inside the budget period, bounds
// included.
func (b *Budget) ContainsDate(d time.Time) bool {
	d = DateOnly(d)
	return !d.Before(b.PeriodStart) && !d.After(b.PeriodEnd)
}

// BudgetStatus is the derived snapshot of a budget against current spending.
// It is recomputed from the ledger on every query and never persisted, so it
// always reflects the latest transaction state.
type BudgetStatus struct {
	BudgetID     int64
	CategoryID   int
	BudgetAmount float64
	Spent        float64
	Remaining    float64
	Percentage   float64
	Exceeded     bool
}

// NewBudgetStatus derives the status of a budget given the total spent in
// its category and period. Percentage is rounded to one decimal and defined
// as 0 for a zero amount, though construction already guarantees amount > 0.
func NewBudgetStatus(b *Budget, spent float64) *BudgetStatus {
	percentage := 0.0
	if b.Amount > 0 {
		percentage = math.Round(spent/b.Amount*1000) / 10
	}
	return &BudgetStatus{
		BudgetID:     b.ID,
		CategoryID:   b.CategoryID,
		BudgetAmount: b.Amount,
		Spent:        spent,
		Remaining:    b.Amount - spent,
		Percentage:   percentage,
		Exceeded:     spent > b.Amount,
	}
}
