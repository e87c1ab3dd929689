// Package budget owns budget definitions and derives their status against
// the ledger's current spending.
package budget

import (
	"context"
	"log/slog"
	"time"

	"github.com/mybudget/mybudget/internal/ledger"
	"github.com/mybudget/mybudget/internal/model"
	"github.com/mybudget/mybudget/internal/service"
)

// Registry provides budget operations backed by persistent storage. Status
// is always recomputed live from the ledger; nothing derived is cached or
// stored, so it can never go stale.
type Registry struct {
	store  service.Storage
	ledger *ledger.Ledger
}

// NewRegistry creates a registry on top of the given storage and ledger.
func NewRegistry(store service.Storage, l *ledger.Ledger) *Registry {
	return &Registry{store: store, ledger: l}
}

// Create persists a budget and returns its newly assigned id. Overlapping or
// duplicate periods for the same category are not rejected; status queries
// match the stored bounds exactly.
func (r *Registry) Create(ctx context.Context, budget *model.Budget) (int64, error) {
	id, err := r.store.CreateBudget(ctx, budget)
	if err != nil {
		return 0, err
	}
	slog.Info("created budget",
		"id", id,
		"category_id", budget.CategoryID,
		"amount", budget.Amount,
		"period_start", budget.PeriodStart.Format("2006-01-02"),
		"period_end", budget.PeriodEnd.Format("2006-01-02"))
	return id, nil
}

// Status derives the status of the budget whose stored period matches the
// given bounds exactly. Returns nil when no exact match exists; callers must
// treat that as "no budget defined for this period", not as an error.
//
// The lookup is deliberately an exact triple match rather than "any budget
// covering this range"; Evaluator covers the containment query.
func (r *Registry) Status(ctx context.Context, categoryID int, periodStart, periodEnd time.Time) (*model.BudgetStatus, error) {
	b, err := r.store.GetBudgetByPeriod(ctx, categoryID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	return r.statusOf(ctx, b)
}

// List returns budgets ordered by period start descending, optionally
// restricted to one category.
func (r *Registry) List(ctx context.Context, categoryID *int) ([]model.Budget, error) {
	return r.store.GetBudgets(ctx, categoryID)
}

// statusOf computes the derived status for one budget from the ledger's
// current data.
func (r *Registry) statusOf(ctx context.Context, b *model.Budget) (*model.BudgetStatus, error) {
	spent, err := r.ledger.Sum(ctx, b.CategoryID, b.PeriodStart, b.PeriodEnd, model.TypeExpense)
	if err != nil {
		return nil, err
	}
	return model.NewBudgetStatus(b, spent), nil
}
