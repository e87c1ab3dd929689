package budget

import (
	"context"
	"time"

	"github.com/mybudget/mybudget/internal/model"
)

// NearLimitThreshold is the consumed percentage at which a budget starts
// warning before it is exceeded.
const NearLimitThreshold = 80.0

// AlertLevel classifies the severity of a budget alert.
type AlertLevel string

const (
	// AlertExceeded means spending went strictly over the budget amount.
	AlertExceeded AlertLevel = "exceeded"
	// AlertNearLimit means spending reached the warning threshold without
	// exceeding the budget.
	AlertNearLimit AlertLevel = "near-limit"
)

// Alert reports one budget in an exceeded or near-limit state.
type Alert struct {
	Budget model.Budget
	Status model.BudgetStatus
	Level  AlertLevel
}

// Overage is the amount by which an exceeded budget went over its cap.
func (a Alert) Overage() float64 {
	if a.Level != AlertExceeded {
		return 0
	}
	if a.Status.Remaining < 0 {
		return -a.Status.Remaining
	}
	return a.Status.Remaining
}

// Evaluator derives alerts after an expense is recorded. It is stateless and
// read-only: every evaluation recomputes each affected budget's status from
// the ledger, so it must simply be re-run after any mutation that could
// change spending for the category.
type Evaluator struct {
	registry *Registry
}

// NewEvaluator creates an alert evaluator on top of the registry.
func NewEvaluator(registry *Registry) *Evaluator {
	return &Evaluator{registry: registry}
}

// Evaluate finds every budget for the category whose period contains the
// given date (bounds inclusive) and reports, per budget, an exceeded or
// near-limit alert. Budgets within normal bounds produce nothing.
// Overlapping budgets are evaluated independently.
func (e *Evaluator) Evaluate(ctx context.Context, categoryID int, date time.Time) ([]Alert, error) {
	budgets, err := e.registry.store.GetBudgetsContaining(ctx, categoryID, date)
	if err != nil {
		return nil, err
	}

	var alerts []Alert
	for i := range budgets {
		status, err := e.registry.statusOf(ctx, &budgets[i])
		if err != nil {
			return nil, err
		}

		switch {
		case status.Exceeded:
			alerts = append(alerts, Alert{Budget: budgets[i], Status: *status, Level: AlertExceeded})
		case status.Percentage >= NearLimitThreshold:
			alerts = append(alerts, Alert{Budget: budgets[i], Status: *status, Level: AlertNearLimit})
		}
	}

	return alerts, nil
}
