package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mybudget/mybudget/internal/model"
)

// CreateBudget persists a budget and returns its assigned id. No overlap or
// duplicate checks are performed; several budgets may cover the same category
// and period.
func (s *SQLiteStorage) CreateBudget(ctx context.Context, budget *model.Budget) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateBudget(budget); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (category_id, amount, period_start, period_end)
		VALUES (?, ?, ?, ?)`,
		budget.CategoryID, budget.Amount, budget.PeriodStart, budget.PeriodEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to insert budget: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get budget ID: %w", err)
	}

	slog.Debug("created budget",
		"id", id,
		"category_id", budget.CategoryID,
		"amount", budget.Amount)
	return id, nil
}

// GetBudgetByPeriod looks up a budget whose stored period matches the given
// bounds exactly. Returns nil when no exact match exists; a budget merely
// covering the range does not count.
func (s *SQLiteStorage) GetBudgetByPeriod(ctx context.Context, categoryID int, periodStart, periodEnd time.Time) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, category_id, amount, period_start, period_end
		FROM budgets
		WHERE category_id = ?
		AND period_start = ?
		AND period_end = ?`,
		categoryID, model.DateOnly(periodStart), model.DateOnly(periodEnd))

	budget, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // No budget defined for this exact period
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	return budget, nil
}

// GetBudgets retrieves budgets ordered by period start descending, optionally
// restricted to one category.
func (s *SQLiteStorage) GetBudgets(ctx context.Context, categoryID *int) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, category_id, amount, period_start, period_end
		FROM budgets`
	args := []any{}

	if categoryID != nil {
		query += " WHERE category_id = ?"
		args = append(args, *categoryID)
	}

	query += " ORDER BY period_start DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectBudgets(rows)
}

// GetBudgetsContaining retrieves every budget for the category whose period
// contains the given date, bounds included. Overlapping budgets are all
// returned.
func (s *SQLiteStorage) GetBudgetsContaining(ctx context.Context, categoryID int, date time.Time) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	d := model.DateOnly(date)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, amount, period_start, period_end
		FROM budgets
		WHERE category_id = ?
		AND period_start <= ?
		AND period_end >= ?
		ORDER BY period_start DESC`,
		categoryID, d, d)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectBudgets(rows)
}

func collectBudgets(rows *sql.Rows) ([]model.Budget, error) {
	var budgets []model.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, *budget)
	}
	return budgets, rows.Err()
}

// scanBudget maps a budgets row to a typed entity.
func scanBudget(row rowScanner) (*model.Budget, error) {
	var budget model.Budget
	var start, end time.Time

	if err := row.Scan(&budget.ID, &budget.CategoryID, &budget.Amount, &start, &end); err != nil {
		return nil, err
	}

	budget.PeriodStart = model.DateOnly(start)
	budget.PeriodEnd = model.DateOnly(end)
	return &budget, nil
}
