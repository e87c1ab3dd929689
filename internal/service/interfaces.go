// Package service defines the contracts between the application services and
// the persistence layer.
package service

import (
	"context"
	"time"

	"github.com/mybudget/mybudget/internal/model"
)

// TransactionFilter defines optional, conjunctive filters for transaction
// queries. A nil field means no restriction on that dimension.
type TransactionFilter struct {
	CategoryID *int
	StartDate  *time.Time
	EndDate    *time.Time
	Type       *model.TransactionType
}

// Storage defines the contract for our persistence layer. The core consumes
// exactly this surface: filtered queries, a sum aggregate, inserts returning
// ids, and update/delete reporting whether a row was affected.
type Storage interface {
	// Transaction operations
	AddTransaction(ctx context.Context, txn *model.Transaction) (int64, error)
	GetTransactionByID(ctx context.Context, id int64) (*model.Transaction, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	SumTransactions(ctx context.Context, categoryID int, start, end time.Time, typ model.TransactionType) (float64, error)
	UpdateTransaction(ctx context.Context, id int64, txn *model.Transaction) (bool, error)
	DeleteTransaction(ctx context.Context, id int64) (bool, error)

	// Budget operations
	CreateBudget(ctx context.Context, budget *model.Budget) (int64, error)
	GetBudgetByPeriod(ctx context.Context, categoryID int, periodStart, periodEnd time.Time) (*model.Budget, error)
	GetBudgets(ctx context.Context, categoryID *int) ([]model.Budget, error)
	GetBudgetsContaining(ctx context.Context, categoryID int, date time.Time) ([]model.Budget, error)

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	GetCategoryByID(ctx context.Context, id int) (*model.Category, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)

	// Database management
	Migrate(ctx context.Context) error
	Reset(ctx context.Context) error
	Close() error
}
