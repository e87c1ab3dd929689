package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mybudget/mybudget/internal/model"
	"github.com/mybudget/mybudget/internal/service"
)

// transactionFilterAll is an unrestricted filter.
func transactionFilterAll() service.TransactionFilter {
	return service.TransactionFilter{}
}

func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// mustTransaction builds a valid transaction or fails the test.
func mustTransaction(t *testing.T, amount float64, description string, typ model.TransactionType, categoryID int, date time.Time) *model.Transaction {
	t.Helper()
	txn, err := model.NewTransaction(amount, description, typ, categoryID, date)
	require.NoError(t, err)
	return txn
}

// mustBudget builds a valid budget or fails the test.
func mustBudget(t *testing.T, categoryID int, amount float64, start, end time.Time) *model.Budget {
	t.Helper()
	budget, err := model.NewBudget(categoryID, amount, start, end)
	require.NoError(t, err)
	return budget
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx))
}

func TestMigrateSeedsDefaultCategories(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	categories, err := store.GetCategories(context.Background())
	require.NoError(t, err)

	names := make(map[string]bool, len(categories))
	for _, cat := range categories {
		names[cat.Name] = true
	}
	for _, want := range model.DefaultCategories {
		require.True(t, names[want], "missing default category %q", want)
	}
}

func TestNewSQLiteStorageRejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	require.Error(t, err)
}
