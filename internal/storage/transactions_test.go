package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybudget/mybudget/internal/common"
	"github.com/mybudget/mybudget/internal/model"
	"github.com/mybudget/mybudget/internal/service"
)

func TestAddAndGetTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txn := mustTransaction(t, 65.50, "Courses Leclerc", model.TypeExpense, 1, date(2026, time.January, 5))

	id, err := store.AddTransaction(ctx, txn)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := store.GetTransactionByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, txn.Amount, got.Amount)
	assert.Equal(t, txn.Description, got.Description)
	assert.Equal(t, txn.Type, got.Type)
	assert.Equal(t, txn.CategoryID, got.CategoryID)
	assert.Equal(t, txn.Date, got.Date)
}

func TestGetTransactionByIDNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetTransactionByID(context.Background(), 9999)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetTransactionsFilters(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seed := []*model.Transaction{
		mustTransaction(t, 65.50, "Courses", model.TypeExpense, 1, date(2026, time.January, 5)),
		mustTransaction(t, 12.50, "Cinéma", model.TypeExpense, 3, date(2026, time.January, 7)),
		mustTransaction(t, 2500, "Salaire", model.TypeIncome, 6, date(2026, time.January, 1)),
		mustTransaction(t, 45.20, "Marché", model.TypeExpense, 1, date(2026, time.February, 2)),
	}
	for _, txn := range seed {
		_, err := store.AddTransaction(ctx, txn)
		require.NoError(t, err)
	}

	catFood := 1
	expense := model.TypeExpense
	janStart := date(2026, time.January, 1)
	janEnd := date(2026, time.January, 31)

	t.Run("no filters returns everything, date descending", func(t *testing.T) {
		txns, err := store.GetTransactions(ctx, service.TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, txns, 4)
		for i := 1; i < len(txns); i++ {
			assert.False(t, txns[i-1].Date.Before(txns[i].Date), "expected date descending order")
		}
	})

	t.Run("category filter", func(t *testing.T) {
		txns, err := store.GetTransactions(ctx, service.TransactionFilter{CategoryID: &catFood})
		require.NoError(t, err)
		require.Len(t, txns, 2)
		for _, txn := range txns {
			assert.Equal(t, catFood, txn.CategoryID)
		}
	})

	t.Run("conjunctive filters", func(t *testing.T) {
		txns, err := store.GetTransactions(ctx, service.TransactionFilter{
			CategoryID: &catFood,
			StartDate:  &janStart,
			EndDate:    &janEnd,
			Type:       &expense,
		})
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, "Courses", txns[0].Description)
	})

	t.Run("date range is inclusive on both ends", func(t *testing.T) {
		start := date(2026, time.January, 1)
		end := date(2026, time.January, 5)
		txns, err := store.GetTransactions(ctx, service.TransactionFilter{
			StartDate: &start,
			EndDate:   &end,
		})
		require.NoError(t, err)
		require.Len(t, txns, 2)
	})

	t.Run("no match returns empty", func(t *testing.T) {
		income := model.TypeIncome
		txns, err := store.GetTransactions(ctx, service.TransactionFilter{
			CategoryID: &catFood,
			Type:       &income,
		})
		require.NoError(t, err)
		assert.Empty(t, txns)
	})
}

func TestSumTransactions(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("empty result sums to zero", func(t *testing.T) {
		total, err := store.SumTransactions(ctx, 1, date(2026, time.January, 1), date(2026, time.January, 31), model.TypeExpense)
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("sums only matching category, period, and type", func(t *testing.T) {
		seed := []*model.Transaction{
			mustTransaction(t, 100, "Courses", model.TypeExpense, 1, date(2026, time.January, 5)),
			mustTransaction(t, 250, "Traiteur", model.TypeExpense, 1, date(2026, time.January, 15)),
			mustTransaction(t, 40, "Cinéma", model.TypeExpense, 3, date(2026, time.January, 10)),
			mustTransaction(t, 500, "Remboursement", model.TypeIncome, 1, date(2026, time.January, 12)),
			mustTransaction(t, 70, "Courses", model.TypeExpense, 1, date(2026, time.February, 1)),
		}
		for _, txn := range seed {
			_, err := store.AddTransaction(ctx, txn)
			require.NoError(t, err)
		}

		total, err := store.SumTransactions(ctx, 1, date(2026, time.January, 1), date(2026, time.January, 31), model.TypeExpense)
		require.NoError(t, err)
		assert.InDelta(t, 350, total, 1e-9)
	})

	t.Run("reversed range is rejected", func(t *testing.T) {
		_, err := store.SumTransactions(ctx, 1, date(2026, time.January, 31), date(2026, time.January, 1), model.TypeExpense)
		require.ErrorIs(t, err, ErrInvalidDateRange)
	})
}

func TestUpdateTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.AddTransaction(ctx,
		mustTransaction(t, 20, "Essence", model.TypeExpense, 4, date(2026, time.January, 9)))
	require.NoError(t, err)

	replacement := mustTransaction(t, 45, "Essence autoroute", model.TypeExpense, 4, date(2026, time.January, 10))
	ok, err := store.UpdateTransaction(ctx, id, replacement)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := store.GetTransactionByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 45.0, got.Amount)
	assert.Equal(t, "Essence autoroute", got.Description)
	assert.Equal(t, date(2026, time.January, 10), got.Date)

	t.Run("missing id returns false", func(t *testing.T) {
		ok, err := store.UpdateTransaction(ctx, 9999, replacement)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDeleteTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.AddTransaction(ctx,
		mustTransaction(t, 25, "Pharmacie", model.TypeExpense, 5, date(2026, time.January, 6)))
	require.NoError(t, err)

	ok, err := store.DeleteTransaction(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = store.GetTransactionByID(ctx, id)
	require.ErrorIs(t, err, common.ErrNotFound)

	// Deleting again is a no-op, both times
	ok, err = store.DeleteTransaction(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.DeleteTransaction(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}
