package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetBudgetByPeriod(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	start := date(2026, time.January, 1)
	end := date(2026, time.January, 31)

	id, err := store.CreateBudget(ctx, mustBudget(t, 1, 300, start, end))
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := store.GetBudgetByPeriod(ctx, 1, start, end)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, 300.0, got.Amount)
	assert.Equal(t, start, got.PeriodStart)
	assert.Equal(t, end, got.PeriodEnd)
}

func TestGetBudgetByPeriodRequiresExactMatch(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.CreateBudget(ctx, mustBudget(t, 1, 300,
		date(2026, time.January, 1), date(2026, time.January, 31)))
	require.NoError(t, err)

	// A range covered by the stored period, but not equal to it
	got, err := store.GetBudgetByPeriod(ctx, 1,
		date(2026, time.January, 5), date(2026, time.January, 20))
	require.NoError(t, err)
	assert.Nil(t, got)

	// Different category
	got, err = store.GetBudgetByPeriod(ctx, 2,
		date(2026, time.January, 1), date(2026, time.January, 31))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateBudgetAllowsOverlaps(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.CreateBudget(ctx, mustBudget(t, 1, 300,
		date(2026, time.January, 1), date(2026, time.January, 31)))
	require.NoError(t, err)
	_, err = store.CreateBudget(ctx, mustBudget(t, 1, 500,
		date(2026, time.January, 15), date(2026, time.February, 15)))
	require.NoError(t, err)

	budgets, err := store.GetBudgetsContaining(ctx, 1, date(2026, time.January, 20))
	require.NoError(t, err)
	assert.Len(t, budgets, 2)
}

func TestGetBudgets(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.CreateBudget(ctx, mustBudget(t, 1, 300,
		date(2026, time.January, 1), date(2026, time.January, 31)))
	require.NoError(t, err)
	_, err = store.CreateBudget(ctx, mustBudget(t, 1, 320,
		date(2026, time.February, 1), date(2026, time.February, 28)))
	require.NoError(t, err)
	_, err = store.CreateBudget(ctx, mustBudget(t, 3, 150,
		date(2026, time.January, 1), date(2026, time.January, 31)))
	require.NoError(t, err)

	t.Run("all budgets, period start descending", func(t *testing.T) {
		budgets, err := store.GetBudgets(ctx, nil)
		require.NoError(t, err)
		require.Len(t, budgets, 3)
		for i := 1; i < len(budgets); i++ {
			assert.False(t, budgets[i-1].PeriodStart.Before(budgets[i].PeriodStart))
		}
	})

	t.Run("filtered by category", func(t *testing.T) {
		catID := 1
		budgets, err := store.GetBudgets(ctx, &catID)
		require.NoError(t, err)
		require.Len(t, budgets, 2)
		for _, b := range budgets {
			assert.Equal(t, 1, b.CategoryID)
		}
	})
}

func TestGetBudgetsContainingBoundsInclusive(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.CreateBudget(ctx, mustBudget(t, 1, 300,
		date(2026, time.January, 1), date(2026, time.January, 31)))
	require.NoError(t, err)

	for _, tt := range []struct {
		day  time.Time
		want int
	}{
		{date(2025, time.December, 31), 0},
		{date(2026, time.January, 1), 1},
		{date(2026, time.January, 31), 1},
		{date(2026, time.February, 1), 0},
	} {
		budgets, err := store.GetBudgetsContaining(ctx, 1, tt.day)
		require.NoError(t, err)
		assert.Len(t, budgets, tt.want, "date %s", tt.day)
	}
}

func TestResetClearsTransactionsAndBudgets(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.AddTransaction(ctx,
		mustTransaction(t, 10, "Boulangerie", "expense", 1, date(2026, time.January, 3)))
	require.NoError(t, err)
	_, err = store.CreateBudget(ctx, mustBudget(t, 1, 300,
		date(2026, time.January, 1), date(2026, time.January, 31)))
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx))

	txns, err := store.GetTransactions(ctx, transactionFilterAll())
	require.NoError(t, err)
	assert.Empty(t, txns)

	budgets, err := store.GetBudgets(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, budgets)

	// Default categories survive a reset
	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(categories), 6)
}
