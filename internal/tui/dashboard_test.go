package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybudget/mybudget/internal/budget"
	"github.com/mybudget/mybudget/internal/ledger"
	"github.com/mybudget/mybudget/internal/model"
	"github.com/mybudget/mybudget/internal/stats"
	"github.com/mybudget/mybudget/internal/storage"
)

func newTestModel(t *testing.T) (Model, *ledger.Ledger, *budget.Registry) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(t.TempDir() + "/test.db")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	lg := ledger.New(store)
	reg := budget.NewRegistry(store, lg)
	eng := stats.NewEngine(store, lg)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	return NewModel(context.Background(), store, reg, eng, now), lg, reg
}

func refresh(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.refresh()()
	updated, _ := m.Update(msg)
	result, ok := updated.(Model)
	require.True(t, ok)
	return result
}

func TestViewShowsLoadingBeforeFirstRefresh(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Contains(t, m.View(), "Chargement")
}

func TestViewShowsSummaryAndBudgets(t *testing.T) {
	m, lg, reg := newTestModel(t)
	ctx := context.Background()

	txn, err := model.NewTransaction(120, "courses", model.TypeExpense, 1, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = lg.Add(ctx, txn)
	require.NoError(t, err)

	b, err := model.NewBudget(1, 300,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = reg.Create(ctx, b)
	require.NoError(t, err)

	m = refresh(t, m)
	view := m.View()
	assert.Contains(t, view, "2026-03")
	assert.Contains(t, view, "alimentation")
	assert.Contains(t, view, "120.00")
	assert.Contains(t, view, "1 transactions")
}

func TestMonthNavigation(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = refresh(t, m)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(Model)
	assert.Equal(t, time.February, m.month)
	assert.Equal(t, 2026, m.year)

	for i := 0; i < 2; i++ {
		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
		m = updated.(Model)
	}
	assert.Equal(t, time.April, m.month)
}

func TestYearRollover(t *testing.T) {
	year, month := previousMonth(2026, time.January)
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.December, month)

	year, month = nextMonth(2025, time.December)
	assert.Equal(t, 2026, year)
	assert.Equal(t, time.January, month)
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = refresh(t, m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
