package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybudget/mybudget/internal/budget"
	"github.com/mybudget/mybudget/internal/ledger"
	"github.com/mybudget/mybudget/internal/model"
	"github.com/mybudget/mybudget/internal/service"
	"github.com/mybudget/mybudget/internal/storage"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newTestExporter(t *testing.T) (*Exporter, *ledger.Ledger, *budget.Registry) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	l := ledger.New(store)
	registry := budget.NewRegistry(store, l)
	exporter := New(store, l, registry).WithClock(func() time.Time {
		return time.Date(2026, time.January, 31, 12, 0, 0, 0, time.UTC)
	})
	return exporter, l, registry
}

func addTxn(t *testing.T, l *ledger.Ledger, amount float64, description string, typ model.TransactionType, categoryID int, day time.Time) int64 {
	t.Helper()
	txn, err := model.NewTransaction(amount, description, typ, categoryID, day)
	require.NoError(t, err)
	id, err := l.Add(context.Background(), txn)
	require.NoError(t, err)
	return id
}

func TestTransactionsCSV(t *testing.T) {
	exporter, l, _ := newTestExporter(t)
	ctx := context.Background()

	id := addTxn(t, l, 65.50, "Courses Leclerc", model.TypeExpense, 1, date(2026, time.January, 5))
	addTxn(t, l, 2500, "Salaire", model.TypeIncome, 6, date(2026, time.January, 1))

	var buf bytes.Buffer
	count, err := exporter.TransactionsCSV(ctx, &buf, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "date", "amount", "description", "type", "category_id"}, records[0])

	// Rows come back date descending: the expense on the 5th first
	assert.Equal(t, []string{"2026-01-05", "65.5", "Courses Leclerc", "expense", "1"}, records[1][1:])
	assert.Equal(t, "2026-01-01", records[2][1])
	_ = id
}

func TestTransactionsCSVEmpty(t *testing.T) {
	exporter, _, _ := newTestExporter(t)

	var buf bytes.Buffer
	count, err := exporter.TransactionsCSV(context.Background(), &buf, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}

func TestTransactionsJSON(t *testing.T) {
	exporter, l, _ := newTestExporter(t)

	addTxn(t, l, 12.50, "Cinéma", model.TypeExpense, 3, date(2026, time.January, 7))

	var buf bytes.Buffer
	count, err := exporter.TransactionsJSON(context.Background(), &buf, service.TransactionFilter{}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var envelope struct {
		ExportDate   string `json:"export_date"`
		Count        int    `json:"count"`
		Transactions []struct {
			Amount      float64 `json:"amount"`
			Description string  `json:"description"`
			Type        string  `json:"type"`
			CategoryID  int     `json:"category_id"`
			Date        string  `json:"date"`
		} `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Count)
	assert.NotEmpty(t, envelope.ExportDate)
	require.Len(t, envelope.Transactions, 1)
	assert.Equal(t, 12.50, envelope.Transactions[0].Amount)
	assert.Equal(t, "Cinéma", envelope.Transactions[0].Description)
	assert.Equal(t, "expense", envelope.Transactions[0].Type)
	assert.Equal(t, "2026-01-07", envelope.Transactions[0].Date)
}

func TestBudgetSummaryJSON(t *testing.T) {
	exporter, l, registry := newTestExporter(t)
	ctx := context.Background()

	start, end := date(2026, time.January, 1), date(2026, time.January, 31)
	b, err := model.NewBudget(1, 300, start, end)
	require.NoError(t, err)
	_, err = registry.Create(ctx, b)
	require.NoError(t, err)

	addTxn(t, l, 100, "Courses", model.TypeExpense, 1, date(2026, time.January, 5))
	addTxn(t, l, 2500, "Salaire", model.TypeIncome, 1, date(2026, time.January, 1))

	var buf bytes.Buffer
	ok, err := exporter.BudgetSummaryJSON(ctx, &buf, 1, start, end)
	require.NoError(t, err)
	require.True(t, ok)

	var envelope struct {
		Category string `json:"category"`
		Period   struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"period"`
		Budget struct {
			BudgetAmount float64 `json:"budget_amount"`
			Spent        float64 `json:"spent"`
			Remaining    float64 `json:"remaining"`
			IsExceeded   bool    `json:"is_exceeded"`
		} `json:"budget"`
		Transactions []json.RawMessage `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &envelope))
	assert.Equal(t, "alimentation", envelope.Category)
	assert.Equal(t, "2026-01-01", envelope.Period.Start)
	assert.Equal(t, "2026-01-31", envelope.Period.End)
	assert.Equal(t, 300.0, envelope.Budget.BudgetAmount)
	assert.Equal(t, 100.0, envelope.Budget.Spent)
	assert.Equal(t, 200.0, envelope.Budget.Remaining)
	assert.False(t, envelope.Budget.IsExceeded)
	// Only the period's expense transactions are included
	assert.Len(t, envelope.Transactions, 1)
}

func TestBudgetSummaryJSONNoBudget(t *testing.T) {
	exporter, _, _ := newTestExporter(t)

	var buf bytes.Buffer
	ok, err := exporter.BudgetSummaryJSON(context.Background(), &buf, 3,
		date(2026, time.February, 1), date(2026, time.February, 28))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, buf.Len())
}
