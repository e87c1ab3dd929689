// Package export serializes already-computed transaction and budget data to
// CSV and JSON.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mybudget/mybudget/internal/budget"
	"github.com/mybudget/mybudget/internal/ledger"
	"github.com/mybudget/mybudget/internal/model"
	"github.com/mybudget/mybudget/internal/service"
)

// Exporter renders ledger and budget data to CSV or JSON. It performs no
// computation of its own beyond formatting.
type Exporter struct {
	now      func() time.Time
	store    service.Storage
	ledger   *ledger.Ledger
	registry *budget.Registry
}

// New creates an exporter over the given services.
func New(store service.Storage, l *ledger.Ledger, registry *budget.Registry) *Exporter {
	return &Exporter{
		now:      time.Now,
		store:    store,
		ledger:   l,
		registry: registry,
	}
}

// WithClock replaces the exporter's notion of "now" used for export
// timestamps.
func (e *Exporter) WithClock(now func() time.Time) *Exporter {
	e.now = now
	return e
}

// csvHeader matches the historical export column layout.
var csvHeader = []string{"id", "date", "amount", "description", "type", "category_id"}

// TransactionsCSV writes matching transactions as CSV and returns how many
// rows were exported.
func (e *Exporter) TransactionsCSV(ctx context.Context, w io.Writer, filter service.TransactionFilter) (int, error) {
	txns, err := e.ledger.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range txns {
		record := []string{
			strconv.FormatInt(txn.ID, 10),
			txn.Date.Format("2006-01-02"),
			strconv.FormatFloat(txn.Amount, 'f', -1, 64),
			txn.Description,
			string(txn.Type),
			strconv.Itoa(txn.CategoryID),
		}
		if err := writer.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return len(txns), nil
}

// transactionJSON is the wire shape of one exported transaction.
type transactionJSON struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	CategoryID  int     `json:"category_id"`
	Date        string  `json:"date"`
}

// transactionsEnvelope is the JSON export envelope.
type transactionsEnvelope struct {
	ExportDate   string            `json:"export_date"`
	Count        int               `json:"count"`
	Transactions []transactionJSON `json:"transactions"`
}

// TransactionsJSON writes matching transactions as a JSON envelope and
// returns how many were exported.
func (e *Exporter) TransactionsJSON(ctx context.Context, w io.Writer, filter service.TransactionFilter, pretty bool) (int, error) {
	txns, err := e.ledger.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	envelope := transactionsEnvelope{
		ExportDate:   e.now().Format(time.RFC3339),
		Count:        len(txns),
		Transactions: toTransactionJSON(txns),
	}

	if err := encodeJSON(w, envelope, pretty); err != nil {
		return 0, err
	}
	return len(txns), nil
}

// budgetSummaryEnvelope is the JSON shape of a budget summary export.
type budgetSummaryEnvelope struct {
	ExportDate string            `json:"export_date"`
	Category   string            `json:"category"`
	Period     periodJSON        `json:"period"`
	Budget     budgetStatusJSON  `json:"budget"`
	Txns       []transactionJSON `json:"transactions"`
}

type periodJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type budgetStatusJSON struct {
	BudgetID     int64   `json:"budget_id"`
	CategoryID   int     `json:"category_id"`
	BudgetAmount float64 `json:"budget_amount"`
	Spent        float64 `json:"spent"`
	Remaining    float64 `json:"remaining"`
	Percentage   float64 `json:"percentage"`
	IsExceeded   bool    `json:"is_exceeded"`
}

// BudgetSummaryJSON writes the status and period expenses of the budget
// matching the exact (category, start, end) triple. Returns false, without
// writing, when no such budget exists.
func (e *Exporter) BudgetSummaryJSON(ctx context.Context, w io.Writer, categoryID int, periodStart, periodEnd time.Time) (bool, error) {
	status, err := e.registry.Status(ctx, categoryID, periodStart, periodEnd)
	if err != nil {
		return false, err
	}
	if status == nil {
		return false, nil
	}

	categoryName := "inconnue"
	if cat, err := e.store.GetCategoryByID(ctx, categoryID); err == nil && cat != nil {
		categoryName = cat.Name
	}

	expense := model.TypeExpense
	txns, err := e.ledger.List(ctx, service.TransactionFilter{
		CategoryID: &categoryID,
		StartDate:  &periodStart,
		EndDate:    &periodEnd,
		Type:       &expense,
	})
	if err != nil {
		return false, err
	}

	envelope := budgetSummaryEnvelope{
		ExportDate: e.now().Format(time.RFC3339),
		Category:   categoryName,
		Period: periodJSON{
			Start: model.DateOnly(periodStart).Format("2006-01-02"),
			End:   model.DateOnly(periodEnd).Format("2006-01-02"),
		},
		Budget: budgetStatusJSON{
			BudgetID:     status.BudgetID,
			CategoryID:   status.CategoryID,
			BudgetAmount: status.BudgetAmount,
			Spent:        status.Spent,
			Remaining:    status.Remaining,
			Percentage:   status.Percentage,
			IsExceeded:   status.Exceeded,
		},
		Txns: toTransactionJSON(txns),
	}

	if err := encodeJSON(w, envelope, true); err != nil {
		return false, err
	}
	return true, nil
}

func toTransactionJSON(txns []model.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txns))
	for _, txn := range txns {
		out = append(out, transactionJSON{
			ID:          txn.ID,
			Amount:      txn.Amount,
			Description: txn.Description,
			Type:        string(txn.Type),
			CategoryID:  txn.CategoryID,
			Date:        txn.Date.Format("2006-01-02"),
		})
	}
	return out
}

func encodeJSON(w io.Writer, v any, pretty bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
