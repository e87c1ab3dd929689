// Package ledger owns the set of transaction records: it stores individual
// monetary events and answers filtered and aggregate queries over them.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/mybudget/mybudget/internal/model"
	"github.com/mybudget/mybudget/internal/service"
)

// Ledger provides transaction operations backed by persistent storage. It
// carries no inter-call state; every operation is a fresh read or write
// against the store.
type Ledger struct {
	store service.Storage
}

// New creates a ledger on top of the given storage.
func New(store service.Storage) *Ledger {
	return &Ledger{store: store}
}

// Add persists a transaction and returns its newly assigned id. The
// transaction's invariants are enforced by its constructor; the ledger does
// not re-validate.
func (l *Ledger) Add(ctx context.Context, txn *model.Transaction) (int64, error) {
	id, err := l.store.AddTransaction(ctx, txn)
	if err != nil {
		return 0, err
	}
	slog.Info("recorded transaction",
		"id", id,
		"type", txn.Type,
		"amount", txn.Amount,
		"category_id", txn.CategoryID,
		"date", txn.Date.Format("2006-01-02"))
	return id, nil
}

// Get returns the transaction with the given id, or common.ErrNotFound.
func (l *Ledger) Get(ctx context.Context, id int64) (*model.Transaction, error) {
	return l.store.GetTransactionByID(ctx, id)
}

// List returns transactions matching the filter, ordered by date descending.
// Each call runs a fresh query; no cursor state is retained.
func (l *Ledger) List(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	return l.store.GetTransactions(ctx, filter)
}

// Sum totals the transactions of the given type for a category over an
// inclusive date range. No matching rows is not an error; the sum is 0.
func (l *Ledger) Sum(ctx context.Context, categoryID int, start, end time.Time, typ model.TransactionType) (float64, error) {
	return l.store.SumTransactions(ctx, categoryID, start, end, typ)
}

// Update replaces all mutable fields of the transaction with the given id.
// Returns false when the id does not exist.
func (l *Ledger) Update(ctx context.Context, id int64, replacement *model.Transaction) (bool, error) {
	ok, err := l.store.UpdateTransaction(ctx, id, replacement)
	if err != nil {
		return false, err
	}
	if ok {
		slog.Info("updated transaction", "id", id)
	}
	return ok, nil
}

// Delete removes the transaction with the given id. Returns false when the
// id does not exist. Deletion is permanent and immediately visible to every
// aggregate computation.
func (l *Ledger) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := l.store.DeleteTransaction(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		slog.Info("deleted transaction", "id", id)
	}
	return ok, nil
}
