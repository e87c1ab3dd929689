package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mybudget/mybudget/internal/common"
	"github.com/mybudget/mybudget/internal/model"
	"github.com/mybudget/mybudget/internal/service"
)

// AddTransaction persists a transaction and returns its assigned id.
func (s *SQLiteStorage) AddTransaction(ctx context.Context, txn *model.Transaction) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransaction(txn); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (amount, description, type, category_id, date)
		VALUES (?, ?, ?, ?, ?)`,
		txn.Amount, txn.Description, string(txn.Type), txn.CategoryID, txn.Date)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get transaction ID: %w", err)
	}

	slog.Debug("added transaction",
		"id", id,
		"type", txn.Type,
		"amount", txn.Amount,
		"category_id", txn.CategoryID)
	return id, nil
}

// GetTransactionByID retrieves a single transaction by id. Returns
// common.ErrNotFound when no such row exists.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, amount, description, type, category_id, date
		FROM transactions
		WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

// GetTransactions retrieves transactions matching the filter, ordered by date
// descending. All filters are optional and conjunctive.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, amount, description, type, category_id, date
		FROM transactions
		WHERE 1=1`
	args := []any{}

	if filter.CategoryID != nil {
		query += " AND category_id = ?"
		args = append(args, *filter.CategoryID)
	}
	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, model.DateOnly(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, model.DateOnly(*filter.EndDate))
	}
	if filter.Type != nil {
		query += " AND type = ?"
		args = append(args, string(*filter.Type))
	}

	query += " ORDER BY date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}

	return transactions, rows.Err()
}

// SumTransactions returns the total amount of transactions of the given type
// for a category over an inclusive date range. An empty result sums to 0.
func (s *SQLiteStorage) SumTransactions(ctx context.Context, categoryID int, start, end time.Time, typ model.TransactionType) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateDateRange(start, end); err != nil {
		return 0, err
	}

	var total float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE category_id = ?
		AND date >= ?
		AND date <= ?
		AND type = ?`,
		categoryID, model.DateOnly(start), model.DateOnly(end), string(typ)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}

	return total, nil
}

// UpdateTransaction replaces all mutable fields of the transaction with the
// given id. Returns false, not an error, when the id does not exist.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, id int64, txn *model.Transaction) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateTransaction(txn); err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount = ?, description = ?, type = ?, category_id = ?, date = ?
		WHERE id = ?`,
		txn.Amount, txn.Description, string(txn.Type), txn.CategoryID, txn.Date, id)
	if err != nil {
		return false, fmt.Errorf("failed to update transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

// DeleteTransaction removes the transaction with the given id. Returns false,
// not an error, when the id does not exist. Deletion is permanent and
// immediately affects every aggregate that included the row.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTransaction maps a transactions row to a typed entity. Untyped row data
// never leaks past this boundary.
func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	var typ string
	var date time.Time

	if err := row.Scan(&txn.ID, &txn.Amount, &txn.Description, &typ, &txn.CategoryID, &date); err != nil {
		return nil, err
	}

	txn.Type = model.TransactionType(typ)
	txn.Date = model.DateOnly(date)
	return &txn, nil
}
