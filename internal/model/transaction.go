package model

import (
	"strings"
	"time"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	// TypeExpense represents money spent.
	TypeExpense TransactionType = "expense"
	// TypeIncome represents money received.
	TypeIncome TransactionType = "income"
)

// Valid reports whether the type is one of the two known kinds.
func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

// Transaction is a single dated monetary event. The occurrence date carries
// no time component; constructors truncate it to midnight UTC so date-range
// comparisons behave as calendar-date comparisons.
type Transaction struct {
	Date        time.Time
	Description string
	Type        TransactionType
	Amount      float64
	CategoryID  int
	ID          int64
}

// NewTransaction validates and constructs a transaction. The invariants are
// enforced here, once, before anything reaches storage: amount strictly
// positive, a known type, and a non-empty description after trimming.
func NewTransaction(amount float64, description string, typ TransactionType, categoryID int, date time.Time) (*Transaction, error) {
	if amount <= 0 {
		return nil, newValidationError("transaction", "amount must be positive, got %.2f", amount)
	}
	if !typ.Valid() {
		return nil, newValidationError("transaction", "type must be %q or %q, got %q", TypeExpense, TypeIncome, typ)
	}
	if strings.TrimSpace(description) == "" {
		return nil, newValidationError("transaction", "description cannot be empty")
	}
	if date.IsZero() {
		return nil, newValidationError("transaction", "date cannot be zero")
	}

	return &Transaction{
		Amount:      amount,
		Description: description,
		Type:        typ,
		CategoryID:  categoryID,
		Date:        DateOnly(date),
	}, nil
}

// DateOnly strips the time component from t, keeping the calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
