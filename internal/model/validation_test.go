package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorMessage(t *testing.T) {
	err := newValidationError("budget", "amount must be positive, got %.2f", -10.0)
	assert.Equal(t, "invalid budget: amount must be positive, got -10.00", err.Error())
}

func TestConstructorsReturnValidationError(t *testing.T) {
	tests := []struct {
		construct func() error
		name      string
		entity    string
	}{
		{
			name:   "transaction with zero amount",
			entity: "transaction",
			construct: func() error {
				_, err := NewTransaction(0, "x", TypeExpense, 1, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
				return err
			},
		},
		{
			name:   "budget with inverted period",
			entity: "budget",
			construct: func() error {
				_, err := NewBudget(1, 100,
					time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
				return err
			},
		},
		{
			name:   "category with empty name",
			entity: "category",
			construct: func() error {
				_, err := NewCategory("   ")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.construct()
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected a ValidationError")
			assert.Equal(t, tt.entity, verr.Entity)
			assert.NotEmpty(t, verr.Reason)
		})
	}
}
