package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybudget/mybudget/internal/common"
)

func TestCreateCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "abonnements")
	require.NoError(t, err)
	assert.Positive(t, cat.ID)
	assert.Equal(t, "abonnements", cat.Name)

	t.Run("duplicate name is rejected", func(t *testing.T) {
		_, err := store.CreateCategory(ctx, "abonnements")
		require.ErrorIs(t, err, common.ErrDuplicateEntry)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := store.CreateCategory(ctx, "  ")
		require.Error(t, err)
	})
}

func TestGetCategoryByName(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cat, err := store.GetCategoryByName(ctx, "alimentation")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, "alimentation", cat.Name)

	t.Run("unknown name returns nil", func(t *testing.T) {
		cat, err := store.GetCategoryByName(ctx, "inexistante")
		require.NoError(t, err)
		assert.Nil(t, cat)
	})
}

func TestGetCategoryByID(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	byName, err := store.GetCategoryByName(ctx, "loisirs")
	require.NoError(t, err)
	require.NotNil(t, byName)

	byID, err := store.GetCategoryByID(ctx, byName.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, byName.Name, byID.Name)

	t.Run("unknown id returns nil", func(t *testing.T) {
		cat, err := store.GetCategoryByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, cat)
	})
}
