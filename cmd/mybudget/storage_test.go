package main

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDatabasePath(t *testing.T, path string) {
	t.Helper()
	viper.Set("database.path", path)
	t.Cleanup(func() { viper.Set("database.path", "") })
}

func TestInitStorageMigratesFreshDatabase(t *testing.T) {
	setDatabasePath(t, t.TempDir()+"/mybudget.db")

	store, err := initStorage(context.Background())
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	cats, err := store.GetCategories(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, cats)
}

func TestInitStorageClosesStoreOnMigrationFailure(t *testing.T) {
	path := t.TempDir() + "/mybudget.db"
	setDatabasePath(t, path)

	// A schema version newer than the application knows makes Migrate fail.
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store, err := initStorage(context.Background())
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "failed to run migrations")
}
