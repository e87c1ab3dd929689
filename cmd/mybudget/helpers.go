package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mybudget/mybudget/internal/budget"
	"github.com/mybudget/mybudget/internal/config"
	"github.com/mybudget/mybudget/internal/export"
	"github.com/mybudget/mybudget/internal/ledger"
	"github.com/mybudget/mybudget/internal/service"
	"github.com/mybudget/mybudget/internal/stats"
	"github.com/mybudget/mybudget/internal/storage"
)

// services bundles the storage-backed service graph used by every command.
type services struct {
	store    service.Storage
	ledger   *ledger.Ledger
	registry *budget.Registry
	alerts   *budget.Evaluator
	stats    *stats.Engine
	exporter *export.Exporter
}

// initStorage opens the configured database and runs migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/mybudget/mybudget.db"
	}

	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initServices opens storage and wires the full service graph.
// The returned cleanup closes the database.
func initServices(ctx context.Context) (*services, func(), error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	lg := ledger.New(store)
	reg := budget.NewRegistry(store, lg)
	s := &services{
		store:    store,
		ledger:   lg,
		registry: reg,
		alerts:   budget.NewEvaluator(reg),
		stats:    stats.NewEngine(store, lg),
		exporter: export.New(store, lg, reg),
	}
	cleanup := func() { _ = store.Close() }
	return s, cleanup, nil
}

// resolveCategory maps a category name to its ID.
func resolveCategory(ctx context.Context, store service.Storage, name string) (int, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return 0, fmt.Errorf("category name is required")
	}
	cat, err := store.GetCategoryByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to look up category: %w", err)
	}
	if cat == nil {
		return 0, fmt.Errorf("unknown category %q (run 'mybudget categories list')", name)
	}
	return cat.ID, nil
}

// categoryNames returns the id-to-name map for display purposes.
func categoryNames(ctx context.Context, store service.Storage) (map[int]string, error) {
	cats, err := store.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	byID := make(map[int]string, len(cats))
	for _, c := range cats {
		byID[c.ID] = c.Name
	}
	return byID, nil
}

// parseDate parses a YYYY-MM-DD flag value.
func parseDate(value string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return d, nil
}
