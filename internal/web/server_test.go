package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybudget/mybudget/internal/budget"
	"github.com/mybudget/mybudget/internal/export"
	"github.com/mybudget/mybudget/internal/ledger"
	"github.com/mybudget/mybudget/internal/model"
	"github.com/mybudget/mybudget/internal/service"
	"github.com/mybudget/mybudget/internal/stats"
	"github.com/mybudget/mybudget/internal/storage"
)

func newTestServer(t *testing.T) (*Server, service.Storage) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(t.TempDir() + "/test.db")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	lg := ledger.New(store)
	reg := budget.NewRegistry(store, lg)
	eng := stats.NewEngine(store, lg)
	exp := export.New(store, lg, reg)

	srv, err := NewServer(":0", store, lg, reg, eng, exp)
	require.NoError(t, err)
	return srv, store
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Server.Handler.ServeHTTP(rr, req)
	return rr
}

func postForm(t *testing.T, srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Server.Handler.ServeHTTP(rr, req)
	return rr
}

func TestDashboardAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Tableau de bord")

	rr = get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestAddTransactionThroughForm(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := postForm(t, srv, "/transactions/add", url.Values{
		"date":        {"2026-03-10"},
		"amount":      {"42.50"},
		"description": {"courses semaine"},
		"type":        {"expense"},
		"category":    {"alimentation"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "level=success")

	rr = get(t, srv, "/transactions")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "courses semaine")
	assert.Contains(t, rr.Body.String(), "42.50")
}

func TestAddTransactionRejectsInvalidInput(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{
			name: "negative amount",
			form: url.Values{
				"date": {"2026-03-10"}, "amount": {"-5"}, "description": {"x"},
				"type": {"expense"}, "category": {"alimentation"},
			},
		},
		{
			name: "unknown category",
			form: url.Values{
				"date": {"2026-03-10"}, "amount": {"5"}, "description": {"x"},
				"type": {"expense"}, "category": {"voyages"},
			},
		},
		{
			name: "bad date",
			form: url.Values{
				"date": {"not-a-date"}, "amount": {"5"}, "description": {"x"},
				"type": {"expense"}, "category": {"alimentation"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postForm(t, srv, "/transactions/add", tt.form)
			require.Equal(t, http.StatusSeeOther, rr.Code)
			assert.Contains(t, rr.Header().Get("Location"), "level=error")
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	srv, store := newTestServer(t)

	txn, err := model.NewTransaction(10, "ticket", model.TypeExpense, 1, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	id, err := ledger.New(store).Add(context.Background(), txn)
	require.NoError(t, err)

	rr := postForm(t, srv, "/transactions/delete/"+itoa(id), nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "level=success")

	rr = postForm(t, srv, "/transactions/delete/"+itoa(id), nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "level=error")
}

func TestBudgetLifecycleThroughForms(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := postForm(t, srv, "/budgets/add", url.Values{
		"category":   {"loisirs"},
		"amount":     {"200"},
		"start_date": {"2026-03-01"},
		"end_date":   {"2026-03-31"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "level=success")

	rr = get(t, srv, "/budgets")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "loisirs")
	assert.Contains(t, rr.Body.String(), "200.00")
}

func TestBudgetAddRejectsInvertedPeriod(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := postForm(t, srv, "/budgets/add", url.Values{
		"category":   {"loisirs"},
		"amount":     {"200"},
		"start_date": {"2026-03-31"},
		"end_date":   {"2026-03-01"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "level=error")
}

func TestStatisticsPage(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(t, srv, "/statistics?year=2026&month=3")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Statistiques 2026-03")
}

func TestExportEndpoints(t *testing.T) {
	srv, store := newTestServer(t)

	txn, err := model.NewTransaction(15, "cinema", model.TypeExpense, 3, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = ledger.New(store).Add(context.Background(), txn)
	require.NoError(t, err)

	rr := get(t, srv, "/export/csv")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, rr.Body.String(), "cinema")

	rr = get(t, srv, "/export/json")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), ".json")
	assert.Contains(t, rr.Body.String(), `"export_date"`)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
