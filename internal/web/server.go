// Package web serves the local web interface over net/http.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/mybudget/mybudget/internal/budget"
	"github.com/mybudget/mybudget/internal/export"
	"github.com/mybudget/mybudget/internal/ledger"
	"github.com/mybudget/mybudget/internal/service"
	"github.com/mybudget/mybudget/internal/stats"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server wires the service layer behind an http.Server.
type Server struct {
	http.Server
	templates *template.Template
	store     service.Storage
	ledger    *ledger.Ledger
	registry  *budget.Registry
	stats     *stats.Engine
	exporter  *export.Exporter
	now       func() time.Time
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, store service.Storage, lg *ledger.Ledger, reg *budget.Registry, eng *stats.Engine, exp *export.Exporter) (*Server, error) {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		store:    store,
		ledger:   lg,
		registry: reg,
		stats:    eng,
		exporter: exp,
		now:      time.Now,
	}

	t, err := template.New("").Funcs(template.FuncMap{
		"amount": formatAmount,
		"date":   formatDate,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s.templates = t

	mux.HandleFunc("GET /{$}", s.withRequestLog(s.handleDashboard))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /transactions", s.withRequestLog(s.handleTransactions))
	mux.HandleFunc("POST /transactions/add", s.withRequestLog(s.handleAddTransaction))
	mux.HandleFunc("POST /transactions/delete/{id}", s.withRequestLog(s.handleDeleteTransaction))
	mux.HandleFunc("GET /budgets", s.withRequestLog(s.handleBudgets))
	mux.HandleFunc("POST /budgets/add", s.withRequestLog(s.handleAddBudget))
	mux.HandleFunc("GET /statistics", s.withRequestLog(s.handleStatistics))
	mux.HandleFunc("GET /export/csv", s.withRequestLog(s.handleExportCSV))
	mux.HandleFunc("GET /export/json", s.withRequestLog(s.handleExportJSON))

	return s, nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}

// withRequestLog adds security headers and request logging.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(r.Context(), "request completed",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f €", v)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
