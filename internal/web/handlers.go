package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mybudget/mybudget/internal/model"
	"github.com/mybudget/mybudget/internal/service"
	"github.com/mybudget/mybudget/internal/stats"
)

type flashMessage struct {
	Text  string
	Level string
}

func flashFromQuery(r *http.Request) *flashMessage {
	msg := r.URL.Query().Get("msg")
	if msg == "" {
		return nil
	}
	level := r.URL.Query().Get("level")
	if level != "success" && level != "error" {
		level = "success"
	}
	return &flashMessage{Text: msg, Level: level}
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, path, msg, level string) {
	q := url.Values{}
	q.Set("msg", msg)
	q.Set("level", level)
	http.Redirect(w, r, path+"?"+q.Encode(), http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "template execution failed", "template", name, "error", err)
		http.Error(w, "erreur de rendu", http.StatusInternalServerError)
	}
}

func (s *Server) categoryNames(r *http.Request) (byID map[int]string, byName map[string]int) {
	byID = make(map[int]string)
	byName = make(map[string]int)
	cats, err := s.store.GetCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load categories", "error", err)
		return byID, byName
	}
	for _, c := range cats {
		byID[c.ID] = c.Name
		byName[c.Name] = c.ID
	}
	return byID, byName
}

type budgetRow struct {
	Category    string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Amount      float64
	Spent       float64
	Remaining   float64
	Percentage  float64
	StatusClass string
	StatusText  string
	ID          int64
}

func (s *Server) budgetRows(r *http.Request, byID map[int]string) []budgetRow {
	budgets, err := s.registry.List(r.Context(), nil)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list budgets", "error", err)
		return nil
	}

	rows := make([]budgetRow, 0, len(budgets))
	for i := range budgets {
		b := &budgets[i]
		status, err := s.registry.Status(r.Context(), b.CategoryID, b.PeriodStart, b.PeriodEnd)
		if err != nil || status == nil {
			continue
		}

		name := byID[b.CategoryID]
		if name == "" {
			name = "inconnu"
		}
		row := budgetRow{
			ID:          b.ID,
			Category:    name,
			PeriodStart: b.PeriodStart,
			PeriodEnd:   b.PeriodEnd,
			Amount:      b.Amount,
			Spent:       status.Spent,
			Remaining:   status.Remaining,
			Percentage:  status.Percentage,
		}
		switch {
		case status.Percentage >= 100:
			row.StatusClass, row.StatusText = "danger", "Dépassé"
		case status.Percentage >= 90:
			row.StatusClass, row.StatusText = "warning", "Attention"
		default:
			row.StatusClass, row.StatusText = "success", "OK"
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	txns, err := s.ledger.List(r.Context(), service.TransactionFilter{})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list transactions", "error", err)
		http.Error(w, "erreur interne", http.StatusInternalServerError)
		return
	}

	var totalIncome, totalExpense float64
	for _, t := range txns {
		if t.Type == model.TypeIncome {
			totalIncome += t.Amount
		} else {
			totalExpense += t.Amount
		}
	}

	byID, _ := s.categoryNames(r)
	data := struct {
		Flash        *flashMessage
		Budgets      []budgetRow
		TotalIncome  float64
		TotalExpense float64
		Balance      float64
	}{
		Flash:        flashFromQuery(r),
		Budgets:      s.budgetRows(r, byID),
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		Balance:      totalIncome - totalExpense,
	}
	s.render(w, r, "dashboard.html", data)
}

type transactionRow struct {
	Date        time.Time
	Category    string
	Description string
	Type        model.TransactionType
	Amount      float64
	ID          int64
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	byID, byName := s.categoryNames(r)

	filter := service.TransactionFilter{}
	categoryFilter := r.URL.Query().Get("category")
	if categoryFilter != "" && categoryFilter != "all" {
		if id, ok := byName[categoryFilter]; ok {
			filter.CategoryID = &id
		}
	}
	typeFilter := r.URL.Query().Get("type")
	if typeFilter != "" && typeFilter != "all" {
		typ := model.TransactionType(typeFilter)
		if typ.Valid() {
			filter.Type = &typ
		}
	}

	txns, err := s.ledger.List(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list transactions", "error", err)
		http.Error(w, "erreur interne", http.StatusInternalServerError)
		return
	}

	rows := make([]transactionRow, 0, len(txns))
	for _, t := range txns {
		name := byID[t.CategoryID]
		if name == "" {
			name = "inconnu"
		}
		rows = append(rows, transactionRow{
			ID:          t.ID,
			Date:        t.Date,
			Category:    name,
			Description: t.Description,
			Type:        t.Type,
			Amount:      t.Amount,
		})
	}

	data := struct {
		Flash          *flashMessage
		Transactions   []transactionRow
		Categories     []string
		CategoryFilter string
		TypeFilter     string
	}{
		Flash:          flashFromQuery(r),
		Transactions:   rows,
		Categories:     sortedNames(byName),
		CategoryFilter: categoryFilter,
		TypeFilter:     typeFilter,
	}
	s.render(w, r, "transactions.html", data)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, "/transactions", "Formulaire invalide", "error")
		return
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(r.Form.Get("amount")), 64)
	if err != nil {
		redirectWithFlash(w, r, "/transactions", "Montant invalide", "error")
		return
	}
	day, err := time.Parse("2006-01-02", strings.TrimSpace(r.Form.Get("date")))
	if err != nil {
		redirectWithFlash(w, r, "/transactions", "Date invalide", "error")
		return
	}

	_, byName := s.categoryNames(r)
	categoryID, ok := byName[r.Form.Get("category")]
	if !ok {
		redirectWithFlash(w, r, "/transactions", "Catégorie invalide", "error")
		return
	}

	txn, err := model.NewTransaction(amount, r.Form.Get("description"), model.TransactionType(r.Form.Get("type")), categoryID, day)
	if err != nil {
		redirectWithFlash(w, r, "/transactions", "Erreur : "+err.Error(), "error")
		return
	}
	if _, err := s.ledger.Add(r.Context(), txn); err != nil {
		slog.ErrorContext(r.Context(), "failed to add transaction", "error", err)
		redirectWithFlash(w, r, "/transactions", "Erreur lors de l'enregistrement", "error")
		return
	}
	redirectWithFlash(w, r, "/transactions", "Transaction ajoutée avec succès !", "success")
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		redirectWithFlash(w, r, "/transactions", "Identifiant invalide", "error")
		return
	}
	deleted, err := s.ledger.Delete(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to delete transaction", "id", id, "error", err)
		redirectWithFlash(w, r, "/transactions", "Erreur lors de la suppression", "error")
		return
	}
	if !deleted {
		redirectWithFlash(w, r, "/transactions", "Transaction introuvable", "error")
		return
	}
	redirectWithFlash(w, r, "/transactions", "Transaction supprimée", "success")
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	byID, byName := s.categoryNames(r)
	data := struct {
		Flash      *flashMessage
		Budgets    []budgetRow
		Categories []string
	}{
		Flash:      flashFromQuery(r),
		Budgets:    s.budgetRows(r, byID),
		Categories: sortedNames(byName),
	}
	s.render(w, r, "budgets.html", data)
}

func (s *Server) handleAddBudget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, "/budgets", "Formulaire invalide", "error")
		return
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(r.Form.Get("amount")), 64)
	if err != nil {
		redirectWithFlash(w, r, "/budgets", "Montant invalide", "error")
		return
	}
	start, err := time.Parse("2006-01-02", strings.TrimSpace(r.Form.Get("start_date")))
	if err != nil {
		redirectWithFlash(w, r, "/budgets", "Date de début invalide", "error")
		return
	}
	end, err := time.Parse("2006-01-02", strings.TrimSpace(r.Form.Get("end_date")))
	if err != nil {
		redirectWithFlash(w, r, "/budgets", "Date de fin invalide", "error")
		return
	}

	_, byName := s.categoryNames(r)
	categoryID, ok := byName[r.Form.Get("category")]
	if !ok {
		redirectWithFlash(w, r, "/budgets", "Catégorie invalide", "error")
		return
	}

	b, err := model.NewBudget(categoryID, amount, start, end)
	if err != nil {
		redirectWithFlash(w, r, "/budgets", "Erreur : "+err.Error(), "error")
		return
	}
	if _, err := s.registry.Create(r.Context(), b); err != nil {
		slog.ErrorContext(r.Context(), "failed to create budget", "error", err)
		redirectWithFlash(w, r, "/budgets", "Erreur lors de la création", "error")
		return
	}
	redirectWithFlash(w, r, "/budgets", "Budget créé avec succès !", "success")
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	year := now.Year()
	month := int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}

	summary, err := s.stats.MonthlySummary(r.Context(), year, time.Month(month))
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute monthly summary", "year", year, "month", month, "error", err)
		http.Error(w, "erreur interne", http.StatusInternalServerError)
		return
	}

	top, err := s.stats.TopExpenses(r.Context(), 5, 30)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute top expenses", "error", err)
	}
	byID, _ := s.categoryNames(r)
	topRows := make([]transactionRow, 0, len(top))
	for _, t := range top {
		topRows = append(topRows, transactionRow{
			ID:          t.ID,
			Date:        t.Date,
			Category:    byID[t.CategoryID],
			Description: t.Description,
			Type:        t.Type,
			Amount:      t.Amount,
		})
	}

	data := struct {
		Flash       *flashMessage
		Summary     *stats.MonthlySummary
		TopExpenses []transactionRow
		Year        int
		Month       int
	}{
		Flash:       flashFromQuery(r),
		Summary:     summary,
		TopExpenses: topRows,
		Year:        year,
		Month:       month,
	}
	s.render(w, r, "statistics.html", data)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("transactions_%s.csv", s.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := s.exporter.TransactionsCSV(r.Context(), w, service.TransactionFilter{}); err != nil {
		slog.ErrorContext(r.Context(), "csv export failed", "error", err)
	}
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("transactions_%s.json", s.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := s.exporter.TransactionsJSON(r.Context(), w, service.TransactionFilter{}, true); err != nil {
		slog.ErrorContext(r.Context(), "json export failed", "error", err)
	}
}

func sortedNames(byName map[string]int) []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
