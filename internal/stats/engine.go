// Package stats builds monthly summaries, trends, and spending projections
// on top of the ledger.
package stats

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/mybudget/mybudget/internal/ledger"
	"github.com/mybudget/mybudget/internal/model"
	"github.com/mybudget/mybudget/internal/service"
)

// Engine computes statistics over the ledger's transactions. It carries no
// inter-call state; every query reads the ledger fresh.
type Engine struct {
	now    func() time.Time
	store  service.Storage
	ledger *ledger.Ledger
}

// NewEngine creates a statistics engine on top of the given storage and
// ledger.
func NewEngine(store service.Storage, l *ledger.Ledger) *Engine {
	return &Engine{
		now:    time.Now,
		store:  store,
		ledger: l,
	}
}

// WithClock replaces the engine's notion of "today". Used by tests and by
// callers that need reproducible windows.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// CategorySummary accumulates income and expense totals for one category
// within a summary period.
type CategorySummary struct {
	Name       string
	Income     float64
	Expense    float64
	CategoryID int
}

// MonthlySummary aggregates one calendar month of transactions.
type MonthlySummary struct {
	PeriodStart      time.Time
	PeriodEnd        time.Time
	ByCategory       []CategorySummary
	TotalIncome      float64
	TotalExpense     float64
	Balance          float64
	TransactionCount int
	Year             int
	Month            time.Month
}

// TrendPoint is one month's total expense for a category.
type TrendPoint struct {
	Total float64
	Year  int
	Month time.Month
}

// Projection is a naive linear extrapolation of the current month's
// spending, not a statistical forecast.
type Projection struct {
	CurrentSpending float64
	DailyAverage    float64
	ProjectedTotal  float64
	DaysElapsed     int
	DaysInMonth     int
}

// MonthlySummary aggregates the given calendar month: income and expense
// totals, balance, transaction count, and a per-category breakdown.
// Categories with no transactions in the month are omitted.
func (e *Engine) MonthlySummary(ctx context.Context, year int, month time.Month) (*MonthlySummary, error) {
	start, end := monthBounds(year, month)

	txns, err := e.ledger.List(ctx, service.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{
		Year:             year,
		Month:            month,
		PeriodStart:      start,
		PeriodEnd:        end,
		TransactionCount: len(txns),
	}

	byCategory := make(map[int]*CategorySummary)
	for _, txn := range txns {
		cat, ok := byCategory[txn.CategoryID]
		if !ok {
			cat = &CategorySummary{
				CategoryID: txn.CategoryID,
				Name:       e.categoryName(ctx, txn.CategoryID),
			}
			byCategory[txn.CategoryID] = cat
		}

		if txn.Type == model.TypeIncome {
			summary.TotalIncome += txn.Amount
			cat.Income += txn.Amount
		} else {
			summary.TotalExpense += txn.Amount
			cat.Expense += txn.Amount
		}
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense

	summary.ByCategory = make([]CategorySummary, 0, len(byCategory))
	for _, cat := range byCategory {
		summary.ByCategory = append(summary.ByCategory, *cat)
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].CategoryID < summary.ByCategory[j].CategoryID
	})

	return summary, nil
}

// CategoryTrend returns the category's total expenses for the given number
// of calendar months ending at the current month, oldest first. Months with
// no transactions contribute a zero total.
func (e *Engine) CategoryTrend(ctx context.Context, categoryID int, months int) ([]TrendPoint, error) {
	today := e.now()
	trend := make([]TrendPoint, 0, months)

	for i := 0; i < months; i++ {
		year, month := today.Year(), int(today.Month())-i
		for month <= 0 {
			month += 12
			year--
		}

		start, end := monthBounds(year, time.Month(month))
		total, err := e.ledger.Sum(ctx, categoryID, start, end, model.TypeExpense)
		if err != nil {
			return nil, err
		}

		trend = append(trend, TrendPoint{Year: year, Month: time.Month(month), Total: total})
	}

	// Walked backward from the current month; flip to oldest first.
	for i, j := 0, len(trend)-1; i < j; i, j = i+1, j-1 {
		trend[i], trend[j] = trend[j], trend[i]
	}
	return trend, nil
}

// AverageSpending is the arithmetic mean of the category's monthly expense
// totals over the trend window, rounded to two decimals. Zero months yield
// zero rather than a division by zero.
func (e *Engine) AverageSpending(ctx context.Context, categoryID int, months int) (float64, error) {
	trend, err := e.CategoryTrend(ctx, categoryID, months)
	if err != nil {
		return 0, err
	}
	if len(trend) == 0 {
		return 0, nil
	}

	var total float64
	for _, point := range trend {
		total += point.Total
	}
	return round2(total / float64(len(trend))), nil
}

// TopExpenses returns at most limit expense transactions from the trailing
// days-day window ending today, sorted by amount descending. Ties keep their
// retrieval order.
func (e *Engine) TopExpenses(ctx context.Context, limit, days int) ([]model.Transaction, error) {
	end := model.DateOnly(e.now())
	start := end.AddDate(0, 0, -days)
	expense := model.TypeExpense

	txns, err := e.ledger.List(ctx, service.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
		Type:      &expense,
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Amount > txns[j].Amount
	})

	if len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}

// SpendingByWeekday accumulates expense totals per weekday over a trailing
// window of months*30 days. The 30-day month is a deliberate approximation,
// kept for parity with the historical behavior, not a calendar-exact window.
// A nil categoryID means all categories.
func (e *Engine) SpendingByWeekday(ctx context.Context, categoryID *int, months int) (map[time.Weekday]float64, error) {
	end := model.DateOnly(e.now())
	start := end.AddDate(0, 0, -months*30)
	expense := model.TypeExpense

	txns, err := e.ledger.List(ctx, service.TransactionFilter{
		CategoryID: categoryID,
		StartDate:  &start,
		EndDate:    &end,
		Type:       &expense,
	})
	if err != nil {
		return nil, err
	}

	byWeekday := make(map[time.Weekday]float64, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		byWeekday[day] = 0
	}
	for _, txn := range txns {
		byWeekday[txn.Date.Weekday()] += txn.Amount
	}
	for day, total := range byWeekday {
		byWeekday[day] = round2(total)
	}

	return byWeekday, nil
}

// PredictEndOfMonth linearly extrapolates the category's spending for the
// current month from the daily average so far.
func (e *Engine) PredictEndOfMonth(ctx context.Context, categoryID int) (*Projection, error) {
	today := model.DateOnly(e.now())
	startOfMonth, endOfMonth := monthBounds(today.Year(), today.Month())

	current, err := e.ledger.Sum(ctx, categoryID, startOfMonth, today, model.TypeExpense)
	if err != nil {
		return nil, err
	}

	// Always >= 1: the first of the month counts as one elapsed day.
	daysElapsed := int(today.Sub(startOfMonth).Hours()/24) + 1

	dailyAverage := 0.0
	if daysElapsed > 0 {
		dailyAverage = current / float64(daysElapsed)
	}

	daysInMonth := endOfMonth.Day()

	return &Projection{
		CurrentSpending: round2(current),
		DaysElapsed:     daysElapsed,
		DailyAverage:    round2(dailyAverage),
		DaysInMonth:     daysInMonth,
		ProjectedTotal:  round2(dailyAverage * float64(daysInMonth)),
	}, nil
}

// categoryName resolves a category id for display, falling back to a
// placeholder when the id is unknown.
func (e *Engine) categoryName(ctx context.Context, id int) string {
	cat, err := e.store.GetCategoryByID(ctx, id)
	if err != nil || cat == nil {
		return "inconnue"
	}
	return cat.Name
}

// monthBounds returns the first and last day of a calendar month, handling
// December rollover into the next year.
func monthBounds(year int, month time.Month) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).AddDate(0, 0, -1)
	return start, end
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
