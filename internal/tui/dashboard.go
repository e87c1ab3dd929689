// Package tui implements the interactive dashboard built on Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mybudget/mybudget/internal/budget"
	"github.com/mybudget/mybudget/internal/cli"
	"github.com/mybudget/mybudget/internal/service"
	"github.com/mybudget/mybudget/internal/stats"
)

// Model is the root dashboard model. It shows the monthly summary and the
// status of every budget, refreshed from storage on demand.
type Model struct {
	ctx      context.Context
	store    service.Storage
	registry *budget.Registry
	stats    *stats.Engine

	table      table.Model
	summary    *stats.MonthlySummary
	categories map[int]string
	err        error

	year   int
	month  time.Month
	width  int
	height int
	ready  bool
}

type refreshedMsg struct {
	summary    *stats.MonthlySummary
	rows       []statusRow
	categories map[int]string
	err        error
}

type statusRow struct {
	category   string
	start, end time.Time
	amount     float64
	spent      float64
	remaining  float64
	percentage float64
	exceeded   bool
}

// NewModel builds the dashboard for the month containing now.
func NewModel(ctx context.Context, store service.Storage, registry *budget.Registry, eng *stats.Engine, now time.Time) Model {
	columns := []table.Column{
		{Title: "Catégorie", Width: 14},
		{Title: "Période", Width: 24},
		{Title: "Budget", Width: 10},
		{Title: "Dépensé", Width: 10},
		{Title: "Restant", Width: 10},
		{Title: "%", Width: 7},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(cli.PrimaryColor)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return Model{
		ctx:      ctx,
		store:    store,
		registry: registry,
		stats:    eng,
		table:    t,
		year:     now.Year(),
		month:    now.Month(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) refresh() tea.Cmd {
	ctx, store, registry, eng := m.ctx, m.store, m.registry, m.stats
	year, month := m.year, m.month
	return func() tea.Msg {
		msg := refreshedMsg{categories: make(map[int]string)}

		cats, err := store.GetCategories(ctx)
		if err != nil {
			msg.err = err
			return msg
		}
		for _, c := range cats {
			msg.categories[c.ID] = c.Name
		}

		msg.summary, err = eng.MonthlySummary(ctx, year, month)
		if err != nil {
			msg.err = err
			return msg
		}

		budgets, err := registry.List(ctx, nil)
		if err != nil {
			msg.err = err
			return msg
		}
		for i := range budgets {
			b := &budgets[i]
			status, err := registry.Status(ctx, b.CategoryID, b.PeriodStart, b.PeriodEnd)
			if err != nil || status == nil {
				continue
			}
			name := msg.categories[b.CategoryID]
			if name == "" {
				name = fmt.Sprintf("#%d", b.CategoryID)
			}
			msg.rows = append(msg.rows, statusRow{
				category:   name,
				start:      b.PeriodStart,
				end:        b.PeriodEnd,
				amount:     b.Amount,
				spent:      status.Spent,
				remaining:  status.Remaining,
				percentage: status.Percentage,
				exceeded:   status.Exceeded,
			})
		}
		return msg
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(4, msg.Height-14))
		return m, nil

	case refreshedMsg:
		m.ready = true
		m.err = msg.err
		if msg.err == nil {
			m.summary = msg.summary
			m.categories = msg.categories
			m.table.SetRows(toTableRows(msg.rows))
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.refresh()
		case "left", "h":
			m.year, m.month = previousMonth(m.year, m.month)
			return m, m.refresh()
		case "right", "l":
			m.year, m.month = nextMonth(m.year, m.month)
			return m, m.refresh()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Chargement..."
	}
	if m.err != nil {
		return cli.ErrorStyle.Render(fmt.Sprintf("Erreur : %v", m.err)) + "\n\nq pour quitter"
	}

	var sections []string
	sections = append(sections, cli.TitleStyle.Render(fmt.Sprintf("MyBudget %04d-%02d", m.year, m.month)))

	if m.summary != nil {
		sections = append(sections, m.renderSummary())
	}
	sections = append(sections, cli.BoldStyle.Render("Budgets"), m.table.View())
	sections = append(sections, cli.SubtleStyle.Render("←/→ mois · r actualiser · q quitter"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderSummary() string {
	s := m.summary
	balance := cli.FormatAmount(s.Balance)
	if s.Balance < 0 {
		balance = cli.ErrorStyle.Render(balance)
	} else {
		balance = cli.SuccessStyle.Render(balance)
	}
	return fmt.Sprintf("Revenus %s   Dépenses %s   Solde %s   (%d transactions)",
		cli.SuccessStyle.Render(cli.FormatAmount(s.TotalIncome)),
		cli.ErrorStyle.Render(cli.FormatAmount(s.TotalExpense)),
		balance,
		s.TransactionCount)
}

func toTableRows(rows []statusRow) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		pct := fmt.Sprintf("%.1f%%", r.percentage)
		if r.exceeded {
			pct = cli.ErrorStyle.Render(pct)
		} else if r.percentage >= budget.NearLimitThreshold {
			pct = cli.WarningStyle.Render(pct)
		}
		out = append(out, table.Row{
			r.category,
			r.start.Format("2006-01-02") + " → " + r.end.Format("2006-01-02"),
			cli.FormatAmount(r.amount),
			cli.FormatAmount(r.spent),
			cli.FormatAmount(r.remaining),
			pct,
		})
	}
	return out
}

func previousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}
