package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mybudget/mybudget/internal/tui"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive terminal dashboard",
		Long: `Dashboard opens an interactive view of the current month: income and
expense totals plus the status of every budget. Use the arrow keys to
move between months.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			m := tui.NewModel(ctx, svc.store, svc.registry, svc.stats, time.Now())
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("dashboard failed: %w", err)
			}
			return nil
		},
	}
}
