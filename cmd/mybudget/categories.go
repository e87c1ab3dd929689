package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mybudget/mybudget/internal/cli"
	"github.com/mybudget/mybudget/internal/common"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage transaction categories",
	}
	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())
	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			cats, err := svc.store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render("Catégories"))
			for _, c := range cats {
				fmt.Fprintf(os.Stdout, "  %-4d %s\n", c.ID, c.Name)
			}
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			name := strings.TrimSpace(strings.ToLower(args[0]))
			cat, err := svc.store.CreateCategory(ctx, name)
			if err != nil {
				if errors.Is(err, common.ErrDuplicateEntry) {
					return fmt.Errorf("category %q already exists", name)
				}
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Fprintf(os.Stdout, "%s\n", cli.SuccessStyle.Render(fmt.Sprintf("Catégorie #%d créée : %s", cat.ID, cat.Name)))
			return nil
		},
	}
}
