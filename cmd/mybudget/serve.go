package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mybudget/mybudget/internal/web"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local web interface",
		Long: `Serve starts a local web server with the dashboard, transaction and
budget pages, statistics and export endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, cleanup, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = viper.GetString("web.addr")
			}
			if addr == "" {
				addr = "127.0.0.1:8080"
			}

			srv, err := web.NewServer(addr, svc.store, svc.ledger, svc.registry, svc.stats, svc.exporter)
			if err != nil {
				return fmt.Errorf("failed to build web server: %w", err)
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("web server listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutdown failed: %w", err)
				}
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: 127.0.0.1:8080)")

	return cmd
}
