package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/midwicket/crickstack/internal/app"
	"github.com/midwicket/crickstack/internal/config"
	"github.com/midwicket/crickstack/internal/observability"
	"github.com/midwicket/crickstack/internal/platform/logging"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the stats HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := logging.NewJSON(cfg.LogLevel)
			logging.SetDefault(logger)
			defer logger.Sync()

			handle, err := app.OpenDatabase(cfg)
			if err != nil {
				return err
			}
			defer handle.Close()

			srv, err := app.NewHTTPServer(cfg, handle, logger)
			if err != nil {
				return err
			}

			pprofSrv, err := observability.StartPprofServer(cfg, logger)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("http server starting", "addr", cfg.HTTPAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
				logger.Warn("pprof shutdown failed", "error", err)
			}
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}

			logger.Info("http server stopped")
			return nil
		},
	}
}
