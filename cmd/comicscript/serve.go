package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vampirenirmal/comicscript/internal/api"
	"github.com/vampirenirmal/comicscript/internal/approval"
	"github.com/vampirenirmal/comicscript/internal/config"
	"github.com/vampirenirmal/comicscript/internal/core"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the HTTP API. Runs started over HTTP are approved automatically
and saved to the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		mock, _ := cmd.Flags().GetBool("mock")

		cfg, err := loadConfig(cmd, func(c *config.Config) {
			if addr != "" {
				c.Server.Addr = addr
			}
			if mock {
				c.AI.Provider = config.ProviderMock
			}
		})
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		runner := a.orchestrator(approval.AutoApprove{}, core.WithSaver(a.store))
		handler := api.New(a.writer, runner, api.WithMetrics(a.registry)).Handler()

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		logger := slog.Default().With("component", "server")

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting server", "addr", srv.Addr, "provider", cfg.AI.Provider)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", cfg.Server.ShutdownTimeout, "error", err)
				return srv.Close()
			}
			logger.Info("server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides config, default :8080)")
	serveCmd.Flags().Bool("mock", false, "Use the offline mock backend")
}
