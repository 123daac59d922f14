package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/questflow/internal/cli"
	httpAdapter "github.com/aretw0/questflow/pkg/adapters/http"
	"github.com/aretw0/questflow/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flow]",
	Short: "Start the HTTP API",
	Long: `Serves the flow and its sessions over a JSON API, with Prometheus metrics
at /metrics and the OpenAPI document at /openapi.yaml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd, args)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		watch, _ := cmd.Flags().GetBool("watch")

		if opts.LogLevel == "" {
			opts.LogLevel = "info"
		}
		logger, err := cli.NewLogger(opts)
		if err != nil {
			return err
		}

		metrics, err := observability.NewMetrics(nil)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		metrics.Registerer().MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		eng, err := cli.NewEngine(opts, logger, metrics.Hooks())
		if err != nil {
			return err
		}
		if _, err := eng.Flow(sigCtx); err != nil {
			return err
		}

		persistence, err := cli.NewPersistence(sigCtx, opts, logger)
		if err != nil {
			return err
		}
		defer persistence.Close()

		sessions := cli.NewSessionManager(persistence, eng, logger)
		handler := httpAdapter.NewHandler(eng, sessions,
			httpAdapter.WithMetrics(metrics.Gatherer()),
			httpAdapter.WithLogger(logger),
		)

		if watch {
			go func() {
				if err := cli.WatchFlow(sigCtx, eng, logger, nil); err != nil {
					logger.Warn("Flow watch disabled", "err", err)
				}
			}()
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting questflow server", "address", addr, "flow", opts.FlowPath, "store", opts.StoreKind())
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			logger.Info("Start shutdown", "signal", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			logger.Info("questflow server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the flow when the document changes")
}
