package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/voyant"
	"github.com/aretw0/voyant/internal/cli"
	"github.com/aretw0/voyant/internal/config"
	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/adapters/httpapi"
	"github.com/aretw0/voyant/pkg/adapters/sqlite"
	"github.com/aretw0/voyant/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the travel agent as an HTTP service, exposing the JSON chat API,
per-thread event streams, feedback collection and Prometheus metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("port") {
			cfg.Serve.Port, _ = cmd.Flags().GetInt("port")
		}

		logger := logging.New(logging.ParseLevel(cfg.LogLevel))

		// The stream manager is built before the agent so the loop's
		// lifecycle events can feed /api/events subscribers.
		streams := httpapi.NewStreamManager()
		hooks := streams.Hooks()

		handlerOpts := []httpapi.Option{
			httpapi.WithStreams(streams),
			httpapi.WithLogger(logger),
			httpapi.WithVersion(strings.TrimSpace(voyant.Version)),
		}

		if cfg.Serve.Metrics {
			registry := prometheus.NewRegistry()
			recorder := observability.NewRecorder(registry)
			hooks = observability.Combine(hooks, recorder.Hooks())
			handlerOpts = append(handlerOpts,
				httpapi.WithMetrics(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
		}

		if cfg.Store.FeedbackDB != "" {
			feedback, err := sqlite.Open(cfg.Store.FeedbackDB)
			if err != nil {
				logger.Error("failed to open feedback store", "error", err, "path", cfg.Store.FeedbackDB)
				os.Exit(1)
			}
			defer feedback.Close()
			handlerOpts = append(handlerOpts, httpapi.WithFeedbackStore(feedback))
		}

		agent, err := cli.BuildAgent(context.Background(), cfg, logger, hooks)
		if err != nil {
			logger.Error("failed to initialize agent", "error", err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:    cfg.Serve.Addr(),
			Handler: httpapi.NewHandler(agent, handlerOpts...),
		}

		errc := make(chan error, 1)
		go func() {
			logger.Info("starting voyant server",
				"addr", srv.Addr,
				"version", strings.TrimSpace(voyant.Version),
				"metrics", cfg.Serve.Metrics,
				"store", cfg.Store.Backend)
			errc <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errc:
			logger.Error("server failed", "error", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("shutdown requested", "signal", sig.String())

			// Give in-flight requests a deadline before closing hard.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown incomplete, forcing close", "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("forced close failed", "error", err)
				}
			}
			logger.Info("voyant server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 5001, "Port to listen on")
}
