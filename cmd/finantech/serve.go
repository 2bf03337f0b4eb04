package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/liviogabriel1/FinanTech-Dash/internal/scheduler"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("run-now", false, "Sweep once immediately after start")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daily scheduler",
	Long: `Run the scheduler daemon. Due scheduled transactions are materialized
once a day at scheduler.run_at in scheduler.timezone. Metrics are served on
metrics_addr when it is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	runNow, _ := cmd.Flags().GetBool("run-now")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sched, err := newScheduler(cfg, db, scheduler.NewMetrics(prometheus.DefaultRegisterer))
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		srv := metricsServer(cfg.MetricsAddr)
		go func() {
			slog.Info("Serving metrics", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if runNow {
		sched.Notify()
	}

	sched.Start(ctx)
	slog.Info("Shutting down")
	return nil
}

func metricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
