package health

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vodeneev/collegetennis/internal/pkg/health/handlers"
	"github.com/Vodeneev/collegetennis/internal/pkg/interfaces"
)

// NewMux wires the operational endpoints around runner.
func NewMux(runner interfaces.JobRunner, triggerTimeout time.Duration) *http.ServeMux {
	handlers.SetRunner(runner, triggerTimeout)

	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("/ping", handlers.HandlePing)
	mux.HandleFunc("/health", handlers.HandleHealth)

	// Metrics endpoints
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/stats", handlers.HandleStats)

	// Jobs
	mux.HandleFunc("/jobs", handlers.HandleJobs)
	mux.HandleFunc("/sync", handlers.HandleSync)
	return mux
}

// Run serves the endpoints on addr until ctx is done.
func Run(ctx context.Context, addr string, runner interfaces.JobRunner, readHeaderTimeout, triggerTimeout time.Duration) error {
	if readHeaderTimeout <= 0 {
		return fmt.Errorf("read_header_timeout must be specified in config")
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewMux(runner, triggerTimeout),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		slog.Info("Health server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health server error", "error", err)
		}
	}()
	return nil
}

func AddrFor(port int) (string, error) {
	if port <= 0 {
		return "", fmt.Errorf("port must be greater than 0")
	}
	return fmt.Sprintf(":%d", port), nil
}
