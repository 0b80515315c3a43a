package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Vodeneev/collegetennis/internal/pkg/interfaces"
	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
)

var (
	runnerMu       sync.RWMutex
	runner         interfaces.JobRunner
	triggerTimeout = 10 * time.Minute
)

// SetRunner installs the runner behind /jobs and /sync.
func SetRunner(r interfaces.JobRunner, timeout time.Duration) {
	runnerMu.Lock()
	defer runnerMu.Unlock()
	runner = r
	if timeout > 0 {
		triggerTimeout = timeout
	}
}

func currentRunner() interfaces.JobRunner {
	runnerMu.RLock()
	defer runnerMu.RUnlock()
	return runner
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// HandleJobs lists the registered jobs and whether each is running.
// GET /jobs
func HandleJobs(w http.ResponseWriter, r *http.Request) {
	rn := currentRunner()
	if rn == nil {
		writeError(w, http.StatusServiceUnavailable, "no jobs registered")
		return
	}
	states := rn.States()
	writeJSON(w, http.StatusOK, map[string]any{"jobs": states, "count": len(states)})
}

// HandleSync runs a job and answers with its run summary.
// POST /sync?job=dual-matches         - run one job
// POST /sync?job=tournament&id=<id>   - run a keyed job for one entity
func HandleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rn := currentRunner()
	if rn == nil {
		writeError(w, http.StatusServiceUnavailable, "no jobs registered")
		return
	}

	name := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("job")))
	if name == "" {
		writeError(w, http.StatusBadRequest, "job parameter is required")
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))

	runnerMu.RLock()
	timeout := triggerTimeout
	runnerMu.RUnlock()
	// The run outlives a dropped client.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), timeout)
	defer cancel()

	slog.Info("Manual sync triggered", "job", name, "id", id)
	var (
		stats *performance.RunStats
		err   error
	)
	if id != "" {
		stats, err = rn.RunOne(ctx, name, id)
	} else {
		stats, err = rn.Run(ctx, name)
	}

	switch {
	case errors.Is(err, interfaces.ErrUnknownJob):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, interfaces.ErrNotKeyed):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, interfaces.ErrAlreadyRunning):
		writeError(w, http.StatusConflict, err.Error())
	case stats == nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, stats.Summary())
	default:
		writeJSON(w, http.StatusOK, stats.Summary())
	}
}
