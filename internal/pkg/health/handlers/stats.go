package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
)

// HandleStats handles /stats endpoint: per-job run totals since start.
func HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := performance.GetTracker().GetStats()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode stats: %v", err), http.StatusInternalServerError)
		return
	}
}
