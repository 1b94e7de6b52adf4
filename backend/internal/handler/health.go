package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/itchan-dev/modcore/shared/logger"
)

const readyTimeout = 2 * time.Second

// Health reports that the process is up and serving.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Ready reports 503 while postgres or redis is unreachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		logger.Log.Warn("readiness check failed", "error", err)
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("ok"))
}
