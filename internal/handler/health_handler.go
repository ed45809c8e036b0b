package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"go-conference-manager/internal/model"
)

type pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	store pinger
}

func NewHealthHandler(store pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Ping answers without touching any dependency.
func (h *HealthHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ping":"pong!"}` + "\n"))
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Health(ctx); err != nil {
		slog.Error("health check failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(model.APIResponse{
			Success: false,
			Error:   &model.APIError{Code: "UNAVAILABLE", Message: "store unreachable"},
		})
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"}, nil)
}
