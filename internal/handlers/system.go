package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/generation"
)

type ModelsHandler struct {
	provider   string
	tiers      []generation.Tier
	configured bool
}

func NewModelsHandler(provider string, tiers []generation.Tier, configured bool) *ModelsHandler {
	return &ModelsHandler{provider: provider, tiers: tiers, configured: configured}
}

// List shows the tiers in the order they are tried.
func (h *ModelsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"provider":   h.provider,
		"configured": h.configured,
		"tiers":      h.tiers,
	})
}

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	redis pinger
}

func NewHealthHandler(redis pinger) *HealthHandler {
	return &HealthHandler{redis: redis}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "redis": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
