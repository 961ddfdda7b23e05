package handlers

import (
	"net/http"

	"github.com/isdelr/userhub-be/internal/api/respond"
	"github.com/isdelr/userhub-be/internal/monitoring"
)

// StatsSource provides the latest health snapshot.
type StatsSource interface {
	Latest() monitoring.Stats
}

// HealthHandler reports liveness plus process stats.
type HealthHandler struct {
	stats StatsSource
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(stats StatsSource) *HealthHandler {
	return &HealthHandler{stats: stats}
}

// Get returns the latest health snapshot.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "ok", h.stats.Latest())
}
