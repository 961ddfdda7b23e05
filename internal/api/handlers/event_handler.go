package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/userhub-be/internal/api/respond"
	"github.com/isdelr/userhub-be/internal/models"
	"github.com/isdelr/userhub-be/internal/services"
	"github.com/rs/zerolog/log"
)

const (
	defaultEventLimit = 20
	maxEventLimit     = 500
)

// EventHandler handles HTTP requests related to audit events.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent handles the request to get recent activity/events.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request, _ models.User) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultEventLimit
	}
	limit = min(limit, maxEventLimit)

	events, err := h.service.GetRecentEvents(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve events")
		respond.Err(w, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	respond.JSON(w, http.StatusOK, "Events fetched", events)
}
