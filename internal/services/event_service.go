package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/userhub-be/internal/models"
	"github.com/isdelr/userhub-be/internal/storage"
)

// Event levels.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message string, userID *int64) error
	GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error)
	PurgeEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventService provides business logic for the audit log.
type EventService struct {
	store storage.EventStore
	now   func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(store storage.EventStore) *EventService {
	return &EventService{store: store, now: time.Now}
}

// CreateEvent records a new event.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message string, userID *int64) error {
	return s.store.CreateEvent(ctx, models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	})
}

// GetRecentEvents retrieves the most recent events, newest first.
func (s *EventService) GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	return s.store.ListRecentEvents(ctx, limit)
}

// PurgeEventsBefore deletes events created before cutoff.
func (s *EventService) PurgeEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.store.DeleteEventsBefore(ctx, cutoff)
}
