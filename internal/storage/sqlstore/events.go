package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/userhub-be/internal/models"
)

// CreateEvent logs a new event to the database.
func (s *Store) CreateEvent(ctx context.Context, event models.Event) error {
	query := s.db.Rebind("INSERT INTO events (id, type, level, message, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if _, err := s.db.ExecContext(ctx, query, event.ID, event.Type, event.Level, event.Message, event.UserID, event.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// ListRecentEvents retrieves the most recent events from the database.
func (s *Store) ListRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	events := []models.Event{}
	query := s.db.Rebind("SELECT id, type, level, message, user_id, created_at FROM events ORDER BY created_at DESC LIMIT ?")
	if err := s.db.SelectContext(ctx, &events, query, limit); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// DeleteEventsBefore removes events older than cutoff and reports how many went.
func (s *Store) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM events WHERE created_at < ?"), cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete events: %w", err)
	}
	return res.RowsAffected()
}
