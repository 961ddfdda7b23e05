package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/userhub-be/internal/models"
)

// GetProfileByUserID returns the user's profile, or nil when none exists.
func (s *Store) GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	var p models.Profile
	query := s.db.Rebind("SELECT id, user_id, full_name, bio FROM profiles WHERE user_id = ?")
	if err := s.db.GetContext(ctx, &p, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile creates the user's profile or replaces its fields.
func (s *Store) UpsertProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	query := s.db.Rebind(`
		INSERT INTO profiles (user_id, full_name, bio)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET full_name = excluded.full_name, bio = excluded.bio
		RETURNING id, user_id, full_name, bio`)
	var out models.Profile
	if err := s.db.QueryRowxContext(ctx, query, profile.UserID, profile.FullName, profile.Bio).StructScan(&out); err != nil {
		return models.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return out, nil
}

// ListNotificationsByUserID lists a user's notifications in creation order.
func (s *Store) ListNotificationsByUserID(ctx context.Context, userID int64) ([]models.Notification, error) {
	notifications := []models.Notification{}
	query := s.db.Rebind("SELECT id, user_id, message FROM notifications WHERE user_id = ? ORDER BY id")
	if err := s.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// CreateNotification inserts a notification and returns it with its id.
func (s *Store) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	query := s.db.Rebind("INSERT INTO notifications (user_id, message) VALUES (?, ?) RETURNING id")
	if err := s.db.QueryRowxContext(ctx, query, n.UserID, n.Message).Scan(&n.ID); err != nil {
		return models.Notification{}, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}
