// Package storage declares the persistence ports used by access control and the
// services. The sqlstore subpackage implements them on SQLite or Postgres.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/isdelr/userhub-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserReader is the lookup subset needed to resolve a token subject.
type UserReader interface {
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// UserStore captures the credential store operations.
type UserStore interface {
	UserReader
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByUsernameOrEmail(ctx context.Context, identifier string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// UpdateUser loads the user, applies fn and writes the result back in a
	// single transaction. An error from fn aborts the update.
	UpdateUser(ctx context.Context, id int64, fn func(u *models.User) error) (models.User, error)
	SetUserActive(ctx context.Context, id int64, active bool) error
	DeleteUser(ctx context.Context, id int64) error
}

// ProfileStore reads and writes per-user profiles and notifications.
type ProfileStore interface {
	// GetProfileByUserID returns nil, nil when the user has no profile.
	GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
	ListNotificationsByUserID(ctx context.Context, userID int64) ([]models.Notification, error)
	CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error)
}

// EventStore persists audit events.
type EventStore interface {
	CreateEvent(ctx context.Context, event models.Event) error
	ListRecentEvents(ctx context.Context, limit int) ([]models.Event, error)
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
