package models

import "time"

// Event represents an audited action on a user account.
type Event struct {
	ID        string    `json:"id" db:"id"`
	Type      string    `json:"type" db:"type"`   // e.g., "user.register", "user.login.fail"
	Level     string    `json:"level" db:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message" db:"message"`
	UserID    *int64    `json:"user_id,omitempty" db:"user_id"` // Nullable for anonymous events
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
