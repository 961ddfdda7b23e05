package sqlstore

import (
	"context"
	"fmt"

	"github.com/isdelr/userhub-be/internal/models"
	"github.com/jmoiron/sqlx"
)

const userColumns = "id, username, email, password, is_active, is_superuser"

func getUser(ctx context.Context, q sqlx.ExtContext, where string, args ...any) (models.User, error) {
	var u models.User
	query := q.Rebind("SELECT " + userColumns + " FROM users WHERE " + where)
	if err := sqlx.GetContext(ctx, q, &u, query, args...); err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

// GetUserByID fetches a user by primary key.
func (s *Store) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	return getUser(ctx, s.db, "id = ?", id)
}

// GetUserByUsername fetches a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return getUser(ctx, s.db, "username = ?", username)
}

// GetUserByEmail fetches a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return getUser(ctx, s.db, "email = ?", email)
}

// GetUserByUsernameOrEmail fetches the first user matching the identifier as
// username or email.
func (s *Store) GetUserByUsernameOrEmail(ctx context.Context, identifier string) (models.User, error) {
	return getUser(ctx, s.db, "username = ? OR email = ? ORDER BY id LIMIT 1", identifier, identifier)
}

// ListUsers returns every user ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, "SELECT "+userColumns+" FROM users ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser inserts a new user row and returns it with its id.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := s.db.Rebind(`
		INSERT INTO users (username, email, password, is_active, is_superuser)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)
	row := s.db.QueryRowxContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.IsActive, user.IsSuperuser)
	if err := row.Scan(&user.ID); err != nil {
		return models.User{}, translate(err)
	}
	return user, nil
}

// UpdateUser applies fn to the stored user and persists the result atomically.
func (s *Store) UpdateUser(ctx context.Context, id int64, fn func(u *models.User) error) (models.User, error) {
	var updated models.User
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		u, err := getUser(ctx, tx, "id = ?", id)
		if err != nil {
			return err
		}
		if err := fn(&u); err != nil {
			return err
		}
		query := tx.Rebind(`
			UPDATE users
			SET username = ?, email = ?, password = ?, is_active = ?, is_superuser = ?
			WHERE id = ?`)
		if _, err := tx.ExecContext(ctx, query, u.Username, u.Email, u.PasswordHash, u.IsActive, u.IsSuperuser, u.ID); err != nil {
			return translate(err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return updated, nil
}

// SetUserActive flips the active flag. It succeeds even when the flag already
// has the requested value.
func (s *Store) SetUserActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE users SET is_active = ? WHERE id = ?"), active, id)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	return rowsAffected(res)
}

// DeleteUser removes a user; profiles and notifications cascade.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return rowsAffected(res)
}
