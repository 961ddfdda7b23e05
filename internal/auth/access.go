package auth

import (
	"context"
	"errors"

	"github.com/isdelr/userhub-be/internal/common"
	"github.com/isdelr/userhub-be/internal/models"
	"github.com/isdelr/userhub-be/internal/storage"
)

// TokenVerifier resolves a bearer token to a subject id.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// Authenticator turns bearer tokens into stored users.
type Authenticator struct {
	tokens TokenVerifier
	users  storage.UserReader
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(tokens TokenVerifier, users storage.UserReader) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Authenticate verifies the token and loads its subject. A valid token whose
// user has since been hard-deleted is rejected.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (models.User, error) {
	userID, err := a.tokens.Verify(token)
	if err != nil {
		return models.User{}, common.NewError(common.ErrUnauthenticated, "Invalid token")
	}
	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, common.NewError(common.ErrUnauthenticated, "User not found")
		}
		return models.User{}, err
	}
	return user, nil
}

// RequireAdmin passes the user through only when it carries the admin flag.
func RequireAdmin(user models.User) (models.User, error) {
	if !user.IsSuperuser {
		return models.User{}, common.NewError(common.ErrForbidden, "Admin privileges required")
	}
	return user, nil
}

// RequireSelf fails unless the user is acting on its own record.
func RequireSelf(user models.User, targetID int64) error {
	if user.ID != targetID {
		return common.NewError(common.ErrForbidden, "Cannot delete other users")
	}
	return nil
}
