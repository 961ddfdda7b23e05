package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/isdelr/userhub-be/internal/auth"
	"github.com/isdelr/userhub-be/internal/common"
	"github.com/isdelr/userhub-be/internal/models"
	"github.com/isdelr/userhub-be/internal/storage"
	"github.com/rs/zerolog/log"
)

// TokenIssuer mints access tokens for a user id.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, in RegisterInput) (models.User, error)
	Login(ctx context.Context, identifier, password string) (string, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	UpdateUser(ctx context.Context, id int64, update models.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	SoftDelete(ctx context.Context, actor models.User, targetID int64) (models.SoftDeleteResult, error)
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, fullName, bio *string) (models.Profile, error)
	GetNotifications(ctx context.Context, userID int64) ([]models.Notification, error)
	SendNotification(ctx context.Context, userID int64, message string) (models.Notification, error)
}

// RegisterInput carries a registration request. A nil IsSuperuser means true.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	IsSuperuser *bool
}

var (
	errInvalidCredentials = common.NewError(common.ErrUnauthenticated, "Invalid credentials")
	errUserNotFound       = common.NewError(common.ErrNotFound, "User not found")
)

// dummyHash is compared against when the login identifier is unknown so that
// both failure paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("userhub-dummy-password")
	return h
})

// UserService provides business logic for user management.
type UserService struct {
	users    storage.UserStore
	profiles storage.ProfileStore
	tokens   TokenIssuer
	events   EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(users storage.UserStore, profiles storage.ProfileStore, tokens TokenIssuer, events EventServiceProvider) *UserService {
	return &UserService{users: users, profiles: profiles, tokens: tokens, events: events}
}

// Register creates a new user after checking email, then username, for
// duplicates.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	if in.Username == "" || in.Password == "" {
		return models.User{}, common.NewError(common.ErrValidation, "username and password are required")
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return models.User{}, auth.ErrPasswordTooLong
	}
	if err := validateEmail(in.Email); err != nil {
		return models.User{}, err
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return models.User{}, common.NewError(common.ErrConflict, "Email already registered")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, err
	}
	if _, err := s.users.GetUserByUsername(ctx, in.Username); err == nil {
		return models.User{}, common.NewError(common.ErrConflict, "Username already taken")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	isSuperuser := true
	if in.IsSuperuser != nil {
		isSuperuser = *in.IsSuperuser
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  isSuperuser,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, common.NewError(common.ErrConflict, "Username or email already registered")
		}
		return models.User{}, err
	}

	s.record(ctx, "user.register", LevelInfo, fmt.Sprintf("User '%s' registered.", user.Username), &user.ID)
	return user, nil
}

// Login verifies credentials and issues a token. Unknown identifiers and wrong
// passwords fail identically.
func (s *UserService) Login(ctx context.Context, identifier, password string) (string, error) {
	user, err := s.users.GetUserByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return "", err
		}
		auth.VerifyPassword(password, dummyHash())
		s.record(ctx, "user.login.fail", LevelWarn, "Login failed for unknown identifier.", nil)
		return "", errInvalidCredentials
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.record(ctx, "user.login.fail", LevelWarn, "Login failed: wrong password.", &user.ID)
		return "", errInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}
	s.record(ctx, "user.login", LevelInfo, fmt.Sprintf("User '%s' logged in.", user.Username), &user.ID)
	return token, nil
}

// ListUsers returns every stored user.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.ListUsers(ctx)
}

// GetUser retrieves a single user by id.
func (s *UserService) GetUser(ctx context.Context, id int64) (models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, notFound(err)
	}
	return user, nil
}

// UpdateUser overwrites the non-empty fields of update. Uniqueness is not
// pre-checked; a collision surfaces from the store's constraint.
func (s *UserService) UpdateUser(ctx context.Context, id int64, update models.UserUpdate) (models.User, error) {
	if email := nonEmpty(update.Email); email != "" {
		if err := validateEmail(email); err != nil {
			return models.User{}, err
		}
	}
	var hash string
	if password := nonEmpty(update.Password); password != "" {
		if len(password) > auth.MaxPasswordBytes {
			return models.User{}, auth.ErrPasswordTooLong
		}
		h, err := auth.HashPassword(password)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = h
	}

	user, err := s.users.UpdateUser(ctx, id, func(u *models.User) error {
		if username := nonEmpty(update.Username); username != "" {
			u.Username = username
		}
		if email := nonEmpty(update.Email); email != "" {
			u.Email = email
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, common.NewError(common.ErrConflict, "Username or email already in use")
		}
		return models.User{}, notFound(err)
	}

	s.record(ctx, "user.update", LevelInfo, fmt.Sprintf("User '%s' updated.", user.Username), &user.ID)
	return user, nil
}

// DeleteUser removes a user permanently.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return notFound(err)
	}
	s.record(ctx, "user.delete", LevelWarn, fmt.Sprintf("User %d deleted.", id), &id)
	return nil
}

// SoftDelete marks the actor's own account inactive. Repeating it is harmless.
func (s *UserService) SoftDelete(ctx context.Context, actor models.User, targetID int64) (models.SoftDeleteResult, error) {
	if err := auth.RequireSelf(actor, targetID); err != nil {
		return models.SoftDeleteResult{}, err
	}
	if err := s.users.SetUserActive(ctx, targetID, false); err != nil {
		return models.SoftDeleteResult{}, notFound(err)
	}
	s.record(ctx, "user.soft_delete", LevelInfo, fmt.Sprintf("User %d deactivated.", targetID), &targetID)
	return models.SoftDeleteResult{ID: targetID, IsActive: false}, nil
}

// GetProfile returns the user's profile, or nil when none exists.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	return s.profiles.GetProfileByUserID(ctx, userID)
}

// UpdateProfile creates or replaces the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, fullName, bio *string) (models.Profile, error) {
	profile, err := s.profiles.UpsertProfile(ctx, models.Profile{UserID: userID, FullName: fullName, Bio: bio})
	if err != nil {
		return models.Profile{}, err
	}
	s.record(ctx, "profile.update", LevelInfo, "Profile updated.", &userID)
	return profile, nil
}

// GetNotifications lists the user's notifications in creation order.
func (s *UserService) GetNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	return s.profiles.ListNotificationsByUserID(ctx, userID)
}

// SendNotification stores a notification for an existing user.
func (s *UserService) SendNotification(ctx context.Context, userID int64, message string) (models.Notification, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.Notification{}, common.NewError(common.ErrValidation, "message is required")
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return models.Notification{}, notFound(err)
	}
	n, err := s.profiles.CreateNotification(ctx, models.Notification{UserID: userID, Message: message})
	if err != nil {
		return models.Notification{}, err
	}
	s.record(ctx, "notification.send", LevelInfo, "Notification sent.", &userID)
	return n, nil
}

// record writes an audit event. Failures are logged, never returned.
func (s *UserService) record(ctx context.Context, eventType, level, message string, userID *int64) {
	if s.events == nil {
		return
	}
	if err := s.events.CreateEvent(ctx, eventType, level, message, userID); err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return errUserNotFound
	}
	return err
}

func nonEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return common.NewError(common.ErrValidation, "value is not a valid email address")
	}
	return nil
}
