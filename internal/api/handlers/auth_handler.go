package handlers

import (
	"net/http"

	"github.com/isdelr/userhub-be/internal/api/respond"
	"github.com/isdelr/userhub-be/internal/common"
	"github.com/isdelr/userhub-be/internal/models"
	"github.com/isdelr/userhub-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	service services.UserServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	IsSuperuser *bool  `json:"is_superuser"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

// TokenResponse is the data returned by a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respond.Err(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), services.RegisterInput{
		Username:    payload.Username,
		Email:       payload.Email,
		Password:    payload.Password,
		IsSuperuser: payload.IsSuperuser,
	})
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		respond.Err(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "User registered successfully", models.NewUserResponse(user))
}

// Login handles user authentication and JWT generation.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respond.Err(w, err)
		return
	}
	if payload.UsernameOrEmail == "" || payload.Password == "" {
		respond.Err(w, common.NewError(common.ErrValidation, "username_or_email and password are required"))
		return
	}

	token, err := h.service.Login(r.Context(), payload.UsernameOrEmail, payload.Password)
	if err != nil {
		log.Warn().Err(err).Msg("Failed authentication attempt")
		respond.Err(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "Login successful", TokenResponse{Token: token})
}

// Logout acknowledges a logout. Tokens are stateless and stay valid until
// they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "User logged out successfully", nil)
}
