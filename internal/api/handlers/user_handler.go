package handlers

import (
	"net/http"

	"github.com/isdelr/userhub-be/internal/api/respond"
	"github.com/isdelr/userhub-be/internal/models"
	"github.com/isdelr/userhub-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user management. Every method
// receives the caller already resolved by the auth guard.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// UpdatePayload is the partial update accepted by admins. Absent or empty
// fields are left unchanged.
type UpdatePayload struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// ProfilePayload sets the caller's profile fields.
type ProfilePayload struct {
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
}

// NotificationPayload is the body of an admin notification.
type NotificationPayload struct {
	Message string `json:"message"`
}

// GetAll lists every user.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request, _ models.User) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "All users fetched", models.NewUserResponses(users))
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request, _ models.User) {
	id, err := idParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "User fetched", models.NewUserResponse(user))
}

// Update handles an admin's partial update of a user.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request, admin models.User) {
	id, err := idParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}
	var payload UpdatePayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respond.Err(w, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, models.UserUpdate{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		log.Warn().Err(err).Int64("user_id", id).Int64("admin_id", admin.ID).Msg("Failed to update user")
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "User updated successfully", models.NewUserResponse(user))
}

// Delete handles the permanent deletion of a user account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request, admin models.User) {
	id, err := idParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		log.Warn().Err(err).Int64("user_id", id).Int64("admin_id", admin.ID).Msg("Failed to delete user")
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "User deleted successfully", nil)
}

// SoftDelete deactivates the caller's own account.
func (h *UserHandler) SoftDelete(w http.ResponseWriter, r *http.Request, caller models.User) {
	id, err := idParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}
	result, err := h.service.SoftDelete(r.Context(), caller, id)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", id).Int64("caller_id", caller.ID).Msg("Soft delete rejected")
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "User soft deleted", result)
}

// GetProfile returns the caller's profile, or null data when none exists.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request, caller models.User) {
	profile, err := h.service.GetProfile(r.Context(), caller.ID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "Profile fetched", models.NewProfileResponse(profile))
}

// UpdateProfile creates or replaces the caller's profile.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request, caller models.User) {
	var payload ProfilePayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respond.Err(w, err)
		return
	}
	profile, err := h.service.UpdateProfile(r.Context(), caller.ID, payload.FullName, payload.Bio)
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "Profile updated", models.NewProfileResponse(&profile))
}

// GetNotifications lists the caller's notifications.
func (h *UserHandler) GetNotifications(w http.ResponseWriter, r *http.Request, caller models.User) {
	notifications, err := h.service.GetNotifications(r.Context(), caller.ID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "Notifications fetched", models.NewNotificationResponses(notifications))
}

// SendNotification lets an admin notify a user.
func (h *UserHandler) SendNotification(w http.ResponseWriter, r *http.Request, admin models.User) {
	id, err := idParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}
	var payload NotificationPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respond.Err(w, err)
		return
	}
	n, err := h.service.SendNotification(r.Context(), id, payload.Message)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", id).Int64("admin_id", admin.ID).Msg("Failed to send notification")
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "Notification sent", models.NewNotificationResponse(n))
}
