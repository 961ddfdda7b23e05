package models

// Notification is a message addressed to a single user.
type Notification struct {
	ID      int64  `db:"id"`
	UserID  int64  `db:"user_id"`
	Message string `db:"message"`
}

type NotificationResponse struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"user_id"`
	Message string `json:"message"`
}

func NewNotificationResponse(n Notification) NotificationResponse {
	return NotificationResponse{ID: n.ID, UserID: n.UserID, Message: n.Message}
}

func NewNotificationResponses(ns []Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, NewNotificationResponse(n))
	}
	return out
}
