package models

// User represents a user account in the system.
type User struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password"`
	IsActive     bool   `db:"is_active"`
	IsSuperuser  bool   `db:"is_superuser"`
}

// UserResponse is the client-facing projection of a User. It never carries the
// password hash.
type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

// NewUserResponse projects a single user.
func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
	}
}

// NewUserResponses projects a list of users. The result is never nil so it
// encodes as [] rather than null.
func NewUserResponses(users []User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// UserUpdate carries the optional fields of an admin update. Nil or empty
// fields are left untouched.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// SoftDeleteResult is returned by the soft-delete operation.
type SoftDeleteResult struct {
	ID       int64 `json:"id"`
	IsActive bool  `json:"is_active"`
}
