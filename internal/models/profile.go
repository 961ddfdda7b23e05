package models

// Profile holds optional personal details attached to a user.
type Profile struct {
	ID       int64   `db:"id"`
	UserID   int64   `db:"user_id"`
	FullName *string `db:"full_name"`
	Bio      *string `db:"bio"`
}

type ProfileResponse struct {
	ID       int64   `json:"id"`
	UserID   int64   `json:"user_id"`
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
}

// NewProfileResponse projects a profile. A nil profile yields nil so that the
// envelope carries "data": null.
func NewProfileResponse(p *Profile) *ProfileResponse {
	if p == nil {
		return nil
	}
	return &ProfileResponse{ID: p.ID, UserID: p.UserID, FullName: p.FullName, Bio: p.Bio}
}
