package models

import "time"

// UserProfile is the lazily materialized profile of an authenticated user.
// It is created (or refreshed) on the first save operation and never deleted.
type UserProfile struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
