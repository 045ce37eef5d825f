package model

import "time"

// User is the account record as returned by the backend.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	Phone     string    `json:"phone"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile holds the user's editable profile details.
type Profile struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Bio        string    `json:"bio"`
	Location   string    `json:"location"`
	ProfilePic string    `json:"profile_pic"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
