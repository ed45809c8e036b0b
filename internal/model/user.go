package model

import "time"

type User struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ContactNo     string    `json:"contact_no,omitempty"`
	Title         string    `json:"title,omitempty"`
	Department    string    `json:"department,omitempty"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	Enabled       bool      `json:"enabled"`
	InstitutionID *int64    `json:"institution_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	ExpiresIn   int64     `json:"expires_in"`
	User        User      `json:"user"`
}

type UserList struct {
	Users []User `json:"users"`
}
