package model

import "time"

type Institution struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	Email      string    `json:"email"`
	ContactNo  string    `json:"contact_no"`
	Membership string    `json:"membership,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type InstitutionList struct {
	Institutions []Institution `json:"institutions"`
}

// Page is a skip/limit window over an ordered listing.
type Page struct {
	Skip  int
	Limit int
}

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500
)

// Normalize clamps the window to sane bounds.
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}
