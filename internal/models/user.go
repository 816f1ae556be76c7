package models

import "github.com/tutorbook/tutorbook-api/internal/availability"

// User is a tutor, mentor, pupil or org admin.
type User struct {
	Resource
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Email        string                    `json:"email"`
	Photo        string                    `json:"photo"`
	Bio          string                    `json:"bio"`
	Orgs         []string                  `json:"orgs"`
	Availability availability.Availability `json:"availability"`
}

// TruncatedUser is the public subset of a profile shown to callers without
// access to the full document.
type TruncatedUser struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Photo string   `json:"photo"`
	Bio   string   `json:"bio"`
	Orgs  []string `json:"orgs"`
}

// Truncated strips contact details and availability.
func (u User) Truncated() TruncatedUser {
	return TruncatedUser{ID: u.ID, Name: u.Name, Photo: u.Photo, Bio: u.Bio, Orgs: u.Orgs}
}

// UserFilter narrows the org user directory. Page is zero-based.
type UserFilter struct {
	Orgs        []string
	Search      string
	Page        int
	HitsPerPage int
}
