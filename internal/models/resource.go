package models

import "time"

// Resource carries the bookkeeping fields shared by every stored document.
type Resource struct {
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}
