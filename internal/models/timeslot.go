package models

import "github.com/tutorbook/tutorbook-api/internal/availability"

// MonthAvailability is the payload returned for a month availability query.
type MonthAvailability struct {
	UserID    string                  `json:"user_id"`
	Month     int                     `json:"month"`
	Year      int                     `json:"year"`
	Timeslots []availability.Timeslot `json:"timeslots"`
}
