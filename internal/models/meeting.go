package models

import "github.com/tutorbook/tutorbook-api/internal/availability"

// Meeting is a single scheduled session of a match.
type Meeting struct {
	ID       string                `json:"id"`
	MatchID  string                `json:"match_id"`
	Org      string                `json:"org"`
	Time     availability.Timeslot `json:"time"`
	Subjects []string              `json:"subjects"`
	Venue    string                `json:"venue,omitempty"`
}

// WithTime returns a copy of the meeting scheduled at t.
func (m Meeting) WithTime(t availability.Timeslot) Meeting {
	out := m
	out.Subjects = append([]string(nil), m.Subjects...)
	out.Time = t
	return out
}
