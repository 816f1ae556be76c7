package models

import "github.com/tutorbook/tutorbook-api/internal/availability"

// MatchStatus is the lifecycle stage of a match.
type MatchStatus string

const (
	// MatchStatusNew is set on creation until the match becomes active or stale.
	MatchStatusNew MatchStatus = "new"
	// MatchStatusActive marks people meeting on a regular, recurring basis.
	MatchStatusActive MatchStatus = "active"
	// MatchStatusStale marks matches that have not met for over a week.
	MatchStatusStale MatchStatus = "stale"
)

// Aspect distinguishes tutoring from mentoring matches.
type Aspect string

const (
	AspectTutoring  Aspect = "tutoring"
	AspectMentoring Aspect = "mentoring"
)

// Person is a participant reference embedded in matches.
type Person struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Photo string   `json:"photo"`
	Roles []string `json:"roles"`
}

// HasRole reports whether the person plays role in the match.
func (p Person) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Match pairs people for tutoring or mentoring. Time is the weekly recurring
// slot they meet in, when one has been agreed.
type Match struct {
	Resource
	ID       string                   `json:"id"`
	Org      string                   `json:"org"`
	Status   MatchStatus              `json:"status"`
	Subjects []string                 `json:"subjects"`
	People   []Person                 `json:"people"`
	Creator  Person                   `json:"creator"`
	Message  string                   `json:"message"`
	Time     *availability.TimeWindow `json:"time,omitempty"`
}

// Aspect derives the match aspect from participant roles.
func (m Match) Aspect() Aspect {
	for _, p := range m.People {
		if p.HasRole("tutor") || p.HasRole("tutee") {
			return AspectTutoring
		}
	}
	return AspectMentoring
}

// PersonIDs lists the ids of every participant.
func (m Match) PersonIDs() []string {
	ids := make([]string, 0, len(m.People))
	for _, p := range m.People {
		ids = append(ids, p.ID)
	}
	return ids
}
