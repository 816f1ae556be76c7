// Package availability models weekly recurring free time and expands it into
// concrete, bookable timeslots.
package availability

import (
	"time"

	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
)

const day = 24 * time.Hour

// Timeslot is a concrete, dated interval.
type Timeslot struct {
	ID   string    `json:"id,omitempty"`
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewTimeslot builds a validated timeslot.
func NewTimeslot(from, to time.Time) (Timeslot, error) {
	t := Timeslot{From: from, To: to}
	if err := t.Validate(); err != nil {
		return Timeslot{}, err
	}
	return t, nil
}

// Validate rejects empty or inverted timeslots.
func (t Timeslot) Validate() error {
	if !t.To.After(t.From) {
		return appErrors.ErrInvalidTimeslot
	}
	return nil
}

// Duration returns the length of the timeslot.
func (t Timeslot) Duration() time.Duration {
	return t.To.Sub(t.From)
}

// Equal reports whether both timeslots cover the same instants.
func (t Timeslot) Equal(o Timeslot) bool {
	return t.From.Equal(o.From) && t.To.Equal(o.To)
}

// Overlaps reports whether the two timeslots share any instant.
func (t Timeslot) Overlaps(o Timeslot) bool {
	return t.From.Before(o.To) && o.From.Before(t.To)
}

func timeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}

// civilDays counts calendar days between the dates of a and b, ignoring clock and zone offsets.
func civilDays(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da) / day)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// wallClock returns the instant offset of wall-clock time after the midnight of date.
func wallClock(date time.Time, offset time.Duration) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, int(offset), date.Location())
}
