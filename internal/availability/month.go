package availability

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
)

const (
	// SlotDuration is the length of every generated timeslot.
	SlotDuration = 30 * time.Minute
	// SlotStride is the distance between consecutive slot start times.
	SlotStride = 15 * time.Minute
)

var rruleWeekdays = [...]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

// MonthTimeslots expands a into 30 minute slots starting every 15 minutes on
// each date of the given month whose weekday matches a window. Windows are
// read by their wall clock and projected onto dates in loc (UTC when nil).
// Slots are ordered by start time.
func MonthTimeslots(a Availability, month time.Month, year int, loc *time.Location) ([]Timeslot, error) {
	if month < time.January || month > time.December {
		return nil, appErrors.ErrInvalidMonth
	}
	if loc == nil {
		loc = time.UTC
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, 0).Add(-time.Second)

	slots := make([]Timeslot, 0)
	for _, w := range a {
		from, to, ok := w.dayBounds()
		if !ok || to-from < SlotDuration {
			continue
		}
		for _, date := range weekdayDates(w.Weekday(), first, last) {
			slots = append(slots, daySlots(midnight(date), from, to)...)
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].From.Equal(slots[j].From) {
			return slots[i].To.Before(slots[j].To)
		}
		return slots[i].From.Before(slots[j].From)
	})
	return slots, nil
}

// weekdayDates lists every date between first and last that falls on wd.
func weekdayDates(wd time.Weekday, first, last time.Time) []time.Time {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rruleWeekdays[wd]},
		Dtstart:   first,
		Until:     last,
	})
	if err != nil {
		return nil
	}
	return r.All()
}

func daySlots(date time.Time, from, to time.Duration) []Timeslot {
	slots := make([]Timeslot, 0, int((to-from-SlotDuration)/SlotStride)+1)
	for start := from; start+SlotDuration <= to; start += SlotStride {
		slots = append(slots, Timeslot{
			From: wallClock(date, start),
			To:   wallClock(date, start+SlotDuration),
		})
	}
	return slots
}
