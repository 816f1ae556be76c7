package availability

import (
	"time"

	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
)

// TimeWindow is a weekly recurring interval. From anchors the weekday and
// start time-of-day; To must fall on the same date, or exactly on the
// following midnight.
type TimeWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewTimeWindow builds a validated window.
func NewTimeWindow(from, to time.Time) (TimeWindow, error) {
	w := TimeWindow{From: from, To: to}
	if err := w.Validate(); err != nil {
		return TimeWindow{}, err
	}
	return w, nil
}

// Validate rejects inverted windows and windows spanning past midnight.
func (w TimeWindow) Validate() error {
	if _, _, ok := w.bounds(); !ok {
		return appErrors.ErrInvalidTimeWindow
	}
	return nil
}

// Weekday returns the recurring day of the window.
func (w TimeWindow) Weekday() time.Weekday {
	return w.From.Weekday()
}

// Duration returns the wall-clock length of the window.
func (w TimeWindow) Duration() time.Duration {
	start, end, ok := w.bounds()
	if !ok {
		return 0
	}
	return end - start
}

// Equal reports whether both windows recur on the same weekday at the same
// times, regardless of which week they are anchored to. o is compared on the
// wall clock of w's location.
func (w TimeWindow) Equal(o TimeWindow) bool {
	ws, we, ok := w.bounds()
	if !ok {
		return false
	}
	pieces := o.In(w.From.Location())
	if len(pieces) != 1 {
		return false
	}
	oStart, oEnd, ok := pieces[0].bounds()
	return ok && ws == oStart && we == oEnd
}

// Overlaps reports whether the windows share time in the weekly cycle.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	ws, we, ok := w.bounds()
	if !ok {
		return false
	}
	for _, p := range o.In(w.From.Location()) {
		if ps, pe, ok := p.bounds(); ok && ws < pe && ps < we {
			return true
		}
	}
	return false
}

// Contains reports whether o lies entirely within w.
func (w TimeWindow) Contains(o TimeWindow) bool {
	ws, we, ok := w.bounds()
	if !ok {
		return false
	}
	pieces := o.In(w.From.Location())
	for _, p := range pieces {
		if ps, pe, ok := p.bounds(); !ok || ps < ws || pe > we {
			return false
		}
	}
	return len(pieces) > 0
}

// In returns w on the wall clock of loc. A window that crosses midnight once
// projected is split at midnight; an invalid window yields nothing.
func (w TimeWindow) In(loc *time.Location) []TimeWindow {
	if loc == nil {
		loc = time.UTC
	}
	if w.Validate() != nil {
		return nil
	}
	from, to := w.From.In(loc), w.To.In(loc)
	next := midnight(from).AddDate(0, 0, 1)
	if !to.After(next) {
		return []TimeWindow{{From: from, To: to}}
	}
	return []TimeWindow{{From: from, To: next}, {From: next, To: to}}
}

// bounds returns the window as offsets from Sunday 00:00 of its week. End is
// at most one week, so windows never wrap around the week boundary.
func (w TimeWindow) bounds() (start, end time.Duration, ok bool) {
	from := w.From
	to := w.To.In(from.Location())
	start = time.Duration(from.Weekday())*day + timeOfDay(from)
	switch days := civilDays(from, to); {
	case days == 0:
		end = start + timeOfDay(to) - timeOfDay(from)
	case days == 1 && timeOfDay(to) == 0:
		end = start + day - timeOfDay(from)
	default:
		return 0, 0, false
	}
	return start, end, end > start
}

// dayBounds returns the window as offsets from midnight of its own day.
func (w TimeWindow) dayBounds() (start, end time.Duration, ok bool) {
	start, end, ok = w.bounds()
	if !ok {
		return 0, 0, false
	}
	base := time.Duration(w.From.Weekday()) * day
	return start - base, end - base, true
}

// withBounds returns a window anchored on w's date covering the given week offsets.
func (w TimeWindow) withBounds(start, end time.Duration) TimeWindow {
	base := time.Duration(w.From.Weekday()) * day
	date := midnight(w.From)
	return TimeWindow{From: wallClock(date, start-base), To: wallClock(date, end-base)}
}
