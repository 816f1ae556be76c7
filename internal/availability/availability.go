package availability

import (
	"sort"
	"time"

	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
)

// Availability is a set of disjoint weekly windows. Operations never mutate
// the receiver.
type Availability []TimeWindow

// New validates every window and rejects sets whose windows overlap.
func New(windows ...TimeWindow) (Availability, error) {
	for _, w := range windows {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}
	a := Availability(append([]TimeWindow(nil), windows...))
	if len(a) == 0 {
		return a, nil
	}
	sorted := a.In(a[0].From.Location()).Sorted()
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return nil, appErrors.ErrOverlappingWindows
		}
	}
	return a, nil
}

// Remove subtracts r from every window of the set. Windows r does not touch
// are kept, covered windows are dropped, partially covered windows are
// trimmed and windows strictly containing r are split in two. Adjacent
// results are not merged. r is matched by instant, so it may carry a
// different zone offset than the windows it is removed from.
func (a Availability) Remove(r TimeWindow) Availability {
	if r.Validate() != nil {
		return a.clone()
	}
	out := make(Availability, 0, len(a)+1)
	for _, w := range a {
		rest := Availability{w}
		for _, piece := range r.In(w.From.Location()) {
			rest = rest.subtract(piece)
		}
		out = append(out, rest...)
	}
	return out
}

// subtract removes r, already on the wall clock of every window of a.
func (a Availability) subtract(r TimeWindow) Availability {
	rs, re, ok := r.bounds()
	if !ok {
		return a
	}
	out := make(Availability, 0, len(a)+1)
	for _, w := range a {
		ws, we, ok := w.bounds()
		if !ok || re <= ws || rs >= we {
			out = append(out, w)
			continue
		}
		if rs > ws {
			out = append(out, w.withBounds(ws, rs))
		}
		if re < we {
			out = append(out, w.withBounds(re, we))
		}
	}
	return out
}

// RemoveAll subtracts every window of other.
func (a Availability) RemoveAll(other Availability) Availability {
	out := a.clone()
	for _, r := range other {
		out = out.Remove(r)
	}
	return out
}

// Normalize drops invalid windows and merges overlapping ones. Windows are
// first projected onto the location of the first window.
func (a Availability) Normalize() Availability {
	if len(a) == 0 {
		return Availability{}
	}
	sorted := a.In(a[0].From.Location()).Sorted()
	out := make(Availability, 0, len(sorted))
	for _, w := range sorted {
		if n := len(out); n > 0 && out[n-1].Overlaps(w) {
			ps, pe, _ := out[n-1].bounds()
			_, we, _ := w.bounds()
			if we > pe {
				out[n-1] = out[n-1].withBounds(ps, we)
			}
			continue
		}
		out = append(out, w)
	}
	return out
}

// In projects every window onto the wall clock of loc, splitting windows that
// cross midnight there.
func (a Availability) In(loc *time.Location) Availability {
	out := make(Availability, 0, len(a))
	for _, w := range a {
		out = append(out, w.In(loc)...)
	}
	return out
}

// Sorted returns a copy ordered by position in the week.
func (a Availability) Sorted() Availability {
	out := a.clone()
	sort.SliceStable(out, func(i, j int) bool {
		is, _, _ := out[i].bounds()
		js, _, _ := out[j].bounds()
		return is < js
	})
	return out
}

// Duration returns the total weekly time covered.
func (a Availability) Duration() time.Duration {
	var total time.Duration
	for _, w := range a {
		total += w.Duration()
	}
	return total
}

// Contains reports whether a single window of the set covers w.
func (a Availability) Contains(w TimeWindow) bool {
	for _, candidate := range a {
		if candidate.Contains(w) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same recurring windows.
func (a Availability) Equal(b Availability) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	loc := a[0].From.Location()
	as, bs := a.In(loc).Sorted(), b.In(loc).Sorted()
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !as[i].Equal(bs[i]) {
			return false
		}
	}
	return true
}

func (a Availability) clone() Availability {
	return append(Availability{}, a...)
}
