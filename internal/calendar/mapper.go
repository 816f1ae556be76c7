// Package calendar maps timeslots onto the pixel grid of the weekly calendar
// view and reconciles drag and resize gestures back into timeslots.
package calendar

import (
	"math"
	"time"

	"github.com/tutorbook/tutorbook-api/internal/availability"
	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
)

const (
	// RowHeight is the pixel height of one grid row.
	RowHeight = 12.0
	// RowDuration is the time covered by one grid row.
	RowDuration = 15 * time.Minute
	// PixelsPerMinute is the fixed vertical scale of the grid.
	PixelsPerMinute = RowHeight / 15
	// MinDuration is the shortest block the grid produces.
	MinDuration = 30 * time.Minute
	// MinHeight is the pixel height of a MinDuration block.
	MinHeight = 2 * RowHeight

	daysPerWeek = 7
	dayHeight   = 24 * 60 * PixelsPerMinute
	rowMinutes  = int(RowDuration / time.Minute)
	rowsPerDay  = int(24 * time.Hour / RowDuration)
	minRows     = int(MinDuration / RowDuration)
)

// Position is a pixel offset from the top-left corner of the grid.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Mapper converts between grid geometry and timeslots for the week
// containing Reference. Each column is one day, Sunday first.
type Mapper struct {
	Reference   time.Time
	ColumnWidth float64
}

// NewMapper validates the grid geometry.
func NewMapper(reference time.Time, columnWidth float64) (Mapper, error) {
	if columnWidth <= 0 || math.IsNaN(columnWidth) || math.IsInf(columnWidth, 0) {
		return Mapper{}, appErrors.ErrInvalidGeometry
	}
	return Mapper{Reference: reference, ColumnWidth: columnWidth}, nil
}

// Position returns the top-left corner of t's block.
func (m Mapper) Position(t availability.Timeslot) Position {
	from := t.From.In(m.location())
	return Position{
		X: float64(from.Weekday()) * m.ColumnWidth,
		Y: sinceMidnight(from).Minutes() * PixelsPerMinute,
	}
}

// Height returns the pixel height of t's block.
func Height(t availability.Timeslot) float64 {
	return t.Duration().Minutes() * PixelsPerMinute
}

// Timeslot inverts Position and Height. Geometry is snapped to whole rows and
// columns; blocks shorter than MinHeight grow to MinDuration, and blocks that
// would run past midnight are moved up to end at midnight.
func (m Mapper) Timeslot(height float64, pos Position, id string) (availability.Timeslot, error) {
	if m.ColumnWidth <= 0 || height < 0 || pos.X < 0 || pos.Y < 0 {
		return availability.Timeslot{}, appErrors.ErrInvalidGeometry
	}
	col := int(math.Round(pos.X / m.ColumnWidth))
	if col >= daysPerWeek {
		col = daysPerWeek - 1
	}
	rows := int(math.Round(height / RowHeight))
	if rows < minRows {
		rows = minRows
	}
	if rows > rowsPerDay {
		rows = rowsPerDay
	}
	row := int(math.Round(pos.Y / RowHeight))
	if row+rows > rowsPerDay {
		row = rowsPerDay - rows
	}

	ref := m.Reference.In(m.location())
	weekStart := time.Date(ref.Year(), ref.Month(), ref.Day()-int(ref.Weekday()), 0, 0, 0, 0, ref.Location())
	at := func(row int) time.Time {
		return time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day()+col, 0, row*rowMinutes, 0, 0, weekStart.Location())
	}
	return availability.Timeslot{ID: id, From: at(row), To: at(row + rows)}, nil
}

func (m Mapper) location() *time.Location {
	return m.Reference.Location()
}

func sinceMidnight(t time.Time) time.Duration {
	h, mi, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(mi)*time.Minute + time.Duration(s)*time.Second
}
