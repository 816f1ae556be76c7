package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
)

// March 2021 has four Sundays: the 7th, 14th, 21st and 28th.
const (
	fixtureMonth = time.March
	fixtureYear  = 2021
)

func TestMonthTimeslotsThirtyMinuteWindow(t *testing.T) {
	slots, err := MonthTimeslots(Availability{window(sunday, 9, 0, 9, 30)}, fixtureMonth, fixtureYear, time.UTC)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	for i, day := range []int{7, 14, 21, 28} {
		assert.Equal(t, time.Date(2021, time.March, day, 9, 0, 0, 0, time.UTC), slots[i].From)
		assert.Equal(t, SlotDuration, slots[i].Duration())
	}
}

func TestMonthTimeslotsThreeHourWindow(t *testing.T) {
	slots, err := MonthTimeslots(Availability{window(sunday, 9, 0, 12, 0)}, fixtureMonth, fixtureYear, time.UTC)
	require.NoError(t, err)
	assert.Len(t, slots, 11*4)

	first := slots[:11]
	assert.Equal(t, time.Date(2021, time.March, 7, 9, 0, 0, 0, time.UTC), first[0].From)
	assert.Equal(t, time.Date(2021, time.March, 7, 11, 30, 0, 0, time.UTC), first[10].From)
	assert.Equal(t, time.Date(2021, time.March, 7, 12, 0, 0, 0, time.UTC), first[10].To)
	for i := 1; i < len(first); i++ {
		assert.Equal(t, SlotStride, first[i].From.Sub(first[i-1].From))
	}
}

func TestMonthTimeslotsShortWindowYieldsNothing(t *testing.T) {
	slots, err := MonthTimeslots(Availability{window(sunday, 9, 0, 9, 20)}, fixtureMonth, fixtureYear, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestMonthTimeslotsOrdering(t *testing.T) {
	monday := sunday.AddDate(0, 0, 1)
	a := Availability{window(monday, 8, 0, 8, 30), window(sunday, 13, 0, 13, 30), window(sunday, 9, 0, 9, 30)}
	slots, err := MonthTimeslots(a, fixtureMonth, fixtureYear, time.UTC)
	require.NoError(t, err)
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].From.Before(slots[i].From))
	}
	assert.Equal(t, time.Date(2021, time.March, 1, 8, 0, 0, 0, time.UTC), slots[0].From, "Monday the 1st comes first")
}

func TestMonthTimeslotsHonorsMonthBoundaries(t *testing.T) {
	// February 2021 starts on a Monday and ends on a Sunday.
	slots, err := MonthTimeslots(Availability{window(sunday, 9, 0, 9, 30)}, time.February, 2021, time.UTC)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, 7, slots[0].From.Day())
	assert.Equal(t, 28, slots[3].From.Day())
	for _, s := range slots {
		assert.Equal(t, time.February, s.From.Month())
	}
}

func TestMonthTimeslotsWindowEndingAtMidnight(t *testing.T) {
	late := TimeWindow{From: at(sunday, 23, 0), To: sunday.AddDate(0, 0, 1)}
	slots, err := MonthTimeslots(Availability{late}, time.February, 2021, time.UTC)
	require.NoError(t, err)
	require.Len(t, slots, 3*4)
	lastSlot := slots[len(slots)-1]
	assert.Equal(t, time.Date(2021, time.February, 28, 23, 30, 0, 0, time.UTC), lastSlot.From)
	assert.Equal(t, time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC), lastSlot.To)
}

func TestMonthTimeslotsInLocation(t *testing.T) {
	loc := time.FixedZone("PST", -8*60*60)
	slots, err := MonthTimeslots(Availability{window(sunday, 9, 0, 9, 30)}, fixtureMonth, fixtureYear, loc)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, time.Date(2021, time.March, 7, 9, 0, 0, 0, loc), slots[0].From)
}

func TestMonthTimeslotsRejectsInvalidMonth(t *testing.T) {
	_, err := MonthTimeslots(Availability{}, time.Month(13), fixtureYear, time.UTC)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidMonth))
}

func TestCanonicalSundayFixture(t *testing.T) {
	baseline := Availability{window(sunday, 9, 0, 12, 0), window(sunday, 13, 0, 16, 0)}
	match := window(sunday, 10, 0, 10, 30)

	free := baseline.Remove(match)
	require.Len(t, free, 3)

	slots, err := MonthTimeslots(free, fixtureMonth, fixtureYear, time.UTC)
	require.NoError(t, err)

	var starts []string
	for _, s := range slots {
		if s.From.Day() == 7 {
			starts = append(starts, s.From.Format("15:04"))
		}
	}
	assert.Equal(t, []string{
		"09:00", "09:15", "09:30",
		"10:30", "10:45", "11:00", "11:15", "11:30",
		"13:00", "13:15", "13:30", "13:45", "14:00", "14:15", "14:30", "14:45", "15:00", "15:15", "15:30",
	}, starts)
}
