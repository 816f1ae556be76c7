package export

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
)

const productID = "-//Tutorbook//Availability//EN"

// Event is one VEVENT of an exported calendar.
type Event struct {
	UID         string
	Start       time.Time
	End         time.Time
	Summary     string
	Description string
}

// ICSExporter renders events as an iCalendar feed.
type ICSExporter struct {
	now func() time.Time
}

// NewICSExporter constructs an iCalendar exporter.
func NewICSExporter() *ICSExporter {
	return &ICSExporter{now: time.Now}
}

// ContentType reports the MIME type of rendered documents.
func (e *ICSExporter) ContentType() string { return "text/calendar; charset=utf-8" }

// Render serializes events into a published VCALENDAR. Every event needs a
// UID and a positive duration.
func (e *ICSExporter) Render(name string, events []Event) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetName(name)
	}

	stamp := e.now().UTC()
	for _, ev := range events {
		if ev.UID == "" {
			return nil, fmt.Errorf("ics event requires a uid")
		}
		if !ev.End.After(ev.Start) {
			return nil, fmt.Errorf("ics event %s ends before it starts", ev.UID)
		}
		vevent := cal.AddEvent(ev.UID)
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(ev.Start)
		vevent.SetEndAt(ev.End)
		if ev.Summary != "" {
			vevent.SetSummary(ev.Summary)
		}
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
	}
	return []byte(cal.Serialize()), nil
}
