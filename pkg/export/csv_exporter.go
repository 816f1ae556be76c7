package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// TimeslotHeaders are the columns of a timeslot export.
var TimeslotHeaders = []string{"date", "weekday", "from", "to"}

// Dataset defines tabular export content. Row values are keyed by header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// Slot is a bookable interval to be listed in an export.
type Slot struct {
	From time.Time
	To   time.Time
}

// TimeslotDataset lays slots out as wall-clock rows in loc. Slots that end on
// the following day show "24:00" rather than "00:00".
func TimeslotDataset(title string, loc *time.Location, slots []Slot) Dataset {
	if loc == nil {
		loc = time.UTC
	}
	rows := make([]map[string]string, 0, len(slots))
	for _, slot := range slots {
		from, to := slot.From.In(loc), slot.To.In(loc)
		end := to.Format("15:04")
		if end == "00:00" && to.After(from) {
			end = "24:00"
		}
		rows = append(rows, map[string]string{
			"date":    from.Format("2006-01-02"),
			"weekday": from.Weekday().String(),
			"from":    from.Format("15:04"),
			"to":      end,
		})
	}
	return Dataset{Title: title, Headers: TimeslotHeaders, Rows: rows}
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// ContentType reports the MIME type of rendered documents.
func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

// Render writes the header line followed by one record per row. Missing
// values are left blank.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	records := make([][]string, 0, len(data.Rows)+1)
	records = append(records, data.Headers)
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		records = append(records, record)
	}

	buf := &bytes.Buffer{}
	if err := csv.NewWriter(buf).WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderTimeslots renders slots in loc with the timeslot columns.
func (e *CSVExporter) RenderTimeslots(title string, loc *time.Location, slots []Slot) ([]byte, error) {
	return e.Render(TimeslotDataset(title, loc, slots))
}
