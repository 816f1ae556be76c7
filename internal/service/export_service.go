package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tutorbook/tutorbook-api/internal/models"
	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
	"github.com/tutorbook/tutorbook-api/pkg/export"
)

// ExportFormat names a downloadable representation of month availability.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
	ExportFormatICS ExportFormat = "ics"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

type icsRenderer interface {
	Render(name string, events []export.Event) ([]byte, error)
	ContentType() string
}

// ExportDocument is a rendered attachment.
type ExportDocument struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders month availability as CSV, PDF or iCalendar.
type ExportService struct {
	csv    csvRenderer
	pdf    pdfRenderer
	ics    icsRenderer
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// pkg/export implementations.
func NewExportService(loc *time.Location, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, ics icsRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if ics == nil {
		ics = export.NewICSExporter()
	}
	return &ExportService{csv: csv, pdf: pdf, ics: ics, loc: loc, logger: logger}
}

// ParseExportFormat validates a format query value.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(raw)); f {
	case ExportFormatCSV, ExportFormatPDF, ExportFormatICS:
		return f, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "format must be one of json, csv, pdf, ics")
}

// Render produces the attachment for month in format.
func (s *ExportService) Render(month *models.MonthAvailability, format ExportFormat) (*ExportDocument, error) {
	base := fmt.Sprintf("availability-%s-%04d-%02d", month.UserID, month.Year, month.Month+1)
	var (
		body        []byte
		contentType string
		err         error
	)
	switch format {
	case ExportFormatCSV:
		body, err = s.csv.Render(s.dataset(month))
		contentType = s.csv.ContentType()
	case ExportFormatPDF:
		body, err = s.pdf.Render(s.dataset(month))
		contentType = s.pdf.ContentType()
	case ExportFormatICS:
		body, err = s.ics.Render(s.title(month), s.events(month))
		contentType = s.ics.ContentType()
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	if err != nil {
		s.logger.Error("availability export failed", zap.String("user_id", month.UserID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportDocument{Filename: base + "." + string(format), ContentType: contentType, Body: body}, nil
}

func (s *ExportService) title(month *models.MonthAvailability) string {
	return fmt.Sprintf("Availability for %s %d", time.Month(month.Month+1), month.Year)
}

func (s *ExportService) dataset(month *models.MonthAvailability) export.Dataset {
	slots := make([]export.Slot, 0, len(month.Timeslots))
	for _, slot := range month.Timeslots {
		slots = append(slots, export.Slot{From: slot.From, To: slot.To})
	}
	return export.TimeslotDataset(s.title(month), s.loc, slots)
}

func (s *ExportService) events(month *models.MonthAvailability) []export.Event {
	events := make([]export.Event, 0, len(month.Timeslots))
	for _, slot := range month.Timeslots {
		events = append(events, export.Event{
			UID:     fmt.Sprintf("%s-%d@tutorbook", month.UserID, slot.From.Unix()),
			Start:   slot.From,
			End:     slot.To,
			Summary: "Available",
		})
	}
	return events
}
