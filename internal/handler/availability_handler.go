package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tutorbook/tutorbook-api/internal/availability"
	"github.com/tutorbook/tutorbook-api/internal/middleware"
	"github.com/tutorbook/tutorbook-api/internal/models"
	"github.com/tutorbook/tutorbook-api/internal/service"
	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
	"github.com/tutorbook/tutorbook-api/pkg/response"
)

type availabilityService interface {
	Month(ctx context.Context, userID string, month, year int) (*models.MonthAvailability, bool, error)
	Update(ctx context.Context, claims *models.JWTClaims, userID string, req service.UpdateAvailabilityRequest) (availability.Availability, error)
}

type availabilityExporter interface {
	Render(month *models.MonthAvailability, format service.ExportFormat) (*service.ExportDocument, error)
}

// AvailabilityHandler serves month availability and baseline updates.
type AvailabilityHandler struct {
	service  availabilityService
	exporter availabilityExporter
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(svc availabilityService, exporter availabilityExporter) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc, exporter: exporter}
}

// Get godoc
// @Summary Month availability
// @Description Open 30 minute timeslots, every 15 minutes, for a user in one month
// @Tags Availability
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Produce text/calendar
// @Param id path string true "User ID"
// @Param month query int true "Month, 0 for January"
// @Param year query int true "Year"
// @Param format query string false "json, csv, pdf or ics"
// @Success 200 {object} response.Envelope{data=models.MonthAvailability}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id}/availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	month, err := requiredIntQuery(c, "month")
	if err != nil {
		response.Error(c, err)
		return
	}
	year, err := requiredIntQuery(c, "year")
	if err != nil {
		response.Error(c, err)
		return
	}

	var format service.ExportFormat
	if raw := strings.TrimSpace(c.Query("format")); raw != "" && !strings.EqualFold(raw, "json") {
		if format, err = service.ParseExportFormat(raw); err != nil {
			response.Error(c, err)
			return
		}
	}

	result, cacheHit, err := h.service.Month(c.Request.Context(), c.Param("id"), month, year)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)

	if format == "" {
		response.JSON(c, http.StatusOK, result, middleware.ExtractMeta(c))
		return
	}
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "exports are not configured"))
		return
	}
	doc, err := h.exporter.Render(result, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, doc.ContentType, doc.Filename, doc.Body)
}

// Update godoc
// @Summary Replace weekly availability
// @Description Replaces the weekly recurring availability of a user
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body service.UpdateAvailabilityRequest true "Weekly windows"
// @Success 200 {object} response.Envelope{data=service.UpdateAvailabilityRequest}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /users/{id}/availability [put]
func (h *AvailabilityHandler) Update(c *gin.Context) {
	var req service.UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	avail, err := h.service.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"availability": avail.Sorted()})
}
