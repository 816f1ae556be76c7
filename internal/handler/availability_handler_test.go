package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorbook/tutorbook-api/internal/availability"
	"github.com/tutorbook/tutorbook-api/internal/middleware"
	"github.com/tutorbook/tutorbook-api/internal/models"
	"github.com/tutorbook/tutorbook-api/internal/service"
	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

type fakeAvailabilitySrv struct {
	month    *models.MonthAvailability
	hit      bool
	monthErr error
	updated  availability.Availability
	err      error

	lastUser   string
	lastMonth  int
	lastYear   int
	lastClaims *models.JWTClaims
	lastReq    service.UpdateAvailabilityRequest
}

func (f *fakeAvailabilitySrv) Month(_ context.Context, userID string, month, year int) (*models.MonthAvailability, bool, error) {
	f.lastUser, f.lastMonth, f.lastYear = userID, month, year
	return f.month, f.hit, f.monthErr
}

func (f *fakeAvailabilitySrv) Update(_ context.Context, claims *models.JWTClaims, userID string, req service.UpdateAvailabilityRequest) (availability.Availability, error) {
	f.lastClaims, f.lastUser, f.lastReq = claims, userID, req
	return f.updated, f.err
}

type fakeExporter struct {
	format service.ExportFormat
}

func (f *fakeExporter) Render(month *models.MonthAvailability, format service.ExportFormat) (*service.ExportDocument, error) {
	f.format = format
	return &service.ExportDocument{Filename: "availability-" + month.UserID + ".csv", ContentType: "text/csv", Body: []byte("date,weekday,from,to\n")}, nil
}

func sampleMonth() *models.MonthAvailability {
	from := time.Date(2021, time.March, 7, 9, 0, 0, 0, time.UTC)
	return &models.MonthAvailability{
		UserID:    "tutor-1",
		Month:     2,
		Year:      2021,
		Timeslots: []availability.Timeslot{{From: from, To: from.Add(30 * time.Minute)}},
	}
}

func newContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "tutor-1"}}
	return c, rec
}

func TestAvailabilityHandlerRequiresMonthAndYear(t *testing.T) {
	srv := &fakeAvailabilitySrv{}
	h := NewAvailabilityHandler(srv, &fakeExporter{})

	c, rec := newContext(http.MethodGet, "/users/tutor-1/availability?year=2021", "")
	h.Get(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodGet, "/users/tutor-1/availability?month=two&year=2021", "")
	h.Get(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decode(t, rec).Error.Code)
	assert.Empty(t, srv.lastUser)
}

func TestAvailabilityHandlerGetJSON(t *testing.T) {
	srv := &fakeAvailabilitySrv{month: sampleMonth(), hit: true}
	h := NewAvailabilityHandler(srv, &fakeExporter{})

	c, rec := newContext(http.MethodGet, "/users/tutor-1/availability?month=2&year=2021", "")
	middleware.WithResponseMeta()(c)
	h.Get(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	envelope := decode(t, rec)
	assert.Equal(t, true, envelope.Meta["cache_hit"])

	var got models.MonthAvailability
	require.NoError(t, json.Unmarshal(envelope.Data, &got))
	assert.Equal(t, "tutor-1", got.UserID)
	assert.Len(t, got.Timeslots, 1)
	assert.Equal(t, 2, srv.lastMonth)
	assert.Equal(t, 2021, srv.lastYear)
}

func TestAvailabilityHandlerPropagatesServiceErrors(t *testing.T) {
	srv := &fakeAvailabilitySrv{monthErr: appErrors.ErrInvalidMonth}
	h := NewAvailabilityHandler(srv, &fakeExporter{})

	c, rec := newContext(http.MethodGet, "/users/tutor-1/availability?month=12&year=2021", "")
	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrInvalidMonth.Code, decode(t, rec).Error.Code)
}

func TestAvailabilityHandlerExport(t *testing.T) {
	exporter := &fakeExporter{}
	h := NewAvailabilityHandler(&fakeAvailabilitySrv{month: sampleMonth()}, exporter)

	c, rec := newContext(http.MethodGet, "/users/tutor-1/availability?month=2&year=2021&format=CSV", "")
	h.Get(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ExportFormatCSV, exporter.format)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "availability-tutor-1.csv")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
}

func TestAvailabilityHandlerRejectsUnknownFormat(t *testing.T) {
	srv := &fakeAvailabilitySrv{month: sampleMonth()}
	h := NewAvailabilityHandler(srv, &fakeExporter{})

	c, rec := newContext(http.MethodGet, "/users/tutor-1/availability?month=2&year=2021&format=xlsx", "")
	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, srv.lastUser)
}

func TestAvailabilityHandlerUpdate(t *testing.T) {
	from := time.Date(1970, time.January, 4, 9, 0, 0, 0, time.UTC)
	window, err := availability.NewTimeWindow(from, from.Add(2*time.Hour))
	require.NoError(t, err)
	srv := &fakeAvailabilitySrv{updated: availability.Availability{window}}
	h := NewAvailabilityHandler(srv, nil)

	body := `{"availability":[{"from":"1970-01-04T09:00:00Z","to":"1970-01-04T11:00:00Z"}]}`
	c, rec := newContext(http.MethodPut, "/users/tutor-1/availability", body)
	claims := &models.JWTClaims{UserID: "tutor-1"}
	c.Set(middleware.ContextUserKey, claims)
	h.Update(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, claims, srv.lastClaims)
	assert.Equal(t, "tutor-1", srv.lastUser)
	require.Len(t, srv.lastReq.Availability, 1)
	assert.True(t, srv.lastReq.Availability[0].From.Equal(from))
}

func TestAvailabilityHandlerUpdateRejectsMalformedBody(t *testing.T) {
	srv := &fakeAvailabilitySrv{}
	h := NewAvailabilityHandler(srv, nil)

	c, rec := newContext(http.MethodPut, "/users/tutor-1/availability", `{"availability":`)
	h.Update(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, srv.lastUser)
}

func TestAvailabilityHandlerUpdateForbidden(t *testing.T) {
	h := NewAvailabilityHandler(&fakeAvailabilitySrv{err: appErrors.ErrForbidden}, nil)

	c, rec := newContext(http.MethodPut, "/users/tutor-1/availability", `{"availability":[]}`)
	h.Update(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
