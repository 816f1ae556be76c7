package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorbook/tutorbook-api/internal/middleware"
	"github.com/tutorbook/tutorbook-api/internal/models"
	"github.com/tutorbook/tutorbook-api/internal/service"
	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
)

type fakeUserSrv struct {
	user   interface{}
	list   *service.UserList
	err    error
	claims *models.JWTClaims
	id     string
	filter *models.UserFilter
}

func (f *fakeUserSrv) List(_ context.Context, claims *models.JWTClaims, filter models.UserFilter) (*service.UserList, error) {
	f.claims, f.filter = claims, &filter
	return f.list, f.err
}

func (f *fakeUserSrv) Get(_ context.Context, claims *models.JWTClaims, id string) (interface{}, error) {
	f.claims, f.id = claims, id
	return f.user, f.err
}

type fakeMatchSrv struct {
	match *models.Match
	err   error
}

func (f *fakeMatchSrv) Get(context.Context, *models.JWTClaims, string) (*models.Match, error) {
	return f.match, f.err
}

type pingStub struct{ err error }

func (p pingStub) Ping(context.Context) error { return p.err }

func TestUserHandlerGetTruncated(t *testing.T) {
	srv := &fakeUserSrv{user: models.TruncatedUser{ID: "tutor-1", Name: "Ada"}}
	h := NewUserHandler(srv)

	c, rec := newContext(http.MethodGet, "/users/tutor-1", "")
	h.Get(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.claims)
	assert.Equal(t, "tutor-1", srv.id)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
	assert.Equal(t, "Ada", got["name"])
	assert.NotContains(t, got, "email")
}

func TestUserHandlerPassesClaims(t *testing.T) {
	srv := &fakeUserSrv{user: &models.User{ID: "tutor-1", Email: "ada@example.com"}}
	h := NewUserHandler(srv)

	c, rec := newContext(http.MethodGet, "/users/tutor-1", "")
	claims := &models.JWTClaims{UserID: "tutor-1"}
	c.Set(middleware.ContextUserKey, claims)
	h.Get(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, claims, srv.claims)
}

func TestUserHandlerNotFound(t *testing.T) {
	h := NewUserHandler(&fakeUserSrv{err: appErrors.Clone(appErrors.ErrNotFound, "user not found")})

	c, rec := newContext(http.MethodGet, "/users/ghost", "")
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user not found", decode(t, rec).Error.Message)
}

func TestUserHandlerList(t *testing.T) {
	srv := &fakeUserSrv{list: &service.UserList{Users: []interface{}{models.TruncatedUser{ID: "u1", Name: "Ada"}}, Hits: 31}}
	h := NewUserHandler(srv)

	c, rec := newContext(http.MethodGet, "/users?orgs=gunn,paly&orgs=default&query=math&page=1&hitsPerPage=10", "")
	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.filter)
	assert.Equal(t, models.UserFilter{Orgs: []string{"gunn", "paly", "default"}, Search: "math", Page: 1, HitsPerPage: 10}, *srv.filter)
	var got struct {
		Users []models.TruncatedUser `json:"users"`
		Hits  int                    `json:"hits"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
	assert.Equal(t, 31, got.Hits)
	require.Len(t, got.Users, 1)
	assert.Equal(t, "Ada", got.Users[0].Name)
}

func TestUserHandlerListValidation(t *testing.T) {
	for _, target := range []string{
		"/users",
		"/users?orgs=gunn&page=-1",
		"/users?orgs=gunn&hitsPerPage=0",
		"/users?orgs=gunn&page=first",
	} {
		srv := &fakeUserSrv{}
		c, rec := newContext(http.MethodGet, target, "")
		NewUserHandler(srv).List(c)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Nil(t, srv.filter, target)
	}
}

func TestMatchHandlerGet(t *testing.T) {
	h := NewMatchHandler(&fakeMatchSrv{match: &models.Match{ID: "match-1", Org: "default"}})

	c, rec := newContext(http.MethodGet, "/matches/match-1", "")
	h.Get(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Match
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
	assert.Equal(t, "match-1", got.ID)
}

func TestMatchHandlerForbidden(t *testing.T) {
	h := NewMatchHandler(&fakeMatchSrv{err: appErrors.ErrForbidden})

	c, rec := newContext(http.MethodGet, "/matches/match-1", "")
	h.Get(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMetricsHandlerReady(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), map[string]Pinger{
		"postgres": pingStub{},
		"redis":    PingFunc(func(context.Context) error { return nil }),
	})

	c, rec := newContext(http.MethodGet, "/ready", "")
	h.Ready(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)
}

func TestMetricsHandlerNotReady(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), map[string]Pinger{
		"postgres": pingStub{},
		"redis":    pingStub{err: errors.New("connection refused")},
	})

	c, rec := newContext(http.MethodGet, "/ready", "")
	h.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestMetricsHandlerPrometheusAndHealth(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.ObserveTimeslots(19)
	h := NewMetricsHandler(metrics, nil)

	c, rec := newContext(http.MethodGet, "/metrics", "")
	h.Prometheus(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "availability_timeslots_generated")

	c, rec = newContext(http.MethodGet, "/health", "")
	h.Health(c)
	assert.Equal(t, http.StatusOK, rec.Code)
}
