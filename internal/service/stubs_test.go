package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/tutorbook/tutorbook-api/internal/availability"
	"github.com/tutorbook/tutorbook-api/internal/models"
	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
	"github.com/tutorbook/tutorbook-api/pkg/jobs"
)

// sunday is 7 March 2021, the first Sunday of the month.
var sunday = time.Date(2021, time.March, 7, 0, 0, 0, 0, time.UTC)

func window(date time.Time, fromHour, fromMinute, toHour, toMinute int) availability.TimeWindow {
	return availability.TimeWindow{
		From: time.Date(date.Year(), date.Month(), date.Day(), fromHour, fromMinute, 0, 0, date.Location()),
		To:   time.Date(date.Year(), date.Month(), date.Day(), toHour, toMinute, 0, 0, date.Location()),
	}
}

type userRepoStub struct {
	users   map[string]*models.User
	findErr error
	lookups int
	updated map[string]availability.Availability

	lastFilter models.UserFilter
}

func newUserRepoStub(users ...*models.User) *userRepoStub {
	s := &userRepoStub{users: map[string]*models.User{}, updated: map[string]availability.Availability{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (s *userRepoStub) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	if s.findErr != nil {
		return nil, 0, s.findErr
	}
	s.lastFilter = filter
	var out []models.User
	for _, u := range s.users {
		for _, org := range u.Orgs {
			if containsString(filter.Orgs, org) {
				out = append(out, *u)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func (s *userRepoStub) FindAvailability(ctx context.Context, id string) (availability.Availability, error) {
	s.lookups++
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Availability, nil
}

func (s *userRepoStub) UpdateAvailability(ctx context.Context, id string, avail availability.Availability) error {
	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Availability = avail
	s.updated[id] = avail
	return nil
}

type matchRepoStub struct {
	matches []models.Match
	err     error
}

func (s *matchRepoStub) FindByID(ctx context.Context, id string) (*models.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.matches {
		if s.matches[i].ID == id {
			return &s.matches[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *matchRepoStub) ListByPerson(ctx context.Context, userID string) ([]models.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Match
	for _, m := range s.matches {
		for _, id := range m.PersonIDs() {
			if id == userID {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

// memoryCache round trips values through JSON like the Redis repository.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}
