package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorbook/tutorbook-api/internal/availability"
	"github.com/tutorbook/tutorbook-api/internal/models"
	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
	"github.com/tutorbook/tutorbook-api/pkg/jobs"
	"github.com/tutorbook/tutorbook-api/pkg/logger"
)

// WarmJobType tags cache warming jobs on the queue.
const WarmJobType = "availability.warm"

type availabilityUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindAvailability(ctx context.Context, id string) (availability.Availability, error)
	UpdateAvailability(ctx context.Context, id string, avail availability.Availability) error
}

type availabilityMatchRepository interface {
	ListByPerson(ctx context.Context, userID string) ([]models.Match, error)
}

type warmQueue interface {
	Enqueue(job jobs.Job) error
}

// AvailabilityConfig tunes month computation and caching.
type AvailabilityConfig struct {
	// Location is the zone weekly windows are projected into.
	Location *time.Location
	CacheTTL time.Duration
	// WarmMonths is how many months, starting with the current one, are
	// recomputed in the background after the baseline changes.
	WarmMonths int
}

// WarmJob is the payload of a cache warming job.
type WarmJob struct {
	UserID string
	Month  int
	Year   int
}

// TimeWindowPayload is one weekly window in an update request.
type TimeWindowPayload struct {
	From time.Time `json:"from" validate:"required"`
	To   time.Time `json:"to" validate:"required,gtfield=From"`
}

// UpdateAvailabilityRequest replaces a user's weekly availability.
type UpdateAvailabilityRequest struct {
	Availability []TimeWindowPayload `json:"availability" validate:"required,max=672,dive"`
}

// AvailabilityService computes month availability: the baseline weekly
// windows minus the recurring time of every match, split into bookable
// timeslots.
type AvailabilityService struct {
	users     availabilityUserRepository
	matches   availabilityMatchRepository
	cache     *CacheService
	auth      authorizer
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    AvailabilityConfig
	queue     warmQueue
	now       func() time.Time
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(users availabilityUserRepository, matches availabilityMatchRepository, cache *CacheService, auth authorizer, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config AvailabilityConfig) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &AvailabilityService{
		users:     users,
		matches:   matches,
		cache:     cache,
		auth:      auth,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// UseWarmQueue attaches the queue that receives cache warming jobs.
func (s *AvailabilityService) UseWarmQueue(q warmQueue) {
	s.queue = q
}

// Month returns the open timeslots of userID in the given month (0 is
// January). The boolean reports whether the result came from cache.
func (s *AvailabilityService) Month(ctx context.Context, userID string, month, year int) (*models.MonthAvailability, bool, error) {
	if month < 0 || month > 11 {
		return nil, false, appErrors.ErrInvalidMonth
	}
	if year < 1 || year > 9999 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "year must be between 1 and 9999")
	}

	key := monthCacheKey(userID, month, year)
	var cached models.MonthAvailability
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	result, err := s.compute(ctx, userID, month, year)
	if err != nil {
		return nil, false, err
	}
	_ = s.cache.Set(ctx, key, result, s.config.CacheTTL)
	return result, false, nil
}

// Update validates and stores a new weekly baseline for userID. Only the
// user themself and admins of their orgs may change it.
func (s *AvailabilityService) Update(ctx context.Context, claims *models.JWTClaims, userID string, req UpdateAvailabilityRequest) (availability.Availability, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	windows := make([]availability.TimeWindow, 0, len(req.Availability))
	for _, w := range req.Availability {
		windows = append(windows, availability.TimeWindow{From: w.From, To: w.To})
	}
	avail, err := availability.New(windows...)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, s.userError(err)
	}
	if err := s.auth.Authorize(claims, models.AccessRule{UserIDs: []string{user.ID}, OrgIDs: user.Orgs}); err != nil {
		return nil, err
	}
	if err := s.users.UpdateAvailability(ctx, userID, avail); err != nil {
		return nil, s.userError(err)
	}

	log := logger.WithContext(ctx, s.logger)
	s.invalidate(ctx, log, userID)
	log.Info("availability updated", zap.String("user_id", userID), zap.Int("windows", len(avail)))
	return avail, nil
}

// InvalidateMatch drops the cached months of everyone in m and queues them
// for warming. Writers of match times call it after a create, update or
// delete; until then cached months lag by at most the cache TTL.
func (s *AvailabilityService) InvalidateMatch(ctx context.Context, m models.Match) {
	log := logger.WithContext(ctx, s.logger).With(zap.String("match_id", m.ID))
	for _, p := range m.People {
		s.invalidate(ctx, log, p.ID)
	}
}

func (s *AvailabilityService) invalidate(ctx context.Context, log *zap.Logger, userID string) {
	if err := s.cache.Invalidate(ctx, userCachePattern(userID)); err != nil {
		log.Warn("availability cache not invalidated", zap.String("user_id", userID), zap.Error(err))
	}
	s.enqueueWarm(log, userID)
}

// HandleWarmJob recomputes and caches one month. It is the handler of the
// warming queue.
func (s *AvailabilityService) HandleWarmJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(WarmJob)
	if !ok {
		s.logger.Error("dropping warm job with unexpected payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}
	result, err := s.compute(ctx, payload.UserID, payload.Month, payload.Year)
	if err == nil {
		err = s.cache.Set(ctx, monthCacheKey(payload.UserID, payload.Month, payload.Year), result, s.config.CacheTTL)
	}
	s.metrics.RecordWarmJob(err)
	if appErrors.Is(err, appErrors.ErrNotFound) {
		return nil
	}
	return err
}

func (s *AvailabilityService) compute(ctx context.Context, userID string, month, year int) (*models.MonthAvailability, error) {
	start := time.Now()
	baseline, err := s.users.FindAvailability(ctx, userID)
	s.metrics.ObserveDBQuery("user_availability", time.Since(start))
	if err != nil {
		return nil, s.userError(err)
	}

	start = time.Now()
	matches, err := s.matches.ListByPerson(ctx, userID)
	s.metrics.ObserveDBQuery("matches_by_person", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load matches")
	}

	free := baseline.In(s.config.Location).Normalize()
	for _, m := range matches {
		if m.Time != nil {
			free = free.Remove(*m.Time)
		}
	}

	slots, err := availability.MonthTimeslots(free, time.Month(month+1), year, s.config.Location)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []availability.Timeslot{}
	}
	s.metrics.ObserveTimeslots(len(slots))
	return &models.MonthAvailability{UserID: userID, Month: month, Year: year, Timeslots: slots}, nil
}

func (s *AvailabilityService) enqueueWarm(log *zap.Logger, userID string) {
	if s.queue == nil || !s.cache.Enabled() {
		return
	}
	now := s.now().In(s.config.Location)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.config.Location)
	for i := 0; i < s.config.WarmMonths; i++ {
		t := first.AddDate(0, i, 0)
		payload := WarmJob{UserID: userID, Month: int(t.Month()) - 1, Year: t.Year()}
		job := jobs.Job{ID: monthCacheKey(userID, payload.Month, payload.Year), Type: WarmJobType, Payload: payload}
		if err := s.queue.Enqueue(job); err != nil {
			log.Warn("availability warm job not queued", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
}

func (s *AvailabilityService) userError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
}

func monthCacheKey(userID string, month, year int) string {
	return fmt.Sprintf("availability:%s:%04d:%02d", userID, year, month)
}

func userCachePattern(userID string) string {
	return fmt.Sprintf("availability:%s:*", userID)
}
