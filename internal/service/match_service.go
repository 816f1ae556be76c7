package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/tutorbook/tutorbook-api/internal/models"
	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
)

type matchRepository interface {
	FindByID(ctx context.Context, id string) (*models.Match, error)
}

// MatchService serves matches to their participants and org admins.
type MatchService struct {
	repo   matchRepository
	auth   authorizer
	logger *zap.Logger
}

// NewMatchService constructs a MatchService.
func NewMatchService(repo matchRepository, auth authorizer, logger *zap.Logger) *MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchService{repo: repo, auth: auth, logger: logger}
}

// Get returns the match with id when the caller may see it.
func (s *MatchService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Match, error) {
	match, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "match not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load match")
	}
	if err := s.auth.Authorize(claims, models.AccessRule{UserIDs: match.PersonIDs(), OrgIDs: []string{match.Org}}); err != nil {
		return nil, err
	}
	return match, nil
}
