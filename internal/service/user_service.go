package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/tutorbook/tutorbook-api/internal/models"
	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
}

// UserList is one page of the org user directory. Hits counts every
// matching user, not just this page.
type UserList struct {
	Users []interface{} `json:"users"`
	Hits  int           `json:"hits"`
}

type authorizer interface {
	Authorize(claims *models.JWTClaims, rule models.AccessRule) error
}

// UserService serves user profiles.
type UserService struct {
	repo   userRepository
	auth   authorizer
	logger *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, auth authorizer, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, auth: auth, logger: logger}
}

// Get returns the user with id. The full profile is returned to the user
// themself and to admins of their orgs; everyone else gets the truncated
// profile.
func (s *UserService) Get(ctx context.Context, claims *models.JWTClaims, id string) (interface{}, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if err := s.auth.Authorize(claims, models.AccessRule{UserIDs: []string{user.ID}, OrgIDs: user.Orgs}); err != nil {
		return user.Truncated(), nil
	}
	return user, nil
}

// List returns the users of filter.Orgs. Admins of every requested org see
// full profiles; everyone else gets truncated ones.
func (s *UserService) List(ctx context.Context, claims *models.JWTClaims, filter models.UserFilter) (*UserList, error) {
	users, hits, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	full := len(filter.Orgs) > 0
	for _, org := range filter.Orgs {
		if s.auth.Authorize(claims, models.AccessRule{OrgIDs: []string{org}}) != nil {
			full = false
			break
		}
	}

	out := make([]interface{}, 0, len(users))
	for i := range users {
		if full {
			out = append(out, &users[i])
		} else {
			out = append(out, users[i].Truncated())
		}
	}
	return &UserList{Users: out, Hits: hits}, nil
}
