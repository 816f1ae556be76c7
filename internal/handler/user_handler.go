package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tutorbook/tutorbook-api/internal/models"
	"github.com/tutorbook/tutorbook-api/internal/service"
	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
	"github.com/tutorbook/tutorbook-api/pkg/response"
)

type userService interface {
	Get(ctx context.Context, claims *models.JWTClaims, id string) (interface{}, error)
	List(ctx context.Context, claims *models.JWTClaims, filter models.UserFilter) (*service.UserList, error)
}

// UserHandler serves user profiles.
type UserHandler struct {
	service userService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// Get godoc
// @Summary Get user
// @Description Full profile for the user and their org admins, truncated profile otherwise
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope{data=models.TruncatedUser}
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

// List godoc
// @Summary List org users
// @Description Users of the given orgs. Admins of every requested org see full profiles, everyone else truncated ones
// @Tags Users
// @Produce json
// @Param orgs query string true "Comma separated org IDs"
// @Param query query string false "Search in name and bio"
// @Param page query int false "Zero-based page"
// @Param hitsPerPage query int false "Page size, 20 by default"
// @Success 200 {object} response.Envelope{data=service.UserList}
// @Failure 400 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	orgs := listQuery(c, "orgs")
	if len(orgs) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "orgs is required"))
		return
	}
	page, err := optionalIntQuery(c, "page", 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	hitsPerPage, err := optionalIntQuery(c, "hitsPerPage", 20)
	if err != nil {
		response.Error(c, err)
		return
	}
	if page < 0 || hitsPerPage < 1 || hitsPerPage > 100 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "page must be non-negative and hitsPerPage between 1 and 100"))
		return
	}

	filter := models.UserFilter{Orgs: orgs, Search: strings.TrimSpace(c.Query("query")), Page: page, HitsPerPage: hitsPerPage}
	list, err := h.service.List(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}
