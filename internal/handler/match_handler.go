package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorbook/tutorbook-api/internal/models"
	"github.com/tutorbook/tutorbook-api/pkg/response"
)

type matchService interface {
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Match, error)
}

// MatchHandler serves matches.
type MatchHandler struct {
	service matchService
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(svc matchService) *MatchHandler {
	return &MatchHandler{service: svc}
}

// Get godoc
// @Summary Get match
// @Tags Matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} response.Envelope{data=models.Match}
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /matches/{id} [get]
func (h *MatchHandler) Get(c *gin.Context) {
	match, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, match)
}
