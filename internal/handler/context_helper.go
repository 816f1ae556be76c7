package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tutorbook/tutorbook-api/internal/middleware"
	"github.com/tutorbook/tutorbook-api/internal/models"
	appErrors "github.com/tutorbook/tutorbook-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

func requiredIntQuery(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" is required")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be an integer")
	}
	return v, nil
}

func optionalIntQuery(c *gin.Context, name string, fallback int) (int, error) {
	if strings.TrimSpace(c.Query(name)) == "" {
		return fallback, nil
	}
	return requiredIntQuery(c, name)
}

// listQuery collects a repeatable, comma separated query parameter.
func listQuery(c *gin.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
