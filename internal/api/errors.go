package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/internal/extraction"
	"github.com/pageza/weekprep/backend/internal/middleware"
	"github.com/pageza/weekprep/backend/internal/planner"
	"github.com/pageza/weekprep/backend/internal/service"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound),
		errors.Is(err, service.ErrShelfItemNotFound),
		errors.Is(err, extraction.ErrDraftExpired):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidRecipe),
		errors.Is(err, service.ErrInvalidShelfItem),
		errors.Is(err, planner.ErrInvalidDay),
		errors.Is(err, planner.ErrInvalidMeal),
		errors.Is(err, extraction.ErrEmptyImage),
		errors.Is(err, extraction.ErrInvalidImage):
		return http.StatusBadRequest
	case errors.Is(err, extraction.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, extraction.ErrDisabled),
		errors.Is(err, service.ErrMediaDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Internal errors are logged and their
// message is not sent to the client.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// currentUserID reads the id set by middleware.AuthMiddleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	}
	return id, ok
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
