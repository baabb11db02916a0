package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/internal/extraction"
	"github.com/pageza/weekprep/backend/internal/middleware"
	"github.com/pageza/weekprep/backend/internal/service"
)

// Services are the handlers' dependencies.
type Services struct {
	Auth       *service.AuthService
	Recipes    *service.RecipeService
	Schedule   *service.ScheduleService
	Shelf      *service.ShelfService
	Groceries  *service.GroceryService
	Extraction *extraction.Service
}

// Checker reports whether a backing service is reachable.
type Checker func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Checker
}

func NewHealthHandler(checks map[string]Checker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			components[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":     state,
		"message":    "WeekPrep API is running",
		"components": components,
	})
}

// RegisterRoutes registers all API routes. extractLimit may be nil.
func RegisterRoutes(router *gin.Engine, svcs Services, health *HealthHandler, extractLimit gin.HandlerFunc, log *zap.Logger) {
	router.GET("/health", health.HealthCheck)

	v1 := router.Group("/api/v1")
	NewAuthHandler(svcs.Auth, log).RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(svcs.Auth))

	NewExtractionHandler(svcs.Extraction, extractLimit, log).RegisterRoutes(protected)
	NewRecipeHandler(svcs.Recipes, log).RegisterRoutes(protected)
	NewScheduleHandler(svcs.Schedule, log).RegisterRoutes(protected)
	NewGroceryHandler(svcs.Groceries, log).RegisterRoutes(protected)
	NewShelfHandler(svcs.Shelf, log).RegisterRoutes(protected)
}
