package router

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/config"
	"github.com/pageza/weekprep/backend/internal/api"
	"github.com/pageza/weekprep/backend/internal/middleware"
)

// maxBodySize leaves room for a base64 photo in the extraction request.
const maxBodySize = 16 << 20

// SetupRouter configures the application routes
func SetupRouter(cfg *config.Config, log *zap.Logger, svcs api.Services, health *api.HealthHandler, extractLimit gin.HandlerFunc) *gin.Engine {
	if cfg.Env == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(requestid.New())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.BodySizeLimit(maxBodySize))

	api.RegisterRoutes(router, svcs, health, extractLimit, log)
	return router
}
