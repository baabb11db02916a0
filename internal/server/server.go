package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/weekprep/backend/config"
	"github.com/pageza/weekprep/backend/internal/api"
	"github.com/pageza/weekprep/backend/internal/database"
	"github.com/pageza/weekprep/backend/internal/extraction"
	"github.com/pageza/weekprep/backend/internal/middleware"
	"github.com/pageza/weekprep/backend/internal/repository"
	"github.com/pageza/weekprep/backend/internal/router"
	"github.com/pageza/weekprep/backend/internal/service"
	"github.com/pageza/weekprep/backend/internal/session"
)

// Server represents the HTTP server
type Server struct {
	cfg     *config.Config
	router  *gin.Engine
	http    *http.Server
	db      *gorm.DB
	redis   *redis.Client
	closers []io.Closer
	log     *zap.Logger
}

// New connects to the backing services and builds the router.
// Redis, S3 and the extraction provider are optional; without Redis the
// session cache, drafts and rate limits are kept in process.
func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	ctx := context.Background()

	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == "sqlite" || cfg.Env != config.Production {
		if err := database.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	s := &Server{cfg: cfg, db: db, log: log}

	if cfg.RedisHost != "" || cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg, log)
		if err != nil {
			log.Warn("redis unavailable, using in-process session cache", zap.Error(err))
		} else {
			s.redis = client
		}
	}

	recipes := repository.NewRecipeRepository(db)
	schedules := repository.NewScheduleRepository(db)
	shelf := repository.NewShelfRepository(db)
	users := repository.NewUserRepository(db)

	var cache session.Cache = session.NewMemoryCache()
	var drafts extraction.DraftStore = extraction.NewMemoryDraftStore(cfg.Extraction.DraftTTL)
	if s.redis != nil {
		cache = session.NewRedisCache(s.redis, cfg.SessionTTL)
		drafts = extraction.NewRedisDraftStore(s.redis, cfg.Extraction.DraftTTL)
	}
	sessions := session.NewManager(recipes, schedules, shelf, cache, log)

	var media service.MediaStore
	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Warn("recipe image uploads disabled", zap.Error(err))
		} else {
			media = service.NewS3MediaStore(s3Config, log)
		}
	}

	extractor, err := s.newExtractor(ctx)
	if err != nil {
		log.Warn("recipe extraction disabled", zap.Error(err))
	}

	svcs := api.Services{
		Auth:       service.NewAuthService(users, sessions, cfg.JWTSecret, log),
		Recipes:    service.NewRecipeService(recipes, sessions, media, log),
		Schedule:   service.NewScheduleService(schedules, sessions, log),
		Shelf:      service.NewShelfService(shelf, sessions, log),
		Groceries:  service.NewGroceryService(sessions),
		Extraction: extraction.NewService(extractor, drafts, cfg.Extraction.MaxImageBytes, log),
	}

	checks := map[string]api.Checker{
		"database": func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
	}
	if s.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return s.redis.Ping(ctx).Err() }
	}

	s.router = router.SetupRouter(cfg, log, svcs, api.NewHealthHandler(checks), s.extractLimit())
	return s, nil
}

// newExtractor picks the provider named in the config. A nil extractor disables extraction.
func (s *Server) newExtractor(ctx context.Context) (extraction.Extractor, error) {
	ec := s.cfg.Extraction
	switch ec.Provider {
	case "gemini":
		if ec.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is not set")
		}
		g, err := extraction.NewGeminiExtractor(ctx, ec.GeminiAPIKey, ec.GeminiModel, s.log)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, g)
		return g, nil
	case "openrouter":
		if ec.OpenRouterAPIKey == "" {
			return nil, errors.New("OPENROUTER_API_KEY is not set")
		}
		return extraction.NewOpenRouterExtractor(ec.OpenRouterBaseURL, ec.OpenRouterAPIKey, ec.OpenRouterModel, ec.Timeout, s.log), nil
	case "none":
		s.log.Info("recipe extraction disabled by configuration")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown extraction provider %q", ec.Provider)
	}
}

func (s *Server) extractLimit() gin.HandlerFunc {
	rl := s.cfg.RateLimit
	if !rl.Enabled {
		return nil
	}
	var limiter middleware.Limiter
	if s.redis != nil {
		limiter = middleware.NewExtractionRateLimiter(s.redis, rl.Requests, rl.Window)
	} else {
		limiter = middleware.NewMemoryRateLimiter(middleware.RateLimitConfig{
			Window:    rl.Window,
			Limit:     rl.Requests,
			KeyPrefix: "rate_limit:extraction",
		})
	}
	return middleware.RateLimit(limiter, s.log)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and releases the backing connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
