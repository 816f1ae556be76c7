package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/tutorbook/tutorbook-api/api/swagger"
	"github.com/tutorbook/tutorbook-api/internal/handler"
	internalmiddleware "github.com/tutorbook/tutorbook-api/internal/middleware"
	"github.com/tutorbook/tutorbook-api/internal/repository"
	"github.com/tutorbook/tutorbook-api/internal/service"
	"github.com/tutorbook/tutorbook-api/pkg/cache"
	"github.com/tutorbook/tutorbook-api/pkg/config"
	"github.com/tutorbook/tutorbook-api/pkg/database"
	"github.com/tutorbook/tutorbook-api/pkg/jobs"
	"github.com/tutorbook/tutorbook-api/pkg/logger"
	corsmiddleware "github.com/tutorbook/tutorbook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tutorbook/tutorbook-api/pkg/middleware/requestid"
)

const shutdownTimeout = 10 * time.Second

// @title Tutorbook API
// @version 0.1.0
// @description User profiles, matches and month availability for tutors and mentors
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	loc, err := cfg.Availability.Location()
	if err != nil {
		return fmt.Errorf("availability timezone: %w", err)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	deps := map[string]handler.Pinger{"postgres": handler.PingFunc(db.PingContext)}

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Availability.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, availability cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			repo := repository.NewCacheRepository(client, "tutorbook", logr)
			cacheRepo = repo
			deps["redis"] = repo
			logr.Info("availability cache enabled", zap.Duration("ttl", cfg.Availability.CacheTTL))
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Availability.CacheTTL, logr, cacheRepo != nil)

	users := repository.NewUserRepository(db)
	matches := repository.NewMatchRepository(db)

	authSvc := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(users, authSvc, logr)
	matchSvc := service.NewMatchService(matches, authSvc, logr)
	availabilitySvc := service.NewAvailabilityService(users, matches, cacheSvc, authSvc, metrics, validator.New(), logr, service.AvailabilityConfig{
		Location:   loc,
		CacheTTL:   cfg.Availability.CacheTTL,
		WarmMonths: cfg.Availability.WarmMonths,
	})
	exportSvc := service.NewExportService(loc, logr, nil, nil, nil)

	if cacheSvc.Enabled() && cfg.Availability.WarmMonths > 0 {
		warm := jobs.NewQueue("availability-warm", availabilitySvc.HandleWarmJob, jobs.QueueConfig{
			Workers:    cfg.Availability.WarmWorkers,
			BufferSize: cfg.Availability.WarmQueueLen,
			MaxRetries: cfg.Availability.WarmRetries,
			Logger:     logr,
		})
		warm.Start(ctx)
		defer warm.Stop()
		availabilitySvc.UseWarmQueue(warm)
	}

	r := newRouter(cfg, logr, metrics, authSvc, routeHandlers{
		users:        handler.NewUserHandler(userSvc),
		matches:      handler.NewMatchHandler(matchSvc),
		availability: handler.NewAvailabilityHandler(availabilitySvc, exportSvc),
		metrics:      handler.NewMetricsHandler(metrics, deps),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type routeHandlers struct {
	users        *handler.UserHandler
	matches      *handler.MatchHandler
	availability *handler.AvailabilityHandler
	metrics      *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, auth *service.AuthService, h routeHandlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/users", internalmiddleware.OptionalJWT(auth), h.users.List)
	api.GET("/users/:id", internalmiddleware.OptionalJWT(auth), h.users.Get)
	if cfg.Availability.RequireAuth {
		api.GET("/users/:id/availability", internalmiddleware.JWT(auth), h.availability.Get)
	} else {
		api.GET("/users/:id/availability", h.availability.Get)
	}
	api.PUT("/users/:id/availability", internalmiddleware.JWT(auth), h.availability.Update)
	api.GET("/matches/:id", internalmiddleware.JWT(auth), h.matches.Get)

	return r
}
