package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/osca-api/api/swagger"
	"github.com/noah-isme/osca-api/internal/handler"
	"github.com/noah-isme/osca-api/internal/middleware"
	"github.com/noah-isme/osca-api/internal/repository"
	"github.com/noah-isme/osca-api/internal/service"
	"github.com/noah-isme/osca-api/internal/session"
	"github.com/noah-isme/osca-api/pkg/cache"
	"github.com/noah-isme/osca-api/pkg/config"
	"github.com/noah-isme/osca-api/pkg/database"
	"github.com/noah-isme/osca-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/osca-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/osca-api/pkg/middleware/requestid"
)

const (
	orgCachePrefix  = "osca:cache:"
	shutdownTimeout = 10 * time.Second
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logr, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logr.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := database.NewPostgres(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			rdb, err := cache.NewRedis(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer rdb.Close()

			router, err := buildRouter(cfg, logr, db, rdb)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logr.Warn("server shutdown", zap.Error(err))
				}
			}()

			logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logr.Info("server stopped")
			return nil
		},
	}
}

// routes groups the handlers mounted by newRouter.
type routes struct {
	metrics       *service.MetricsService
	health        *handler.MetricsHandler
	auth          *handler.AuthHandler
	announcements *handler.AnnouncementHandler
	sessions      *service.SessionResolver
	cookies       session.CookieOptions
}

func buildRouter(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, rdb *redis.Client) (*gin.Engine, error) {
	codec, err := service.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	orgRepo := repository.NewOrganizationRepository(db)
	editorRepo := repository.NewEditorRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(rdb)
	cacheRepo := repository.NewCacheRepository(rdb, orgCachePrefix)

	orgCache := service.NewCacheService(cacheRepo, metrics, cfg.OrgCache.TTL, logr, cfg.OrgCache.Enabled)
	resolver := service.NewSessionResolver(codec, sessionRepo, logr)
	gate := service.NewAuthorizationGate(orgRepo, editorRepo, orgCache, logr)
	announcementValidator := service.NewAnnouncementValidator(validate, cfg.Forms.Location)
	announcementSvc := service.NewAnnouncementService(announcementRepo, resolver, gate, announcementValidator, metrics, logr)
	authSvc := service.NewAuthService(userRepo, codec, sessionRepo, validate, logr)

	cookies := session.CookieOptions{Name: cfg.Session.CookieName, Domain: cfg.Session.Domain, Secure: cfg.Session.Secure}
	checks := map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	return newRouter(cfg, logr, routes{
		metrics:       metrics,
		health:        handler.NewMetricsHandler(metrics, checks),
		auth:          handler.NewAuthHandler(authSvc, cookies),
		announcements: handler.NewAnnouncementHandler(announcementSvc, cookies),
		sessions:      resolver,
		cookies:       cookies,
	}), nil
}

func newRouter(cfg *config.Config, logr *zap.Logger, rt routes) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(rt.metrics, "/metrics"))

	r.GET("/health", rt.health.Health)
	r.GET("/ready", rt.health.Ready)
	r.GET("/metrics", rt.health.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		auth.POST("/login", rt.auth.Login)
		auth.POST("/logout", rt.auth.Logout)
		auth.GET("/me", middleware.RequireSession(rt.sessions, rt.cookies), rt.auth.Me)

		api.POST("/announcements", rt.announcements.Create)
		api.GET("/announcement/:id", rt.announcements.Get)
	}

	return r
}
