package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"finishline/internal/app/changerequest"
	"finishline/internal/app/config"
	"finishline/internal/app/dsn"
	"finishline/internal/app/handler"
	"finishline/internal/app/middleware"
	"finishline/internal/app/notify"
	"finishline/internal/app/redis"
	"finishline/internal/app/repository"
	"finishline/internal/app/userdir"
	"finishline/internal/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ConfigureLogging switches logrus to JSON output in prod.
func ConfigureLogging(cfg *config.Config) {
	if cfg.IsProd() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(logrus.DebugLevel)
}

// StartServer wires every dependency and serves until ctx is cancelled.
func StartServer(ctx context.Context, cfg *config.Config) error {
	ConfigureLogging(cfg)

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer repo.Close()

	if cfg.AutoMigrate {
		if err := repo.Migrate(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	var (
		blacklist middleware.Blacklist
		tokens    handler.TokenBlacklist
		nameCache userdir.NameCache
	)
	if cfg.RedisEnabled() {
		redisClient, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		blacklist, tokens, nameCache = redisClient, redisClient, redisClient
	} else {
		logrus.Warn("redis is not configured: logout blacklist and name cache are disabled")
	}

	service := changerequest.NewService(
		changerequest.NewRepositoryStore(repo),
		userdir.New(repo, nameCache, cfg.UserNameCacheTTL),
		newNotifier(cfg),
	)

	auth := middleware.NewAuthMiddleware(blacklist, cfg)
	h := handler.NewAPIHandler(service, repo, auth, tokens, cfg)

	return pkg.NewApp(cfg, NewRouter(cfg, auth), h, service).RunApp(ctx)
}

// NewRouter builds the engine with CORS, recovery, access logging and auth.
func NewRouter(cfg *config.Config, auth *middleware.AuthMiddleware) *gin.Engine {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestLogger())
	r.Use(auth.RequireAuth())
	return r
}

func newNotifier(cfg *config.Config) changerequest.Notifier {
	if cfg.Slack.Enabled && cfg.Slack.Token != "" {
		return notify.NewSlack(cfg.Slack)
	}
	logrus.Info("slack is disabled: change request notifications are only logged")
	return notify.LogNotifier{}
}
