package app

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"studygroup-api/config"
	"studygroup-api/db"
	"studygroup-api/handler"
	"studygroup-api/logger"
	"studygroup-api/repository"
	"studygroup-api/router"
	"studygroup-api/service"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if config.AppConfig.Migrations.Auto {
		if err := db.Migrate(config.AppConfig.Migrations.Path, db.ConnString()); err != nil {
			logger.Log.Fatalf("Error running migrations: %v", err)
		}
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	r := newRouter(database, redisClient, config.AppConfig)

	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// newRouter wires repositories, services and handlers into the HTTP router.
func newRouter(database *sql.DB, redisClient *redis.Client, cfg config.Config) http.Handler {
	memberRepo := repository.NewMemberRepository(database)
	groupRepo := repository.NewStudyGroupRepository(database)
	participantRepo := repository.NewParticipantRepository(database)
	waitingRepo := repository.NewWaitingRepository(database)
	noticeRepo := repository.NewNoticeRepository(database)
	tokenStore := repository.NewRedisTokenStore(redisClient)

	tokenService := service.NewTokenService(tokenStore, cfg.JWT.SecretKey, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authService := service.NewAuthService(memberRepo, tokenService)
	memberService := service.NewMemberService(memberRepo)
	membershipService := service.NewMembershipService(database, groupRepo, participantRepo, waitingRepo, memberRepo, service.MembershipRules{
		MaxGroupMembers:    cfg.Membership.MaxGroupMembers,
		MaxGroupsPerMember: cfg.Membership.MaxGroupsPerMember,
	})
	noticeService := service.NewNoticeService(database, noticeRepo, groupRepo, participantRepo)

	health := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"postgres": database.PingContext,
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	})

	return router.NewRouter(router.Handlers{
		Tokens:  tokenService,
		Health:  health,
		Auth:    handler.NewAuthHandler(authService),
		Members: handler.NewMemberHandler(memberService),
		Groups:  handler.NewGroupHandler(membershipService, memberService),
		Notices: handler.NewNoticeHandler(noticeService, memberService),
	})
}

// TestApp exposes the wired router and its database to integration tests.
type TestApp struct {
	DB     *sql.DB
	Router http.Handler
}

func NewTestApp(database *sql.DB, redisClient *redis.Client) *TestApp {
	return &TestApp{
		DB:     database,
		Router: newRouter(database, redisClient, config.AppConfig),
	}
}
