package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/headway-clinic/checkin-api/internal/config"
	"github.com/headway-clinic/checkin-api/internal/database"
	"github.com/headway-clinic/checkin-api/internal/handlers"
	"github.com/headway-clinic/checkin-api/internal/logging"
	"github.com/headway-clinic/checkin-api/internal/repository"
	"github.com/headway-clinic/checkin-api/internal/services"
)

func main() {
	// Missing .env is fine in containerized deployments; config falls back
	// to environment variables and defaults.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logging.Init(cfg.LogDir)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg, log); err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatal("Failed to create indexes", zap.Error(err))
	}
	if err := database.SeedQuestions(database.GetDB(), log); err != nil {
		log.Fatal("Failed to seed questions", zap.Error(err))
	}

	db := database.GetDB()

	userRepo := repository.NewUserRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)
	deviceRepo := repository.NewDeviceSessionRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	questionRepo := repository.NewQuestionRepository(db)

	accessService := services.NewAccessService(userRepo)
	authService := services.NewAuthService(
		userRepo, inviteRepo, deviceRepo,
		cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour, log)
	inviteService := services.NewInviteService(inviteRepo)
	checkinService := services.NewCheckinService(checkinRepo, questionRepo, accessService, log)
	metricsService := services.NewMetricsService(userRepo, checkinRepo, log)
	archiveService := services.NewArchiveService(db, userRepo, checkinRepo, deviceRepo, accessService, log)
	userService := services.NewUserService(userRepo, deviceRepo, log)

	r := handlers.NewRouter(handlers.RouterConfig{
		JWTSecret:   cfg.JWTSecret,
		FrontendURL: cfg.FrontendURL,
		DeviceRepo:  deviceRepo,
		Auth:        handlers.NewAuthHandler(authService),
		Checkin:     handlers.NewCheckinHandler(checkinService),
		Metrics:     handlers.NewMetricsHandler(metricsService, accessService),
		Users:       handlers.NewUserHandler(userService),
		Invites:     handlers.NewInviteHandler(inviteService),
		Archive:     handlers.NewArchiveHandler(archiveService),
	})

	log.Info("Server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server exited", zap.Error(err))
	}
}
