package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/italyna/reservations-api/api/swagger"
	"github.com/italyna/reservations-api/internal/handler"
	"github.com/italyna/reservations-api/internal/middleware"
	"github.com/italyna/reservations-api/internal/repository"
	"github.com/italyna/reservations-api/internal/service"
	"github.com/italyna/reservations-api/pkg/cache"
	"github.com/italyna/reservations-api/pkg/config"
	"github.com/italyna/reservations-api/pkg/database"
	"github.com/italyna/reservations-api/pkg/logger"
	corsmiddleware "github.com/italyna/reservations-api/pkg/middleware/cors"
	reqidmiddleware "github.com/italyna/reservations-api/pkg/middleware/requestid"
)

// @title Italyna Reservations API
// @version 1.0.0
// @description Reservation intake and availability service for the Italyna restaurant
// @BasePath /
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The settings cache is an optimization; the API works without it.
		logr.Sugar().Warnw("redis unavailable, settings cache disabled", "error", err)
		redisClient = nil
		cfg.Settings.CacheEnabled = false
	}

	validate := validator.New()

	settingsRepo := repository.NewSettingsRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	userRepo := repository.NewUserRepository(db)

	var cacheRepo *repository.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	metricsSvc := service.NewMetricsService()
	settingsSvc := service.NewSettingsService(settingsRepo, cacheRepo, validate, logr, cfg.Settings)
	availabilitySvc := service.NewAvailabilityService(settingsSvc, reservationRepo, logr, cfg.Availability)
	reservationSvc := service.NewReservationService(reservationRepo, availabilitySvc, settingsSvc, validate, logr, metricsSvc)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})

	reservationHandler := handler.NewReservationHandler(reservationSvc, availabilitySvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	authHandler := handler.NewAuthHandler(authSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/reservations", reservationHandler.Create)
		api.GET("/reservations/slots", reservationHandler.TimeSlots)
		api.GET("/reservations/availability", reservationHandler.CheckAvailability)

		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", middleware.JWT(authSvc), authHandler.Me)

		admin := api.Group("/admin", middleware.JWT(authSvc))
		{
			admin.GET("/reservations", reservationHandler.List)
			admin.PATCH("/reservations/:id/status", reservationHandler.UpdateStatus)
			if cfg.Exports.Enabled {
				admin.GET("/reservations/export", reservationHandler.Export)
			}

			admin.GET("/settings", settingsHandler.Get)
			admin.PUT("/settings/opening-hours", settingsHandler.UpdateOpeningHours)
			admin.PUT("/settings/table-capacity", settingsHandler.UpdateTableCapacity)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
