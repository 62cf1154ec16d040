package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/application"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/auth"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/config"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/events"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/handler"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/logger"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/middleware"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/prediction"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/repository"
	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/routing"
)

const serviceName = "route-tracker"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting route-tracker",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.ComparisonModel{}, &repository.VehicleModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, serviceName, 72*time.Hour)

	// Optional redis-backed estimate cache
	var estimateCache *prediction.EstimateCache
	if cfg.Redis.Enabled {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal("invalid redis URL", zap.Error(err))
		}
		redisClient := redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		estimateCache = prediction.NewEstimateCache(redisClient, cfg.Redis.TTL, log)
	}

	// Optional Kafka producer for route events
	var producer *events.Producer
	if cfg.Kafka.Enabled {
		producer = events.NewProducer(cfg.Kafka.Brokers, log)
		defer func() { _ = producer.Close() }()
	}

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	// Initialize provider clients
	geoapify, err := routing.NewGeoapifyClient(
		cfg.Geoapify.APIKey,
		cfg.Geoapify.BaseURL,
		cfg.Geoapify.Timeout,
		cfg.Geoapify.MaxAlternatives,
		log,
	)
	if err != nil {
		log.Fatal("failed to create routing client", zap.Error(err))
	}

	predictor, err := prediction.NewClient(cfg.Predictor.BaseURL, cfg.Predictor.Timeout, estimateCache, log)
	if err != nil {
		log.Fatal("failed to create predictor client", zap.Error(err))
	}

	// Initialize repositories
	routeRepo := repository.NewGormRouteRepository(db)
	vehicleRepo := repository.NewGormVehicleRepository(db)

	// Vehicle records are mirrored from the fleet inventory topic
	if cfg.Kafka.Enabled {
		vehicleConsumer := events.NewVehicleEventConsumer(
			cfg.Kafka.Brokers,
			serviceName,
			vehicleRepo,
			log,
		)
		defer func() { _ = vehicleConsumer.Close() }()
		go func() {
			if err := vehicleConsumer.Start(consumerCtx); err != nil {
				log.Error("vehicle event consumer stopped", zap.Error(err))
			}
		}()
	}

	// Initialize application service
	plannerService := application.NewPlannerService(
		routeRepo,
		vehicleRepo,
		geoapify,
		predictor,
		producer,
		log,
	)

	// Initialize HTTP handlers
	routeHandler := handler.NewRouteHandler(plannerService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())

	// Register health check routes
	healthHandler := handler.NewHealthHandler(db, serviceName)
	healthHandler.RegisterRoutes(router)

	// Register routes
	routeHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down route-tracker...")
	consumerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("route-tracker stopped")
}
