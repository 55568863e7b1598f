package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shareit/service-booking/internal/application"
	"github.com/shareit/service-booking/internal/config"
	catalogDomain "github.com/shareit/service-booking/internal/domain/catalog"
	bookingEvents "github.com/shareit/service-booking/internal/events"
	"github.com/shareit/service-booking/internal/handler"
	"github.com/shareit/service-booking/internal/metrics"
	"github.com/shareit/service-booking/internal/repository"
	"github.com/shareit/service-booking/pkg/database"
	"github.com/shareit/service-booking/pkg/health"
	"github.com/shareit/service-booking/pkg/kafka"
	"github.com/shareit/service-booking/pkg/logger"
	"github.com/shareit/service-booking/pkg/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.Bool("prevent_overlap", cfg.PreventOverlap),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.UserModel{}, &repository.ItemModel{}, &repository.BookingModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), cfg.MigrationsPath, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	itemRepo := repository.NewGormItemRepository(db)
	var userRepo catalogDomain.UserRepository = repository.NewGormUserRepository(db)

	redisClient := repository.NewRedisClient(cfg.RedisConfig)
	defer func() { _ = redisClient.Close() }()
	if err := repository.PingRedis(ctx, redisClient); err != nil {
		log.Warn("user cache disabled", zap.String("addr", cfg.RedisConfig.Addr), zap.Error(err))
	} else {
		userRepo = repository.NewCachedUserRepository(userRepo, redisClient, cfg.RedisConfig.TTL, log)
	}

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		userRepo,
		itemRepo,
		kafkaProducer,
		log,
		application.WithOverlapPrevention(cfg.PreventOverlap),
	)
	catalogService := application.NewCatalogService(userRepo, itemRepo, log)

	// Start the catalog projection consumer
	groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
	catalogConsumer := bookingEvents.NewCatalogEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		catalogService,
		log,
	)
	defer func() { _ = catalogConsumer.Close() }()

	go func() {
		log.Info("starting catalog event consumer", zap.String("group", groupID))
		if err := catalogConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("catalog event consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	metrics.Register()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(metrics.Middleware())

	// Register health check and metrics routes
	health.NewHandler(db, "service-booking").RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register routes
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup)
	handler.NewAdminBookingHandler(bookingService, cfg.AdminIDs).RegisterRoutes(&router.RouterGroup)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
