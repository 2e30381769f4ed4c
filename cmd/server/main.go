package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/LuxeDrive-Rentals/service-rental/internal/application"
	"github.com/LuxeDrive-Rentals/service-rental/internal/config"
	bookingDomain "github.com/LuxeDrive-Rentals/service-rental/internal/domain/booking"
	"github.com/LuxeDrive-Rentals/service-rental/internal/events"
	"github.com/LuxeDrive-Rentals/service-rental/internal/handler"
	"github.com/LuxeDrive-Rentals/service-rental/internal/repository"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/auth"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/database"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/health"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/kafka"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/logger"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/middleware"
)

const (
	serviceName     = "service-rental"
	accessTokenTTL  = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.VehicleModel{},
			&repository.BookingModel{},
			&repository.PaymentModel{},
		); err != nil {
			log.Fatal("auto-migration failed", zap.Error(err))
		}
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("migrations failed", zap.Error(err))
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, accessTokenTTL)

	producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer producer.Close() //nolint:errcheck
	notifier := events.NewKafkaNotifier(producer, log)

	bookingRepo := repository.NewGormBookingRepository(db)
	vehicleRepo := repository.NewGormVehicleRegistry(db)
	paymentRepo := repository.NewGormPaymentRepository(db)

	bookingService := application.NewBookingService(
		bookingRepo,
		vehicleRepo,
		paymentRepo,
		bookingDomain.NewStandardPricingStrategy(),
		notifier,
		log,
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	paymentConsumer := events.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		cfg.KafkaConfig.GroupPrefix+serviceName,
		bookingService,
		log,
	)
	go func() {
		if err := paymentConsumer.Start(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("payment consumer stopped", zap.Error(err))
		}
	}()
	defer paymentConsumer.Close() //nolint:errcheck

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RecoveryMiddleware(log),
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(log),
		middleware.CORSMiddleware(),
		middleware.SecurityHeadersMiddleware(),
	)

	health.NewHandler(db, serviceName).RegisterRoutes(router)

	api := router.Group("/api/v1")
	authMW := middleware.AuthMiddleware(jwtManager)
	handler.NewBookingHandler(bookingService, log).RegisterRoutes(api, authMW)
	handler.NewAdminHandler(bookingService, log).RegisterRoutes(api, authMW)

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting http server", zap.String("addr", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	log.Info("shutdown complete")
}
