package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arihantcabs/booking-backend/internal/config"
	"github.com/arihantcabs/booking-backend/internal/database"
	"github.com/arihantcabs/booking-backend/internal/handlers"
	"github.com/arihantcabs/booking-backend/internal/middleware"
	"github.com/arihantcabs/booking-backend/internal/repository"
	"github.com/arihantcabs/booking-backend/internal/services"
	"github.com/arihantcabs/booking-backend/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// recentLookupsTTL bounds how long a device keeps its tracking history.
const recentLookupsTTL = 7 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(logger.Config{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})
	if cfg.Security.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx := context.Background()

	var store repository.Store
	switch cfg.App.StoreDriver {
	case "memory":
		log.Warn("using in-memory store, data is lost on restart")
		store = repository.NewMemoryStore()
	default:
		db, err := database.InitDB(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		store = repository.NewGormStore(db)
	}

	if cfg.App.SeedFleet {
		database.SeedFleet(ctx, store, log)
	}
	if err := services.EnsureAdminSecret(ctx, store, cfg.Security.AdminSecret); err != nil {
		log.WithError(err).Warn("failed to store initial admin secret")
	}

	var (
		drafts services.DraftStore
		recent services.RecentStore
		guard  services.InFlightGuard
	)
	if cfg.Redis.URL != "" {
		client, err := services.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to initialize Redis: %v", err)
		}
		defer client.Close()
		drafts = services.NewRedisDraftStore(client, cfg.App.DraftTTL)
		recent = services.NewRedisRecentStore(client, recentLookupsTTL)
		guard = services.NewRedisInFlightGuard(client, cfg.Security.TransitionLockTTL)
	} else {
		log.Warn("REDIS_URL not set, keeping drafts and tracking history in memory")
		drafts = services.NewMemoryDraftStore(cfg.App.DraftTTL)
		recent = services.NewMemoryRecentStore()
		guard = services.NewMemoryInFlightGuard(cfg.Security.TransitionLockTTL)
	}

	done := make(chan struct{})
	hub := services.NewHub(log)
	go hub.Run(done)

	events := services.Publishers{hub}
	notifier, err := services.NewOperatorNotifier(ctx, cfg.Firebase.ServiceAccountPath, cfg.Firebase.OperatorTopic, log)
	if err != nil {
		log.WithError(err).Warn("Firebase initialization failed, operator push disabled")
	} else if notifier != nil {
		events = append(events, notifier)
	}

	images, err := services.NewImageStorage(cfg.Storage, log)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	bookingService := services.NewBookingService(store, drafts, guard, events, log)
	trackingService := services.NewTrackingService(store, bookingService, recent, log)
	reviewService := services.NewReviewService(store, events, log)
	authenticator := services.NewSecretAuthenticator(store, cfg.Security.FallbackSecret, log)
	adminService := services.NewAdminService(store, bookingService, authenticator, images, events, log, services.AdminOptions{
		JWTSecret: cfg.Security.JWTSecret,
		TokenTTL:  cfg.Security.AdminTokenTTL,
	})

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(logger.GinMiddleware(log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Security.CORSAllowedOrigins
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader, handlers.DeviceIDHeader}
	r.Use(cors.New(corsConfig))

	r.Static("/uploads", cfg.Storage.UploadDir)

	handlers.RegisterRoutes(r, handlers.Deps{
		Bookings:  bookingService,
		Tracking:  trackingService,
		Reviews:   reviewService,
		Admin:     adminService,
		Hub:       hub,
		Contact:   cfg.Contact,
		JWTSecret: cfg.Security.JWTSecret,
		Log:       log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: r,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	close(done)
}
