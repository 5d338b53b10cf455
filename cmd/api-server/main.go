package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"clubedoebook/database"
	"clubedoebook/internal/api/handler"
	"clubedoebook/internal/api/middleware"
	"clubedoebook/internal/api/repository"
	"clubedoebook/internal/api/service"
	"clubedoebook/internal/config"
	"clubedoebook/internal/jobs"
	"clubedoebook/internal/payments"
	"clubedoebook/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	rdb, err := database.ConnectRedis(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}
	defer rdb.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	ebookRepo := repository.NewEbookRepo(db)
	bundleRepo := repository.NewBundleRepo(db)
	ratingRepo := repository.NewRatingRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	creatorRepo := repository.NewCreatorRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Services
	authSvc := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	notificationSvc := service.NewNotificationService(notificationRepo, rdb, logger)
	gamificationSvc := service.NewGamificationService(
		userRepo, statsRepo, achievementRepo, certificateRepo, ebookRepo, notificationSvc, logger)

	var catalogSvc service.CatalogService
	if cfg.S3Bucket != "" {
		downloads, err := storage.New(context.Background(), storage.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			URLTTL:    cfg.DownloadURLTTL,
		})
		if err != nil {
			log.Fatalf("could not set up file storage: %v", err)
		}
		catalogSvc = service.NewCatalogService(ebookRepo, bundleRepo, orderRepo, downloads, gamificationSvc, logger)
	} else {
		logger.Warn("S3_BUCKET not set, downloads disabled")
		catalogSvc = service.NewCatalogService(ebookRepo, bundleRepo, orderRepo, nil, gamificationSvc, logger)
	}

	ratingSvc := service.NewRatingService(ratingRepo, ebookRepo, gamificationSvc, logger)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, ebookRepo)
	creatorSvc := service.NewCreatorService(creatorRepo, rdb, cfg.CreatorSalesTTL, logger)
	paymentClient := payments.NewClient(cfg.PaymentAPIURL, cfg.PaymentAPIKey)
	checkoutSvc := service.NewCheckoutService(
		orderRepo, ebookRepo, bundleRepo, paymentClient, creatorSvc, gamificationSvc, notificationSvc, logger)

	// Background jobs
	streakJob, err := jobs.NewStreakResetter(statsRepo, logger)
	if err != nil {
		log.Fatalf("could not create streak job: %v", err)
	}
	if err := streakJob.Start(); err != nil {
		log.Fatalf("could not start streak job: %v", err)
	}
	defer streakJob.Stop()

	// Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handler.NewAuthHandler(authSvc, gamificationSvc, logger)
	ebookHandler := handler.NewEbookHandler(catalogSvc, gamificationSvc)
	bundleHandler := handler.NewBundleHandler(catalogSvc)
	ratingHandler := handler.NewRatingHandler(ratingSvc, catalogSvc)
	favoriteHandler := handler.NewFavoriteHandler(favoriteSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	progressHandler := handler.NewProgressHandler(gamificationSvc)
	creatorHandler := handler.NewCreatorHandler(creatorSvc)
	checkoutHandler := handler.NewCheckoutHandler(checkoutSvc)

	api := r.Group("/api/v1")

	authHandler.RegisterRoutes(api.Group("/auth"))

	ebooks := api.Group("/ebooks")
	ebookHandler.RegisterRoutes(ebooks)
	ratingHandler.RegisterRoutes(ebooks)
	bundleHandler.RegisterRoutes(api.Group("/bundles"))

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(authSvc))
	{
		authedEbooks := authed.Group("/ebooks")
		ebookHandler.RegisterProtectedRoutes(authedEbooks)
		ratingHandler.RegisterProtectedRoutes(authedEbooks)

		favoriteHandler.RegisterRoutes(authed.Group("/favorites"))
		notificationHandler.RegisterRoutes(authed.Group("/notifications"))
		progressHandler.RegisterRoutes(authed.Group("/progress"))
		checkoutHandler.RegisterRoutes(authed.Group(""))

		creators := authed.Group("/creator")
		creators.Use(middleware.RequireCreator())
		creatorHandler.RegisterRoutes(creators)
		ebookHandler.RegisterCreatorRoutes(creators)
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}
