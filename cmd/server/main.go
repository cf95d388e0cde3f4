package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	activityapp "github.com/garmentcrm/backend/internal/application/activity"
	galleryapp "github.com/garmentcrm/backend/internal/application/gallery"
	partnerapp "github.com/garmentcrm/backend/internal/application/partner"
	appshipping "github.com/garmentcrm/backend/internal/application/shipping"
	"github.com/garmentcrm/backend/internal/infrastructure/cache"
	"github.com/garmentcrm/backend/internal/infrastructure/carrier"
	"github.com/garmentcrm/backend/internal/infrastructure/config"
	"github.com/garmentcrm/backend/internal/infrastructure/logger"
	"github.com/garmentcrm/backend/internal/infrastructure/persistence"
	"github.com/garmentcrm/backend/internal/infrastructure/storage"
	"github.com/garmentcrm/backend/internal/interfaces/http/handler"
	"github.com/garmentcrm/backend/internal/interfaces/http/middleware"
	"github.com/garmentcrm/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Garment CRM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	orderRepo := persistence.NewGormShippingOrderRepository(db.DB)
	packageRepo := persistence.NewGormPackageSpecRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	activityRepo := persistence.NewGormActivityRecordRepository(db.DB)
	imageRepo := persistence.NewGormImageAssetRepository(db.DB)

	// Dashboard metrics cache (optional)
	var metricsCache appshipping.MetricsCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisMetricsCache(cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		metricsCache = redisCache
		log.Info("Dashboard metrics cache enabled", zap.String("addr", cfg.Redis.Addr()))
	}

	// Object storage for the image gallery
	var objectStorage galleryapp.ObjectStorage
	switch cfg.Storage.Provider {
	case "s3":
		objectStorage, err = storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		log.Info("S3 object storage initialized", zap.String("bucket", cfg.Storage.Bucket))
	default:
		objectStorage, err = storage.NewLocalObjectStorage(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL, log)
		if err != nil {
			log.Fatal("Failed to initialize local storage", zap.Error(err))
		}
		log.Info("Local object storage initialized", zap.String("dir", cfg.Storage.LocalDir))
	}

	// Carrier client for label purchases
	carrierClient := carrier.NewEasyPostClient(cfg.Carrier, log)

	// Initialize application services
	activityService := activityapp.NewActivityService(activityRepo, log)
	imageService := galleryapp.NewImageService(imageRepo, objectStorage, log)
	customerService := partnerapp.NewCustomerService(customerRepo)
	labelService := appshipping.NewLabelService(carrierClient, log)
	imageUploader := appshipping.NewImageUploader(imageService, activityService, cfg.Pipeline.ImageMaxRetries, log)
	pipeline := appshipping.NewPipeline(
		orderRepo, packageRepo, customerRepo,
		labelService, imageUploader,
		activityService, metricsCache, log,
	)
	orderService := appshipping.NewShippingOrderService(orderRepo, packageRepo, metricsCache, log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request IDs first so everything downstream can log them
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	router.Setup(engine, router.Handlers{
		System:   handler.NewSystemHandler(db),
		Orders:   handler.NewShippingOrderHandler(pipeline, orderService, activityService),
		Customer: handler.NewCustomerHandler(customerService, orderService),
		Images:   handler.NewImageHandler(imageService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
