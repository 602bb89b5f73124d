package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/listing-service/internal/cache"
	"github.com/tesseract-hub/listing-service/internal/config"
	"github.com/tesseract-hub/listing-service/internal/events"
	"github.com/tesseract-hub/listing-service/internal/handlers"
	"github.com/tesseract-hub/listing-service/internal/middleware"
	"github.com/tesseract-hub/listing-service/internal/services"
	"github.com/tesseract-hub/listing-service/internal/storage"
	"github.com/tesseract-hub/listing-service/internal/storage/memory"
	"github.com/tesseract-hub/listing-service/internal/storage/postgres"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logger := logrus.New()
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	var store storage.Storage
	switch cfg.StorageBackend {
	case "memory":
		logger.Info("Using in-memory storage backend")
		store = memory.NewStore(memory.WithSeedData())
	default:
		db, err := config.InitDB(cfg)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to database")
		}
		pgStore, err := postgres.NewStore(db)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize postgres storage")
		}
		store = pgStore
		logger.Info("Using postgres storage backend")
	}
	defer store.Close()

	var cacheClient *cache.Client
	if cfg.RedisAddr != "" {
		client, err := cache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, continuing without cache")
		} else {
			cacheClient = client
			defer cacheClient.Close()
		}
	}

	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		pub, err := events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.WithError(err).Warn("NATS unavailable, continuing without events")
		} else {
			publisher = pub
			defer publisher.Close()
		}
	}

	propertyService := services.NewPropertyService(store, cacheClient, publisher, logger)
	customerService := services.NewCustomerService(store, publisher, logger)
	userService := services.NewUserService(store, logger)
	waveService := services.NewWaveService(store, logger)

	propertyHandlers := handlers.NewPropertyHandlers(propertyService, logger)
	customerHandlers := handlers.NewCustomerHandlers(customerService, logger)
	adminHandlers := handlers.NewAdminHandlers(userService, waveService, propertyService, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "listing-service"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/properties", propertyHandlers.ListProperties)
		v1.GET("/properties/featured", propertyHandlers.GetFeaturedProperties)
		v1.GET("/properties/:id", propertyHandlers.GetProperty)
		v1.POST("/properties", propertyHandlers.CreateProperty)
		v1.PUT("/properties/:id", propertyHandlers.UpdateProperty)
		v1.DELETE("/properties/:id", propertyHandlers.DeleteProperty)
		v1.GET("/properties/:id/inquiries", customerHandlers.GetInquiries)

		v1.POST("/inquiries", customerHandlers.CreateInquiry)
		v1.PUT("/inquiries/:id/status", customerHandlers.UpdateInquiryStatus)

		v1.POST("/customers/activities", customerHandlers.RecordActivity)
		v1.GET("/customers/:user_id/points", customerHandlers.GetPoints)
		v1.GET("/customers/:user_id/analytics", customerHandlers.GetAnalytics)
		v1.GET("/customers/:user_id/favorites", customerHandlers.GetFavorites)
		v1.POST("/customers/:user_id/favorites/:property_id", customerHandlers.AddFavorite)
		v1.DELETE("/customers/:user_id/favorites/:property_id", customerHandlers.RemoveFavorite)
		v1.GET("/customers/:user_id/search-history", customerHandlers.GetSearchHistory)

		v1.POST("/auth/login", adminHandlers.Login)
		v1.POST("/users", adminHandlers.CreateUser)
		v1.GET("/users", adminHandlers.ListUsers)
		v1.GET("/users/:id", adminHandlers.GetUser)
		v1.PUT("/users/:id", adminHandlers.UpdateUser)
		v1.GET("/users/:id/wave-quota", adminHandlers.GetWaveQuota)
		v1.GET("/users/:id/wave-permissions", adminHandlers.ListWavePermissions)
		v1.DELETE("/users/:id/wave-permissions/:wave_id", adminHandlers.RevokeWavePermission)

		v1.POST("/waves", adminHandlers.CreateWave)
		v1.GET("/waves", adminHandlers.ListWaves)
		v1.GET("/waves/:id", adminHandlers.GetWave)
		v1.PUT("/waves/:id", adminHandlers.UpdateWave)
		v1.DELETE("/waves/:id", adminHandlers.DeleteWave)
		v1.POST("/waves/permissions", adminHandlers.GrantWavePermission)

		v1.DELETE("/admin/properties", adminHandlers.ClearAllProperties)
		v1.POST("/admin/repair-wave-balances", adminHandlers.RepairWaveBalances)
	}

	srv := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: router,
	}

	go func() {
		logger.WithField("address", srv.Addr).Info("Listing service starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	logger.Info("Server exited")
}
