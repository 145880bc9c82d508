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
	"go.uber.org/zap"

	"github.com/lookbook-app/lookbook/internal/api"
	"github.com/lookbook-app/lookbook/internal/cache"
	"github.com/lookbook-app/lookbook/internal/db"
	"github.com/lookbook-app/lookbook/internal/feed"
	"github.com/lookbook-app/lookbook/internal/stylist"
	"github.com/lookbook-app/lookbook/pkg/config"
	"github.com/lookbook-app/lookbook/pkg/logging"
	"github.com/lookbook-app/lookbook/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Lookbook API Server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Initialize database
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// Initialize Redis cache (optional)
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Initialize stylist client
	stylistClient, err := stylist.New(&cfg.Stylist)
	if err != nil {
		logger.Fatal("Failed to initialize stylist client", zap.Error(err))
	}

	// Wire the feed engine
	repo := db.NewRepository(database.DB)
	posts := db.NewPostRepository(repo)
	profiles := db.NewProfileRepository(repo)
	styles := db.NewStyleTagRepository(repo)
	wardrobe := db.NewWardrobeRepository(repo)
	interactions := db.NewInteractionRepository(repo)

	assembler := feed.NewAssembler(posts, profiles, styles, wardrobe, interactions, redisCache, &cfg.Feed)
	sessions := feed.NewSessionManager(assembler, interactions, stylistClient)

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	router := api.NewRouter(sessions)
	router.SetupRoutes(engine)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Drain in-flight like/save writes before closing the database
	sessions.Wait()

	logger.Info("Server exited")
}
