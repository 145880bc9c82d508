package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/lookbook-app/lookbook/internal/stylist"
	"github.com/lookbook-app/lookbook/pkg/config"
	"github.com/lookbook-app/lookbook/pkg/logging"
	"github.com/lookbook-app/lookbook/pkg/telemetry"
)

func main() {
	viewerID := flag.Int64("viewer", 0, "profile id to seed inspirations for")
	flag.Parse()

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
	logger.Info("Starting Lookbook Seeder")

	if *viewerID <= 0 {
		logger.Fatal("A positive -viewer id is required")
	}

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	client, err := stylist.New(&cfg.Stylist)
	if err != nil {
		logger.Fatal("Failed to initialize stylist client", zap.Error(err))
	}

	count, err := client.SeedInspirations(context.Background(), *viewerID)
	if err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}

	logger.Info("Seeding complete", zap.Int64("viewer_id", *viewerID), zap.Int("new_posts", count))
}
