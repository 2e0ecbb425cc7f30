// build-tables runs the preparation pipeline once: load raw reservations
// from the configured source, enrich and expand them and replace the
// warehouse bookings and actions tables. Use it for scheduled rebuilds
// without going through the HTTP endpoint.
//
// Usage: go run ./scripts/build-tables
//
// Database connection: uses standard PG* environment variables.
package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lodgic-inc/hotels-engine/pkg/adapters/source"
	"github.com/lodgic-inc/hotels-engine/pkg/config"
	"github.com/lodgic-inc/hotels-engine/pkg/database"
	"github.com/lodgic-inc/hotels-engine/pkg/repositories"
	"github.com/lodgic-inc/hotels-engine/pkg/services"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load("build-tables")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: 5,
	})
	if err != nil {
		logger.Fatal("Failed to connect to warehouse", zap.Error(err))
	}
	defer db.Close()

	src, err := source.New(cfg.Source, db.Pool)
	if err != nil {
		logger.Fatal("Failed to create reservation source", zap.Error(err))
	}
	defer src.Close()

	pipeline := services.NewPipelineService(
		src,
		repositories.NewReservationRepository(db),
		repositories.NewBookingRepository(db),
		repositories.NewActionRepository(db),
		nil,
		logger,
	)

	result, err := pipeline.Run(ctx)
	if err != nil {
		logger.Fatal("Pipeline run failed", zap.Error(err))
	}

	logger.Info("Tables rebuilt",
		zap.String("run_id", result.RunID.String()),
		zap.Int("bookings", result.Bookings),
		zap.Int("actions", result.Actions),
		zap.Duration("duration", result.Duration))
}
