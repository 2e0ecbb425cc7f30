// ingest-reservations loads the raw hotel-bookings CSV into the warehouse
// reservations table, assigning hotel-prefixed reservation ids in file
// order.
//
// Usage: go run ./scripts/ingest-reservations [-csv <path-or-url>]
//
// Database connection: uses standard PG* environment variables.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/lodgic-inc/hotels-engine/pkg/adapters/source"
	"github.com/lodgic-inc/hotels-engine/pkg/config"
	"github.com/lodgic-inc/hotels-engine/pkg/database"
	"github.com/lodgic-inc/hotels-engine/pkg/repositories"
)

// defaultCSVURL is the public hotel-bookings dataset.
const defaultCSVURL = "https://raw.githubusercontent.com/rfordatascience/tidytuesday/master/data/2020/2020-02-11/hotels.csv"

func main() {
	csvPath := flag.String("csv", defaultCSVURL, "CSV file path or URL")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load("ingest")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: 5,
	})
	if err != nil {
		logger.Fatal("Failed to connect to warehouse", zap.Error(err))
	}
	defer db.Close()

	src := source.NewCSVSource(*csvPath)
	logger.Info("Loading reservations", zap.String("csv", *csvPath))

	reservations, err := src.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load CSV", zap.Error(err))
	}
	logger.Info("Parsed reservations", zap.Int("count", len(reservations)))

	repo := repositories.NewReservationRepository(db)
	if err := repo.ReplaceAll(ctx, reservations); err != nil {
		logger.Fatal("Failed to store reservations", zap.Error(err))
	}

	logger.Info("Ingest complete", zap.Int("reservations", len(reservations)))
}
