package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/lodgic-inc/hotels-engine/pkg/adapters/source"
	"github.com/lodgic-inc/hotels-engine/pkg/config"
	"github.com/lodgic-inc/hotels-engine/pkg/countries"
	"github.com/lodgic-inc/hotels-engine/pkg/database"
	"github.com/lodgic-inc/hotels-engine/pkg/handlers"
	"github.com/lodgic-inc/hotels-engine/pkg/middleware"
	"github.com/lodgic-inc/hotels-engine/pkg/repositories"
	"github.com/lodgic-inc/hotels-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.RebuildKey == "" {
		log.Fatal("REBUILD_KEY must be set")
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("source", cfg.Source.Kind),
		zap.String("database", cfg.Database.Database))

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to warehouse", zap.Error(err))
	}
	defer db.Close()

	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, "migrations", logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	sqlDB.Close()

	span, err := cfg.Pipeline.Span()
	if err != nil {
		logger.Fatal("Invalid pipeline span", zap.Error(err))
	}
	lookup, err := countries.NewLookup()
	if err != nil {
		logger.Fatal("Failed to load country table", zap.Error(err))
	}

	src, err := source.New(cfg.Source, db.Pool)
	if err != nil {
		logger.Fatal("Failed to create reservation source", zap.Error(err))
	}
	defer src.Close()

	reservationRepo := repositories.NewReservationRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	actionRepo := repositories.NewActionRepository(db)

	dashboard := services.NewDashboardService(
		bookingRepo, actionRepo, span, cfg.Pipeline.MaxLeadTime, lookup, logger)
	pipeline := services.NewPipelineService(src, reservationRepo, bookingRepo, actionRepo, dashboard, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewDashboardHandler(dashboard, logger).RegisterRoutes(mux)
	handlers.NewRebuildHandler(pipeline, logger).RegisterRoutes(mux, cfg.RebuildKey)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting hotels-engine", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
