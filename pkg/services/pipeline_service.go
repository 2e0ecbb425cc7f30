// Package services holds the business logic between the HTTP handlers and
// the warehouse: the preparation pipeline and the dashboard KPI queries.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lodgic-inc/hotels-engine/pkg/adapters/source"
	"github.com/lodgic-inc/hotels-engine/pkg/pipeline"
	"github.com/lodgic-inc/hotels-engine/pkg/repositories"
)

// RunResult summarizes one pipeline run.
type RunResult struct {
	RunID        uuid.UUID     `json:"run_id"`
	Reservations int           `json:"reservations"`
	Bookings     int           `json:"bookings"`
	Actions      int           `json:"actions"`
	Duration     time.Duration `json:"duration"`
}

// Invalidator is notified after a successful run so cached derived tables
// are rebuilt from the fresh data.
type Invalidator interface {
	Invalidate()
}

// PipelineService runs the full preparation pipeline: load raw reservations,
// enrich them into bookings, expand completed stays into the occupancy
// timeline and replace the warehouse tables.
type PipelineService interface {
	Run(ctx context.Context) (*RunResult, error)
}

type pipelineService struct {
	src          source.ReservationSource
	reservations repositories.ReservationRepository
	bookings     repositories.BookingRepository
	actions      repositories.ActionRepository
	invalidator  Invalidator
	logger       *zap.Logger
}

// NewPipelineService creates a new pipeline service. The invalidator may be
// nil when nothing caches derived tables.
func NewPipelineService(
	src source.ReservationSource,
	reservations repositories.ReservationRepository,
	bookings repositories.BookingRepository,
	actions repositories.ActionRepository,
	invalidator Invalidator,
	logger *zap.Logger,
) PipelineService {
	return &pipelineService{
		src:          src,
		reservations: reservations,
		bookings:     bookings,
		actions:      actions,
		invalidator:  invalidator,
		logger:       logger,
	}
}

func (s *pipelineService) Run(ctx context.Context) (*RunResult, error) {
	runID := uuid.New()
	start := time.Now()
	logger := s.logger.With(zap.String("run_id", runID.String()), zap.String("source", s.src.Kind()))

	logger.Info("Starting pipeline run")

	raw, err := s.src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading reservations: %w", err)
	}
	logger.Info("Loaded reservations", zap.Int("count", len(raw)))

	bookings, err := pipeline.Enrich(raw)
	if err != nil {
		return nil, fmt.Errorf("enriching reservations: %w", err)
	}
	if err := pipeline.ValidateBookings(bookings); err != nil {
		return nil, fmt.Errorf("validating bookings: %w", err)
	}
	if dropped := len(raw) - len(bookings); dropped > 0 {
		logger.Info("Dropped empty reservations", zap.Int("count", dropped))
	}

	actions := pipeline.Expand(bookings)
	if err := pipeline.ValidateActions(bookings, actions); err != nil {
		return nil, fmt.Errorf("validating actions: %w", err)
	}

	// Bookings and actions reference reservations, so the raw batch lands
	// first. Sources other than the warehouse itself never populate the
	// table otherwise.
	if err := s.reservations.ReplaceAll(ctx, raw); err != nil {
		return nil, fmt.Errorf("persisting reservations: %w", err)
	}
	if err := s.bookings.ReplaceAll(ctx, bookings, runID); err != nil {
		return nil, fmt.Errorf("persisting bookings: %w", err)
	}
	if err := s.actions.ReplaceAll(ctx, actions, runID); err != nil {
		return nil, fmt.Errorf("persisting actions: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}

	result := &RunResult{
		RunID:        runID,
		Reservations: len(raw),
		Bookings:     len(bookings),
		Actions:      len(actions),
		Duration:     time.Since(start),
	}
	logger.Info("Pipeline run complete",
		zap.Int("bookings", result.Bookings),
		zap.Int("actions", result.Actions),
		zap.Duration("duration", result.Duration))
	return result, nil
}
