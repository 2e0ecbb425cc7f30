package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/lodgic-inc/hotels-engine/pkg/aggregations"
	"github.com/lodgic-inc/hotels-engine/pkg/apperrors"
	"github.com/lodgic-inc/hotels-engine/pkg/countries"
	"github.com/lodgic-inc/hotels-engine/pkg/models"
	"github.com/lodgic-inc/hotels-engine/pkg/repositories"
)

// DashboardService serves the KPI tables the dashboard renders. Bookings,
// actions and the daily room usage are cached in memory and rebuilt lazily
// after each pipeline run invalidates the snapshot.
type DashboardService interface {
	Invalidator

	OccupancyRates(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.OccupancyRate, error)
	RoomTypeOccupancy(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.RoomTypeOccupancy, error)
	Sales(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.SalesByDay, error)
	RevPOR(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.RevPOR, error)
	CancellationsByDay(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.CancellationRateByDay, error)
	CancellationsByCountry(ctx context.Context, hotel models.Hotel) ([]models.CancellationRateByCountry, error)
	CancellationsByLeadTime(ctx context.Context, hotel models.Hotel, maxLeadTime int) ([]models.LeadTimeCancellation, error)
	NoShows(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.NoShowCount, error)
	CohortSurvival(ctx context.Context, hotel models.Hotel) ([]models.CohortSurvival, error)
	GuestsByCountry(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.CategoryVolume, error)
	SalesByCountry(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.CategoryVolume, error)
	FamilyCounts(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.FamilyCount, error)
	SegmentChannel(ctx context.Context, hotel models.Hotel) ([]models.SegmentChannelCount, error)
	GuestsByDay(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.GuestCount, error)
	ParkingByDay(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.ParkingCount, error)
}

type snapshot struct {
	bookings []models.Booking
	actions  []models.Action
	usage    []models.RoomUsage
	counts   []models.RoomCount
}

type dashboardService struct {
	bookings    repositories.BookingRepository
	actions     repositories.ActionRepository
	span        models.DateSpan
	maxLeadTime int
	lookup      *countries.Lookup
	logger      *zap.Logger

	mu   sync.Mutex
	snap *snapshot
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(
	bookings repositories.BookingRepository,
	actions repositories.ActionRepository,
	span models.DateSpan,
	maxLeadTime int,
	lookup *countries.Lookup,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		bookings:    bookings,
		actions:     actions,
		span:        span,
		maxLeadTime: maxLeadTime,
		lookup:      lookup,
		logger:      logger,
	}
}

// Invalidate drops the cached snapshot; the next query reloads from the
// warehouse.
func (s *dashboardService) Invalidate() {
	s.mu.Lock()
	s.snap = nil
	s.mu.Unlock()
	s.logger.Info("Dashboard snapshot invalidated")
}

func (s *dashboardService) snapshot(ctx context.Context) (*snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap != nil {
		return s.snap, nil
	}

	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading bookings: %w", err)
	}
	if len(bookings) == 0 {
		return nil, fmt.Errorf("no bookings in warehouse: %w", apperrors.ErrEmptyTable)
	}
	actions, err := s.actions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading actions: %w", err)
	}

	usage := aggregations.BuildRoomUsage(bookings, actions, s.span)
	counts := aggregations.CountRooms(usage)

	s.snap = &snapshot{bookings: bookings, actions: actions, usage: usage, counts: counts}
	s.logger.Info("Dashboard snapshot rebuilt",
		zap.Int("bookings", len(bookings)),
		zap.Int("actions", len(actions)))
	return s.snap, nil
}

// filterByHotel narrows a KPI table to one hotel. HotelUnknown means no
// filter.
func filterByHotel[T any](rows []T, hotel models.Hotel, of func(*T) models.Hotel) []T {
	if hotel == models.HotelUnknown {
		return rows
	}
	out := make([]T, 0, len(rows))
	for i := range rows {
		if of(&rows[i]) == hotel {
			out = append(out, rows[i])
		}
	}
	return out
}

func (s *dashboardService) OccupancyRates(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.OccupancyRate, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := aggregations.ComputeOccupancyRate(snap.usage, snap.counts, g)
	if err != nil {
		return nil, err
	}
	return filterByHotel(rates, hotel, func(r *models.OccupancyRate) models.Hotel { return r.Hotel }), nil
}

func (s *dashboardService) RoomTypeOccupancy(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.RoomTypeOccupancy, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := aggregations.ComputeRoomTypeOccupancy(snap.usage, snap.counts, g)
	if err != nil {
		return nil, err
	}
	return filterByHotel(rates, hotel, func(r *models.RoomTypeOccupancy) models.Hotel { return r.Hotel }), nil
}

func (s *dashboardService) Sales(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.SalesByDay, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	sales := aggregations.ComputeSalesByDay(snap.bookings, snap.actions, g)
	return filterByHotel(sales, hotel, func(r *models.SalesByDay) models.Hotel { return r.Hotel }), nil
}

func (s *dashboardService) RevPOR(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.RevPOR, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	daily := aggregations.ComputeSalesByDay(snap.bookings, snap.actions, models.GranularityDay)
	out, degenerate := aggregations.ComputeRevPOR(daily, snap.usage, g)
	if len(degenerate) > 0 {
		s.logger.Warn("Skipped buckets with revenue but no occupancy",
			zap.Int("count", len(degenerate)))
	}
	return filterByHotel(out, hotel, func(r *models.RevPOR) models.Hotel { return r.Hotel }), nil
}

func (s *dashboardService) CancellationsByDay(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.CancellationRateByDay, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := aggregations.CancellationRatesByDay(snap.bookings, s.span, g)
	return filterByHotel(out, hotel, func(r *models.CancellationRateByDay) models.Hotel { return r.Hotel }), nil
}

// CancellationsByCountry renames country codes to display names after
// aggregation, so grouping always happens on the stored codes.
func (s *dashboardService) CancellationsByCountry(ctx context.Context, hotel models.Hotel) ([]models.CancellationRateByCountry, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := aggregations.CancellationRatesByCountry(snap.bookings, s.span)
	for i := range out {
		out[i].Country = s.lookup.Name(out[i].Country)
	}
	return filterByHotel(out, hotel, func(r *models.CancellationRateByCountry) models.Hotel { return r.Hotel }), nil
}

func (s *dashboardService) CancellationsByLeadTime(ctx context.Context, hotel models.Hotel, maxLeadTime int) ([]models.LeadTimeCancellation, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if maxLeadTime <= 0 || maxLeadTime > s.maxLeadTime {
		maxLeadTime = s.maxLeadTime
	}
	out := aggregations.CancellationRatesByLeadTime(snap.bookings, maxLeadTime)
	return filterByHotel(out, hotel, func(r *models.LeadTimeCancellation) models.Hotel { return r.Hotel }), nil
}

func (s *dashboardService) NoShows(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.NoShowCount, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := aggregations.NoShowCounts(snap.bookings, s.span, g)
	return filterByHotel(out, hotel, func(r *models.NoShowCount) models.Hotel { return r.Hotel }), nil
}

func (s *dashboardService) CohortSurvival(ctx context.Context, hotel models.Hotel) ([]models.CohortSurvival, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := aggregations.CohortSurvival(snap.bookings)
	return filterByHotel(out, hotel, func(r *models.CohortSurvival) models.Hotel { return r.Hotel }), nil
}

func (s *dashboardService) GuestsByCountry(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.CategoryVolume, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := aggregations.GuestsByCountry(snap.bookings, snap.actions, g)
	s.renameCategories(out)
	return filterByHotel(out, hotel, func(r *models.CategoryVolume) models.Hotel { return r.Hotel }), nil
}

func (s *dashboardService) SalesByCountry(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.CategoryVolume, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := aggregations.SalesByCountry(snap.bookings, snap.actions, g)
	s.renameCategories(out)
	return filterByHotel(out, hotel, func(r *models.CategoryVolume) models.Hotel { return r.Hotel }), nil
}

func (s *dashboardService) renameCategories(rows []models.CategoryVolume) {
	for i := range rows {
		if rows[i].Category == "other" {
			continue
		}
		rows[i].Category = s.lookup.Name(rows[i].Category)
	}
}

func (s *dashboardService) FamilyCounts(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.FamilyCount, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := aggregations.FamilyCounts(snap.bookings, snap.actions, g)
	return filterByHotel(out, hotel, func(r *models.FamilyCount) models.Hotel { return r.Hotel }), nil
}

func (s *dashboardService) SegmentChannel(ctx context.Context, hotel models.Hotel) ([]models.SegmentChannelCount, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := aggregations.SegmentChannelCrossTab(snap.bookings)
	return filterByHotel(out, hotel, func(r *models.SegmentChannelCount) models.Hotel { return r.Hotel }), nil
}

func (s *dashboardService) GuestsByDay(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.GuestCount, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := aggregations.GuestsByDay(snap.bookings, snap.actions, g)
	return filterByHotel(out, hotel, func(r *models.GuestCount) models.Hotel { return r.Hotel }), nil
}

func (s *dashboardService) ParkingByDay(ctx context.Context, hotel models.Hotel, g models.TimeGranularity) ([]models.ParkingCount, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := aggregations.ParkingByDay(snap.bookings, snap.actions, g)
	return filterByHotel(out, hotel, func(r *models.ParkingCount) models.Hotel { return r.Hotel }), nil
}
