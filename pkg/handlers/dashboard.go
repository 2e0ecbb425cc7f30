package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/lodgic-inc/hotels-engine/pkg/apperrors"
	"github.com/lodgic-inc/hotels-engine/pkg/models"
	"github.com/lodgic-inc/hotels-engine/pkg/services"
)

// DashboardHandler serves the KPI tables consumed by the dashboard.
type DashboardHandler struct {
	dashboard services.DashboardService
	logger    *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, logger: logger}
}

// RegisterRoutes registers the KPI endpoints on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/kpi/occupancy", h.Occupancy)
	mux.HandleFunc("GET /api/kpi/occupancy/room-types", h.RoomTypeOccupancy)
	mux.HandleFunc("GET /api/kpi/sales", h.Sales)
	mux.HandleFunc("GET /api/kpi/revpor", h.RevPOR)
	mux.HandleFunc("GET /api/kpi/cancellations/by-day", h.CancellationsByDay)
	mux.HandleFunc("GET /api/kpi/cancellations/by-country", h.CancellationsByCountry)
	mux.HandleFunc("GET /api/kpi/cancellations/by-lead-time", h.CancellationsByLeadTime)
	mux.HandleFunc("GET /api/kpi/no-shows", h.NoShows)
	mux.HandleFunc("GET /api/kpi/cohort-survival", h.CohortSurvival)
	mux.HandleFunc("GET /api/kpi/guests/by-country", h.GuestsByCountry)
	mux.HandleFunc("GET /api/kpi/sales/by-country", h.SalesByCountry)
	mux.HandleFunc("GET /api/kpi/families", h.FamilyCounts)
	mux.HandleFunc("GET /api/kpi/segments", h.SegmentChannel)
	mux.HandleFunc("GET /api/kpi/guests/by-day", h.GuestsByDay)
	mux.HandleFunc("GET /api/kpi/parking/by-day", h.ParkingByDay)
}

// serve runs one KPI query and writes the result. Empty tables are served as
// an explicit error so the dashboard can distinguish "no data yet" from an
// all-zero series.
func serve[T any](h *DashboardHandler, w http.ResponseWriter, r *http.Request,
	query func(ctx context.Context, p queryParams) ([]T, error)) {

	params, err := parseQueryParams(r)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_params", err.Error())
		return
	}

	rows, err := query(r.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmptyTable) {
			_ = ErrorResponse(w, http.StatusServiceUnavailable, "no_data", "pipeline has not run yet")
			return
		}
		if h.logger != nil {
			h.logger.Error("KPI query failed", zap.String("path", r.URL.Path), zap.Error(err))
		}
		_ = ErrorResponse(w, http.StatusInternalServerError, "query_failed", "failed to compute table")
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]any{"data": rows})
}

func (h *DashboardHandler) Occupancy(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.OccupancyRate, error) {
		return h.dashboard.OccupancyRates(ctx, p.hotel, p.granularity)
	})
}

func (h *DashboardHandler) RoomTypeOccupancy(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.RoomTypeOccupancy, error) {
		return h.dashboard.RoomTypeOccupancy(ctx, p.hotel, p.granularity)
	})
}

func (h *DashboardHandler) Sales(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.SalesByDay, error) {
		return h.dashboard.Sales(ctx, p.hotel, p.granularity)
	})
}

func (h *DashboardHandler) RevPOR(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.RevPOR, error) {
		return h.dashboard.RevPOR(ctx, p.hotel, p.granularity)
	})
}

func (h *DashboardHandler) CancellationsByDay(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.CancellationRateByDay, error) {
		return h.dashboard.CancellationsByDay(ctx, p.hotel, p.granularity)
	})
}

func (h *DashboardHandler) CancellationsByCountry(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.CancellationRateByCountry, error) {
		return h.dashboard.CancellationsByCountry(ctx, p.hotel)
	})
}

func (h *DashboardHandler) CancellationsByLeadTime(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.LeadTimeCancellation, error) {
		return h.dashboard.CancellationsByLeadTime(ctx, p.hotel, p.maxLeadTime)
	})
}

func (h *DashboardHandler) NoShows(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.NoShowCount, error) {
		return h.dashboard.NoShows(ctx, p.hotel, p.granularity)
	})
}

func (h *DashboardHandler) CohortSurvival(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.CohortSurvival, error) {
		return h.dashboard.CohortSurvival(ctx, p.hotel)
	})
}

func (h *DashboardHandler) GuestsByCountry(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.CategoryVolume, error) {
		return h.dashboard.GuestsByCountry(ctx, p.hotel, p.granularity)
	})
}

func (h *DashboardHandler) SalesByCountry(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.CategoryVolume, error) {
		return h.dashboard.SalesByCountry(ctx, p.hotel, p.granularity)
	})
}

func (h *DashboardHandler) FamilyCounts(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.FamilyCount, error) {
		return h.dashboard.FamilyCounts(ctx, p.hotel, p.granularity)
	})
}

func (h *DashboardHandler) SegmentChannel(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.SegmentChannelCount, error) {
		return h.dashboard.SegmentChannel(ctx, p.hotel)
	})
}

func (h *DashboardHandler) GuestsByDay(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.GuestCount, error) {
		return h.dashboard.GuestsByDay(ctx, p.hotel, p.granularity)
	})
}

func (h *DashboardHandler) ParkingByDay(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context, p queryParams) ([]models.ParkingCount, error) {
		return h.dashboard.ParkingByDay(ctx, p.hotel, p.granularity)
	})
}
