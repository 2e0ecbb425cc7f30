package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lodgic-inc/hotels-engine/pkg/auth"
	"github.com/lodgic-inc/hotels-engine/pkg/config"
	"github.com/lodgic-inc/hotels-engine/pkg/countries"
	"github.com/lodgic-inc/hotels-engine/pkg/models"
	"github.com/lodgic-inc/hotels-engine/pkg/services"
)

type fakeSource struct{ rows []models.RawReservation }

func (f *fakeSource) Load(ctx context.Context) ([]models.RawReservation, error) {
	return f.rows, nil
}
func (f *fakeSource) Kind() string { return "fake" }
func (f *fakeSource) Close() error { return nil }

type memoryReservationRepo struct{ stored []models.RawReservation }

func (m *memoryReservationRepo) ReplaceAll(ctx context.Context, reservations []models.RawReservation) error {
	m.stored = reservations
	return nil
}

func (m *memoryReservationRepo) Count(ctx context.Context) (int, error) {
	return len(m.stored), nil
}

type memoryBookingRepo struct{ stored []models.Booking }

func (m *memoryBookingRepo) ReplaceAll(ctx context.Context, bookings []models.Booking, runID uuid.UUID) error {
	m.stored = bookings
	return nil
}

func (m *memoryBookingRepo) List(ctx context.Context) ([]models.Booking, error) {
	return m.stored, nil
}

type memoryActionRepo struct{ stored []models.Action }

func (m *memoryActionRepo) ReplaceAll(ctx context.Context, actions []models.Action, runID uuid.UUID) error {
	m.stored = actions
	return nil
}

func (m *memoryActionRepo) List(ctx context.Context) ([]models.Action, error) {
	return m.stored, nil
}

func testReservation(id string, day int) models.RawReservation {
	return models.RawReservation{
		ReservationID:         id,
		Hotel:                 models.CityHotel,
		LeadTime:              7,
		ArrivalYear:           2016,
		ArrivalMonth:          "July",
		ArrivalDayOfMonth:     day,
		StaysInWeekNights:     2,
		Adults:                2,
		Meal:                  models.MealBB,
		Country:               "PRT",
		MarketSegment:         "Online TA",
		DistributionChannel:   "TA/TO",
		AssignedRoomType:      "A",
		ADR:                   100,
		ReservationStatus:     models.StatusCheckOut,
		ReservationStatusDate: "2016-07-0" + string(rune('0'+day+2)),
	}
}

func testMux(t *testing.T, rebuildKey string) *http.ServeMux {
	t.Helper()

	bookings := &memoryBookingRepo{}
	actions := &memoryActionRepo{}
	src := &fakeSource{rows: []models.RawReservation{
		testReservation("C1", 1),
		testReservation("C2", 2),
	}}

	lookup, err := countries.NewLookup()
	require.NoError(t, err)
	span := models.DateSpan{Start: models.Date(2016, time.July, 1), End: models.Date(2016, time.July, 10)}

	dashboard := services.NewDashboardService(bookings, actions, span, 365, lookup, zap.NewNop())
	pipeline := services.NewPipelineService(src, &memoryReservationRepo{}, bookings, actions, dashboard, zap.NewNop())

	mux := http.NewServeMux()
	NewHealthHandler(&config.Config{Version: "test", Env: "test"}, zap.NewNop()).RegisterRoutes(mux)
	NewDashboardHandler(dashboard, zap.NewNop()).RegisterRoutes(mux)
	NewRebuildHandler(pipeline, zap.NewNop()).RegisterRoutes(mux, rebuildKey)
	return mux
}

func doRebuild(t *testing.T, mux *http.ServeMux, key string) {
	t.Helper()
	token, err := auth.IssueToken(key, "test", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/internal/rebuild", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	mux := testMux(t, "secret")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var ping PingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ping))
	assert.Equal(t, "hotels-engine", ping.Service)
	assert.Equal(t, "test", ping.Version)
}

func TestRebuildRequiresAuth(t *testing.T) {
	mux := testMux(t, "secret")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/internal/rebuild", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRebuildAndQueryOccupancy(t *testing.T) {
	mux := testMux(t, "secret")

	// Before the first run the dashboard has no data.
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/kpi/occupancy", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	doRebuild(t, mux, "secret")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/kpi/occupancy?hotel=city&granularity=day", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data []models.OccupancyRate `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data)
}

func TestDashboardRejectsBadParams(t *testing.T) {
	mux := testMux(t, "secret")
	doRebuild(t, mux, "secret")

	for _, url := range []string{
		"/api/kpi/occupancy?hotel=motel",
		"/api/kpi/occupancy?granularity=quarter",
		"/api/kpi/cancellations/by-lead-time?max_lead_time=abc",
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}

func TestCancellationsByCountryServesDisplayNames(t *testing.T) {
	mux := testMux(t, "secret")
	doRebuild(t, mux, "secret")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/kpi/cancellations/by-country", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.CancellationRateByCountry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Portugal", resp.Data[0].Country)
}

func TestAllKPIEndpointsServe(t *testing.T) {
	mux := testMux(t, "secret")
	doRebuild(t, mux, "secret")

	endpoints := []string{
		"/api/kpi/occupancy",
		"/api/kpi/occupancy/room-types",
		"/api/kpi/sales",
		"/api/kpi/revpor",
		"/api/kpi/cancellations/by-day",
		"/api/kpi/cancellations/by-country",
		"/api/kpi/cancellations/by-lead-time",
		"/api/kpi/no-shows",
		"/api/kpi/cohort-survival",
		"/api/kpi/guests/by-country",
		"/api/kpi/sales/by-country",
		"/api/kpi/families",
		"/api/kpi/segments",
		"/api/kpi/guests/by-day",
		"/api/kpi/parking/by-day",
	}
	for _, url := range endpoints {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
		assert.Equal(t, http.StatusOK, rec.Code, url)
	}
}
