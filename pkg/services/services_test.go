package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lodgic-inc/hotels-engine/pkg/apperrors"
	"github.com/lodgic-inc/hotels-engine/pkg/countries"
	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

type fakeSource struct {
	rows []models.RawReservation
	err  error
}

func (f *fakeSource) Load(ctx context.Context) ([]models.RawReservation, error) {
	return f.rows, f.err
}
func (f *fakeSource) Kind() string { return "fake" }
func (f *fakeSource) Close() error { return nil }

type fakeReservationRepo struct {
	stored []models.RawReservation
}

func (f *fakeReservationRepo) ReplaceAll(ctx context.Context, reservations []models.RawReservation) error {
	f.stored = reservations
	return nil
}

func (f *fakeReservationRepo) Count(ctx context.Context) (int, error) {
	return len(f.stored), nil
}

type fakeBookingRepo struct {
	stored []models.Booking
	runID  uuid.UUID
	err    error
}

func (f *fakeBookingRepo) ReplaceAll(ctx context.Context, bookings []models.Booking, runID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.stored = bookings
	f.runID = runID
	return nil
}

func (f *fakeBookingRepo) List(ctx context.Context) ([]models.Booking, error) {
	return f.stored, f.err
}

type fakeActionRepo struct {
	stored []models.Action
	runID  uuid.UUID
}

func (f *fakeActionRepo) ReplaceAll(ctx context.Context, actions []models.Action, runID uuid.UUID) error {
	f.stored = actions
	f.runID = runID
	return nil
}

func (f *fakeActionRepo) List(ctx context.Context) ([]models.Action, error) {
	return f.stored, nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate() { c.calls++ }

func rawReservation(id string, day int) models.RawReservation {
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

func TestPipelineServiceRun(t *testing.T) {
	src := &fakeSource{rows: []models.RawReservation{rawReservation("C1", 1)}}
	bookings := &fakeBookingRepo{}
	actions := &fakeActionRepo{}
	inv := &countingInvalidator{}

	svc := NewPipelineService(src, &fakeReservationRepo{}, bookings, actions, inv, zap.NewNop())
	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Reservations)
	assert.Equal(t, 1, result.Bookings)
	assert.Equal(t, 3, result.Actions) // 2 nights -> arrival, stay, departure
	assert.NotEqual(t, uuid.Nil, result.RunID)

	assert.Len(t, bookings.stored, 1)
	assert.Len(t, actions.stored, 3)
	assert.Equal(t, result.RunID, bookings.runID)
	assert.Equal(t, result.RunID, actions.runID)
	assert.Equal(t, 1, inv.calls)
}

func TestPipelineServiceAbortsOnMalformedRow(t *testing.T) {
	bad := rawReservation("C1", 1)
	bad.ReservationStatusDate = "garbage"
	src := &fakeSource{rows: []models.RawReservation{bad}}
	reservations := &fakeReservationRepo{}
	bookings := &fakeBookingRepo{}
	inv := &countingInvalidator{}

	svc := NewPipelineService(src, reservations, bookings, &fakeActionRepo{}, inv, zap.NewNop())
	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, reservations.stored)
	assert.Empty(t, bookings.stored)
	assert.Zero(t, inv.calls)
}

func TestPipelineServiceSourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	svc := NewPipelineService(src, &fakeReservationRepo{}, &fakeBookingRepo{}, &fakeActionRepo{}, nil, zap.NewNop())
	_, err := svc.Run(context.Background())
	assert.Error(t, err)
}

func newDashboard(t *testing.T, bookings *fakeBookingRepo, actions *fakeActionRepo) DashboardService {
	t.Helper()
	lookup, err := countries.NewLookup()
	require.NoError(t, err)
	span := models.DateSpan{Start: models.Date(2016, time.July, 1), End: models.Date(2016, time.July, 10)}
	return NewDashboardService(bookings, actions, span, 365, lookup, zap.NewNop())
}

func preparedRepos(t *testing.T) (*fakeBookingRepo, *fakeActionRepo) {
	t.Helper()
	src := &fakeSource{rows: []models.RawReservation{
		rawReservation("C1", 1),
		rawReservation("C2", 2),
	}}
	bookings := &fakeBookingRepo{}
	actions := &fakeActionRepo{}
	svc := NewPipelineService(src, &fakeReservationRepo{}, bookings, actions, nil, zap.NewNop())
	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	return bookings, actions
}

func TestPipelineServicePersistsRawReservations(t *testing.T) {
	// One row drops out of the bookings table (no lodgers), but the raw
	// batch still lands wholesale so derived rows always have a parent
	// reservation, whatever source the run loaded from.
	empty := rawReservation("C2", 2)
	empty.Adults = 0
	src := &fakeSource{rows: []models.RawReservation{rawReservation("C1", 1), empty}}
	reservations := &fakeReservationRepo{}
	bookings := &fakeBookingRepo{}

	svc := NewPipelineService(src, reservations, bookings, &fakeActionRepo{}, nil, zap.NewNop())
	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Reservations)
	assert.Len(t, reservations.stored, 2)
	assert.Len(t, bookings.stored, 1)
}

func TestDashboardOccupancyRates(t *testing.T) {
	bookings, actions := preparedRepos(t)
	dash := newDashboard(t, bookings, actions)

	rates, err := dash.OccupancyRates(context.Background(), models.HotelUnknown, models.GranularityDay)
	require.NoError(t, err)
	require.NotEmpty(t, rates)

	// Jul 2: both stays occupy a room, which is also the historical max.
	var jul2 models.OccupancyRate
	for _, r := range rates {
		if r.Date.Equal(models.Date(2016, time.July, 2)) {
			jul2 = r
		}
	}
	assert.Equal(t, 2, jul2.NRoomsOccupied)
	assert.InDelta(t, 1.0, jul2.Rate, 1e-9)
}

func TestDashboardEmptyWarehouse(t *testing.T) {
	dash := newDashboard(t, &fakeBookingRepo{}, &fakeActionRepo{})
	_, err := dash.OccupancyRates(context.Background(), models.HotelUnknown, models.GranularityDay)
	assert.ErrorIs(t, err, apperrors.ErrEmptyTable)
}

func TestDashboardCountryRenamingIsPostHoc(t *testing.T) {
	bookings, actions := preparedRepos(t)
	dash := newDashboard(t, bookings, actions)

	out, err := dash.CancellationsByCountry(context.Background(), models.CityHotel)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Portugal", out[0].Country)
	assert.Equal(t, 2, out[0].NReservations)
}

func TestDashboardHotelFilter(t *testing.T) {
	bookings, actions := preparedRepos(t)
	dash := newDashboard(t, bookings, actions)

	out, err := dash.GuestsByDay(context.Background(), models.ResortHotel, models.GranularityDay)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = dash.GuestsByDay(context.Background(), models.CityHotel, models.GranularityDay)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestDashboardInvalidateRebuildsSnapshot(t *testing.T) {
	bookings, actions := preparedRepos(t)
	dash := newDashboard(t, bookings, actions)

	first, err := dash.NoShows(context.Background(), models.HotelUnknown, models.GranularityDay)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Empty the warehouse; the cached snapshot still serves until
	// invalidated.
	bookings.stored = nil
	again, err := dash.NoShows(context.Background(), models.HotelUnknown, models.GranularityDay)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	dash.Invalidate()
	_, err = dash.NoShows(context.Background(), models.HotelUnknown, models.GranularityDay)
	assert.ErrorIs(t, err, apperrors.ErrEmptyTable)
}

func TestDashboardLeadTimeBoundClamped(t *testing.T) {
	bookings, actions := preparedRepos(t)
	dash := newDashboard(t, bookings, actions)

	out, err := dash.CancellationsByLeadTime(context.Background(), models.HotelUnknown, 0)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, 7, out[0].LeadTime)
}
