package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

func checkedOutReservation(id string) models.RawReservation {
	return models.RawReservation{
		ReservationID:         id,
		Hotel:                 models.CityHotel,
		LeadTime:              30,
		ArrivalYear:           2016,
		ArrivalMonth:          "July",
		ArrivalDayOfMonth:     1,
		StaysInWeekendNights:  1,
		StaysInWeekNights:     2,
		Adults:                2,
		Meal:                  models.MealBB,
		Country:               "PRT",
		AssignedRoomType:      "A",
		ADR:                   100,
		ReservationStatus:     models.StatusCheckOut,
		ReservationStatusDate: "2016-07-04",
	}
}

func TestEnrichCompletedStay(t *testing.T) {
	raw := checkedOutReservation("C1")

	bookings, err := Enrich([]models.RawReservation{raw})
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	b := bookings[0]
	assert.Equal(t, 2, b.NLodgers)
	assert.Equal(t, models.Date(2016, time.July, 1), b.ArrivalDate)
	assert.Equal(t, 3, b.NNights)
	assert.Equal(t, models.Date(2016, time.July, 4), b.DepartureDate)
	assert.Equal(t, 300.0, b.TotalTransaction)
	assert.False(t, b.IsLastMinuteCancellation)

	require.NotNil(t, b.ActualDepartureDate)
	assert.Equal(t, models.Date(2016, time.July, 4), *b.ActualDepartureDate)
	require.NotNil(t, b.NStayActual)
	assert.Equal(t, 3, *b.NStayActual)
	require.NotNil(t, b.IsEarlyDeparture)
	assert.False(t, *b.IsEarlyDeparture)

	assert.True(t, b.Breakfast)
	assert.False(t, b.Lunch)
	assert.False(t, b.Dinner)
}

func TestEnrichEarlyDeparture(t *testing.T) {
	raw := checkedOutReservation("C2")
	raw.ReservationStatusDate = "2016-07-03"

	bookings, err := Enrich([]models.RawReservation{raw})
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	b := bookings[0]
	assert.Equal(t, models.Date(2016, time.July, 4), b.DepartureDate)
	require.NotNil(t, b.NStayActual)
	assert.Equal(t, 2, *b.NStayActual)
	require.NotNil(t, b.IsEarlyDeparture)
	assert.True(t, *b.IsEarlyDeparture)
}

func TestEnrichLastMinuteCancellation(t *testing.T) {
	raw := checkedOutReservation("C3")
	raw.IsCanceled = true
	raw.ReservationStatus = models.StatusCanceled
	raw.ReservationStatusDate = "2016-07-01"

	bookings, err := Enrich([]models.RawReservation{raw})
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	b := bookings[0]
	assert.True(t, b.IsLastMinuteCancellation)
	assert.Nil(t, b.ActualDepartureDate)
	assert.Nil(t, b.NStayActual)
	assert.Nil(t, b.IsEarlyDeparture)

	// Cancelled a week before arrival: not last minute.
	raw.ReservationStatusDate = "2016-06-24"
	bookings, err = Enrich([]models.RawReservation{raw})
	require.NoError(t, err)
	assert.False(t, bookings[0].IsLastMinuteCancellation)
}

func TestEnrichDropsZeroLodgerRows(t *testing.T) {
	empty := checkedOutReservation("C4")
	empty.Adults, empty.Children, empty.Babies = 0, 0, 0

	bookings, err := Enrich([]models.RawReservation{empty, checkedOutReservation("C5")})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "C5", bookings[0].ReservationID)
}

func TestEnrichRejectsImpossibleArrivalDate(t *testing.T) {
	raw := checkedOutReservation("C6")
	raw.ArrivalMonth = "February"
	raw.ArrivalDayOfMonth = 30

	_, err := Enrich([]models.RawReservation{raw, checkedOutReservation("C7")})
	require.Error(t, err)

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 0, rowErr.Row)
	assert.Equal(t, "C6", rowErr.ReservationID)
	assert.Equal(t, "arrival_date", rowErr.Field)
}

func TestEnrichRejectsMalformedStatusDate(t *testing.T) {
	raw := checkedOutReservation("C8")
	raw.ReservationStatusDate = "04/07/2016"

	_, err := Enrich([]models.RawReservation{raw})
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, "reservation_status_date", rowErr.Field)
}

func TestEnrichRejectsDepartureBeforeArrival(t *testing.T) {
	raw := checkedOutReservation("C9")
	raw.ReservationStatusDate = "2016-06-28"

	_, err := Enrich([]models.RawReservation{raw})
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, "actual_departure_date", rowErr.Field)
}

func TestEnrichIsDeterministic(t *testing.T) {
	raw := []models.RawReservation{checkedOutReservation("C1"), checkedOutReservation("C2")}

	first, err := Enrich(raw)
	require.NoError(t, err)
	second, err := Enrich(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExpandCompletedStay(t *testing.T) {
	bookings, err := Enrich([]models.RawReservation{checkedOutReservation("C1")})
	require.NoError(t, err)

	actions := Expand(bookings)
	require.Len(t, actions, 4)

	assert.Equal(t, models.ActionArrival, actions[0].Action)
	assert.Equal(t, models.Date(2016, time.July, 1), actions[0].Date)
	assert.Equal(t, models.ActionStay, actions[1].Action)
	assert.Equal(t, models.ActionStay, actions[2].Action)
	assert.Equal(t, models.ActionDeparture, actions[3].Action)
	assert.Equal(t, models.Date(2016, time.July, 4), actions[3].Date)

	for i := 1; i < len(actions); i++ {
		assert.True(t, actions[i-1].Date.Before(actions[i].Date))
	}
}

func TestExpandSkipsCancelledAndZeroStay(t *testing.T) {
	cancelled := checkedOutReservation("C10")
	cancelled.IsCanceled = true
	cancelled.ReservationStatus = models.StatusCanceled
	cancelled.ReservationStatusDate = "2016-06-01"

	sameDay := checkedOutReservation("C11")
	sameDay.ReservationStatusDate = "2016-07-01"

	bookings, err := Enrich([]models.RawReservation{cancelled, sameDay})
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	require.NotNil(t, bookings[1].NStayActual)
	assert.Equal(t, 0, *bookings[1].NStayActual)

	assert.Empty(t, Expand(bookings))
}

func TestExpandSingleNightStay(t *testing.T) {
	raw := checkedOutReservation("C12")
	raw.StaysInWeekendNights = 0
	raw.StaysInWeekNights = 1
	raw.ReservationStatusDate = "2016-07-02"

	bookings, err := Enrich([]models.RawReservation{raw})
	require.NoError(t, err)

	actions := Expand(bookings)
	require.Len(t, actions, 2)
	assert.Equal(t, models.ActionArrival, actions[0].Action)
	assert.Equal(t, models.ActionDeparture, actions[1].Action)
}

func TestValidateBookings(t *testing.T) {
	bookings, err := Enrich([]models.RawReservation{checkedOutReservation("C1")})
	require.NoError(t, err)
	require.NoError(t, ValidateBookings(bookings))

	broken := bookings[0]
	broken.DepartureDate = broken.DepartureDate.AddDate(0, 0, 1)
	assert.Error(t, ValidateBookings([]models.Booking{broken}))

	noActual := bookings[0]
	noActual.ActualDepartureDate = nil
	assert.Error(t, ValidateBookings([]models.Booking{noActual}))
}

func TestValidateActions(t *testing.T) {
	bookings, err := Enrich([]models.RawReservation{checkedOutReservation("C1"), checkedOutReservation("C2")})
	require.NoError(t, err)
	actions := Expand(bookings)
	require.NoError(t, ValidateActions(bookings, actions))

	require.Error(t, ValidateActions(bookings, actions[1:]))

	extra := append([]models.Action{}, actions...)
	extra = append(extra, models.Action{ReservationID: "ghost", Date: models.Date(2016, time.July, 1), Action: models.ActionStay})
	require.Error(t, ValidateActions(bookings, extra))
}

func TestRowErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &RowError{Row: 3, ReservationID: "R9", Field: "adr", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "R9")
}
