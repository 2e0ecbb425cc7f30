// Package pipeline turns raw reservations into enriched bookings and
// expands bookings into the per-date occupancy timeline. Every function is
// pure: inputs are never mutated and the same input always yields the same
// output.
package pipeline

import (
	"fmt"
	"time"

	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// arrivalLayout parses the raw arrival date components once they are joined
// into a single day/month-name/year string. The time package rejects
// impossible calendar dates such as February 30th.
const arrivalLayout = "02/January/2006"

// RowError describes the first reservation a batch failed on. Enrichment is
// all or nothing: one malformed row aborts the batch so a partially derived
// dataset can never reach the warehouse.
type RowError struct {
	Row           int
	ReservationID string
	Field         string
	Err           error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("reservation %s (row %d): field %s: %v", e.ReservationID, e.Row, e.Field, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Enrich derives the booking attributes the KPI tables are built on. Rows
// with zero lodgers are dropped; any row that cannot be derived aborts the
// whole batch with a RowError identifying it.
func Enrich(raw []models.RawReservation) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0, len(raw))
	for i, r := range raw {
		statusDate, err := time.ParseInLocation(time.DateOnly, r.ReservationStatusDate, time.UTC)
		if err != nil {
			return nil, &RowError{Row: i, ReservationID: r.ReservationID, Field: "reservation_status_date", Err: err}
		}

		nLodgers := r.Adults + r.Children + r.Babies
		if nLodgers == 0 {
			continue
		}

		arrivalRaw := fmt.Sprintf("%02d/%s/%d", r.ArrivalDayOfMonth, r.ArrivalMonth, r.ArrivalYear)
		arrival, err := time.ParseInLocation(arrivalLayout, arrivalRaw, time.UTC)
		if err != nil {
			return nil, &RowError{Row: i, ReservationID: r.ReservationID, Field: "arrival_date", Err: err}
		}

		nNights := r.StaysInWeekNights + r.StaysInWeekendNights

		b := models.Booking{
			RawReservation:   r,
			NLodgers:         nLodgers,
			StatusDate:       statusDate,
			ArrivalDate:      arrival,
			NNights:          nNights,
			DepartureDate:    arrival.AddDate(0, 0, nNights),
			TotalTransaction: float64(nNights) * r.ADR,
			IsLastMinuteCancellation: r.ReservationStatus == models.StatusCanceled &&
				statusDate.Equal(arrival),
		}

		// The stay only concluded normally for checked-out reservations;
		// their status date is the day they actually left.
		if r.ReservationStatus == models.StatusCheckOut {
			actual := statusDate
			nStay := daysBetween(arrival, actual)
			if nStay < 0 {
				return nil, &RowError{
					Row:           i,
					ReservationID: r.ReservationID,
					Field:         "actual_departure_date",
					Err:           fmt.Errorf("departure %s before arrival %s", actual.Format(time.DateOnly), arrival.Format(time.DateOnly)),
				}
			}
			early := actual.Before(b.DepartureDate)
			b.ActualDepartureDate = &actual
			b.NStayActual = &nStay
			b.IsEarlyDeparture = &early
		}

		b.Breakfast, b.Lunch, b.Dinner = r.Meal.Meals()

		bookings = append(bookings, b)
	}
	return bookings, nil
}

// daysBetween counts calendar days from a to b, negative when b precedes a.
// Both arguments are UTC-midnight dates so the division is exact.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
