// Package aggregations builds the KPI tables the dashboard reads. Every
// function takes enriched bookings and expanded actions as plain slices and
// returns a new sorted slice; inputs are never mutated.
//
// All computation happens on daily facts first and is then rolled up to the
// requested time granularity, so weekly and monthly figures are exact
// aggregates of the daily ones rather than resamples of resamples.
package aggregations

import (
	"time"

	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// occupiedNight is one action joined back to its booking, with departures
// filtered out. A guest leaves on the departure date, so that date carries
// no occupied room, no revenue and no guest presence.
type occupiedNight struct {
	booking *models.Booking
	date    time.Time
}

// occupiedNights joins actions to bookings by reservation id and drops
// departures. Actions whose reservation is missing from the batch are
// skipped; the pipeline validation guarantees that never happens for data
// produced by the same run.
func occupiedNights(bookings []models.Booking, actions []models.Action) []occupiedNight {
	byID := make(map[string]*models.Booking, len(bookings))
	for i := range bookings {
		byID[bookings[i].ReservationID] = &bookings[i]
	}
	nights := make([]occupiedNight, 0, len(actions))
	for _, a := range actions {
		if a.Action == models.ActionDeparture {
			continue
		}
		b, ok := byID[a.ReservationID]
		if !ok {
			continue
		}
		nights = append(nights, occupiedNight{booking: b, date: a.Date})
	}
	return nights
}

// nightlyRevenue spreads a booking's transaction evenly over its actually
// stayed nights. Only called for bookings the expansion produced actions
// for, so the actual stay is always positive.
func nightlyRevenue(b *models.Booking) float64 {
	return b.ADR * float64(b.NNights) / float64(*b.NStayActual)
}

type hotelDate struct {
	hotel models.Hotel
	date  time.Time
}

type hotelRoomDate struct {
	hotel models.Hotel
	room  string
	date  time.Time
}

type hotelRoom struct {
	hotel models.Hotel
	room  string
}

func sortHotelDate(h1 models.Hotel, d1 time.Time, h2 models.Hotel, d2 time.Time) bool {
	if h1 != h2 {
		return h1 < h2
	}
	return d1.Before(d2)
}
