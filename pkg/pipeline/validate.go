package pipeline

import (
	"fmt"

	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// ValidateBookings checks the internal consistency of an enriched batch
// before it is persisted. It catches programming errors in the derivation,
// not data errors: malformed rows are rejected during enrichment.
func ValidateBookings(bookings []models.Booking) error {
	for i := range bookings {
		b := &bookings[i]
		if b.NLodgers <= 0 {
			return fmt.Errorf("booking %s: non-positive lodger count %d", b.ReservationID, b.NLodgers)
		}
		if !b.DepartureDate.Equal(b.ArrivalDate.AddDate(0, 0, b.NNights)) {
			return fmt.Errorf("booking %s: departure date disagrees with arrival plus nights", b.ReservationID)
		}
		checkedOut := b.ReservationStatus == models.StatusCheckOut
		hasActual := b.ActualDepartureDate != nil && b.NStayActual != nil && b.IsEarlyDeparture != nil
		if checkedOut != hasActual {
			return fmt.Errorf("booking %s: actual departure fields inconsistent with status %s", b.ReservationID, b.ReservationStatus)
		}
		if hasActual && *b.NStayActual < 0 {
			return fmt.Errorf("booking %s: negative actual stay %d", b.ReservationID, *b.NStayActual)
		}
	}
	return nil
}

// ValidateActions checks the expansion invariant: every booking that
// produced actions contributes exactly one arrival, one departure and its
// actually stayed nights minus one in between.
func ValidateActions(bookings []models.Booking, actions []models.Action) error {
	type tally struct {
		arrivals, stays, departures int
	}
	counts := make(map[string]*tally)
	for _, a := range actions {
		t := counts[a.ReservationID]
		if t == nil {
			t = &tally{}
			counts[a.ReservationID] = t
		}
		switch a.Action {
		case models.ActionArrival:
			t.arrivals++
		case models.ActionStay:
			t.stays++
		case models.ActionDeparture:
			t.departures++
		}
	}

	expanded := 0
	for i := range bookings {
		b := &bookings[i]
		if b.IsCanceled || b.NStayActual == nil || *b.NStayActual <= 0 {
			if counts[b.ReservationID] != nil {
				return fmt.Errorf("booking %s: produced actions but should not occupy any date", b.ReservationID)
			}
			continue
		}
		expanded++
		t := counts[b.ReservationID]
		if t == nil {
			return fmt.Errorf("booking %s: completed stay produced no actions", b.ReservationID)
		}
		if t.arrivals != 1 || t.departures != 1 || t.stays != *b.NStayActual-1 {
			return fmt.Errorf("booking %s: expected 1 arrival, %d stays, 1 departure, got %d/%d/%d",
				b.ReservationID, *b.NStayActual-1, t.arrivals, t.stays, t.departures)
		}
	}
	if expanded != len(counts) {
		return fmt.Errorf("actions reference %d reservations, expected %d", len(counts), expanded)
	}
	return nil
}
