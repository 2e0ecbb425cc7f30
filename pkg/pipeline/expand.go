package pipeline

import (
	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// Expand unrolls completed stays into one action per occupied calendar date.
// Only non-cancelled bookings with at least one actually stayed night
// produce actions: the first date is the arrival, the last the departure,
// everything in between a stay. A completed stay of n nights therefore
// yields exactly n+1 actions, in chronological order.
func Expand(bookings []models.Booking) []models.Action {
	var actions []models.Action
	for i := range bookings {
		b := &bookings[i]
		if b.IsCanceled || b.NStayActual == nil || *b.NStayActual <= 0 {
			continue
		}
		last := *b.ActualDepartureDate
		for d := b.ArrivalDate; !d.After(last); d = d.AddDate(0, 0, 1) {
			kind := models.ActionStay
			switch {
			case d.Equal(b.ArrivalDate):
				kind = models.ActionArrival
			case d.Equal(last):
				kind = models.ActionDeparture
			}
			actions = append(actions, models.Action{
				ReservationID: b.ReservationID,
				Date:          d,
				Action:        kind,
			})
		}
	}
	return actions
}
