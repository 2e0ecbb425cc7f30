package aggregations

import (
	"sort"
	"time"

	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// ComputeSalesByDay attributes realized revenue to occupied nights: each
// night of a completed stay earns the booking's transaction divided by the
// nights actually stayed, keyed by hotel, date bucket and assigned room
// type.
func ComputeSalesByDay(bookings []models.Booking, actions []models.Action, g models.TimeGranularity) []models.SalesByDay {
	sums := make(map[hotelRoomDate]float64)
	for _, n := range occupiedNights(bookings, actions) {
		key := hotelRoomDate{hotel: n.booking.Hotel, room: n.booking.AssignedRoomType, date: g.Truncate(n.date)}
		sums[key] += nightlyRevenue(n.booking)
	}

	sales := make([]models.SalesByDay, 0, len(sums))
	for key, v := range sums {
		sales = append(sales, models.SalesByDay{
			Hotel:            key.hotel,
			Date:             key.date,
			AssignedRoomType: key.room,
			Sales:            v,
		})
	}
	sort.Slice(sales, func(i, j int) bool {
		a, b := sales[i], sales[j]
		if a.Hotel != b.Hotel {
			return a.Hotel < b.Hotel
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.AssignedRoomType < b.AssignedRoomType
	})
	return sales
}

// Degenerate identifies a date bucket a ratio could not be computed for
// because its denominator was zero. Callers decide whether to surface or
// ignore them; the healthy buckets are returned either way.
type Degenerate struct {
	Hotel models.Hotel `json:"hotel"`
	Date  time.Time    `json:"date"`
}

// ComputeRevPOR derives revenue per occupied room per hotel and date bucket
// from daily sales and daily room usage. Buckets with revenue but no
// occupied rooms are skipped and reported as degenerate rather than poisoning
// the series.
func ComputeRevPOR(sales []models.SalesByDay, usage []models.RoomUsage, g models.TimeGranularity) ([]models.RevPOR, []Degenerate) {
	type cell struct {
		sales    float64
		occupied int
	}
	buckets := make(map[hotelDate]*cell)
	get := func(h models.Hotel, d time.Time) *cell {
		key := hotelDate{hotel: h, date: g.Truncate(d)}
		c := buckets[key]
		if c == nil {
			c = &cell{}
			buckets[key] = c
		}
		return c
	}
	for _, s := range sales {
		get(s.Hotel, s.Date).sales += s.Sales
	}
	for _, u := range usage {
		get(u.Hotel, u.Date).occupied += u.NRoomsOccupied
	}

	out := make([]models.RevPOR, 0, len(buckets))
	var degenerate []Degenerate
	for key, c := range buckets {
		if c.occupied == 0 {
			if c.sales != 0 {
				degenerate = append(degenerate, Degenerate{Hotel: key.hotel, Date: key.date})
			}
			continue
		}
		out = append(out, models.RevPOR{
			Hotel:          key.hotel,
			Date:           key.date,
			Sales:          c.sales,
			NRoomsOccupied: c.occupied,
			RevPOR:         c.sales / float64(c.occupied),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return sortHotelDate(out[i].Hotel, out[i].Date, out[j].Hotel, out[j].Date)
	})
	sort.Slice(degenerate, func(i, j int) bool {
		return sortHotelDate(degenerate[i].Hotel, degenerate[i].Date, degenerate[j].Hotel, degenerate[j].Date)
	})
	return out, degenerate
}
