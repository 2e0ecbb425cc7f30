package aggregations

import (
	"sort"

	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// CancellationRatesByDay derives the cancellation rate among reservations by
// arrival date bucket. Arrivals outside the configured span are excluded;
// buckets with no reservations produce no row.
func CancellationRatesByDay(bookings []models.Booking, span models.DateSpan, g models.TimeGranularity) []models.CancellationRateByDay {
	type cell struct {
		cancelled, checkedIn int
	}
	buckets := make(map[hotelDate]*cell)
	for i := range bookings {
		b := &bookings[i]
		if !span.Contains(b.ArrivalDate) {
			continue
		}
		key := hotelDate{hotel: b.Hotel, date: g.Truncate(b.ArrivalDate)}
		c := buckets[key]
		if c == nil {
			c = &cell{}
			buckets[key] = c
		}
		if b.IsCanceled {
			c.cancelled++
		} else {
			c.checkedIn++
		}
	}

	out := make([]models.CancellationRateByDay, 0, len(buckets))
	for key, c := range buckets {
		total := c.cancelled + c.checkedIn
		out = append(out, models.CancellationRateByDay{
			Hotel:         key.hotel,
			Date:          key.date,
			NCancelled:    c.cancelled,
			NCheckedIn:    c.checkedIn,
			NReservations: total,
			Rate:          float64(c.cancelled) / float64(total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return sortHotelDate(out[i].Hotel, out[i].Date, out[j].Hotel, out[j].Date)
	})
	return out
}

// CancellationRatesByCountry derives the cancellation rate per guest
// country among reservations arriving inside the configured span. Rows keep
// the ISO country code; mapping codes to display names is a presentation
// concern applied after aggregation.
func CancellationRatesByCountry(bookings []models.Booking, span models.DateSpan) []models.CancellationRateByCountry {
	type key struct {
		hotel   models.Hotel
		country string
	}
	type cell struct {
		cancelled, checkedIn int
	}
	buckets := make(map[key]*cell)
	for i := range bookings {
		b := &bookings[i]
		if !span.Contains(b.ArrivalDate) {
			continue
		}
		k := key{hotel: b.Hotel, country: b.Country}
		c := buckets[k]
		if c == nil {
			c = &cell{}
			buckets[k] = c
		}
		if b.IsCanceled {
			c.cancelled++
		} else {
			c.checkedIn++
		}
	}

	out := make([]models.CancellationRateByCountry, 0, len(buckets))
	for k, c := range buckets {
		total := c.cancelled + c.checkedIn
		out = append(out, models.CancellationRateByCountry{
			Hotel:         k.hotel,
			Country:       k.country,
			NCancelled:    c.cancelled,
			NCheckedIn:    c.checkedIn,
			NReservations: total,
			Rate:          float64(c.cancelled) / float64(total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Hotel != b.Hotel {
			return a.Hotel < b.Hotel
		}
		return a.Country < b.Country
	})
	return out
}

// CancellationRatesByLeadTime derives the cancellation rate per exact lead
// time up to maxLeadTime. Longer lead times are excluded entirely, not
// clipped into the last row.
func CancellationRatesByLeadTime(bookings []models.Booking, maxLeadTime int) []models.LeadTimeCancellation {
	type key struct {
		hotel models.Hotel
		lead  int
	}
	type cell struct {
		cancelled, checkedIn int
	}
	buckets := make(map[key]*cell)
	for i := range bookings {
		b := &bookings[i]
		if b.LeadTime > maxLeadTime {
			continue
		}
		k := key{hotel: b.Hotel, lead: b.LeadTime}
		c := buckets[k]
		if c == nil {
			c = &cell{}
			buckets[k] = c
		}
		if b.IsCanceled {
			c.cancelled++
		} else {
			c.checkedIn++
		}
	}

	out := make([]models.LeadTimeCancellation, 0, len(buckets))
	for k, c := range buckets {
		total := c.cancelled + c.checkedIn
		out = append(out, models.LeadTimeCancellation{
			Hotel:      k.hotel,
			LeadTime:   k.lead,
			NCancelled: c.cancelled,
			NCheckedIn: c.checkedIn,
			Total:      total,
			Rate:       float64(c.cancelled) / float64(total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Hotel != b.Hotel {
			return a.Hotel < b.Hotel
		}
		return a.LeadTime < b.LeadTime
	})
	return out
}

// NoShowCounts counts no-shows per arrival date bucket, zero-filled over the
// whole configured span so the series has no gaps.
func NoShowCounts(bookings []models.Booking, span models.DateSpan, g models.TimeGranularity) []models.NoShowCount {
	counts := make(map[hotelDate]int)

	hotels := make(map[models.Hotel]struct{})
	for i := range bookings {
		hotels[bookings[i].Hotel] = struct{}{}
	}
	for h := range hotels {
		for _, d := range span.Dates() {
			counts[hotelDate{hotel: h, date: g.Truncate(d)}] = 0
		}
	}

	for i := range bookings {
		b := &bookings[i]
		if b.ReservationStatus != models.StatusNoShow || !span.Contains(b.ArrivalDate) {
			continue
		}
		counts[hotelDate{hotel: b.Hotel, date: g.Truncate(b.ArrivalDate)}]++
	}

	out := make([]models.NoShowCount, 0, len(counts))
	for key, n := range counts {
		out = append(out, models.NoShowCount{Hotel: key.hotel, Date: key.date, NNoShows: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return sortHotelDate(out[i].Hotel, out[i].Date, out[j].Hotel, out[j].Date)
	})
	return out
}

// CohortSurvival derives the booking-survival matrix. Reservations are
// grouped into weekly cohorts by lead time; within each cohort,
// cancellations are binned by the weeks elapsed between booking and the
// cancellation event. Rows carry cumulative cancellations, so the survival
// rate never increases along a cohort. Bins beyond the cohort index would
// describe cancellations after arrival and are excluded.
func CohortSurvival(bookings []models.Booking) []models.CohortSurvival {
	type key struct {
		hotel  models.Hotel
		cohort int
	}
	sizes := make(map[key]int)
	cancels := make(map[key]map[int]int)
	for i := range bookings {
		b := &bookings[i]
		cohort := (b.LeadTime + 6) / 7
		k := key{hotel: b.Hotel, cohort: cohort}
		sizes[k]++
		if !b.IsCanceled {
			continue
		}
		elapsed := int(b.StatusDate.Sub(b.BookingDate()).Hours() / 24)
		bin := (elapsed + 6) / 7
		if bin < 0 || bin > cohort {
			continue
		}
		if cancels[k] == nil {
			cancels[k] = make(map[int]int)
		}
		cancels[k][bin]++
	}

	var out []models.CohortSurvival
	for k, size := range sizes {
		cumulative := 0
		for bin := 0; bin <= k.cohort; bin++ {
			cumulative += cancels[k][bin]
			out = append(out, models.CohortSurvival{
				Hotel:          k.hotel,
				Cohort:         k.cohort,
				TimeElapsedBin: bin,
				NCancelled:     cumulative,
				CohortSize:     size,
				SurvivalRate:   1 - float64(cumulative)/float64(size),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Hotel != b.Hotel {
			return a.Hotel < b.Hotel
		}
		if a.Cohort != b.Cohort {
			return a.Cohort < b.Cohort
		}
		return a.TimeElapsedBin < b.TimeElapsedBin
	})
	return out
}
