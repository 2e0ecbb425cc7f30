package aggregations

import (
	"sort"
	"time"

	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// otherCategory collects every category outside the largest ten by total
// volume.
const otherCategory = "other"

const topCategoryCount = 10

// GuestsByCountry counts guests present per hotel, date bucket and guest
// country. Within each hotel, countries outside that hotel's top ten by
// total guest volume fold into "other".
func GuestsByCountry(bookings []models.Booking, actions []models.Action, g models.TimeGranularity) []models.CategoryVolume {
	return volumeByCountry(bookings, actions, g, func(b *models.Booking) float64 {
		return float64(b.NLodgers)
	})
}

// SalesByCountry sums nightly revenue per hotel, date bucket and guest
// country. Within each hotel, countries outside that hotel's top ten by
// total sales fold into "other".
func SalesByCountry(bookings []models.Booking, actions []models.Action, g models.TimeGranularity) []models.CategoryVolume {
	return volumeByCountry(bookings, actions, g, nightlyRevenue)
}

// volumeByCountry ranks countries within each hotel, so a hotel-filtered
// series folds by that hotel's own volumes rather than the joint ones.
func volumeByCountry(bookings []models.Booking, actions []models.Action, g models.TimeGranularity, value func(*models.Booking) float64) []models.CategoryVolume {
	type key struct {
		hotel    models.Hotel
		date     time.Time
		category string
	}
	nights := occupiedNights(bookings, actions)

	totals := make(map[models.Hotel]map[string]float64)
	order := make(map[models.Hotel][]string)
	for _, n := range nights {
		h := n.booking.Hotel
		if totals[h] == nil {
			totals[h] = make(map[string]float64)
		}
		if _, seen := totals[h][n.booking.Country]; !seen {
			order[h] = append(order[h], n.booking.Country)
		}
		totals[h][n.booking.Country] += value(n.booking)
	}
	top := make(map[models.Hotel]map[string]struct{}, len(totals))
	for h, t := range totals {
		top[h] = topCategories(t, order[h])
	}

	sums := make(map[key]float64)
	for _, n := range nights {
		category := n.booking.Country
		if _, ok := top[n.booking.Hotel][category]; !ok {
			category = otherCategory
		}
		sums[key{hotel: n.booking.Hotel, date: g.Truncate(n.date), category: category}] += value(n.booking)
	}

	out := make([]models.CategoryVolume, 0, len(sums))
	for k, v := range sums {
		out = append(out, models.CategoryVolume{Hotel: k.hotel, Date: k.date, Category: k.category, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Hotel != b.Hotel {
			return a.Hotel < b.Hotel
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Category < b.Category
	})
	return out
}

// topCategories selects the ten categories with the highest totals. Ties are
// broken by first appearance in the data, so the selection is stable across
// runs.
func topCategories(totals map[string]float64, order []string) map[string]struct{} {
	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return totals[ranked[i]] > totals[ranked[j]]
	})
	if len(ranked) > topCategoryCount {
		ranked = ranked[:topCategoryCount]
	}
	top := make(map[string]struct{}, len(ranked))
	for _, c := range ranked {
		top[c] = struct{}{}
	}
	return top
}

// FamilyCounts counts reservations present per hotel and date bucket, split
// by whether the party includes children or babies. Counts come from the
// occupancy timeline, so cancelled reservations and departure dates
// contribute nothing. Every bucket present in the data carries both rows,
// zero-filled, so the two series always align.
func FamilyCounts(bookings []models.Booking, actions []models.Action, g models.TimeGranularity) []models.FamilyCount {
	type key struct {
		hotel  models.Hotel
		date   time.Time
		family bool
	}
	counts := make(map[key]int)
	for _, n := range occupiedNights(bookings, actions) {
		k := key{hotel: n.booking.Hotel, date: g.Truncate(n.date), family: n.booking.IsFamily()}
		counts[k]++
		other := key{hotel: k.hotel, date: k.date, family: !k.family}
		if _, ok := counts[other]; !ok {
			counts[other] = 0
		}
	}

	out := make([]models.FamilyCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.FamilyCount{Hotel: k.hotel, Date: k.date, IsFamily: k.family, NReservations: n})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Hotel != b.Hotel {
			return a.Hotel < b.Hotel
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return !a.IsFamily && b.IsFamily
	})
	return out
}

// SegmentChannelCrossTab counts non-cancelled reservations per market
// segment and distribution channel.
func SegmentChannelCrossTab(bookings []models.Booking) []models.SegmentChannelCount {
	type key struct {
		hotel            models.Hotel
		segment, channel string
	}
	counts := make(map[key]int)
	for i := range bookings {
		b := &bookings[i]
		if b.IsCanceled {
			continue
		}
		counts[key{hotel: b.Hotel, segment: b.MarketSegment, channel: b.DistributionChannel}]++
	}

	out := make([]models.SegmentChannelCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.SegmentChannelCount{
			Hotel:               k.hotel,
			MarketSegment:       k.segment,
			DistributionChannel: k.channel,
			NReservations:       n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Hotel != b.Hotel {
			return a.Hotel < b.Hotel
		}
		if a.MarketSegment != b.MarketSegment {
			return a.MarketSegment < b.MarketSegment
		}
		return a.DistributionChannel < b.DistributionChannel
	})
	return out
}

// GuestsByDay counts guests present per hotel and date bucket from the
// occupancy timeline.
func GuestsByDay(bookings []models.Booking, actions []models.Action, g models.TimeGranularity) []models.GuestCount {
	sums := make(map[hotelDate]int)
	for _, n := range occupiedNights(bookings, actions) {
		sums[hotelDate{hotel: n.booking.Hotel, date: g.Truncate(n.date)}] += n.booking.NLodgers
	}
	out := make([]models.GuestCount, 0, len(sums))
	for k, n := range sums {
		out = append(out, models.GuestCount{Hotel: k.hotel, Date: k.date, NGuests: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return sortHotelDate(out[i].Hotel, out[i].Date, out[j].Hotel, out[j].Date)
	})
	return out
}

// ParkingByDay counts required parking spaces per hotel and date bucket from
// the occupancy timeline.
func ParkingByDay(bookings []models.Booking, actions []models.Action, g models.TimeGranularity) []models.ParkingCount {
	sums := make(map[hotelDate]int)
	for _, n := range occupiedNights(bookings, actions) {
		sums[hotelDate{hotel: n.booking.Hotel, date: g.Truncate(n.date)}] += n.booking.RequiredCarParkingSpaces
	}
	out := make([]models.ParkingCount, 0, len(sums))
	for k, n := range sums {
		out = append(out, models.ParkingCount{Hotel: k.hotel, Date: k.date, NSpaces: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return sortHotelDate(out[i].Hotel, out[i].Date, out[j].Hotel, out[j].Date)
	})
	return out
}
