package aggregations

import (
	"fmt"
	"sort"
	"time"

	"github.com/lodgic-inc/hotels-engine/pkg/apperrors"
	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// BuildRoomUsage counts occupied rooms per hotel, assigned room type and
// calendar date, then densifies the table over the configured span: every
// (hotel, room type) pair seen in the data carries one row per date, with
// zero for dates nobody occupied a room of that type. Occupied dates outside
// the span are kept as is.
func BuildRoomUsage(bookings []models.Booking, actions []models.Action, span models.DateSpan) []models.RoomUsage {
	counts := make(map[hotelRoomDate]int)
	pairs := make(map[hotelRoom]struct{})
	for _, n := range occupiedNights(bookings, actions) {
		key := hotelRoomDate{hotel: n.booking.Hotel, room: n.booking.AssignedRoomType, date: n.date}
		counts[key]++
		pairs[hotelRoom{hotel: n.booking.Hotel, room: n.booking.AssignedRoomType}] = struct{}{}
	}

	for pair := range pairs {
		for _, d := range span.Dates() {
			key := hotelRoomDate{hotel: pair.hotel, room: pair.room, date: d}
			if _, ok := counts[key]; !ok {
				counts[key] = 0
			}
		}
	}

	usage := make([]models.RoomUsage, 0, len(counts))
	for key, n := range counts {
		usage = append(usage, models.RoomUsage{
			Hotel:            key.hotel,
			AssignedRoomType: key.room,
			Date:             key.date,
			NRoomsOccupied:   n,
		})
	}
	sort.Slice(usage, func(i, j int) bool {
		a, b := usage[i], usage[j]
		if a.Hotel != b.Hotel {
			return a.Hotel < b.Hotel
		}
		if a.AssignedRoomType != b.AssignedRoomType {
			return a.AssignedRoomType < b.AssignedRoomType
		}
		return a.Date.Before(b.Date)
	})
	return usage
}

// CountRooms estimates the physical inventory per hotel and room type as the
// historical maximum simultaneous occupancy. The estimate is a lower bound
// on the true inventory; rooms never all occupied at once are invisible to
// it.
func CountRooms(usage []models.RoomUsage) []models.RoomCount {
	maxima := make(map[hotelRoom]int)
	for _, u := range usage {
		key := hotelRoom{hotel: u.Hotel, room: u.AssignedRoomType}
		if u.NRoomsOccupied > maxima[key] {
			maxima[key] = u.NRoomsOccupied
		}
	}
	counts := make([]models.RoomCount, 0, len(maxima))
	for key, n := range maxima {
		counts = append(counts, models.RoomCount{Hotel: key.hotel, AssignedRoomType: key.room, NRooms: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		a, b := counts[i], counts[j]
		if a.Hotel != b.Hotel {
			return a.Hotel < b.Hotel
		}
		return a.AssignedRoomType < b.AssignedRoomType
	})
	return counts
}

// ComputeOccupancyRate derives hotel-wide occupancy per date bucket: total
// occupied rooms divided by total available room-nights across all room
// types. Usage must be daily, as produced by BuildRoomUsage. A hotel present
// in the usage table with zero total rooms yields ErrZeroDenominator; a day
// occupying more rooms than the inventory estimate yields ErrStaleCapacity.
func ComputeOccupancyRate(usage []models.RoomUsage, counts []models.RoomCount, g models.TimeGranularity) ([]models.OccupancyRate, error) {
	totalRooms := make(map[models.Hotel]int)
	perPair := make(map[hotelRoom]int)
	for _, c := range counts {
		totalRooms[c.Hotel] += c.NRooms
		perPair[hotelRoom{hotel: c.Hotel, room: c.AssignedRoomType}] = c.NRooms
	}

	dailyOccupied := make(map[hotelDate]int)
	for _, u := range usage {
		if u.NRoomsOccupied > perPair[hotelRoom{hotel: u.Hotel, room: u.AssignedRoomType}] {
			return nil, fmt.Errorf("%s %s on %s: %d occupied: %w",
				u.Hotel, u.AssignedRoomType, u.Date.Format(time.DateOnly), u.NRoomsOccupied, apperrors.ErrStaleCapacity)
		}
		dailyOccupied[hotelDate{hotel: u.Hotel, date: u.Date}] += u.NRoomsOccupied
	}

	type cell struct {
		occupied int
		rooms    int
	}
	buckets := make(map[hotelDate]*cell)
	for key, occ := range dailyOccupied {
		rooms := totalRooms[key.hotel]
		if rooms == 0 {
			return nil, fmt.Errorf("hotel %s has no rooms: %w", key.hotel, apperrors.ErrZeroDenominator)
		}
		bk := hotelDate{hotel: key.hotel, date: g.Truncate(key.date)}
		c := buckets[bk]
		if c == nil {
			c = &cell{}
			buckets[bk] = c
		}
		c.occupied += occ
		c.rooms += rooms
	}

	rates := make([]models.OccupancyRate, 0, len(buckets))
	for key, c := range buckets {
		rates = append(rates, models.OccupancyRate{
			Hotel:          key.hotel,
			Date:           key.date,
			NRoomsOccupied: c.occupied,
			NRooms:         c.rooms,
			Rate:           float64(c.occupied) / float64(c.rooms),
		})
	}
	sort.Slice(rates, func(i, j int) bool {
		return sortHotelDate(rates[i].Hotel, rates[i].Date, rates[j].Hotel, rates[j].Date)
	})
	return rates, nil
}

// ComputeRoomTypeOccupancy derives occupancy per hotel, room type and date
// bucket. Usage must be daily. Pairs with a zero inventory estimate yield
// ErrZeroDenominator.
func ComputeRoomTypeOccupancy(usage []models.RoomUsage, counts []models.RoomCount, g models.TimeGranularity) ([]models.RoomTypeOccupancy, error) {
	perPair := make(map[hotelRoom]int)
	for _, c := range counts {
		perPair[hotelRoom{hotel: c.Hotel, room: c.AssignedRoomType}] = c.NRooms
	}

	type cell struct {
		occupied int
		rooms    int
	}
	buckets := make(map[hotelRoomDate]*cell)
	for _, u := range usage {
		rooms := perPair[hotelRoom{hotel: u.Hotel, room: u.AssignedRoomType}]
		if rooms == 0 {
			return nil, fmt.Errorf("%s %s has no rooms: %w", u.Hotel, u.AssignedRoomType, apperrors.ErrZeroDenominator)
		}
		key := hotelRoomDate{hotel: u.Hotel, room: u.AssignedRoomType, date: g.Truncate(u.Date)}
		c := buckets[key]
		if c == nil {
			c = &cell{}
			buckets[key] = c
		}
		c.occupied += u.NRoomsOccupied
		c.rooms += rooms
	}

	rates := make([]models.RoomTypeOccupancy, 0, len(buckets))
	for key, c := range buckets {
		rates = append(rates, models.RoomTypeOccupancy{
			Hotel:            key.hotel,
			AssignedRoomType: key.room,
			Date:             key.date,
			NRoomsOccupied:   c.occupied,
			NRooms:           c.rooms,
			Rate:             float64(c.occupied) / float64(c.rooms),
		})
	}
	sort.Slice(rates, func(i, j int) bool {
		a, b := rates[i], rates[j]
		if a.Hotel != b.Hotel {
			return a.Hotel < b.Hotel
		}
		if a.AssignedRoomType != b.AssignedRoomType {
			return a.AssignedRoomType < b.AssignedRoomType
		}
		return a.Date.Before(b.Date)
	})
	return rates, nil
}
