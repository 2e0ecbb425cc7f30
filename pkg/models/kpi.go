package models

import "time"

// RoomUsage is the number of occupied rooms for one hotel, room type and
// date. The table is densified over the configured span: every observed
// (hotel, room type) pair carries a row for every date, zero-filled.
type RoomUsage struct {
	Hotel            Hotel     `json:"hotel"`
	AssignedRoomType string    `json:"assigned_room_type"`
	Date             time.Time `json:"date"`
	NRoomsOccupied   int       `json:"n_rooms_occupied"`
}

// RoomCount is the estimated physical inventory per hotel and room type,
// taken as the historical maximum simultaneous occupancy.
type RoomCount struct {
	Hotel            Hotel  `json:"hotel"`
	AssignedRoomType string `json:"assigned_room_type"`
	NRooms           int    `json:"n_rooms"`
}

// OccupancyRate is the hotel-wide occupancy for one date bucket.
type OccupancyRate struct {
	Hotel          Hotel     `json:"hotel"`
	Date           time.Time `json:"date"`
	NRoomsOccupied int       `json:"n_rooms_occupied"`
	NRooms         int       `json:"n_rooms"`
	Rate           float64   `json:"occupancy_rate"`
}

// RoomTypeOccupancy is the occupancy for one hotel, room type and date
// bucket.
type RoomTypeOccupancy struct {
	Hotel            Hotel     `json:"hotel"`
	AssignedRoomType string    `json:"assigned_room_type"`
	Date             time.Time `json:"date"`
	NRoomsOccupied   int       `json:"n_rooms_occupied"`
	NRooms           int       `json:"n_rooms"`
	Rate             float64   `json:"occupancy_rate"`
}

// SalesByDay is realized revenue attributed to occupied nights, per hotel,
// date bucket and room type.
type SalesByDay struct {
	Hotel            Hotel     `json:"hotel"`
	Date             time.Time `json:"date"`
	AssignedRoomType string    `json:"assigned_room_type"`
	Sales            float64   `json:"sales"`
}

// RevPOR is revenue per occupied room for one hotel and date bucket.
type RevPOR struct {
	Hotel          Hotel     `json:"hotel"`
	Date           time.Time `json:"date"`
	Sales          float64   `json:"sales"`
	NRoomsOccupied int       `json:"n_rooms_occupied"`
	RevPOR         float64   `json:"revpor"`
}

// CancellationRateByDay is the cancellation rate among reservations arriving
// on one date bucket. NReservations counts only terminal outcomes that reached
// the arrival date decision: cancellations plus check-outs.
type CancellationRateByDay struct {
	Hotel         Hotel     `json:"hotel"`
	Date          time.Time `json:"date"`
	NCancelled    int       `json:"n_cancelled"`
	NCheckedIn    int       `json:"n_checked_in"`
	NReservations int       `json:"n_reservations"`
	Rate          float64   `json:"cancellation_rate"`
}

// CancellationRateByCountry is the cancellation rate among reservations from
// one guest country. Country holds the ISO code as stored; the display layer
// renames codes to full names after aggregation.
type CancellationRateByCountry struct {
	Hotel         Hotel   `json:"hotel"`
	Country       string  `json:"country"`
	NCancelled    int     `json:"n_cancelled"`
	NCheckedIn    int     `json:"n_checked_in"`
	NReservations int     `json:"n_reservations"`
	Rate          float64 `json:"cancellation_rate"`
}

// LeadTimeCancellation is the cancellation rate for one exact lead time.
// Lead times beyond the requested bound are excluded, not clipped.
type LeadTimeCancellation struct {
	Hotel      Hotel   `json:"hotel"`
	LeadTime   int     `json:"lead_time"`
	NCancelled int     `json:"n_cancelled"`
	NCheckedIn int     `json:"n_checked_in"`
	Total      int     `json:"total"`
	Rate       float64 `json:"cancellation_rate"`
}

// NoShowCount is the number of no-shows for one arrival date bucket. Dates
// without no-shows carry an explicit zero over the whole configured span.
type NoShowCount struct {
	Hotel    Hotel     `json:"hotel"`
	Date     time.Time `json:"date"`
	NNoShows int       `json:"n_no_shows"`
}

// CohortSurvival is one cell of the booking-survival matrix: for the cohort
// of reservations booked Cohort weeks ahead of arrival, the share still alive
// TimeElapsedBin weeks after booking.
type CohortSurvival struct {
	Hotel          Hotel   `json:"hotel"`
	Cohort         int     `json:"cohort"`
	TimeElapsedBin int     `json:"time_elapsed"`
	NCancelled     int     `json:"n_cancelled"`
	CohortSize     int     `json:"cohort_size"`
	SurvivalRate   float64 `json:"survival_rate"`
}

// CategoryVolume is a generic date-bucketed count or sum keyed by a label,
// used for guests and sales by country. Categories outside the ten largest
// by total volume are folded into "other".
type CategoryVolume struct {
	Hotel    Hotel     `json:"hotel"`
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	Value    float64   `json:"value"`
}

// FamilyCount is the number of reservations per date bucket split by whether
// the party includes children or babies. Both buckets are zero-filled so each
// date carries exactly two rows.
type FamilyCount struct {
	Hotel         Hotel     `json:"hotel"`
	Date          time.Time `json:"date"`
	IsFamily      bool      `json:"is_family"`
	NReservations int       `json:"n_reservations"`
}

// SegmentChannelCount is one cell of the market segment by distribution
// channel crosstab over non-cancelled reservations.
type SegmentChannelCount struct {
	Hotel               Hotel  `json:"hotel"`
	MarketSegment       string `json:"market_segment"`
	DistributionChannel string `json:"distribution_channel"`
	NReservations       int    `json:"n_reservations"`
}

// GuestCount is the number of guests present at one hotel on one date
// bucket, from the occupancy timeline with departures excluded.
type GuestCount struct {
	Hotel   Hotel     `json:"hotel"`
	Date    time.Time `json:"date"`
	NGuests int       `json:"n_guests"`
}

// ParkingCount is the number of required parking spaces at one hotel on one
// date bucket, from the occupancy timeline with departures excluded.
type ParkingCount struct {
	Hotel   Hotel     `json:"hotel"`
	Date    time.Time `json:"date"`
	NSpaces int       `json:"n_spaces"`
}
