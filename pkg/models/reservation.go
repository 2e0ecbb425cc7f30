package models

import "time"

// RawReservation is one row of the reservation table exactly as booked,
// after the loading boundary has converted the external string enums into
// tagged values. The reservation status date stays a string here: parsing it
// is the first enrichment step and its failure must be attributable to the
// pipeline, not the loader.
type RawReservation struct {
	ReservationID            string            `json:"reservation_id"`
	Hotel                    Hotel             `json:"hotel"`
	IsCanceled               bool              `json:"is_canceled"`
	LeadTime                 int               `json:"lead_time"`
	ArrivalYear              int               `json:"arrival_date_year"`
	ArrivalMonth             string            `json:"arrival_date_month"` // full month name, e.g. "July"
	ArrivalDayOfMonth        int               `json:"arrival_date_day_of_month"`
	StaysInWeekendNights     int               `json:"stays_in_weekend_nights"`
	StaysInWeekNights        int               `json:"stays_in_week_nights"`
	Adults                   int               `json:"adults"`
	Children                 int               `json:"children"`
	Babies                   int               `json:"babies"`
	Meal                     MealPlan          `json:"meal"`
	Country                  string            `json:"country"`
	MarketSegment            string            `json:"market_segment"`
	DistributionChannel      string            `json:"distribution_channel"`
	ReservedRoomType         string            `json:"reserved_room_type"`
	AssignedRoomType         string            `json:"assigned_room_type"`
	ADR                      float64           `json:"adr"`
	RequiredCarParkingSpaces int               `json:"required_car_parking_spaces"`
	ReservationStatus        ReservationStatus `json:"reservation_status"`
	ReservationStatusDate    string            `json:"reservation_status_date"` // YYYY-MM-DD
}

// Booking is an enriched reservation: the raw row plus the derived temporal
// and behavioral attributes the dashboard KPIs are built on.
//
// ActualDepartureDate, NStayActual and IsEarlyDeparture are only defined for
// checked-out reservations; for every other status the stay never concluded
// normally and the fields are nil.
type Booking struct {
	RawReservation

	NLodgers                 int       `json:"n_lodgers"`
	StatusDate               time.Time `json:"status_date"`
	ArrivalDate              time.Time `json:"arrival_date"`
	NNights                  int       `json:"n_nights"`
	DepartureDate            time.Time `json:"departure_date"` // planned
	TotalTransaction         float64   `json:"total_transaction"`
	IsLastMinuteCancellation bool      `json:"is_last_minute_cancellation"`

	ActualDepartureDate *time.Time `json:"actual_departure_date,omitempty"`
	NStayActual         *int       `json:"n_stay_actual,omitempty"`
	IsEarlyDeparture    *bool      `json:"is_early_departure,omitempty"`

	Breakfast bool `json:"breakfast"`
	Lunch     bool `json:"lunch"`
	Dinner    bool `json:"dinner"`
}

// IsFamily reports whether the reservation includes children or babies.
func (b *Booking) IsFamily() bool {
	return b.Children+b.Babies > 0
}

// BookingDate is the date the reservation was made: arrival minus lead time.
func (b *Booking) BookingDate() time.Time {
	return b.ArrivalDate.AddDate(0, 0, -b.LeadTime)
}
