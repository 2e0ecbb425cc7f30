package models

import "fmt"

// Hotel identifies one of the two properties in the dataset.
// The zero value is invalid; values are parsed from the external string
// representation at the loading boundary and compared as tagged values
// everywhere else.
type Hotel uint8

const (
	HotelUnknown Hotel = iota
	CityHotel
	ResortHotel
)

const (
	cityHotelName   = "City Hotel"
	resortHotelName = "Resort Hotel"
)

// ParseHotel converts the external string representation into a Hotel.
func ParseHotel(s string) (Hotel, error) {
	switch s {
	case cityHotelName:
		return CityHotel, nil
	case resortHotelName:
		return ResortHotel, nil
	default:
		return HotelUnknown, fmt.Errorf("unknown hotel %q", s)
	}
}

// String returns the external representation used in the raw dataset.
func (h Hotel) String() string {
	switch h {
	case CityHotel:
		return cityHotelName
	case ResortHotel:
		return resortHotelName
	default:
		return "Unknown"
	}
}

// Prefix returns the reservation-id prefix assigned at ingest time
// ("C" for the city hotel, "R" for the resort hotel).
func (h Hotel) Prefix() string {
	switch h {
	case CityHotel:
		return "C"
	case ResortHotel:
		return "R"
	default:
		return "?"
	}
}

// Slug returns the URL-safe identifier used by the dashboard API.
func (h Hotel) Slug() string {
	switch h {
	case CityHotel:
		return "city"
	case ResortHotel:
		return "resort"
	default:
		return "unknown"
	}
}

// ParseHotelSlug converts the URL-safe identifier back into a Hotel.
func ParseHotelSlug(s string) (Hotel, error) {
	switch s {
	case "city":
		return CityHotel, nil
	case "resort":
		return ResortHotel, nil
	default:
		return HotelUnknown, fmt.Errorf("unknown hotel slug %q", s)
	}
}

// MarshalJSON emits the external string representation.
func (h Hotel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.String() + `"`), nil
}

// ReservationStatus is the final state of a reservation.
type ReservationStatus uint8

const (
	StatusUnknown ReservationStatus = iota
	StatusCheckOut
	StatusCanceled
	StatusNoShow
)

const (
	statusCheckOutName = "Check-Out"
	statusCanceledName = "Canceled"
	statusNoShowName   = "No-Show"
)

// ParseReservationStatus converts the external string representation into a
// ReservationStatus.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch s {
	case statusCheckOutName:
		return StatusCheckOut, nil
	case statusCanceledName:
		return StatusCanceled, nil
	case statusNoShowName:
		return StatusNoShow, nil
	default:
		return StatusUnknown, fmt.Errorf("unknown reservation status %q", s)
	}
}

// String returns the external representation used in the raw dataset.
func (s ReservationStatus) String() string {
	switch s {
	case StatusCheckOut:
		return statusCheckOutName
	case StatusCanceled:
		return statusCanceledName
	case StatusNoShow:
		return statusNoShowName
	default:
		return "Unknown"
	}
}

// MarshalJSON emits the external string representation.
func (s ReservationStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}
