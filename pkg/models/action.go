package models

import (
	"fmt"
	"time"
)

// ActionType tags what a reservation does on a given occupied date.
type ActionType uint8

const (
	ActionArrival ActionType = iota
	ActionStay
	ActionDeparture
)

// ParseActionType converts the external string representation into an
// ActionType.
func ParseActionType(s string) (ActionType, error) {
	switch s {
	case "arrival":
		return ActionArrival, nil
	case "stay":
		return ActionStay, nil
	case "departure":
		return ActionDeparture, nil
	default:
		return ActionArrival, fmt.Errorf("unknown action %q", s)
	}
}

// String returns the external representation persisted in the actions table.
func (a ActionType) String() string {
	switch a {
	case ActionStay:
		return "stay"
	case ActionDeparture:
		return "departure"
	default:
		return "arrival"
	}
}

// MarshalJSON emits the external string representation.
func (a ActionType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// Action is one row of the occupancy timeline: a reservation occupying a
// room on one calendar date. A guest present on the departure date has
// already vacated the room for that night, which is why every occupancy
// measure filters departures out.
type Action struct {
	ReservationID string     `json:"reservation_id"`
	Date          time.Time  `json:"date"`
	Action        ActionType `json:"action"`
}
