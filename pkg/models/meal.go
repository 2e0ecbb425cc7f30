package models

// MealPlan is the board basis a reservation was booked on.
type MealPlan uint8

const (
	// MealSC is "self catering": no meals included. Unmapped or undefined
	// codes in the raw data collapse onto it.
	MealSC MealPlan = iota
	MealBB           // bed & breakfast
	MealHB           // half board (breakfast + dinner)
	MealFB           // full board (all three meals)
)

// ParseMealPlan converts a raw meal code into a MealPlan. Unknown codes
// (including "Undefined") are treated as SC. This is a deliberate lenient
// default, not an error: the dataset documents "Undefined" as equivalent to
// no meal package.
func ParseMealPlan(code string) MealPlan {
	switch code {
	case "BB":
		return MealBB
	case "HB":
		return MealHB
	case "FB":
		return MealFB
	default:
		return MealSC
	}
}

// String returns the external meal code.
func (m MealPlan) String() string {
	switch m {
	case MealBB:
		return "BB"
	case MealHB:
		return "HB"
	case MealFB:
		return "FB"
	default:
		return "SC"
	}
}

// Meals returns which meals the plan entitles the guest to.
func (m MealPlan) Meals() (breakfast, lunch, dinner bool) {
	switch m {
	case MealBB:
		return true, false, false
	case MealHB:
		return true, false, true
	case MealFB:
		return true, true, true
	default:
		return false, false, false
	}
}

// MarshalJSON emits the external meal code.
func (m MealPlan) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}
