package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHotel(t *testing.T) {
	h, err := ParseHotel("City Hotel")
	require.NoError(t, err)
	assert.Equal(t, CityHotel, h)
	assert.Equal(t, "C", h.Prefix())
	assert.Equal(t, "city", h.Slug())

	h, err = ParseHotel("Resort Hotel")
	require.NoError(t, err)
	assert.Equal(t, ResortHotel, h)
	assert.Equal(t, "R", h.Prefix())

	_, err = ParseHotel("Beach Hotel")
	assert.Error(t, err)
}

func TestParseHotelSlugRoundTrip(t *testing.T) {
	for _, h := range []Hotel{CityHotel, ResortHotel} {
		got, err := ParseHotelSlug(h.Slug())
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}
	_, err := ParseHotelSlug("motel")
	assert.Error(t, err)
}

func TestParseReservationStatus(t *testing.T) {
	tests := []struct {
		in   string
		want ReservationStatus
	}{
		{"Check-Out", StatusCheckOut},
		{"Canceled", StatusCanceled},
		{"No-Show", StatusNoShow},
	}
	for _, tt := range tests {
		got, err := ParseReservationStatus(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.in, got.String())
	}
	_, err := ParseReservationStatus("Checked-In")
	assert.Error(t, err)
}

func TestMealPlanMeals(t *testing.T) {
	tests := []struct {
		code                     string
		breakfast, lunch, dinner bool
	}{
		{"BB", true, false, false},
		{"HB", true, false, true},
		{"FB", true, true, true},
		{"SC", false, false, false},
		{"Undefined", false, false, false},
		{"XX", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			b, l, d := ParseMealPlan(tt.code).Meals()
			assert.Equal(t, tt.breakfast, b, "breakfast")
			assert.Equal(t, tt.lunch, l, "lunch")
			assert.Equal(t, tt.dinner, d, "dinner")
		})
	}
}

func TestDateSpan(t *testing.T) {
	s := DateSpan{Start: Date(2015, time.July, 1), End: Date(2015, time.July, 3)}

	assert.Equal(t, 3, s.Days())
	assert.True(t, s.Contains(Date(2015, time.July, 1)))
	assert.True(t, s.Contains(Date(2015, time.July, 3)))
	assert.False(t, s.Contains(Date(2015, time.July, 4)))

	dates := s.Dates()
	require.Len(t, dates, 3)
	assert.Equal(t, Date(2015, time.July, 2), dates[1])

	empty := DateSpan{Start: Date(2016, time.January, 2), End: Date(2016, time.January, 1)}
	assert.Equal(t, 0, empty.Days())
	assert.Empty(t, empty.Dates())
}

func TestTimeGranularityTruncate(t *testing.T) {
	// 2017-08-16 is a Wednesday.
	d := Date(2017, time.August, 16)

	assert.Equal(t, d, GranularityDay.Truncate(d))
	assert.Equal(t, Date(2017, time.August, 14), GranularityWeek.Truncate(d))
	assert.Equal(t, Date(2017, time.August, 1), GranularityMonth.Truncate(d))

	// A Monday truncates to itself, a Sunday to the previous Monday.
	mon := Date(2017, time.August, 14)
	sun := Date(2017, time.August, 20)
	assert.Equal(t, mon, GranularityWeek.Truncate(mon))
	assert.Equal(t, mon, GranularityWeek.Truncate(sun))
}

func TestParseTimeGranularity(t *testing.T) {
	g, err := ParseTimeGranularity("")
	require.NoError(t, err)
	assert.Equal(t, GranularityDay, g)

	g, err = ParseTimeGranularity("month")
	require.NoError(t, err)
	assert.Equal(t, GranularityMonth, g)

	_, err = ParseTimeGranularity("quarter")
	assert.Error(t, err)
}

func TestActionTypeRoundTrip(t *testing.T) {
	for _, a := range []ActionType{ActionArrival, ActionStay, ActionDeparture} {
		got, err := ParseActionType(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseActionType("checkout")
	assert.Error(t, err)
}

func TestBookingHelpers(t *testing.T) {
	b := Booking{
		RawReservation: RawReservation{LeadTime: 10, Children: 1},
		ArrivalDate:    Date(2016, time.March, 15),
	}
	assert.True(t, b.IsFamily())
	assert.Equal(t, Date(2016, time.March, 5), b.BookingDate())

	b.Children = 0
	assert.False(t, b.IsFamily())
	b.Babies = 2
	assert.True(t, b.IsFamily())
}
