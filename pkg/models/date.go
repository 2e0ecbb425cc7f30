package models

import (
	"fmt"
	"time"
)

// Date builds a calendar date as a UTC-midnight time.Time. All dates in the
// pipeline are normalized this way so equality and arithmetic stay exact.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateSpan is an inclusive calendar range. The dataset's known span is
// configured once and injected into every function that needs a calendar
// axis (date filling, no-show counting).
type DateSpan struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls within the span (inclusive on both ends).
func (s DateSpan) Contains(d time.Time) bool {
	return !d.Before(s.Start) && !d.After(s.End)
}

// Days returns the number of calendar dates in the span.
func (s DateSpan) Days() int {
	if s.End.Before(s.Start) {
		return 0
	}
	return int(s.End.Sub(s.Start).Hours()/24) + 1
}

// Dates enumerates every calendar date in the span in chronological order.
func (s DateSpan) Dates() []time.Time {
	n := s.Days()
	out := make([]time.Time, 0, n)
	for d := s.Start; !d.After(s.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// TimeGranularity selects the time bucketing applied to a date-keyed KPI
// table. The aggregation functions always compute on daily facts and then
// roll dates up to the requested bucket.
type TimeGranularity uint8

const (
	GranularityDay TimeGranularity = iota
	GranularityWeek
	GranularityMonth
)

// ParseTimeGranularity converts the API parameter into a TimeGranularity.
// An empty string means daily.
func ParseTimeGranularity(s string) (TimeGranularity, error) {
	switch s {
	case "", "day":
		return GranularityDay, nil
	case "week":
		return GranularityWeek, nil
	case "month":
		return GranularityMonth, nil
	default:
		return GranularityDay, fmt.Errorf("unknown time granularity %q", s)
	}
}

// String returns the API parameter value.
func (g TimeGranularity) String() string {
	switch g {
	case GranularityWeek:
		return "week"
	case GranularityMonth:
		return "month"
	default:
		return "day"
	}
}

// Truncate maps a date onto the start of its bucket: the date itself for
// daily, the Monday of its ISO week for weekly, the first of its month for
// monthly.
func (g TimeGranularity) Truncate(d time.Time) time.Time {
	switch g {
	case GranularityWeek:
		// time.Weekday is Sunday-based; shift to Monday-based offsets.
		offset := (int(d.Weekday()) + 6) % 7
		return Date(d.Year(), d.Month(), d.Day()).AddDate(0, 0, -offset)
	case GranularityMonth:
		return Date(d.Year(), d.Month(), 1)
	default:
		return Date(d.Year(), d.Month(), d.Day())
	}
}
