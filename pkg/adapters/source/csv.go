package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// CSVSource reads the public hotel-bookings CSV, either from a local path
// or over http(s). The file carries no reservation identifiers, so the
// source assigns them: a hotel prefix plus a per-hotel running number, in
// file order.
type CSVSource struct {
	path   string
	client *http.Client
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path, client: http.DefaultClient}
}

func (s *CSVSource) Kind() string { return "csv" }

func (s *CSVSource) Close() error { return nil }

func (s *CSVSource) Load(ctx context.Context) ([]models.RawReservation, error) {
	r, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ParseReservations(r)
}

func (s *CSVSource) open(ctx context.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(s.path, "http://") || strings.HasPrefix(s.path, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.path, nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", s.path, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: status %d", s.path, resp.StatusCode)
		}
		return resp.Body, nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	return f, nil
}

// ParseReservations decodes the raw CSV. Columns are located by header name
// so column order does not matter; unknown columns are ignored.
func ParseReservations(r io.Reader) ([]models.RawReservation, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{
		"hotel", "is_canceled", "lead_time",
		"arrival_date_year", "arrival_date_month", "arrival_date_day_of_month",
		"stays_in_weekend_nights", "stays_in_week_nights",
		"adults", "children", "babies", "meal", "country",
		"market_segment", "distribution_channel",
		"reserved_room_type", "assigned_room_type", "adr",
		"required_car_parking_spaces", "reservation_status", "reservation_status_date",
	} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	counters := make(map[models.Hotel]int)
	var out []models.RawReservation
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		field := func(name string) string {
			return strings.TrimSpace(record[col[name]])
		}

		hotel, err := models.ParseHotel(field("hotel"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		status, err := models.ParseReservationStatus(field("reservation_status"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		raw := models.RawReservation{
			Hotel:                 hotel,
			Meal:                  models.ParseMealPlan(field("meal")),
			Country:               field("country"),
			MarketSegment:         field("market_segment"),
			DistributionChannel:   field("distribution_channel"),
			ReservedRoomType:      field("reserved_room_type"),
			AssignedRoomType:      field("assigned_room_type"),
			ArrivalMonth:          field("arrival_date_month"),
			ReservationStatus:     status,
			ReservationStatusDate: field("reservation_status_date"),
		}

		ints := []struct {
			name string
			dst  *int
		}{
			{"lead_time", &raw.LeadTime},
			{"arrival_date_year", &raw.ArrivalYear},
			{"arrival_date_day_of_month", &raw.ArrivalDayOfMonth},
			{"stays_in_weekend_nights", &raw.StaysInWeekendNights},
			{"stays_in_week_nights", &raw.StaysInWeekNights},
			{"adults", &raw.Adults},
			{"babies", &raw.Babies},
			{"required_car_parking_spaces", &raw.RequiredCarParkingSpaces},
		}
		for _, f := range ints {
			n, err := strconv.Atoi(field(f.name))
			if err != nil {
				return nil, fmt.Errorf("line %d: column %s: %w", line, f.name, err)
			}
			*f.dst = n
		}

		raw.IsCanceled, err = parseBool(field("is_canceled"))
		if err != nil {
			return nil, fmt.Errorf("line %d: column is_canceled: %w", line, err)
		}
		raw.Children, err = parseCount(field("children"))
		if err != nil {
			return nil, fmt.Errorf("line %d: column children: %w", line, err)
		}
		raw.ADR, err = strconv.ParseFloat(field("adr"), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: column adr: %w", line, err)
		}

		counters[hotel]++
		raw.ReservationID = fmt.Sprintf("%s%06d", hotel.Prefix(), counters[hotel])

		out = append(out, raw)
	}
	return out, nil
}

func parseBool(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("expected 0 or 1, got %q", s)
	}
}

// parseCount handles the children column, which the public dataset stores
// as a float with a few NA values.
func parseCount(s string) (int, error) {
	if s == "" || s == "NA" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
