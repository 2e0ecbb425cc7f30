package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/lodgic-inc/hotels-engine/pkg/config"
	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// MSSQLSource reads raw reservations from a SQL Server table mirroring the
// warehouse schema, for installations that keep the booking system of record
// on SQL Server.
type MSSQLSource struct {
	db    *sql.DB
	table string
}

func NewMSSQLSource(cfg config.MSSQLConfig) (*MSSQLSource, error) {
	db, err := sql.Open("sqlserver", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("opening sqlserver connection: %w", err)
	}
	return &MSSQLSource{db: db, table: cfg.Table}, nil
}

func (s *MSSQLSource) Kind() string { return "mssql" }

func (s *MSSQLSource) Close() error { return s.db.Close() }

func (s *MSSQLSource) Load(ctx context.Context) ([]models.RawReservation, error) {
	query := fmt.Sprintf(`
SELECT reservation_id, hotel, is_canceled, lead_time,
       arrival_date_year, arrival_date_month, arrival_date_day_of_month,
       stays_in_weekend_nights, stays_in_week_nights,
       adults, children, babies, meal, country,
       market_segment, distribution_channel,
       reserved_room_type, assigned_room_type, adr,
       required_car_parking_spaces, reservation_status, reservation_status_date
FROM %s
ORDER BY reservation_id`, s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []models.RawReservation
	for rows.Next() {
		var (
			r                  models.RawReservation
			hotel, meal, state string
		)
		if err := rows.Scan(
			&r.ReservationID, &hotel, &r.IsCanceled, &r.LeadTime,
			&r.ArrivalYear, &r.ArrivalMonth, &r.ArrivalDayOfMonth,
			&r.StaysInWeekendNights, &r.StaysInWeekNights,
			&r.Adults, &r.Children, &r.Babies, &meal, &r.Country,
			&r.MarketSegment, &r.DistributionChannel,
			&r.ReservedRoomType, &r.AssignedRoomType, &r.ADR,
			&r.RequiredCarParkingSpaces, &state, &r.ReservationStatusDate,
		); err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}
		if r.Hotel, err = models.ParseHotel(hotel); err != nil {
			return nil, fmt.Errorf("reservation %s: %w", r.ReservationID, err)
		}
		if r.ReservationStatus, err = models.ParseReservationStatus(state); err != nil {
			return nil, fmt.Errorf("reservation %s: %w", r.ReservationID, err)
		}
		r.Meal = models.ParseMealPlan(meal)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading reservations: %w", err)
	}
	return out, nil
}
