package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// PostgresSource reads raw reservations from the warehouse's own
// reservations table, populated by the ingest tool.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) Kind() string { return "postgres" }

// Close is a no-op; the pool is owned by the caller.
func (s *PostgresSource) Close() error { return nil }

const selectReservations = `
SELECT reservation_id, hotel, is_canceled, lead_time,
       arrival_date_year, arrival_date_month, arrival_date_day_of_month,
       stays_in_weekend_nights, stays_in_week_nights,
       adults, children, babies, meal, country,
       market_segment, distribution_channel,
       reserved_room_type, assigned_room_type, adr,
       required_car_parking_spaces, reservation_status, reservation_status_date
FROM reservations
ORDER BY reservation_id`

func (s *PostgresSource) Load(ctx context.Context) ([]models.RawReservation, error) {
	rows, err := s.pool.Query(ctx, selectReservations)
	if err != nil {
		return nil, fmt.Errorf("querying reservations: %w", err)
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
