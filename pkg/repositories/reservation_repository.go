// Package repositories implements warehouse data access on PostgreSQL.
// Derived tables are replaced wholesale inside a transaction, so readers
// always see a complete, internally consistent dataset.
package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lodgic-inc/hotels-engine/pkg/database"
	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// ReservationRepository defines data access for raw reservations.
type ReservationRepository interface {
	// ReplaceAll swaps the stored reservations for the given batch.
	ReplaceAll(ctx context.Context, reservations []models.RawReservation) error
	Count(ctx context.Context) (int, error)
}

type reservationRepository struct {
	db *database.DB
}

// NewReservationRepository creates a new reservation repository.
func NewReservationRepository(db *database.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) ReplaceAll(ctx context.Context, reservations []models.RawReservation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Derived tables reference reservations, clear them first.
	for _, table := range []string{"actions", "bookings", "reservations"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	columns := []string{
		"reservation_id", "hotel", "is_canceled", "lead_time",
		"arrival_date_year", "arrival_date_month", "arrival_date_day_of_month",
		"stays_in_weekend_nights", "stays_in_week_nights",
		"adults", "children", "babies", "meal", "country",
		"market_segment", "distribution_channel",
		"reserved_room_type", "assigned_room_type", "adr",
		"required_car_parking_spaces", "reservation_status", "reservation_status_date",
	}
	_, err = tx.CopyFrom(ctx, pgx.Identifier{"reservations"}, columns,
		pgx.CopyFromSlice(len(reservations), func(i int) ([]any, error) {
			v := &reservations[i]
			return []any{
				v.ReservationID, v.Hotel.String(), v.IsCanceled, v.LeadTime,
				v.ArrivalYear, v.ArrivalMonth, v.ArrivalDayOfMonth,
				v.StaysInWeekendNights, v.StaysInWeekNights,
				v.Adults, v.Children, v.Babies, v.Meal.String(), v.Country,
				v.MarketSegment, v.DistributionChannel,
				v.ReservedRoomType, v.AssignedRoomType, v.ADR,
				v.RequiredCarParkingSpaces, v.ReservationStatus.String(), v.ReservationStatusDate,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to copy reservations: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *reservationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM reservations").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return n, nil
}
