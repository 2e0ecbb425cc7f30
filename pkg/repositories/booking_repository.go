package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lodgic-inc/hotels-engine/pkg/database"
	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// BookingRepository defines data access for enriched bookings.
type BookingRepository interface {
	// ReplaceAll swaps the stored bookings for the given batch, tagging
	// every row with the pipeline run that produced it.
	ReplaceAll(ctx context.Context, bookings []models.Booking, runID uuid.UUID) error
	List(ctx context.Context) ([]models.Booking, error)
}

type bookingRepository struct {
	db *database.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *database.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) ReplaceAll(ctx context.Context, bookings []models.Booking, runID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM actions"); err != nil {
		return fmt.Errorf("failed to clear actions: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM bookings"); err != nil {
		return fmt.Errorf("failed to clear bookings: %w", err)
	}

	columns := []string{
		"reservation_id", "hotel", "is_canceled", "lead_time",
		"n_lodgers", "adults", "children", "babies", "meal", "country",
		"market_segment", "distribution_channel",
		"reserved_room_type", "assigned_room_type", "adr",
		"required_car_parking_spaces", "reservation_status",
		"status_date", "arrival_date", "n_nights", "departure_date",
		"total_transaction", "is_last_minute_cancellation",
		"actual_departure_date", "n_stay_actual", "is_early_departure",
		"breakfast", "lunch", "dinner", "run_id",
	}
	_, err = tx.CopyFrom(ctx, pgx.Identifier{"bookings"}, columns,
		pgx.CopyFromSlice(len(bookings), func(i int) ([]any, error) {
			b := &bookings[i]
			return []any{
				b.ReservationID, b.Hotel.String(), b.IsCanceled, b.LeadTime,
				b.NLodgers, b.Adults, b.Children, b.Babies, b.Meal.String(), b.Country,
				b.MarketSegment, b.DistributionChannel,
				b.ReservedRoomType, b.AssignedRoomType, b.ADR,
				b.RequiredCarParkingSpaces, b.ReservationStatus.String(),
				b.StatusDate, b.ArrivalDate, b.NNights, b.DepartureDate,
				b.TotalTransaction, b.IsLastMinuteCancellation,
				b.ActualDepartureDate, b.NStayActual, b.IsEarlyDeparture,
				b.Breakfast, b.Lunch, b.Dinner, runID,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to copy bookings: %w", err)
	}

	return tx.Commit(ctx)
}

const selectBookings = `
SELECT reservation_id, hotel, is_canceled, lead_time,
       n_lodgers, adults, children, babies, meal, country,
       market_segment, distribution_channel,
       reserved_room_type, assigned_room_type, adr,
       required_car_parking_spaces, reservation_status,
       status_date, arrival_date, n_nights, departure_date,
       total_transaction, is_last_minute_cancellation,
       actual_departure_date, n_stay_actual, is_early_departure,
       breakfast, lunch, dinner
FROM bookings
ORDER BY reservation_id`

func (r *bookingRepository) List(ctx context.Context) ([]models.Booking, error) {
	rows, err := r.db.Query(ctx, selectBookings)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		var (
			b                  models.Booking
			hotel, meal, state string
		)
		if err := rows.Scan(
			&b.ReservationID, &hotel, &b.IsCanceled, &b.LeadTime,
			&b.NLodgers, &b.Adults, &b.Children, &b.Babies, &meal, &b.Country,
			&b.MarketSegment, &b.DistributionChannel,
			&b.ReservedRoomType, &b.AssignedRoomType, &b.ADR,
			&b.RequiredCarParkingSpaces, &state,
			&b.StatusDate, &b.ArrivalDate, &b.NNights, &b.DepartureDate,
			&b.TotalTransaction, &b.IsLastMinuteCancellation,
			&b.ActualDepartureDate, &b.NStayActual, &b.IsEarlyDeparture,
			&b.Breakfast, &b.Lunch, &b.Dinner,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		if b.Hotel, err = models.ParseHotel(hotel); err != nil {
			return nil, fmt.Errorf("booking %s: %w", b.ReservationID, err)
		}
		if b.ReservationStatus, err = models.ParseReservationStatus(state); err != nil {
			return nil, fmt.Errorf("booking %s: %w", b.ReservationID, err)
		}
		b.Meal = models.ParseMealPlan(meal)
		b.StatusDate = b.StatusDate.UTC()
		b.ArrivalDate = b.ArrivalDate.UTC()
		b.DepartureDate = b.DepartureDate.UTC()
		if b.ActualDepartureDate != nil {
			utc := b.ActualDepartureDate.UTC()
			b.ActualDepartureDate = &utc
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}
	return out, nil
}
