package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lodgic-inc/hotels-engine/pkg/database"
	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// ActionRepository defines data access for the expanded occupancy timeline.
type ActionRepository interface {
	// ReplaceAll swaps the stored actions for the given batch, tagging
	// every row with the pipeline run that produced it.
	ReplaceAll(ctx context.Context, actions []models.Action, runID uuid.UUID) error
	List(ctx context.Context) ([]models.Action, error)
}

type actionRepository struct {
	db *database.DB
}

// NewActionRepository creates a new action repository.
func NewActionRepository(db *database.DB) ActionRepository {
	return &actionRepository{db: db}
}

func (r *actionRepository) ReplaceAll(ctx context.Context, actions []models.Action, runID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM actions"); err != nil {
		return fmt.Errorf("failed to clear actions: %w", err)
	}

	columns := []string{"reservation_id", "date", "action", "run_id"}
	_, err = tx.CopyFrom(ctx, pgx.Identifier{"actions"}, columns,
		pgx.CopyFromSlice(len(actions), func(i int) ([]any, error) {
			a := &actions[i]
			return []any{a.ReservationID, a.Date, a.Action.String(), runID}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to copy actions: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *actionRepository) List(ctx context.Context) ([]models.Action, error) {
	rows, err := r.db.Query(ctx, `
SELECT reservation_id, date, action
FROM actions
ORDER BY reservation_id, date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	var out []models.Action
	for rows.Next() {
		var (
			a    models.Action
			kind string
		)
		if err := rows.Scan(&a.ReservationID, &a.Date, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		if a.Action, err = models.ParseActionType(kind); err != nil {
			return nil, fmt.Errorf("action %s/%s: %w", a.ReservationID, a.Date, err)
		}
		a.Date = a.Date.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read actions: %w", err)
	}
	return out, nil
}
