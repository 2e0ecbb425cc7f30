// Package source loads raw reservations from the supported upstream
// systems. The pipeline only sees the ReservationSource interface; which
// concrete source backs it is a configuration concern.
package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lodgic-inc/hotels-engine/pkg/apperrors"
	"github.com/lodgic-inc/hotels-engine/pkg/config"
	"github.com/lodgic-inc/hotels-engine/pkg/models"
)

// ReservationSource loads the full raw reservation batch.
type ReservationSource interface {
	// Load reads every reservation the source holds. Implementations
	// return rows in a stable order so repeated runs are comparable.
	Load(ctx context.Context) ([]models.RawReservation, error)

	// Kind identifies the source for logging.
	Kind() string

	Close() error
}

// New builds the configured source. The warehouse pool backs the "postgres"
// kind; CSV and SQL Server sources open their own connections.
func New(cfg config.SourceConfig, pool *pgxpool.Pool) (ReservationSource, error) {
	switch cfg.Kind {
	case "csv":
		return NewCSVSource(cfg.CSVPath), nil
	case "postgres":
		return NewPostgresSource(pool), nil
	case "mssql":
		return NewMSSQLSource(cfg.MSSQL)
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Kind, apperrors.ErrUnknownSource)
	}
}
