package repository

import (
	"context"
	"time"

	"staysync-service/internal/domain/entity"
)

// CalendarRepository defines the interface for per-date calendar
// override storage.
type CalendarRepository interface {
	Upsert(ctx context.Context, row *entity.CalendarDate) error
	GetByPropertyAndDate(ctx context.Context, propertyID string, date time.Time) (*entity.CalendarDate, error)
	ListRange(ctx context.Context, propertyID string, from, to time.Time) ([]*entity.CalendarDate, error)
	DeleteByPropertyAndDate(ctx context.Context, propertyID string, date time.Time) error
	// DeleteByPropertyAndNotes removes only the rows carrying the exact
	// provenance note, leaving host overrides and other sources' rows
	// alone.
	DeleteByPropertyAndNotes(ctx context.Context, propertyID, notes string) error
	DeleteAllForProperty(ctx context.Context, propertyID string) error
	// ReplaceSourceBlocks atomically swaps every row derived from the
	// named feed source for fresh ones, in a single transaction, so a
	// resync never exposes a half-empty calendar.
	ReplaceSourceBlocks(ctx context.Context, propertyID, sourceName string, rows []*entity.CalendarDate) error
}
