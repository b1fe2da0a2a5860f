package repository

import (
	"context"

	"staysync-service/internal/domain/entity"
)

// SyncRunRepository defines the interface for the append-only sync
// attempt audit trail.
type SyncRunRepository interface {
	Record(ctx context.Context, run *entity.SyncRun) error
	ListRecent(ctx context.Context, propertyID string, limit int) ([]*entity.SyncRun, error)
}
