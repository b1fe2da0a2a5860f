package repository

import (
	"context"

	"staysync-service/internal/domain/entity"
)

// FeedRepository defines the interface for external calendar feed
// configuration and sync-status bookkeeping.
type FeedRepository interface {
	Create(ctx context.Context, feed *entity.ExternalCalendarFeed) error
	GetByID(ctx context.Context, id string) (*entity.ExternalCalendarFeed, error)
	ListByProperty(ctx context.Context, propertyID string) ([]*entity.ExternalCalendarFeed, error)
	// ListActiveByProperty returns active feeds in configuration order
	// (creation order); the orchestrator syncs them in this order.
	ListActiveByProperty(ctx context.Context, propertyID string) ([]*entity.ExternalCalendarFeed, error)
	// ListPropertiesWithActiveFeeds returns the ids of every property
	// that has at least one active feed, for scheduler boot.
	ListPropertiesWithActiveFeeds(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
	MarkSyncing(ctx context.Context, id string) error
	MarkSuccess(ctx context.Context, id string) error
	MarkError(ctx context.Context, id, syncError string) error
}
