package repository

import (
	"context"
	"errors"
	"time"

	"staysync-service/internal/domain/entity"
	"staysync-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormFeedRepository implements the FeedRepository interface
type GormFeedRepository struct {
	db *gorm.DB
}

// NewGormFeedRepository creates a new GORM feed repository
func NewGormFeedRepository(db *gorm.DB) repository.FeedRepository {
	return &GormFeedRepository{
		db: db,
	}
}

// ExternalCalendarFeeds GORM model for database mapping
type ExternalCalendarFeeds struct {
	ID         string     `gorm:"primaryKey;column:id"`
	PropertyID string     `gorm:"column:property_id;index"`
	Name       string     `gorm:"column:name"`
	URL        string     `gorm:"column:url"`
	IsActive   bool       `gorm:"column:is_active"`
	SyncStatus string     `gorm:"column:sync_status"`
	SyncError  string     `gorm:"column:sync_error"`
	LastSyncAt *time.Time `gorm:"column:last_sync_at"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides the default table name
func (ExternalCalendarFeeds) TableName() string {
	return "external_calendar_feeds"
}

func feedEntity(m *ExternalCalendarFeeds) *entity.ExternalCalendarFeed {
	return &entity.ExternalCalendarFeed{
		ID:         m.ID,
		PropertyID: m.PropertyID,
		Name:       m.Name,
		URL:        m.URL,
		IsActive:   m.IsActive,
		SyncStatus: m.SyncStatus,
		SyncError:  m.SyncError,
		LastSyncAt: m.LastSyncAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// Create inserts a new feed subscription
func (r *GormFeedRepository) Create(ctx context.Context, feed *entity.ExternalCalendarFeed) error {
	if feed.SyncStatus == "" {
		feed.SyncStatus = entity.SyncPending
	}
	model := ExternalCalendarFeeds{
		ID:         feed.ID,
		PropertyID: feed.PropertyID,
		Name:       feed.Name,
		URL:        feed.URL,
		IsActive:   feed.IsActive,
		SyncStatus: feed.SyncStatus,
		SyncError:  feed.SyncError,
		LastSyncAt: feed.LastSyncAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// GetByID finds a feed by id
func (r *GormFeedRepository) GetByID(ctx context.Context, id string) (*entity.ExternalCalendarFeed, error) {
	var model ExternalCalendarFeeds
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, result.Error
	}
	return feedEntity(&model), nil
}

// ListByProperty returns every feed configured for a property in
// configuration (creation) order
func (r *GormFeedRepository) ListByProperty(ctx context.Context, propertyID string) ([]*entity.ExternalCalendarFeed, error) {
	return r.list(ctx, r.db.Where("property_id = ?", propertyID))
}

// ListActiveByProperty returns the active feeds for a property in
// configuration order; the orchestrator syncs them sequentially in
// exactly this order
func (r *GormFeedRepository) ListActiveByProperty(ctx context.Context, propertyID string) ([]*entity.ExternalCalendarFeed, error) {
	return r.list(ctx, r.db.Where("property_id = ? AND is_active = ?", propertyID, true))
}

func (r *GormFeedRepository) list(ctx context.Context, query *gorm.DB) ([]*entity.ExternalCalendarFeed, error) {
	var models []ExternalCalendarFeeds
	result := query.WithContext(ctx).Order("created_at asc").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	feeds := make([]*entity.ExternalCalendarFeed, 0, len(models))
	for i := range models {
		feeds = append(feeds, feedEntity(&models[i]))
	}
	return feeds, nil
}

// ListPropertiesWithActiveFeeds returns distinct property ids that have
// at least one active feed, used to start schedulers at boot
func (r *GormFeedRepository) ListPropertiesWithActiveFeeds(ctx context.Context) ([]string, error) {
	var ids []string
	result := r.db.WithContext(ctx).
		Model(&ExternalCalendarFeeds{}).
		Where("is_active = ?", true).
		Distinct("property_id").
		Pluck("property_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}

// Delete removes a feed subscription
func (r *GormFeedRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ExternalCalendarFeeds{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// MarkSyncing stamps the start of a sync attempt
func (r *GormFeedRepository) MarkSyncing(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return r.updateStatus(ctx, id, map[string]interface{}{
		"sync_status":  entity.SyncSyncing,
		"last_sync_at": &now,
	})
}

// MarkSuccess records a completed sync attempt and clears any prior error
func (r *GormFeedRepository) MarkSuccess(ctx context.Context, id string) error {
	return r.updateStatus(ctx, id, map[string]interface{}{
		"sync_status": entity.SyncSuccess,
		"sync_error":  "",
	})
}

// MarkError records a failed sync attempt with a human-readable cause
func (r *GormFeedRepository) MarkError(ctx context.Context, id, syncError string) error {
	return r.updateStatus(ctx, id, map[string]interface{}{
		"sync_status": entity.SyncError,
		"sync_error":  syncError,
	})
}

func (r *GormFeedRepository) updateStatus(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&ExternalCalendarFeeds{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}
