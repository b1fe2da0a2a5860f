package repository

import (
	"context"
	"errors"
	"time"

	"staysync-service/internal/domain/entity"
	"staysync-service/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCalendarRepository implements the CalendarRepository interface
type GormCalendarRepository struct {
	db *gorm.DB
}

// NewGormCalendarRepository creates a new GORM calendar repository
func NewGormCalendarRepository(db *gorm.DB) repository.CalendarRepository {
	return &GormCalendarRepository{
		db: db,
	}
}

// CalendarDates GORM model for database mapping
type CalendarDates struct {
	ID             uint      `gorm:"primaryKey"`
	PropertyID     string    `gorm:"column:property_id;uniqueIndex:idx_calendar_property_date"`
	Date           time.Time `gorm:"column:date;uniqueIndex:idx_calendar_property_date"`
	IsAvailable    bool      `gorm:"column:is_available"`
	Price          *float64  `gorm:"column:price"`
	MinimumStay    *int      `gorm:"column:minimum_stay"`
	InstantBook    bool      `gorm:"column:instant_book"`
	SourceFeedName string    `gorm:"column:source_feed_name;index"`
	Notes          string    `gorm:"column:notes"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides the default table name
func (CalendarDates) TableName() string {
	return "calendar_dates"
}

func calendarModel(row *entity.CalendarDate) CalendarDates {
	return CalendarDates{
		ID:             row.ID,
		PropertyID:     row.PropertyID,
		Date:           row.Date,
		IsAvailable:    row.IsAvailable,
		Price:          row.Price,
		MinimumStay:    row.MinimumStay,
		InstantBook:    row.InstantBook,
		SourceFeedName: row.SourceFeedName,
		Notes:          row.Notes,
	}
}

func calendarEntity(model *CalendarDates) *entity.CalendarDate {
	return &entity.CalendarDate{
		ID:             model.ID,
		PropertyID:     model.PropertyID,
		Date:           model.Date,
		IsAvailable:    model.IsAvailable,
		Price:          model.Price,
		MinimumStay:    model.MinimumStay,
		InstantBook:    model.InstantBook,
		SourceFeedName: model.SourceFeedName,
		Notes:          model.Notes,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// Upsert writes one per-date row, replacing any existing row for the
// same (property_id, date). Last write wins, no merge with prior values.
func (r *GormCalendarRepository) Upsert(ctx context.Context, row *entity.CalendarDate) error {
	model := calendarModel(row)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "property_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_available", "price", "minimum_stay", "instant_book", "source_feed_name", "notes", "updated_at",
		}),
	}).Create(&model)
	return result.Error
}

// GetByPropertyAndDate finds the override row for one property day
func (r *GormCalendarRepository) GetByPropertyAndDate(ctx context.Context, propertyID string, date time.Time) (*entity.CalendarDate, error) {
	var model CalendarDates
	result := r.db.WithContext(ctx).
		Where("property_id = ? AND date = ?", propertyID, date).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, result.Error
	}
	return calendarEntity(&model), nil
}

// ListRange returns the override rows for [from, to), ordered by date
func (r *GormCalendarRepository) ListRange(ctx context.Context, propertyID string, from, to time.Time) ([]*entity.CalendarDate, error) {
	var models []CalendarDates
	result := r.db.WithContext(ctx).
		Where("property_id = ? AND date >= ? AND date < ?", propertyID, from, to).
		Order("date asc").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	rows := make([]*entity.CalendarDate, 0, len(models))
	for i := range models {
		rows = append(rows, calendarEntity(&models[i]))
	}
	return rows, nil
}

// DeleteByPropertyAndDate removes the override row for one day, used
// when a cancelled booking reopens its nights
func (r *GormCalendarRepository) DeleteByPropertyAndDate(ctx context.Context, propertyID string, date time.Time) error {
	result := r.db.WithContext(ctx).
		Where("property_id = ? AND date = ?", propertyID, date).
		Delete(&CalendarDates{})
	return result.Error
}

// DeleteByPropertyAndNotes removes exactly the rows carrying the given
// provenance note, used when a cancelled booking reopens the nights it
// blocked without touching host overrides or synced rows
func (r *GormCalendarRepository) DeleteByPropertyAndNotes(ctx context.Context, propertyID, notes string) error {
	result := r.db.WithContext(ctx).
		Where("property_id = ? AND notes = ?", propertyID, notes).
		Delete(&CalendarDates{})
	return result.Error
}

// DeleteAllForProperty wipes every override row for the property, used
// by the primary-default bulk apply
func (r *GormCalendarRepository) DeleteAllForProperty(ctx context.Context, propertyID string) error {
	result := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Delete(&CalendarDates{})
	return result.Error
}

// ReplaceSourceBlocks swaps all rows derived from one feed source for
// the freshly parsed set inside a single transaction, so a resync never
// shows a partially emptied calendar.
func (r *GormCalendarRepository) ReplaceSourceBlocks(ctx context.Context, propertyID, sourceName string, rows []*entity.CalendarDate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("property_id = ? AND source_feed_name = ?", propertyID, sourceName).
			Delete(&CalendarDates{}).Error; err != nil {
			return err
		}

		for _, row := range rows {
			model := calendarModel(row)
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "property_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"is_available", "price", "minimum_stay", "instant_book", "source_feed_name", "notes", "updated_at",
				}),
			}).Create(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
