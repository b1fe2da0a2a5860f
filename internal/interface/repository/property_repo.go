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

// GormPropertyRepository implements the PropertyRepository interface
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GORM property repository
func NewGormPropertyRepository(db *gorm.DB) repository.PropertyRepository {
	return &GormPropertyRepository{
		db: db,
	}
}

// Properties GORM model for database mapping
type Properties struct {
	ID                string  `gorm:"primaryKey;column:id"`
	HostID            string  `gorm:"column:host_id;index"`
	Title             string  `gorm:"column:title"`
	DefaultPrice      float64 `gorm:"column:default_price"`
	DefaultMinStay    int     `gorm:"column:default_min_stay"`
	InstantBook       bool    `gorm:"column:instant_book"`
	AdvanceNoticeDays int     `gorm:"column:advance_notice_days"`
	Currency          string  `gorm:"column:currency"`
	IsActive          bool    `gorm:"column:is_active"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName overrides the default table name
func (Properties) TableName() string {
	return "properties"
}

// Save creates or replaces the property settings record
func (r *GormPropertyRepository) Save(ctx context.Context, property *entity.Property) error {
	model := Properties{
		ID:                property.ID,
		HostID:            property.HostID,
		Title:             property.Title,
		DefaultPrice:      property.DefaultPrice,
		DefaultMinStay:    property.DefaultMinStay,
		InstantBook:       property.InstantBook,
		AdvanceNoticeDays: property.AdvanceNoticeDays,
		Currency:          property.Currency,
		IsActive:          property.IsActive,
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&model)
	return result.Error
}

// GetByID finds a property by id
func (r *GormPropertyRepository) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	var model Properties
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, result.Error
	}

	return &entity.Property{
		ID:                model.ID,
		HostID:            model.HostID,
		Title:             model.Title,
		DefaultPrice:      model.DefaultPrice,
		DefaultMinStay:    model.DefaultMinStay,
		InstantBook:       model.InstantBook,
		AdvanceNoticeDays: model.AdvanceNoticeDays,
		Currency:          model.Currency,
		IsActive:          model.IsActive,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}, nil
}

// UpdateDefaults writes a new property-wide default policy
func (r *GormPropertyRepository) UpdateDefaults(ctx context.Context, id string, price float64, minStay int, instantBook bool, advanceNoticeDays int) error {
	result := r.db.WithContext(ctx).
		Model(&Properties{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"default_price":       price,
			"default_min_stay":    minStay,
			"instant_book":        instantBook,
			"advance_notice_days": advanceNoticeDays,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}
