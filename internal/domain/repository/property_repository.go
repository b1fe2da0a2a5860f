package repository

import (
	"context"

	"staysync-service/internal/domain/entity"
)

// PropertyRepository defines the interface for property default-policy
// storage.
type PropertyRepository interface {
	Save(ctx context.Context, property *entity.Property) error
	GetByID(ctx context.Context, id string) (*entity.Property, error)
	UpdateDefaults(ctx context.Context, id string, price float64, minStay int, instantBook bool, advanceNoticeDays int) error
}
