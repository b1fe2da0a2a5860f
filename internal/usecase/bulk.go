package usecase

import (
	"context"
	"fmt"

	"staysync-service/internal/domain/entity"
	"staysync-service/internal/domain/repository"
	"staysync-service/pkg/logger"
	"staysync-service/pkg/utils"
)

// DefaultSettings is the property-wide policy written by primary mode.
type DefaultSettings struct {
	Price             float64 `json:"price"`
	MinimumStay       int     `json:"minimumStay"`
	InstantBook       bool    `json:"instantBook"`
	AdvanceNoticeDays int     `json:"advanceNoticeDays"`
}

// RangeSettings is the per-date override written by range mode.
type RangeSettings struct {
	StartDate   string   `json:"startDate"` // inclusive
	EndDate     string   `json:"endDate"`   // inclusive
	IsAvailable bool     `json:"isAvailable"`
	Price       *float64 `json:"price"`
	MinimumStay *int     `json:"minimumStay"`
	InstantBook bool     `json:"instantBook"`
}

// BulkApplier lets a host set pricing and availability either as the
// property-wide default or for an explicit date range.
type BulkApplier struct {
	calendarRepo repository.CalendarRepository
	propertyRepo repository.PropertyRepository
	logger       logger.Logger
}

// NewBulkApplier creates a new bulk settings applier
func NewBulkApplier(
	calendarRepo repository.CalendarRepository,
	propertyRepo repository.PropertyRepository,
	logger logger.Logger,
) *BulkApplier {
	return &BulkApplier{
		calendarRepo: calendarRepo,
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

// ApplyDefaults runs primary mode: wipe every per-date override for
// the property, then write the new default policy. No future rows are
// materialized; row absence plus the resolver's default fallback keeps
// storage bounded regardless of horizon. The wipe is destructive and
// removes externally synced blocks too; the next sync cycle re-derives
// them.
func (a *BulkApplier) ApplyDefaults(ctx context.Context, propertyID string, settings *DefaultSettings) error {
	if settings.Price < 0 {
		return fmt.Errorf("%w: default price must not be negative", entity.ErrInvalidInput)
	}

	if err := a.calendarRepo.DeleteAllForProperty(ctx, propertyID); err != nil {
		return fmt.Errorf("wiping calendar overrides: %w", err)
	}

	if err := a.propertyRepo.UpdateDefaults(ctx, propertyID,
		settings.Price, settings.MinimumStay, settings.InstantBook, settings.AdvanceNoticeDays); err != nil {
		return fmt.Errorf("writing default policy: %w", err)
	}

	a.logger.Info("Applied primary default settings",
		"propertyId", propertyID, "price", settings.Price, "minStay", settings.MinimumStay)
	return nil
}

// ApplyRange runs range mode: one override row per date in the
// inclusive [StartDate, EndDate] range, last write wins, no merge with
// prior row contents. A failure partway is surfaced as
// *entity.BulkApplyPartialError with the applied/requested counts.
func (a *BulkApplier) ApplyRange(ctx context.Context, propertyID string, settings *RangeSettings) (int, error) {
	start, err := utils.ParseDate(settings.StartDate)
	if err != nil {
		return 0, fmt.Errorf("%w: startDate %q is not a YYYY-MM-DD date", entity.ErrInvalidInput, settings.StartDate)
	}
	end, err := utils.ParseDate(settings.EndDate)
	if err != nil {
		return 0, fmt.Errorf("%w: endDate %q is not a YYYY-MM-DD date", entity.ErrInvalidInput, settings.EndDate)
	}
	if end.Before(start) {
		return 0, fmt.Errorf("%w: endDate precedes startDate", entity.ErrInvalidInput)
	}

	days := utils.DaysInclusive(start, end)
	applied := 0
	for _, d := range days {
		row := &entity.CalendarDate{
			PropertyID:  propertyID,
			Date:        d,
			IsAvailable: settings.IsAvailable,
			Price:       settings.Price,
			MinimumStay: settings.MinimumStay,
			InstantBook: settings.InstantBook,
		}
		if err := a.calendarRepo.Upsert(ctx, row); err != nil {
			a.logger.Error("Bulk range apply failed partway",
				"propertyId", propertyID, "date", utils.FormatDate(d),
				"applied", applied, "requested", len(days), "error", err)
			return applied, &entity.BulkApplyPartialError{
				Applied:   applied,
				Requested: len(days),
				Cause:     err,
			}
		}
		applied++
	}

	a.logger.Info("Applied range settings",
		"propertyId", propertyID, "from", settings.StartDate, "to", settings.EndDate, "dates", applied)
	return applied, nil
}
