package repository

import (
	"context"
	"time"

	"staysync-service/internal/domain/entity"
)

// BookingRepository defines the interface for the booking ledger.
type BookingRepository interface {
	// CreateIfNoConflict runs the half-open overlap check against all
	// non-cancelled bookings for the property and inserts the booking in
	// one transaction. Returns *entity.DatesUnavailableError on overlap.
	CreateIfNoConflict(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	ListByProperty(ctx context.Context, propertyID string) ([]*entity.Booking, error)
	// ListOverlapping returns non-cancelled bookings whose [checkIn,
	// checkOut) intersects the given half-open range.
	ListOverlapping(ctx context.Context, propertyID string, checkIn, checkOut time.Time) ([]*entity.Booking, error)
	// FindConfirmedCovering returns the confirmed booking occupying the
	// given night, or entity.ErrNotFound.
	FindConfirmedCovering(ctx context.Context, propertyID string, date time.Time) (*entity.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
