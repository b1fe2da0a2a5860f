package repository

import (
	"context"
	"errors"
	"time"

	"staysync-service/internal/domain/entity"
	"staysync-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormBookingRepository implements the BookingRepository interface
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GORM booking repository
func NewGormBookingRepository(db *gorm.DB) repository.BookingRepository {
	return &GormBookingRepository{
		db: db,
	}
}

// Bookings GORM model for database mapping
type Bookings struct {
	ID         string    `gorm:"primaryKey;column:id"`
	PropertyID string    `gorm:"column:property_id;index"`
	GuestID    string    `gorm:"column:guest_id"`
	CheckIn    time.Time `gorm:"column:check_in"`
	CheckOut   time.Time `gorm:"column:check_out"`
	Status     string    `gorm:"column:status;index"`
	Guests     int       `gorm:"column:guests"`
	NightPrice float64   `gorm:"column:night_price"`
	TotalPrice float64   `gorm:"column:total_price"`
	Currency   string    `gorm:"column:currency"`
	PaymentRef string    `gorm:"column:payment_ref"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides the default table name
func (Bookings) TableName() string {
	return "bookings"
}

func bookingModel(b *entity.Booking) Bookings {
	return Bookings{
		ID:         b.ID,
		PropertyID: b.PropertyID,
		GuestID:    b.GuestID,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		Status:     b.Status,
		Guests:     b.Guests,
		NightPrice: b.NightPrice,
		TotalPrice: b.TotalPrice,
		Currency:   b.Currency,
		PaymentRef: b.PaymentRef,
	}
}

func bookingEntity(m *Bookings) *entity.Booking {
	return &entity.Booking{
		ID:         m.ID,
		PropertyID: m.PropertyID,
		GuestID:    m.GuestID,
		CheckIn:    m.CheckIn,
		CheckOut:   m.CheckOut,
		Status:     m.Status,
		Guests:     m.Guests,
		NightPrice: m.NightPrice,
		TotalPrice: m.TotalPrice,
		Currency:   m.Currency,
		PaymentRef: m.PaymentRef,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// CreateIfNoConflict checks the half-open overlap predicate against all
// non-cancelled bookings for the property and inserts the new booking,
// all inside one transaction. A per-property advisory lock serializes
// concurrent submissions; row locks cannot, since when no conflicting
// row exists yet there is nothing for FOR UPDATE to lock and both
// transactions would pass the check.
func (r *GormBookingRepository) CreateIfNoConflict(ctx context.Context, booking *entity.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", booking.PropertyID).Error; err != nil {
			return err
		}

		var conflict Bookings
		result := tx.
			Where("property_id = ? AND status <> ? AND check_in < ? AND check_out > ?",
				booking.PropertyID, entity.BookingCancelled, booking.CheckOut, booking.CheckIn).
			First(&conflict)
		if result.Error == nil {
			return &entity.DatesUnavailableError{
				PropertyID: booking.PropertyID,
				CheckIn:    conflict.CheckIn,
				CheckOut:   conflict.CheckOut,
			}
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		model := bookingModel(booking)
		return tx.Create(&model).Error
	})
}

// GetByID finds a booking by id
func (r *GormBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	var model Bookings
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, result.Error
	}
	return bookingEntity(&model), nil
}

// ListByProperty returns every booking for a property, newest first
func (r *GormBookingRepository) ListByProperty(ctx context.Context, propertyID string) ([]*entity.Booking, error) {
	var models []Bookings
	result := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("check_in desc").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	bookings := make([]*entity.Booking, 0, len(models))
	for i := range models {
		bookings = append(bookings, bookingEntity(&models[i]))
	}
	return bookings, nil
}

// ListOverlapping returns non-cancelled bookings intersecting the
// half-open [checkIn, checkOut) range
func (r *GormBookingRepository) ListOverlapping(ctx context.Context, propertyID string, checkIn, checkOut time.Time) ([]*entity.Booking, error) {
	var models []Bookings
	result := r.db.WithContext(ctx).
		Where("property_id = ? AND status <> ? AND check_in < ? AND check_out > ?",
			propertyID, entity.BookingCancelled, checkOut, checkIn).
		Order("check_in asc").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	bookings := make([]*entity.Booking, 0, len(models))
	for i := range models {
		bookings = append(bookings, bookingEntity(&models[i]))
	}
	return bookings, nil
}

// FindConfirmedCovering returns the confirmed booking occupying the
// given night, if any
func (r *GormBookingRepository) FindConfirmedCovering(ctx context.Context, propertyID string, date time.Time) (*entity.Booking, error) {
	var model Bookings
	result := r.db.WithContext(ctx).
		Where("property_id = ? AND status = ? AND check_in <= ? AND check_out > ?",
			propertyID, entity.BookingConfirmed, date, date).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, result.Error
	}
	return bookingEntity(&model), nil
}

// UpdateStatus changes a booking's lifecycle status
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&Bookings{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}
