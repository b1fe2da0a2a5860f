package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staysync-service/internal/domain/entity"
	"staysync-service/internal/domain/repository"
	"staysync-service/pkg/logger"
	"staysync-service/pkg/utils"
)

// Unavailability reasons reported by the resolver.
const (
	ReasonPast    = "past"
	ReasonBooked  = "booked"
	ReasonBlocked = "blocked"
)

// DateAvailability is the resolver's per-date answer.
type DateAvailability struct {
	Date        time.Time `json:"date"`
	IsAvailable bool      `json:"isAvailable"`
	Price       float64   `json:"price"`
	MinimumStay int       `json:"minimumStay"`
	InstantBook bool      `json:"instantBook"`
	Reason      string    `json:"reason,omitempty"`
}

// AvailabilityResolver answers whether a date is bookable, at what
// price, and under what constraints, merging the calendar store, the
// booking ledger, and the current date.
type AvailabilityResolver struct {
	calendarRepo repository.CalendarRepository
	bookingRepo  repository.BookingRepository
	propertyRepo repository.PropertyRepository
	logger       logger.Logger
	now          func() time.Time
}

// NewAvailabilityResolver creates a new availability resolver
func NewAvailabilityResolver(
	calendarRepo repository.CalendarRepository,
	bookingRepo repository.BookingRepository,
	propertyRepo repository.PropertyRepository,
	logger logger.Logger,
) *AvailabilityResolver {
	return &AvailabilityResolver{
		calendarRepo: calendarRepo,
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock overrides the resolver's clock; tests pin "today" with it.
func (r *AvailabilityResolver) WithClock(now func() time.Time) *AvailabilityResolver {
	r.now = now
	return r
}

// Resolve answers for a single (property, date) pair. Precedence,
// highest first: past date; confirmed booking; calendar override row;
// property defaults. A confirmed booking beats an "available" override,
// so a booked night is never reported bookable.
func (r *AvailabilityResolver) Resolve(ctx context.Context, propertyID string, date time.Time) (*DateAvailability, error) {
	property, err := r.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("loading property %s: %w", propertyID, err)
	}
	return r.resolveWith(ctx, property, utils.DateOnly(date))
}

// ResolveRange answers for every date in the half-open [from, to)
// range, used by calendar rendering and the ICS export.
func (r *AvailabilityResolver) ResolveRange(ctx context.Context, propertyID string, from, to time.Time) ([]*DateAvailability, error) {
	property, err := r.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("loading property %s: %w", propertyID, err)
	}

	var out []*DateAvailability
	for _, d := range utils.DaysBetween(from, to) {
		day, err := r.resolveWith(ctx, property, d)
		if err != nil {
			return nil, err
		}
		out = append(out, day)
	}
	return out, nil
}

func (r *AvailabilityResolver) resolveWith(ctx context.Context, property *entity.Property, date time.Time) (*DateAvailability, error) {
	today := utils.DateOnly(r.now())

	// Past dates are never bookable, regardless of stored rows.
	if date.Before(today) {
		return &DateAvailability{Date: date, IsAvailable: false, Reason: ReasonPast}, nil
	}

	// A confirmed booking wins over any stored override.
	_, err := r.bookingRepo.FindConfirmedCovering(ctx, property.ID, date)
	if err == nil {
		return &DateAvailability{
			Date:        date,
			IsAvailable: false,
			Reason:      ReasonBooked,
			Price:       property.DefaultPrice,
			MinimumStay: property.DefaultMinStay,
		}, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("checking ledger for %s: %w", utils.FormatDate(date), err)
	}

	row, err := r.calendarRepo.GetByPropertyAndDate(ctx, property.ID, date)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("loading calendar row for %s: %w", utils.FormatDate(date), err)
	}

	if row != nil {
		day := &DateAvailability{
			Date:        date,
			IsAvailable: row.IsAvailable,
			Price:       property.DefaultPrice,
			MinimumStay: property.DefaultMinStay,
			InstantBook: row.InstantBook,
		}
		if row.Price != nil {
			day.Price = *row.Price
		}
		if row.MinimumStay != nil {
			day.MinimumStay = *row.MinimumStay
		}
		if !row.IsAvailable {
			day.Reason = ReasonBlocked
		}
		return day, nil
	}

	// No row: property defaults, available.
	return &DateAvailability{
		Date:        date,
		IsAvailable: true,
		Price:       property.DefaultPrice,
		MinimumStay: property.DefaultMinStay,
		InstantBook: property.InstantBook,
	}, nil
}

// BlockedDays resolves the next horizonDays days and returns the
// unavailable ones, for the ICS export. Deriving the export from the
// resolver keeps inbound and outbound calendars consistent.
func (r *AvailabilityResolver) BlockedDays(ctx context.Context, propertyID string, horizonDays int) ([]entity.CalendarDate, error) {
	if horizonDays <= 0 {
		horizonDays = 365
	}
	from := utils.DateOnly(r.now())
	to := from.AddDate(0, 0, horizonDays)

	days, err := r.ResolveRange(ctx, propertyID, from, to)
	if err != nil {
		return nil, err
	}

	var blocked []entity.CalendarDate
	for _, day := range days {
		if !day.IsAvailable {
			blocked = append(blocked, entity.CalendarDate{
				PropertyID:  propertyID,
				Date:        day.Date,
				IsAvailable: false,
				Notes:       day.Reason,
			})
		}
	}
	return blocked, nil
}

// Quote sums nightly prices for a stay and validates every night is
// bookable. Used at booking submission before the conflict guard runs.
func (r *AvailabilityResolver) Quote(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (float64, error) {
	days, err := r.ResolveRange(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, day := range days {
		if !day.IsAvailable {
			return 0, &entity.DatesUnavailableError{
				PropertyID: propertyID,
				CheckIn:    day.Date,
				CheckOut:   day.Date.AddDate(0, 0, 1),
			}
		}
		total += day.Price
	}
	return total, nil
}
