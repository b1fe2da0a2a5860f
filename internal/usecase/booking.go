package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"staysync-service/internal/domain/entity"
	"staysync-service/internal/domain/repository"
	"staysync-service/pkg/logger"
	"staysync-service/pkg/metrics"
	"staysync-service/pkg/utils"
)

// BookingRequest carries what the engine needs from a booking
// submission. Guest and payment metadata ride along as opaque inputs.
type BookingRequest struct {
	PropertyID string `json:"propertyId"`
	GuestID    string `json:"guestId"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	Guests     int    `json:"guests"`
	PaymentRef string `json:"paymentRef"`
	// Confirmed requests skip the pending state (instant-book flow).
	Confirmed bool `json:"confirmed"`
}

// BookingService validates and commits reservations against the
// booking ledger. The overlap check and insert run as one transaction
// per property so two concurrent submissions for the same nights
// cannot both succeed.
type BookingService struct {
	bookingRepo  repository.BookingRepository
	calendarRepo repository.CalendarRepository
	propertyRepo repository.PropertyRepository
	resolver     *AvailabilityResolver
	metrics      *metrics.Metrics
	logger       logger.Logger
	now          func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo repository.BookingRepository,
	calendarRepo repository.CalendarRepository,
	propertyRepo repository.PropertyRepository,
	resolver *AvailabilityResolver,
	m *metrics.Metrics,
	logger logger.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		calendarRepo: calendarRepo,
		propertyRepo: propertyRepo,
		resolver:     resolver,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock overrides the service clock for tests.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// Create validates the requested stay, prices it through the resolver,
// and commits it through the conflict guard. Returns
// *entity.DatesUnavailableError when the range intersects an existing
// non-cancelled booking; the caller re-prompts rather than adjusting
// dates silently.
func (s *BookingService) Create(ctx context.Context, req *BookingRequest) (*entity.Booking, error) {
	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("%w: checkIn %q is not a YYYY-MM-DD date", entity.ErrInvalidInput, req.CheckIn)
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("%w: checkOut %q is not a YYYY-MM-DD date", entity.ErrInvalidInput, req.CheckOut)
	}
	if !checkOut.After(checkIn) {
		return nil, fmt.Errorf("%w: checkOut must be after checkIn", entity.ErrInvalidInput)
	}

	today := utils.DateOnly(s.now())
	if checkIn.Before(today) {
		return nil, fmt.Errorf("%w: checkIn must not be in the past", entity.ErrInvalidInput)
	}

	property, err := s.propertyRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("loading property %s: %w", req.PropertyID, err)
	}

	nights := len(utils.DaysBetween(checkIn, checkOut))
	firstNight, err := s.resolver.Resolve(ctx, req.PropertyID, checkIn)
	if err != nil {
		return nil, err
	}
	if nights < firstNight.MinimumStay {
		return nil, fmt.Errorf("%w: stay of %d nights is below the %d night minimum", entity.ErrInvalidInput, nights, firstNight.MinimumStay)
	}
	if property.AdvanceNoticeDays > 0 {
		earliest := today.AddDate(0, 0, property.AdvanceNoticeDays)
		if checkIn.Before(earliest) {
			return nil, fmt.Errorf("%w: check-in requires %d days advance notice", entity.ErrInvalidInput, property.AdvanceNoticeDays)
		}
	}

	total, err := s.resolver.Quote(ctx, req.PropertyID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	status := entity.BookingPending
	if req.Confirmed {
		status = entity.BookingConfirmed
	}

	booking := &entity.Booking{
		ID:         uuid.New().String(),
		PropertyID: req.PropertyID,
		GuestID:    req.GuestID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     status,
		Guests:     req.Guests,
		NightPrice: total / float64(nights),
		TotalPrice: total,
		Currency:   property.Currency,
		PaymentRef: req.PaymentRef,
	}

	if err := s.bookingRepo.CreateIfNoConflict(ctx, booking); err != nil {
		if entity.IsDatesUnavailable(err) {
			s.metrics.BookingConflicts.Inc()
			s.logger.Info("Booking rejected for overlapping dates",
				"propertyId", req.PropertyID, "checkIn", req.CheckIn, "checkOut", req.CheckOut)
		}
		return nil, err
	}
	s.metrics.BookingsCreated.Inc()

	if status == entity.BookingConfirmed {
		s.blockDates(ctx, booking)
	}

	s.logger.Info("Booking created",
		"bookingId", booking.ID, "propertyId", booking.PropertyID,
		"checkIn", req.CheckIn, "checkOut", req.CheckOut, "status", status)
	return booking, nil
}

// Confirm moves a pending booking to confirmed (payment settled) and
// writes its internal per-date blocks.
func (s *BookingService) Confirm(ctx context.Context, bookingID string) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == entity.BookingCancelled {
		return nil, errors.New("cannot confirm a cancelled booking")
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, entity.BookingConfirmed); err != nil {
		return nil, err
	}
	booking.Status = entity.BookingConfirmed

	s.blockDates(ctx, booking)
	return booking, nil
}

// Cancel soft-cancels a booking and reopens its nights by deleting the
// block rows this booking wrote at confirmation. Rows are matched by
// their provenance note, so host overrides and synced blocks inside the
// range survive; pending bookings never wrote block rows, so nothing is
// deleted for them.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	wasConfirmed := booking.Status == entity.BookingConfirmed

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, entity.BookingCancelled); err != nil {
		return nil, err
	}
	booking.Status = entity.BookingCancelled

	if wasConfirmed {
		if err := s.calendarRepo.DeleteByPropertyAndNotes(ctx, booking.PropertyID, entity.BookingBlockNotes(bookingID)); err != nil {
			s.logger.Error("Failed to reopen dates after cancellation",
				"bookingId", bookingID, "propertyId", booking.PropertyID, "error", err)
		}
	}

	s.logger.Info("Booking cancelled", "bookingId", bookingID, "propertyId", booking.PropertyID)
	return booking, nil
}

// GetByID loads one booking.
func (s *BookingService) GetByID(ctx context.Context, bookingID string) (*entity.Booking, error) {
	return s.bookingRepo.GetByID(ctx, bookingID)
}

// ListByProperty lists a property's bookings.
func (s *BookingService) ListByProperty(ctx context.Context, propertyID string) ([]*entity.Booking, error) {
	return s.bookingRepo.ListByProperty(ctx, propertyID)
}

// blockDates writes the internal per-date block rows for a confirmed
// stay. The ledger remains authoritative; these rows only keep the
// calendar view and the ICS export in step.
func (s *BookingService) blockDates(ctx context.Context, booking *entity.Booking) {
	for _, d := range utils.DaysBetween(booking.CheckIn, booking.CheckOut) {
		row := &entity.CalendarDate{
			PropertyID:  booking.PropertyID,
			Date:        d,
			IsAvailable: false,
			Notes:       entity.BookingBlockNotes(booking.ID),
		}
		if err := s.calendarRepo.Upsert(ctx, row); err != nil {
			s.logger.Error("Failed to block date for booking",
				"bookingId", booking.ID, "date", utils.FormatDate(d), "error", err)
		}
	}
}
