package entity

import "time"

// Booking status
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking is one reservation row in the ledger. CheckOut is exclusive:
// the last occupied night is the day before CheckOut, so a booking
// checking in on another's check-out day is not a conflict.
type Booking struct {
	ID         string
	PropertyID string
	GuestID    string
	CheckIn    time.Time // date-only, UTC midnight
	CheckOut   time.Time // date-only, UTC midnight, exclusive
	Status     string
	Guests     int
	NightPrice float64
	TotalPrice float64
	Currency   string
	PaymentRef string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Nights returns the number of occupied nights.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// Covers reports whether the given date falls inside [CheckIn, CheckOut).
func (b *Booking) Covers(date time.Time) bool {
	return !date.Before(b.CheckIn) && date.Before(b.CheckOut)
}

// Overlaps reports whether [checkIn, checkOut) intersects this booking's
// range, using half-open interval semantics.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn)
}
