package entity

import (
	"fmt"
	"time"
)

// CalendarDate is one per-date override row for a property. At most one
// row exists per (PropertyID, Date); absence of a row means the property
// defaults apply and the date is available.
type CalendarDate struct {
	ID          uint
	PropertyID  string
	Date        time.Time // date-only, UTC midnight
	IsAvailable bool
	Price       *float64 // nil means fall back to the property default
	MinimumStay *int     // nil means fall back to the property default
	InstantBook bool
	// SourceFeedName identifies which external feed derived this row.
	// Empty for host overrides and internal booking blocks. Resync
	// purges rows by exact match on this column.
	SourceFeedName string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SyncBlockNotes builds the display provenance note for an externally
// blocked date.
func SyncBlockNotes(sourceName string) string {
	return fmt.Sprintf("blocked by %s sync", sourceName)
}

// BookingBlockNotes builds the display provenance note for a date held
// by an internal confirmed booking.
func BookingBlockNotes(bookingID string) string {
	return fmt.Sprintf("blocked by booking %s", bookingID)
}
