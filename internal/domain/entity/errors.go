package entity

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the feed sync pipeline. Fetch and format failures
// abort the attempt for that feed only and are retried on the next
// scheduled tick; a single bad event inside a valid document is skipped.
var (
	ErrFeedFetch  = errors.New("feed fetch failed")
	ErrFeedFormat = errors.New("document is not a recognizable calendar")
	ErrNotFound   = errors.New("not found")
	// ErrInvalidInput marks caller mistakes (malformed dates, reversed
	// ranges, negative prices) so the HTTP layer can answer 400 instead
	// of 500. Wrap it with %w and the specific message.
	ErrInvalidInput = errors.New("invalid input")
)

// DatesUnavailableError is returned when a proposed booking overlaps an
// existing non-cancelled booking. It names the conflicting range so the
// caller can re-prompt the guest.
type DatesUnavailableError struct {
	PropertyID string
	CheckIn    time.Time
	CheckOut   time.Time
}

func (e *DatesUnavailableError) Error() string {
	return fmt.Sprintf("dates unavailable: conflicts with existing booking %s to %s",
		e.CheckIn.Format("2006-01-02"), e.CheckOut.Format("2006-01-02"))
}

// IsDatesUnavailable reports whether err is a DatesUnavailableError.
func IsDatesUnavailable(err error) bool {
	var due *DatesUnavailableError
	return errors.As(err, &due)
}

// BulkApplyPartialError is returned when a range-mode bulk apply failed
// partway through its per-date upserts.
type BulkApplyPartialError struct {
	Applied   int
	Requested int
	Cause     error
}

func (e *BulkApplyPartialError) Error() string {
	return fmt.Sprintf("bulk apply incomplete: %d of %d dates written: %v", e.Applied, e.Requested, e.Cause)
}

func (e *BulkApplyPartialError) Unwrap() error {
	return e.Cause
}
