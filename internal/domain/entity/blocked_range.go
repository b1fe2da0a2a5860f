package entity

import "time"

// BlockedRange is a normalized external calendar event: a half-open
// [StartDate, EndDate) span of blocked nights for one property. It is
// transient, produced by the feed parser each sync cycle; only its
// per-date expansion into CalendarDate rows is persisted.
type BlockedRange struct {
	PropertyID string
	StartDate  time.Time // date-only, UTC midnight
	EndDate    time.Time // date-only, UTC midnight, exclusive
	SourceName string
	ExternalID string
	Summary    string
}

// Dates expands the range into its individual blocked days.
func (r *BlockedRange) Dates() []time.Time {
	var out []time.Time
	for d := r.StartDate; d.Before(r.EndDate); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
