package entity

import "time"

// Property holds the per-property default policy the availability
// resolver falls back to when no per-date override row exists.
// Listing metadata (rooms, amenities, photos) lives elsewhere and is
// not this service's concern.
type Property struct {
	ID                string
	HostID            string
	Title             string
	DefaultPrice      float64
	DefaultMinStay    int
	InstantBook       bool
	AdvanceNoticeDays int
	Currency          string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
