package entity

import "time"

// Feed sync status
const (
	SyncPending = "pending"
	SyncSyncing = "syncing"
	SyncSuccess = "success"
	SyncError   = "error"
)

// ExternalCalendarFeed is one configured external calendar subscription
// for a property (e.g. an Airbnb ICS export URL).
type ExternalCalendarFeed struct {
	ID         string
	PropertyID string
	Name       string
	URL        string
	IsActive   bool
	SyncStatus string
	SyncError  string
	LastSyncAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
