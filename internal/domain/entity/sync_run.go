package entity

import "time"

// SyncRun records one sync attempt for one feed. Runs are append-only
// audit documents; the sync-health endpoint reads the most recent ones.
type SyncRun struct {
	PropertyID   string        `bson:"propertyId"`
	FeedID       string        `bson:"feedId"`
	FeedName     string        `bson:"feedName"`
	Status       string        `bson:"status"` // success or error
	Error        string        `bson:"error,omitempty"`
	RangesParsed int           `bson:"rangesParsed"`
	DatesBlocked int           `bson:"datesBlocked"`
	StartedAt    time.Time     `bson:"startedAt"`
	Duration     time.Duration `bson:"durationNs"`
}
