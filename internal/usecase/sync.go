package usecase

import (
	"context"
	"fmt"
	"time"

	"staysync-service/internal/domain/entity"
	"staysync-service/internal/domain/repository"
	"staysync-service/internal/interface/ical"
	"staysync-service/pkg/logger"
	"staysync-service/pkg/metrics"
	"staysync-service/pkg/utils"
)

// SyncOrchestrator runs the fetch → parse → reconcile → record
// protocol for every active feed of a property. Feeds are processed
// sequentially in configuration order with a short pause between them,
// so outbound requests never burst against third-party calendar hosts
// and the last-processed feed wins when two feeds block the same date.
type SyncOrchestrator struct {
	feedRepo     repository.FeedRepository
	calendarRepo repository.CalendarRepository
	syncRunRepo  repository.SyncRunRepository
	fetcher      *ical.Fetcher
	parser       *ical.Parser
	metrics      *metrics.Metrics
	logger       logger.Logger
	feedPause    time.Duration
	now          func() time.Time
}

// NewSyncOrchestrator creates a new sync orchestrator
func NewSyncOrchestrator(
	feedRepo repository.FeedRepository,
	calendarRepo repository.CalendarRepository,
	syncRunRepo repository.SyncRunRepository,
	fetcher *ical.Fetcher,
	parser *ical.Parser,
	m *metrics.Metrics,
	logger logger.Logger,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		feedRepo:     feedRepo,
		calendarRepo: calendarRepo,
		syncRunRepo:  syncRunRepo,
		fetcher:      fetcher,
		parser:       parser,
		metrics:      m,
		logger:       logger,
		feedPause:    time.Second,
		now:          time.Now,
	}
}

// WithFeedPause overrides the inter-feed pause; tests shorten it.
func (o *SyncOrchestrator) WithFeedPause(d time.Duration) *SyncOrchestrator {
	o.feedPause = d
	return o
}

// SyncProperty synchronizes every active feed of one property,
// sequentially. A feed's failure is recorded on that feed's status row
// and never aborts its siblings.
func (o *SyncOrchestrator) SyncProperty(ctx context.Context, propertyID string) error {
	feeds, err := o.feedRepo.ListActiveByProperty(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("listing feeds for property %s: %w", propertyID, err)
	}
	if len(feeds) == 0 {
		return nil
	}

	for i, feed := range feeds {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(o.feedPause):
			}
		}
		if err := o.SyncFeed(ctx, feed); err != nil {
			o.logger.Error("Feed sync failed",
				"propertyId", propertyID, "feedId", feed.ID, "feed", feed.Name, "error", err)
		}
	}
	return nil
}

// SyncFeed runs one sync attempt for one feed. Protocol order: mark
// syncing, fetch, parse, atomically replace this source's derived
// rows, mark success. Any step's failure aborts the rest and lands in
// syncStatus=error with a human-readable cause; previously derived
// blocks stay untouched on failure.
func (o *SyncOrchestrator) SyncFeed(ctx context.Context, feed *entity.ExternalCalendarFeed) error {
	started := o.now().UTC()
	run := &entity.SyncRun{
		PropertyID: feed.PropertyID,
		FeedID:     feed.ID,
		FeedName:   feed.Name,
		StartedAt:  started,
	}

	if err := o.feedRepo.MarkSyncing(ctx, feed.ID); err != nil {
		return fmt.Errorf("marking feed %s syncing: %w", feed.ID, err)
	}

	ranges, datesBlocked, err := o.runAttempt(ctx, feed)
	run.Duration = o.now().UTC().Sub(started)
	run.RangesParsed = ranges
	run.DatesBlocked = datesBlocked

	if err != nil {
		run.Status = entity.SyncError
		run.Error = err.Error()
		o.metrics.FeedSyncsTotal.WithLabelValues(entity.SyncError).Inc()
		if markErr := o.feedRepo.MarkError(ctx, feed.ID, err.Error()); markErr != nil {
			o.logger.Error("Failed to record feed error status", "feedId", feed.ID, "error", markErr)
		}
		o.recordRun(ctx, run)
		return err
	}

	run.Status = entity.SyncSuccess
	o.metrics.FeedSyncsTotal.WithLabelValues(entity.SyncSuccess).Inc()
	o.metrics.SyncDuration.Observe(run.Duration.Seconds())
	if err := o.feedRepo.MarkSuccess(ctx, feed.ID); err != nil {
		o.logger.Error("Failed to record feed success status", "feedId", feed.ID, "error", err)
	}
	o.recordRun(ctx, run)

	o.logger.Info("Feed synced",
		"propertyId", feed.PropertyID, "feed", feed.Name,
		"ranges", ranges, "datesBlocked", datesBlocked, "took", run.Duration)
	return nil
}

func (o *SyncOrchestrator) runAttempt(ctx context.Context, feed *entity.ExternalCalendarFeed) (rangesParsed, datesBlocked int, err error) {
	body, err := o.fetcher.Fetch(ctx, feed.URL)
	if err != nil {
		return 0, 0, err
	}

	ranges, err := o.parser.ParseBlockedRanges(body, feed.PropertyID)
	if err != nil {
		return 0, 0, err
	}

	rows := expandRanges(feed, ranges)
	if err := o.calendarRepo.ReplaceSourceBlocks(ctx, feed.PropertyID, feed.Name, rows); err != nil {
		return len(ranges), 0, fmt.Errorf("replacing derived blocks: %w", err)
	}

	o.metrics.DatesBlocked.Add(float64(len(rows)))
	return len(ranges), len(rows), nil
}

// expandRanges expands the parsed ranges into per-date block rows
// stamped with the feed's source name. Re-running with an unchanged
// document yields byte-identical rows, keeping resync idempotent.
func expandRanges(feed *entity.ExternalCalendarFeed, ranges []entity.BlockedRange) []*entity.CalendarDate {
	seen := make(map[time.Time]bool)
	var rows []*entity.CalendarDate
	for _, r := range ranges {
		for _, d := range r.Dates() {
			if seen[d] {
				continue
			}
			seen[d] = true
			rows = append(rows, &entity.CalendarDate{
				PropertyID:     feed.PropertyID,
				Date:           utils.DateOnly(d),
				IsAvailable:    false,
				SourceFeedName: feed.Name,
				Notes:          entity.SyncBlockNotes(feed.Name),
			})
		}
	}
	return rows
}

func (o *SyncOrchestrator) recordRun(ctx context.Context, run *entity.SyncRun) {
	if err := o.syncRunRepo.Record(ctx, run); err != nil {
		o.logger.Error("Failed to record sync run",
			"propertyId", run.PropertyID, "feedId", run.FeedID, "error", err)
	}
}
