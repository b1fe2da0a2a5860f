package usecase

import (
	"context"
	"sync"
	"time"

	"staysync-service/internal/domain/entity"
	"staysync-service/pkg/metrics"
)

// Shared across the package's tests; promauto registers collectors
// globally, so NewMetrics must run once.
var testMetrics = metrics.NewMetrics("staysync_test")

// In-memory repository fakes backing the usecase tests.

type fakeCalendarRepo struct {
	mu   sync.Mutex
	rows map[string]map[time.Time]*entity.CalendarDate // propertyID -> date -> row
	// failAfter, when positive, fails the Nth upsert to exercise the
	// partial-failure path.
	failAfter int
	upserts   int
	failErr   error
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{
		rows: make(map[string]map[time.Time]*entity.CalendarDate),
	}
}

func (f *fakeCalendarRepo) Upsert(ctx context.Context, row *entity.CalendarDate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.failAfter > 0 && f.upserts >= f.failAfter {
		return f.failErr
	}
	if f.rows[row.PropertyID] == nil {
		f.rows[row.PropertyID] = make(map[time.Time]*entity.CalendarDate)
	}
	cp := *row
	f.rows[row.PropertyID][row.Date] = &cp
	return nil
}

func (f *fakeCalendarRepo) GetByPropertyAndDate(ctx context.Context, propertyID string, date time.Time) (*entity.CalendarDate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[propertyID][date]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, entity.ErrNotFound
}

func (f *fakeCalendarRepo) ListRange(ctx context.Context, propertyID string, from, to time.Time) ([]*entity.CalendarDate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.CalendarDate
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		if row, ok := f.rows[propertyID][d]; ok {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCalendarRepo) DeleteByPropertyAndDate(ctx context.Context, propertyID string, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows[propertyID], date)
	return nil
}

func (f *fakeCalendarRepo) DeleteByPropertyAndNotes(ctx context.Context, propertyID, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for d, row := range f.rows[propertyID] {
		if row.Notes == notes {
			delete(f.rows[propertyID], d)
		}
	}
	return nil
}

func (f *fakeCalendarRepo) DeleteAllForProperty(ctx context.Context, propertyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, propertyID)
	return nil
}

func (f *fakeCalendarRepo) ReplaceSourceBlocks(ctx context.Context, propertyID, sourceName string, rows []*entity.CalendarDate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for d, row := range f.rows[propertyID] {
		if row.SourceFeedName == sourceName {
			delete(f.rows[propertyID], d)
		}
	}
	if f.rows[propertyID] == nil {
		f.rows[propertyID] = make(map[time.Time]*entity.CalendarDate)
	}
	for _, row := range rows {
		cp := *row
		f.rows[propertyID][row.Date] = &cp
	}
	return nil
}

func (f *fakeCalendarRepo) count(propertyID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows[propertyID])
}

func (f *fakeCalendarRepo) get(propertyID string, date time.Time) *entity.CalendarDate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[propertyID][date]
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*entity.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[string]*entity.Booking),
	}
}

func (f *fakeBookingRepo) CreateIfNoConflict(ctx context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.PropertyID != booking.PropertyID || b.Status == entity.BookingCancelled {
			continue
		}
		if b.Overlaps(booking.CheckIn, booking.CheckOut) {
			return &entity.DatesUnavailableError{
				PropertyID: b.PropertyID,
				CheckIn:    b.CheckIn,
				CheckOut:   b.CheckOut,
			}
		}
	}
	cp := *booking
	f.bookings[booking.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, entity.ErrNotFound
}

func (f *fakeBookingRepo) ListByProperty(ctx context.Context, propertyID string) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.PropertyID == propertyID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListOverlapping(ctx context.Context, propertyID string, checkIn, checkOut time.Time) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.PropertyID == propertyID && b.Status != entity.BookingCancelled && b.Overlaps(checkIn, checkOut) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindConfirmedCovering(ctx context.Context, propertyID string, date time.Time) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.PropertyID == propertyID && b.Status == entity.BookingConfirmed && b.Covers(date) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return entity.ErrNotFound
	}
	b.Status = status
	return nil
}

type fakePropertyRepo struct {
	mu         sync.Mutex
	properties map[string]*entity.Property
}

func newFakePropertyRepo(props ...*entity.Property) *fakePropertyRepo {
	f := &fakePropertyRepo{properties: make(map[string]*entity.Property)}
	for _, p := range props {
		cp := *p
		f.properties[p.ID] = &cp
	}
	return f
}

func (f *fakePropertyRepo) Save(ctx context.Context, property *entity.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *property
	f.properties[property.ID] = &cp
	return nil
}

func (f *fakePropertyRepo) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.properties[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, entity.ErrNotFound
}

func (f *fakePropertyRepo) UpdateDefaults(ctx context.Context, id string, price float64, minStay int, instantBook bool, advanceNoticeDays int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.properties[id]
	if !ok {
		return entity.ErrNotFound
	}
	p.DefaultPrice = price
	p.DefaultMinStay = minStay
	p.InstantBook = instantBook
	p.AdvanceNoticeDays = advanceNoticeDays
	return nil
}

type fakeFeedRepo struct {
	mu    sync.Mutex
	feeds map[string]*entity.ExternalCalendarFeed
	order []string
}

func newFakeFeedRepo(feeds ...*entity.ExternalCalendarFeed) *fakeFeedRepo {
	f := &fakeFeedRepo{feeds: make(map[string]*entity.ExternalCalendarFeed)}
	for _, feed := range feeds {
		cp := *feed
		f.feeds[feed.ID] = &cp
		f.order = append(f.order, feed.ID)
	}
	return f
}

func (f *fakeFeedRepo) Create(ctx context.Context, feed *entity.ExternalCalendarFeed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *feed
	f.feeds[feed.ID] = &cp
	f.order = append(f.order, feed.ID)
	return nil
}

func (f *fakeFeedRepo) GetByID(ctx context.Context, id string) (*entity.ExternalCalendarFeed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if feed, ok := f.feeds[id]; ok {
		cp := *feed
		return &cp, nil
	}
	return nil, entity.ErrNotFound
}

func (f *fakeFeedRepo) ListByProperty(ctx context.Context, propertyID string) ([]*entity.ExternalCalendarFeed, error) {
	return f.listWhere(propertyID, false)
}

func (f *fakeFeedRepo) ListActiveByProperty(ctx context.Context, propertyID string) ([]*entity.ExternalCalendarFeed, error) {
	return f.listWhere(propertyID, true)
}

func (f *fakeFeedRepo) listWhere(propertyID string, activeOnly bool) ([]*entity.ExternalCalendarFeed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.ExternalCalendarFeed
	for _, id := range f.order {
		feed := f.feeds[id]
		if feed == nil || feed.PropertyID != propertyID {
			continue
		}
		if activeOnly && !feed.IsActive {
			continue
		}
		cp := *feed
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeFeedRepo) ListPropertiesWithActiveFeeds(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, id := range f.order {
		feed := f.feeds[id]
		if feed != nil && feed.IsActive && !seen[feed.PropertyID] {
			seen[feed.PropertyID] = true
			out = append(out, feed.PropertyID)
		}
	}
	return out, nil
}

func (f *fakeFeedRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.feeds[id]; !ok {
		return entity.ErrNotFound
	}
	delete(f.feeds, id)
	return nil
}

func (f *fakeFeedRepo) MarkSyncing(ctx context.Context, id string) error {
	return f.setStatus(id, entity.SyncSyncing, "")
}

func (f *fakeFeedRepo) MarkSuccess(ctx context.Context, id string) error {
	return f.setStatus(id, entity.SyncSuccess, "")
}

func (f *fakeFeedRepo) MarkError(ctx context.Context, id, syncError string) error {
	return f.setStatus(id, entity.SyncError, syncError)
}

func (f *fakeFeedRepo) setStatus(id, status, syncError string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	feed, ok := f.feeds[id]
	if !ok {
		return entity.ErrNotFound
	}
	feed.SyncStatus = status
	feed.SyncError = syncError
	if status == entity.SyncSyncing {
		now := time.Now().UTC()
		feed.LastSyncAt = &now
	}
	return nil
}

type fakeSyncRunRepo struct {
	mu   sync.Mutex
	runs []*entity.SyncRun
}

func newFakeSyncRunRepo() *fakeSyncRunRepo {
	return &fakeSyncRunRepo{}
}

func (f *fakeSyncRunRepo) Record(ctx context.Context, run *entity.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *run
	f.runs = append(f.runs, &cp)
	return nil
}

func (f *fakeSyncRunRepo) ListRecent(ctx context.Context, propertyID string, limit int) ([]*entity.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.SyncRun
	for i := len(f.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if f.runs[i].PropertyID == propertyID {
			cp := *f.runs[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

// day builds a UTC midnight for test fixtures.
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
