package usecase

import (
	"context"
	"testing"
	"time"

	"staysync-service/internal/domain/entity"
	"staysync-service/pkg/logger"
)

func testProperty() *entity.Property {
	return &entity.Property{
		ID:             "prop-1",
		Title:          "Seaside flat",
		DefaultPrice:   80,
		DefaultMinStay: 2,
		InstantBook:    true,
		Currency:       "USD",
		IsActive:       true,
	}
}

func newTestResolver(cal *fakeCalendarRepo, bookings *fakeBookingRepo, props *fakePropertyRepo, today time.Time) *AvailabilityResolver {
	return NewAvailabilityResolver(cal, bookings, props, logger.NewNop()).
		WithClock(func() time.Time { return today })
}

func TestResolvePastDateNeverBookable(t *testing.T) {
	today := day(2024, 6, 15)
	cal := newFakeCalendarRepo()
	props := newFakePropertyRepo(testProperty())

	// Even an explicitly available override cannot resurrect a past date.
	cal.Upsert(context.Background(), &entity.CalendarDate{
		PropertyID:  "prop-1",
		Date:        day(2024, 6, 10),
		IsAvailable: true,
	})

	r := newTestResolver(cal, newFakeBookingRepo(), props, today)

	got, err := r.Resolve(context.Background(), "prop-1", day(2024, 6, 10))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.IsAvailable {
		t.Fatal("expected past date to be unavailable")
	}
	if got.Reason != ReasonPast {
		t.Fatalf("expected reason %q, got %q", ReasonPast, got.Reason)
	}
}

func TestResolveConfirmedBookingWinsOverAvailableOverride(t *testing.T) {
	today := day(2024, 6, 1)
	cal := newFakeCalendarRepo()
	bookings := newFakeBookingRepo()
	props := newFakePropertyRepo(testProperty())

	bookings.CreateIfNoConflict(context.Background(), &entity.Booking{
		ID:         "b-1",
		PropertyID: "prop-1",
		CheckIn:    day(2024, 6, 10),
		CheckOut:   day(2024, 6, 13),
		Status:     entity.BookingConfirmed,
	})
	// Host marks the night available anyway; the ledger must still win.
	cal.Upsert(context.Background(), &entity.CalendarDate{
		PropertyID:  "prop-1",
		Date:        day(2024, 6, 11),
		IsAvailable: true,
	})

	r := newTestResolver(cal, bookings, props, today)

	for _, d := range []time.Time{day(2024, 6, 10), day(2024, 6, 11), day(2024, 6, 12)} {
		got, err := r.Resolve(context.Background(), "prop-1", d)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", d, err)
		}
		if got.IsAvailable {
			t.Errorf("expected %s unavailable (booked)", d.Format("2006-01-02"))
		}
		if got.Reason != ReasonBooked {
			t.Errorf("expected reason booked for %s, got %q", d.Format("2006-01-02"), got.Reason)
		}
	}

	// Check-out day itself is free again.
	got, err := r.Resolve(context.Background(), "prop-1", day(2024, 6, 13))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !got.IsAvailable {
		t.Fatal("expected check-out day to be available")
	}
}

func TestResolveOverrideRowValues(t *testing.T) {
	today := day(2024, 6, 1)
	cal := newFakeCalendarRepo()
	props := newFakePropertyRepo(testProperty())

	price := 120.0
	minStay := 5
	cal.Upsert(context.Background(), &entity.CalendarDate{
		PropertyID:  "prop-1",
		Date:        day(2024, 7, 1),
		IsAvailable: true,
		Price:       &price,
		MinimumStay: &minStay,
	})
	// A second row with nil price falls back to the default.
	cal.Upsert(context.Background(), &entity.CalendarDate{
		PropertyID:  "prop-1",
		Date:        day(2024, 7, 2),
		IsAvailable: true,
	})

	r := newTestResolver(cal, newFakeBookingRepo(), props, today)

	got, err := r.Resolve(context.Background(), "prop-1", day(2024, 7, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Price != 120 || got.MinimumStay != 5 {
		t.Fatalf("expected override price 120 / minStay 5, got %v / %v", got.Price, got.MinimumStay)
	}

	got, err = r.Resolve(context.Background(), "prop-1", day(2024, 7, 2))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Price != 80 || got.MinimumStay != 2 {
		t.Fatalf("expected default price 80 / minStay 2, got %v / %v", got.Price, got.MinimumStay)
	}
}

func TestResolveDefaultsWhenNoRowsNoBookings(t *testing.T) {
	today := day(2024, 6, 1)
	r := newTestResolver(newFakeCalendarRepo(), newFakeBookingRepo(), newFakePropertyRepo(testProperty()), today)

	got, err := r.Resolve(context.Background(), "prop-1", day(2025, 1, 15))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !got.IsAvailable {
		t.Fatal("expected default availability for a bare future date")
	}
	if got.Price != 80 {
		t.Fatalf("expected default price 80, got %v", got.Price)
	}
	if !got.InstantBook {
		t.Fatal("expected property default instantBook")
	}
}

func TestQuoteSumsNightlyPrices(t *testing.T) {
	today := day(2024, 6, 1)
	cal := newFakeCalendarRepo()
	props := newFakePropertyRepo(testProperty())

	weekend := 100.0
	cal.Upsert(context.Background(), &entity.CalendarDate{
		PropertyID:  "prop-1",
		Date:        day(2024, 7, 6),
		IsAvailable: true,
		Price:       &weekend,
	})

	r := newTestResolver(cal, newFakeBookingRepo(), props, today)

	// 3 nights: 80 + 100 + 80.
	total, err := r.Quote(context.Background(), "prop-1", day(2024, 7, 5), day(2024, 7, 8))
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if total != 260 {
		t.Fatalf("expected total 260, got %v", total)
	}
}

func TestQuoteRejectsBlockedNight(t *testing.T) {
	today := day(2024, 6, 1)
	cal := newFakeCalendarRepo()
	cal.Upsert(context.Background(), &entity.CalendarDate{
		PropertyID:  "prop-1",
		Date:        day(2024, 7, 6),
		IsAvailable: false,
	})

	r := newTestResolver(cal, newFakeBookingRepo(), newFakePropertyRepo(testProperty()), today)

	_, err := r.Quote(context.Background(), "prop-1", day(2024, 7, 5), day(2024, 7, 8))
	if !entity.IsDatesUnavailable(err) {
		t.Fatalf("expected DatesUnavailableError, got %v", err)
	}
}

func TestBlockedDaysFeedExport(t *testing.T) {
	today := day(2024, 6, 1)
	cal := newFakeCalendarRepo()
	bookings := newFakeBookingRepo()
	props := newFakePropertyRepo(testProperty())

	bookings.CreateIfNoConflict(context.Background(), &entity.Booking{
		ID:         "b-1",
		PropertyID: "prop-1",
		CheckIn:    day(2024, 6, 3),
		CheckOut:   day(2024, 6, 5),
		Status:     entity.BookingConfirmed,
	})
	cal.Upsert(context.Background(), &entity.CalendarDate{
		PropertyID:  "prop-1",
		Date:        day(2024, 6, 10),
		IsAvailable: false,
	})

	r := newTestResolver(cal, bookings, props, today)

	blocked, err := r.BlockedDays(context.Background(), "prop-1", 30)
	if err != nil {
		t.Fatalf("BlockedDays: %v", err)
	}
	want := []time.Time{day(2024, 6, 3), day(2024, 6, 4), day(2024, 6, 10)}
	if len(blocked) != len(want) {
		t.Fatalf("expected %d blocked days, got %d", len(want), len(blocked))
	}
	for i, w := range want {
		if !blocked[i].Date.Equal(w) {
			t.Errorf("blocked[%d] = %s, want %s", i, blocked[i].Date, w)
		}
	}
}
