package ical

import (
	"strings"
	"testing"

	"staysync-service/internal/domain/entity"
	"staysync-service/pkg/logger"
)

func TestCoalesceBlockedDates(t *testing.T) {
	days := []entity.CalendarDate{
		{PropertyID: "prop-1", Date: mustDay(2024, 5, 1)},
		{PropertyID: "prop-1", Date: mustDay(2024, 5, 2)},
		{PropertyID: "prop-1", Date: mustDay(2024, 5, 3)},
		{PropertyID: "prop-1", Date: mustDay(2024, 5, 10)},
	}

	ranges := CoalesceBlockedDates("prop-1", days)
	if len(ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(ranges))
	}
	if !ranges[0].StartDate.Equal(mustDay(2024, 5, 1)) || !ranges[0].EndDate.Equal(mustDay(2024, 5, 4)) {
		t.Fatalf("unexpected first range %s..%s", ranges[0].StartDate, ranges[0].EndDate)
	}
	if !ranges[1].StartDate.Equal(mustDay(2024, 5, 10)) || !ranges[1].EndDate.Equal(mustDay(2024, 5, 11)) {
		t.Fatalf("unexpected second range %s..%s", ranges[1].StartDate, ranges[1].EndDate)
	}
}

func TestCoalesceEmpty(t *testing.T) {
	if got := CoalesceBlockedDates("prop-1", nil); len(got) != 0 {
		t.Fatalf("expected no ranges, got %d", len(got))
	}
}

func TestEncodeProducesParseableCalendar(t *testing.T) {
	ranges := []entity.BlockedRange{
		{
			PropertyID: "prop-1",
			StartDate:  mustDay(2024, 5, 1),
			EndDate:    mustDay(2024, 5, 4),
			Summary:    "Reserved",
			ExternalID: "block-1",
		},
	}

	body, err := Encode("prop-1", "Seaside flat", ranges)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	doc := string(body)
	if !strings.Contains(doc, "BEGIN:VCALENDAR") || !strings.Contains(doc, "BEGIN:VEVENT") {
		t.Fatalf("missing calendar structure:\n%s", doc)
	}
	if !strings.Contains(doc, "SUMMARY:Reserved") {
		t.Fatalf("missing summary:\n%s", doc)
	}

	// The export must round-trip through our own parser with identical
	// date arithmetic.
	p := NewParser(logger.NewNop())
	parsed, err := p.ParseBlockedRanges(body, "prop-1")
	if err != nil {
		t.Fatalf("re-parsing export: %v", err)
	}
	if len(parsed) != 1 {
		t.Fatalf("expected 1 range after round-trip, got %d", len(parsed))
	}
	if !parsed[0].StartDate.Equal(mustDay(2024, 5, 1)) || !parsed[0].EndDate.Equal(mustDay(2024, 5, 4)) {
		t.Fatalf("round-trip changed the range: %s..%s", parsed[0].StartDate, parsed[0].EndDate)
	}
}

func TestEncodeSynthesizesUIDs(t *testing.T) {
	ranges := []entity.BlockedRange{
		{PropertyID: "prop-1", StartDate: mustDay(2024, 6, 1), EndDate: mustDay(2024, 6, 2)},
	}

	body, err := Encode("prop-1", "Seaside flat", ranges)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(body), "UID:prop-1-block-0@staysync") {
		t.Fatalf("expected synthesized UID:\n%s", body)
	}
}

func TestLooksLikeCalendar(t *testing.T) {
	if LooksLikeCalendar([]byte("<html></html>")) {
		t.Fatal("html must not look like a calendar")
	}
	if !LooksLikeCalendar([]byte("BEGIN:VCALENDAR\nEND:VCALENDAR")) {
		t.Fatal("VCALENDAR envelope not recognized")
	}
}
