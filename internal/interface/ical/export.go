package ical

import (
	"bytes"
	"fmt"

	ics "github.com/arran4/golang-ical"

	"staysync-service/internal/domain/entity"
)

// Encode renders a property's blocked ranges as an iCalendar document,
// the mirror of what the parser ingests. Each half-open range becomes
// one all-day VEVENT. Content is derived from the availability
// resolver by the caller, so the export can never disagree with what
// guests are quoted.
func Encode(propertyID, propertyTitle string, ranges []entity.BlockedRange) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//staysync//calendar-export//EN")
	cal.SetName(propertyTitle)

	for i, r := range ranges {
		uid := r.ExternalID
		if uid == "" {
			uid = fmt.Sprintf("%s-block-%d@staysync", propertyID, i)
		}
		ev := cal.AddEvent(uid)
		ev.SetAllDayStartAt(r.StartDate)
		ev.SetAllDayEndAt(r.EndDate)
		summary := r.Summary
		if summary == "" {
			summary = "Not available"
		}
		ev.SetSummary(summary)
	}

	var buf bytes.Buffer
	if err := cal.SerializeTo(&buf); err != nil {
		return nil, fmt.Errorf("serializing calendar export: %w", err)
	}
	return buf.Bytes(), nil
}

// CoalesceBlockedDates folds consecutive blocked days into half-open
// ranges for export. Input days must be sorted ascending.
func CoalesceBlockedDates(propertyID string, days []entity.CalendarDate) []entity.BlockedRange {
	var ranges []entity.BlockedRange
	for _, day := range days {
		n := len(ranges)
		if n > 0 && ranges[n-1].EndDate.Equal(day.Date) {
			ranges[n-1].EndDate = day.Date.AddDate(0, 0, 1)
			continue
		}
		ranges = append(ranges, entity.BlockedRange{
			PropertyID: propertyID,
			StartDate:  day.Date,
			EndDate:    day.Date.AddDate(0, 0, 1),
			Summary:    "Not available",
		})
	}
	return ranges
}
