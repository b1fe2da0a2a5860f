package ical

import (
	"bytes"
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"

	"staysync-service/internal/domain/entity"
	"staysync-service/pkg/logger"
	"staysync-service/pkg/utils"
)

// Parser converts raw external calendar documents into normalized
// blocked date ranges for a single property.
type Parser struct {
	logger logger.Logger
}

// NewParser creates a new feed parser
func NewParser(logger logger.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}

// ParseBlockedRanges decomposes one calendar document into blocked
// ranges. The envelope failing to parse is fatal for the sync attempt;
// a single malformed event is logged and skipped so the rest of the
// document still applies. Timestamps are projected onto UTC calendar
// days so midnight boundaries cannot shift a block.
//
// The caller stamps SourceName afterward; the parser only knows the
// property the feed belongs to.
func (p *Parser) ParseBlockedRanges(body []byte, propertyID string) ([]entity.BlockedRange, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty document", entity.ErrFeedFormat)
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		p.logFallbackScan(body, propertyID)
		return nil, fmt.Errorf("%w: %v", entity.ErrFeedFormat, err)
	}

	ranges := make([]entity.BlockedRange, 0)
	for i, ev := range cal.Events() {
		r, perr := p.parseEvent(ev, propertyID, i)
		if perr != nil {
			p.logger.Warn("Skipping malformed calendar event",
				"propertyId", propertyID, "ordinal", i, "error", perr)
			continue
		}
		ranges = append(ranges, r)
	}

	p.logger.Info("Parsed calendar document",
		"propertyId", propertyID, "events", len(cal.Events()), "ranges", len(ranges))
	return ranges, nil
}

func (p *Parser) parseEvent(ev *ics.VEvent, propertyID string, ordinal int) (entity.BlockedRange, error) {
	var out entity.BlockedRange
	out.PropertyID = propertyID
	out.SourceName = "pending"

	start, err := ev.GetStartAt()
	if err != nil {
		// VALUE=DATE events answer through the all-day accessors.
		start, err = ev.GetAllDayStartAt()
		if err != nil {
			return out, fmt.Errorf("missing or invalid DTSTART: %v", err)
		}
	}

	end, err := ev.GetEndAt()
	if err != nil || end.IsZero() {
		end, err = ev.GetAllDayEndAt()
		if err != nil || end.IsZero() {
			// Sources without DTEND mean a single blocked night.
			end = start.AddDate(0, 0, 1)
		}
	}

	out.StartDate = utils.DateOnly(start)
	out.EndDate = utils.DateOnly(end)
	if !out.EndDate.After(out.StartDate) {
		// Zero-length events (same-day checkout artifacts) still block
		// the start night.
		out.EndDate = out.StartDate.AddDate(0, 0, 1)
	}

	if prop := ev.GetProperty(ics.ComponentPropertySummary); prop != nil {
		out.Summary = prop.Value
	}

	if prop := ev.GetProperty(ics.ComponentPropertyUniqueId); prop != nil && prop.Value != "" {
		out.ExternalID = prop.Value
	} else {
		// Some exports omit UID entirely; a stable ordinal keeps the
		// range identifiable within this document.
		out.ExternalID = fmt.Sprintf("event-%d", ordinal)
	}

	return out, nil
}

// logFallbackScan runs a last-resort scan over an unparseable document
// for date-bearing lines. Diagnostic only: nothing is ever derived from
// it, the sync attempt still fails.
func (p *Parser) logFallbackScan(body []byte, propertyID string) {
	var datelines []string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "DTSTART") || strings.HasPrefix(line, "DTEND") {
			datelines = append(datelines, line)
		}
		if len(datelines) >= 10 {
			break
		}
	}
	if len(datelines) > 0 {
		p.logger.Warn("Calendar envelope unparseable but date lines present",
			"propertyId", propertyID, "dateLines", datelines)
	}
}
