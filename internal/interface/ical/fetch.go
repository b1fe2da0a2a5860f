package ical

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"staysync-service/internal/domain/entity"
	"staysync-service/pkg/logger"
)

const maxFeedBytes = 5 << 20 // refuse absurdly large calendar documents

// Fetcher retrieves external calendar documents over HTTP with a
// bounded per-request timeout.
type Fetcher struct {
	client *http.Client
	logger logger.Logger
}

// NewFetcher creates a new feed fetcher
func NewFetcher(timeout time.Duration, logger logger.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads one feed document and sanity-checks that it looks
// like a calendar before handing it to the parser. A non-2xx response,
// a timeout, or a body without a calendar envelope all fail the sync
// attempt with ErrFeedFetch / ErrFeedFormat; the caller retries on the
// next scheduled tick.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", entity.ErrFeedFetch, err)
	}
	req.Header.Set("Accept", "text/calendar, text/plain, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("Feed fetch failed", "url", url, "error", err)
		return nil, fmt.Errorf("%w: %v", entity.ErrFeedFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Error("Feed fetch returned non-success status", "url", url, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status %d", entity.ErrFeedFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", entity.ErrFeedFetch, err)
	}

	if !LooksLikeCalendar(body) {
		return nil, fmt.Errorf("%w: response has no VCALENDAR envelope", entity.ErrFeedFormat)
	}

	return body, nil
}

// LooksLikeCalendar reports whether the document carries an iCalendar
// envelope. Used as a cheap pre-parse sanity check.
func LooksLikeCalendar(body []byte) bool {
	return strings.Contains(string(body), "BEGIN:VCALENDAR")
}
