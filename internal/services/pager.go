package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/shared"
	"golang.org/x/time/rate"
)

// PageExtractor maps one page body to its items and the URL of the next page.
// An empty next URL ends pagination.
type PageExtractor[T any] func(body []byte) (items []T, next string, err error)

// Pager issues authenticated GET requests for [FetchAllPages].
type Pager struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewPager creates a [Pager]. A nil client uses [http.DefaultClient]; a nil limiter disables pacing.
func NewPager(client *http.Client, limiter *rate.Limiter, logger *log.Logger) *Pager {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pager{client: client, limiter: limiter, logger: logger}
}

// NewLimiter converts a requests-per-second setting into a [rate.Limiter], or nil when rps <= 0.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// FetchAllPages follows next-page cursors from startURL until none remain and returns every item in fetch order.
//
// Any transport error, non-2xx status or extraction error aborts the whole fetch with [shared.ErrFetchFailed];
// no partial result is returned. A next URL that was already fetched fails with [shared.ErrCursorLoop].
func FetchAllPages[T any](ctx context.Context, p *Pager, startURL, credential string, extract PageExtractor[T]) ([]T, error) {
	if p == nil {
		p = NewPager(nil, nil, nil)
	}

	var all []T
	seen := make(map[string]struct{})
	current := startURL

	for page := 1; current != ""; page++ {
		if _, ok := seen[current]; ok {
			return nil, fmt.Errorf("%w: %w: %s", shared.ErrFetchFailed, shared.ErrCursorLoop, current)
		}
		seen[current] = struct{}{}

		body, err := p.get(ctx, current, credential)
		if err != nil {
			return nil, err
		}

		items, next, err := extract(body)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decode page %d: %v", shared.ErrFetchFailed, page, err)
		}

		p.logger.Debug("fetched page", "page", page, "items", len(items), "has_next", next != "")
		all = append(all, items...)
		current = next
	}

	return all, nil
}

// get performs a single authenticated GET and returns the response body.
func (p *Pager) get(ctx context.Context, url, credential string) ([]byte, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrFetchFailed, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrFetchFailed, err)
	}

	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s: status %d", shared.ErrFetchFailed, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrFetchFailed, err)
	}

	return body, nil
}
