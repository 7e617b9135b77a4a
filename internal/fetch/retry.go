// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the wait before the first resend; each later resend
// doubles it. Tests shrink it.
var RetryBaseDelay = 2 * time.Second

const (
	defaultMaxRetries = 5
	// maxRetryAfter caps the wait a server may ask for in Retry-After.
	maxRetryAfter = time.Minute
)

// Retrier resends a GET while the PDF host answers 429 or 503.
type Retrier struct {
	Client *http.Client
	// Max is the number of resends after the first attempt; 0 means 5.
	Max int
	// Log receives one line per resend. Nil discards them.
	Log io.Writer
}

// Do sends req and returns the first response that is not 429 or 503, or
// the last one once Max resends are used up. The context bounds both the
// requests and the waits between them.
func (r Retrier) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	limit := r.Max
	if limit <= 0 {
		limit = defaultMaxRetries
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	log := r.Log
	if log == nil {
		log = io.Discard
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !busy(resp.StatusCode) || attempt >= limit {
			return resp, nil
		}

		wait := retryDelay(attempt, resp.Header)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		fmt.Fprintf(log, "  HTTP %d from %s, retry %d/%d in %v\n", resp.StatusCode, req.URL.Host, attempt+1, limit, wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// busy reports whether the server is asking the client to come back later.
func busy(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}

// retryDelay honours a Retry-After given in seconds and otherwise doubles
// RetryBaseDelay per attempt.
func retryDelay(attempt int, h http.Header) time.Duration {
	if s := h.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
			return min(time.Duration(secs)*time.Second, maxRetryAfter)
		}
	}
	return RetryBaseDelay << attempt
}
