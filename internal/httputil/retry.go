// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for talking to the metadata registry.
package httputil

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the first backoff on HTTP 429 when the response carries
// no usable Retry-After header. Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

// MaxRetryDelay caps a single backoff, including server-supplied ones.
var MaxRetryDelay = 30 * time.Second

// DoWithRetry executes req and, on HTTP 429, retries up to maxRetries more
// times. maxRetries <= 0 means exactly one attempt. Each wait honors a
// Retry-After header given in seconds, otherwise doubles from
// RetryBaseDelay.
//
// The body of each discarded 429 is drained and closed. If ctx is done
// during a wait, ctx.Err() is returned. Once retries are exhausted the last
// 429 response is returned unread.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(resp, attempt)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		slog.Debug("registry rate limited, retrying",
			"url", req.URL.String(), "wait", wait, "attempt", attempt+1, "max_retries", maxRetries)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func backoff(resp *http.Response, attempt int) time.Duration {
	wait := RetryBaseDelay << attempt
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs >= 0 {
		wait = time.Duration(secs) * time.Second
	}
	if wait > MaxRetryDelay {
		wait = MaxRetryDelay
	}
	return wait
}
