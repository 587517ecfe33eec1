// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry looks up work metadata by DOI in the CrossRef works API.
// A failed or non-200 lookup is reported as types.NotFound, never retried as
// a transient error.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/refcite/internal/httputil"
	"github.com/pdiddy/refcite/internal/normalize"
	"github.com/pdiddy/refcite/pkg/types"
)

const (
	// DefaultBaseURL is the CrossRef works endpoint; the DOI is appended.
	DefaultBaseURL = "https://api.crossref.org/works/"

	// DefaultRateLimit is the default number of lookups per second.
	DefaultRateLimit = 10.0

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Lookuper fetches the raw record for a DOI.
type Lookuper interface {
	Lookup(ctx context.Context, doi string) (types.LookupResult, error)
}

// Client is a rate-limited CrossRef works client. It is safe for concurrent
// use.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	mailto     string
	maxRetries int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the URL the DOI is appended to.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMailto sets the contact address for CrossRef's polite pool.
func WithMailto(addr string) ClientOption {
	return func(c *Client) {
		c.mailto = addr
	}
}

// WithRateLimit caps lookups per second. Non-positive values disable the
// limit.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithMaxRetries sets how many times an HTTP 429 is retried.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// NewClient creates a registry client with CrossRef defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		baseURL:    DefaultBaseURL,
		userAgent:  "refcite/0.1",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig creates a client from the registry section of the
// configuration.
func NewClientFromConfig(cfg types.RegistryConfig) *Client {
	opts := []ClientOption{
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		WithRateLimit(cfg.RateLimit),
		WithMaxRetries(cfg.MaxRetries),
		WithMailto(cfg.Mailto),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, WithUserAgent(cfg.UserAgent))
	}
	return NewClient(opts...)
}

// Lookup fetches the work record for doi.
//
// Transport failures and non-200 responses yield types.NotFound with a nil
// error. A 200 whose body is not a JSON object with an object "message"
// returns an error wrapping normalize.ErrMalformedPayload. The only other
// error is ctx's, when it ends before the request is sent.
func (c *Client) Lookup(ctx context.Context, doi string) (types.LookupResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return types.NotFound(), err
	}

	lookupURL := c.lookupURL(doi)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		slog.Warn("registry request not built", "doi", doi, "err", err)
		return types.NotFound(), nil
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		if ctx.Err() != nil {
			return types.NotFound(), ctx.Err()
		}
		slog.Warn("registry unreachable", "doi", doi, "err", err)
		return types.NotFound(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info("registry has no record", "doi", doi, "status", resp.StatusCode)
		return types.NotFound(), nil
	}

	rec, err := decodeMessage(resp)
	if err != nil {
		return types.NotFound(), fmt.Errorf("decoding registry response for %s: %w", doi, err)
	}
	slog.Debug("registry record fetched", "doi", doi, "keys", len(rec))
	return types.Found(rec), nil
}

func (c *Client) lookupURL(doi string) string {
	segments := strings.Split(strings.TrimSpace(doi), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	u := c.baseURL + strings.Join(segments, "/")
	if c.mailto != "" {
		u += "?mailto=" + url.QueryEscape(c.mailto)
	}
	return u
}

// decodeMessage extracts the "message" object from a works response.
func decodeMessage(resp *http.Response) (types.RawRecord, error) {
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var envelope map[string]any
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", normalize.ErrMalformedPayload, err)
	}
	msg, ok := envelope["message"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: message is %T, want object", normalize.ErrMalformedPayload, envelope["message"])
	}
	return types.RawRecord(msg), nil
}

// Resolve looks up doi and normalizes the result. A DOI the registry cannot
// supply resolves to types.Dummy(doi).
func Resolve(ctx context.Context, l Lookuper, doi string) (types.Reference, error) {
	res, err := l.Lookup(ctx, doi)
	if err != nil {
		return types.Reference{}, err
	}
	return normalize.Normalize(doi, res)
}
