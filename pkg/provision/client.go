// Package provision creates and removes the ephemeral fixtures a widget run
// needs: a test user (for its access token) and a room (the meeting
// destination).
package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/thesyncim/meetingwidget/internal/clock"
	"github.com/thesyncim/meetingwidget/pkg/log"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = time.Second
	defaultMaxDelay    = 30 * time.Second
	trackingIDHeader   = "TrackingID"
	trackingIDPrefix   = "WIDGET_E2E_"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the base transport. The bearer token is layered on top.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.base = c }
}

// WithLimiter sets the client-side request rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(cl *Client) { cl.limiter = l }
}

// WithClock replaces the clock used for retry delays.
func WithClock(c clock.Clock) Option {
	return func(cl *Client) { cl.clock = c }
}

// WithMaxAttempts bounds retries of throttled requests. Values below 1 mean 1.
func WithMaxAttempts(n int) Option {
	return func(cl *Client) {
		if n < 1 {
			n = 1
		}
		cl.maxAttempts = n
	}
}

// WithMaxRetryDelay bounds how long a throttled request may wait. A
// Retry-After beyond it fails the request instead of sleeping.
func WithMaxRetryDelay(d time.Duration) Option {
	return func(cl *Client) { cl.maxDelay = d }
}

// Client is a JSON client for one platform API base URL.
type Client struct {
	baseURL     string
	base        *http.Client
	http        *http.Client
	limiter     *rate.Limiter
	clock       clock.Clock
	maxAttempts int
	maxDelay    time.Duration
}

// NewClient returns a client sending requests under baseURL, authorized by ts.
// A nil ts sends unauthenticated requests.
func NewClient(baseURL string, ts oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		base:        http.DefaultClient,
		limiter:     rate.NewLimiter(rate.Inf, 1),
		clock:       clock.Real{},
		maxAttempts: defaultMaxAttempts,
		maxDelay:    defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = c.base
	if ts != nil {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.base)
		c.http = oauth2.NewClient(ctx, ts)
	}
	return c
}

// Do sends a JSON request and decodes a JSON response into out (when non-nil).
// Throttled responses (429, 503) are retried after Retry-After, unless it
// exceeds the client's maximum retry delay.
func (c *Client) Do(ctx context.Context, method, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s request: %w", method, path, err)
		}
	}

	url := c.baseURL + path
	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to build %s %s: %w", method, path, err)
		}
		trackingID := trackingIDPrefix + uuid.NewString()
		req.Header.Set(trackingIDHeader, trackingID)
		req.Header.Set("Accept", "application/json")
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read %s %s response: %w", method, path, err)
		}

		if retryable(resp.StatusCode) && attempt < c.maxAttempts {
			delay := retryAfter(resp.Header.Get("Retry-After"), c.clock.Now(), time.Duration(attempt)*defaultRetryDelay)
			if delay > c.maxDelay {
				log.WithFields(map[string]interface{}{
					"method":     method,
					"path":       path,
					"status":     resp.StatusCode,
					"delay":      delay.String(),
					"trackingId": trackingID,
				}).Warn("platform API throttled beyond retry limit")
				return newAPIError(resp, body, trackingID)
			}
			log.WithFields(map[string]interface{}{
				"method":     method,
				"path":       path,
				"status":     resp.StatusCode,
				"attempt":    attempt,
				"delay":      delay.String(),
				"trackingId": trackingID,
			}).Warn("platform API throttled, retrying")
			if err := c.clock.Sleep(ctx, delay); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return newAPIError(resp, body, trackingID)
		}
		if out == nil || len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
		return nil
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// retryAfter parses a Retry-After header given either as seconds or as an
// HTTP date, falling back to def.
func retryAfter(header string, now time.Time, def time.Duration) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return def
	}
	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	return def
}
