// Package remote talks to the matchmaking service's observer endpoint.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Defaults for the lookup. The service is polled rarely, so attempts are few
// and spaced out.
const (
	DefaultMaxAttempts = 3
	DefaultBackoff     = 10 * time.Second
	DefaultTimeout     = 10 * time.Second

	defaultUserAgent = "matchwatch/0.1"
)

// Sentinel errors.
var (
	// ErrDefinitiveFailure is returned once the attempt budget is exhausted.
	ErrDefinitiveFailure = errors.New("match lookup failed")

	// ErrNoEndpoint is returned by NewClient when no endpoint is configured.
	ErrNoEndpoint = errors.New("match lookup endpoint not configured")
)

// retryable lists the statuses the service returns while a session is not
// yet visible to observers.
var retryable = map[int]bool{
	http.StatusBadRequest:          true,
	http.StatusForbidden:           true,
	http.StatusInternalServerError: true,
}

// Client issues match lookups with a bounded retry.
type Client struct {
	endpoint    string
	http        *http.Client
	maxAttempts int
	backoff     time.Duration
	timeout     time.Duration
	userAgent   string
	logger      *slog.Logger

	// sleep waits between attempts; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMaxAttempts sets the total attempt budget per lookup. Values below 1
// are ignored.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n >= 1 {
			c.maxAttempts = n
		}
	}
}

// WithBackoff sets the fixed wait between attempts.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.backoff = d
		}
	}
}

// WithTimeout bounds each attempt. A timeout counts as a transport error.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger for retry diagnostics. Nil disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient builds a Client for the given observer endpoint URL.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse endpoint %q: scheme must be http or https", endpoint)
	}

	c := &Client{
		endpoint:    u.String(),
		http:        &http.Client{},
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
		timeout:     DefaultTimeout,
		userAgent:   defaultUserAgent,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c, nil
}

// RetryState tracks a single FetchMatches call.
type RetryState struct {
	Attempt int
	LastErr error
}

type lookupRequest struct {
	Find findMatches `json:"observerMatchFindMatches"`
}

type findMatches struct {
	SessionID  int64  `json:"sessionID"`
	PlayerName string `json:"playerName"`
}

// FetchMatches asks the service for the matches visible to sessionID.
//
// Statuses 400, 403 and 500 and transport errors are retried after a fixed
// back-off until the attempt budget runs out, at which point the returned
// error wraps ErrDefinitiveFailure. Any other status returns the body as-is;
// decoding it is the caller's concern.
func (c *Client) FetchMatches(ctx context.Context, sessionID int64) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	payload, err := json.Marshal(lookupRequest{Find: findMatches{SessionID: sessionID}})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var state RetryState
	for state.Attempt < c.maxAttempts {
		if state.Attempt > 0 {
			if err := c.sleep(ctx, c.backoff); err != nil {
				return nil, err
			}
		}
		state.Attempt++

		body, status, err := c.attempt(ctx, payload)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			state.LastErr = err
		} else if retryable[status] {
			state.LastErr = fmt.Errorf("status %d", status)
		} else {
			c.logger.Debug("match lookup answered",
				"session_id", sessionID, "status", status, "attempt", state.Attempt)
			return body, nil
		}

		c.logger.Warn("match lookup attempt failed",
			"session_id", sessionID, "attempt", state.Attempt,
			"max_attempts", c.maxAttempts, "error", state.LastErr)
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrDefinitiveFailure, state.Attempt, state.LastErr)
}

func (c *Client) attempt(ctx context.Context, payload []byte) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
