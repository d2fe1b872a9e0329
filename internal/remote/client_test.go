package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// countingSleep records back-off waits without sleeping.
func countingSleep(waits *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return ctx.Err()
	}
}

func newTestClient(t *testing.T, url string, waits *[]time.Duration) *Client {
	t.Helper()
	c, err := NewClient(url, WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	c.sleep = countingSleep(waits)
	return c
}

func TestFetchMatches_SucceedsOnThirdAttempt(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `{"matches": []}`)
	}))
	t.Cleanup(server.Close)

	var waits []time.Duration
	c := newTestClient(t, server.URL, &waits)

	body, err := c.FetchMatches(context.Background(), 42)
	if err != nil {
		t.Fatalf("FetchMatches() error = %v", err)
	}
	if string(body) != `{"matches": []}` {
		t.Errorf("FetchMatches() body = %q", body)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
	if len(waits) != 2 {
		t.Fatalf("observed %d back-off waits, want 2", len(waits))
	}
	for _, d := range waits {
		if d != DefaultBackoff {
			t.Errorf("back-off = %v, want %v", d, DefaultBackoff)
		}
	}
}

func TestFetchMatches_DefinitiveFailureAfterBudget(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	var waits []time.Duration
	c := newTestClient(t, server.URL, &waits)

	_, err := c.FetchMatches(context.Background(), 42)
	if !errors.Is(err, ErrDefinitiveFailure) {
		t.Fatalf("FetchMatches() error = %v, want %v", err, ErrDefinitiveFailure)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want exactly 3", got)
	}
	if len(waits) != 2 {
		t.Errorf("observed %d back-off waits, want 2", len(waits))
	}
}

func TestFetchMatches_TransportErrorIsRetried(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	var waits []time.Duration
	c := newTestClient(t, url, &waits)

	_, err := c.FetchMatches(context.Background(), 1)
	if !errors.Is(err, ErrDefinitiveFailure) {
		t.Fatalf("FetchMatches() error = %v, want %v", err, ErrDefinitiveFailure)
	}
	if len(waits) != DefaultMaxAttempts-1 {
		t.Errorf("observed %d back-off waits, want %d", len(waits), DefaultMaxAttempts-1)
	}
}

func TestFetchMatches_NonRetryableStatusReturnsBody(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "not here")
	}))
	t.Cleanup(server.Close)

	var waits []time.Duration
	c := newTestClient(t, server.URL, &waits)

	body, err := c.FetchMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchMatches() error = %v", err)
	}
	if string(body) != "not here" {
		t.Errorf("FetchMatches() body = %q, want %q", body, "not here")
	}
	if calls.Load() != 1 || len(waits) != 0 {
		t.Errorf("calls = %d, waits = %d; want a single attempt", calls.Load(), len(waits))
	}
}

func TestFetchMatches_RequestShape(t *testing.T) {
	var (
		gotMethod, gotType, gotAccept string
		gotBody                       map[string]map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, `{}`)
	}))
	t.Cleanup(server.Close)

	var waits []time.Duration
	c := newTestClient(t, server.URL, &waits)
	if _, err := c.FetchMatches(context.Background(), 123456); err != nil {
		t.Fatalf("FetchMatches() error = %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotType != "application/json;charset=utf-8" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	find, ok := gotBody["observerMatchFindMatches"]
	if !ok {
		t.Fatalf("body = %v, want observerMatchFindMatches", gotBody)
	}
	if find["sessionID"] != float64(123456) || find["playerName"] != "" {
		t.Errorf("observerMatchFindMatches = %v", find)
	}
}

func TestFetchMatches_CancelDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, WithBackoff(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.FetchMatches(ctx, 1)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("FetchMatches() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("FetchMatches() did not return after cancel")
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient("  "); !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("NewClient(empty) error = %v, want %v", err, ErrNoEndpoint)
	}
	if _, err := NewClient("ftp://example.com"); err == nil {
		t.Error("NewClient(ftp) expected error")
	}
	c, err := NewClient("https://example.com/observer", WithMaxAttempts(0), WithBackoff(time.Second))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.maxAttempts != DefaultMaxAttempts {
		t.Errorf("maxAttempts = %d, want default %d", c.maxAttempts, DefaultMaxAttempts)
	}
	if c.backoff != time.Second {
		t.Errorf("backoff = %v, want 1s", c.backoff)
	}
}
