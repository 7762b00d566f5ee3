package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"literati/pkg/auth"
	"literati/pkg/domain"
)

// failingTransport simulates transport-level failures (no response received).
type failingTransport struct {
	calls int32
}

func (f *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	atomic.AddInt32(&f.calls, 1)
	return nil, &net.OpError{Op: "dial", Err: errors.New("connection refused")}
}

func testClient(baseURL string, opts Options) *Client {
	if opts.RetryDelay == 0 {
		opts.RetryDelay = time.Millisecond
	}
	return NewClient(baseURL, opts)
}

func TestExecuteDecodesSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/books/b1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"b1","title":"Walden","author":"Thoreau","createdAt":"2024-03-01T10:20:30.123Z","updatedAt":"2024-03-01T10:20:30Z"}`))
	}))
	defer srv.Close()

	book, err := Execute[domain.Book](context.Background(), testClient(srv.URL, Options{}), Get("books/b1"))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if book.ID != "b1" || book.Title != "Walden" || book.Author != "Thoreau" {
		t.Fatalf("unexpected book: %+v", book)
	}
	if book.CreatedAt.Nanosecond() != 123_000_000 {
		t.Fatalf("fractional timestamp lost: %v", book.CreatedAt.Time)
	}
}

func TestClientErrorCarriesExactCodeAndRawBody(t *testing.T) {
	rawBody := `{"error":"book already exists","code":"BOOK_EXISTS"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(rawBody))
	}))
	defer srv.Close()

	_, err := Execute[domain.Book](context.Background(), testClient(srv.URL, Options{}), Post("books/import", map[string]string{"isbn": "123"}))
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("expected ClientError, got %v", err)
	}
	if clientErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", clientErr.StatusCode)
	}
	if string(clientErr.Body) != rawBody {
		t.Fatalf("raw body not preserved: %s", clientErr.Body)
	}
}

func TestServerErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, Options{}).Do(context.Background(), Get("books"))
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if serverErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", serverErr.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("any received response must not be retried, got %d calls", got)
	}
}

func TestUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, Options{}).Do(context.Background(), Get("books"))
	var unexpected *UnexpectedStatusError
	if !errors.As(err, &unexpected) {
		t.Fatalf("expected UnexpectedStatusError, got %v", err)
	}
	if unexpected.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", unexpected.StatusCode)
	}
}

func TestTransportFailureRetriesUpToCeiling(t *testing.T) {
	rt := &failingTransport{}
	c := testClient("http://example.invalid", Options{
		MaxRetries: 2,
		HTTPClient: &http.Client{Transport: rt},
	})
	_, err := c.Do(context.Background(), Get("books"))
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if got := atomic.LoadInt32(&rt.calls); got != 3 {
		t.Fatalf("expected 1 initial + 2 retries = 3 attempts, got %d", got)
	}
}

func TestNegativeMaxRetriesDisablesRetries(t *testing.T) {
	rt := &failingTransport{}
	c := testClient("http://example.invalid", Options{
		MaxRetries: -1,
		HTTPClient: &http.Client{Transport: rt},
	})
	if _, err := c.Do(context.Background(), Get("books")); err == nil {
		t.Fatalf("expected error")
	}
	if got := atomic.LoadInt32(&rt.calls); got != 1 {
		t.Fatalf("expected single attempt, got %d", got)
	}
}

func TestCanceledContextSkipsNetworkCall(t *testing.T) {
	rt := &failingTransport{}
	c := testClient("http://example.invalid", Options{HTTPClient: &http.Client{Transport: rt}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Do(ctx, Get("books"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := atomic.LoadInt32(&rt.calls); got != 0 {
		t.Fatalf("canceled call must not touch the network, got %d attempts", got)
	}
}

func TestCancellationInterruptsBackoff(t *testing.T) {
	rt := &failingTransport{}
	c := testClient("http://example.invalid", Options{
		MaxRetries: 3,
		RetryDelay: 5 * time.Second,
		HTTPClient: &http.Client{Transport: rt},
	})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := c.Do(ctx, Get("books"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("backoff did not honor cancellation, took %v", elapsed)
	}
}

func TestDecodeFailureAfterSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":`))
	}))
	defer srv.Close()

	_, err := Execute[domain.Book](context.Background(), testClient(srv.URL, Options{}), Get("books/b1"))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestDecodeFailureNamesBadTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"b1","title":"x","author":"y","createdAt":"01/02/2024","updatedAt":"2024-03-01T10:20:30Z"}`))
	}))
	defer srv.Close()

	_, err := Execute[domain.Book](context.Background(), testClient(srv.URL, Options{}), Get("books/b1"))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if !strings.Contains(err.Error(), "01/02/2024") {
		t.Fatalf("decode error should name the offending string, got %v", err)
	}
}

func TestStandardAndAuthHeaders(t *testing.T) {
	var gotContentType, gotAccept, gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, Options{Tokens: auth.NewStaticTokenProvider("tok-1")})
	if _, err := c.Do(context.Background(), Post("books/import", map[string]string{"isbn": "123"})); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotContentType != "application/json" || gotAccept != "application/json" {
		t.Fatalf("standard headers missing: %q %q", gotContentType, gotAccept)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("auth header missing: %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatalf("request id header missing")
	}
}

func TestDescriptorHeaderOverridesDefaults(t *testing.T) {
	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	req := Get("events")
	req.Header = http.Header{"Accept": []string{"text/event-stream"}}
	if _, err := testClient(srv.URL, Options{}).Do(context.Background(), req); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotAccept != "text/event-stream" {
		t.Fatalf("descriptor header should override default, got %q", gotAccept)
	}
}

func TestClassifyStatusBoundaries(t *testing.T) {
	if err := ClassifyStatus(200, nil); err != nil {
		t.Fatalf("200 should be success, got %v", err)
	}
	if err := ClassifyStatus(299, nil); err != nil {
		t.Fatalf("299 should be success, got %v", err)
	}
	var clientErr *ClientError
	if err := ClassifyStatus(400, []byte("x")); !errors.As(err, &clientErr) {
		t.Fatalf("400 should be ClientError, got %v", err)
	}
	var serverErr *ServerError
	if err := ClassifyStatus(599, nil); !errors.As(err, &serverErr) {
		t.Fatalf("599 should be ServerError, got %v", err)
	}
	var unexpected *UnexpectedStatusError
	if err := ClassifyStatus(302, nil); !errors.As(err, &unexpected) {
		t.Fatalf("302 should be UnexpectedStatus, got %v", err)
	}
}
