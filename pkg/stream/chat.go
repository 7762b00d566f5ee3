// Package stream implements the SSE chat client. A call posts one message
// and feeds incremental content to a caller-supplied sink until the server
// sends a terminal frame or the connection drops.
package stream

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"literati/internal/json"
	"literati/internal/util"
	"literati/pkg/api"
	"literati/pkg/auth"
	"literati/pkg/domain"
)

// DefaultTimeout bounds the whole stream. Chat responses run far longer
// than request/response calls, so this is minutes, not seconds.
const DefaultTimeout = 5 * time.Minute

const dataPrefix = "data: "

const (
	scannerBufferSize = 64 * 1024
	// DefaultMaxFrameSize caps a single SSE frame. Complete frames carry
	// the whole final content, so this is well above typical chunk sizes.
	DefaultMaxFrameSize = 10 * 1024 * 1024
)

// Options configures a chat stream Client.
type Options struct {
	Timeout time.Duration
	Tokens  auth.TokenProvider
	Logger  *slog.Logger
	// StrictFrames terminates the stream with a DecodeError on a
	// malformed data frame. The default skips such frames, logging each
	// skip at debug level.
	StrictFrames bool
	// MaxFrameSize bounds a single SSE frame in bytes. Zero selects
	// DefaultMaxFrameSize.
	MaxFrameSize int
	// HTTPClient overrides the underlying client, mainly for tests.
	HTTPClient *http.Client
}

// Client opens streaming chat connections. It holds no per-call state and
// is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	tokens     auth.TokenProvider
	logger     *slog.Logger
	strict     bool
	maxFrame   int
}

// NewClient constructs a chat stream client for the given base URL.
func NewClient(baseURL string, opts Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: opts.HTTPClient,
		timeout:    opts.Timeout,
		tokens:     opts.Tokens,
		logger:     opts.Logger,
		strict:     opts.StrictFrames,
		maxFrame:   opts.MaxFrameSize,
	}
	if c.maxFrame <= 0 {
		c.maxFrame = DefaultMaxFrameSize
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// NewConversationID returns an id for starting a fresh chat thread.
func (c *Client) NewConversationID() string {
	return uuid.NewString()
}

// StreamMessage posts message to the book's conversation and invokes sink
// with each content chunk. It returns nil when the server completes the
// stream, and never invokes sink after cancellation or a terminal frame.
func (c *Client) StreamMessage(ctx context.Context, bookID, conversationID, message string, sink func(content string)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return err
	}

	streamCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + "/books/" + url.PathEscape(bookID) +
		"/chat/conversations/" + url.PathEscape(conversationID) + "/messages/stream"
	req, err := http.NewRequestWithContext(streamCtx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("X-Request-Id", util.NewRequestID())
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &api.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if err := api.ClassifyStatus(resp.StatusCode, body); err != nil {
			return err
		}
		return &api.InvalidResponseError{Reason: "unexpected stream status " + resp.Status}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, scannerBufferSize), c.maxFrame)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			// Keep-alive and comment lines per the SSE convention.
			continue
		}
		var event domain.StreamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, dataPrefix)), &event); err != nil {
			if c.strict {
				return &api.DecodeError{Err: err}
			}
			c.logger.Debug("skipping malformed stream frame", "line", line, "error", err)
			continue
		}
		switch event.Type {
		case domain.StreamChunk:
			sink(event.Content)
		case domain.StreamComplete:
			if event.Content != "" {
				sink(event.Content)
			}
			return nil
		case domain.StreamError:
			msg := event.Error
			if msg == "" {
				msg = "chat stream reported an error"
			}
			return &api.TransportError{Err: errors.New(msg)}
		default:
			if c.strict {
				return &api.DecodeError{Err: errors.New("unknown stream event type " + string(event.Type))}
			}
			c.logger.Debug("skipping stream frame with unknown type", "type", event.Type)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := scanner.Err(); err != nil {
		return &api.InvalidResponseError{Reason: "stream read: " + err.Error()}
	}
	return &api.InvalidResponseError{Reason: "stream closed before terminal frame"}
}
