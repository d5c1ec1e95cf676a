// Package api is the transport adapter for the prep backend.
// Every call returns an Outcome; failures are classified, never thrown.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/h0rv/prep/internal/config"
)

const maxBodyBytes = 8 << 20

var errServerStatus = errors.New("server error")

// Client talks JSON (and multipart for two routes) to the backend.
// GETs are retried with linear backoff on network failures and 5xx;
// mutations are sent once. All calls share one circuit breaker.
type Client struct {
	http      *http.Client
	apiBase   string
	healthURL string
	retries   int
	backoff   time.Duration
	breaker   *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

// New creates a client for cfg.
func New(cfg config.APIConfig, logger *zap.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	root := "/" + strings.Trim(cfg.Root, "/")
	if root == "/" {
		root = ""
	}

	c := &Client{
		http:      &http.Client{Timeout: cfg.RequestTimeout},
		apiBase:   base + root,
		healthURL: base + "/" + strings.TrimLeft(cfg.HealthPath, "/"),
		retries:   cfg.GetRetries,
		backoff:   cfg.RetryBackoff,
		logger:    logger.Named("api"),
	}

	bc := cfg.Breaker
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "prep-backend",
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= bc.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})
	return c
}

// Get fetches path. Retried on network failures and 5xx.
func (c *Client) Get(ctx context.Context, path string) Outcome {
	return c.call(ctx, http.MethodGet, c.apiBase+path, nil, "", true)
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, path string, body any) Outcome {
	return c.callJSON(ctx, http.MethodPost, path, body)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, path string, body any) Outcome {
	return c.callJSON(ctx, http.MethodPut, path, body)
}

// Delete removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string) Outcome {
	return c.call(ctx, http.MethodDelete, c.apiBase+path, nil, "", false)
}

// PostForm sends form as multipart/form-data.
func (c *Client) PostForm(ctx context.Context, path string, form FormPayload) Outcome {
	body, contentType, err := form.Encode()
	if err != nil {
		return failed(FailureNetwork, 0, err)
	}
	return c.call(ctx, http.MethodPost, c.apiBase+path, body, contentType, false)
}

// Health probes the liveness route outside the API root. It bypasses the
// circuit breaker so a recovered backend is noticed on the next probe.
func (c *Client) Health(ctx context.Context) Outcome {
	reqID := uuid.NewString()
	res, err := c.roundTrip(ctx, http.MethodGet, c.healthURL, nil, "", reqID)
	out := classify(res, err)
	out.RequestID = reqID
	if out.Class == FailureDecode {
		// Any 2xx counts as alive, whatever the body.
		out = Outcome{Payload: json.RawMessage("{}"), Status: out.Status, RequestID: reqID}
	}
	return out
}

func (c *Client) callJSON(ctx context.Context, method, path string, body any) Outcome {
	var data []byte
	if body != nil {
		var err error
		if data, err = json.Marshal(body); err != nil {
			return failed(FailureNetwork, 0, fmt.Errorf("failed to encode request body: %w", err))
		}
	}
	return c.call(ctx, method, c.apiBase+path, data, "application/json", false)
}

func (c *Client) call(ctx context.Context, method, url string, body []byte, contentType string, retry bool) Outcome {
	attempts := 1
	if retry && c.retries > 0 {
		attempts += c.retries
	}

	var out Outcome
	for attempt := 1; attempt <= attempts; attempt++ {
		out = c.once(ctx, method, url, body, contentType)
		if out.OK() || attempt == attempts || !retryable(ctx, out) {
			break
		}

		wait := c.backoff * time.Duration(attempt)
		c.logger.Debug("retrying request",
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return out
		case <-timer.C:
		}
	}
	return out
}

func (c *Client) once(ctx context.Context, method, url string, body []byte, contentType string) Outcome {
	reqID := uuid.NewString()
	start := time.Now()

	result, err := c.breaker.Execute(func() (any, error) {
		res, err := c.roundTrip(ctx, method, url, body, contentType, reqID)
		if err != nil {
			return nil, err
		}
		if res.status >= 500 {
			return res, errServerStatus
		}
		return res, nil
	})

	var res *response
	if r, ok := result.(*response); ok {
		res = r
	}
	if errors.Is(err, errServerStatus) {
		err = nil
	}

	out := classify(res, err)
	out.RequestID = reqID

	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", url),
		zap.String("request_id", reqID),
		zap.Int("status", out.Status),
		zap.Duration("duration", time.Since(start)),
	}
	if out.OK() {
		c.logger.Debug("request completed", fields...)
	} else {
		c.logger.Warn("request failed", append(fields, zap.Stringer("class", out.Class), zap.Error(out.Err))...)
	}
	return out
}

type response struct {
	status int
	body   []byte
}

func (c *Client) roundTrip(ctx context.Context, method, url string, body []byte, contentType, reqID string) (*response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &response{status: resp.StatusCode, body: data}, nil
}

func classify(res *response, err error) Outcome {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return failed(FailureUnavailable, 0, fmt.Errorf("%w: %v", ErrUnavailable, err))
	case err != nil:
		return failed(FailureNetwork, 0, err)
	case res == nil:
		return failed(FailureNetwork, 0, errors.New("no response"))
	}

	if res.status < 200 || res.status > 299 {
		out := failed(FailureStatus, res.status, fmt.Errorf("%w: %d", ErrStatus, res.status))
		out.Detail = detail(res.body)
		return out
	}

	body := bytes.TrimSpace(res.body)
	if len(body) == 0 && res.status == http.StatusNoContent {
		return Outcome{Payload: json.RawMessage("{}"), Status: res.status}
	}
	if len(body) == 0 || (body[0] != '{' && body[0] != '[') || !json.Valid(body) {
		return failed(FailureDecode, res.status, ErrNotJSON)
	}
	return Outcome{Payload: json.RawMessage(body), Status: res.status}
}

// detail extracts FastAPI's {"detail": "..."} message, if present.
func detail(body []byte) string {
	var v struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return ""
	}
	if s, ok := v.Detail.(string); ok {
		return s
	}
	return ""
}

func retryable(ctx context.Context, o Outcome) bool {
	if ctx.Err() != nil {
		return false
	}
	switch o.Class {
	case FailureNetwork:
		return true
	case FailureStatus:
		return o.Status >= 500
	default:
		return false
	}
}
