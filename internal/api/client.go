// Package api is the HTTP client for the task-triage service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"triage-cli/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	analyzePath = "api/tasks/analyze/"
	suggestPath = "api/tasks/suggest/"

	// Error bodies past this size are truncated.
	maxErrorBody = 64 << 10

	genericServerError = "Server error"
)

// Client talks to one triage service.
type Client struct {
	base *url.URL
	hc   *http.Client
	log  *zap.Logger

	newRequestID func() string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.hc
			hc.Timeout = d
			c.hc = &hc
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("api: base url is empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: unsupported scheme %q (expected http|https)", u.Scheme)
	}
	c := &Client{
		base:         u,
		hc:           &http.Client{},
		log:          zap.NewNop(),
		newRequestID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Analyze posts the task list for scoring.
//
// On a non-2xx status the error detail is the raw response body.
func (c *Client) Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalysisResponse, error) {
	if req.Tasks == nil {
		req.Tasks = []json.RawMessage{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode analyze request: %w", err)
	}
	u := c.base.JoinPath(analyzePath)

	var out model.AnalysisResponse
	err = c.do(ctx, "analyze", http.MethodPost, u.String(), body, &out, textErrorDetail)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Suggest asks for today's top picks using the given strategy.
//
// On a non-2xx status the error detail is the "error" field of the JSON body.
func (c *Client) Suggest(ctx context.Context, strategy string) (*model.SuggestionResponse, error) {
	u := c.base.JoinPath(suggestPath)
	u.RawQuery = url.Values{"strategy": []string{strategy}}.Encode()

	var out model.SuggestionResponse
	err := c.do(ctx, "suggest", http.MethodGet, u.String(), nil, &out, jsonErrorDetail)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, op, method, target string, body []byte, out any, detail func([]byte) string) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := c.newRequestID()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("op", op),
			zap.String("request_id", reqID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("request done",
		zap.String("op", op),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Detail: detail(b)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProtocolError{Op: op, Err: err}
	}
	return nil
}

func textErrorDetail(b []byte) string {
	if strings.TrimSpace(string(b)) == "" {
		return genericServerError
	}
	return string(b)
}

func jsonErrorDetail(b []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &payload); err != nil || strings.TrimSpace(payload.Error) == "" {
		return genericServerError
	}
	return payload.Error
}
