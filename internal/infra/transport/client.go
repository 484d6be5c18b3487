// Package transport provides the retrying HTTP client that every
// outbound fetch in the application goes through. It decodes responses
// by content type (JSON, feed XML, raw bytes, or text) so callers
// never touch the wire format themselves.
//
// Thread safety: Client is safe for concurrent use.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newspy/internal/infra/feedparser"
	"newspy/internal/observability/metrics"
	"newspy/internal/resilience/retry"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout     = 5 * time.Second
	defaultMaxBodySize = 10 << 20 // 10MB
	defaultUserAgent   = "newspy/1.0"
)

// ContentType values the client knows how to decode.
const (
	ContentTypeJSON  = "application/json"
	ContentTypeXML   = "application/xml"
	ContentTypeOctet = "application/octet-stream"
	ContentTypeText  = "text/plain"
	ContentTypeHTML  = "text/html"
)

// Request describes a single outbound HTTP call. Headers may carry a
// Content-Type that selects how the response body is decoded; it
// defaults to application/json.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Params  map[string]string
	Payload any
}

// Response holds the decoded body. Exactly one of JSON, FeedItems or
// Text is populated depending on the effective content type; Raw always
// carries the undecoded bytes.
type Response struct {
	StatusCode int
	Header     http.Header

	JSON      any
	FeedItems []feedparser.Item
	Text      string
	Raw       []byte
}

// Client is a retrying HTTP client with a shared connection pool.
type Client struct {
	http        *http.Client
	retryCfg    retry.Config
	limiter     *rate.Limiter
	maxBodySize int64
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) { c.retryCfg = cfg }
}

// WithRateLimit caps outbound request rate across all callers of this
// client. rps is requests per second; burst is the bucket size.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithMaxBodySize caps how many response bytes are read.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) { c.maxBodySize = n }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client with a pooled transport and sane defaults.
func New(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		},
		retryCfg:    retry.TransportConfig(),
		maxBodySize: defaultMaxBodySize,
		userAgent:   defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send executes the request with retry on transient failures
// (429/500/502/503/504 and network timeouts) and decodes the response
// body by content type.
//
// Error statuses surface as *retry.HTTPError carrying the
// upstream-reported message and reason when the body contains them.
// When every retry attempt fails the returned error also matches
// retry.ErrMaxRetries.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var resp *Response
	attempt := 0
	err := retry.WithBackoff(ctx, c.retryCfg, func() error {
		attempt++
		if attempt > 1 {
			metrics.RecordTransportRetry()
		}
		var err error
		resp, err = c.do(ctx, req)
		return err
	})

	if err != nil {
		statusCode := 0
		var httpErr *retry.HTTPError
		if errors.As(err, &httpErr) {
			statusCode = httpErr.StatusCode
		}
		metrics.RecordTransportRequest(req.Method, statusCode)
		return nil, err
	}

	metrics.RecordTransportRequest(req.Method, resp.StatusCode)
	return resp, nil
}

// do performs one attempt: build the request, execute it, read the
// body within the size limit, and decode.
func (c *Client) do(ctx context.Context, req Request) (*Response, error) {
	target, err := buildURL(req.URL, req.Params)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL: %w", err)
	}

	contentType := requestContentType(req.Headers)

	var body io.Reader
	if req.Payload != nil {
		data, err := encodePayload(req.Payload, contentType)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("User-Agent", c.userAgent)
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(raw)) > c.maxBodySize {
		return nil, fmt.Errorf("response size exceeds limit %d bytes", c.maxBodySize)
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		return nil, newHTTPError(httpResp, raw)
	}

	return decode(httpResp, raw, contentType, req.URL), nil
}

// decode routes the body by effective content type. A request that
// declared a content type gets its declared decoding; otherwise the
// response header decides.
func decode(httpResp *http.Response, raw []byte, requested, sourceURL string) *Response {
	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Raw:        raw,
	}

	ct := requested
	if ct == "" {
		ct = httpResp.Header.Get("Content-Type")
	}

	switch {
	case strings.Contains(ct, "json"):
		var v any
		// An unparsable JSON body yields a nil JSON value, not an
		// error; the raw bytes remain available.
		if err := json.Unmarshal(raw, &v); err == nil {
			resp.JSON = v
		}
	case strings.Contains(ct, "xml"), strings.Contains(ct, "rss"), strings.Contains(ct, "atom"):
		resp.FeedItems = feedparser.Parse(raw, sourceURL)
	case strings.Contains(ct, "octet-stream"), strings.Contains(ct, "zip"):
		// Raw only.
	default:
		// Best-effort JSON, then plain text.
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			resp.JSON = v
		} else {
			resp.Text = string(raw)
		}
	}

	return resp
}

// newHTTPError extracts the upstream error message and reason from a
// JSON error body of the form {"error": {"message": ..., "reason": ...}}
// or the flat {"message": ..., "code": ...} style some providers use.
// Non-JSON bodies fall back to the body text.
func newHTTPError(httpResp *http.Response, raw []byte) *retry.HTTPError {
	httpErr := &retry.HTTPError{
		StatusCode: httpResp.StatusCode,
		Message:    strings.TrimSpace(string(raw)),
		Header:     httpResp.Header,
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Reason  string `json:"reason"`
		} `json:"error"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		switch {
		case envelope.Error.Message != "":
			httpErr.Message = envelope.Error.Message
			httpErr.Reason = envelope.Error.Reason
		case envelope.Message != "":
			httpErr.Message = envelope.Message
			httpErr.Reason = envelope.Code
		}
	}

	if httpErr.Message == "" {
		httpErr.Message = httpResp.Status
	}
	return httpErr
}

func requestContentType(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, "Content-Type") {
			return v
		}
	}
	return ContentTypeJSON
}

func encodePayload(payload any, contentType string) ([]byte, error) {
	if strings.Contains(contentType, "json") {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		return data, nil
	}
	return []byte(fmt.Sprint(payload)), nil
}

func buildURL(rawURL string, params map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
