// Package client issues authenticated requests against the portal API and
// unwraps its response envelope.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/noah-isme/intranet-portal-client/internal/codec"
	"github.com/noah-isme/intranet-portal-client/internal/session"
	"github.com/noah-isme/intranet-portal-client/internal/telemetry"
	"github.com/noah-isme/intranet-portal-client/pkg/config"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/logger"
)

const (
	headerRequestID     = "X-Request-ID"
	defaultConnectLimit = 10 * time.Second
)

// Options configures an APIClient.
type Options struct {
	BaseURL        string
	ConnectTimeout time.Duration
	// RequestTimeout bounds a whole call; zero leaves it to the connect timeout and the server.
	RequestTimeout time.Duration
	Breaker        config.BreakerConfig
	// HTTPClient replaces the default persistent client, mainly for tests.
	HTTPClient *http.Client
}

// OptionsFromConfig maps loaded configuration onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:        cfg.API.BaseURL,
		ConnectTimeout: cfg.API.ConnectTimeout,
		RequestTimeout: cfg.API.RequestTimeout,
		Breaker:        cfg.Breaker,
	}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// APIClient builds and sends requests over a single persistent http.Client.
// It never retries; every failure is returned to the caller once.
type APIClient struct {
	baseURL string
	http    *http.Client
	tokens  *session.TokenStore
	codec   *codec.Codec
	breaker *gobreaker.CircuitBreaker
	metrics *telemetry.Metrics
	logger  *zap.Logger
}

// New constructs a client. tokens is read on every request but never written.
func New(opts Options, tokens *session.TokenStore, c *codec.Codec, metrics *telemetry.Metrics, l *zap.Logger) *APIClient {
	l = logger.OrNop(l)
	if tokens == nil {
		tokens = session.NewTokenStore()
	}
	if c == nil {
		c = codec.New(l)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(opts.ConnectTimeout, opts.RequestTimeout)
	}
	api := &APIClient{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		codec:   c,
		metrics: metrics,
		logger:  l,
	}
	if opts.Breaker.Enabled {
		api.breaker = newBreaker(opts.Breaker, l)
	}
	return api
}

func newHTTPClient(connectTimeout, requestTimeout time.Duration) *http.Client {
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectLimit
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}).DialContext
	transport.TLSHandshakeTimeout = connectTimeout
	return &http.Client{Transport: transport, Timeout: requestTimeout}
}

func newBreaker(cfg config.BreakerConfig, l *zap.Logger) *gobreaker.CircuitBreaker {
	threshold := uint32(cfg.FailureThreshold)
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "portal-api",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn("circuit breaker state changed", zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
}

// Tokens exposes the store the client reads credentials from.
func (c *APIClient) Tokens() *session.TokenStore {
	return c.tokens
}

// Codec exposes the codec used for bodies.
func (c *APIClient) Codec() *codec.Codec {
	return c.codec
}

// BuildRequest composes baseURL+endpoint with JSON headers and, when a token
// is stored, a bearer Authorization header. endpoint must already be
// percent-encoded. body may be nil, raw []byte, or a value to encode.
func (c *APIClient) BuildRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		payload, err := c.codec.Encode(b)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())

	// Whatever token is stored right now is used, even mid-refresh.
	if sess := c.tokens.Snapshot(); sess != nil {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	return req, nil
}

// Send performs the call and reads the whole body. Transport failures come
// back as NETWORK_FAILURE; HTTP error statuses are returned as a Response and
// classified by Unwrap.
func (c *APIClient) Send(req *http.Request) (*Response, error) {
	start := time.Now()
	endpoint := strings.TrimPrefix(req.URL.Path, c.basePath())
	requestID := req.Header.Get(headerRequestID)

	resp, err := c.execute(req)
	duration := time.Since(start)
	if err != nil {
		c.metrics.ObserveRequest(req.Method, endpoint, 0, duration)
		classified := classifyTransport(err)
		c.metrics.RecordFailure(classified.Code)
		c.logger.Debug("api request failed",
			zap.String("method", req.Method),
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Duration("latency", duration),
			zap.Error(err),
		)
		return nil, classified
	}

	resp.RequestID = requestID
	c.metrics.ObserveRequest(req.Method, endpoint, resp.StatusCode, duration)
	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("latency", duration),
	)
	return resp, nil
}

func (c *APIClient) execute(req *http.Request) (*Response, error) {
	if c.breaker == nil {
		return c.roundTrip(req)
	}
	var out *Response
	_, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.roundTrip(req)
		if err != nil {
			return nil, err
		}
		out = resp
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if out != nil {
		// 5xx responses still reach Unwrap for classification.
		return out, nil
	}
	return nil, err
}

func (c *APIClient) roundTrip(req *http.Request) (*Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil && len(body) == 0 {
		return nil, err
	}
	// A body cut short mid-stream is kept; the codec repairs what it can.
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func (c *APIClient) basePath() string {
	if i := strings.Index(c.baseURL, "://"); i >= 0 {
		rest := c.baseURL[i+3:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			return rest[j:]
		}
	}
	return ""
}

func classifyTransport(err error) *appErrors.Error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return appErrors.Wrap(err, appErrors.ErrBreakerOpen.Code, 0, appErrors.ErrBreakerOpen.Message)
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrNetwork.Code, 0, appErrors.ErrNetwork.Message)
}

// Call builds, sends and unwraps in one step.
func Call[T any](ctx context.Context, c *APIClient, method, endpoint string, body interface{}) (*T, error) {
	req, err := c.BuildRequest(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.Send(req)
	if err != nil {
		return nil, err
	}
	out, err := Unwrap[T](c, resp)
	if err != nil {
		c.metrics.RecordFailure(appErrors.FromError(err).Code)
	}
	return out, err
}

// Exec sends a request whose response payload is not needed and reports only
// success or a classified failure.
func Exec(ctx context.Context, c *APIClient, method, endpoint string, body interface{}) error {
	req, err := c.BuildRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	resp, err := c.Send(req)
	if err != nil {
		return err
	}
	if err := CheckResponse(resp); err != nil {
		c.metrics.RecordFailure(appErrors.FromError(err).Code)
		return err
	}
	return nil
}
