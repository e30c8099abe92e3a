// Package apiclient is the single HTTP adapter between healthdash and the
// health platform API.
//
// Every call goes through Client.Do, which attaches the bearer token,
// unwraps the {success, message, data, pagination} envelope and normalizes
// failures into *APIError. A 401 response tears the session down; later
// authenticated calls fail locally with v1.ErrNotAuthenticated until a new
// session is saved.
package apiclient

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

	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/healthdash/internal/config"
	"github.com/fyrsmithlabs/healthdash/internal/logging"
	"github.com/fyrsmithlabs/healthdash/internal/session"
	"github.com/fyrsmithlabs/healthdash/internal/telemetry"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

const maxResponseSize = 10 * 1024 * 1024

// Request describes one API call. Path is relative to the base URL and
// starts with "/". Query is a struct with `url` tags, encoded with
// go-querystring. Body is JSON encoded when non-nil.
type Request struct {
	Method string
	Path   string
	Query  any
	Body   any
	// Public marks endpoints that work without a session, such as login.
	Public bool
}

// Response carries the envelope fields other than data.
type Response struct {
	Status     int
	Message    string
	Pagination *v1.Pagination
}

// Doer is what resource wrappers need from the client.
type Doer interface {
	Do(ctx context.Context, req Request, out any) (*Response, error)
}

// Client talks to the API. It is safe for concurrent use.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	store          session.Store
	limiter        *rate.Limiter
	logger         *logging.Logger
	tracer         trace.Tracer
	metrics        *requestMetrics
	userAgent      string
	onUnauthorized func(context.Context)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. Its Timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTelemetry sends spans and request metrics to tel.
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(c *Client) {
		c.tracer = tel.Tracer(instrumentationName)
		c.metrics = newRequestMetrics(tel.Meter(instrumentationName), c.logger)
	}
}

// WithOnUnauthorized registers fn to run after a 401 cleared the session.
// The CLI prints a login hint; the dashboard switches screens.
func WithOnUnauthorized(fn func(context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client for cfg. The store provides and receives the session.
func New(cfg config.APIConfig, store session.Store, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		store:      store,
		logger:     logging.Nop(),
		userAgent:  "healthctl",
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = (*telemetry.Telemetry)(nil).Tracer(instrumentationName)
	}
	if c.metrics == nil {
		c.metrics = newRequestMetrics((*telemetry.Telemetry)(nil).Meter(instrumentationName), c.logger)
	}
	return c
}

// Store returns the session store the client reads tokens from.
func (c *Client) Store() session.Store { return c.store }

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Do performs req and decodes the envelope's data into out when out is
// non-nil. It never retries.
func (c *Client) Do(ctx context.Context, req Request, out any) (*Response, error) {
	route := routeOf(req.Path)
	requestID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, requestID)

	ctx, span := c.tracer.Start(ctx, "apiclient "+req.Method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.route", route),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := c.do(ctx, req, requestID, out)

	status := 0
	if resp != nil {
		status = resp.Status
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		status = apiErr.Status
	}
	elapsed := time.Since(start)

	span.SetAttributes(attribute.Int("http.status_code", status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if !errors.Is(err, v1.ErrNotAuthenticated) {
		c.metrics.record(ctx, req.Method, route, status, elapsed)
	}

	c.logger.Debug(ctx, "api request",
		zap.String("method", req.Method),
		zap.String("route", route),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
		zap.Error(err),
	)
	return resp, err
}

func (c *Client) do(ctx context.Context, req Request, requestID string, out any) (*Response, error) {
	var token string
	if !req.Public {
		s, err := c.store.Load()
		if errors.Is(err, session.ErrNoSession) {
			return nil, v1.ErrNotAuthenticated
		}
		if err != nil {
			return nil, fmt.Errorf("loading session: %w", err)
		}
		token = s.Token
		ctx = logging.WithUserID(ctx, s.User.ID)
	} else if s, err := c.store.Load(); err == nil {
		token = s.Token
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &APIError{Message: GenericMessage, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("X-Request-ID", requestID)
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &APIError{Message: GenericMessage, Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, &APIError{Message: GenericMessage, Err: fmt.Errorf("reading response: %w", err)}
	}

	var env v1.Envelope
	var decodeErr error
	if len(bytes.TrimSpace(body)) > 0 {
		decodeErr = json.Unmarshal(body, &env)
	}

	if httpResp.StatusCode == http.StatusUnauthorized {
		c.teardown(ctx, req.Public)
		return nil, newStatusError(httpResp.StatusCode, env.Message)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, newStatusError(httpResp.StatusCode, env.Message)
	}
	if decodeErr != nil {
		return nil, &APIError{Status: httpResp.StatusCode, Message: GenericMessage, Err: fmt.Errorf("decoding envelope: %w", decodeErr)}
	}
	if len(body) > 0 && !env.Success {
		msg := env.Message
		if msg == "" {
			msg = GenericMessage
		}
		return nil, &APIError{Status: httpResp.StatusCode, Message: msg}
	}

	resp := &Response{
		Status:     httpResp.StatusCode,
		Message:    env.Message,
		Pagination: env.Pagination,
	}
	if out != nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, &APIError{Status: httpResp.StatusCode, Message: GenericMessage, Err: fmt.Errorf("decoding data: %w", err)}
		}
	}
	return resp, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := c.baseURL + req.Path
	if req.Query != nil {
		values, err := query.Values(req.Query)
		if err != nil {
			return nil, fmt.Errorf("encoding query: %w", err)
		}
		if encoded := values.Encode(); encoded != "" {
			u += "?" + encoded
		}
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	return httpReq, nil
}

// teardown clears the session after a 401. Store errors are logged, not
// returned, so the caller still sees ErrUnauthorized. The expiry hook is
// skipped for public calls: a 401 there means bad credentials.
func (c *Client) teardown(ctx context.Context, public bool) {
	if err := c.store.Clear(); err != nil {
		c.logger.Warn(ctx, "failed to clear session after 401", zap.Error(err))
	}
	if c.onUnauthorized != nil && !public {
		c.onUnauthorized(ctx)
	}
}

// Get is shorthand for an authenticated GET.
func (c *Client) Get(ctx context.Context, path string, q any, out any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: q}, out)
}

// Post is shorthand for an authenticated POST.
func (c *Client) Post(ctx context.Context, path string, body any, out any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put is shorthand for an authenticated PUT.
func (c *Client) Put(ctx context.Context, path string, body any, out any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete is shorthand for an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}
