// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     client
// Description: Executes catalog commands over HTTP and decodes the responses
// Created:     2026-10-18
// License:     MIT
// ============================================================================

// Package client sends one command invocation as an HTTP GET to the API
// endpoint and decodes the body according to the requested logical format.
// There are no retries; every Execute call performs exactly one request.
package client

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/atistler/arcus/internal/registry"
	arcuserr "github.com/atistler/arcus/pkg/core/error"
	"github.com/atistler/arcus/pkg/core/logging"
)

// Config holds client configuration
type Config struct {
	// ConnectTimeout bounds establishing the TCP connection
	ConnectTimeout time.Duration
	// ReadTimeout bounds waiting for and reading the response
	ReadTimeout time.Duration
	// RateLimit in requests per second, 0 disables throttling
	RateLimit float64
	RateBurst int
	// Verbose logs every request URL and response body at debug level
	Verbose   bool
	UserAgent string
	// Transport replaces the default transport, mainly for tests
	Transport http.RoundTripper
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: time.Second,
		ReadTimeout:    5 * time.Second,
		RateBurst:      1,
		UserAgent:      "arcus",
	}
}

// Response is the raw HTTP exchange handed to callbacks
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
}

// Callbacks observe the raw response before it is decoded. OnSuccess runs for
// 2xx statuses and OnFailure for everything else. Either may be nil.
type Callbacks struct {
	OnSuccess func(*Response)
	OnFailure func(*Response)
}

// Request is a single command invocation
type Request struct {
	Command   string
	Params    map[string]string
	Endpoint  string
	Format    Format
	Callbacks Callbacks
}

// Client executes command requests
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logging.Logger
}

// New creates a client. Zero timeouts fall back to DefaultConfig values.
func New(cfg Config, logger *logging.Logger) *Client {
	defaults := DefaultConfig()
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaults.ConnectTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.RateBurst < 1 {
		cfg.RateBurst = defaults.RateBurst
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if logger == nil {
		logger = logging.Discard()
	}

	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.ConnectTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: cfg.ReadTimeout,
			MaxIdleConnsPerHost:   4,
			IdleConnTimeout:       90 * time.Second,
		}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			// the body read deadline is whatever is left of this budget
			Timeout:   cfg.ConnectTimeout + cfg.ReadTimeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(limit, cfg.RateBurst),
		logger:  logger.WithField("component", "client"),
	}
}

// ExecuteAction validates params against the action's declared arguments and
// executes it against the endpoint the action is bound to.
func (c *Client) ExecuteAction(ctx context.Context, action *registry.Action, params map[string]string, format Format, cb Callbacks) (*Result, error) {
	if action == nil {
		return nil, arcuserr.New(arcuserr.CodeUnknownAction, "no action given")
	}
	if err := action.CheckArgs(params); err != nil {
		return nil, err
	}
	return c.Execute(ctx, Request{
		Command:   action.CommandName,
		Params:    params,
		Endpoint:  action.EndpointURI,
		Format:    format,
		Callbacks: cb,
	})
}

// Execute performs one request without argument validation. An empty Format
// falls back to the response parameter, then to DefaultFormat.
func (c *Client) Execute(ctx context.Context, req Request) (*Result, error) {
	format := req.Format
	if format == "" {
		f, err := ParseFormat(req.Params["response"])
		if err != nil {
			return nil, err
		}
		format = f
	}
	if !format.Valid() {
		return nil, arcuserr.Newf(arcuserr.CodeInvalidArgument, "unknown response format %q", string(format)).
			WithDetail(arcuserr.DetailFormat, string(format))
	}

	target, err := buildURL(req.Endpoint, req.Command, req.Params, format)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, arcuserr.Wrap(err, arcuserr.CodeNetwork, "rate limiter").
			WithDetail(arcuserr.DetailEndpoint, req.Endpoint)
	}

	requestID := uuid.New().String()
	if c.config.Verbose {
		c.logger.Debug("Sending request", "requestId", requestID, "command", req.Command, "url", target)
	}

	resp, err := c.roundTrip(ctx, req.Endpoint, target)
	if err != nil {
		return nil, err
	}

	if c.config.Verbose {
		c.logger.Debug("Received response", "requestId", requestID, "status", resp.StatusCode, "body", string(resp.Body))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if req.Callbacks.OnFailure != nil {
			req.Callbacks.OnFailure(resp)
		}
		return nil, arcuserr.Remote(resp.StatusCode, resp.Body).
			WithDetail(arcuserr.DetailCommand, req.Command).
			WithDetail(arcuserr.DetailEndpoint, req.Endpoint)
	}
	if req.Callbacks.OnSuccess != nil {
		req.Callbacks.OnSuccess(resp)
	}

	return decode(format, resp.Body)
}

func (c *Client) roundTrip(ctx context.Context, endpoint, target string) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, arcuserr.Wrap(err, arcuserr.CodeConfiguration, "failed to create request").
			WithDetail(arcuserr.DetailEndpoint, endpoint)
	}
	httpReq.Header.Set("User-Agent", c.config.UserAgent)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.transportError(ctx, endpoint, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, c.transportError(ctx, endpoint, err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
		URL:        target,
	}, nil
}

// transportError classifies a failed exchange. Caller cancellation wins over
// timeouts so a cancelled poll loop is not reported as a network problem.
func (c *Client) transportError(ctx context.Context, endpoint string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return arcuserr.NetworkTimeout(endpoint, err)
	}
	return arcuserr.Network(endpoint, err)
}

// buildURL merges params into the endpoint query and sets the command name
// and the wire response format. params is not modified.
func buildURL(endpoint, command string, params map[string]string, format Format) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", arcuserr.Configuration("invalid endpoint %q", endpoint).
			WithDetail(arcuserr.DetailEndpoint, endpoint)
	}
	if command == "" {
		return "", arcuserr.New(arcuserr.CodeInvalidArgument, "no command given")
	}

	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("response", format.Wire())
	q.Set("command", command)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
