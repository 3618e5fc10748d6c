// Package api implements the signed HTTP client for the edge diagnostics
// API, with read-through response caching and failure classification.
package api

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
	"time"

	"github.com/rs/zerolog"

	"github.com/edgekit/edgectl/internal/cache"
	"github.com/edgekit/edgectl/internal/edgegrid"
	"github.com/edgekit/edgectl/pkg/version"
)

// maxPollAttempts bounds polling of in-progress operations.
const maxPollAttempts = 15

// Options configures a Client.
type Options struct {
	// Credentials is the loaded EdgeGrid credential set.
	Credentials *edgegrid.Credentials

	// Cache is the response cache store. May be nil when caching is off.
	Cache *cache.Store

	// CacheEnabled toggles read-through caching.
	CacheEnabled bool

	// TTLSeconds is the freshness window for cached responses.
	TTLSeconds int

	// Timeout bounds each network call.
	Timeout time.Duration

	// ValidateCerts toggles TLS certificate verification.
	ValidateCerts bool

	// Proxy is an optional proxy URL. Malformed values are rejected before
	// any request is attempted.
	Proxy string

	// Logger receives structured request/cache events.
	Logger zerolog.Logger
}

// Client issues signed requests against the diagnostics API. The cache is
// consulted before every call and populated on success; failures are never
// cached.
type Client struct {
	creds        *edgegrid.Credentials
	signer       *edgegrid.Signer
	cache        *cache.Store
	cacheEnabled bool
	ttlSeconds   int
	httpClient   *http.Client
	timeout      time.Duration
	logger       zerolog.Logger

	// sleep is swappable so poll tests don't wait in real time.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient builds a Client from the given options. Proxy and credential
// problems are reported as ConfigError before any request is made.
func NewClient(opts Options) (*Client, error) {
	if opts.Credentials == nil {
		return nil, &ConfigError{Msg: "no credentials provided"}
	}

	signer, err := edgegrid.NewSigner(opts.Credentials)
	if err != nil {
		return nil, &ConfigError{Msg: "invalid credentials", Err: err}
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !opts.ValidateCerts}, //nolint:gosec // Toggled by the --insecure flag
	}

	if opts.Proxy != "" {
		proxyURL, parseErr := url.Parse(opts.Proxy)
		if parseErr != nil || proxyURL.Scheme == "" || proxyURL.Host == "" {
			return nil, &ConfigError{Msg: fmt.Sprintf("malformed proxy URL %q", opts.Proxy), Err: parseErr}
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	if opts.CacheEnabled && opts.Cache == nil {
		return nil, &ConfigError{Msg: "caching enabled but no cache store provided"}
	}

	return &Client{
		creds:        opts.Credentials,
		signer:       signer,
		cache:        opts.Cache,
		cacheEnabled: opts.CacheEnabled,
		ttlSeconds:   opts.TTLSeconds,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		timeout: opts.Timeout,
		logger:  opts.Logger,
		sleep:   sleepCtx,
	}, nil
}

// Fetch performs a read-through cached API call: the cache key is derived
// from every request part that affects the response; on a hit the cached
// payload is returned with zero network I/O; on a miss the request is
// signed, sent, classified, and the raw payload cached before returning.
func (c *Client) Fetch(ctx context.Context, method, endpoint string, params map[string]string, body []byte, ttlSeconds int) (json.RawMessage, error) {
	key := cache.Key(method, endpoint, params, body)

	if c.cacheEnabled {
		entry, err := c.cache.Get(key)
		switch {
		case err == nil:
			c.logger.Debug().
				Str("endpoint", endpoint).
				Str("key", key).
				Dur("age", entry.Age()).
				Msg("cache hit")
			return entry.Payload, nil
		case errors.Is(err, cache.ErrNotFound), errors.Is(err, cache.ErrExpired):
			// Miss: fall through to the network.
		default:
			// A broken store degrades to a live call but stays visible.
			cacheErr := &CacheError{Op: "read", Err: err}
			c.logger.Warn().Err(cacheErr).Str("key", key).Msg("cache read failed, falling back to network")
		}
	}

	payload, err := c.do(ctx, method, endpoint, params, body)
	if err != nil {
		return nil, err
	}

	if c.cacheEnabled {
		if putErr := c.cache.Put(key, payload, ttlSeconds); putErr != nil {
			cacheErr := &CacheError{Op: "write", Err: putErr}
			c.logger.Warn().Err(cacheErr).Str("key", key).Msg("cache write failed")
		}
	}

	return payload, nil
}

// do sends one signed request and polls in-progress operations until they
// complete or the attempt budget runs out.
func (c *Client) do(ctx context.Context, method, endpoint string, params map[string]string, body []byte) (json.RawMessage, error) {
	for attempt := 0; attempt <= maxPollAttempts; attempt++ {
		payload, err := c.roundTrip(ctx, method, endpoint, params, body)
		if err != nil {
			return nil, err
		}

		var status pollEnvelope
		// Responses without an executionStatus are returned as-is.
		_ = json.Unmarshal(payload, &status)
		if status.ExecutionStatus != "IN_PROGRESS" {
			return payload, nil
		}

		c.logger.Debug().
			Str("endpoint", endpoint).
			Int("attempt", attempt+1).
			Int("retry_after", status.RetryAfter).
			Msg("operation in progress, polling")

		wait := time.Duration(status.RetryAfter) * time.Second
		if sleepErr := c.sleep(ctx, wait); sleepErr != nil {
			return nil, &TimeoutError{Timeout: c.timeout, Err: sleepErr}
		}

		// Poll the completion link with a bare GET.
		method = http.MethodGet
		endpoint = status.Link
		params = nil
		body = nil
	}

	return nil, &PollExhaustedError{Attempts: maxPollAttempts}
}

// roundTrip performs exactly one signed HTTP exchange and classifies the
// outcome into the error taxonomy.
func (c *Client) roundTrip(ctx context.Context, method, endpoint string, params map[string]string, body []byte) (json.RawMessage, error) {
	req, err := c.buildRequest(ctx, method, endpoint, params, body)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err, c.timeout)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: payload}
	}

	return payload, nil
}

// buildRequest assembles and signs an outbound request.
func (c *Client) buildRequest(ctx context.Context, method, endpoint string, params map[string]string, body []byte) (*http.Request, error) {
	u, err := url.Parse(c.creds.BaseURL() + endpoint)
	if err != nil {
		return nil, &ConfigError{Msg: fmt.Sprintf("invalid endpoint %q", endpoint), Err: err}
	}

	if len(params) > 0 {
		q := u.Query()
		for name, value := range params {
			q.Set(name, value)
		}
		u.RawQuery = q.Encode()
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, &SigningError{Err: err}
	}

	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	c.signer.Sign(req, body)

	return req, nil
}

// pollEnvelope is the subset of a response consulted to decide whether the
// operation is still running server-side.
type pollEnvelope struct {
	ExecutionStatus string `json:"executionStatus"`
	RetryAfter      int    `json:"retryAfter"`
	Link            string `json:"link"`
}

// classifyTransport maps a transport-level failure onto the taxonomy:
// deadline and client timeouts become TimeoutError, everything else is a
// TransportError.
func classifyTransport(err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Timeout: timeout, Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &TimeoutError{Timeout: timeout, Err: err}
	}

	return &TransportError{Err: err}
}

// sleepCtx blocks for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
