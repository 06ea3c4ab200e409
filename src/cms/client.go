package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
	"tourbook/src/config"
	"tourbook/src/domain"

	"github.com/tidwall/gjson"
)

var defaultTransport = &http.Transport{
	DialContext: (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

// Client talks to the headless CMS. A Client is bound to at most one token
// source; use WithToken to derive a per-session client.
type Client struct {
	baseURL    string
	origin     string
	base       http.RoundTripper
	http       *http.Client
	Retries    int
	RetryDelay time.Duration
}

type Option func(*Client)

// WithTransport replaces the underlying round tripper, mostly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.base = rt }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithRetry(retries int, delay time.Duration) Option {
	return func(c *Client) {
		c.Retries = retries
		c.RetryDelay = delay
	}
}

// NewClient builds a client for baseURL (the CMS api root). origin is
// prepended to relative media urls.
func NewClient(baseURL, origin string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		origin:     strings.TrimRight(origin, "/"),
		base:       defaultTransport,
		http:       &http.Client{Timeout: config.HTTPTimeout()},
		Retries:    config.DetailFetchRetries,
		RetryDelay: config.DetailFetchDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Transport = &BearerTransport{Base: c.base}
	return c
}

// NewDefaultClient reads the CMS location from the environment.
func NewDefaultClient() *Client {
	return NewClient(config.CMSBaseURL(), config.CMSOrigin())
}

// WithToken returns a copy of c whose requests carry the token of ts.
func (c *Client) WithToken(ts TokenSource) *Client {
	cp := *c
	cp.http = &http.Client{
		Timeout:   c.http.Timeout,
		Transport: &BearerTransport{Base: c.base, Source: ts},
	}
	return &cp
}

func (c *Client) Origin() string {
	return c.origin
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[cms] %s %s failed: %s\n", method, path, err.Error())
		return nil, domain.TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.TransportError{Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode >= 300 {
		msg := gjson.GetBytes(payload, "error.message").String()
		if msg == "" {
			msg = string(payload)
		}
		log.Printf("[cms] %s %s returned %d: %s\n", method, path, resp.StatusCode, msg)
		return nil, domain.TransportError{Method: method, Path: path, Status: resp.StatusCode, Body: msg}
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

func (c *Client) sendJSON(ctx context.Context, method, path string, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, method, path, bytes.NewReader(b), "application/json")
}

// getWithRetry retries transient failures a bounded number of times with a
// fixed delay. 4xx answers are final.
func (c *Client) getWithRetry(ctx context.Context, path string) ([]byte, error) {
	attempts := c.Retries
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.RetryDelay):
			}
		}
		payload, err := c.get(ctx, path)
		if err == nil {
			return payload, nil
		}
		lastErr = err
		if status := domain.TransportStatus(err); status >= 400 && status < 500 {
			return nil, err
		}
		log.Printf("[cms] Attempt %d/%d for %s failed: %s\n", i+1, attempts, path, err.Error())
	}
	return nil, lastErr
}

// dataEnvelope wraps attributes the way the CMS expects on writes.
func dataEnvelope(v any) map[string]any {
	return map[string]any{"data": v}
}
