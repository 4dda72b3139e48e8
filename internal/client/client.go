// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

// Package client talks to the waste-management REST backend.
//
// One Client carries the transport concerns (base URL, bearer token,
// timeout, optional rate limiter, circuit breaker, metrics) and exposes one
// thin service per resource: Points, Vehicules, Employes, Tournees,
// Signalements, Users, Auth and Technicien. Services speak DTOs; mapping to
// domain types belongs to the mapper package.
//
// No request is ever retried. Failures come back as *APIError, or wrap
// ErrCircuitOpen while the breaker is open.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/urbanwaste/internal/config"
	"github.com/tomtom215/urbanwaste/internal/logging"
	"github.com/tomtom215/urbanwaste/internal/metrics"
)

// ErrCircuitOpen is wrapped by every call rejected by the circuit breaker.
var ErrCircuitOpen = errors.New("backend circuit breaker open")

// APIError describes a failed backend call. Message holds the server's
// "error" field, or its "message" field when "error" is absent. Err holds
// the transport error when no response arrived.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*response]
	breakerOn  bool

	mu    sync.RWMutex
	token string

	Points       *PointsService
	Vehicules    *VehiculesService
	Employes     *EmployesService
	Tournees     *TourneesService
	Signalements *SignalementsService
	Users        *UsersService
	Auth         *AuthService
	Technicien   *TechnicienService
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for cfg.BaseURL.
func New(cfg config.APIConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		token:      cfg.AuthToken,
		breakerOn:  cfg.CircuitBreaker.Enabled,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	c.breaker = newBreaker("waste-api", cfg.CircuitBreaker)

	for _, opt := range opts {
		opt(c)
	}

	c.Points = &PointsService{c: c}
	c.Vehicules = &VehiculesService{c: c}
	c.Employes = &EmployesService{c: c}
	c.Tournees = &TourneesService{c: c}
	c.Signalements = &SignalementsService{c: c}
	c.Users = &UsersService{c: c}
	c.Auth = &AuthService{c: c}
	c.Technicien = &TechnicienService{c: c}
	return c
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// SetToken sets the bearer token sent with every request. An empty token
// disables the header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BreakerState returns the circuit breaker state name.
func (c *Client) BreakerState() string {
	return stateToString(c.breaker.State())
}

// requestConfig holds configuration for building a backend request
type requestConfig struct {
	resource    string // metrics label
	method      string
	path        string
	query       url.Values
	body        interface{} // JSON-encoded when set
	rawBody     []byte      // sent as-is with contentType
	contentType string
	accept      string
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// doRequest executes a request and decodes a JSON response into result when
// result is non-nil and the body is not empty.
func (c *Client) doRequest(ctx context.Context, cfg requestConfig, result interface{}) error {
	resp, err := c.do(ctx, cfg)
	if err != nil {
		return err
	}
	if result == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, result); err != nil {
		return &APIError{StatusCode: resp.status, Err: fmt.Errorf("decode %s response: %w", cfg.resource, err)}
	}
	return nil
}

// doRaw executes a request and returns the raw body.
func (c *Client) doRaw(ctx context.Context, cfg requestConfig) ([]byte, error) {
	resp, err := c.do(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

func (c *Client) do(ctx context.Context, cfg requestConfig) (*response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &APIError{Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}
	if !c.breakerOn {
		return c.roundTrip(ctx, cfg)
	}

	resp, err := c.breaker.Execute(func() (*response, error) {
		return c.roundTrip(ctx, cfg)
	})
	recordBreakerResult(c.breaker, err)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	}
	return resp, err
}

func (c *Client) roundTrip(ctx context.Context, cfg requestConfig) (*response, error) {
	reqURL := c.baseURL + cfg.path
	if len(cfg.query) > 0 {
		reqURL += "?" + cfg.query.Encode()
	}

	var body io.Reader = http.NoBody
	contentType := cfg.contentType
	switch {
	case cfg.rawBody != nil:
		body = bytes.NewReader(cfg.rawBody)
	case cfg.body != nil:
		payload, err := json.Marshal(cfg.body)
		if err != nil {
			return nil, &APIError{Err: fmt.Errorf("encode %s request: %w", cfg.resource, err)}
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, cfg.method, reqURL, body)
	if err != nil {
		return nil, &APIError{Err: fmt.Errorf("create request: %w", err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	accept := cfg.accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		metrics.RecordAPIRequest(cfg.resource, cfg.method, 0, duration)
		logging.Debug().Err(err).Str("method", cfg.method).Str("path", cfg.path).Msg("Backend request failed")
		return nil, &APIError{Err: err}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	metrics.RecordAPIRequest(cfg.resource, cfg.method, httpResp.StatusCode, duration)
	logging.Debug().
		Str("method", cfg.method).
		Str("path", cfg.path).
		Int("status", httpResp.StatusCode).
		Dur("duration", duration).
		Msg("Backend request")
	if err != nil {
		return nil, &APIError{StatusCode: httpResp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		return nil, newAPIError(httpResp.StatusCode, data)
	}
	return &response{status: httpResp.StatusCode, header: httpResp.Header, body: data}, nil
}

// newAPIError extracts {"error": ...} or {"message": ...} from an error body.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var envelope struct {
		Error   interface{} `json:"error"`
		Message string      `json:"message"`
		Details interface{} `json:"details"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		apiErr.Details = strings.TrimSpace(string(body))
		return apiErr
	}
	switch e := envelope.Error.(type) {
	case string:
		apiErr.Message = e
	case map[string]interface{}:
		// {"error":{"message":...}} envelopes from proxies
		if msg, ok := e["message"].(string); ok {
			apiErr.Message = msg
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = envelope.Message
	}
	if envelope.Details != nil {
		if s, ok := envelope.Details.(string); ok {
			apiErr.Details = s
		} else if b, err := json.Marshal(envelope.Details); err == nil {
			apiErr.Details = string(b)
		}
	}
	return apiErr
}

// Message returns the most specific description of err: the server's
// error/message field, then the transport error text, then fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Message != "":
			return apiErr.Message
		case apiErr.Err != nil:
			return apiErr.Err.Error()
		}
		return fallback
	}
	if errors.Is(err, ErrCircuitOpen) {
		return ErrCircuitOpen.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// StatusCode returns the HTTP status of err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
