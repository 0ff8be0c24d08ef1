package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"IceBreaker/backend/go/internal/config"
	"IceBreaker/backend/go/pkg/circuitbreaker"
	"IceBreaker/backend/go/pkg/logger"
)

// StatusError is returned for 5xx responses, which also count as breaker failures.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: received status code %d", e.Code)
}

// Client wraps http.Client with a per-upstream circuit breaker.
// The breaker sits in the transport, so the *http.Client returned by HTTPClient
// is protected too and can be handed to SDKs.
type Client struct {
	httpClient *http.Client
	breaker    *circuitbreaker.Breaker
}

// NewClient creates a Client for the named upstream with the given per-request timeout.
// When the breaker is disabled in cfg, only the 5xx handling applies.
func NewClient(name string, cfg config.CircuitBreakerConfig, timeout time.Duration, log *logger.Logger) *Client {
	c := &Client{}
	if cfg.Enabled {
		c.breaker = circuitbreaker.New(name, circuitbreaker.Settings{
			FailureThreshold: cfg.FailureThreshold,
			SuccessThreshold: cfg.SuccessThreshold,
			Timeout:          config.Duration(cfg.Timeout, 30*time.Second),
			OnStateChange: func(name string, from, to circuitbreaker.State) {
				if log == nil {
					return
				}
				log.WithPayload(map[string]interface{}{
					"upstream": name,
					"from":     from.String(),
					"to":       to.String(),
				}).Warn("circuit breaker state changed")
			},
			IsExcluded: isCallerCanceled,
		})
	}
	c.httpClient = &http.Client{
		Timeout:   timeout,
		Transport: &breakerTransport{base: http.DefaultTransport, breaker: c.breaker},
	}
	return c
}

// Do executes req. A 5xx response is drained, closed and reported as *StatusError;
// other statuses are returned to the caller untouched.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

// HTTPClient exposes the protected client for SDKs that take an *http.Client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Breaker returns the circuit breaker, or nil when disabled.
func (c *Client) Breaker() *circuitbreaker.Breaker {
	return c.breaker
}

type breakerTransport struct {
	base    http.RoundTripper
	breaker *circuitbreaker.Breaker
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.breaker == nil {
		return t.roundTrip(req)
	}
	res, err := t.breaker.Execute(func() (interface{}, error) {
		resp, err := t.roundTrip(req)
		if err != nil && errors.Is(req.Context().Err(), context.Canceled) {
			return nil, &callerCanceledError{err: err}
		}
		return resp, err
	})
	if err != nil {
		var cc *callerCanceledError
		if errors.As(err, &cc) {
			return nil, cc.err
		}
		return nil, err
	}
	return res.(*http.Response), nil
}

// callerCanceledError marks a round trip abandoned because the caller cancelled
// its context. A deadline still counts against the upstream.
type callerCanceledError struct {
	err error
}

func (e *callerCanceledError) Error() string { return e.err.Error() }
func (e *callerCanceledError) Unwrap() error { return e.err }

func isCallerCanceled(err error) bool {
	var cc *callerCanceledError
	return errors.As(err, &cc)
}

func (t *breakerTransport) roundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return resp, nil
}
