package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"IceBreaker/backend/go/internal/config"
	"IceBreaker/backend/go/pkg/circuitbreaker"
)

// helper function to create a config for testing
func newTestConfig() *config.AppConfig {
	cfg := config.Default()
	cfg.Middleware = config.MiddlewareConfig{
		RateLimiter: config.RateLimiterConfig{
			Enabled: true,
			TokenBucket: config.TokenBucketConfig{
				Rate:     10, // 10 tokens per second
				Capacity: 5,  // Bucket size of 5
			},
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2, // Open after 2 consecutive failures
			SuccessThreshold: 1,
			Timeout:          "10s",
		},
	}
	return cfg
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewServer_WithAddress(t *testing.T) {
	srv, err := NewServer(newTestConfig(), okHandler(), WithAddress(":9999"))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if srv.Addr() != ":9999" {
		t.Errorf("Expected server address to be :9999, but got %s", srv.Addr())
	}
}

func TestNewServer_InvalidRateLimiter(t *testing.T) {
	cfg := newTestConfig()
	cfg.Middleware.RateLimiter.TokenBucket.Rate = 0
	if _, err := NewServer(cfg, okHandler()); err == nil {
		t.Fatal("expected error for zero rate")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	cfg := newTestConfig()
	cfg.Middleware.RateLimiter.TokenBucket.Capacity = 2
	cfg.Middleware.RateLimiter.TokenBucket.Rate = 0.01

	srv, err := NewServer(cfg, okHandler())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	testServer := httptest.NewServer(srv.Handler())
	defer testServer.Close()

	// First 2 requests should pass (equal to capacity)
	for i := 0; i < 2; i++ {
		resp, err := http.Get(testServer.URL)
		if err != nil {
			t.Fatalf("Request %d failed: %v", i+1, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected status OK on request %d, got %d", i+1, resp.StatusCode)
		}
	}

	resp, err := http.Get(testServer.URL)
	if err != nil {
		t.Fatalf("Request 3 failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", resp.StatusCode)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	cfg := newTestConfig()
	cfg.Middleware.RateLimiter.Enabled = false
	srv, err := NewServer(cfg, okHandler())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d", i, rec.Code)
		}
	}
}

func TestClientCircuitBreaker(t *testing.T) {
	calls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	client := NewClient("upstream", newTestConfig().Middleware.CircuitBreaker, time.Second, nil)

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, upstream.URL, nil)
		_, err := client.Do(req)
		var se *StatusError
		if !errors.As(err, &se) || se.Code != http.StatusBadGateway {
			t.Fatalf("call %d: expected StatusError 502, got %v", i, err)
		}
	}

	req, _ := http.NewRequest(http.MethodGet, upstream.URL, nil)
	if _, err := client.Do(req); !errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if calls != 2 {
		t.Errorf("open circuit should not reach upstream, calls = %d", calls)
	}
}

func TestClientPassesThroughClientErrors(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	cfg := newTestConfig().Middleware.CircuitBreaker
	cfg.Enabled = false
	client := NewClient("upstream", cfg, time.Second, nil)
	req, _ := http.NewRequest(http.MethodGet, upstream.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 passthrough, got %d", resp.StatusCode)
	}
}

func TestClientCallerCancellationKeepsCircuitClosed(t *testing.T) {
	upstream := httptest.NewServer(okHandler())
	defer upstream.Close()

	client := NewClient("upstream", newTestConfig().Middleware.CircuitBreaker, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, upstream.URL, nil)
		if _, err := client.Do(req); !errors.Is(err, context.Canceled) {
			t.Fatalf("call %d: expected context.Canceled, got %v", i, err)
		}
	}
	if got := client.Breaker().State(); got != circuitbreaker.Closed {
		t.Fatalf("caller cancellations must not trip the breaker, state = %v", got)
	}

	req, _ := http.NewRequest(http.MethodGet, upstream.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("healthy upstream should still be reachable: %v", err)
	}
	resp.Body.Close()
}

func TestClientDeadlineCountsAsFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	client := NewClient("upstream", newTestConfig().Middleware.CircuitBreaker, time.Second, nil)
	for i := 0; i < 2; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, upstream.URL, nil)
		_, err := client.Do(req)
		cancel()
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("call %d: expected deadline error, got %v", i, err)
		}
	}
	if got := client.Breaker().State(); got != circuitbreaker.Open {
		t.Fatalf("slow upstream should trip the breaker, state = %v", got)
	}
}
