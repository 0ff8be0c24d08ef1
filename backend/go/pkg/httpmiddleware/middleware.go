package httpmiddleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"IceBreaker/backend/go/pkg/ratelimiter"

	"github.com/rs/cors"
)

// retryAfterer is implemented by limiters that can estimate the wait for the next slot.
type retryAfterer interface {
	RetryAfter() time.Duration
}

// RateLimit is a middleware that rejects requests with 429 once the limiter is exhausted.
func RateLimit(limiter ratelimiter.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				if ra, ok := limiter.(retryAfterer); ok {
					secs := int(math.Ceil(ra.RetryAfter().Seconds()))
					if secs < 1 {
						secs = 1
					}
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORS wraps a handler with rs/cors. An empty origin list allows any origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	return c.Handler
}
