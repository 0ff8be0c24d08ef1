package models

import (
	"errors"
	"fmt"
	"net/url"

	"IceBreaker/backend/go/pkg/circuitbreaker"
)

// Error kinds surfaced by the pipeline. Callers classify with errors.Is.
var (
	// ErrBadRequest means the caller supplied an unusable input.
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound means the search yielded no usable profile.
	ErrNotFound = errors.New("profile not found")
	// ErrUpstream covers timeouts, non-2xx statuses and malformed bodies from outbound APIs.
	ErrUpstream = errors.New("upstream failure")
	// ErrUnavailable means an outbound API is short-circuited.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrParse means the model output did not match the expected structure.
	ErrParse = errors.New("model output could not be parsed")
)

// WrapUpstream tags a transport-level failure of op with ErrUpstream, or with
// ErrUnavailable when the circuit breaker rejected the call.
func WrapUpstream(op string, err error) error {
	if err == nil {
		return nil
	}
	err = ScrubURLError(err)
	if errors.Is(err, ErrUpstream) || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}

// ErrorType names the kind of err for structured logs.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrNotFound):
		return "lookup_failure"
	case errors.Is(err, ErrParse):
		return "parse_failure"
	case errors.Is(err, ErrUnavailable):
		return "upstream_unavailable"
	case errors.Is(err, ErrUpstream):
		return "upstream_failure"
	default:
		return "internal"
	}
}

// RedactURL keeps only scheme, host and path of raw. Query strings carry API keys
// (Scrapin's apikey, Google's key) and must never reach logs or responses.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Scheme + "://" + u.Host + u.Path
}

// ScrubURLError replaces err with a copy of the *url.Error in its chain whose URL has
// no query string. The underlying cause stays reachable for errors.Is.
func ScrubURLError(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	return &url.Error{Op: ue.Op, URL: RedactURL(ue.URL), Err: ue.Err}
}
