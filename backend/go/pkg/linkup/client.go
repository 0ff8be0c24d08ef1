// Package linkup is a small client for the Linkup web search API.
package linkup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultBaseURL = "https://api.linkup.so/v1"
	defaultUA      = "icebreaker/0.1"
)

// Doer is the subset of *http.Client the Client needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the Linkup search endpoint.
type Client struct {
	apiKey  string
	baseURL string
	ua      string
	http    Doer
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (useful for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets the transport, typically a breaker-protected client.
func WithHTTPClient(h Doer) Option {
	return func(c *Client) { c.http = h }
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.ua = ua }
}

// NewClient constructs a Client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		ua:      defaultUA,
		http:    http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var (
	// ErrUnauthorized indicates a 401 response.
	ErrUnauthorized = errors.New("linkup: unauthorized (check API key)")
	// ErrForbidden indicates a 403 response.
	ErrForbidden = errors.New("linkup: forbidden")
	// ErrNoAPIKey is returned before any request is made when the key is empty.
	ErrNoAPIKey = errors.New("linkup: API key is empty")
)

// Depth defines Linkup depth parameter.
type Depth string

const (
	DepthStandard Depth = "standard"
	DepthDeep     Depth = "deep"
)

// OutputType defines desired output format.
type OutputType string

const (
	OutputSourcedAnswer OutputType = "sourcedAnswer"
	OutputSearchResults OutputType = "searchResults"
)

// SearchRequest models the request body for /search.
type SearchRequest struct {
	Q              string     `json:"q"`
	Depth          Depth      `json:"depth"`
	OutputType     OutputType `json:"outputType"`
	IncludeImages  bool       `json:"includeImages,omitempty"`
	ExcludeDomains []string   `json:"excludeDomains,omitempty"`
	IncludeDomains []string   `json:"includeDomains,omitempty"` // e.g. ["linkedin.com"]
}

// SearchResult is one entry of a searchResults response.
type SearchResult struct {
	Type    string `json:"type,omitempty"`
	Name    string `json:"name,omitempty"`
	URL     string `json:"url"`
	Content string `json:"content,omitempty"`
}

// SearchResults is the body returned for OutputSearchResults.
type SearchResults struct {
	Results []SearchResult `json:"results"`
}

// APIError models an error payload from the API, if any.
type APIError struct {
	Status  int             `json:"status,omitempty"`
	Message string          `json:"message,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return fmt.Sprintf("linkup api error: %s (status=%d)", e.Message, e.Status)
	}
	return fmt.Sprintf("linkup api error (status=%d)", e.Status)
}

// SearchResponse wraps the raw JSON.
type SearchResponse struct {
	Raw json.RawMessage
}

// DecodeInto unmarshals the response into v.
func (r SearchResponse) DecodeInto(v any) error {
	return json.Unmarshal(r.Raw, v)
}

// Search calls POST /search once and returns the raw JSON payload.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	if c.apiKey == "" {
		return SearchResponse{}, ErrNoAPIKey
	}
	body, err := json.Marshal(req)
	if err != nil {
		return SearchResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return SearchResponse{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", c.ua)

	res, err := c.http.Do(httpReq)
	if err != nil {
		return SearchResponse{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		switch res.StatusCode {
		case http.StatusUnauthorized:
			return SearchResponse{}, ErrUnauthorized
		case http.StatusForbidden:
			return SearchResponse{}, ErrForbidden
		}
		b, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20)) // 1 MiB
		apiErr := &APIError{Status: res.StatusCode}
		_ = json.Unmarshal(b, apiErr)
		apiErr.Status = res.StatusCode
		return SearchResponse{}, apiErr
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return SearchResponse{}, err
	}
	return SearchResponse{Raw: b}, nil
}

// SearchStructured calls c.Search and decodes into T.
func SearchStructured[T any](ctx context.Context, c *Client, req SearchRequest) (T, error) {
	var zero T
	resp, err := c.Search(ctx, req)
	if err != nil {
		return zero, err
	}
	if err := resp.DecodeInto(&zero); err != nil {
		return zero, fmt.Errorf("linkup: decode response: %w", err)
	}
	return zero, nil
}
