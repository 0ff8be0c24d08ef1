package locator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"IceBreaker/backend/go/internal/config"
	"IceBreaker/backend/go/pkg/linkup"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// LinkupSearcher searches through the Linkup API.
type LinkupSearcher struct {
	client *linkup.Client
	depth  linkup.Depth
}

// NewLinkupSearcher wraps a Linkup client.
func NewLinkupSearcher(client *linkup.Client, depth string) *LinkupSearcher {
	d := linkup.Depth(depth)
	if d == "" {
		d = linkup.DepthStandard
	}
	return &LinkupSearcher{client: client, depth: d}
}

func (s *LinkupSearcher) Search(ctx context.Context, query string, domains []string) ([]string, error) {
	res, err := linkup.SearchStructured[linkup.SearchResults](ctx, s.client, linkup.SearchRequest{
		Q:              query,
		Depth:          s.depth,
		OutputType:     linkup.OutputSearchResults,
		IncludeDomains: domains,
	})
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(res.Results))
	for _, r := range res.Results {
		if r.URL != "" {
			urls = append(urls, r.URL)
		}
	}
	return urls, nil
}

// GoogleSearcher searches through the Google Custom Search JSON API.
type GoogleSearcher struct {
	svc      *customsearch.Service
	apiKey   string
	engineID string
}

// NewGoogleSearcher builds a Custom Search service on top of hc.
// The key is sent per call because a custom HTTP client bypasses option.WithAPIKey.
func NewGoogleSearcher(ctx context.Context, cfg config.GoogleSearchConfig, hc *http.Client) (*GoogleSearcher, error) {
	opts := []option.ClientOption{option.WithHTTPClient(hc)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create custom search service: %w", err)
	}
	return &GoogleSearcher{svc: svc, apiKey: cfg.APIKey, engineID: cfg.EngineID}, nil
}

func (s *GoogleSearcher) Search(ctx context.Context, query string, domains []string) ([]string, error) {
	call := s.svc.Cse.List().Cx(s.engineID).Q(query).Num(10).Context(ctx)
	if len(domains) == 1 {
		call = call.SiteSearch(domains[0]).SiteSearchFilter("i")
	}
	res, err := call.Do(googleapi.QueryParameter("key", s.apiKey))
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		if item != nil && item.Link != "" {
			urls = append(urls, item.Link)
		}
	}
	return urls, nil
}

// Transport is satisfied by the breaker-protected client in pkg/http.
type Transport interface {
	linkup.Doer
	HTTPClient() *http.Client
}

// NewSearcher selects the search backend named in cfg.Provider.
func NewSearcher(ctx context.Context, cfg config.SearchConfig, hc Transport) (Searcher, error) {
	switch cfg.Provider {
	case "linkup":
		client := linkup.NewClient(cfg.Linkup.APIKey,
			linkup.WithBaseURL(cfg.Linkup.BaseURL),
			linkup.WithHTTPClient(hc),
		)
		return NewLinkupSearcher(client, cfg.Linkup.Depth), nil
	case "google":
		return NewGoogleSearcher(ctx, cfg.Google, hc.HTTPClient())
	default:
		return nil, fmt.Errorf("unsupported search provider %q", cfg.Provider)
	}
}

// SearchTimeout is the per-request timeout for the configured search backend.
func SearchTimeout(cfg config.SearchConfig) time.Duration {
	return config.Duration(cfg.Timeout, 20*time.Second)
}
