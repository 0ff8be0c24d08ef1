package scraper

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"IceBreaker/backend/go/internal/cache"
	"IceBreaker/backend/go/internal/config"
	"IceBreaker/backend/go/internal/models"
	"IceBreaker/backend/go/pkg/logger"
)

// droppedKeys are removed from every profile record regardless of value.
var droppedKeys = map[string]bool{"certifications": true}

// CleanProfile returns a copy of record without null, empty-string and empty-list
// values and without denylisted keys. Only top-level keys are inspected.
func CleanProfile(record models.ProfileRecord) models.ProfileRecord {
	out := make(models.ProfileRecord, len(record))
	for k, v := range record {
		if droppedKeys[k] || isEmpty(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case []map[string]any:
		return len(t) == 0
	}
	return false
}

// ProfileScraper fetches a cleaned profile record for a LinkedIn URL.
type ProfileScraper interface {
	Scrape(ctx context.Context, profileURL string, mock bool) (models.ProfileRecord, error)
}

// LinkedInScraper reads profiles from the Scrapin.io enrichment API, or from a
// fixed fixture when mock is set.
type LinkedInScraper struct {
	client  Doer
	apiKey  string
	baseURL string
	mockURL string
	timeout time.Duration
	cache   cache.ProfileCache
	log     *logger.Logger
}

// NewLinkedInScraper creates a LinkedInScraper. profiles may be nil.
func NewLinkedInScraper(cfg config.LinkedInScraperConfig, client Doer, profiles cache.ProfileCache, log *logger.Logger) *LinkedInScraper {
	if log == nil {
		log = logger.Nop()
	}
	return &LinkedInScraper{
		client:  client,
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		mockURL: cfg.MockURL,
		timeout: config.Duration(cfg.Timeout, 10*time.Second),
		cache:   profiles,
		log:     log,
	}
}

type scrapinResponse struct {
	Person models.ProfileRecord `json:"person"`
}

// Scrape fetches and cleans the profile. In mock mode profileURL is ignored.
func (s *LinkedInScraper) Scrape(ctx context.Context, profileURL string, mock bool) (models.ProfileRecord, error) {
	target := s.mockURL
	if !mock {
		if s.apiKey == "" {
			return nil, fmt.Errorf("%w: scrapin api key is not configured", models.ErrUpstream)
		}
		if rec, ok := s.cached(ctx, profileURL); ok {
			return rec, nil
		}
		q := url.Values{}
		q.Set("apikey", s.apiKey)
		q.Set("linkedInUrl", profileURL)
		target = s.baseURL + "?" + q.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var body scrapinResponse
	if err := getJSON(ctx, s.client, target, nil, &body); err != nil {
		return nil, models.WrapUpstream("scrape profile", err)
	}
	if body.Person == nil {
		return nil, fmt.Errorf("%w: scrape profile: response has no person object", models.ErrUpstream)
	}

	record := CleanProfile(body.Person)
	if !mock && s.cache != nil {
		if err := s.cache.Set(ctx, profileURL, record); err != nil {
			s.log.WithField("cache_error", err.Error()).Warn("failed to cache profile")
		}
	}
	return record, nil
}

func (s *LinkedInScraper) cached(ctx context.Context, profileURL string) (models.ProfileRecord, bool) {
	if s.cache == nil {
		return nil, false
	}
	rec, ok, err := s.cache.Get(ctx, profileURL)
	if err != nil {
		s.log.WithField("cache_error", err.Error()).Warn("profile cache lookup failed")
		return nil, false
	}
	if ok {
		s.log.WithField("url", profileURL).Debug("profile cache hit")
	}
	return rec, ok
}
