package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"IceBreaker/backend/go/internal/config"
	"IceBreaker/backend/go/internal/models"
)

// PostScraper fetches recent posts for a username.
type PostScraper interface {
	Scrape(ctx context.Context, username string, max int) ([]models.Post, error)
}

// Tweet is a post as returned by a TwitterClient.
type Tweet struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// TwitterClient is the read-only slice of the X API the live scraper uses.
type TwitterClient interface {
	UserID(ctx context.Context, username string) (string, error)
	// UserTweets returns at most max original tweets, excluding retweets and replies.
	UserTweets(ctx context.Context, userID string, max int) ([]Tweet, error)
}

// PostURL is the canonical link to a tweet.
func PostURL(username, id string) string {
	return fmt.Sprintf("https://twitter.com/%s/status/%s", username, id)
}

// TwitterScraper reads a user's original tweets through a TwitterClient.
type TwitterScraper struct {
	client     TwitterClient
	defaultMax int
}

// NewTwitterScraper creates a live scraper. defaultMax applies when Scrape gets max <= 0.
func NewTwitterScraper(client TwitterClient, defaultMax int) *TwitterScraper {
	if defaultMax <= 0 {
		defaultMax = 5
	}
	return &TwitterScraper{client: client, defaultMax: defaultMax}
}

func (s *TwitterScraper) Scrape(ctx context.Context, username string, max int) ([]models.Post, error) {
	if max <= 0 {
		max = s.defaultMax
	}
	id, err := s.client.UserID(ctx, username)
	if err != nil {
		return nil, models.WrapUpstream("twitter user lookup", err)
	}
	tweets, err := s.client.UserTweets(ctx, id, max)
	if err != nil {
		return nil, models.WrapUpstream("twitter timeline", err)
	}
	if len(tweets) > max {
		tweets = tweets[:max]
	}
	posts := make([]models.Post, 0, len(tweets))
	for _, t := range tweets {
		posts = append(posts, models.Post{Text: t.Text, URL: PostURL(username, t.ID)})
	}
	return posts, nil
}

// MockTwitterScraper returns the tweets stored in a fixed fixture.
type MockTwitterScraper struct {
	client  Doer
	url     string
	timeout time.Duration
}

// NewMockTwitterScraper creates a fixture-backed scraper.
func NewMockTwitterScraper(cfg config.TwitterScraperConfig, client Doer) *MockTwitterScraper {
	return &MockTwitterScraper{
		client:  client,
		url:     cfg.MockURL,
		timeout: config.Duration(cfg.Timeout, 5*time.Second),
	}
}

type fixtureTweet struct {
	ID   json.Number `json:"id"`
	Text string      `json:"text"`
}

// Scrape returns every tweet in the fixture. max is accepted for interface
// compatibility and is not applied.
func (s *MockTwitterScraper) Scrape(ctx context.Context, username string, max int) ([]models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var tweets []fixtureTweet
	if err := getJSON(ctx, s.client, s.url, nil, &tweets); err != nil {
		return nil, models.WrapUpstream("scrape posts", err)
	}
	posts := make([]models.Post, 0, len(tweets))
	for _, t := range tweets {
		posts = append(posts, models.Post{Text: t.Text, URL: PostURL(username, t.ID.String())})
	}
	return posts, nil
}

// NewPostScraper picks the mock or live scraper according to cfg.Mock.
func NewPostScraper(cfg config.TwitterScraperConfig, client Doer) PostScraper {
	if cfg.Mock {
		return NewMockTwitterScraper(cfg, client)
	}
	return NewTwitterScraper(NewXClient(cfg.BaseURL, cfg.BearerToken, client), cfg.MaxPosts)
}
