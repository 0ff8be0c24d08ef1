package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"IceBreaker/backend/go/internal/models"
)

// X API v2 bounds for max_results on the user timeline endpoint.
const (
	xMinResults = 5
	xMaxResults = 100
)

// XClient implements TwitterClient over the X API v2 with app-only bearer auth.
type XClient struct {
	baseURL string
	bearer  string
	http    Doer
}

// NewXClient creates an XClient. baseURL defaults to https://api.twitter.com.
func NewXClient(baseURL, bearerToken string, client Doer) *XClient {
	if baseURL == "" {
		baseURL = "https://api.twitter.com"
	}
	return &XClient{baseURL: strings.TrimRight(baseURL, "/"), bearer: bearerToken, http: client}
}

type xError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type xUserResponse struct {
	Data *struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
	Errors []xError `json:"errors"`
}

type xTweetsResponse struct {
	Data   []Tweet  `json:"data"`
	Errors []xError `json:"errors"`
}

func (c *XClient) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.bearer)
	return h
}

// UserID resolves a username to its numeric id.
func (c *XClient) UserID(ctx context.Context, username string) (string, error) {
	var out xUserResponse
	endpoint := c.baseURL + "/2/users/by/username/" + url.PathEscape(username)
	if err := getJSON(ctx, c.http, endpoint, c.header(), &out); err != nil {
		return "", err
	}
	if out.Data == nil || out.Data.ID == "" {
		detail := "no data"
		if len(out.Errors) > 0 {
			detail = out.Errors[0].Detail
		}
		return "", fmt.Errorf("%w: twitter user %q: %s", models.ErrNotFound, username, detail)
	}
	return out.Data.ID, nil
}

// UserTweets fetches original tweets for userID. The request size is clamped to the
// API's accepted range and the result trimmed to max.
func (c *XClient) UserTweets(ctx context.Context, userID string, max int) ([]Tweet, error) {
	n := max
	if n < xMinResults {
		n = xMinResults
	}
	if n > xMaxResults {
		n = xMaxResults
	}
	q := url.Values{}
	q.Set("exclude", "retweets,replies")
	q.Set("max_results", strconv.Itoa(n))

	var out xTweetsResponse
	endpoint := c.baseURL + "/2/users/" + url.PathEscape(userID) + "/tweets?" + q.Encode()
	if err := getJSON(ctx, c.http, endpoint, c.header(), &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 && len(out.Errors) > 0 {
		return nil, fmt.Errorf("%w: twitter timeline: %s", models.ErrUpstream, out.Errors[0].Detail)
	}
	if max > 0 && len(out.Data) > max {
		out.Data = out.Data[:max]
	}
	return out.Data, nil
}
