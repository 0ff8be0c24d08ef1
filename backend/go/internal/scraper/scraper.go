// Package scraper fetches profile records and recent posts for a located person.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"IceBreaker/backend/go/internal/models"
)

// Doer is the subset of *http.Client the scrapers need. The breaker-protected
// client from pkg/http satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxBody bounds how much of an upstream response is read.
const maxBody = 4 << 20

// getJSON performs a GET and decodes a 2xx JSON body into v.
func getJSON(ctx context.Context, client Doer, url string, header http.Header, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return models.ScrubURLError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: GET %s: status %d", models.ErrUpstream, models.RedactURL(url), resp.StatusCode)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: GET %s: malformed body: %v", models.ErrUpstream, models.RedactURL(url), err)
	}
	return nil
}
