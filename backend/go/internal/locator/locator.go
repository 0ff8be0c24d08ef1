// Package locator resolves a person's name to a social profile URL via web search.
package locator

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"IceBreaker/backend/go/internal/models"
	"IceBreaker/backend/go/pkg/logger"
)

// Platform is a social network the locator can search.
type Platform string

const (
	LinkedIn Platform = "linkedin"
	Twitter  Platform = "twitter"
)

// Query returns the search query for name on p.
func (p Platform) Query(name string) string {
	switch p {
	case Twitter:
		return name + " Twitter profile"
	default:
		return name + " LinkedIn profile"
	}
}

// Domains returns the hosts that count as belonging to p.
func (p Platform) Domains() []string {
	switch p {
	case Twitter:
		return []string{"twitter.com", "x.com"}
	default:
		return []string{"linkedin.com"}
	}
}

// Searcher runs a web search and returns result URLs in ranking order.
type Searcher interface {
	Search(ctx context.Context, query string, domains []string) ([]string, error)
}

// ProfileLocator finds the profile URL for a full name.
type ProfileLocator interface {
	Lookup(ctx context.Context, name string) (string, error)
}

// Locator looks up profiles on one platform.
type Locator struct {
	searcher Searcher
	platform Platform
	log      *logger.Logger
}

// New creates a Locator for platform backed by searcher.
func New(searcher Searcher, platform Platform, log *logger.Logger) *Locator {
	if log == nil {
		log = logger.Nop()
	}
	return &Locator{searcher: searcher, platform: platform, log: log}
}

// Lookup returns the first result on the platform's domain. There is no disambiguation:
// two people with the same name resolve to whatever ranks first.
func (l *Locator) Lookup(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is empty", models.ErrBadRequest)
	}

	query := l.platform.Query(name)
	urls, err := l.searcher.Search(ctx, query, l.platform.Domains())
	if err != nil {
		return "", models.WrapUpstream(string(l.platform)+" search", err)
	}

	profile := pick(urls, l.platform)
	if profile == "" {
		return "", fmt.Errorf("%w: no %s profile for %q among %d results", models.ErrNotFound, l.platform, name, len(urls))
	}
	l.log.WithPayload(map[string]interface{}{
		"platform": string(l.platform),
		"query":    query,
		"url":      profile,
	}).Debug("profile located")
	return profile, nil
}

// pick prefers profile-shaped URLs (linkedin.com/in/..., twitter.com/<handle>)
// and falls back to the first URL on the platform's domain.
func pick(urls []string, p Platform) string {
	var fallback string
	for _, raw := range urls {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || !onDomain(u.Hostname(), p.Domains()) {
			continue
		}
		if isProfilePath(u.Path, p) {
			return u.String()
		}
		if fallback == "" {
			fallback = u.String()
		}
	}
	return fallback
}

func onDomain(host string, domains []string) bool {
	host = strings.ToLower(host)
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func isProfilePath(path string, p Platform) bool {
	switch p {
	case Twitter:
		_, err := handleFromPath(path)
		return err == nil
	default:
		return strings.HasPrefix(strings.ToLower(path), "/in/")
	}
}

// reserved paths on twitter.com / x.com that are not user handles.
var reserved = map[string]bool{
	"home": true, "i": true, "intent": true, "search": true, "hashtag": true,
	"share": true, "explore": true, "settings": true, "login": true, "messages": true,
}

// TwitterUsername extracts the handle from a twitter.com or x.com profile URL.
func TwitterUsername(profileURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(profileURL))
	if err != nil {
		return "", fmt.Errorf("%w: invalid twitter url %q", models.ErrNotFound, profileURL)
	}
	if !onDomain(u.Hostname(), Twitter.Domains()) {
		return "", fmt.Errorf("%w: %q is not a twitter url", models.ErrNotFound, profileURL)
	}
	return handleFromPath(u.Path)
}

func handleFromPath(path string) (string, error) {
	seg := strings.Split(strings.Trim(path, "/"), "/")
	handle := strings.TrimPrefix(seg[0], "@")
	if handle == "" || reserved[strings.ToLower(handle)] || len(handle) > 15 {
		return "", fmt.Errorf("%w: no handle in path %q", models.ErrNotFound, path)
	}
	for _, r := range handle {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return "", fmt.Errorf("%w: invalid handle %q", models.ErrNotFound, handle)
		}
	}
	return handle, nil
}
