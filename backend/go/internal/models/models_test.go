package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"IceBreaker/backend/go/pkg/circuitbreaker"
)

func TestResultTypesRoundTrip(t *testing.T) {
	s := Summary{Summary: "Builds things.", Facts: []string{"a", "b"}}
	raw, err := json.Marshal(s.ToMap())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Summary
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(s, back) {
		t.Errorf("round trip mismatch: %+v vs %+v", s, back)
	}

	ib := IceBreaker{IceBreakers: []string{"x", "y"}}
	raw, _ = json.Marshal(ib.ToMap())
	if string(raw) != `{"ice_breakers":["x","y"]}` {
		t.Errorf("unexpected ice breaker JSON %s", raw)
	}

	ti := TopicOfInterest{}
	raw, _ = json.Marshal(ti.ToMap())
	if string(raw) != `{"topics_of_interest":[]}` {
		t.Errorf("nil list should serialize as empty array, got %s", raw)
	}
}

func TestNewProfile(t *testing.T) {
	p, err := NewProfile(ProfileRecord{"firstName": "Eden", "lastName": "Marco", "photoUrl": 42})
	if err != nil {
		t.Fatalf("NewProfile: %v", err)
	}
	if p.Name != "Eden Marco" {
		t.Errorf("expected name from first/last, got %q", p.Name)
	}
	if p.PictureURL() != nil {
		t.Error("non-string photoUrl should be treated as absent")
	}

	p, err = NewProfile(ProfileRecord{"name": "Ada", "photoUrl": "https://x/p.jpg"})
	if err != nil {
		t.Fatal(err)
	}
	if got := p.PictureURL(); got == nil || *got != "https://x/p.jpg" {
		t.Errorf("unexpected picture url %v", got)
	}

	if _, err := NewProfile(ProfileRecord{"headline": "CTO"}); !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream for nameless record, got %v", err)
	}
}

func TestWrapUpstream(t *testing.T) {
	if WrapUpstream("op", nil) != nil {
		t.Error("nil should stay nil")
	}
	err := WrapUpstream("scrapin", fmt.Errorf("dial: %w", circuitbreaker.ErrCircuitOpen))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("open circuit should map to ErrUnavailable, got %v", err)
	}
	err = WrapUpstream("scrapin", errors.New("timeout"))
	if !errors.Is(err, ErrUpstream) || ErrorType(err) != "upstream_failure" {
		t.Errorf("unexpected classification %v", err)
	}
	err = WrapUpstream("search", ErrNotFound)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ErrNotFound should be preserved, got %v", err)
	}
}

func TestResponseText(t *testing.T) {
	resp := &GenerateContentResponse{Content: []Content{{Parts: []*Part{{Text: "a"}, nil, {Text: "b"}}}}}
	if resp.Text() != "ab" {
		t.Errorf("got %q", resp.Text())
	}
	var empty *GenerateContentResponse
	if empty.Text() != "" {
		t.Error("nil response should yield empty text")
	}
}

func TestWrapUpstreamDropsQueryString(t *testing.T) {
	transport := &url.Error{
		Op:  "Get",
		URL: "https://api.scrapin.io/enrichment/profile?apikey=SUPERSECRET&linkedInUrl=x",
		Err: circuitbreaker.ErrCircuitOpen,
	}
	err := WrapUpstream("scrape profile", fmt.Errorf("do: %w", transport))
	if strings.Contains(err.Error(), "SUPERSECRET") || strings.Contains(err.Error(), "apikey") {
		t.Fatalf("query string leaked: %v", err)
	}
	if !strings.Contains(err.Error(), "https://api.scrapin.io/enrichment/profile") {
		t.Errorf("expected host and path to be kept: %v", err)
	}
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		t.Errorf("kind lost after scrubbing: %v", err)
	}
}

func TestRedactURL(t *testing.T) {
	got := RedactURL("https://www.googleapis.com/customsearch/v1?key=SECRET&q=Eden")
	if got != "https://www.googleapis.com/customsearch/v1" {
		t.Errorf("RedactURL = %q", got)
	}
}
