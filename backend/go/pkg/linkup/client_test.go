package linkup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL))
}

func TestSearchStructured_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.OutputType != OutputSearchResults || len(req.IncludeDomains) != 1 || req.IncludeDomains[0] != "linkedin.com" {
			t.Errorf("unexpected request: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"type":"text","name":"Eden Marco","url":"https://www.linkedin.com/in/eden-marco/"}]}`))
	})

	got, err := SearchStructured[SearchResults](context.Background(), client, SearchRequest{
		Q:              "Eden Marco LinkedIn profile",
		Depth:          DepthStandard,
		OutputType:     OutputSearchResults,
		IncludeDomains: []string{"linkedin.com"},
	})
	if err != nil {
		t.Fatalf("SearchStructured: %v", err)
	}
	if len(got.Results) != 1 || got.Results[0].URL != "https://www.linkedin.com/in/eden-marco/" {
		t.Errorf("unexpected results: %+v", got)
	}
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, "", func(err error) bool { return errors.Is(err, ErrUnauthorized) }},
		{"forbidden", http.StatusForbidden, "", func(err error) bool { return errors.Is(err, ErrForbidden) }},
		{"api error", http.StatusBadRequest, `{"message":"bad query"}`, func(err error) bool {
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest && apiErr.Message == "bad query"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.Search(context.Background(), SearchRequest{Q: "x"})
			if !tt.check(err) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestSearch_EmptyKey(t *testing.T) {
	_, err := NewClient("").Search(context.Background(), SearchRequest{Q: "x"})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}
