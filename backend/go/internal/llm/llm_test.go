package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"IceBreaker/backend/go/internal/config"
	"IceBreaker/backend/go/internal/models"

	"github.com/google/generative-ai-go/genai"
)

func TestOpenAIGenerateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing auth header")
		}
		var body struct {
			Model       string   `json:"model"`
			Temperature *float64 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Model != "gpt-4o-mini" || len(body.Messages) != 1 || body.Messages[0].Role != "user" || body.Messages[0].Content != "hello" {
			t.Errorf("unexpected request %+v", body)
		}
		// A zero temperature must still be sent, not left to the provider default.
		if body.Temperature == nil || *body.Temperature != 0 {
			t.Errorf("temperature = %v, want 0", body.Temperature)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"{\"ok\":true}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	client, err := NewOpenAI(Options{Model: "gpt-4o-mini", APIKey: "sk-test", BaseURL: srv.URL + "/v1", Temperature: 0})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.GenerateContent(context.Background(), models.NewTextRequest("hello"))
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if resp.Text() != `{"ok":true}` || resp.ResponseID != "chatcmpl-1" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestOllamaGenerateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["prompt"] != "hello" || body["stream"] != false {
			t.Errorf("unexpected request %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3","response":"hi there","done":true}` + "\n"))
	}))
	defer srv.Close()

	client, err := NewOllama(Options{Model: "llama3", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.GenerateContent(context.Background(), models.NewTextRequest("hello"))
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if resp.Text() != "hi there" || resp.ModelVersion != "llama3" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestHuggingFaceGenerateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/mistral" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body hfRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Inputs != "hello" || body.Parameters.ReturnFullText {
			t.Errorf("unexpected request %+v", body)
		}
		_, _ = w.Write([]byte(`[{"generated_text":"generated"}]`))
	}))
	defer srv.Close()

	client, err := NewHuggingFace(Options{Model: "mistral", APIKey: "hf", BaseURL: srv.URL + "/models"})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.GenerateContent(context.Background(), models.NewTextRequest("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text() != "generated" {
		t.Errorf("got %q", resp.Text())
	}
}

func TestHuggingFaceErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"model is loading"}`))
	}))
	defer srv.Close()

	client, _ := NewHuggingFace(Options{Model: "m", APIKey: "hf", BaseURL: srv.URL})
	if _, err := client.GenerateContent(context.Background(), models.NewTextRequest("x")); err == nil || !strings.Contains(err.Error(), "model is loading") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestNewClient(t *testing.T) {
	if _, err := NewClient(context.Background(), config.LLMConfig{Provider: "claude"}, nil); err == nil {
		t.Error("expected error for unsupported provider")
	}
	if _, err := NewClient(context.Background(), config.LLMConfig{Provider: "openai"}, nil); err == nil {
		t.Error("expected error for missing api key")
	}
	c, err := NewClient(context.Background(), config.LLMConfig{Provider: "ollama", Timeout: "5s", Ollama: config.ProviderConfig{Model: "llama3"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*timeoutLLM); !ok {
		t.Errorf("expected timeout wrapper, got %T", c)
	}
}

type blockingLLM struct{}

func (blockingLLM) GenerateContent(ctx context.Context, _ *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	_, err := WithTimeout(blockingLLM{}, 10*time.Millisecond).GenerateContent(context.Background(), models.NewTextRequest("x"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestFromGenaiResponse(t *testing.T) {
	resp := fromGenaiResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []genai.Part{genai.Text("a"), genai.Text("b")}}},
			nil,
		},
	})
	if resp.Text() != "ab" {
		t.Errorf("got %q", resp.Text())
	}
	if fromGenaiResponse(nil).Text() != "" {
		t.Error("nil response should convert to empty")
	}
}
