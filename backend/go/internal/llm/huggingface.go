package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"IceBreaker/backend/go/internal/models"
)

// HuggingFace 是一个用于 Hugging Face Inference API 的 LLM 客户端。
type HuggingFace struct {
	client      *http.Client
	model       string
	apiKey      string
	baseURL     string
	temperature float32
}

// NewHuggingFace 创建一个新的 HuggingFace 客户端。
// BaseURL 为空时默认为 "https://api-inference.huggingface.co/models/"。
func NewHuggingFace(opts Options) (*HuggingFace, error) {
	if opts.APIKey == "" {
		return nil, errors.New("huggingface: api key is empty")
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co/models/"
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HuggingFace{
		client:      hc,
		model:       opts.Model,
		apiKey:      opts.APIKey,
		baseURL:     baseURL,
		temperature: opts.Temperature,
	}, nil
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	Temperature    float32 `json:"temperature,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

// GenerateContent 使用 Hugging Face Inference API 生成内容。
func (h *HuggingFace) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	payload, err := json.Marshal(hfRequest{
		Inputs: promptText(req),
		Parameters: hfParameters{
			Temperature:  h.temperature,
			MaxNewTokens: 1024,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.model, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("huggingface: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var gens []hfGeneration
	if err := json.NewDecoder(resp.Body).Decode(&gens); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(gens) == 0 {
		return nil, fmt.Errorf("no generated text returned")
	}

	content := make([]models.Content, 0, len(gens))
	for _, g := range gens {
		content = append(content, models.Content{
			Parts: []*models.Part{{Text: g.GeneratedText}},
			Role:  models.SpeakerModel,
		})
	}
	return &models.GenerateContentResponse{Content: content, ModelVersion: h.model}, nil
}
