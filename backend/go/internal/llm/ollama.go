package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"IceBreaker/backend/go/internal/models"

	olla "github.com/ollama/ollama/api"
)

// Ollama 是一个用于本地 Ollama 服务的 LLM 客户端。
type Ollama struct {
	client      *olla.Client
	model       string
	temperature float32
}

// NewOllama 创建一个新的 Ollama 客户端。BaseURL 为空时默认为 "http://localhost:11434"。
func NewOllama(opts Options) (*Ollama, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 120 * time.Second}
	}
	return &Ollama{
		client:      olla.NewClient(parsedURL, hc),
		model:       opts.Model,
		temperature: opts.Temperature,
	}, nil
}

// GenerateContent 使用 Ollama 的非流式 generate 接口生成内容。
func (o *Ollama) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	stream := false
	var result *olla.GenerateResponse
	err := o.client.Generate(ctx, &olla.GenerateRequest{
		Model:   o.model,
		Prompt:  promptText(req),
		Stream:  &stream,
		Options: map[string]interface{}{"temperature": o.temperature},
	}, func(resp olla.GenerateResponse) error {
		result = &resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with ollama: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("ollama returned no response")
	}
	return &models.GenerateContentResponse{
		Content: []models.Content{
			{
				Parts: []*models.Part{{Text: result.Response}},
				Role:  models.SpeakerModel,
			},
		},
		ModelVersion: result.Model,
	}, nil
}
