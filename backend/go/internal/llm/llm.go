package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"IceBreaker/backend/go/internal/config"
	"IceBreaker/backend/go/internal/models"
)

// LLM 定义了所有大型语言模型客户端必须实现的通用接口。
type LLM interface {
	GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error)
}

// Options 是构造单个提供商客户端所需的参数。
type Options struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	// HTTPClient 用于出站请求，通常带有熔断保护。为 nil 时使用各 SDK 的默认客户端。
	HTTPClient *http.Client
}

// NewClient 是一个工厂函数，根据配置创建实现了 LLM 接口的客户端。
// 返回的客户端对每次调用施加 cfg.Timeout 超时。
func NewClient(ctx context.Context, cfg config.LLMConfig, hc *http.Client) (LLM, error) {
	var (
		client LLM
		err    error
	)
	switch cfg.Provider {
	case "openai":
		client, err = NewOpenAI(optionsFrom(cfg.OpenAI, cfg.Temperature, hc))
	case "gemini":
		client, err = NewGemini(ctx, optionsFrom(cfg.Gemini, cfg.Temperature, hc))
	case "ollama":
		client, err = NewOllama(optionsFrom(cfg.Ollama, cfg.Temperature, hc))
	case "huggingface":
		client, err = NewHuggingFace(optionsFrom(cfg.HuggingFace, cfg.Temperature, hc))
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}
	return WithTimeout(client, config.Duration(cfg.Timeout, 60*time.Second)), nil
}

func optionsFrom(p config.ProviderConfig, temperature float32, hc *http.Client) Options {
	return Options{
		Model:       p.Model,
		APIKey:      p.APIKey,
		BaseURL:     p.BaseURL,
		Temperature: temperature,
		HTTPClient:  hc,
	}
}

type timeoutLLM struct {
	next    LLM
	timeout time.Duration
}

// WithTimeout 为每次 GenerateContent 调用加上超时。
func WithTimeout(next LLM, d time.Duration) LLM {
	if d <= 0 {
		return next
	}
	return &timeoutLLM{next: next, timeout: d}
}

func (t *timeoutLLM) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.GenerateContent(ctx, req)
}

// Close 在被包装的客户端持有连接时将其关闭。
func (t *timeoutLLM) Close() error {
	if c, ok := t.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// promptText 将请求中的全部文本部分拼接成一个字符串。
func promptText(req *models.GenerateContentRequest) string {
	var s string
	for _, c := range req.Content {
		for _, p := range c.Parts {
			if p != nil {
				s += p.Text
			}
		}
	}
	return s
}
