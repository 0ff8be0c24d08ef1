package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// ServerConfig 定义了 HTTP 服务的配置。
type ServerConfig struct {
	Address      string     `yaml:"address"`      // 监听地址 (例如: ":5000")
	ReadTimeout  string     `yaml:"readTimeout"`  // 例如: "15s"
	WriteTimeout string     `yaml:"writeTimeout"` // 流水线包含多次外部调用，写超时需要足够长
	CORS         CORSConfig `yaml:"cors"`
}

// CORSConfig 定义了跨域中间件的配置。
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// ProviderConfig 是单个 LLM 提供商的配置。
type ProviderConfig struct {
	APIKey  string `yaml:"apiKey"`  // API 密钥
	Model   string `yaml:"model"`   // 模型名称
	BaseURL string `yaml:"baseURL"` // 可选，自定义服务地址
}

// LLMConfig 包含了不同LLM提供商的配置。
type LLMConfig struct {
	Provider    string         `yaml:"provider"`    // LLM提供商 ("openai", "gemini", "ollama", "huggingface")
	Temperature float32        `yaml:"temperature"` // 采样温度
	Timeout     string         `yaml:"timeout"`     // 单次调用超时，例如 "60s"
	OpenAI      ProviderConfig `yaml:"openai"`
	Gemini      ProviderConfig `yaml:"gemini"`
	Ollama      ProviderConfig `yaml:"ollama"`
	HuggingFace ProviderConfig `yaml:"huggingface"`
}

// LinkupConfig 是 Linkup 搜索 API 的配置。
type LinkupConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"`
	Depth   string `yaml:"depth"` // "standard" 或 "deep"
}

// GoogleSearchConfig 是 Google Custom Search 的配置。
type GoogleSearchConfig struct {
	APIKey   string `yaml:"apiKey"`
	EngineID string `yaml:"engineID"`
	BaseURL  string `yaml:"baseURL"`
}

// SearchConfig 定义了用于定位个人资料的搜索服务。
type SearchConfig struct {
	Provider string             `yaml:"provider"` // "linkup" 或 "google"
	Timeout  string             `yaml:"timeout"`
	Linkup   LinkupConfig       `yaml:"linkup"`
	Google   GoogleSearchConfig `yaml:"google"`
}

// LinkedInScraperConfig 是个人资料抓取器的配置。
type LinkedInScraperConfig struct {
	APIKey  string `yaml:"apiKey"`  // Scrapin.io API 密钥
	BaseURL string `yaml:"baseURL"` // Scrapin.io 资料接口
	Mock    bool   `yaml:"mock"`    // 为 true 时读取固定的示例数据
	MockURL string `yaml:"mockURL"`
	Timeout string `yaml:"timeout"`
}

// TwitterScraperConfig 是帖子抓取器的配置。
// 只读的 X API v2 调用仅需要 Bearer Token。
type TwitterScraperConfig struct {
	BearerToken string `yaml:"bearerToken"`
	BaseURL     string `yaml:"baseURL"` // X API v2 地址
	Mock        bool   `yaml:"mock"`
	MockURL     string `yaml:"mockURL"`
	MaxPosts    int    `yaml:"maxPosts"`
	Timeout     string `yaml:"timeout"`
}

// ScrapersConfig 包含所有抓取器的配置。
type ScrapersConfig struct {
	LinkedIn LinkedInScraperConfig `yaml:"linkedin"`
	Twitter  TwitterScraperConfig  `yaml:"twitter"`
}

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
}

// CacheConfig 定义了个人资料缓存。
type CacheConfig struct {
	Backend  string      `yaml:"backend"`  // "none", "memory" 或 "redis"
	TTL      string      `yaml:"ttl"`      // 例如: "1h"
	Capacity int         `yaml:"capacity"` // 仅用于 memory
	Redis    RedisConfig `yaml:"redis"`
}

// MiddlewareConfig 包含所有中间件的配置。
type MiddlewareConfig struct {
	RateLimiter    RateLimiterConfig    `yaml:"rateLimiter"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
}

// RateLimiterConfig 定义了限流器的配置。
type RateLimiterConfig struct {
	Enabled     bool              `yaml:"enabled"`
	TokenBucket TokenBucketConfig `yaml:"tokenBucket"`
}

// TokenBucketConfig 定义了令牌桶算法的配置。
type TokenBucketConfig struct {
	Rate     float64 `yaml:"rate"` // 每秒速率
	Capacity int     `yaml:"capacity"`
}

// CircuitBreakerConfig 定义了熔断器的配置，作用于所有出站 HTTP 客户端。
type CircuitBreakerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint32 `yaml:"failureThreshold"`
	SuccessThreshold uint32 `yaml:"successThreshold"`
	Timeout          string `yaml:"timeout"` // 例如: "30s"
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App        AppInfo          `yaml:"app"`
	Logger     LoggerConfig     `yaml:"logger"`
	Server     ServerConfig     `yaml:"server"`
	LLM        LLMConfig        `yaml:"llm"`
	Search     SearchConfig     `yaml:"search"`
	Scrapers   ScrapersConfig   `yaml:"scrapers"`
	Cache      CacheConfig      `yaml:"cache"`
	Middleware MiddlewareConfig `yaml:"middleware"`
}

const (
	defaultScrapinURL     = "https://api.scrapin.io/enrichment/profile"
	defaultProfileMockURL = "https://gist.githubusercontent.com/emarco177/859ec7d786b45d8e3e3f688c6c9139d8/raw/32f3c85b9513994c572613f2c8b376b633bfc43f/eden-marco-scrapin.json"
	defaultTweetsMockURL  = "https://gist.githubusercontent.com/emarco177/827323bb599553d0f0e662da07b9ff68/raw/57bf38cf8acce0c87e060f9bb51f6ab72098fbd6/eden-marco-twitter.json"
)

// Default 返回在没有配置文件时使用的默认配置。
func Default() *AppConfig {
	return &AppConfig{
		App:    AppInfo{Name: "icebreaker", Version: "0.1.0", Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Server: ServerConfig{Address: ":5000", ReadTimeout: "15s", WriteTimeout: "5m"},
		LLM: LLMConfig{
			Provider:    "openai",
			Temperature: 0,
			Timeout:     "60s",
			OpenAI:      ProviderConfig{Model: "gpt-4o-mini"},
			Gemini:      ProviderConfig{Model: "gemini-1.5-flash"},
			Ollama:      ProviderConfig{Model: "llama3", BaseURL: "http://localhost:11434"},
			HuggingFace: ProviderConfig{Model: "mistralai/Mistral-7B-Instruct-v0.2"},
		},
		Search: SearchConfig{
			Provider: "linkup",
			Timeout:  "20s",
			Linkup:   LinkupConfig{Depth: "standard"},
		},
		Scrapers: ScrapersConfig{
			LinkedIn: LinkedInScraperConfig{
				BaseURL: defaultScrapinURL,
				MockURL: defaultProfileMockURL,
				Timeout: "10s",
			},
			Twitter: TwitterScraperConfig{
				BaseURL:  "https://api.twitter.com",
				Mock:     true,
				MockURL:  defaultTweetsMockURL,
				MaxPosts: 5,
				Timeout:  "5s",
			},
		},
		Cache: CacheConfig{Backend: "none", TTL: "1h", Capacity: 128},
		Middleware: MiddlewareConfig{
			RateLimiter: RateLimiterConfig{TokenBucket: TokenBucketConfig{Rate: 1, Capacity: 5}},
			CircuitBreaker: CircuitBreakerConfig{
				FailureThreshold: 5,
				SuccessThreshold: 1,
				Timeout:          "30s",
			},
		},
	}
}

// LoadConfig 函数加载 .env，然后从指定路径解析 YAML 配置文件，最后应用环境变量覆盖。
//
// 参数:
//
//	path: YAML 配置文件的路径。文件不存在时使用默认配置。
//
// 返回值:
//
//	*AppConfig: 解析后的应用程序配置结构体。
//	error: 如果文件读取或解析失败，则返回错误。
func LoadConfig(path string) (*AppConfig, error) {
	// .env 是可选的。
	_ = godotenv.Load()

	cfg := Default()
	yamlFile, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	default:
		if err := yaml.Unmarshal(yamlFile, cfg); err != nil {
			return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv 使用环境变量覆盖密钥等敏感配置。lookup 通常为 os.LookupEnv。
func (c *AppConfig) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(&c.Scrapers.LinkedIn.APIKey, "SCRAPIN_API_KEY")
	set(&c.Scrapers.Twitter.BearerToken, "TWITTER_BEARER_TOKEN")
	set(&c.LLM.OpenAI.APIKey, "OPENAI_API_KEY")
	set(&c.LLM.Gemini.APIKey, "GEMINI_API_KEY")
	set(&c.LLM.HuggingFace.APIKey, "HUGGINGFACE_API_KEY")
	set(&c.Search.Linkup.APIKey, "LINKUP_API_KEY")
	set(&c.Search.Google.APIKey, "GOOGLE_SEARCH_API_KEY")
	set(&c.Search.Google.EngineID, "GOOGLE_SEARCH_ENGINE_ID")
	set(&c.Cache.Redis.Password, "REDIS_PASSWORD")
	set(&c.Logger.Level, "LOG_LEVEL")
	if port, ok := lookup("PORT"); ok && port != "" {
		c.Server.Address = ":" + strings.TrimPrefix(port, ":")
	}
}

// Validate 检查启动所必需的配置是否齐全。
func (c *AppConfig) Validate() error {
	var errs []error

	switch c.LLM.Provider {
	case "openai":
		if c.LLM.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("llm: OPENAI_API_KEY is required for provider openai"))
		}
	case "gemini":
		if c.LLM.Gemini.APIKey == "" {
			errs = append(errs, errors.New("llm: GEMINI_API_KEY is required for provider gemini"))
		}
	case "huggingface":
		if c.LLM.HuggingFace.APIKey == "" {
			errs = append(errs, errors.New("llm: HUGGINGFACE_API_KEY is required for provider huggingface"))
		}
	case "ollama":
	default:
		errs = append(errs, fmt.Errorf("llm: unsupported provider %q", c.LLM.Provider))
	}

	switch c.Search.Provider {
	case "linkup":
		if c.Search.Linkup.APIKey == "" {
			errs = append(errs, errors.New("search: LINKUP_API_KEY is required for provider linkup"))
		}
	case "google":
		if c.Search.Google.APIKey == "" || c.Search.Google.EngineID == "" {
			errs = append(errs, errors.New("search: GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_ENGINE_ID are required for provider google"))
		}
	default:
		errs = append(errs, fmt.Errorf("search: unsupported provider %q", c.Search.Provider))
	}

	if !c.Scrapers.LinkedIn.Mock && c.Scrapers.LinkedIn.APIKey == "" {
		errs = append(errs, errors.New("scrapers.linkedin: SCRAPIN_API_KEY is required unless mock is enabled"))
	}
	if !c.Scrapers.Twitter.Mock && c.Scrapers.Twitter.BearerToken == "" {
		errs = append(errs, errors.New("scrapers.twitter: TWITTER_BEARER_TOKEN is required unless mock is enabled"))
	}

	switch c.Cache.Backend {
	case "", "none", "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("cache: unsupported backend %q", c.Cache.Backend))
	}

	return errors.Join(errs...)
}

// Duration 解析形如 "30s" 的时长，空串或格式错误时返回 fallback。
func Duration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
