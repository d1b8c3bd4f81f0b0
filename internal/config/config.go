package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration. Per-run provider settings (model,
// credential, temperature) arrive with each request; only service-level
// knobs and backend endpoints live here.
type Config struct {
	// Server
	Port      int    `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "text"

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Completion cache. "none" keeps every run fully session-scoped.
	CacheProvider string        `env:"CACHE_PROVIDER" envDefault:"none"` // "none" or "redis"
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"1h"`

	// Provider backends
	HuggingFaceBaseURL string `env:"HUGGINGFACE_BASE_URL" envDefault:"https://api-inference.huggingface.co"`
	OllamaBaseURL      string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`

	// Provider invocation policy
	ProviderTimeout     time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"60s"` // per call, not per run
	ProviderMaxAttempts int           `env:"PROVIDER_MAX_ATTEMPTS" envDefault:"3"`

	// Prompt budget, in whitespace-delimited words of source text.
	PromptMaxWords int `env:"PROMPT_MAX_WORDS" envDefault:"3000"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
