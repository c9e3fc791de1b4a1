package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Chat       ChatConfig       `yaml:"chat" mapstructure:"chat"`
	Generation GenerationConfig `yaml:"generation" mapstructure:"generation"`
	OpenRouter OpenRouterConfig `yaml:"openrouter" mapstructure:"openrouter"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// CacheConfig configures the extraction cache.
type CacheConfig struct {
	Driver  string `yaml:"driver" mapstructure:"driver"` // "memory" or "sqlite"
	Path    string `yaml:"path" mapstructure:"path"`
	TTLSecs int    `yaml:"ttl_secs" mapstructure:"ttl_secs"`
}

// FetchConfig configures the page fetcher.
type FetchConfig struct {
	TimeoutSecs         int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	FallbackTimeoutSecs int     `yaml:"fallback_timeout_secs" mapstructure:"fallback_timeout_secs"`
	MaxRedirects        int     `yaml:"max_redirects" mapstructure:"max_redirects"`
	RatePerSec          float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst               int     `yaml:"burst" mapstructure:"burst"`
}

// ChatConfig configures conversation handling.
type ChatConfig struct {
	AgentName           string `yaml:"agent_name" mapstructure:"agent_name"`
	HistoryLimit        int    `yaml:"history_limit" mapstructure:"history_limit"`
	ContextTurns        int    `yaml:"context_turns" mapstructure:"context_turns"`
	GenerateTimeoutSecs int    `yaml:"generate_timeout_secs" mapstructure:"generate_timeout_secs"`
	SessionIdleMins     int    `yaml:"session_idle_mins" mapstructure:"session_idle_mins"`
	SweepIntervalSecs   int    `yaml:"sweep_interval_secs" mapstructure:"sweep_interval_secs"`
}

// GenerationConfig selects the external generation backend. An empty
// provider disables external generation; replies then come from the
// deterministic intent templates.
type GenerationConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // "", "openrouter", "anthropic"
}

// OpenRouterConfig holds OpenRouter API settings.
type OpenRouterConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
	Referer string `yaml:"referer" mapstructure:"referer"`
	Title   string `yaml:"title" mapstructure:"title"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LINKMAGICO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.path", "linkmagico.db")
	v.SetDefault("cache.ttl_secs", 3600)
	v.SetDefault("fetch.timeout_secs", 15)
	v.SetDefault("fetch.fallback_timeout_secs", 10)
	v.SetDefault("fetch.max_redirects", 5)
	v.SetDefault("fetch.rate_per_sec", 2.0)
	v.SetDefault("fetch.burst", 4)
	v.SetDefault("chat.agent_name", "Assistente")
	v.SetDefault("chat.history_limit", 10)
	v.SetDefault("chat.context_turns", 6)
	v.SetDefault("chat.generate_timeout_secs", 10)
	v.SetDefault("chat.session_idle_mins", 30)
	v.SetDefault("chat.sweep_interval_secs", 300)
	v.SetDefault("generation.provider", "")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "meta-llama/llama-3.1-8b-instruct:free")
	v.SetDefault("openrouter.referer", "https://linkmagico.com.br")
	v.SetDefault("openrouter.title", "LinkMágico Chatbot")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 300)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
