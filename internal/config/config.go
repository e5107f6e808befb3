package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Provider  string          `yaml:"provider" mapstructure:"provider"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	DeepSeek  DeepSeekConfig  `yaml:"deepseek" mapstructure:"deepseek"`
	Profile   ProfileConfig   `yaml:"profile" mapstructure:"profile"`
	Fill      FillConfig      `yaml:"fill" mapstructure:"fill"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// DeepSeekConfig holds settings for the DeepSeek API, which speaks the
// OpenAI-compatible chat protocol.
type DeepSeekConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// ProfileConfig locates the applicant profile document.
type ProfileConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// FillConfig configures the classification and value-generation pipeline.
type FillConfig struct {
	// ConfidenceFloor flags decisions below it for manual review. It never
	// blocks auto-filling.
	ConfidenceFloor     float64  `yaml:"confidence_floor" mapstructure:"confidence_floor"`
	MaxConcurrency      int      `yaml:"max_concurrency" mapstructure:"max_concurrency"`
	PerCallTimeoutSecs  int      `yaml:"per_call_timeout_secs" mapstructure:"per_call_timeout_secs"`
	RetryLimit          int      `yaml:"retry_limit" mapstructure:"retry_limit"`
	SkipKeywords        []string `yaml:"skip_keywords" mapstructure:"skip_keywords"`
	EssayMinWords       int      `yaml:"essay_min_words" mapstructure:"essay_min_words"`
	EssayMaxWords       int      `yaml:"essay_max_words" mapstructure:"essay_max_words"`
	MappingThreshold    float64  `yaml:"mapping_threshold" mapstructure:"mapping_threshold"`
	RequestsPerSecond   float64  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	AutoSubmitThreshold float64  `yaml:"auto_submit_threshold" mapstructure:"auto_submit_threshold"`
}

// PerCallTimeout returns the per-model-call timeout as a duration.
func (f FillConfig) PerCallTimeout() time.Duration {
	return time.Duration(f.PerCallTimeoutSecs) * time.Second
}

// BatchConfig configures batch processing of tracker rows.
type BatchConfig struct {
	MaxConcurrentForms int `yaml:"max_concurrent_forms" mapstructure:"max_concurrent_forms"`
}

// ServerConfig configures the planning HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("JOBAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. API keys default to empty so the env bindings resolve.
	v.SetDefault("provider", "anthropic")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("deepseek.key", "")
	v.SetDefault("deepseek.base_url", "https://api.deepseek.com")
	v.SetDefault("deepseek.model", "deepseek-chat")
	v.SetDefault("profile.path", "profile.yaml")
	v.SetDefault("fill.confidence_floor", 0.5)
	v.SetDefault("fill.max_concurrency", 4)
	v.SetDefault("fill.per_call_timeout_secs", 30)
	v.SetDefault("fill.retry_limit", 3)
	v.SetDefault("fill.skip_keywords", []string{
		"assessment",
		"quiz",
		"test question",
		"coding challenge",
		"code sample",
		"technical evaluation",
		"hackerrank",
		"codility",
	})
	v.SetDefault("fill.essay_min_words", 50)
	v.SetDefault("fill.essay_max_words", 150)
	v.SetDefault("fill.mapping_threshold", 0.7)
	v.SetDefault("fill.requests_per_second", 2.0)
	v.SetDefault("fill.auto_submit_threshold", 0.85)
	v.SetDefault("batch.max_concurrent_forms", 2)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the configuration for the given mode. Mode "plan" covers
// offline planning (no credentials needed), "run" covers commands that call
// the model API, and "serve" additionally checks the server settings.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "plan":
	case "run", "serve":
		switch c.Provider {
		case "anthropic":
			if c.Anthropic.Key == "" {
				problems = append(problems, "anthropic.key is required")
			}
		case "deepseek":
			if c.DeepSeek.Key == "" {
				problems = append(problems, "deepseek.key is required")
			}
		default:
			problems = append(problems, "provider must be \"anthropic\" or \"deepseek\"")
		}
		if mode == "serve" && c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Fill.ConfidenceFloor < 0 || c.Fill.ConfidenceFloor > 1 {
		problems = append(problems, "fill.confidence_floor must be in [0,1]")
	}
	if c.Fill.AutoSubmitThreshold < 0 || c.Fill.AutoSubmitThreshold > 1 {
		problems = append(problems, "fill.auto_submit_threshold must be in [0,1]")
	}
	if c.Fill.MappingThreshold < 0 || c.Fill.MappingThreshold > 1 {
		problems = append(problems, "fill.mapping_threshold must be in [0,1]")
	}
	if c.Fill.MaxConcurrency < 1 || c.Fill.MaxConcurrency > 50 {
		problems = append(problems, "fill.max_concurrency must be between 1 and 50")
	}
	if c.Fill.RetryLimit < 1 || c.Fill.RetryLimit > 10 {
		problems = append(problems, "fill.retry_limit must be between 1 and 10")
	}
	if c.Fill.PerCallTimeoutSecs <= 0 {
		problems = append(problems, "fill.per_call_timeout_secs must be > 0")
	}
	if c.Fill.EssayMinWords <= 0 || c.Fill.EssayMaxWords < c.Fill.EssayMinWords {
		problems = append(problems, "fill.essay words must satisfy 0 < min <= max")
	}
	if c.Fill.RequestsPerSecond <= 0 {
		problems = append(problems, "fill.requests_per_second must be > 0")
	}
	if c.Batch.MaxConcurrentForms < 1 || c.Batch.MaxConcurrentForms > 20 {
		problems = append(problems, "batch.max_concurrent_forms must be between 1 and 20")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
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
