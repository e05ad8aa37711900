// Package config loads application configuration from file and
// environment and owns global logger setup.
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
	Serper    SerperConfig    `yaml:"serper" mapstructure:"serper"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Match     MatchConfig     `yaml:"match" mapstructure:"match"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Registry  RegistryConfig  `yaml:"registry" mapstructure:"registry"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SerperConfig holds Serper search API settings.
type SerperConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings for the agent fallback.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// CacheConfig selects the search-result cache backend.
type CacheConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// SearchConfig configures the result collection phase.
type SearchConfig struct {
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	Workers   int     `yaml:"workers" mapstructure:"workers"`
}

// MatchConfig configures facility matching.
type MatchConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	Workers             int     `yaml:"workers" mapstructure:"workers"`
}

// ExtractConfig configures source prioritization.
type ExtractConfig struct {
	SourceWeights    map[string]int `yaml:"source_weights" mapstructure:"source_weights"`
	FirstResultBonus int            `yaml:"first_result_bonus" mapstructure:"first_result_bonus"`
}

// RegistryConfig configures registry file parsing.
type RegistryConfig struct {
	MappingPath string `yaml:"mapping_path" mapstructure:"mapping_path"`
	Encoding    string `yaml:"encoding" mapstructure:"encoding"`
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
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("cache.driver", "file")
	v.SetDefault("cache.path", "search_cache.json")
	v.SetDefault("search.rate_limit", 1.0)
	v.SetDefault("search.workers", 3)
	v.SetDefault("match.similarity_threshold", 0.85)
	v.SetDefault("match.workers", 0)
	v.SetDefault("extract.first_result_bonus", 10)

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
