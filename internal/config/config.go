// Package config loads application configuration from file and environment
// and initializes the global logger.
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
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Dedupe     DedupeConfig     `yaml:"dedupe" mapstructure:"dedupe"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Ingest     IngestConfig     `yaml:"ingest" mapstructure:"ingest"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// AnthropicConfig holds Anthropic API settings for the semantic fallback.
type AnthropicConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	Model      string  `yaml:"model" mapstructure:"model"`
	MaxTokens  int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// ClassifierConfig tunes the classification cascade.
type ClassifierConfig struct {
	RepeatThreshold int `yaml:"repeat_threshold" mapstructure:"repeat_threshold"`
	ExcerptChars    int `yaml:"excerpt_chars" mapstructure:"excerpt_chars"`
}

// DedupeConfig tunes duplicate resolution.
type DedupeConfig struct {
	DistanceMeters  float64 `yaml:"distance_meters" mapstructure:"distance_meters"`
	FuzzySimilarity float64 `yaml:"fuzzy_similarity" mapstructure:"fuzzy_similarity"`
}

// PipelineConfig configures pipeline execution.
type PipelineConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// IngestConfig points at the static data files.
type IngestConfig struct {
	CitiesFile     string `yaml:"cities_file" mapstructure:"cities_file"`
	VocabularyFile string `yaml:"vocabulary_file" mapstructure:"vocabulary_file"`
}

// ServerConfig configures the report server.
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
	v.SetEnvPrefix("KARO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "directory.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 150)
	v.SetDefault("anthropic.rate_per_sec", 8)
	v.SetDefault("classifier.repeat_threshold", 2)
	v.SetDefault("classifier.excerpt_chars", 4000)
	v.SetDefault("dedupe.distance_meters", 200)
	v.SetDefault("dedupe.fuzzy_similarity", 0.85)
	v.SetDefault("pipeline.concurrency", 8)
	v.SetDefault("ingest.cities_file", "cities.yaml")
	v.SetDefault("ingest.vocabulary_file", "")

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
