// Package config provides the configuration surface for the content pipeline.
//
// All tunables are constants with package defaults; an optional YAML file can
// override them and the API key always comes from the environment. Nothing in
// here is persisted by the pipeline itself.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized at load time.
const (
	// APIKeyEnv is the primary environment variable for the Gemini API key.
	APIKeyEnv = "GEMINI_API_KEY"
	// APIKeyEnvAlt matches the older variable name the SDK also honors.
	APIKeyEnvAlt = "GOOGLE_API_KEY"
	// ConfigPathEnv points at an optional YAML override file.
	ConfigPathEnv = "COPYDESK_CONFIG"
)

// Defaults for every tunable. Durations are expressed in milliseconds to
// match the wire-facing retry parameters.
const (
	DefaultModel           = "gemini-2.5-flash"
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 2048

	DefaultMaxAttempts       = 3
	DefaultInitialBackoffMs  = 1000
	DefaultBackoffMultiplier = 2.0
	DefaultCallTimeoutMs     = 60_000

	DefaultCacheCapacity = 20
	DefaultCacheTTLMs    = 10 * 60_000

	DefaultMaxParagraphs            = 5
	DefaultMinSentencesPerParagraph = 2
	DefaultMaxSentencesPerParagraph = 3

	DefaultMinTopicLength = 10
	DefaultMaxTopicLength = 300
)

// Config aggregates every tunable of the pipeline.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Retry      RetryConfig      `yaml:"retry"`
	Cache      CacheConfig      `yaml:"cache"`
	Topic      TopicConfig      `yaml:"topic"`

	// APIKey is taken from the environment, never from the YAML file.
	APIKey string `yaml:"-"`
}

// GenerationConfig controls the generative calls and the Writer's output
// shape constraints (communicated via system instruction, not validated
// locally).
type GenerationConfig struct {
	Model                    string  `yaml:"model"`
	Temperature              float32 `yaml:"temperature"`
	MaxOutputTokens          int32   `yaml:"maxOutputTokens"`
	CallTimeoutMs            int     `yaml:"callTimeoutMs"`
	MaxParagraphs            int     `yaml:"maxParagraphs"`
	MinSentencesPerParagraph int     `yaml:"minSentencesPerParagraph"`
	MaxSentencesPerParagraph int     `yaml:"maxSentencesPerParagraph"`
}

// RetryConfig controls the backoff loop around each generative call.
type RetryConfig struct {
	MaxAttempts       int     `yaml:"maxAttempts"`
	InitialBackoffMs  int     `yaml:"initialBackoffMs"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// CacheConfig bounds the grounding cache.
type CacheConfig struct {
	Capacity int `yaml:"capacity"`
	TTLMs    int `yaml:"ttlMs"`
}

// TopicConfig bounds the sanitized user topic.
type TopicConfig struct {
	MinLength int `yaml:"minLength"`
	MaxLength int `yaml:"maxLength"`
}

// CallTimeout returns the per-attempt timeout as a duration.
func (g GenerationConfig) CallTimeout() time.Duration {
	return time.Duration(g.CallTimeoutMs) * time.Millisecond
}

// InitialBackoff returns the first retry delay as a duration.
func (r RetryConfig) InitialBackoff() time.Duration {
	return time.Duration(r.InitialBackoffMs) * time.Millisecond
}

// TTL returns the cache entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMs) * time.Millisecond
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Generation: GenerationConfig{
			Model:                    DefaultModel,
			Temperature:              DefaultTemperature,
			MaxOutputTokens:          DefaultMaxOutputTokens,
			CallTimeoutMs:            DefaultCallTimeoutMs,
			MaxParagraphs:            DefaultMaxParagraphs,
			MinSentencesPerParagraph: DefaultMinSentencesPerParagraph,
			MaxSentencesPerParagraph: DefaultMaxSentencesPerParagraph,
		},
		Retry: RetryConfig{
			MaxAttempts:       DefaultMaxAttempts,
			InitialBackoffMs:  DefaultInitialBackoffMs,
			BackoffMultiplier: DefaultBackoffMultiplier,
		},
		Cache: CacheConfig{
			Capacity: DefaultCacheCapacity,
			TTLMs:    DefaultCacheTTLMs,
		},
		Topic: TopicConfig{
			MinLength: DefaultMinTopicLength,
			MaxLength: DefaultMaxTopicLength,
		},
	}
}

// Load builds the runtime configuration: defaults, then the YAML file at
// path (or $COPYDESK_CONFIG when path is empty, or nothing when neither is
// set), then the API key from the environment. The returned config is
// validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		// Unmarshal over the defaults so absent keys keep their values.
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.APIKey = os.Getenv(APIKeyEnv)
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(APIKeyEnvAlt)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the pipeline cannot honor. The API key is
// not checked here: offline paths (mock client, tests) run without one.
func (c *Config) Validate() error {
	if c.Generation.Model == "" {
		return fmt.Errorf("config: generation.model must not be empty")
	}
	if c.Generation.MaxOutputTokens <= 0 {
		return fmt.Errorf("config: generation.maxOutputTokens must be positive, got %d", c.Generation.MaxOutputTokens)
	}
	if c.Generation.CallTimeoutMs <= 0 {
		return fmt.Errorf("config: generation.callTimeoutMs must be positive, got %d", c.Generation.CallTimeoutMs)
	}
	if c.Generation.MaxParagraphs <= 0 {
		return fmt.Errorf("config: generation.maxParagraphs must be positive, got %d", c.Generation.MaxParagraphs)
	}
	if c.Generation.MinSentencesPerParagraph <= 0 ||
		c.Generation.MaxSentencesPerParagraph < c.Generation.MinSentencesPerParagraph {
		return fmt.Errorf("config: sentence range %d..%d is invalid",
			c.Generation.MinSentencesPerParagraph, c.Generation.MaxSentencesPerParagraph)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("config: retry.maxAttempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.InitialBackoffMs < 0 {
		return fmt.Errorf("config: retry.initialBackoffMs must not be negative, got %d", c.Retry.InitialBackoffMs)
	}
	if c.Retry.BackoffMultiplier < 1 {
		return fmt.Errorf("config: retry.backoffMultiplier must be at least 1, got %g", c.Retry.BackoffMultiplier)
	}
	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("config: cache.capacity must be positive, got %d", c.Cache.Capacity)
	}
	if c.Cache.TTLMs <= 0 {
		return fmt.Errorf("config: cache.ttlMs must be positive, got %d", c.Cache.TTLMs)
	}
	if c.Topic.MinLength <= 0 || c.Topic.MaxLength < c.Topic.MinLength {
		return fmt.Errorf("config: topic length range %d..%d is invalid", c.Topic.MinLength, c.Topic.MaxLength)
	}
	return nil
}
