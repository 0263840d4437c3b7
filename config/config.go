// Package config provides configuration loading for caseflow.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/socialwise/caseflow/llm"
)

// Config represents the complete caseflow configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	NATS      NATSConfig      `yaml:"nats"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Generate  GenerateConfig  `yaml:"generate"`
}

// APIConfig configures the completion service client.
type APIConfig struct {
	// BaseURL is the OpenAI-compatible completion endpoint.
	BaseURL string `yaml:"base_url"`
	// KeyEnv names the environment variable holding the bearer token.
	// The key itself never lives in the config file.
	KeyEnv string `yaml:"key_env"`
	// Referer and Title are optional gateway attribution headers.
	Referer string `yaml:"referer"`
	Title   string `yaml:"title"`
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `yaml:"timeout"`
	// MaxRetries is the retry ceiling for transient completion failures.
	MaxRetries int `yaml:"max_retries"`
	// BackoffBase is the initial retry backoff.
	BackoffBase time.Duration `yaml:"backoff_base"`
}

// NATSConfig configures the NATS connection backing the document and prompt
// stores.
type NATSConfig struct {
	// URL is the NATS server URL.
	URL string `yaml:"url"`
}

// ArtifactsConfig configures where reference prompt artifacts come from.
// When Dir is set the local-file source is used; otherwise BaseURL.
type ArtifactsConfig struct {
	BaseURL string `yaml:"base_url"`
	Dir     string `yaml:"dir"`
}

// GenerateConfig configures the generation pipeline.
type GenerateConfig struct {
	// ClassifierModel is the model used for urgency and decision-type
	// extraction.
	ClassifierModel string `yaml:"classifier_model"`
	// BacklogParallelism bounds concurrent backlog summarization.
	BacklogParallelism int `yaml:"backlog_parallelism"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     llm.DefaultBaseURL,
			KeyEnv:      "OPENROUTER_API_KEY",
			Title:       "SocialWise - Document Summary",
			Timeout:     60 * time.Second,
			MaxRetries:  2,
			BackoffBase: 1500 * time.Millisecond,
		},
		NATS: NATSConfig{
			URL: "nats://localhost:4222",
		},
		Artifacts: ArtifactsConfig{
			BaseURL: "",
			Dir:     "",
		},
		Generate: GenerateConfig{
			ClassifierModel:    "google/gemini-2.5-flash-lite",
			BacklogParallelism: 4,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.KeyEnv == "" {
		return fmt.Errorf("api.key_env is required")
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative")
	}
	if c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required")
	}
	return nil
}

// APIKey reads the completion service bearer token from the environment.
// An empty result is a configuration problem surfaced to the user as a
// message by the pipeline, not a crash.
func (c *Config) APIKey() string {
	return os.Getenv(c.API.KeyEnv)
}

// RetryConfig maps the API settings onto the completion client's retry
// configuration.
func (c *Config) RetryConfig() llm.RetryConfig {
	cfg := llm.DefaultRetryConfig()
	cfg.MaxRetries = c.API.MaxRetries
	if c.API.BackoffBase > 0 {
		cfg.BackoffBase = c.API.BackoffBase
	}
	return cfg
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.API.BaseURL != "" {
		c.API.BaseURL = other.API.BaseURL
	}
	if other.API.KeyEnv != "" {
		c.API.KeyEnv = other.API.KeyEnv
	}
	if other.API.Referer != "" {
		c.API.Referer = other.API.Referer
	}
	if other.API.Title != "" {
		c.API.Title = other.API.Title
	}
	if other.API.Timeout != 0 {
		c.API.Timeout = other.API.Timeout
	}
	if other.API.MaxRetries != 0 {
		c.API.MaxRetries = other.API.MaxRetries
	}
	if other.API.BackoffBase != 0 {
		c.API.BackoffBase = other.API.BackoffBase
	}

	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}

	if other.Artifacts.BaseURL != "" {
		c.Artifacts.BaseURL = other.Artifacts.BaseURL
	}
	if other.Artifacts.Dir != "" {
		c.Artifacts.Dir = other.Artifacts.Dir
	}

	if other.Generate.ClassifierModel != "" {
		c.Generate.ClassifierModel = other.Generate.ClassifierModel
	}
	if other.Generate.BacklogParallelism != 0 {
		c.Generate.BacklogParallelism = other.Generate.BacklogParallelism
	}
}
