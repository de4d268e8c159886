package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"valyurag/internal/domain"
	"valyurag/internal/secret"
	"valyurag/internal/validate"
)

// Config holds all configuration for the Valyu adapters and the CLI.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Content ContentConfig `yaml:"content"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// SearchConfig holds DeepSearch configuration.
type SearchConfig struct {
	APIKeyEnv          string  `yaml:"api_key_env"` // Environment variable for API key
	BaseURL            string  `yaml:"base_url"`
	TimeoutSeconds     int     `yaml:"timeout_seconds"`
	TopK               int     `yaml:"top_k"`
	SearchType         string  `yaml:"search_type"` // "web", "proprietary", "all"
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
	MaxPrice           int     `yaml:"max_price"` // cost units per 1000 queries
}

// ContentConfig holds Contents API configuration.
type ContentConfig struct {
	APIKeyEnv      string `yaml:"api_key_env"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	ExtractEffort  string `yaml:"extract_effort,omitempty"` // "normal", "high", "auto"
	// ResponseLength is a preset name or a character count.
	ResponseLength any `yaml:"response_length,omitempty"`
	// Summary is false, true, an instruction string, or a JSON schema mapping.
	Summary any `yaml:"summary,omitempty"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string   `yaml:"level"`
	Development bool     `yaml:"development"`
	OutputPaths []string `yaml:"output_paths,omitempty"`
}

// MetricsConfig controls the request metrics summary printed by the CLI.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			APIKeyEnv:          secret.DefaultEnvVar,
			BaseURL:            domain.DefaultBaseURL,
			TimeoutSeconds:     int(domain.DefaultTimeout / time.Second),
			TopK:               domain.DefaultTopK,
			SearchType:         string(domain.DefaultSearchType),
			RelevanceThreshold: domain.DefaultRelevanceThreshold,
			MaxPrice:           domain.DefaultMaxPrice,
		},
		Content: ContentConfig{
			APIKeyEnv:      secret.DefaultEnvVar,
			BaseURL:        domain.DefaultBaseURL,
			TimeoutSeconds: int(domain.DefaultTimeout / time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for valyu.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "valyu.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".valyu", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SearchSettings converts the search section into a validated adapter config.
func (c *Config) SearchSettings() (domain.SearchConfig, error) {
	s := c.Search
	timeout, err := validate.Seconds("timeout", s.TimeoutSeconds)
	if err != nil {
		return domain.SearchConfig{}, err
	}
	return validate.Search(domain.SearchConfig{
		APIKey:             credential(s.APIKeyEnv),
		BaseURL:            s.BaseURL,
		TopK:               s.TopK,
		SearchType:         domain.SearchType(s.SearchType),
		RelevanceThreshold: s.RelevanceThreshold,
		MaxPrice:           s.MaxPrice,
		Timeout:            timeout,
	})
}

// ContentSettings converts the content section into a validated adapter config.
func (c *Config) ContentSettings() (domain.ContentConfig, error) {
	s := c.Content

	timeout, err := validate.Seconds("timeout", s.TimeoutSeconds)
	if err != nil {
		return domain.ContentConfig{}, err
	}
	length, err := validate.ParseResponseLength(s.ResponseLength)
	if err != nil {
		return domain.ContentConfig{}, err
	}
	summary, err := validate.ParseSummary(s.Summary)
	if err != nil {
		return domain.ContentConfig{}, err
	}

	return validate.Content(domain.ContentConfig{
		APIKey:         credential(s.APIKeyEnv),
		BaseURL:        s.BaseURL,
		Timeout:        timeout,
		ExtractEffort:  domain.ExtractEffort(s.ExtractEffort),
		ResponseLength: length,
		Summary:        summary,
	})
}

func credential(envVar string) secret.Credential {
	if envVar == "" {
		return secret.FromEnvVar(secret.DefaultEnvVar)
	}
	return secret.FromEnvVar(envVar)
}
