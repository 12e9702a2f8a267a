// Package config handles CLI configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/providers"
)

// DefaultTimeout bounds each dispatch when the config does not.
const DefaultTimeout = 120 * time.Second

// Config represents the CLI configuration file.
type Config struct {
	DefaultProvider string                      `yaml:"default_provider"`
	DefaultModel    string                      `yaml:"default_model"`
	Timeout         time.Duration               `yaml:"timeout"`
	MaxRetries      int                         `yaml:"max_retries"`
	LogLevel        string                      `yaml:"log_level"`
	LogFormat       string                      `yaml:"log_format"`
	Providers       map[string]ProviderSettings `yaml:"providers"`
	Server          ServerSettings              `yaml:"server"`
}

// ProviderSettings overrides catalog defaults for one provider.
type ProviderSettings struct {
	BaseURL   string `yaml:"base_url,omitempty"`
	Model     string `yaml:"model,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`

	// Anthropic only.
	MaxTokens  int    `yaml:"max_tokens,omitempty"`
	APIVersion string `yaml:"api_version,omitempty"`

	// OpenAI only.
	OrgID string `yaml:"org_id,omitempty"`
}

// ServerSettings configures `voiceprint serve`.
type ServerSettings struct {
	ListenAddress string        `yaml:"listen_address"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
}

// DefaultConfigPath returns the default configuration file path for the current platform.
// - macOS/Linux: ~/.voiceprint/config.yaml
// - Windows: %USERPROFILE%\.voiceprint\config.yaml
func DefaultConfigPath() string {
	var homeDir string
	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		return "config.yaml"
	}
	return filepath.Join(homeDir, ".voiceprint", "config.yaml")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultProvider: string(core.ProviderSandbox),
		Timeout:         DefaultTimeout,
		LogLevel:        "info",
		LogFormat:       "console",
		Providers:       make(map[string]ProviderSettings),
	}
}

// LoadConfig loads configuration from path. A missing file yields Default.
// Returns an error only if the file exists but cannot be read, parsed or validated.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderSettings)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects provider names outside the catalog and negative limits.
func (c *Config) Validate() error {
	if c.DefaultProvider != "" && !providers.Known(core.ProviderID(c.DefaultProvider)) {
		return fmt.Errorf("unknown default_provider %q", c.DefaultProvider)
	}
	for id, ps := range c.Providers {
		if !providers.Known(core.ProviderID(id)) {
			return fmt.Errorf("unknown provider %q in providers section", id)
		}
		if ps.MaxTokens < 0 {
			return fmt.Errorf("providers.%s.max_tokens must not be negative", id)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	return nil
}

// Provider returns the settings for id, or zero settings when unset.
func (c *Config) Provider(id core.ProviderID) ProviderSettings {
	if c.Providers == nil {
		return ProviderSettings{}
	}
	if ps, ok := c.Providers[string(id)]; ok {
		return ps
	}
	return ProviderSettings{}
}
