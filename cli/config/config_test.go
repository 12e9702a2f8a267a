package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/petal-labs/voiceprint/core"
)

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("DefaultConfigPath() = %q, should end with config.yaml", path)
	}
	if os.Getenv("HOME") != "" || os.Getenv("USERPROFILE") != "" {
		if filepath.Base(filepath.Dir(path)) != ".voiceprint" {
			t.Errorf("DefaultConfigPath() = %q, should be in .voiceprint directory", path)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil for missing file", err)
	}
	if cfg.DefaultProvider != "sandbox" {
		t.Errorf("DefaultProvider = %q, want sandbox", cfg.DefaultProvider)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.Providers == nil {
		t.Error("Providers map should be initialized")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigValid(t *testing.T) {
	path := writeConfig(t, `
default_provider: ollama
default_model: llama3.2:3b
timeout: 45s
max_retries: 2
log_format: json
providers:
  ollama:
    base_url: http://gpu-box:11434/v1
  openai:
    api_key_env: WORK_OPENAI_KEY
    org_id: org-7
  anthropic:
    max_tokens: 8000
server:
  listen_address: 0.0.0.0:9000
  write_timeout: 10m
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DefaultProvider != "ollama" || cfg.DefaultModel != "llama3.2:3b" {
		t.Errorf("defaults = %q/%q", cfg.DefaultProvider, cfg.DefaultModel)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", cfg.Timeout)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", cfg.MaxRetries)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.LogLevel)
	}
	if got := cfg.Provider(core.ProviderOllama).BaseURL; got != "http://gpu-box:11434/v1" {
		t.Errorf("ollama base_url = %q", got)
	}
	if got := cfg.Provider(core.ProviderOpenAI).APIKeyEnv; got != "WORK_OPENAI_KEY" {
		t.Errorf("openai api_key_env = %q", got)
	}
	if got := cfg.Provider(core.ProviderOpenAI).OrgID; got != "org-7" {
		t.Errorf("openai org_id = %q", got)
	}
	if got := cfg.Provider(core.ProviderAnthropic).MaxTokens; got != 8000 {
		t.Errorf("anthropic max_tokens = %d", got)
	}
	if got := cfg.Provider(core.ProviderGemini); got != (ProviderSettings{}) {
		t.Errorf("gemini settings = %+v, want zero", got)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9000" || cfg.Server.WriteTimeout != 10*time.Minute {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"yaml", "default_provider: [unclosed", "parse"},
		{"provider", "default_provider: skynet", "unknown default_provider"},
		{"providers section", "providers:\n  skynet:\n    base_url: x", "unknown provider"},
		{"timeout", "timeout: -5s", "timeout"},
		{"retries", "max_retries: -1", "max_retries"},
		{"max tokens", "providers:\n  anthropic:\n    max_tokens: -1", "max_tokens"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("LoadConfig() error = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}
