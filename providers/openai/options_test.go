package openai

import (
	"net/http"
	"testing"
	"time"
)

func TestWithHTTPClient(t *testing.T) {
	customClient := &http.Client{Timeout: 30 * time.Second}
	cfg := Config{}
	WithHTTPClient(customClient)(&cfg)

	if cfg.HTTPClient != customClient {
		t.Error("HTTPClient not set correctly")
	}
}

func TestWithOrgID(t *testing.T) {
	cfg := Config{}
	WithOrgID("org-12345")(&cfg)

	if cfg.OrgID != "org-12345" {
		t.Errorf("OrgID = %q, want %q", cfg.OrgID, "org-12345")
	}
}

func TestWithHeader(t *testing.T) {
	cfg := Config{}
	WithHeader("HTTP-Referer", "https://voiceprint.local")(&cfg)
	WithHeader("X-Title", "voiceprint")(&cfg)

	if cfg.Headers.Get("HTTP-Referer") != "https://voiceprint.local" {
		t.Errorf("HTTP-Referer = %q", cfg.Headers.Get("HTTP-Referer"))
	}
	if cfg.Headers.Get("X-Title") != "voiceprint" {
		t.Errorf("X-Title = %q", cfg.Headers.Get("X-Title"))
	}
}

func TestNewDefaults(t *testing.T) {
	p := New()
	if p.config.HTTPClient != http.DefaultClient {
		t.Error("default HTTPClient should be http.DefaultClient")
	}
}
