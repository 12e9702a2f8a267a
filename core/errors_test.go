package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestProviderErrorMessage(t *testing.T) {
	err := &ProviderError{
		Provider:  ProviderOpenAI,
		Kind:      KindAuth,
		Status:    401,
		RequestID: "req_123",
		Code:      "invalid_api_key",
		Message:   "Invalid API key provided",
		Err:       ErrAuth,
	}

	got := err.Error()
	for _, want := range []string{"openai", "401", "req_123", "invalid_api_key", "kind=auth"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, should contain %q", got, want)
		}
	}
}

func TestProviderErrorNetworkShowsURL(t *testing.T) {
	err := &ProviderError{
		Provider: ProviderCustom,
		Kind:     KindNetwork,
		Message:  "connection refused",
		URL:      "http://localhost:9999/v1/models",
		Err:      ErrNetwork,
	}
	if !strings.Contains(err.Error(), "http://localhost:9999/v1/models") {
		t.Errorf("Error() = %q, should contain the URL", err.Error())
	}
}

func TestNewProviderErrorWrapsSentinel(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			err := NewProviderError(ProviderAnthropic, kind, 0, "", "")
			if !errors.Is(err, kind.Sentinel()) {
				t.Errorf("error should wrap %v", kind.Sentinel())
			}
			if err.Message == "" {
				t.Error("empty message should fall back to the template")
			}
			if got := KindOf(err); got != kind {
				t.Errorf("KindOf() = %q, want %q", got, kind)
			}
		})
	}
}

func TestKindTemplatesMentionProvider(t *testing.T) {
	for _, kind := range Kinds() {
		msg := kind.Describe("Gemini")
		if !strings.Contains(msg, "Gemini") {
			t.Errorf("Describe(%q) = %q, should name the provider", kind, msg)
		}
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"provider error", NewProviderError(ProviderGemini, KindRateLimit, 429, "", ""), KindRateLimit},
		{"wrapped provider error", fmt.Errorf("generate: %w", NewProviderError(ProviderGemini, KindContentFilter, 200, "", "")), KindContentFilter},
		{"bare sentinel", ErrEmptyContent, KindEmptyContent},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"unclassified", errors.New("boom"), KindUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsFallbackEligible(t *testing.T) {
	fallback := NewProviderError(ProviderSandbox, KindRateLimit, 429, "", "")
	fallback.Fallback = true

	if !IsFallbackEligible(fmt.Errorf("wrapped: %w", fallback)) {
		t.Error("wrapped fallback error should be eligible")
	}
	if IsFallbackEligible(NewProviderError(ProviderOpenAI, KindRateLimit, 429, "", "")) {
		t.Error("plain provider error should not be eligible")
	}
	if IsFallbackEligible(errors.New("boom")) {
		t.Error("unclassified error should not be eligible")
	}
}

func TestUnknownKindSentinel(t *testing.T) {
	if ErrorKind("bogus").Sentinel() != ErrUnknownProvider {
		t.Error("unrecognized kind should map to ErrUnknownProvider")
	}
}
