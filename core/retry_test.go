package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoRetry(t *testing.T) {
	if _, ok := NoRetry().NextDelay(0, ErrNetwork); ok {
		t.Error("NoRetry should never retry")
	}
	if _, ok := NewRetryPolicy(RetryConfig{MaxRetries: -1}).NextDelay(0, ErrNetwork); ok {
		t.Error("negative MaxRetries should never retry")
	}
}

func TestIsRetryable(t *testing.T) {
	fallback := NewProviderError(ProviderSandbox, KindServiceUnavailable, 503, "", "")
	fallback.Fallback = true

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", NewProviderError(ProviderOpenAI, KindRateLimit, 429, "", ""), true},
		{"unavailable", NewProviderError(ProviderOpenAI, KindServiceUnavailable, 503, "", ""), true},
		{"network", NewProviderError(ProviderOllama, KindNetwork, 0, "", ""), true},
		{"timeout", NewProviderError(ProviderGemini, KindTimeout, 0, "", ""), true},
		{"auth", NewProviderError(ProviderOpenAI, KindAuth, 401, "", ""), false},
		{"content filter", NewProviderError(ProviderGemini, KindContentFilter, 200, "", ""), false},
		{"empty content", ErrEmptyContent, false},
		{"fallback eligible", fallback, false},
		{"canceled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRetryPolicyMaxRetries(t *testing.T) {
	policy := NewRetryPolicy(RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, Jitter: 0})
	err := NewProviderError(ProviderOpenAI, KindRateLimit, 429, "", "")

	for attempt := 0; attempt < 2; attempt++ {
		if _, ok := policy.NextDelay(attempt, err); !ok {
			t.Errorf("attempt %d should retry", attempt)
		}
	}
	if _, ok := policy.NextDelay(2, err); ok {
		t.Error("attempt 2 should not retry")
	}
}

func TestRetryPolicyBackoffCapped(t *testing.T) {
	policy := NewRetryPolicy(RetryConfig{
		MaxRetries: 10,
		BaseDelay:  time.Second,
		MaxDelay:   3 * time.Second,
		Jitter:     0,
	})
	delay, ok := policy.NextDelay(5, ErrNetwork)
	if !ok {
		t.Fatal("expected retry")
	}
	if delay != 3*time.Second {
		t.Errorf("delay = %v, want 3s", delay)
	}
}

func TestRetryStopsOnSuccess(t *testing.T) {
	policy := NewRetryPolicy(RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, Jitter: 0})
	calls := 0

	got, err := Retry(context.Background(), policy, func(context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", NewProviderError(ProviderOpenAI, KindServiceUnavailable, 503, "", "")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if got != "ok" || calls != 2 {
		t.Errorf("Retry() = %q after %d calls, want ok after 2", got, calls)
	}
}

func TestRetryNilPolicyRunsOnce(t *testing.T) {
	calls := 0
	wantErr := NewProviderError(ProviderOpenAI, KindNetwork, 0, "", "")

	_, err := Retry(context.Background(), nil, func(context.Context) (string, error) {
		calls++
		return "", wantErr
	})
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Retry() error = %v, want network error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
