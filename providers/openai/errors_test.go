package openai

import (
	"errors"
	"testing"

	"github.com/petal-labs/voiceprint/core"
)

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"invalid key", 401, `{"error":{"message":"Incorrect API key provided","code":"invalid_api_key"}}`, core.ErrAuth},
		{"forbidden", 403, `{"error":{"message":"Access denied"}}`, core.ErrAuth},
		{"quota", 429, `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota"}}`, core.ErrRateLimited},
		{"unknown model", 404, `{"error":{"message":"The model gpt-9 does not exist","code":"model_not_found"}}`, core.ErrModelNotFound},
		{"context", 400, `{"error":{"message":"maximum context length is 128000 tokens","code":"context_length_exceeded"}}`, core.ErrContextLength},
		{"overloaded", 503, `{"error":{"message":"The server is overloaded"}}`, core.ErrServiceUnavailable},
		{"bad gateway", 502, `<html>bad gateway</html>`, core.ErrServiceUnavailable},
		{"other", 500, `{"error":{"message":"oops"}}`, core.ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := normalizeError(core.ProviderOpenAI, tt.status, []byte(tt.body), "req-1")

			var pErr *core.ProviderError
			if !errors.As(err, &pErr) {
				t.Fatal("expected ProviderError")
			}
			if pErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", pErr.Status, tt.status)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want wrap of %v", err, tt.want)
			}
		})
	}
}
