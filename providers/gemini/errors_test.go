package gemini

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/petal-labs/voiceprint/core"
)

// geminiErrorResponse represents a Gemini API error response.
type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func errorBody(code int, status, msg string) []byte {
	var resp geminiErrorResponse
	resp.Error.Code = code
	resp.Error.Status = status
	resp.Error.Message = msg
	b, _ := json.Marshal(resp)
	return b
}

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		rpc    string
		msg    string
		want   core.ErrorKind
	}{
		{"bad key", 400, "INVALID_ARGUMENT", "API key not valid. Please pass a valid API key.", core.KindAuth},
		{"quota", 429, "RESOURCE_EXHAUSTED", "Quota exceeded for metric", core.KindRateLimit},
		{"denied", 403, "PERMISSION_DENIED", "Method doesn't allow unregistered callers", core.KindAuth},
		{"model", 404, "NOT_FOUND", "models/gemini-9 is not found for API version v1beta", core.KindModelNotFound},
		{"unavailable", 503, "UNAVAILABLE", "The model is overloaded. Please try again later.", core.KindServiceUnavailable},
		{"deadline", 504, "DEADLINE_EXCEEDED", "Deadline expired before operation could complete.", core.KindTimeout},
		{"other bad argument", 400, "INVALID_ARGUMENT", "Invalid JSON payload received.", core.KindUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := normalizeError(tt.status, errorBody(tt.status, tt.rpc, tt.msg))

			var pErr *core.ProviderError
			if !errors.As(err, &pErr) {
				t.Fatal("expected ProviderError")
			}
			if pErr.Kind != tt.want {
				t.Errorf("Kind = %q, want %q", pErr.Kind, tt.want)
			}
			if !errors.Is(err, tt.want.Sentinel()) {
				t.Errorf("error should wrap %v", tt.want.Sentinel())
			}
		})
	}
}
