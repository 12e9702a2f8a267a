package anthropic

import (
	"net/http"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/providers/internal/normalize"
)

// signals maps Anthropic error.type values; they are checked before the shared vocabulary.
var signals = []normalize.Signal{
	{All: []string{"authentication_error"}, Kind: core.KindAuth},
	{All: []string{"permission_error"}, Kind: core.KindAuth},
	{All: []string{"rate_limit_error"}, Kind: core.KindRateLimit},
	{All: []string{"overloaded_error"}, Kind: core.KindServiceUnavailable},
	{All: []string{"api_error"}, Kind: core.KindServiceUnavailable},
	{All: []string{"not_found_error"}, Kind: core.KindModelNotFound},
	{All: []string{"invalid_request_error", "prompt is too long"}, Kind: core.KindContextLength},
	{All: []string{"request_too_large"}, Kind: core.KindContextLength},
}

var classifier = normalize.Classifier{Provider: core.ProviderAnthropic, Signals: signals}

// normalizeError converts an HTTP error response to a classified ProviderError.
func normalizeError(status int, body []byte, requestID string) error {
	return classifier.HTTPError(status, body, requestID)
}

// newNetworkError creates a ProviderError for transport failures against url.
func newNetworkError(url string, err error) error {
	return normalize.NetworkError(core.ProviderAnthropic, url, err)
}

// newDecodeError creates a ProviderError for JSON decode failures.
func newDecodeError(err error) error {
	return normalize.DecodeError(core.ProviderAnthropic, err)
}

func newEmptyContentError(requestID string) error {
	return normalize.EmptyContent(core.ProviderAnthropic, requestID)
}

func newRefusalError(requestID string) error {
	pe := core.NewProviderError(core.ProviderAnthropic, core.KindContentFilter, http.StatusOK, "refusal",
		normalize.Message(core.ProviderAnthropic, core.KindContentFilter, ""))
	pe.RequestID = requestID
	return pe
}
