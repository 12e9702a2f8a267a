package openai

import (
	"net/http"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/providers/internal/normalize"
)

// normalizeError converts an HTTP error response to a classified ProviderError.
func normalizeError(provider core.ProviderID, status int, body []byte, requestID string) error {
	return normalize.Classifier{Provider: provider}.HTTPError(status, body, requestID)
}

// newNetworkError creates a ProviderError for transport failures against url.
func newNetworkError(provider core.ProviderID, url string, err error) error {
	return normalize.NetworkError(provider, url, err)
}

// newDecodeError creates a ProviderError for JSON encode/decode failures.
func newDecodeError(provider core.ProviderID, err error) error {
	return normalize.DecodeError(provider, err)
}

func newEmptyContentError(provider core.ProviderID, requestID string) error {
	return normalize.EmptyContent(provider, requestID)
}

func newContentFilterError(provider core.ProviderID, requestID string) error {
	pe := core.NewProviderError(provider, core.KindContentFilter, http.StatusOK, "content_filter",
		normalize.Message(provider, core.KindContentFilter, ""))
	pe.RequestID = requestID
	return pe
}

func requestIDFrom(h http.Header) string {
	return normalize.RequestID(h)
}
