package gemini

import (
	"net/http"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/providers/internal/normalize"
)

// signals maps google.rpc status names; they are checked before the shared vocabulary.
var signals = []normalize.Signal{
	{All: []string{"invalid_argument", "api key not valid"}, Kind: core.KindAuth},
	{All: []string{"resource_exhausted"}, Kind: core.KindRateLimit},
	{All: []string{"permission_denied"}, Kind: core.KindAuth},
	{All: []string{"unauthenticated"}, Kind: core.KindAuth},
	{All: []string{"deadline_exceeded"}, Kind: core.KindTimeout},
	{All: []string{"not_found", "models/"}, Kind: core.KindModelNotFound},
}

var classifier = normalize.Classifier{Provider: core.ProviderGemini, Signals: signals}

// normalizeError converts an HTTP error response to a classified ProviderError.
func normalizeError(status int, body []byte) error {
	return classifier.HTTPError(status, body, "")
}

// newNetworkError creates a ProviderError for transport failures against url.
func newNetworkError(url string, err error) error {
	return normalize.NetworkError(core.ProviderGemini, url, err)
}

// newDecodeError creates a ProviderError for JSON decode failures.
func newDecodeError(err error) error {
	return normalize.DecodeError(core.ProviderGemini, err)
}

func newEmptyContentError() error {
	return normalize.EmptyContent(core.ProviderGemini, "")
}

// newBlockedError reports a 200 response withheld by safety filtering.
func newBlockedError(reason string) error {
	return core.NewProviderError(core.ProviderGemini, core.KindContentFilter, http.StatusOK, reason,
		normalize.Message(core.ProviderGemini, core.KindContentFilter, "blocked: "+reason))
}
