package ollama

import (
	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/providers/internal/normalize"
)

// signals covers Ollama's native error wording.
var signals = []normalize.Signal{
	{All: []string{"try pulling it first"}, Kind: core.KindModelNotFound},
	{All: []string{"model requires more system memory"}, Kind: core.KindServiceUnavailable},
}

var classifier = normalize.Classifier{Provider: core.ProviderOllama, Signals: signals}

// parseErrorResponse classifies a native Ollama error body ({"error":"..."}).
func parseErrorResponse(status int, body []byte) error {
	return classifier.HTTPError(status, body, "")
}

// newNetworkError creates a ProviderError for transport failures against url.
func newNetworkError(url string, err error) error {
	return normalize.NetworkError(core.ProviderOllama, url, err)
}

// newDecodeError creates a ProviderError for JSON decode failures.
func newDecodeError(err error) error {
	return normalize.DecodeError(core.ProviderOllama, err)
}
