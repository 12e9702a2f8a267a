// Package openai implements the OpenAI-compatible chat completions adapter.
//
// The same wire format serves OpenAI, OpenRouter, and any custom endpoint, so
// the adapter takes its provider identity from the request rather than
// hard-coding it. Errors are labelled with req.Provider.
package openai

import (
	"context"
	"net/http"

	"github.com/petal-labs/voiceprint/core"
)

// OpenAI is the chat completions adapter. It is safe for concurrent use.
type OpenAI struct {
	config Config
}

// New creates an adapter with the given options.
func New(opts ...Option) *OpenAI {
	cfg := Config{
		HTTPClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &OpenAI{config: cfg}
}

// Send issues one chat completions call and returns the assistant text.
func (p *OpenAI) Send(ctx context.Context, req *core.Request) (string, error) {
	return p.doChat(ctx, req)
}

// buildHeaders constructs the HTTP headers for an API request.
// The Authorization header is omitted when no credential is present,
// which is what local servers without auth expect.
func (p *OpenAI) buildHeaders(credential core.Secret) http.Header {
	headers := make(http.Header)

	headers.Set("Content-Type", "application/json")
	if !credential.IsEmpty() {
		headers.Set("Authorization", "Bearer "+credential.Expose())
	}

	if p.config.OrgID != "" {
		headers.Set("OpenAI-Organization", p.config.OrgID)
	}

	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// Compile-time check that OpenAI implements Sender.
var _ core.Sender = (*OpenAI)(nil)
