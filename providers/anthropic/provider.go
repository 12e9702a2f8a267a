// Package anthropic implements the Anthropic Messages API adapter.
package anthropic

import (
	"context"
	"net/http"

	"github.com/petal-labs/voiceprint/core"
)

// Anthropic is the Messages API adapter. It is safe for concurrent use.
type Anthropic struct {
	config Config
}

// New creates an adapter with the given options.
func New(opts ...Option) *Anthropic {
	cfg := Config{
		HTTPClient: http.DefaultClient,
		Version:    DefaultVersion,
		MaxTokens:  DefaultMaxTokens,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Anthropic{config: cfg}
}

// Send issues one Messages call and returns the first text block.
func (p *Anthropic) Send(ctx context.Context, req *core.Request) (string, error) {
	return p.doChat(ctx, req)
}

// buildHeaders constructs the HTTP headers for an API request.
// The credential travels in x-api-key, not Authorization.
func (p *Anthropic) buildHeaders(credential core.Secret) http.Header {
	headers := make(http.Header)

	headers.Set("x-api-key", credential.Expose())
	headers.Set("anthropic-version", p.config.Version)
	headers.Set("Content-Type", "application/json")

	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// Compile-time check that Anthropic implements Sender.
var _ core.Sender = (*Anthropic)(nil)
