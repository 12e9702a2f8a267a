// Package gemini implements the Google generateContent adapter.
//
// The credential travels as the key query parameter and the model is part of
// the request path, so neither appears in the JSON body.
package gemini

import (
	"context"
	"net/http"

	"github.com/petal-labs/voiceprint/core"
)

// Gemini is the generateContent adapter. It is safe for concurrent use.
type Gemini struct {
	config Config
}

// New creates an adapter with the given options.
func New(opts ...Option) *Gemini {
	cfg := Config{
		HTTPClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Gemini{config: cfg}
}

// Send issues one generateContent call and returns the first candidate's text.
func (p *Gemini) Send(ctx context.Context, req *core.Request) (string, error) {
	return p.doChat(ctx, req)
}

// buildHeaders constructs the HTTP headers for an API request.
func (p *Gemini) buildHeaders() http.Header {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")

	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// Compile-time check that Gemini implements Sender.
var _ core.Sender = (*Gemini)(nil)
