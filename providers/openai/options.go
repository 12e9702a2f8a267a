package openai

import (
	"net/http"
)

// Config holds configuration for the OpenAI-compatible adapter.
// Base URL, model and credential come from each core.Request.
type Config struct {
	// HTTPClient is the HTTP client to use. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// OrgID is the optional OpenAI organization ID.
	OrgID string

	// Headers contains optional extra headers to include in requests.
	Headers http.Header
}

// Option configures the adapter.
type Option func(*Config)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithOrgID sets the OpenAI organization ID header.
func WithOrgID(org string) Option {
	return func(c *Config) {
		c.OrgID = org
	}
}

// WithHeader adds an extra header to include in requests.
// OpenRouter uses this for its HTTP-Referer and X-Title attribution headers.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}
