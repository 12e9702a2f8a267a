package anthropic

import (
	"net/http"
)

// Config holds configuration for the Anthropic adapter.
type Config struct {
	// HTTPClient is the HTTP client to use. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Version is the Anthropic API version. Defaults to 2023-06-01.
	Version string

	// MaxTokens is sent as max_tokens, which the Messages API requires.
	MaxTokens int

	// Headers contains optional extra headers to include in requests.
	Headers http.Header
}

// DefaultVersion is the default Anthropic API version.
const DefaultVersion = "2023-06-01"

// DefaultMaxTokens leaves room for long-form generations.
const DefaultMaxTokens = 4096

// Option configures the Anthropic adapter.
type Option func(*Config)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithVersion sets the Anthropic API version.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.Version = version
	}
}

// WithMaxTokens sets the max_tokens value.
func WithMaxTokens(n int) Option {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// WithHeader adds an extra header to include in requests.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}
