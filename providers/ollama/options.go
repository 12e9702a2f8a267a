package ollama

import (
	"net/http"
)

// DefaultLocalURL is the default OpenAI-compatible base URL of a local Ollama.
const DefaultLocalURL = "http://localhost:11434/v1"

// Config holds the configuration for the Ollama adapter.
type Config struct {
	// HTTPClient is the HTTP client to use for requests.
	// Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Headers contains additional HTTP headers to include in requests.
	Headers http.Header
}

// Option is a function that configures the Ollama adapter.
type Option func(*Config)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithHeader adds a custom header to all requests.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}
