package core

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure classes every adapter maps to.
type ErrorKind string

const (
	KindAuth               ErrorKind = "auth"
	KindRateLimit          ErrorKind = "rate_limit"
	KindContentFilter      ErrorKind = "content_filter"
	KindContextLength      ErrorKind = "context_length"
	KindModelNotFound      ErrorKind = "model_not_found"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindTimeout            ErrorKind = "timeout"
	KindNetwork            ErrorKind = "network"
	KindEmptyContent       ErrorKind = "empty_content"
	KindUnknownProvider    ErrorKind = "unknown_provider"
	KindProfileParse       ErrorKind = "profile_parse"
)

// Sentinel errors for classification. Every ProviderError wraps exactly one.
var (
	ErrAuth               = errors.New("authentication failed")
	ErrRateLimited        = errors.New("rate limited")
	ErrContentFiltered    = errors.New("content filtered")
	ErrContextLength      = errors.New("context length exceeded")
	ErrModelNotFound      = errors.New("model not found")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("request timed out")
	ErrNetwork            = errors.New("network error")
	ErrEmptyContent       = errors.New("empty content")
	ErrUnknownProvider    = errors.New("unknown provider error")
	ErrProfileParse       = errors.New("profile parse error")
)

// Validation errors with actionable guidance. These are returned before any I/O.
var (
	ErrSystemMessageRequired = errors.New("system message required: every request carries a system prompt")
	ErrUserMessageRequired   = errors.New("user message required: every request carries a user prompt")
	ErrBaseURLRequired       = errors.New("base URL required: the custom provider has no default endpoint")
)

var kindSentinels = map[ErrorKind]error{
	KindAuth:               ErrAuth,
	KindRateLimit:          ErrRateLimited,
	KindContentFilter:      ErrContentFiltered,
	KindContextLength:      ErrContextLength,
	KindModelNotFound:      ErrModelNotFound,
	KindServiceUnavailable: ErrServiceUnavailable,
	KindTimeout:            ErrTimeout,
	KindNetwork:            ErrNetwork,
	KindEmptyContent:       ErrEmptyContent,
	KindUnknownProvider:    ErrUnknownProvider,
	KindProfileParse:       ErrProfileParse,
}

var kindTemplates = map[ErrorKind]string{
	KindAuth:               "Authentication failed for %s. Check that your API key is valid and has not expired.",
	KindRateLimit:          "Rate limit or quota reached on %s. Wait a moment or check your plan's usage limits.",
	KindContentFilter:      "%s declined the request because of its content policy. Rephrase the prompt or samples.",
	KindContextLength:      "The request is too long for the selected %s model. Shorten the samples or prompt.",
	KindModelNotFound:      "The requested model is not available on %s. Check the model name.",
	KindServiceUnavailable: "%s is temporarily unavailable or overloaded. Try again shortly.",
	KindTimeout:            "%s did not answer in time. Try again or raise the timeout.",
	KindNetwork:            "Could not reach %s. Check the URL, your connection, and any proxy or CORS settings.",
	KindEmptyContent:       "%s returned a response with no text.",
	KindUnknownProvider:    "%s returned an unexpected error.",
	KindProfileParse:       "The style analysis from %s could not be read as a profile.",
}

// Kinds returns every ErrorKind in declaration order.
func Kinds() []ErrorKind {
	return []ErrorKind{
		KindAuth, KindRateLimit, KindContentFilter, KindContextLength, KindModelNotFound,
		KindServiceUnavailable, KindTimeout, KindNetwork, KindEmptyContent,
		KindUnknownProvider, KindProfileParse,
	}
}

// Sentinel returns the sentinel error for the kind.
// Unrecognized kinds map to ErrUnknownProvider.
func (k ErrorKind) Sentinel() error {
	if s, ok := kindSentinels[k]; ok {
		return s
	}
	return ErrUnknownProvider
}

// Template returns the human-readable message template for the kind.
// The single %s verb receives the provider label.
func (k ErrorKind) Template() string {
	if t, ok := kindTemplates[k]; ok {
		return t
	}
	return kindTemplates[KindUnknownProvider]
}

// Describe renders the kind's template for a provider label.
func (k ErrorKind) Describe(label string) string {
	return fmt.Sprintf(k.Template(), label)
}

// ProviderError represents a classified error returned by a provider with full context.
type ProviderError struct {
	Provider  ProviderID
	Kind      ErrorKind
	Status    int
	RequestID string
	Code      string
	Message   string

	// URL is set for network failures so the caller can show which endpoint failed.
	URL string

	// Fallback marks errors for which the caller should offer a provider switch.
	Fallback bool

	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s: %s (kind=%s, status=%d, code=%s, request_id=%s)",
			e.Provider, e.Message, e.Kind, e.Status, e.Code, e.RequestID)
	}
	if e.URL != "" {
		return fmt.Sprintf("%s: %s (kind=%s, url=%s)", e.Provider, e.Message, e.Kind, e.URL)
	}
	return fmt.Sprintf("%s: %s (kind=%s, status=%d, code=%s)",
		e.Provider, e.Message, e.Kind, e.Status, e.Code)
}

// Unwrap returns the underlying error for error chaining.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a ProviderError for kind, wrapping the kind's sentinel.
// An empty message falls back to the kind's template.
func NewProviderError(provider ProviderID, kind ErrorKind, status int, code, message string) *ProviderError {
	if message == "" {
		message = kind.Describe(string(provider))
	}
	return &ProviderError{
		Provider: provider,
		Kind:     kind,
		Status:   status,
		Code:     code,
		Message:  message,
		Err:      kind.Sentinel(),
	}
}

// KindOf extracts the ErrorKind from an error chain.
// Context expiry maps to KindTimeout. Errors that carry no classification map to
// KindUnknownProvider, and nil maps to the empty kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Kind != "" {
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	for _, k := range Kinds() {
		if errors.Is(err, k.Sentinel()) {
			return k
		}
	}
	return KindUnknownProvider
}

// IsFallbackEligible reports whether err suggests switching providers rather than retrying.
func IsFallbackEligible(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Fallback
	}
	return false
}
