// Package normalize provides the error classification shared by every provider adapter.
package normalize

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/providers"
)

// Envelope holds the fields adapters care about from a provider error body.
// Providers disagree on the layout, so each field is read from several paths.
type Envelope struct {
	Message string
	Code    string
	Type    string
	Status  string
}

// ParseEnvelope extracts an Envelope from body. Unknown or invalid bodies
// produce an empty Envelope.
func ParseEnvelope(body []byte) Envelope {
	if !gjson.ValidBytes(body) {
		return Envelope{Message: strings.TrimSpace(string(body))}
	}

	var env Envelope
	errField := gjson.GetBytes(body, "error")
	switch {
	case errField.Type == gjson.String:
		// Ollama and several self-hosted servers: {"error":"..."}
		env.Message = errField.String()
	case errField.IsObject():
		env.Message = errField.Get("message").String()
		env.Code = errField.Get("code").String()
		env.Type = errField.Get("type").String()
		env.Status = errField.Get("status").String()
	}

	if env.Message == "" {
		env.Message = firstString(body, "message", "detail", "error_description")
	}
	if env.Type == "" {
		env.Type = gjson.GetBytes(body, "type").String()
	}
	return env
}

func firstString(body []byte, paths ...string) string {
	for _, p := range paths {
		if v := gjson.GetBytes(body, p); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func (e Envelope) haystack() string {
	return strings.ToLower(strings.Join([]string{e.Message, e.Code, e.Type, e.Status}, " "))
}

// Signal maps a set of case-insensitive substrings to a kind. Every substring
// in All must be present for the signal to match.
type Signal struct {
	All  []string
	Kind core.ErrorKind
}

func sig(kind core.ErrorKind, all ...string) Signal {
	return Signal{All: all, Kind: kind}
}

// SharedSignals is the message vocabulary every adapter recognises. Order matters:
// the first matching signal wins.
var SharedSignals = []Signal{
	sig(core.KindAuth, "invalid_api_key"),
	sig(core.KindAuth, "invalid x-api-key"),
	sig(core.KindAuth, "api key not valid"),
	sig(core.KindAuth, "incorrect api key"),
	sig(core.KindAuth, "unauthenticated"),
	sig(core.KindAuth, "permission_denied"),
	sig(core.KindAuth, "authentication_error"),
	sig(core.KindAuth, "permission_error"),

	sig(core.KindContextLength, "context_length_exceeded"),
	sig(core.KindContextLength, "maximum context length"),
	sig(core.KindContextLength, "too long"),
	sig(core.KindContextLength, "max_tokens"),

	sig(core.KindContentFilter, "content_filter"),
	sig(core.KindContentFilter, "content_policy"),
	sig(core.KindContentFilter, "flagged"),
	sig(core.KindContentFilter, "moderation"),
	sig(core.KindContentFilter, "safety"),
	sig(core.KindContentFilter, "blocked"),

	sig(core.KindModelNotFound, "model_not_found"),
	sig(core.KindModelNotFound, "not_found_error"),
	sig(core.KindModelNotFound, "does not exist"),
	sig(core.KindModelNotFound, "invalid model"),
	sig(core.KindModelNotFound, "model", "not found"),

	sig(core.KindRateLimit, "insufficient_quota"),
	sig(core.KindRateLimit, "resource_exhausted"),
	sig(core.KindRateLimit, "rate_limit"),
	sig(core.KindRateLimit, "rate limit"),
	sig(core.KindRateLimit, "quota"),

	sig(core.KindServiceUnavailable, "overloaded"),
	sig(core.KindServiceUnavailable, "unavailable"),

	sig(core.KindTimeout, "timeout"),
	sig(core.KindTimeout, "timed out"),
	sig(core.KindTimeout, "deadline"),
}

// MatchSignal returns the kind of the first signal in signals found in text.
func MatchSignal(text string, signals []Signal) (core.ErrorKind, bool) {
	text = strings.ToLower(text)
	for _, s := range signals {
		if len(s.All) == 0 {
			continue
		}
		matched := true
		for _, sub := range s.All {
			if !strings.Contains(text, sub) {
				matched = false
				break
			}
		}
		if matched {
			return s.Kind, true
		}
	}
	return "", false
}

// KindForStatus maps an HTTP status code to an ErrorKind.
func KindForStatus(status int) core.ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return core.KindAuth
	case http.StatusTooManyRequests:
		return core.KindRateLimit
	case http.StatusNotFound:
		return core.KindModelNotFound
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return core.KindTimeout
	case http.StatusBadGateway, http.StatusServiceUnavailable, 529:
		return core.KindServiceUnavailable
	case http.StatusRequestEntityTooLarge:
		return core.KindContextLength
	default:
		return core.KindUnknownProvider
	}
}

// Classifier turns failed provider responses into *core.ProviderError values.
// Signals are checked before SharedSignals; both are checked before the status code.
type Classifier struct {
	Provider core.ProviderID
	Signals  []Signal
}

// Classify picks the ErrorKind for a failed response.
func (c Classifier) Classify(status int, env Envelope) core.ErrorKind {
	text := env.haystack()
	if kind, ok := MatchSignal(text, c.Signals); ok {
		return kind
	}
	if kind, ok := MatchSignal(text, SharedSignals); ok {
		return kind
	}
	return KindForStatus(status)
}

// HTTPError classifies a non-2xx response body.
func (c Classifier) HTTPError(status int, body []byte, requestID string) *core.ProviderError {
	env := ParseEnvelope(body)
	kind := c.Classify(status, env)

	code := env.Code
	if code == "" {
		code = env.Type
	}
	if code == "" {
		code = env.Status
	}

	detail := env.Message
	if detail == "" {
		detail = http.StatusText(status)
	}

	pe := core.NewProviderError(c.Provider, kind, status, code, Message(c.Provider, kind, detail))
	pe.RequestID = requestID
	return pe
}

// Message renders the kind's template for provider, followed by the provider's
// own wording when there is any.
func Message(provider core.ProviderID, kind core.ErrorKind, detail string) string {
	msg := kind.Describe(providers.Lookup(provider).Label)
	if detail = strings.TrimSpace(detail); detail != "" {
		msg += " (" + detail + ")"
	}
	return msg
}

// NetworkError wraps a transport failure against url.
// Caller cancellation is returned unchanged; deadline expiry becomes a timeout.
func NetworkError(provider core.ProviderID, url string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	kind := core.KindNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = core.KindTimeout
	}

	msg := kind.Describe(providers.Lookup(provider).Label)
	if kind == core.KindNetwork {
		msg += " Failed to reach " + url + ": " + err.Error()
	}
	return &core.ProviderError{
		Provider: provider,
		Kind:     kind,
		Message:  msg,
		URL:      url,
		Err:      errors.Join(kind.Sentinel(), err),
	}
}

// EmptyContent reports a successful response that carried no text.
func EmptyContent(provider core.ProviderID, requestID string) *core.ProviderError {
	pe := core.NewProviderError(provider, core.KindEmptyContent, http.StatusOK, "", "")
	pe.RequestID = requestID
	return pe
}

// DecodeError reports a successful status whose body could not be decoded.
func DecodeError(provider core.ProviderID, err error) error {
	return &core.ProviderError{
		Provider: provider,
		Kind:     core.KindUnknownProvider,
		Status:   http.StatusOK,
		Message:  Message(provider, core.KindUnknownProvider, "decode response: "+err.Error()),
		Err:      errors.Join(core.ErrUnknownProvider, err),
	}
}

// RequestID returns the first request identifier header a provider set.
func RequestID(h http.Header) string {
	for _, key := range []string{"x-request-id", "request-id", "x-goog-request-id", "cf-ray"} {
		if v := h.Get(key); v != "" {
			return v
		}
	}
	return ""
}
