// Package core provides the canonical request, error taxonomy and shared
// contracts used by every voiceprint provider adapter.
package core

import (
	"context"
	"strings"
	"time"
)

// ProviderID identifies a provider family. The set is closed; see ProviderIDs.
type ProviderID string

const (
	// ProviderSandbox is the zero-configuration provider and the default choice.
	ProviderSandbox    ProviderID = "sandbox"
	ProviderOllama     ProviderID = "ollama"
	ProviderOpenAI     ProviderID = "openai"
	ProviderAnthropic  ProviderID = "anthropic"
	ProviderGemini     ProviderID = "gemini"
	ProviderOpenRouter ProviderID = "openrouter"
	ProviderCustom     ProviderID = "custom"
)

// ProviderIDs returns every known provider ID in catalog order.
func ProviderIDs() []ProviderID {
	return []ProviderID{
		ProviderSandbox,
		ProviderOllama,
		ProviderOpenAI,
		ProviderAnthropic,
		ProviderGemini,
		ProviderOpenRouter,
		ProviderCustom,
	}
}

// Valid reports whether id is a member of the closed provider set.
func (id ProviderID) Valid() bool {
	for _, known := range ProviderIDs() {
		if id == known {
			return true
		}
	}
	return false
}

// ModelID is a string identifier for a model.
type ModelID string

// Role represents a message participant role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Request is the provider-agnostic chat request consumed by the dispatcher.
// SystemMessage and UserMessage are always present; BaseURL and Model are
// resolved against the provider descriptor before an adapter sees them.
type Request struct {
	Provider      ProviderID
	Credential    Secret
	BaseURL       string
	Model         ModelID
	SystemMessage string
	UserMessage   string

	// Timeout bounds a single dispatch. Zero means no deadline beyond the caller's context.
	Timeout time.Duration
}

// Validate checks the request invariants that hold for every provider.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.SystemMessage) == "" {
		return ErrSystemMessageRequired
	}
	if strings.TrimSpace(r.UserMessage) == "" {
		return ErrUserMessageRequired
	}
	return nil
}

// Clone returns a shallow copy of the request.
func (r *Request) Clone() *Request {
	c := *r
	return &c
}

// NormalizeBaseURL strips surrounding whitespace and every trailing slash.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// Sender is implemented by every provider adapter.
// Send issues exactly one provider call and returns the generated text or a
// classified *ProviderError.
type Sender interface {
	Send(ctx context.Context, req *Request) (string, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, req *Request) (string, error)

// Send calls f(ctx, req).
func (f SenderFunc) Send(ctx context.Context, req *Request) (string, error) {
	return f(ctx, req)
}
