// Package providers holds the static catalog of provider descriptors.
//
// Each provider family is implemented in its own subpackage
// (providers/openai, providers/anthropic, ...). Those adapters only turn a
// resolved core.Request into one wire call; defaults such as the base URL and
// model come from the Descriptor returned by Lookup.
//
// The catalog is fixed at process start and never mutated.
package providers

import (
	"fmt"
	"strings"

	"github.com/petal-labs/voiceprint/core"
)

// Descriptor describes a provider family.
type Descriptor struct {
	ID    core.ProviderID
	Label string

	// BaseURL is the default endpoint. Empty means the caller must supply one.
	BaseURL      string
	DefaultModel core.ModelID

	// KeyEnv is the environment variable conventionally holding the credential.
	KeyEnv string

	// RequiresKey reports whether a credential must be present before dispatch.
	RequiresKey bool

	// Local is set for providers that are expected to run on the user's machine.
	Local bool
}

// HasDefaultBaseURL reports whether the descriptor ships a default endpoint.
func (d Descriptor) HasDefaultBaseURL() bool {
	return d.BaseURL != ""
}

// ResolveBaseURL returns the normalized base URL: the explicit value when
// given, the descriptor default otherwise.
func (d Descriptor) ResolveBaseURL(explicit string) string {
	if u := core.NormalizeBaseURL(explicit); u != "" {
		return u
	}
	return core.NormalizeBaseURL(d.BaseURL)
}

// ResolveModel returns the explicit model when non-empty, the descriptor default otherwise.
func (d Descriptor) ResolveModel(explicit core.ModelID) core.ModelID {
	if m := core.ModelID(strings.TrimSpace(string(explicit))); m != "" {
		return m
	}
	return d.DefaultModel
}

var catalog = []Descriptor{
	{
		ID:           core.ProviderSandbox,
		Label:        "Sandbox (no key needed)",
		BaseURL:      "https://api.puter.com/puterai/openai/v1",
		DefaultModel: "gpt-4o-mini",
		KeyEnv:       "VOICEPRINT_SANDBOX_TOKEN",
	},
	{
		ID:           core.ProviderOllama,
		Label:        "Ollama (local)",
		BaseURL:      "http://localhost:11434/v1",
		DefaultModel: "gpt-oss:20b",
		Local:        true,
	},
	{
		ID:           core.ProviderOpenAI,
		Label:        "OpenAI",
		BaseURL:      "https://api.openai.com/v1",
		DefaultModel: "gpt-4o-mini",
		KeyEnv:       "OPENAI_API_KEY",
		RequiresKey:  true,
	},
	{
		ID:           core.ProviderAnthropic,
		Label:        "Anthropic",
		BaseURL:      "https://api.anthropic.com/v1",
		DefaultModel: "claude-sonnet-4-5",
		KeyEnv:       "ANTHROPIC_API_KEY",
		RequiresKey:  true,
	},
	{
		ID:           core.ProviderGemini,
		Label:        "Google Gemini",
		BaseURL:      "https://generativelanguage.googleapis.com/v1beta",
		DefaultModel: "gemini-2.5-flash",
		KeyEnv:       "GEMINI_API_KEY",
		RequiresKey:  true,
	},
	{
		ID:           core.ProviderOpenRouter,
		Label:        "OpenRouter",
		BaseURL:      "https://openrouter.ai/api/v1",
		DefaultModel: "openai/gpt-4o-mini",
		KeyEnv:       "OPENROUTER_API_KEY",
		RequiresKey:  true,
	},
	{
		ID:           core.ProviderCustom,
		Label:        "Custom endpoint",
		DefaultModel: "default",
		KeyEnv:       "VOICEPRINT_API_KEY",
	},
}

var index = func() map[core.ProviderID]int {
	m := make(map[core.ProviderID]int, len(catalog))
	for i, d := range catalog {
		m[d.ID] = i
	}
	return m
}()

func init() {
	for _, id := range core.ProviderIDs() {
		if _, ok := index[id]; !ok {
			panic(fmt.Sprintf("providers: no descriptor for %q", id))
		}
	}
}

// Lookup returns the descriptor for id. Unknown ids resolve to the custom descriptor.
func Lookup(id core.ProviderID) Descriptor {
	if i, ok := index[core.ProviderID(strings.ToLower(strings.TrimSpace(string(id))))]; ok {
		return catalog[i]
	}
	return catalog[index[core.ProviderCustom]]
}

// Known reports whether id names a catalog entry rather than falling back to custom.
func Known(id core.ProviderID) bool {
	_, ok := index[core.ProviderID(strings.ToLower(strings.TrimSpace(string(id))))]
	return ok
}

// Descriptors returns a copy of the catalog in display order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// IDs returns the provider IDs in display order.
func IDs() []core.ProviderID {
	ids := make([]core.ProviderID, len(catalog))
	for i, d := range catalog {
		ids[i] = d.ID
	}
	return ids
}
