package providers

import (
	"testing"

	"github.com/petal-labs/voiceprint/core"
)

func TestLookupKnownProviders(t *testing.T) {
	tests := []struct {
		id        core.ProviderID
		wantModel core.ModelID
		wantURL   string
	}{
		{core.ProviderSandbox, "gpt-4o-mini", "https://api.puter.com/puterai/openai/v1"},
		{core.ProviderOllama, "gpt-oss:20b", "http://localhost:11434/v1"},
		{core.ProviderOpenAI, "gpt-4o-mini", "https://api.openai.com/v1"},
		{core.ProviderAnthropic, "claude-sonnet-4-5", "https://api.anthropic.com/v1"},
		{core.ProviderGemini, "gemini-2.5-flash", "https://generativelanguage.googleapis.com/v1beta"},
		{core.ProviderOpenRouter, "openai/gpt-4o-mini", "https://openrouter.ai/api/v1"},
		{core.ProviderCustom, "default", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			d := Lookup(tt.id)
			if d.ID != tt.id {
				t.Errorf("ID = %q, want %q", d.ID, tt.id)
			}
			if d.DefaultModel != tt.wantModel {
				t.Errorf("DefaultModel = %q, want %q", d.DefaultModel, tt.wantModel)
			}
			if d.BaseURL != tt.wantURL {
				t.Errorf("BaseURL = %q, want %q", d.BaseURL, tt.wantURL)
			}
			if d.Label == "" {
				t.Error("Label should not be empty")
			}
		})
	}
}

func TestLookupUnknownFallsBackToCustom(t *testing.T) {
	for _, id := range []core.ProviderID{"", "bedrock", "mistral"} {
		if got := Lookup(id).ID; got != core.ProviderCustom {
			t.Errorf("Lookup(%q).ID = %q, want custom", id, got)
		}
		if Known(id) {
			t.Errorf("Known(%q) = true, want false", id)
		}
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	if got := Lookup("  OpenAI ").ID; got != core.ProviderOpenAI {
		t.Errorf("Lookup(OpenAI).ID = %q, want openai", got)
	}
}

func TestDescriptorsCoverEveryProviderID(t *testing.T) {
	ids := IDs()
	if len(ids) != len(core.ProviderIDs()) {
		t.Fatalf("catalog has %d entries, want %d", len(ids), len(core.ProviderIDs()))
	}
	for i, id := range core.ProviderIDs() {
		if ids[i] != id {
			t.Errorf("IDs()[%d] = %q, want %q", i, ids[i], id)
		}
	}
}

func TestDescriptorsReturnsCopy(t *testing.T) {
	ds := Descriptors()
	ds[0].Label = "mutated"
	if Lookup(ds[0].ID).Label == "mutated" {
		t.Error("Descriptors() must not expose the catalog")
	}
}

func TestResolveBaseURLAndModel(t *testing.T) {
	d := Lookup(core.ProviderOpenAI)

	if got := d.ResolveBaseURL(""); got != "https://api.openai.com/v1" {
		t.Errorf("ResolveBaseURL(\"\") = %q", got)
	}
	if got := d.ResolveBaseURL("https://proxy.example.com/v1///"); got != "https://proxy.example.com/v1" {
		t.Errorf("ResolveBaseURL(explicit) = %q", got)
	}
	if got := d.ResolveModel(""); got != "gpt-4o-mini" {
		t.Errorf("ResolveModel(\"\") = %q", got)
	}
	if got := d.ResolveModel("gpt-4.1"); got != "gpt-4.1" {
		t.Errorf("ResolveModel(explicit) = %q", got)
	}
	if Lookup(core.ProviderCustom).HasDefaultBaseURL() {
		t.Error("custom should not have a default base URL")
	}
}
