package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestSecretRedaction(t *testing.T) {
	secret := NewSecret("sk-abc123xyz")

	if got := secret.String(); got != "[REDACTED]" {
		t.Errorf("String() = %q, want [REDACTED]", got)
	}
	if got := fmt.Sprintf("%#v", secret); got != "core.Secret{[REDACTED]}" {
		t.Errorf("%%#v = %q, want core.Secret{[REDACTED]}", got)
	}
	if got := fmt.Sprintf("%v", secret); strings.Contains(got, "sk-abc") {
		t.Errorf("%%v leaked secret: %q", got)
	}
}

func TestSecretInStructJSON(t *testing.T) {
	type cfg struct {
		Provider string `json:"provider"`
		Key      Secret `json:"key"`
	}
	data, err := json.Marshal(cfg{Provider: "openai", Key: NewSecret("sk-abc123xyz")})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "sk-abc") {
		t.Errorf("JSON leaked secret: %s", data)
	}
}

func TestSecretSlogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("dispatch", "credential", NewSecret("sk-abc123xyz"))

	if strings.Contains(buf.String(), "sk-abc") {
		t.Errorf("slog leaked secret: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "[REDACTED]") {
		t.Errorf("slog output = %s, want [REDACTED]", buf.String())
	}
}

func TestSecretExposeAndEmpty(t *testing.T) {
	secret := NewSecret("  sk-abc123xyz\n")
	if secret.Expose() != "sk-abc123xyz" {
		t.Errorf("Expose() = %q, want trimmed value", secret.Expose())
	}
	if secret.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}
	if !NewSecret("   ").IsEmpty() {
		t.Error("whitespace-only secret should be empty")
	}
	var zero Secret
	if !zero.IsEmpty() {
		t.Error("zero Secret should be empty")
	}
}
