package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/petal-labs/voiceprint/core"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: FormatJSON, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.Info("shown", "provider", "openai")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["msg"] != "shown" || rec["provider"] != "openai" {
		t.Errorf("record = %v", rec)
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "debug", Writer: &buf, NoColor: true})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("console line", "model", "gpt-4o-mini")

	out := buf.String()
	if !strings.Contains(out, "console line") || !strings.Contains(out, "gpt-4o-mini") {
		t.Errorf("output = %q", out)
	}
}

func TestNewRejectsUnknown(t *testing.T) {
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestHookNeverLogsCredential(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hook := NewHook(logger)

	start := time.Now()
	hook.OnRequestStart(core.RequestStartEvent{Session: "s-1", Operation: core.OperationGenerate, Provider: core.ProviderOpenAI, Model: "gpt-4o-mini", Start: start})
	hook.OnRequestEnd(core.RequestEndEvent{
		Session: "s-1", Operation: core.OperationGenerate, Provider: core.ProviderOpenAI, Model: "gpt-4o-mini",
		Start: start, End: start.Add(time.Second), Chars: 42,
	})
	pe := core.NewProviderError(core.ProviderOpenAI, core.KindAuth, 401, "invalid_api_key", "")
	hook.OnRequestEnd(core.RequestEndEvent{Provider: core.ProviderOpenAI, Start: start, End: start, Kind: core.KindAuth, Err: errors.Join(pe)})

	out := buf.String()
	for _, want := range []string{"dispatch start", "dispatch complete", "dispatch failed", `"chars":42`, `"kind":"auth"`, `"session":"s-1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "sk-") {
		t.Errorf("log output leaked a credential:\n%s", out)
	}
}
