package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/providers"
	"github.com/petal-labs/voiceprint/studio"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitProvider   = 2
	ExitNetwork    = 3
)

// exitError wraps an error with an exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var pe *core.ProviderError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case core.KindNetwork, core.KindTimeout:
			return ExitNetwork
		default:
			return ExitProvider
		}
	}
	var pfe *studio.PreflightError
	if errors.As(err, &pfe) {
		return ExitProvider
	}
	if errors.Is(err, core.ErrNetwork) || errors.Is(err, core.ErrTimeout) {
		return ExitNetwork
	}
	return ExitValidation
}

// handleError reports err on stderr, as JSON with --json, and returns it with
// its exit code. Fallback-eligible errors get a hint to switch provider.
func (a *App) handleError(err error) error {
	code := exitCodeFor(err)

	var pe *core.ProviderError
	isProvider := errors.As(err, &pe)

	if a.jsonOutput {
		detail := map[string]any{"kind": "invalid_request", "message": err.Error()}
		switch {
		case isProvider:
			detail = map[string]any{
				"kind":       pe.Kind,
				"message":    pe.Message,
				"provider":   pe.Provider,
				"fallback":   pe.Fallback,
				"request_id": pe.RequestID,
			}
		case code == ExitProvider:
			detail["kind"] = "preflight"
		}
		enc := json.NewEncoder(a.stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{"error": detail})
		return exitWithCode(code, err)
	}

	if isProvider {
		a.printf(a.stderr, "Error: %s\n", pe.Message)
		if pe.URL != "" {
			a.printf(a.stderr, "  URL: %s\n", pe.URL)
		}
		if pe.RequestID != "" {
			a.printf(a.stderr, "  Provider: %s, Request ID: %s\n", pe.Provider, pe.RequestID)
		}
		if pe.Fallback {
			a.printf(a.stderr, "  Hint: %s\n", fallbackHint(pe.Provider))
		}
	} else {
		a.printf(a.stderr, "Error: %v\n", err)
	}
	return exitWithCode(code, err)
}

func fallbackHint(current core.ProviderID) string {
	var alts []string
	for _, d := range providers.Descriptors() {
		if d.ID != current && d.ID != core.ProviderCustom {
			alts = append(alts, string(d.ID))
		}
	}
	return fmt.Sprintf("%s is unavailable right now; switch with --provider (%s).",
		providers.Lookup(current).Label, strings.Join(alts, ", "))
}

func (a *App) printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
