package core

import (
	"log/slog"
	"strings"
)

// Secret wraps a credential so it cannot leak through fmt, JSON, YAML or slog.
// The credential is an opaque string; use Expose only at the point where it is
// attached to an outgoing request.
//
//	secret := NewSecret("sk-abc123")
//	fmt.Println(secret)                  // [REDACTED]
//	slog.Info("dispatch", "key", secret) // key=[REDACTED]
//	secret.Expose()                      // sk-abc123
type Secret struct {
	value string
}

const redacted = "[REDACTED]"

// NewSecret creates a Secret from value, trimming surrounding whitespace
// picked up from env files and terminal prompts.
func NewSecret(value string) Secret {
	return Secret{value: strings.TrimSpace(value)}
}

// String implements fmt.Stringer.
func (s Secret) String() string {
	return redacted
}

// GoString implements fmt.GoStringer for %#v.
func (s Secret) GoString() string {
	return "core.Secret{" + redacted + "}"
}

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value {
	if s.IsEmpty() {
		return slog.StringValue("")
	}
	return slog.StringValue(redacted)
}

// MarshalJSON implements json.Marshaler.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

// Expose returns the actual credential.
func (s Secret) Expose() string {
	return s.value
}

// IsEmpty reports whether no credential is present.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}
