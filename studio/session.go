package studio

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/preflight"
)

// Config is the provider selection for one session.
type Config struct {
	Provider   core.ProviderID
	Credential core.Secret
	BaseURL    string
	Model      core.ModelID

	// Timeout bounds each dispatch. Zero means none.
	Timeout time.Duration
}

// Request builds a canonical request from the session configuration.
func (c Config) Request(system, user string) *core.Request {
	return &core.Request{
		Provider:      c.Provider,
		Credential:    c.Credential,
		BaseURL:       c.BaseURL,
		Model:         c.Model,
		SystemMessage: system,
		UserMessage:   user,
		Timeout:       c.Timeout,
	}
}

// Session is the context of one user action. It is created when the action
// starts and discarded when it completes; nothing in it is shared between
// actions.
type Session struct {
	ID           string
	Config       Config
	SecureOrigin bool
	Started      time.Time
}

// NewSession starts a session with a fresh ID.
func NewSession(cfg Config, secureOrigin bool) *Session {
	return &Session{
		ID:           uuid.NewString(),
		Config:       cfg,
		SecureOrigin: secureOrigin,
		Started:      time.Now(),
	}
}

func (s *Session) preflightConfig() preflight.Config {
	return preflight.Config{
		Provider:     s.Config.Provider,
		BaseURL:      s.Config.BaseURL,
		Model:        s.Config.Model,
		Credential:   s.Config.Credential,
		SecureOrigin: s.SecureOrigin,
	}
}

func (s *Session) context(ctx context.Context, op core.Operation) context.Context {
	return core.WithCallInfo(ctx, core.CallInfo{Session: s.ID, Operation: op})
}
