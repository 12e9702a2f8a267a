package sandbox

import (
	"context"
	"strings"

	"github.com/petal-labs/voiceprint/core"
)

// Sandbox is the zero-configuration adapter. It is safe for concurrent use
// when its ChatSDK is.
type Sandbox struct {
	sdk ChatSDK
}

// Option configures the sandbox adapter.
type Option func(*Sandbox)

// WithSDK replaces the default openai-go backed SDK.
func WithSDK(sdk ChatSDK) Option {
	return func(s *Sandbox) {
		s.sdk = sdk
	}
}

// New creates a sandbox adapter.
func New(opts ...Option) *Sandbox {
	s := &Sandbox{}
	for _, opt := range opts {
		opt(s)
	}
	if s.sdk == nil {
		s.sdk = NewOpenAISDK()
	}
	return s
}

// Send hands the system and user messages to the SDK and returns response.message.content.
func (s *Sandbox) Send(ctx context.Context, req *core.Request) (string, error) {
	messages := []Message{
		{Role: core.RoleSystem, Content: req.SystemMessage},
		{Role: core.RoleUser, Content: req.UserMessage},
	}

	resp, err := s.sdk.Chat(ctx, messages, ChatOptions{
		Model:   req.Model,
		BaseURL: req.BaseURL,
		Token:   req.Credential,
	})
	if err != nil {
		return "", classify(err, core.NormalizeBaseURL(req.BaseURL))
	}
	if resp == nil || strings.TrimSpace(resp.Message.Content) == "" {
		return "", newEmptyContentError()
	}
	return resp.Message.Content, nil
}

// Compile-time check that Sandbox implements Sender.
var _ core.Sender = (*Sandbox)(nil)
