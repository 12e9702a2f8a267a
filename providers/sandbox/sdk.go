package sandbox

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/petal-labs/voiceprint/core"
)

// Message is one chat turn handed to the SDK.
type Message struct {
	Role    core.Role
	Content string
}

// ChatOptions carries per-call SDK settings.
type ChatOptions struct {
	Model   core.ModelID
	BaseURL string
	Token   core.Secret
}

// ChatResponse mirrors the SDK's response shape: response.message.content.
type ChatResponse struct {
	Message Message
}

// ChatSDK is the in-process client the sandbox is reached through.
type ChatSDK interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (*ChatResponse, error)
}

// SDKError is a failure reported by the SDK with whatever the service sent back.
// Status is zero when the SDK did not receive an HTTP response.
type SDKError struct {
	Status  int
	Code    string
	Message string
}

func (e *SDKError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// OpenAISDK is the default ChatSDK, built on openai-go.
type OpenAISDK struct {
	client *openai.Client
}

// NewOpenAISDK creates the default SDK. The SDK's own retries are disabled:
// one Send is one call.
func NewOpenAISDK(opts ...option.RequestOption) *OpenAISDK {
	base := []option.RequestOption{
		option.WithMaxRetries(0),
		option.WithAPIKey(""),
	}
	return &OpenAISDK{client: openai.NewClient(append(base, opts...)...)}
}

// Chat implements ChatSDK.
func (s *OpenAISDK) Chat(ctx context.Context, messages []Message, opts ChatOptions) (*ChatResponse, error) {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		if m.Role == core.RoleSystem {
			params = append(params, openai.SystemMessage(m.Content))
			continue
		}
		params = append(params, openai.UserMessage(m.Content))
	}

	reqOpts := []option.RequestOption{
		// Trailing slash so the relative chat/completions path keeps the /v1 segment.
		option.WithBaseURL(core.NormalizeBaseURL(opts.BaseURL) + "/"),
	}
	if opts.Token.IsEmpty() {
		reqOpts = append(reqOpts, option.WithHeaderDel("Authorization"))
	} else {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.Token.Expose()))
	}

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F(params),
		Model:    openai.F(openai.ChatModel(opts.Model)),
	}, reqOpts...)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			msg := apiErr.Message
			if msg == "" {
				msg = apiErr.Error()
			}
			code := apiErr.Code
			if code == "" {
				code = apiErr.Type
			}
			return nil, &SDKError{Status: apiErr.StatusCode, Code: code, Message: msg}
		}
		return nil, err
	}

	resp := &ChatResponse{Message: Message{Role: core.RoleAssistant}}
	if len(completion.Choices) > 0 {
		resp.Message.Content = completion.Choices[0].Message.Content
	}
	return resp, nil
}

var _ ChatSDK = (*OpenAISDK)(nil)
