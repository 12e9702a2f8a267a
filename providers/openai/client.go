package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/petal-labs/voiceprint/core"
)

// chatCompletionsPath is the API endpoint for chat completions.
const chatCompletionsPath = "/chat/completions"

// doChat performs a non-streaming chat completion request.
func (p *OpenAI) doChat(ctx context.Context, req *core.Request) (string, error) {
	provider := providerOf(req)

	body, err := json.Marshal(buildRequest(req))
	if err != nil {
		return "", newDecodeError(provider, err)
	}

	url := core.NormalizeBaseURL(req.BaseURL) + chatCompletionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", newNetworkError(provider, url, err)
	}

	for key, values := range p.buildHeaders(req.Credential) {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return "", newNetworkError(provider, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newNetworkError(provider, url, err)
	}

	requestID := requestIDFrom(resp.Header)

	if resp.StatusCode >= 400 {
		return "", normalizeError(provider, resp.StatusCode, respBody, requestID)
	}

	var oaiResp openAIResponse
	if err := json.Unmarshal(respBody, &oaiResp); err != nil {
		return "", newDecodeError(provider, err)
	}

	return extractText(provider, &oaiResp, requestID)
}

// buildRequest creates a chat completions request from a canonical request.
func buildRequest(req *core.Request) *openAIRequest {
	return &openAIRequest{
		Model: string(req.Model),
		Messages: []openAIMessage{
			{Role: string(core.RoleSystem), Content: req.SystemMessage},
			{Role: string(core.RoleUser), Content: req.UserMessage},
		},
	}
}

// extractText reads choices[0].message.content.
func extractText(provider core.ProviderID, resp *openAIResponse, requestID string) (string, error) {
	if len(resp.Choices) == 0 {
		return "", newEmptyContentError(provider, requestID)
	}
	choice := resp.Choices[0]
	if choice.Message.Content == nil || strings.TrimSpace(*choice.Message.Content) == "" {
		if choice.FinishReason == "content_filter" {
			return "", newContentFilterError(provider, requestID)
		}
		return "", newEmptyContentError(provider, requestID)
	}
	return *choice.Message.Content, nil
}

func providerOf(req *core.Request) core.ProviderID {
	if req.Provider == "" {
		return core.ProviderOpenAI
	}
	return req.Provider
}
