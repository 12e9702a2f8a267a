package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/petal-labs/voiceprint/core"
)

// messagesPath is the API endpoint for messages, relative to a base ending in /v1.
const messagesPath = "/messages"

// doChat performs a non-streaming Messages request.
func (p *Anthropic) doChat(ctx context.Context, req *core.Request) (string, error) {
	body, err := json.Marshal(p.buildRequest(req))
	if err != nil {
		return "", newDecodeError(err)
	}

	url := core.NormalizeBaseURL(req.BaseURL) + messagesPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", newNetworkError(url, err)
	}

	for key, values := range p.buildHeaders(req.Credential) {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return "", newNetworkError(url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newNetworkError(url, err)
	}

	requestID := resp.Header.Get("request-id")

	if resp.StatusCode >= 400 {
		return "", normalizeError(resp.StatusCode, respBody, requestID)
	}

	var antResp anthropicResponse
	if err := json.Unmarshal(respBody, &antResp); err != nil {
		return "", newDecodeError(err)
	}

	text, ok := firstText(&antResp)
	if !ok {
		if antResp.StopReason == "refusal" {
			return "", newRefusalError(requestID)
		}
		return "", newEmptyContentError(requestID)
	}
	return text, nil
}
