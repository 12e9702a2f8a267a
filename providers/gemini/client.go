package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/petal-labs/voiceprint/core"
)

// doChat performs a non-streaming generateContent request.
func (p *Gemini) doChat(ctx context.Context, req *core.Request) (string, error) {
	body, err := json.Marshal(buildRequest(req))
	if err != nil {
		return "", newDecodeError(err)
	}

	// Model is in the URL path. The displayed URL omits the key.
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", core.NormalizeBaseURL(req.BaseURL), url.PathEscape(string(req.Model)))
	target := endpoint + "?key=" + url.QueryEscape(req.Credential.Expose())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return "", newNetworkError(endpoint, err)
	}

	for key, values := range p.buildHeaders() {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return "", newNetworkError(endpoint, unwrapURLError(err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newNetworkError(endpoint, err)
	}

	if resp.StatusCode >= 400 {
		return "", normalizeError(resp.StatusCode, respBody)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(respBody, &gemResp); err != nil {
		return "", newDecodeError(err)
	}

	if text, ok := candidateText(&gemResp); ok {
		return text, nil
	}
	if reason, ok := blockedReason(&gemResp); ok {
		return "", newBlockedError(reason)
	}
	return "", newEmptyContentError()
}

// unwrapURLError strips the *url.Error wrapper, whose message would echo the
// key query parameter.
func unwrapURLError(err error) error {
	if ue, ok := err.(*url.Error); ok {
		return ue.Err
	}
	return err
}
