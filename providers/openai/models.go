package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/petal-labs/voiceprint/core"
)

// modelsPath is the model listing endpoint.
const modelsPath = "/models"

// ListModels performs an authenticated GET {baseURL}/models and returns the model IDs.
// It is the lightweight call used to verify a custom endpoint before generation.
func (p *OpenAI) ListModels(ctx context.Context, provider core.ProviderID, baseURL string, credential core.Secret) ([]string, error) {
	url := core.NormalizeBaseURL(baseURL) + modelsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newNetworkError(provider, url, err)
	}
	for key, values := range p.buildHeaders(credential) {
		if key == "Content-Type" {
			continue
		}
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, newNetworkError(provider, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(provider, url, err)
	}
	if resp.StatusCode >= 400 {
		return nil, normalizeError(provider, resp.StatusCode, body, requestIDFrom(resp.Header))
	}

	var list openAIModelList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, newDecodeError(provider, err)
	}

	ids := make([]string, 0, len(list.Data))
	for _, m := range list.Data {
		if m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}
