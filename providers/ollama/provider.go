package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/providers/openai"
)

// Ollama is the self-hosted adapter. Ollama is safe for concurrent use.
type Ollama struct {
	config Config
	chat   *openai.OpenAI
}

// New creates a new Ollama adapter with the given options.
func New(opts ...Option) *Ollama {
	cfg := Config{
		HTTPClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	chatOpts := []openai.Option{openai.WithHTTPClient(cfg.HTTPClient)}
	for key, values := range cfg.Headers {
		for _, v := range values {
			chatOpts = append(chatOpts, openai.WithHeader(key, v))
		}
	}

	return &Ollama{config: cfg, chat: openai.New(chatOpts...)}
}

// Send issues one chat call against the OpenAI-compatible endpoint.
func (p *Ollama) Send(ctx context.Context, req *core.Request) (string, error) {
	r := req.Clone()
	if r.BaseURL == "" {
		r.BaseURL = DefaultLocalURL
	}
	r.Provider = core.ProviderOllama

	text, err := p.chat.Send(ctx, r)
	if err != nil {
		return "", withPullHint(err, r.Model)
	}
	return text, nil
}

// TagsURL derives the native model listing URL from an OpenAI-compatible base URL.
func TagsURL(baseURL string) string {
	base := core.NormalizeBaseURL(baseURL)
	if base == "" {
		base = DefaultLocalURL
	}
	base = strings.TrimSuffix(base, "/v1")
	base = strings.TrimSuffix(base, "/api")
	return base + "/api/tags"
}

// InstalledModels lists the models pulled into the Ollama instance at baseURL.
func (p *Ollama) InstalledModels(ctx context.Context, baseURL string) ([]string, error) {
	url := TagsURL(baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newNetworkError(url, err)
	}
	for key, values := range p.config.Headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, newNetworkError(url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(url, err)
	}
	if resp.StatusCode >= 400 {
		return nil, parseErrorResponse(resp.StatusCode, body)
	}

	var tags ollamaTagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, newDecodeError(err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// PullCommand returns the shell command that installs model.
func PullCommand(model core.ModelID) string {
	return fmt.Sprintf("ollama pull %s", model)
}

// withPullHint appends the pull command to model-not-found errors.
func withPullHint(err error, model core.ModelID) error {
	var pe *core.ProviderError
	if !errors.As(err, &pe) || pe.Kind != core.KindModelNotFound || model == "" {
		return err
	}
	hinted := *pe
	hinted.Message = pe.Message + " Run `" + PullCommand(model) + "` to install it."
	return &hinted
}

// Compile-time check that Ollama implements Sender.
var _ core.Sender = (*Ollama)(nil)
