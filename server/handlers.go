package server

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/providers"
	"github.com/petal-labs/voiceprint/studio"
	"github.com/petal-labs/voiceprint/style"
)

const maxBodyBytes = 4 << 20

// ProviderConfig is the provider selection embedded in every request body.
type ProviderConfig struct {
	Provider       core.ProviderID `json:"provider"`
	APIKey         string          `json:"api_key,omitempty"`
	BaseURL        string          `json:"base_url,omitempty"`
	Model          core.ModelID    `json:"model,omitempty"`
	TimeoutSeconds int             `json:"timeout_seconds,omitempty"`
}

type sendRequest struct {
	ProviderConfig
	System string `json:"system"`
	User   string `json:"user"`
}

type textRequest struct {
	ProviderConfig
	Text string `json:"text"`
}

type analyzeRequest struct {
	ProviderConfig
	Samples []string `json:"samples"`
}

type generateRequest struct {
	ProviderConfig
	Profile     style.Profile `json:"profile"`
	Prompt      string        `json:"prompt"`
	ContentType string        `json:"content_type"`
	Context     string        `json:"context,omitempty"`
}

type textResponse struct {
	Session string `json:"session,omitempty"`
	Text    string `json:"text"`
}

type analyzeResponse struct {
	Session string        `json:"session"`
	Profile style.Profile `json:"profile"`
}

type generateResponse struct {
	Session string `json:"session"`
	studio.GenerationOutcome
}

type providerInfo struct {
	ID           core.ProviderID `json:"id"`
	Label        string          `json:"label"`
	BaseURL      string          `json:"base_url,omitempty"`
	DefaultModel core.ModelID    `json:"default_model"`
	RequiresKey  bool            `json:"requires_key"`
	Local        bool            `json:"local"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	descs := providers.Descriptors()
	out := make([]providerInfo, 0, len(descs))
	for _, d := range descs {
		out = append(out, providerInfo{
			ID:           d.ID,
			Label:        d.Label,
			BaseURL:      d.BaseURL,
			DefaultModel: d.DefaultModel,
			RequiresKey:  d.RequiresKey,
			Local:        d.Local,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	var body ProviderConfig
	if !s.decode(w, r, &body) {
		return
	}
	sess := s.session(r, body)
	writeJSON(w, http.StatusOK, s.studio.PreflightCheck(r.Context(), sess))
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var body sendRequest
	if !s.decode(w, r, &body) {
		return
	}
	sess := s.session(r, body.ProviderConfig)
	ctx := core.WithCallInfo(r.Context(), core.CallInfo{Session: sess.ID, Operation: core.OperationSend})
	text, err := s.studio.SendRequest(ctx, sess.Config.Request(body.System, body.User))
	if err != nil {
		s.writeError(w, body.Provider, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Session: sess.ID, Text: text})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var body textRequest
	if !s.decode(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, s.studio.DetectSlop(body.Text))
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	var body textRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.pipeline.Lock()
	defer s.pipeline.Unlock()

	sess := s.session(r, body.ProviderConfig)
	writeJSON(w, http.StatusOK, textResponse{Session: sess.ID, Text: s.studio.FixSlop(r.Context(), sess, body.Text)})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body analyzeRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.pipeline.Lock()
	defer s.pipeline.Unlock()

	sess := s.session(r, body.ProviderConfig)
	profile, err := s.studio.AnalyzeSamples(r.Context(), sess, body.Samples)
	if err != nil {
		s.writeError(w, body.Provider, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Session: sess.ID, Profile: profile})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	if !s.decode(w, r, &body) {
		return
	}
	ct, err := style.ParseContentType(body.ContentType)
	if err != nil {
		s.writeError(w, body.Provider, fmt.Errorf("%w: %v", studio.ErrInvalidInput, err))
		return
	}

	s.pipeline.Lock()
	defer s.pipeline.Unlock()

	sess := s.session(r, body.ProviderConfig)
	out, err := s.studio.GenerateContent(r.Context(), sess, studio.GenerateInput{
		Profile:      body.Profile,
		Prompt:       body.Prompt,
		ContentType:  ct,
		ExtraContext: body.Context,
	})
	if err != nil {
		s.writeError(w, body.Provider, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{Session: sess.ID, GenerationOutcome: out})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		writeJSON(w, http.StatusUnsupportedMediaType, errorBody{Error: errorDetail{
			Kind:    "unsupported_media_type",
			Message: "request body must be application/json",
		}})
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, "", fmt.Errorf("%w: malformed JSON body: %v", studio.ErrInvalidInput, err))
		return false
	}
	return true
}

// session builds the per-request session. A missing key falls back to the
// server's credential source, but only when the request targets the
// provider's default endpoint.
func (s *Server) session(r *http.Request, pc ProviderConfig) *studio.Session {
	cred := core.NewSecret(pc.APIKey)
	if cred.IsEmpty() && s.credentials != nil && usesDefaultEndpoint(pc) {
		cred = s.credentials(providers.Lookup(pc.Provider).ID)
	}
	timeout := max(s.cfg.RequestTimeout, 0)
	if pc.TimeoutSeconds > 0 {
		timeout = time.Duration(pc.TimeoutSeconds) * time.Second
	}
	return studio.NewSession(studio.Config{
		Provider:   pc.Provider,
		Credential: cred,
		BaseURL:    pc.BaseURL,
		Model:      pc.Model,
		Timeout:    timeout,
	}, secureOrigin(r))
}

// usesDefaultEndpoint reports whether pc resolves to the catalog base URL of
// its provider. Providers without a default endpoint never match.
func usesDefaultEndpoint(pc ProviderConfig) bool {
	desc := providers.Lookup(pc.Provider)
	return desc.HasDefaultBaseURL() && desc.ResolveBaseURL(pc.BaseURL) == desc.ResolveBaseURL("")
}

// secureOrigin reports whether the caller runs on an https page or reached
// the server over TLS.
func secureOrigin(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, "https")
}
