// Package preflight checks that a provider is usable before a paid generation call.
//
// A check never fails with an error value: every outcome, including an
// unreachable server, is reported as a Result with OK=false and a message the
// user can act on. Results are built fresh for every call and never cached.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/providers"
	"github.com/petal-labs/voiceprint/providers/ollama"
	"github.com/petal-labs/voiceprint/providers/openai"
)

// Result is the outcome of one check.
type Result struct {
	OK       bool      `json:"ok"`
	Error    string    `json:"error,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Metadata carries what the check learned about the target.
type Metadata struct {
	InstalledModels []string `json:"installedModels,omitempty"`
}

// Config is the request-like input of a check.
type Config struct {
	Provider   core.ProviderID
	BaseURL    string
	Model      core.ModelID
	Credential core.Secret

	// SecureOrigin is set when the caller runs on an https page, where a
	// browser would block requests to plain http endpoints.
	SecureOrigin bool
}

// InstalledModelLister lists models pulled into a self-hosted server.
type InstalledModelLister interface {
	InstalledModels(ctx context.Context, baseURL string) ([]string, error)
}

// EndpointModelLister performs an authenticated model listing against an arbitrary endpoint.
type EndpointModelLister interface {
	ListModels(ctx context.Context, provider core.ProviderID, baseURL string, credential core.Secret) ([]string, error)
}

// Validator runs preflight checks. It is safe for concurrent use.
type Validator struct {
	local    InstalledModelLister
	endpoint EndpointModelLister
	logger   *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithInstalledModelLister replaces the Ollama model lister.
func WithInstalledModelLister(l InstalledModelLister) Option {
	return func(v *Validator) { v.local = l }
}

// WithEndpointModelLister replaces the custom endpoint model lister.
func WithEndpointModelLister(l EndpointModelLister) Option {
	return func(v *Validator) { v.endpoint = l }
}

// WithLogger sets the logger used for check outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithHTTPClient makes the default listers use client.
func WithHTTPClient(client *http.Client) Option {
	return func(v *Validator) {
		v.local = ollama.New(ollama.WithHTTPClient(client))
		v.endpoint = openai.New(openai.WithHTTPClient(client))
	}
}

// New creates a Validator backed by the Ollama and OpenAI-compatible adapters.
func New(opts ...Option) *Validator {
	v := &Validator{
		local:    ollama.New(),
		endpoint: openai.New(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Check runs the family-specific check for cfg.Provider.
func (v *Validator) Check(ctx context.Context, cfg Config) Result {
	desc := providers.Lookup(cfg.Provider)

	var res Result
	switch desc.ID {
	case core.ProviderOllama:
		res = v.checkOllama(ctx, desc, cfg)
	case core.ProviderCustom:
		res = v.checkCustom(ctx, desc, cfg)
	default:
		res = checkHosted(desc, cfg)
	}

	v.logger.Debug("preflight",
		"provider", desc.ID,
		"ok", res.OK,
		"warnings", len(res.Warnings),
	)
	return res
}

func fail(format string, args ...any) Result {
	return Result{OK: false, Error: fmt.Sprintf(format, args...)}
}

// checkHosted never fails: cost and availability surface at generation time.
func checkHosted(desc providers.Descriptor, cfg Config) Result {
	res := Result{OK: true}
	if desc.RequiresKey && cfg.Credential.IsEmpty() {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("No API key configured for %s; generation will fail until one is set.", desc.Label))
	}
	return res
}

// isMixedContent reports whether a secure page would be calling a plain http URL.
func isMixedContent(secureOrigin bool, baseURL string) bool {
	if !secureOrigin {
		return false
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, "http")
}

func (v *Validator) checkOllama(ctx context.Context, desc providers.Descriptor, cfg Config) Result {
	baseURL := desc.ResolveBaseURL(cfg.BaseURL)
	model := desc.ResolveModel(cfg.Model)

	if isMixedContent(cfg.SecureOrigin, baseURL) {
		return fail("This page is served over HTTPS, so the browser will block requests to %s (mixed content). "+
			"Open the app over http://localhost, or put Ollama behind HTTPS.", baseURL)
	}

	installed, err := v.local.InstalledModels(ctx, baseURL)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fail("Preflight was canceled.")
		}
		return fail("Cannot reach Ollama at %s. Make sure `ollama serve` is running and the URL is correct. (%s)",
			ollama.TagsURL(baseURL), errMessage(err))
	}

	res := Result{Metadata: &Metadata{InstalledModels: installed}}
	if len(installed) == 0 {
		res.Error = fmt.Sprintf("Ollama is running but has no models installed. Run `%s` first.", ollama.PullCommand(model))
		return res
	}

	if name, ok := findInstalled(installed, string(model)); ok {
		res.OK = true
		if name != string(model) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Using installed model %q for %q.", name, model))
		}
		return res
	}

	res.Error = fmt.Sprintf("Model %q is not installed in Ollama. Run `%s`.", model, ollama.PullCommand(model))
	if suggestion, ok := suggestModel(installed, string(model)); ok {
		res.Error = fmt.Sprintf("Model %q is not installed in Ollama. Use the installed model %q instead, or run `%s`.",
			model, suggestion, ollama.PullCommand(model))
	}
	return res
}

func (v *Validator) checkCustom(ctx context.Context, desc providers.Descriptor, cfg Config) Result {
	baseURL := desc.ResolveBaseURL(cfg.BaseURL)
	if baseURL == "" {
		return fail("A base URL is required for a custom endpoint.")
	}
	if isMixedContent(cfg.SecureOrigin, baseURL) {
		return fail("This page is served over HTTPS, so the browser will block requests to %s (mixed content).", baseURL)
	}

	models, err := v.endpoint.ListModels(ctx, core.ProviderCustom, baseURL, cfg.Credential)
	if err == nil {
		res := Result{OK: true, Metadata: &Metadata{InstalledModels: models}}
		if cfg.Model != "" && len(models) > 0 {
			if _, ok := findInstalled(models, string(cfg.Model)); !ok {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("Model %q is not in the endpoint's model list.", cfg.Model))
			}
		}
		return res
	}

	var pe *core.ProviderError
	switch {
	case errors.Is(err, context.Canceled):
		return fail("Preflight was canceled.")
	case errors.As(err, &pe) && pe.Status == http.StatusUnauthorized:
		return fail("The endpoint at %s rejected the API key (401). Check the key for this endpoint.", baseURL)
	case errors.As(err, &pe) && (pe.Kind == core.KindNetwork || pe.Kind == core.KindTimeout):
		return fail("Cannot reach the custom endpoint at %s. Check the URL, your network, and CORS settings.", pe.URL)
	default:
		// The endpoint answered; many compatible servers simply do not implement /models.
		return Result{OK: true, Warnings: []string{
			fmt.Sprintf("Could not list models at %s: %s", baseURL, errMessage(err)),
		}}
	}
}

func errMessage(err error) string {
	var pe *core.ProviderError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return err.Error()
}
