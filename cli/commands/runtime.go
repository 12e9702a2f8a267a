package commands

import (
	"fmt"
	"strings"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/dispatch"
	"github.com/petal-labs/voiceprint/preflight"
	"github.com/petal-labs/voiceprint/providers"
	"github.com/petal-labs/voiceprint/providers/anthropic"
	"github.com/petal-labs/voiceprint/providers/openai"
	"github.com/petal-labs/voiceprint/studio"
	"github.com/petal-labs/voiceprint/telemetry/logging"
	"github.com/petal-labs/voiceprint/telemetry/metrics"
)

// providerID returns the effective provider (flag or config default).
func (a *App) providerID() core.ProviderID {
	id := core.ProviderID(strings.ToLower(strings.TrimSpace(a.provider)))
	if id == "" {
		return core.ProviderSandbox
	}
	return id
}

// studioConfig resolves flags and config into the session configuration.
func (a *App) studioConfig() (studio.Config, error) {
	id := a.providerID()
	desc := providers.Lookup(id)
	settings := a.cfg.Provider(desc.ID)

	baseURL := a.baseURL
	if baseURL == "" {
		baseURL = settings.BaseURL
	}
	model := a.model
	if model == "" {
		model = settings.Model
	}

	cred, err := a.credential(desc, settings.APIKeyEnv)
	if err != nil {
		return studio.Config{}, err
	}

	return studio.Config{
		Provider:   id,
		Credential: cred,
		BaseURL:    baseURL,
		Model:      core.ModelID(model),
		Timeout:    a.timeout,
	}, nil
}

// credential resolves the API key: flag, configured env var, the provider's
// conventional env var, then a hidden prompt when a key is required and
// stdin is a terminal.
func (a *App) credential(desc providers.Descriptor, configuredEnv string) (core.Secret, error) {
	if a.apiKey != "" {
		return core.NewSecret(a.apiKey), nil
	}
	for _, name := range []string{configuredEnv, desc.KeyEnv} {
		if name == "" {
			continue
		}
		if v := strings.TrimSpace(a.getenv(name)); v != "" {
			return core.NewSecret(v), nil
		}
	}
	if !desc.RequiresKey || !a.isTerminal() {
		return core.Secret{}, nil
	}

	a.printf(a.stderr, "Enter API key for %s: ", desc.Label)
	key, err := a.readPassword()
	a.printf(a.stderr, "\n")
	if err != nil {
		return core.Secret{}, fmt.Errorf("failed to read key: %w", err)
	}
	return core.NewSecret(key), nil
}

// telemetryHook returns the hooks every dispatch reports to.
func (a *App) telemetryHook() core.TelemetryHook {
	hooks := core.MultiHook{logging.NewHook(a.logger)}
	if a.metrics != nil {
		hooks = append(hooks, a.metrics)
	}
	return hooks
}

// newStudio wires the dispatcher, validator and feedback loop.
func (a *App) newStudio() *studio.Studio {
	sender := a.sender
	if sender == nil {
		dopts := append([]dispatch.Option{dispatch.WithTelemetry(a.telemetryHook())}, a.adapterOverrides()...)
		sender = dispatch.New(dopts...)
	}
	checker := a.checker
	if checker == nil {
		checker = preflight.New(preflight.WithLogger(a.logger))
	}

	opts := []studio.Option{
		studio.WithSender(sender),
		studio.WithChecker(checker),
		studio.WithLogger(a.logger),
	}
	if a.cfg.MaxRetries > 0 {
		opts = append(opts, studio.WithRetryPolicy(core.NewRetryPolicy(core.RetryConfig{MaxRetries: a.cfg.MaxRetries})))
	}
	if a.metrics != nil {
		opts = append(opts, studio.WithSlopObserver(a.metrics))
	}
	return studio.New(opts...)
}

// adapterOverrides replaces default adapters whose settings come from the
// providers section of the config.
func (a *App) adapterOverrides() []dispatch.Option {
	var opts []dispatch.Option
	if ps := a.cfg.Provider(core.ProviderAnthropic); ps.MaxTokens > 0 || ps.APIVersion != "" {
		var aopts []anthropic.Option
		if ps.MaxTokens > 0 {
			aopts = append(aopts, anthropic.WithMaxTokens(ps.MaxTokens))
		}
		if ps.APIVersion != "" {
			aopts = append(aopts, anthropic.WithVersion(ps.APIVersion))
		}
		opts = append(opts, dispatch.WithAdapter(core.ProviderAnthropic, anthropic.New(aopts...)))
	}
	if ps := a.cfg.Provider(core.ProviderOpenAI); ps.OrgID != "" {
		opts = append(opts, dispatch.WithAdapter(core.ProviderOpenAI, openai.New(openai.WithOrgID(ps.OrgID))))
	}
	return opts
}

// newSession resolves configuration and starts a session for one command.
func (a *App) newSession() (*studio.Session, error) {
	cfg, err := a.studioConfig()
	if err != nil {
		return nil, exitWithCode(ExitValidation, err)
	}
	return studio.NewSession(cfg, false), nil
}

// enableMetrics creates the Prometheus collector used by serve.
func (a *App) enableMetrics() *metrics.Collector {
	if a.metrics == nil {
		a.metrics = metrics.New(nil)
	}
	return a.metrics
}

// serverCredentials resolves a credential for serve requests that carry none.
// It never prompts.
func (a *App) serverCredentials(id core.ProviderID) core.Secret {
	if a.apiKey != "" && id == a.providerID() {
		return core.NewSecret(a.apiKey)
	}
	desc := providers.Lookup(id)
	for _, name := range []string{a.cfg.Provider(desc.ID).APIKeyEnv, desc.KeyEnv} {
		if name == "" {
			continue
		}
		if v := a.getenv(name); strings.TrimSpace(v) != "" {
			return core.NewSecret(v)
		}
	}
	return core.Secret{}
}
