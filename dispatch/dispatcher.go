// Package dispatch routes canonical requests to provider adapters.
//
// A Dispatcher owns exactly three concerns: picking the adapter for
// req.Provider, resolving the base URL and model against the provider
// descriptor, and bounding the call with req.Timeout. It never retries and
// never reclassifies an adapter error; both are the caller's business.
package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/option"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/providers"
	"github.com/petal-labs/voiceprint/providers/anthropic"
	"github.com/petal-labs/voiceprint/providers/gemini"
	"github.com/petal-labs/voiceprint/providers/ollama"
	"github.com/petal-labs/voiceprint/providers/openai"
	"github.com/petal-labs/voiceprint/providers/sandbox"
)

// Dispatcher is safe for concurrent use.
type Dispatcher struct {
	adapters   map[core.ProviderID]core.Sender
	telemetry  core.TelemetryHook
	httpClient *http.Client
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTelemetry sets the telemetry hook.
func WithTelemetry(h core.TelemetryHook) Option {
	return func(d *Dispatcher) {
		if h != nil {
			d.telemetry = h
		}
	}
}

// WithHTTPClient sets the HTTP client used by the default adapters.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.httpClient = c
		}
	}
}

// WithAdapter replaces the adapter for id.
func WithAdapter(id core.ProviderID, s core.Sender) Option {
	return func(d *Dispatcher) {
		if d.adapters == nil {
			d.adapters = make(map[core.ProviderID]core.Sender)
		}
		d.adapters[id] = s
	}
}

// New creates a Dispatcher with the default adapter for every provider.
// Adapters given through WithAdapter take precedence.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		telemetry:  core.NoopTelemetryHook{},
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}

	defaults := DefaultAdapters(d.httpClient)
	if d.adapters == nil {
		d.adapters = defaults
	} else {
		for id, s := range defaults {
			if _, ok := d.adapters[id]; !ok {
				d.adapters[id] = s
			}
		}
	}

	if err := checkAdapters(d.adapters); err != nil {
		panic(err)
	}
	return d
}

// DefaultAdapters returns the built-in adapter table.
func DefaultAdapters(client *http.Client) map[core.ProviderID]core.Sender {
	compatible := openai.New(openai.WithHTTPClient(client))
	return map[core.ProviderID]core.Sender{
		core.ProviderSandbox: sandbox.New(sandbox.WithSDK(
			sandbox.NewOpenAISDK(option.WithHTTPClient(client)),
		)),
		core.ProviderOllama:     ollama.New(ollama.WithHTTPClient(client)),
		core.ProviderOpenAI:     compatible,
		core.ProviderAnthropic:  anthropic.New(anthropic.WithHTTPClient(client)),
		core.ProviderGemini:     gemini.New(gemini.WithHTTPClient(client)),
		core.ProviderOpenRouter: openai.New(openai.WithHTTPClient(client), openai.WithHeader("X-Title", "voiceprint")),
		core.ProviderCustom:     compatible,
	}
}

// checkAdapters verifies the table covers every member of the provider union.
func checkAdapters(adapters map[core.ProviderID]core.Sender) error {
	for _, id := range core.ProviderIDs() {
		if adapters[id] == nil {
			return fmt.Errorf("dispatch: no adapter for provider %q", id)
		}
	}
	return nil
}

// adapterFor selects the adapter for a resolved provider ID.
func (d *Dispatcher) adapterFor(id core.ProviderID) core.Sender {
	switch id {
	case core.ProviderSandbox, core.ProviderOllama, core.ProviderOpenAI, core.ProviderAnthropic,
		core.ProviderGemini, core.ProviderOpenRouter, core.ProviderCustom:
		return d.adapters[id]
	default:
		// providers.Lookup never yields an ID outside the union.
		panic(fmt.Sprintf("dispatch: unhandled provider %q", id))
	}
}

// Resolve returns a copy of req with the provider, base URL and model filled
// from the descriptor. Unknown provider IDs resolve to custom.
func Resolve(req *core.Request) *core.Request {
	desc := providers.Lookup(req.Provider)
	r := req.Clone()
	r.Provider = desc.ID
	r.BaseURL = desc.ResolveBaseURL(req.BaseURL)
	r.Model = desc.ResolveModel(req.Model)
	return r
}

// Send implements core.Sender.
func (d *Dispatcher) Send(ctx context.Context, req *core.Request) (string, error) {
	return d.Dispatch(ctx, req)
}

// Dispatch validates and resolves req, then makes exactly one adapter call.
func (d *Dispatcher) Dispatch(ctx context.Context, req *core.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	r := Resolve(req)
	if r.BaseURL == "" {
		return "", core.ErrBaseURLRequired
	}
	desc := providers.Lookup(r.Provider)
	if desc.RequiresKey && r.Credential.IsEmpty() {
		return "", missingCredential(desc)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	info := core.CallInfoFrom(ctx)
	start := time.Now()
	d.telemetry.OnRequestStart(core.RequestStartEvent{
		Session:   info.Session,
		Operation: info.Operation,
		Provider:  r.Provider,
		Model:     r.Model,
		Start:     start,
	})

	text, err := d.adapterFor(r.Provider).Send(ctx, r)

	end := core.RequestEndEvent{
		Session:   info.Session,
		Operation: info.Operation,
		Provider:  r.Provider,
		Model:     r.Model,
		Start:     start,
		End:       time.Now(),
		Chars:     len(text),
		Err:       err,
	}
	if err != nil {
		end.Kind = core.KindOf(err)
		end.Chars = 0
	}
	d.telemetry.OnRequestEnd(end)

	if err != nil {
		return "", err
	}
	return text, nil
}

func missingCredential(desc providers.Descriptor) error {
	msg := core.KindAuth.Describe(desc.Label)
	if desc.KeyEnv != "" {
		msg += " No API key was provided; set " + desc.KeyEnv + "."
	}
	return core.NewProviderError(desc.ID, core.KindAuth, 0, "missing_credential", msg)
}

var _ core.Sender = (*Dispatcher)(nil)
