package sandbox

import (
	"context"
	"errors"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/providers/internal/normalize"
)

// signals is the sandbox-specific vocabulary, checked before the shared one.
var signals = []normalize.Signal{
	{All: []string{"usage limit"}, Kind: core.KindRateLimit},
	{All: []string{"usage_limit"}, Kind: core.KindRateLimit},
	{All: []string{"limit reached"}, Kind: core.KindRateLimit},
	{All: []string{"credits"}, Kind: core.KindRateLimit},
	{All: []string{"token expired"}, Kind: core.KindAuth},
	{All: []string{"session expired"}, Kind: core.KindAuth},
	{All: []string{"session has expired"}, Kind: core.KindAuth},
	{All: []string{"invalid session"}, Kind: core.KindAuth},
	{All: []string{"login required"}, Kind: core.KindAuth},
	{All: []string{"please login"}, Kind: core.KindAuth},
	{All: []string{"please log in"}, Kind: core.KindAuth},
	{All: []string{"outage"}, Kind: core.KindServiceUnavailable},
	{All: []string{"maintenance"}, Kind: core.KindServiceUnavailable},
}

var classifier = normalize.Classifier{Provider: core.ProviderSandbox, Signals: signals}

// fallbackKinds are the kinds for which the caller should offer another provider.
var fallbackKinds = map[core.ErrorKind]bool{
	core.KindRateLimit:          true,
	core.KindAuth:               true,
	core.KindServiceUnavailable: true,
}

// classify maps an SDK failure onto the taxonomy.
func classify(err error, url string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var pe *core.ProviderError
	var sdkErr *SDKError
	switch {
	case errors.As(err, &sdkErr):
		env := normalize.Envelope{Message: sdkErr.Message, Code: sdkErr.Code}
		kind := classifier.Classify(sdkErr.Status, env)
		pe = core.NewProviderError(core.ProviderSandbox, kind, sdkErr.Status, sdkErr.Code,
			normalize.Message(core.ProviderSandbox, kind, sdkErr.Message))
	default:
		// No response: either a signal in the SDK's wording or a transport failure.
		if kind, ok := normalize.MatchSignal(err.Error(), signals); ok {
			pe = core.NewProviderError(core.ProviderSandbox, kind, 0, "",
				normalize.Message(core.ProviderSandbox, kind, err.Error()))
			break
		}
		netErr := normalize.NetworkError(core.ProviderSandbox, url, err)
		if !errors.As(netErr, &pe) {
			return netErr
		}
	}

	pe.Fallback = fallbackKinds[pe.Kind]
	return pe
}

func newEmptyContentError() error {
	return normalize.EmptyContent(core.ProviderSandbox, "")
}
