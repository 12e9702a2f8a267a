package core

import (
	"context"
	"time"
)

// TelemetryHook receives notifications about dispatch lifecycle events.
//
// Events carry operational metadata only. Credentials, prompt text and
// generated text are never part of an event, so hooks may log or export them
// freely.
type TelemetryHook interface {
	// OnRequestStart is called before a dispatch reaches its adapter.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called when a dispatch completes, successfully or not.
	OnRequestEnd(e RequestEndEvent)
}

// Operation labels why a dispatch happened.
type Operation string

const (
	OperationSend     Operation = "send"
	OperationAnalyze  Operation = "analyze"
	OperationGenerate Operation = "generate"
	OperationRepair   Operation = "repair"
)

// RequestStartEvent contains metadata about a starting dispatch.
type RequestStartEvent struct {
	Session   string
	Operation Operation
	Provider  ProviderID
	Model     ModelID
	Start     time.Time
}

// RequestEndEvent contains metadata about a completed dispatch.
// Kind is empty on success.
type RequestEndEvent struct {
	Session   string
	Operation Operation
	Provider  ProviderID
	Model     ModelID
	Start     time.Time
	End       time.Time
	Chars     int
	Kind      ErrorKind
	Err       error
}

// Duration returns the elapsed time for the dispatch.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook is a no-op implementation of TelemetryHook.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

// MultiHook fans events out to several hooks in order. Nil hooks are skipped.
type MultiHook []TelemetryHook

// OnRequestStart forwards e to every hook.
func (m MultiHook) OnRequestStart(e RequestStartEvent) {
	for _, h := range m {
		if h != nil {
			h.OnRequestStart(e)
		}
	}
}

// OnRequestEnd forwards e to every hook.
func (m MultiHook) OnRequestEnd(e RequestEndEvent) {
	for _, h := range m {
		if h != nil {
			h.OnRequestEnd(e)
		}
	}
}

var (
	_ TelemetryHook = NoopTelemetryHook{}
	_ TelemetryHook = MultiHook(nil)
)

type callInfoKey struct{}

// CallInfo labels a dispatch for telemetry. It travels in the context so the
// canonical Request stays free of bookkeeping.
type CallInfo struct {
	Session   string
	Operation Operation
}

// WithCallInfo returns a context carrying info.
func WithCallInfo(ctx context.Context, info CallInfo) context.Context {
	return context.WithValue(ctx, callInfoKey{}, info)
}

// CallInfoFrom returns the CallInfo stored in ctx, defaulting the operation to send.
func CallInfoFrom(ctx context.Context) CallInfo {
	info, _ := ctx.Value(callInfoKey{}).(CallInfo)
	if info.Operation == "" {
		info.Operation = OperationSend
	}
	return info
}
