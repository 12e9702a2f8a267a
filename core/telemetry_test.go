package core

import (
	"context"
	"testing"
	"time"
)

type recordingHook struct {
	starts []RequestStartEvent
	ends   []RequestEndEvent
}

func (h *recordingHook) OnRequestStart(e RequestStartEvent) { h.starts = append(h.starts, e) }
func (h *recordingHook) OnRequestEnd(e RequestEndEvent)     { h.ends = append(h.ends, e) }

func TestMultiHookFansOut(t *testing.T) {
	a, b := &recordingHook{}, &recordingHook{}
	hook := MultiHook{a, nil, b}

	hook.OnRequestStart(RequestStartEvent{Provider: ProviderOpenAI})
	hook.OnRequestEnd(RequestEndEvent{Provider: ProviderOpenAI, Kind: KindAuth})

	for i, h := range []*recordingHook{a, b} {
		if len(h.starts) != 1 || len(h.ends) != 1 {
			t.Errorf("hook %d got %d starts, %d ends; want 1, 1", i, len(h.starts), len(h.ends))
		}
	}
	if a.ends[0].Kind != KindAuth {
		t.Errorf("Kind = %q, want auth", a.ends[0].Kind)
	}
}

func TestRequestEndEventDuration(t *testing.T) {
	start := time.Now()
	e := RequestEndEvent{Start: start, End: start.Add(1500 * time.Millisecond)}
	if e.Duration() != 1500*time.Millisecond {
		t.Errorf("Duration() = %v, want 1.5s", e.Duration())
	}
}

func TestNoopTelemetryHook(t *testing.T) {
	var h TelemetryHook = NoopTelemetryHook{}
	h.OnRequestStart(RequestStartEvent{})
	h.OnRequestEnd(RequestEndEvent{})
}

func TestCallInfoRoundTrip(t *testing.T) {
	ctx := WithCallInfo(context.Background(), CallInfo{Session: "s-1", Operation: OperationRepair})
	info := CallInfoFrom(ctx)
	if info.Session != "s-1" || info.Operation != OperationRepair {
		t.Errorf("CallInfoFrom() = %+v", info)
	}
	if got := CallInfoFrom(context.Background()).Operation; got != OperationSend {
		t.Errorf("default Operation = %q, want send", got)
	}
}
