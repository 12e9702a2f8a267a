package dispatch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/petal-labs/voiceprint/core"
)

type recordingSender struct {
	mu    sync.Mutex
	reqs  []*core.Request
	text  string
	err   error
	delay time.Duration
}

func (s *recordingSender) Send(ctx context.Context, req *core.Request) (string, error) {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.text, s.err
}

type recordingHook struct {
	starts []core.RequestStartEvent
	ends   []core.RequestEndEvent
}

func (h *recordingHook) OnRequestStart(e core.RequestStartEvent) { h.starts = append(h.starts, e) }
func (h *recordingHook) OnRequestEnd(e core.RequestEndEvent)     { h.ends = append(h.ends, e) }

func baseRequest(id core.ProviderID) *core.Request {
	return &core.Request{
		Provider:      id,
		Credential:    core.NewSecret("key"),
		SystemMessage: "system",
		UserMessage:   "user",
	}
}

func TestDispatchTrailingSlashURL(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	req := baseRequest(core.ProviderOpenAI)
	req.BaseURL = server.URL + "/v1///"

	if _, err := New().Dispatch(context.Background(), req); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q, want /v1/chat/completions", gotPath)
	}
}

func TestDispatchResolvesDefaults(t *testing.T) {
	fake := &recordingSender{text: "done"}
	d := New(WithAdapter(core.ProviderOpenAI, fake))

	got, err := d.Dispatch(context.Background(), baseRequest(core.ProviderOpenAI))
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if got != "done" {
		t.Errorf("Dispatch() = %q, want done", got)
	}

	sent := fake.reqs[0]
	if sent.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("BaseURL = %q, want descriptor default", sent.BaseURL)
	}
	if sent.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want descriptor default", sent.Model)
	}
}

func TestDispatchExplicitModelWins(t *testing.T) {
	fake := &recordingSender{text: "done"}
	d := New(WithAdapter(core.ProviderAnthropic, fake))

	req := baseRequest(core.ProviderAnthropic)
	req.Model = "claude-opus-4-1"
	if _, err := d.Dispatch(context.Background(), req); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if fake.reqs[0].Model != "claude-opus-4-1" {
		t.Errorf("Model = %q, want explicit value", fake.reqs[0].Model)
	}
	if req.BaseURL != "" {
		t.Error("Dispatch must not mutate the caller's request")
	}
}

func TestDispatchUnknownProviderUsesCustom(t *testing.T) {
	fake := &recordingSender{text: "ok"}
	d := New(WithAdapter(core.ProviderCustom, fake))

	req := baseRequest("mistral")
	req.BaseURL = "http://llm.internal:8000/v1/"
	if _, err := d.Dispatch(context.Background(), req); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if fake.reqs[0].Provider != core.ProviderCustom {
		t.Errorf("Provider = %q, want custom", fake.reqs[0].Provider)
	}
	if fake.reqs[0].BaseURL != "http://llm.internal:8000/v1" {
		t.Errorf("BaseURL = %q", fake.reqs[0].BaseURL)
	}
	if fake.reqs[0].Model != "default" {
		t.Errorf("Model = %q, want default", fake.reqs[0].Model)
	}
}

func TestDispatchCustomRequiresBaseURL(t *testing.T) {
	fake := &recordingSender{text: "ok"}
	d := New(WithAdapter(core.ProviderCustom, fake))

	_, err := d.Dispatch(context.Background(), baseRequest(core.ProviderCustom))
	if !errors.Is(err, core.ErrBaseURLRequired) {
		t.Errorf("err = %v, want ErrBaseURLRequired", err)
	}
	if len(fake.reqs) != 0 {
		t.Error("adapter should not be called")
	}
}

func TestDispatchValidation(t *testing.T) {
	fake := &recordingSender{text: "ok"}
	d := New(WithAdapter(core.ProviderOpenAI, fake))

	req := baseRequest(core.ProviderOpenAI)
	req.UserMessage = ""
	if _, err := d.Dispatch(context.Background(), req); !errors.Is(err, core.ErrUserMessageRequired) {
		t.Errorf("err = %v, want ErrUserMessageRequired", err)
	}
	if len(fake.reqs) != 0 {
		t.Error("adapter should not be called")
	}
}

func TestDispatchMissingCredential(t *testing.T) {
	fake := &recordingSender{text: "ok"}
	d := New(WithAdapter(core.ProviderGemini, fake), WithAdapter(core.ProviderSandbox, fake))

	req := baseRequest(core.ProviderGemini)
	req.Credential = core.Secret{}
	_, err := d.Dispatch(context.Background(), req)
	if core.KindOf(err) != core.KindAuth {
		t.Errorf("KindOf() = %q, want auth", core.KindOf(err))
	}
	if len(fake.reqs) != 0 {
		t.Error("adapter should not be called without a credential")
	}

	req = baseRequest(core.ProviderSandbox)
	req.Credential = core.Secret{}
	if _, err := d.Dispatch(context.Background(), req); err != nil {
		t.Errorf("sandbox needs no credential, got %v", err)
	}
}

func TestDispatchPropagatesErrorUnchanged(t *testing.T) {
	want := core.NewProviderError(core.ProviderSandbox, core.KindRateLimit, 429, "", "")
	want.Fallback = true
	fake := &recordingSender{err: want}
	d := New(WithAdapter(core.ProviderSandbox, fake))

	_, err := d.Dispatch(context.Background(), baseRequest(core.ProviderSandbox))
	if err != want {
		t.Errorf("err = %v, want the adapter's error unchanged", err)
	}
	if len(fake.reqs) != 1 {
		t.Errorf("adapter calls = %d, want exactly 1", len(fake.reqs))
	}
}

func TestDispatchNeverRetries(t *testing.T) {
	fake := &recordingSender{err: core.NewProviderError(core.ProviderOpenAI, core.KindServiceUnavailable, 503, "", "")}
	d := New(WithAdapter(core.ProviderOpenAI, fake))

	d.Dispatch(context.Background(), baseRequest(core.ProviderOpenAI))
	if len(fake.reqs) != 1 {
		t.Errorf("adapter calls = %d, want 1", len(fake.reqs))
	}
}

func TestDispatchTimeout(t *testing.T) {
	fake := &recordingSender{text: "late", delay: time.Second}
	d := New(WithAdapter(core.ProviderOpenAI, fake))

	req := baseRequest(core.ProviderOpenAI)
	req.Timeout = 20 * time.Millisecond
	_, err := d.Dispatch(context.Background(), req)
	if core.KindOf(err) != core.KindTimeout {
		t.Errorf("KindOf() = %q, want timeout", core.KindOf(err))
	}
}

func TestDispatchTelemetry(t *testing.T) {
	hook := &recordingHook{}
	fake := &recordingSender{text: "hello"}
	d := New(WithAdapter(core.ProviderOpenAI, fake), WithTelemetry(hook))

	ctx := core.WithCallInfo(context.Background(), core.CallInfo{Session: "sess-1", Operation: core.OperationGenerate})
	if _, err := d.Dispatch(ctx, baseRequest(core.ProviderOpenAI)); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(hook.starts) != 1 || len(hook.ends) != 1 {
		t.Fatalf("events = %d starts, %d ends; want 1, 1", len(hook.starts), len(hook.ends))
	}
	end := hook.ends[0]
	if end.Session != "sess-1" || end.Operation != core.OperationGenerate {
		t.Errorf("call info = %q/%q", end.Session, end.Operation)
	}
	if end.Provider != core.ProviderOpenAI || end.Model != "gpt-4o-mini" {
		t.Errorf("provider/model = %q/%q", end.Provider, end.Model)
	}
	if end.Chars != 5 || end.Kind != "" {
		t.Errorf("Chars = %d, Kind = %q", end.Chars, end.Kind)
	}
}

func TestCheckAdaptersReportsGap(t *testing.T) {
	table := DefaultAdapters(http.DefaultClient)
	delete(table, core.ProviderGemini)
	if err := checkAdapters(table); err == nil {
		t.Error("checkAdapters() should fail when a provider has no adapter")
	}
	if err := checkAdapters(DefaultAdapters(http.DefaultClient)); err != nil {
		t.Errorf("default table incomplete: %v", err)
	}
}
