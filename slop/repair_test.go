package slop

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petal-labs/voiceprint/core"
)

type fakeSender struct {
	mu    sync.Mutex
	reply string
	err   error
	reqs  []*core.Request
	infos []core.CallInfo
}

func (f *fakeSender) Send(ctx context.Context, req *core.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	f.infos = append(f.infos, core.CallInfoFrom(ctx))
	return f.reply, f.err
}

type recordingObserver struct {
	stages  []Stage
	repairs []error
}

func (o *recordingObserver) ObserveScan(stage Stage, _ Report) { o.stages = append(o.stages, stage) }
func (o *recordingObserver) ObserveRepair(err error)          { o.repairs = append(o.repairs, err) }

func baseRequest() *core.Request {
	return &core.Request{
		Provider:      core.ProviderOpenAI,
		Credential:    core.NewSecret("sk-test"),
		Model:         "gpt-4o-mini",
		SystemMessage: "write in my voice",
		UserMessage:   "a post about trains",
	}
}

const sloppy = "Great question. The author thinks trains matter — a lot."

func TestLoopRepairsOnceAndRescans(t *testing.T) {
	sender := &fakeSender{reply: "Here's the revised text:\n\nMoreover — trains still matter."}
	obs := &recordingObserver{}
	loop := NewLoop(sender, WithObserver(obs))

	initial := loop.Detect(sloppy)
	require.GreaterOrEqual(t, len(initial.Issues), 2)

	out := loop.Run(context.Background(), baseRequest(), sloppy)

	require.Len(t, sender.reqs, 1)
	assert.True(t, out.Repaired)
	assert.Equal(t, "Moreover — trains still matter.", out.Text)
	assert.NotEmpty(t, out.Report.Issues, "final report is returned even when issues remain")
	assert.Equal(t, initial, out.Initial)
	assert.Equal(t, []Stage{StageInitial, StageRepaired}, obs.stages)
	assert.Equal(t, []error{nil}, obs.repairs)

	sent := sender.reqs[0]
	assert.Equal(t, sloppy, sent.UserMessage)
	assert.Contains(t, sent.SystemMessage, "Em dashes")
	assert.Contains(t, sent.SystemMessage, "Third-person self-reference")
	assert.Equal(t, core.ProviderOpenAI, sent.Provider)
	assert.Equal(t, core.ModelID("gpt-4o-mini"), sent.Model)
	assert.Equal(t, "sk-test", sent.Credential.Expose())
}

func TestLoopRepairFailureKeepsText(t *testing.T) {
	sender := &fakeSender{err: core.NewProviderError(core.ProviderOpenAI, core.KindRateLimit, 429, "", "")}
	obs := &recordingObserver{}
	out := NewLoop(sender, WithObserver(obs)).Run(context.Background(), baseRequest(), sloppy)

	assert.Len(t, sender.reqs, 1)
	assert.False(t, out.Repaired)
	assert.Equal(t, sloppy, out.Text)
	assert.Equal(t, out.Initial, out.Report)
	require.Len(t, obs.repairs, 1)
	assert.Error(t, obs.repairs[0])
}

func TestLoopEmptyRepairKeepsText(t *testing.T) {
	sender := &fakeSender{reply: "  \n "}
	out := NewLoop(sender).Run(context.Background(), baseRequest(), sloppy)
	assert.False(t, out.Repaired)
	assert.Equal(t, sloppy, out.Text)
}

func TestLoopSkipsRepairBelowTrigger(t *testing.T) {
	sender := &fakeSender{reply: "unused"}
	out := NewLoop(sender).Run(context.Background(), baseRequest(), "Moreover, trains are fine.")

	assert.Empty(t, sender.reqs)
	assert.False(t, out.Repaired)
	assert.Len(t, out.Report.Issues, 1)
}

func TestLoopTriggerOption(t *testing.T) {
	sender := &fakeSender{reply: "Trains are fine."}
	out := NewLoop(sender, WithTrigger(SeverityMedium)).
		Run(context.Background(), baseRequest(), "Moreover, trains are fine.")

	assert.Len(t, sender.reqs, 1)
	assert.True(t, out.Repaired)
	assert.Empty(t, out.Report.Issues)
	assert.Equal(t, 0, out.Report.Score)
}

func TestRepairCallInfo(t *testing.T) {
	sender := &fakeSender{reply: "Trains matter to me."}
	ctx := core.WithCallInfo(context.Background(), core.CallInfo{Session: "s-1", Operation: core.OperationGenerate})

	_ = NewLoop(sender).Run(ctx, baseRequest(), sloppy)

	require.Len(t, sender.infos, 1)
	assert.Equal(t, core.CallInfo{Session: "s-1", Operation: core.OperationRepair}, sender.infos[0])
}

func TestRepairDoesNotMutateBase(t *testing.T) {
	sender := &fakeSender{reply: "Trains matter to me."}
	base := baseRequest()
	_ = NewLoop(sender).Run(context.Background(), base, sloppy)
	assert.Equal(t, "write in my voice", base.SystemMessage)
	assert.Equal(t, "a post about trains", base.UserMessage)
}

func TestFixReturnsOriginalOnFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("boom")}
	got := NewLoop(sender).Fix(context.Background(), baseRequest(), sloppy)
	assert.Equal(t, sloppy, got)
	assert.Len(t, sender.reqs, 1)
}

func TestFixNilBase(t *testing.T) {
	sender := &fakeSender{reply: "x"}
	got := NewLoop(sender).Fix(context.Background(), nil, sloppy)
	assert.Equal(t, sloppy, got)
	assert.Empty(t, sender.reqs)
}

func TestFixCleanTextSkipsDispatch(t *testing.T) {
	sender := &fakeSender{reply: "x"}
	text := "Trains run on time here."
	assert.Equal(t, text, NewLoop(sender).Fix(context.Background(), baseRequest(), text))
	assert.Empty(t, sender.reqs)
}

func TestFixRepairsMediumIssues(t *testing.T) {
	sender := &fakeSender{reply: `"Trains are fine."`}
	got := NewLoop(sender).Fix(context.Background(), baseRequest(), "Moreover, trains are fine.")
	assert.Equal(t, "Trains are fine.", got)
}

func TestRepairNothingToRepair(t *testing.T) {
	_, err := NewLoop(&fakeSender{}).Repair(context.Background(), baseRequest(), "fine", Report{})
	assert.ErrorIs(t, err, ErrNothingToRepair)
}

func TestRepairWrapsProviderError(t *testing.T) {
	pe := core.NewProviderError(core.ProviderAnthropic, core.KindAuth, 401, "", "")
	_, err := NewLoop(&fakeSender{err: pe}).Repair(context.Background(), baseRequest(), sloppy, Detect(sloppy))
	assert.ErrorIs(t, err, core.ErrAuth)
	assert.Equal(t, core.KindAuth, core.KindOf(err))
}

func TestRepairPromptListsDetectedFirst(t *testing.T) {
	r := Detect("Moreover, it works.")
	p := RepairPrompt(r, DefaultRules)
	assert.Contains(t, p, "- Formulaic transitions (medium, 1 found, e.g. \"Moreover\")")
	assert.Contains(t, p, "Replace every em dash")
	assert.NotContains(t, p, "Problems found in this text:\n- Em dashes")
}

func TestTrimPreamble(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Trains matter.", "Trains matter."},
		{"colon line", "Here's the revised text:\nTrains matter.", "Trains matter."},
		{"blank line", "Here is a cleaner version\n\nTrains matter.\n\nA lot.", "Trains matter.\n\nA lot."},
		{"sure", "Sure, here you go:\n\nTrains matter.", "Trains matter."},
		{"single line", "Here's the rewrite: Trains matter.", "Trains matter."},
		{"quoted", "Here's the revised text:\n\n\"Trains matter.\"", "Trains matter."},
		{"curly quotes", "“Trains matter.”", "Trains matter."},
		{"inner quotes kept", `"A" and "B"`, `"A" and "B"`},
		{"here in body", "Trains matter.\nHere's why: speed.", "Trains matter.\nHere's why: speed."},
		{"whitespace", "  Trains matter.  \n", "Trains matter."},
		{"sure in prose", "Sure enough, the storm came in at noon.\n\nWe stayed inside all day.", "Sure enough, the storm came in at noon.\n\nWe stayed inside all day."},
		{"okay in prose", "Okay, so I finally baked sourdough.\n\nIt went badly.", "Okay, so I finally baked sourdough.\n\nIt went badly."},
		{"here's in prose", "Here's what I learned in Tokyo.\n\nTrains run on time.", "Here's what I learned in Tokyo.\n\nTrains run on time."},
		{"colon in prose", "Here's the thing: nobody reads past the fold.", "Here's the thing: nobody reads past the fold."},
		{"plan heading", "Okay, here's the plan for Saturday:\nWe leave at eight.", "Okay, here's the plan for Saturday:\nWe leave at eight."},
		{"announcement without break", "Here is a version of events\nthat nobody believes.", "Here is a version of events\nthat nobody believes."},
		{"curly apostrophe", "Here’s the updated draft:\n\nTrains matter.", "Trains matter."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimPreamble(tt.in))
		})
	}
}
