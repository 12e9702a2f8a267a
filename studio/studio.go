// Package studio exposes the voiceprint operations: sending a request,
// preflight checks, slop detection and repair, style analysis and generation.
package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/dispatch"
	"github.com/petal-labs/voiceprint/preflight"
	"github.com/petal-labs/voiceprint/slop"
	"github.com/petal-labs/voiceprint/style"
)

// ErrInvalidInput is wrapped by every input validation error.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrNoSamples       = fmt.Errorf("%w: at least one non-empty writing sample is required", ErrInvalidInput)
	ErrPromptRequired  = fmt.Errorf("%w: a prompt is required", ErrInvalidInput)
	ErrSessionRequired = fmt.Errorf("%w: a session is required", ErrInvalidInput)
)

// PreflightError is returned by GenerateContent when the provider check fails.
type PreflightError struct {
	Result preflight.Result
}

func (e *PreflightError) Error() string {
	return "preflight failed: " + e.Result.Error
}

// Checker runs preflight checks.
type Checker interface {
	Check(ctx context.Context, cfg preflight.Config) preflight.Result
}

// Studio wires the dispatcher, preflight validator and feedback loop together.
// It holds no per-action state and is safe for concurrent use.
type Studio struct {
	sender   core.Sender
	checker  Checker
	retry    core.RetryPolicy
	logger   *slog.Logger
	loopOpts []slop.Option
	loop     *slop.Loop
}

// Option configures a Studio.
type Option func(*Studio)

// WithSender replaces the default dispatcher.
func WithSender(s core.Sender) Option {
	return func(st *Studio) { st.sender = s }
}

// WithChecker replaces the default preflight validator.
func WithChecker(c Checker) Option {
	return func(st *Studio) { st.checker = c }
}

// WithRetryPolicy sets the policy applied around the primary generation call.
// Repair calls are never retried.
func WithRetryPolicy(p core.RetryPolicy) Option {
	return func(st *Studio) { st.retry = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(st *Studio) { st.logger = l }
}

// WithSlopObserver receives slop scan and repair results.
func WithSlopObserver(o slop.Observer) Option {
	return func(st *Studio) { st.loopOpts = append(st.loopOpts, slop.WithObserver(o)) }
}

// WithSlopOptions passes options through to the feedback loop.
func WithSlopOptions(opts ...slop.Option) Option {
	return func(st *Studio) { st.loopOpts = append(st.loopOpts, opts...) }
}

// New returns a Studio. Without options it dispatches through dispatch.New
// and checks with preflight.New.
func New(opts ...Option) *Studio {
	st := &Studio{
		retry:  core.NoRetry(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(st)
	}
	if st.sender == nil {
		st.sender = dispatch.New()
	}
	if st.checker == nil {
		st.checker = preflight.New(preflight.WithLogger(st.logger))
	}
	loopOpts := append([]slop.Option{slop.WithLogger(st.logger)}, st.loopOpts...)
	st.loop = slop.NewLoop(st.sender, loopOpts...)
	return st
}

// SendRequest dispatches req once and returns the generated text.
func (st *Studio) SendRequest(ctx context.Context, req *core.Request) (string, error) {
	return st.sender.Send(ctx, req)
}

// PreflightCheck verifies the session's provider is usable.
func (st *Studio) PreflightCheck(ctx context.Context, s *Session) preflight.Result {
	if s == nil {
		return preflight.Result{Error: ErrSessionRequired.Error()}
	}
	return st.checker.Check(ctx, s.preflightConfig())
}

// DetectSlop scans text with the loop's rule table.
func (st *Studio) DetectSlop(text string) slop.Report {
	return st.loop.Detect(text)
}

// FixSlop repairs text through the session's provider. Any failure returns
// text unchanged.
func (st *Studio) FixSlop(ctx context.Context, s *Session, text string) string {
	if s == nil {
		return text
	}
	ctx = s.context(ctx, core.OperationRepair)
	return st.loop.Fix(ctx, s.Config.Request("", text), text)
}

// AnalyzeSamples asks the provider for a style profile of samples. An answer
// that cannot be parsed degrades to style.DefaultProfile; provider errors are
// returned.
func (st *Studio) AnalyzeSamples(ctx context.Context, s *Session, samples []string) (style.Profile, error) {
	if s == nil {
		return style.Profile{}, ErrSessionRequired
	}
	user := style.AnalysisUserPrompt(samples)
	if user == "" {
		return style.Profile{}, ErrNoSamples
	}

	raw, err := st.sender.Send(s.context(ctx, core.OperationAnalyze), s.Config.Request(style.AnalysisSystemPrompt(), user))
	if err != nil {
		return style.Profile{}, err
	}

	profile, err := style.ParseProfile(raw)
	if err != nil {
		st.logger.Warn("style analysis unreadable; using default profile",
			"session", s.ID, "provider", s.Config.Provider, "error", err)
		return style.DefaultProfile(
			"The style analysis could not be read, so a general conversational profile is used. Try analyzing again or with different samples."), nil
	}
	return profile, nil
}

// GenerateInput is the user's generation request.
type GenerateInput struct {
	Profile      style.Profile
	Prompt       string
	ContentType  style.ContentType
	ExtraContext string
}

// GenerationOutcome is the final text with its slop report.
type GenerationOutcome struct {
	Text     string      `json:"text"`
	Report   slop.Report `json:"report"`
	Repaired bool        `json:"repaired"`
}

// GenerateContent runs preflight, the generation dispatch and the feedback
// loop. The generation call is retried per the retry policy; the repair call
// is made at most once and its failure keeps the generated text.
func (st *Studio) GenerateContent(ctx context.Context, s *Session, in GenerateInput) (GenerationOutcome, error) {
	if s == nil {
		return GenerationOutcome{}, ErrSessionRequired
	}
	if strings.TrimSpace(in.Prompt) == "" {
		return GenerationOutcome{}, ErrPromptRequired
	}
	if !in.ContentType.Valid() {
		return GenerationOutcome{}, fmt.Errorf("%w: unknown content type %q", ErrInvalidInput, in.ContentType)
	}

	if res := st.checker.Check(ctx, s.preflightConfig()); !res.OK {
		return GenerationOutcome{}, &PreflightError{Result: res}
	}

	req := s.Config.Request(
		style.GenerationSystemPrompt(in.Profile, in.ContentType),
		style.GenerationUserPrompt(in.Prompt, in.ExtraContext),
	)
	genCtx := s.context(ctx, core.OperationGenerate)
	text, err := core.Retry(genCtx, st.retry, func(ctx context.Context) (string, error) {
		return st.sender.Send(ctx, req)
	})
	if err != nil {
		return GenerationOutcome{}, err
	}

	out := st.loop.Run(s.context(ctx, core.OperationRepair), req, text)
	st.logger.Info("generation complete",
		"session", s.ID,
		"provider", s.Config.Provider,
		"content_type", in.ContentType,
		"score", out.Report.Score,
		"repaired", out.Repaired,
	)
	return GenerationOutcome{Text: out.Text, Report: out.Report, Repaired: out.Repaired}, nil
}
