package slop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/petal-labs/voiceprint/core"
)

// ErrNothingToRepair is returned by Repair when the report has no issues.
var ErrNothingToRepair = errors.New("slop: nothing to repair")

// Stage labels which scan produced a report.
type Stage string

const (
	StageInitial  Stage = "initial"
	StageRepaired Stage = "repaired"
)

// Observer receives scan and repair results. The metrics hook implements it.
type Observer interface {
	ObserveScan(stage Stage, r Report)
	ObserveRepair(err error)
}

// Outcome is the result of running the feedback loop over one text.
type Outcome struct {
	Text     string
	Report   Report
	Repaired bool

	// Initial is the report of the text before any repair.
	Initial Report
}

// Loop runs scan, an optional single repair, and a re-scan.
type Loop struct {
	detector *Detector
	sender   core.Sender
	trigger  Severity
	logger   *slog.Logger
	observer Observer
}

// Option configures a Loop.
type Option func(*Loop)

// WithDetector replaces the default rule table.
func WithDetector(d *Detector) Option {
	return func(l *Loop) { l.detector = d }
}

// WithTrigger sets the minimum severity that causes a repair. Default high.
func WithTrigger(s Severity) Option {
	return func(l *Loop) { l.trigger = s }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// WithObserver registers an Observer.
func WithObserver(o Observer) Option {
	return func(l *Loop) { l.observer = o }
}

// NewLoop returns a Loop that repairs through sender.
func NewLoop(sender core.Sender, opts ...Option) *Loop {
	l := &Loop{
		detector: defaultDetector,
		sender:   sender,
		trigger:  SeverityHigh,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Detect scans text with the loop's rule table.
func (l *Loop) Detect(text string) Report {
	return l.detector.Detect(text)
}

// Run scans text and, when an issue reaches the trigger severity, sends
// exactly one repair request built from base. A failed repair keeps the
// original text. Run never dispatches more than once.
func (l *Loop) Run(ctx context.Context, base *core.Request, text string) Outcome {
	initial := l.detector.Detect(text)
	l.observeScan(StageInitial, initial)
	out := Outcome{Text: text, Report: initial, Initial: initial}

	if !initial.HasSeverity(l.trigger) {
		return out
	}

	fixed, err := l.Repair(ctx, base, text, initial)
	if err != nil {
		l.logger.Warn("slop repair failed; keeping original text",
			"kind", core.KindOf(err), "error", err)
		return out
	}

	out.Text = fixed
	out.Repaired = true
	out.Report = l.detector.Detect(fixed)
	l.observeScan(StageRepaired, out.Report)
	l.logger.Debug("slop repair complete",
		"before", initial.Score, "after", out.Report.Score)
	return out
}

// Fix repairs text when it has any issue and returns the original text on
// any failure.
func (l *Loop) Fix(ctx context.Context, base *core.Request, text string) string {
	report := l.detector.Detect(text)
	fixed, err := l.Repair(ctx, base, text, report)
	if err != nil {
		if !errors.Is(err, ErrNothingToRepair) {
			l.logger.Warn("slop fix failed; returning original text",
				"kind", core.KindOf(err), "error", err)
		}
		return text
	}
	return fixed
}

// Repair sends a single corrective request for text and returns the trimmed
// reply. The request reuses the provider settings of base.
func (l *Loop) Repair(ctx context.Context, base *core.Request, text string, report Report) (string, error) {
	if len(report.Issues) == 0 {
		return "", ErrNothingToRepair
	}
	if base == nil {
		return "", errors.New("slop: repair needs a base request")
	}

	req := base.Clone()
	req.SystemMessage = RepairPrompt(report, l.detector.rules)
	req.UserMessage = text

	info := core.CallInfoFrom(ctx)
	info.Operation = core.OperationRepair
	raw, err := l.sender.Send(core.WithCallInfo(ctx, info), req)
	if err == nil {
		raw = TrimPreamble(raw)
		if raw == "" {
			err = core.NewProviderError(req.Provider, core.KindEmptyContent, 0, "", "")
		}
	}
	if l.observer != nil {
		l.observer.ObserveRepair(err)
	}
	if err != nil {
		return "", fmt.Errorf("slop repair: %w", err)
	}
	return raw, nil
}

func (l *Loop) observeScan(stage Stage, r Report) {
	if l.observer != nil {
		l.observer.ObserveScan(stage, r)
	}
}

// RepairPrompt renders the corrective system prompt for the issues in report.
// The detected issues come first, followed by every other rule.
func RepairPrompt(report Report, rules []Rule) string {
	var b strings.Builder
	b.WriteString("You are an editor. Rewrite the user's text so it reads as if a person wrote it. ")
	b.WriteString("Keep the meaning, facts, voice and approximate length. ")
	b.WriteString("Return only the rewritten text with no preamble, commentary or quotation marks.\n\n")

	detected := make(map[string]bool, len(report.Issues))
	b.WriteString("Problems found in this text:\n")
	for _, is := range report.Issues {
		detected[is.Type] = true
		fmt.Fprintf(&b, "- %s (%s, %d found", is.Type, is.Severity, is.Count)
		if len(is.Examples) > 0 {
			fmt.Fprintf(&b, ", e.g. %q", is.Examples[0])
		}
		b.WriteString(")")
		if fix := fixFor(rules, is.Type); fix != "" {
			b.WriteString(": " + fix)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nAlso follow these rules:\n")
	for _, r := range rules {
		if detected[r.Type] || r.Fix == "" {
			continue
		}
		b.WriteString("- " + r.Fix + "\n")
	}
	return b.String()
}

func fixFor(rules []Rule, typ string) string {
	for _, r := range rules {
		if r.Type == typ {
			return r.Fix
		}
	}
	return ""
}

// preambleLine matches a line that announces the rewrite rather than being
// part of it: "Here's the revised text", "Sure, here is a cleaner version",
// "Here you go".
var preambleLine = regexp.MustCompile(`(?i)^(?:(?:sure|certainly|of course|okay|absolutely)[,!.]?\s*)?` +
	`(?:here(?:'s|’s| is)\s+(?:the|a|an|your|my)\s+(?:[\w-]+\s+){0,3}?(?:text|version|draft|rewrite|revision|passage)\b|here (?:you go|it is)\b)` +
	`[^.!?]*$`)

// TrimPreamble removes a leading "Here's the revised text:" style line and any
// quotation marks wrapping the remaining text. Ordinary prose that happens to
// start with "Sure" or "Here's" is left alone.
func TrimPreamble(s string) string {
	return unquote(dropPreamble(strings.TrimSpace(s)))
}

func dropPreamble(t string) string {
	first, rest, multiline := strings.Cut(t, "\n")
	first = strings.TrimSpace(first)

	if !multiline {
		// "Here's the rewrite: actual text".
		if before, after, ok := strings.Cut(first, ": "); ok && preambleLine.MatchString(before) {
			if after = strings.TrimSpace(after); after != "" {
				return after
			}
		}
		return t
	}

	if !preambleLine.MatchString(first) {
		return t
	}
	next, _, _ := strings.Cut(rest, "\n")
	if !strings.HasSuffix(first, ":") && strings.TrimSpace(next) != "" {
		return t
	}
	if rest = strings.TrimSpace(rest); rest != "" {
		return rest
	}
	return t
}

var quotePairs = [][2]string{{`"`, `"`}, {"“", "”"}, {"'", "'"}}

func unquote(t string) string {
	for _, q := range quotePairs {
		if len(t) > len(q[0])+len(q[1]) && strings.HasPrefix(t, q[0]) && strings.HasSuffix(t, q[1]) {
			inner := t[len(q[0]) : len(t)-len(q[1])]
			if !strings.Contains(inner, q[0]) {
				return strings.TrimSpace(inner)
			}
		}
	}
	return t
}
