package slop

import "regexp"

// Severity ranks how strongly a pattern reads as machine-generated.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank orders severities; higher is worse.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Weight is the score contribution of one match at this severity.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 25
	case SeverityHigh:
		return 10
	case SeverityMedium:
		return 5
	case SeverityLow:
		return 2
	default:
		return 0
	}
}

// Rule is one entry of the detection table. A rule reports an issue when its
// pattern matches at least Threshold times.
type Rule struct {
	Type      string
	Severity  Severity
	Threshold int
	Pattern   *regexp.Regexp

	// Fix is the corrective instruction used in the repair prompt.
	Fix string
}

// DefaultRules is the detection table, evaluated in order. No rule is
// critical today; the tier exists for rules that should always force a repair.
var DefaultRules = []Rule{
	{
		Type:      "Em dashes",
		Severity:  SeverityHigh,
		Threshold: 1,
		Pattern:   regexp.MustCompile(`—| -- | – `),
		Fix:       "Replace every em dash or spaced dash with a comma, period, colon, or parentheses.",
	},
	{
		Type:      "Not X but Y",
		Severity:  SeverityHigh,
		Threshold: 1,
		Pattern:   regexp.MustCompile(`(?i)\bnot (?:just|only|merely) .{1,60}?,? but\b`),
		Fix:       `Remove "not just X but Y" framing; state the point directly.`,
	},
	{
		Type:      "Not X, Y",
		Severity:  SeverityMedium,
		Threshold: 1,
		Pattern:   regexp.MustCompile(`(?i)\bit'?s not (?:about )?\w+[^.]{0,40}, it'?s\b|\bisn't .{1,40}?—\s?it's\b`),
		Fix:       `Remove "it's not X, it's Y" contrasts.`,
	},
	{
		Type:      "Third-person self-reference",
		Severity:  SeverityHigh,
		Threshold: 1,
		Pattern:   regexp.MustCompile(`(?i)\b(?:the author|this writer|the writer|this author)\b`),
		Fix:       "Write in the first person; never refer to the writer in the third person.",
	},
	{
		Type:      "Formulaic transitions",
		Severity:  SeverityMedium,
		Threshold: 1,
		Pattern:   regexp.MustCompile(`(?i)\b(?:moreover|furthermore|additionally|consequently|in conclusion|ultimately|nevertheless)\b`),
		Fix:       "Drop formulaic transitions such as moreover, furthermore, additionally, and in conclusion.",
	},
	{
		Type:      "Rhetorical opener",
		Severity:  SeverityHigh,
		Threshold: 1,
		Pattern:   regexp.MustCompile(`(?im)^\s*(?:look|listen|here's the thing|let's be honest|the truth is|picture this|imagine this)[,.:!]`),
		Fix:       `Do not open sentences with rhetorical hooks like "Look," or "Here's the thing:".`,
	},
	{
		Type:      "Sycophantic acknowledgment",
		Severity:  SeverityHigh,
		Threshold: 1,
		Pattern:   regexp.MustCompile(`(?i)\b(?:great question|excellent question|you're absolutely right|what a great|i hope this helps|certainly!|absolutely!)`),
		Fix:       "Remove flattering or assistant-style acknowledgments.",
	},
	{
		Type:      "List formatting",
		Severity:  SeverityHigh,
		Threshold: 1,
		Pattern:   regexp.MustCompile(`(?m)^[ \t]*(?:[-*•]|\d{1,3}[.)])[ \t]`),
		Fix:       "Rewrite bullet points and numbered lists as flowing prose.",
	},
	{
		Type:      "Question then answer",
		Severity:  SeverityMedium,
		Threshold: 1,
		Pattern:   regexp.MustCompile(`(?i)\?\s+(?:the answer|simple|well,|it's|because)`),
		Fix:       "Avoid asking a rhetorical question and answering it immediately.",
	},
	{
		Type:      "Excessive exclamation",
		Severity:  SeverityLow,
		Threshold: 2,
		Pattern:   regexp.MustCompile(`!`),
		Fix:       "Use at most one exclamation mark.",
	},
	{
		Type:      "Hedge words",
		Severity:  SeverityLow,
		Threshold: 3,
		Pattern:   regexp.MustCompile(`(?i)\b(?:perhaps|arguably|somewhat|it seems|might be|could be|potentially)\b`),
		Fix:       "Cut hedges such as perhaps, arguably, and somewhat.",
	},
	{
		Type:      "Generic intensifiers",
		Severity:  SeverityLow,
		Threshold: 3,
		Pattern:   regexp.MustCompile(`(?i)\b(?:very|really|incredibly|extremely|truly|absolutely|deeply)\b`),
		Fix:       "Cut generic intensifiers such as very, really, and incredibly.",
	},
	{
		Type:      "Buzzwords",
		Severity:  SeverityMedium,
		Threshold: 1,
		Pattern:   regexp.MustCompile(`(?i)\b(?:delve|tapestry|testament|landscape|realm|navigate|leverage|unlock|game-changer|elevate)\b`),
		Fix:       "Replace buzzwords like delve, tapestry, and leverage with plain words.",
	},
}
