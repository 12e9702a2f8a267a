// Package slop detects machine-generated stylistic tics in text and runs a
// single bounded repair pass through an LLM provider.
package slop

import (
	"fmt"
	"strings"
)

// MaxExamples caps the distinct snippets kept per issue.
const MaxExamples = 3

// Issue is one rule that fired on a text.
type Issue struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Count    int      `json:"count"`
	Examples []string `json:"examples"`
}

// Report is the result of scanning a text.
type Report struct {
	Issues  []Issue `json:"issues"`
	Score   int     `json:"score"`
	Summary string  `json:"summary"`
}

// HasSeverity reports whether any issue is at least as severe as min.
func (r Report) HasSeverity(min Severity) bool {
	for _, is := range r.Issues {
		if is.Severity.Rank() >= min.Rank() {
			return true
		}
	}
	return false
}

// Detector evaluates a rule table against text.
type Detector struct {
	rules []Rule
}

// NewDetector returns a Detector over rules. A nil table uses DefaultRules.
func NewDetector(rules []Rule) *Detector {
	if rules == nil {
		rules = DefaultRules
	}
	return &Detector{rules: rules}
}

var defaultDetector = NewDetector(nil)

// Detect scans text with the default rule table.
func Detect(text string) Report {
	return defaultDetector.Detect(text)
}

// Detect runs every rule over text and scores the result.
func (d *Detector) Detect(text string) Report {
	issues := make([]Issue, 0)
	for _, r := range d.rules {
		if is, ok := r.scan(text); ok {
			issues = append(issues, is)
		}
	}
	return Report{
		Issues:  issues,
		Score:   Score(issues),
		Summary: Summarize(issues),
	}
}

func (r Rule) scan(text string) (Issue, bool) {
	if text == "" || r.Pattern == nil {
		return Issue{}, false
	}
	matches := r.Pattern.FindAllString(text, -1)
	threshold := r.Threshold
	if threshold < 1 {
		threshold = 1
	}
	if len(matches) < threshold {
		return Issue{}, false
	}

	examples := make([]string, 0, MaxExamples)
	seen := make(map[string]struct{}, MaxExamples)
	for _, m := range matches {
		if len(examples) == MaxExamples {
			break
		}
		snippet := strings.TrimSpace(m)
		if snippet == "" {
			snippet = m
		}
		key := strings.ToLower(snippet)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		examples = append(examples, snippet)
	}

	return Issue{
		Type:     r.Type,
		Severity: r.Severity,
		Count:    len(matches),
		Examples: examples,
	}, true
}

// Score sums severity weight times count, capped at 100.
func Score(issues []Issue) int {
	total := 0
	for _, is := range issues {
		total += is.Severity.Weight() * is.Count
		if total >= 100 {
			return 100
		}
	}
	return total
}

// Summarize renders a one-line description of issues.
func Summarize(issues []Issue) string {
	if len(issues) == 0 {
		return "No issues detected"
	}
	counts := make(map[Severity]int, 4)
	for _, is := range issues {
		counts[is.Severity]++
	}
	parts := make([]string, 0, 4)
	if n := counts[SeverityCritical]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d critical", n))
	}
	parts = append(parts,
		fmt.Sprintf("%d high", counts[SeverityHigh]),
		fmt.Sprintf("%d medium", counts[SeverityMedium]),
		fmt.Sprintf("%d low", counts[SeverityLow]),
	)
	noun := "issues"
	if len(issues) == 1 {
		noun = "issue"
	}
	return fmt.Sprintf("%d %s: %s", len(issues), noun, strings.Join(parts, ", "))
}
