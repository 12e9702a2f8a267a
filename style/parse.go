package style

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/petal-labs/voiceprint/core"
)

// ParseError is returned when model output cannot be read as a Profile.
// It matches core.ErrProfileParse with errors.Is.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("profile parse: %v", e.Err)
}

// Unwrap exposes both the profile-parse sentinel and the cause.
func (e *ParseError) Unwrap() []error {
	return []error{core.ErrProfileParse, e.Err}
}

var errNoObject = errors.New("no JSON object in response")

// ParseProfile reads a Profile out of raw model output. Markdown fences and
// surrounding prose are ignored; malformed JSON is repaired when possible.
func ParseProfile(raw string) (Profile, error) {
	body, ok := extractObject(stripFences(raw))
	if !ok {
		return Profile{}, &ParseError{Raw: raw, Err: errNoObject}
	}

	var p Profile
	err := json.Unmarshal([]byte(body), &p)
	if err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(body)
		if repairErr != nil {
			return Profile{}, &ParseError{Raw: raw, Err: fmt.Errorf("%w (repair: %v)", err, repairErr)}
		}
		p = Profile{}
		if err := json.Unmarshal([]byte(repaired), &p); err != nil {
			return Profile{}, &ParseError{Raw: raw, Err: err}
		}
	}

	if p.IsZero() {
		return Profile{}, &ParseError{Raw: raw, Err: errors.New("profile has no content")}
	}
	return p, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "```")
	if start < 0 {
		return s
	}
	rest := s[start+3:]
	// Drop the info string, e.g. ```json
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	}
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// extractObject returns the text from the first '{' to the last '}'. A
// missing closing brace keeps the tail so the repair step can close it.
func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(s, '}')
	if end < start {
		return s[start:], true
	}
	return s[start : end+1], true
}
