// Package style holds the writing-style profile model, the prompts that
// produce and consume it, and lenient parsing of model output into a Profile.
package style

import (
	"fmt"
	"strings"
)

// Profile is a structured description of a writer's voice.
type Profile struct {
	Summary       string   `json:"summary" jsonschema_description:"Two or three sentences describing the overall voice"`
	Tone          []string `json:"tone" jsonschema_description:"Adjectives for the emotional register"`
	SentenceStyle string   `json:"sentence_style" jsonschema_description:"Typical sentence length and rhythm"`
	Vocabulary    string   `json:"vocabulary" jsonschema_description:"Word choice and formality"`
	Structure     string   `json:"structure" jsonschema_description:"How pieces open and close and how paragraphs are built"`
	Punctuation   string   `json:"punctuation" jsonschema_description:"Distinctive punctuation habits"`
	Quirks        []string `json:"quirks" jsonschema_description:"Recurring habits that make the voice recognizable"`
	Avoid         []string `json:"avoid" jsonschema_description:"Things this writer never does"`
	SamplePhrases []string `json:"sample_phrases" jsonschema_description:"Short phrases quoted from the samples"`
}

// IsZero reports whether no field carries content.
func (p Profile) IsZero() bool {
	return strings.TrimSpace(p.Summary) == "" &&
		strings.TrimSpace(p.SentenceStyle) == "" &&
		strings.TrimSpace(p.Vocabulary) == "" &&
		strings.TrimSpace(p.Structure) == "" &&
		strings.TrimSpace(p.Punctuation) == "" &&
		len(p.Tone) == 0 && len(p.Quirks) == 0 &&
		len(p.Avoid) == 0 && len(p.SamplePhrases) == 0
}

// DefaultProfile is the minimal profile used when an analysis cannot be read.
func DefaultProfile(summary string) Profile {
	if summary == "" {
		summary = "A clear, conversational first-person voice."
	}
	return Profile{
		Summary:       summary,
		Tone:          []string{"conversational"},
		SentenceStyle: "Mixed sentence lengths.",
		Vocabulary:    "Plain everyday words.",
		Structure:     "Short paragraphs.",
		Avoid:         []string{"em dashes", "bullet lists", "formulaic transitions"},
	}
}

// ContentType is the kind of piece being generated.
type ContentType string

const (
	PersonalSocial     ContentType = "personal-social"
	ProfessionalSocial ContentType = "professional-social"
	PersonalBlog       ContentType = "personal-blog"
	ProfessionalBlog   ContentType = "professional-blog"
	LongForm           ContentType = "long-form"
	Creative           ContentType = "creative"
)

// ContentTypes returns every content type.
func ContentTypes() []ContentType {
	return []ContentType{PersonalSocial, ProfessionalSocial, PersonalBlog, ProfessionalBlog, LongForm, Creative}
}

var contentGuidance = map[ContentType]string{
	PersonalSocial:     "A short personal social media post of one to three short paragraphs. Casual and direct.",
	ProfessionalSocial: "A professional social post such as on LinkedIn. Two to four short paragraphs with one concrete takeaway and no hashtags unless asked.",
	PersonalBlog:       "A personal blog post of roughly 400 to 800 words told from lived experience.",
	ProfessionalBlog:   "A professional blog post of roughly 600 to 1000 words that explains one idea with specific examples.",
	LongForm:           "A long-form essay of 1200 words or more with a clear throughline and varied pacing.",
	Creative:           "A creative piece such as a short story, vignette or poem. Favor imagery and specificity.",
}

// Valid reports whether ct is one of ContentTypes.
func (ct ContentType) Valid() bool {
	_, ok := contentGuidance[ct]
	return ok
}

// Guidance describes the expected shape of a piece of this type.
func (ct ContentType) Guidance() string {
	return contentGuidance[ct]
}

// ParseContentType accepts the dashed names case-insensitively.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !ct.Valid() {
		return "", fmt.Errorf("unknown content type %q: want one of %s", s, joinTypes())
	}
	return ct, nil
}

func joinTypes() string {
	names := make([]string, 0, len(contentGuidance))
	for _, ct := range ContentTypes() {
		names = append(names, string(ct))
	}
	return strings.Join(names, ", ")
}
