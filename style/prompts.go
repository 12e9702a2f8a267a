package style

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/petal-labs/voiceprint/slop"
)

var reflector = jsonschema.Reflector{
	AllowAdditionalProperties: false,
	DoNotReference:            true,
	ExpandedStruct:            true,
}

var profileSchema = sync.OnceValue(func() string {
	schema := reflector.Reflect(&Profile{})
	schema.Version = ""
	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("style: profile schema: %v", err))
	}
	return string(b)
})

// ProfileSchema returns the JSON schema the analysis prompt asks for.
func ProfileSchema() string {
	return profileSchema()
}

// AnalysisSystemPrompt asks the model for a Profile as a bare JSON object.
func AnalysisSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are a writing-style analyst. Read the user's writing samples and describe the author's voice ")
	b.WriteString("precisely enough that another writer could imitate it.\n\n")
	b.WriteString("Respond with a single JSON object that validates against this schema and nothing else:\n\n")
	b.WriteString(ProfileSchema())
	b.WriteString("\n\nQuote sample phrases verbatim. Do not wrap the JSON in markdown.")
	return b.String()
}

// AnalysisUserPrompt joins samples with numbered separators.
func AnalysisUserPrompt(samples []string) string {
	var b strings.Builder
	n := 0
	for _, s := range samples {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n++
		if n > 1 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "--- Sample %d ---\n%s", n, s)
	}
	return b.String()
}

// GenerationSystemPrompt composes the instructions for writing in profile's
// voice. It lists every slop rule so the first draft avoids them.
func GenerationSystemPrompt(profile Profile, ct ContentType) string {
	var b strings.Builder
	b.WriteString("You are a ghostwriter. Write in the first person as the author described below. ")
	b.WriteString("Match their voice closely and never mention that you are imitating anyone.\n\n")

	b.WriteString("Author profile:\n")
	if p, err := json.MarshalIndent(profile, "", "  "); err == nil {
		b.Write(p)
	}
	b.WriteString("\n\n")

	if g := ct.Guidance(); g != "" {
		fmt.Fprintf(&b, "Format (%s): %s\n\n", ct, g)
	}

	b.WriteString("Writing rules:\n")
	for _, r := range slop.DefaultRules {
		b.WriteString("- " + r.Fix + "\n")
	}
	b.WriteString("\nReturn only the finished piece with no title unless the format needs one and no commentary.")
	return b.String()
}

// GenerationUserPrompt appends optional reference material to the prompt.
func GenerationUserPrompt(prompt, extraContext string) string {
	prompt = strings.TrimSpace(prompt)
	extraContext = strings.TrimSpace(extraContext)
	if extraContext == "" {
		return prompt
	}
	return prompt + "\n\nAdditional context:\n" + extraContext
}
