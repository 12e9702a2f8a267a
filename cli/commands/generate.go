package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petal-labs/voiceprint/studio"
	"github.com/petal-labs/voiceprint/style"
)

var errProfileFile = errors.New("profile file")

// loadProfile reads a profile file. An empty path gives the default profile.
func loadProfile(path string) (style.Profile, error) {
	if path == "" {
		return style.DefaultProfile("Clear, direct and conversational."), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return style.Profile{}, exitWithCode(ExitValidation, fmt.Errorf("%w: %w", errProfileFile, err))
	}
	p, err := style.ParseProfile(string(b))
	if err != nil {
		return style.Profile{}, exitWithCode(ExitValidation, fmt.Errorf("%w %s: %w", errProfileFile, path, err))
	}
	return p, nil
}

func (a *App) newGenerateCommand() *cobra.Command {
	var (
		profilePath  string
		contentType  string
		prompt       string
		extraContext string
		raw          bool
	)
	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate text in a profiled voice",
		Long: `Generate text in the voice described by a style profile. The result is
scanned for machine-generated patterns and repaired once when needed.

Content types: ` + strings.Join(contentTypeNames(), ", ") + `

Examples:
  voiceprint generate "why I switched to a standing desk" --profile profile.json
  voiceprint generate --prompt "launch notes" --type professional-blog --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if prompt == "" && len(args) > 0 {
				prompt = args[0]
			}
			ct, err := style.ParseContentType(contentType)
			if err != nil {
				return a.handleError(exitWithCode(ExitValidation, err))
			}
			profile, err := loadProfile(profilePath)
			if err != nil {
				return a.handleError(err)
			}
			sess, err := a.newSession()
			if err != nil {
				return a.handleError(err)
			}

			out, err := a.newStudio().GenerateContent(cmd.Context(), sess, studio.GenerateInput{
				Profile:      profile,
				Prompt:       prompt,
				ContentType:  ct,
				ExtraContext: extraContext,
			})
			if err != nil {
				return a.handleError(err)
			}

			if a.jsonOutput {
				return a.writeJSON(map[string]any{
					"session":  sess.ID,
					"text":     out.Text,
					"report":   out.Report,
					"repaired": out.Repaired,
				})
			}
			text := out.Text
			if !raw {
				text = a.renderMarkdown(text)
			}
			a.printf(a.stdout, "%s\n\n", strings.TrimRight(text, "\n"))
			a.writeReport(a.stderr, out.Report)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&profilePath, "profile", "", "style profile JSON from analyze (default: a neutral profile)")
	f.StringVarP(&contentType, "type", "t", string(style.PersonalSocial), "content type")
	f.StringVarP(&prompt, "prompt", "p", "", "what to write about")
	f.StringVar(&extraContext, "context", "", "additional context for the generation")
	f.BoolVar(&raw, "raw", false, "print the text without markdown rendering")
	return cmd
}

func contentTypeNames() []string {
	types := style.ContentTypes()
	names := make([]string, len(types))
	for i, ct := range types {
		names[i] = string(ct)
	}
	return names
}
