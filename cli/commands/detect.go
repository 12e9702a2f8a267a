package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// readInput returns --text, the named file, or stdin when the argument is
// absent or "-".
func (a *App) readInput(text string, args []string) (string, error) {
	if text != "" {
		return text, nil
	}
	var r io.Reader = a.stdin
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", exitWithCode(ExitValidation, err)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", exitWithCode(ExitValidation, fmt.Errorf("read input: %w", err))
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", exitWithCode(ExitValidation, errors.New("no input text"))
	}
	return string(b), nil
}

func (a *App) newDetectCommand() *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "detect [file|-]",
		Short: "Scan text for machine-generated patterns",
		Long: `Scan text for machine-generated stylistic patterns and print a scored report.
No provider call is made.

Examples:
  voiceprint detect draft.md
  pbpaste | voiceprint detect --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.readInput(text, args)
			if err != nil {
				return a.handleError(err)
			}
			report := a.newStudio().DetectSlop(in)
			if a.jsonOutput {
				return a.writeJSON(report)
			}
			a.writeReport(a.stdout, report)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "text to scan instead of a file")
	return cmd
}

func (a *App) newFixCommand() *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "fix [file|-]",
		Short: "Rewrite text to remove machine-generated patterns",
		Long: `Send text through the selected provider once to remove machine-generated
patterns. On any provider failure the original text is printed unchanged.

Examples:
  voiceprint fix draft.md --provider anthropic`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.readInput(text, args)
			if err != nil {
				return a.handleError(err)
			}
			sess, err := a.newSession()
			if err != nil {
				return a.handleError(err)
			}
			st := a.newStudio()
			fixed := st.FixSlop(cmd.Context(), sess, in)
			if a.jsonOutput {
				return a.writeJSON(map[string]any{
					"session": sess.ID,
					"text":    fixed,
					"changed": fixed != in,
					"report":  st.DetectSlop(fixed),
				})
			}
			a.printf(a.stdout, "%s\n", strings.TrimRight(fixed, "\n"))
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "text to fix instead of a file")
	return cmd
}
