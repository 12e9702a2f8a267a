package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (a *App) newAnalyzeCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "analyze <sample>...",
		Short: "Build a style profile from writing samples",
		Long: `Read one or more writing samples and ask the provider for a style profile.
The profile is printed as JSON, or written to --output for use with generate.

Examples:
  voiceprint analyze posts/*.md --output profile.json
  voiceprint analyze essay.txt --provider ollama --model llama3.2:3b`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples := make([]string, 0, len(args))
			for _, path := range args {
				b, err := os.ReadFile(path)
				if err != nil {
					return a.handleError(exitWithCode(ExitValidation, err))
				}
				samples = append(samples, string(b))
			}

			sess, err := a.newSession()
			if err != nil {
				return a.handleError(err)
			}
			profile, err := a.newStudio().AnalyzeSamples(cmd.Context(), sess, samples)
			if err != nil {
				return a.handleError(err)
			}

			data, err := json.MarshalIndent(profile, "", "  ")
			if err != nil {
				return err
			}
			if output == "" {
				a.printf(a.stdout, "%s\n", data)
				return nil
			}
			if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
				return a.handleError(exitWithCode(ExitValidation, fmt.Errorf("write profile: %w", err)))
			}
			if a.jsonOutput {
				return a.writeJSON(map[string]any{"session": sess.ID, "output": output, "profile": profile})
			}
			a.printf(a.stdout, "Wrote profile to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the profile to this file")
	return cmd
}
