package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

func (a *App) newPreflightCommand() *cobra.Command {
	var secure bool
	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check that the selected provider is usable",
		Long: `Check that the selected provider is reachable and has the requested model
before spending a paid generation call.

Examples:
  voiceprint preflight --provider ollama --model llama3.2:3b
  voiceprint preflight --provider custom --base-url https://llm.internal/v1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.newSession()
			if err != nil {
				return a.handleError(err)
			}
			sess.SecureOrigin = secure

			res := a.newStudio().PreflightCheck(cmd.Context(), sess)
			if a.jsonOutput {
				if err := a.writeJSON(res); err != nil {
					return err
				}
			} else {
				if res.OK {
					a.printf(a.stdout, "OK: %s is ready\n", sess.Config.Provider)
				} else {
					a.printf(a.stdout, "FAIL: %s\n", res.Error)
				}
				for _, w := range res.Warnings {
					a.printf(a.stdout, "  warning: %s\n", w)
				}
				if res.Metadata != nil && len(res.Metadata.InstalledModels) > 0 {
					a.printf(a.stdout, "  installed models: %v\n", res.Metadata.InstalledModels)
				}
			}
			if !res.OK {
				return exitWithCode(ExitProvider, errors.New(res.Error))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&secure, "secure-origin", false, "treat the caller as an https page (mixed-content check)")
	return cmd
}
