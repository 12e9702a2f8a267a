package commands

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/petal-labs/voiceprint/providers"
)

func (a *App) newProvidersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List known providers and their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			descs := providers.Descriptors()
			if a.jsonOutput {
				out := make([]map[string]any, 0, len(descs))
				for _, d := range descs {
					out = append(out, map[string]any{
						"id":            d.ID,
						"label":         d.Label,
						"base_url":      d.BaseURL,
						"default_model": d.DefaultModel,
						"key_env":       d.KeyEnv,
						"requires_key":  d.RequiresKey,
					})
				}
				return a.writeJSON(out)
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			a.printf(tw, "ID\tLABEL\tDEFAULT MODEL\tKEY\tBASE URL\n")
			for _, d := range descs {
				key := "optional"
				if d.RequiresKey {
					key = d.KeyEnv
				}
				base := d.BaseURL
				if base == "" {
					base = "(required)"
				}
				a.printf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Label, d.DefaultModel, key, base)
			}
			return tw.Flush()
		},
	}
}
