package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/petal-labs/voiceprint/cli/config"
	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/providers"
)

func (a *App) newInitCommand() *cobra.Command {
	var (
		provider string
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter configuration file",
		Long: `Write a starter configuration file. The default location is
~/.voiceprint/config.yaml, or the --config path when given.

Examples:
  voiceprint init
  voiceprint init --provider anthropic ./voiceprint.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := core.ProviderID(provider)
			if !providers.Known(id) {
				return a.handleError(exitWithCode(ExitValidation,
					fmt.Errorf("unknown provider %q", provider)))
			}

			path := a.cfgFile
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return a.handleError(exitWithCode(ExitValidation,
					fmt.Errorf("%s already exists (use --force to overwrite)", path)))
			}

			if err := writeStarterConfig(path, providers.Lookup(id)); err != nil {
				return a.handleError(exitWithCode(ExitValidation, err))
			}

			a.printf(a.stdout, "Wrote %s\n", path)
			if d := providers.Lookup(id); d.KeyEnv != "" && d.RequiresKey {
				a.printf(a.stdout, "Next: export %s=<your-key>\n", d.KeyEnv)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", string(core.ProviderSandbox), "default provider")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func writeStarterConfig(path string, desc providers.Descriptor) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return starterConfig.Execute(f, struct {
		Provider providers.Descriptor
		Timeout  string
	}{desc, config.DefaultTimeout.String()})
}

var starterConfig = template.Must(template.New("config").Parse(`# voiceprint configuration
default_provider: {{.Provider.ID}}
{{- if .Provider.DefaultModel}}
default_model: {{.Provider.DefaultModel}}
{{- end}}
timeout: {{.Timeout}}
max_retries: 0
log_level: info
log_format: console

# Per-provider overrides. Keys are read from the environment, never stored here.
providers:
  {{.Provider.ID}}:
{{- if .Provider.BaseURL}}
    base_url: {{.Provider.BaseURL}}
{{- else}}
    base_url: https://example.com/v1
{{- end}}
{{- if .Provider.KeyEnv}}
    api_key_env: {{.Provider.KeyEnv}}
{{- end}}

server:
  listen_address: 127.0.0.1:8787
`))
