// Package commands implements the voiceprint command structure using Cobra.
package commands

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/petal-labs/voiceprint/cli/config"
	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/studio"
	"github.com/petal-labs/voiceprint/telemetry/logging"
	"github.com/petal-labs/voiceprint/telemetry/metrics"
)

// ConfigLoader loads CLI config from a path.
type ConfigLoader func(path string) (*config.Config, error)

// PasswordReader reads a secret from the terminal without echo.
type PasswordReader func() (string, error)

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig   ConfigLoader
	readPassword PasswordReader
	getenv       func(string) string
	isTerminal   func() bool
	sender       core.Sender
	checker      studio.Checker
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer

	cfgFile    string
	provider   string
	model      string
	baseURL    string
	apiKey     string
	timeout    time.Duration
	jsonOutput bool
	verbose    bool
	noColor    bool

	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Collector
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// WithEnv replaces os.Getenv for credential lookup.
func WithEnv(getenv func(string) string) AppOption {
	return func(a *App) {
		if getenv != nil {
			a.getenv = getenv
		}
	}
}

// WithTerminal overrides terminal detection and the hidden prompt.
func WithTerminal(isTerminal func() bool, read PasswordReader) AppOption {
	return func(a *App) {
		if isTerminal != nil {
			a.isTerminal = isTerminal
		}
		if read != nil {
			a.readPassword = read
		}
	}
}

// WithSender replaces the dispatcher used by every command.
func WithSender(s core.Sender) AppOption {
	return func(a *App) { a.sender = s }
}

// WithChecker replaces the preflight validator.
func WithChecker(c studio.Checker) AppOption {
	return func(a *App) { a.checker = c }
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig: config.LoadConfig,
		getenv:     os.Getenv,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		readPassword: func() (string, error) {
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			return string(b), err
		},
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "voiceprint",
		Short: "voiceprint - write in your own voice with any LLM provider",
		Long: `voiceprint analyzes your writing samples into a style profile, generates new
text in that style, and detects and repairs text that reads as machine-generated.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags available to all commands.
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ~/.voiceprint/config.yaml)")
	pf.StringVar(&a.provider, "provider", "", "provider ID (sandbox, ollama, openai, anthropic, gemini, openrouter, custom)")
	pf.StringVar(&a.model, "model", "", "model ID (default: the provider's default model)")
	pf.StringVar(&a.baseURL, "base-url", "", "provider base URL (required for custom)")
	pf.StringVar(&a.apiKey, "api-key", "", "API key (default: environment)")
	pf.DurationVar(&a.timeout, "timeout", 0, "per-request timeout (default from config, 120s)")
	pf.BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	pf.BoolVar(&a.verbose, "verbose", false, "enable debug logging")
	pf.BoolVar(&a.noColor, "no-color", false, "disable coloured output")

	root.AddCommand(a.newProvidersCommand())
	root.AddCommand(a.newPreflightCommand())
	root.AddCommand(a.newDetectCommand())
	root.AddCommand(a.newFixCommand())
	root.AddCommand(a.newAnalyzeCommand())
	root.AddCommand(a.newGenerateCommand())
	root.AddCommand(a.newServeCommand())
	root.AddCommand(a.newInitCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command. Errors are reported on stderr and carry an
// exit code.
func (a *App) Execute() error {
	err := a.root.Execute()
	if err != nil {
		if _, ok := err.(*exitError); !ok {
			a.printf(a.stderr, "Error: %v\n", err)
			return exitWithCode(ExitValidation, err)
		}
	}
	return err
}

// SetArgs overrides os.Args for the root command.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

func (a *App) initConfig() error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := a.loadConfig(path)
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}
	a.cfg = cfg

	// Apply config defaults if flags not set.
	if a.provider == "" {
		a.provider = cfg.DefaultProvider
	}
	if a.model == "" {
		a.model = cfg.DefaultModel
	}
	if a.timeout == 0 {
		a.timeout = cfg.Timeout
	}

	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:   level,
		Format:  logging.Format(cfg.LogFormat),
		Writer:  a.stderr,
		NoColor: a.noColor,
	})
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}
	a.logger = logger
	return nil
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}
