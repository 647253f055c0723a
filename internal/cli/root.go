package cli

import (
	"fmt"
	"os"
	"strings"

	"triage-cli/internal/api"
	"triage-cli/internal/buffer"
	"triage-cli/internal/config"
	"triage-cli/internal/format"
	"triage-cli/internal/logging"
	"triage-cli/internal/session"
	"triage-cli/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	ConfigPath string
	Server     string
	Strategy   string
	Buffer     string
	LogFile    string
	Debug      bool
	PrettyJSON bool
	Format     string

	cfg *config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	// Errors are printed by Execute, writeErr or the notice line, never by cobra.
	cmd := &cobra.Command{
		Use:           "triage",
		Short:         "Task triage client (TUI + scriptable commands)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI on ./tasks.json
  triage

  # Open the TUI on another buffer file (shortcut for: triage --buffer work.json)
  triage work.json

  # Scriptable commands
  triage add --title "Ship report" --hours 2 --due 2025-12-01
  triage analyze --strategy deadline_driven --save last.json
  triage suggest --html today.html
  triage render --in last.json --out report.html
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		_ = logging.Sync(app.log)
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("TRIAGE_CONFIG", ""), "Path to config file (default: $XDG_CONFIG_HOME/triage/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.Server, "server", "", "Triage service base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&app.Strategy, "strategy", "", "Scoring strategy (smart_balance|deadline_driven|high_impact|fastest_wins)")
	cmd.PersistentFlags().StringVar(&app.Buffer, "buffer", "", "Path to the JSON task buffer (default: tasks.json)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Append JSON logs to this file")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TRIAGE_FORMAT", "json"), "Output format (json|edn)")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newAnalyzeCmd(app))
	cmd.AddCommand(newSuggestCmd(app))
	cmd.AddCommand(newRenderCmd(app))

	return cmd
}

// load reads the config and lets explicitly set flags win over it.
func (app *App) load(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.Server = app.Server
	}
	if flags.Changed("strategy") {
		cfg.Strategy = app.Strategy
	}
	if flags.Changed("buffer") {
		cfg.Buffer = app.Buffer
	}
	if flags.Changed("log-file") {
		cfg.LogFile = app.LogFile
	}
	if flags.Changed("debug") {
		cfg.Debug = app.Debug
	}
	app.cfg = cfg

	// The TUI owns the terminal; only subcommands may log to stderr.
	log, err := logging.New(logging.Options{
		File:   cfg.LogFile,
		Stderr: cfg.Debug && cmd.HasParent(),
		Debug:  cfg.Debug,
	})
	if err != nil {
		return writeErr(cmd, fmt.Errorf("init logger: %w", err))
	}
	app.log = log
	return nil
}

func (app *App) client() (*api.Client, error) {
	return api.NewClient(app.cfg.Server, api.WithTimeout(app.cfg.Timeout), api.WithLogger(app.log))
}

func (app *App) bufferFile() *buffer.File {
	return &buffer.File{Path: app.cfg.Buffer}
}

func runTUI(cmd *cobra.Command, app *App) error {
	c, err := app.client()
	if err != nil {
		return writeErr(cmd, err)
	}
	err = tui.Run(cmd.Context(), tui.Options{
		Service:     c,
		Strategy:    app.cfg.Strategy,
		Weights:     app.cfg.Weights,
		File:        app.bufferFile(),
		NotifyDelay: app.cfg.NotifyDelay,
		NoColor:     app.cfg.NoColor,
		Logger:      app.log,
	})
	if err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func newOrchestrator(app *App, p session.Ports, svc session.Service) *session.Orchestrator {
	return session.New(p, svc, session.WithLogger(app.log), session.WithWeights(app.cfg.Weights))
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return reportedError{err: err}
}
