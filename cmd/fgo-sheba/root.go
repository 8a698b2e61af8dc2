package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quinnjr/fgo-sheba/internal/config"
	"github.com/quinnjr/fgo-sheba/internal/logging"
)

// errUsage marks errors caused by bad invocations rather than runtime
// failures; main maps it to a distinct exit code.
var errUsage = errors.New("invalid usage")

// appState carries the configuration resolved by the root command into
// the subcommands.
type appState struct {
	configPath string
	logLevel   string
	logFormat  string
	output     string

	cfg   config.Config
	runID string
}

func newRootCommand() *cobra.Command {
	app := &appState{}

	root := &cobra.Command{
		Use:           "fgo-sheba",
		Short:         "Collect and organize FGO image assets into training corpora",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&app.configPath, "config", "c", "", "configuration file path")
	pf.StringVar(&app.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&app.logFormat, "log-format", "text", "log format (text, json)")
	pf.StringVarP(&app.output, "output", "o", "", "output directory or bucket URL")

	root.AddCommand(newFetchCommand(app))
	root.AddCommand(newExtractCommand(app))
	root.AddCommand(newPrepareCommand(app))
	root.AddCommand(newValidateCommand(app))

	return root
}

// setup resolves configuration in precedence order: defaults, config
// file, environment, flags. It also initializes logging and stamps the
// run with an id.
func (app *appState) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if app.configPath != "" {
		loaded, err := config.LoadFromFile(app.configPath)
		if err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		cfg = loaded
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if app.output != "" {
		cfg.Output = app.output
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	level, err := logging.ParseLevel(app.logLevel)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	logging.Init(level, app.logFormat)

	app.cfg = cfg
	app.runID = uuid.NewString()
	slog.Info("run starting", "run_id", app.runID, "command", cmd.Name(), "output", cfg.Output)
	return nil
}
