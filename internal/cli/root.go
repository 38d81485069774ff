// Package cli implements the cobra command tree for bam.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bam/internal/config"
	"bam/internal/discovery"
	"bam/internal/logging"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

// env is what every subcommand gets after the root pre-run: the loaded
// config, the logger and the config service it came from.
type env struct {
	configFile string
	logLevel   string

	cfg     *config.Config
	svc     config.ConfigService
	logger  *zap.Logger
	cleanup func()
}

// load resolves the config file and sets up logging
func (e *env) load() error {
	e.svc = configService(e)

	cfg, err := e.svc.Load()
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}
	if e.logLevel != "" {
		cfg.Log.Level = e.logLevel
		if err := cfg.Validate(); err != nil {
			return &ExitError{Code: 2, Err: err}
		}
	}
	e.cfg = cfg

	logger, cleanup, err := logging.Setup(cfg.Log)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}
	e.logger = logger
	e.cleanup = cleanup

	logger.Debug("Configuration loaded",
		zap.String("path", e.svc.Path()),
		zap.String("apps_dir", cfg.AppsDir),
		zap.String("missing_label", cfg.Filter.MissingLabel))
	return nil
}

func (e *env) close() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

// run wraps a RunE body so the logger is flushed and closed on every return
// path. cobra skips post-run hooks when RunE fails.
func (e *env) run(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer e.close()
		return fn(cmd, args)
	}
}

// usageArgs makes positional argument errors exit with the usage error code,
// like flag errors do.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &ExitError{Code: 2, Err: err}
		}
		return nil
	}
}

func (e *env) discovery() discovery.Service {
	return discovery.NewDiscoveryService(discovery.Source{
		AppsDir: e.cfg.AppsDir,
		Aliases: e.cfg.Aliases,
	}, e.logger)
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	e := &env{}
	var watch bool

	cmd := &cobra.Command{
		Use:   "bam",
		Short: "Search your local apps",
		Long: `bam lists the apps configured on this machine (aliases, Procfile apps
and static sites under the apps directory) and narrows the list as you
type. An app stays listed when its name contains the search text.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return nil
			}
			return e.load()
		},
		RunE: e.run(func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, e, watch || e.cfg.UISettings.Watch)
		}),
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&e.configFile, "config", "", "config file (default: ~/.bam/config.toml)")
	pf.StringVar(&e.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the list when the apps directory changes")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	cmd.AddCommand(
		newListCommand(e),
		newConfigCommand(e),
	)

	return cmd
}

// skipConfigAnnotation marks commands that must run without loading the config
const skipConfigAnnotation = "bam/skip-config"
