package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"bam/internal/config"
)

func newConfigCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the bam config file",
	}
	cmd.AddCommand(newConfigInitCommand(e), newConfigPathCommand(e))
	return cmd
}

func newConfigInitCommand(e *env) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a config file with default values",
		Args:        usageArgs(cobra.NoArgs),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := configService(e)
			path := svc.Path()

			if _, err := os.Stat(path); err == nil && !force {
				return &ExitError{Code: 1, Err: fmt.Errorf("config file %s already exists (use --force to overwrite)", path)}
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			if err := svc.Save(config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func newConfigPathCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the config file location",
		Args:        usageArgs(cobra.NoArgs),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), configService(e).Path())
			return nil
		},
	}
}

// configService returns the service for --config or the default location
func configService(e *env) config.ConfigService {
	if e.configFile != "" {
		return config.NewConfigServiceForPath(e.configFile)
	}
	return config.NewConfigService()
}
