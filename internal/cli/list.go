package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bam/internal/domain"
	"bam/internal/filter"
)

// appSource adapts discovered apps to filter.Source
type appSource struct {
	apps    []domain.App
	visible []bool
}

func newAppSource(apps []domain.App) *appSource {
	return &appSource{apps: apps, visible: make([]bool, len(apps))}
}

func (s *appSource) Len() int { return len(s.apps) }

func (s *appSource) Label(i int) (string, bool) {
	return s.apps[i].Name, s.apps[i].Name != ""
}

func (s *appSource) SetVisible(i int, visible bool) { s.visible[i] = visible }

func newListCommand(e *env) *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "Print the apps whose name contains query",
		Long: `Print the apps whose name contains query, one per line, in the same
order as the interactive list. Without a query every app is printed.
Matching is literal and case-sensitive.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			policy, err := e.cfg.Policy()
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			src := newAppSource(e.discovery().Discover())
			if err := filter.New(policy).Run(query, src); err != nil {
				e.logger.Error("Filter failed", zap.String("query", query), zap.Error(err))
				if errors.Is(err, filter.ErrMissingLabel) {
					return &ExitError{Code: 1, Err: err}
				}
				return err
			}

			out := cmd.OutOrStdout()
			if !long {
				for i, app := range src.apps {
					if src.visible[i] {
						fmt.Fprintln(out, app.Name)
					}
				}
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for i, app := range src.apps {
				if !src.visible[i] {
					continue
				}
				port := "-"
				if app.Port > 0 {
					port = fmt.Sprint(app.Port)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", app.Name, app.Kind, port, app.URL(e.cfg.Tld))
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "also print kind, port and URL")
	return cmd
}
