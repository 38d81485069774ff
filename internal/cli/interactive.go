package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bam/internal/discovery"
	"bam/internal/ui"
)

// runInteractive shows the TUI. When an app is picked with enter its URL is
// printed so the result can be piped, e.g. `open $(bam)`.
func runInteractive(cmd *cobra.Command, e *env, watch bool) error {
	ctx := cmd.Context()
	policy, err := e.cfg.Policy()
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	svc := e.discovery()
	model := ui.NewModel(ui.Options{
		Apps:      svc.Discover(),
		Tld:       e.cfg.Tld,
		Policy:    policy,
		ShowPorts: e.cfg.UISettings.ShowPorts,
		ShowKind:  e.cfg.UISettings.ShowKind,
		Logger:    e.logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if watch {
		w, err := discovery.NewWatcher(e.cfg.AppsDir, discovery.DefaultDebounce, func() {
			p.Send(ui.AppsChangedMsg{Apps: svc.Discover()})
		}, e.logger)
		if err != nil {
			e.logger.Warn("Not watching apps directory", zap.Error(err))
		} else {
			w.Start(ctx)
			defer w.Close()
		}
	}

	e.logger.Info("Starting UI")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	e.logger.Info("UI exited normally")

	if app, ok := model.Selected(); ok {
		fmt.Fprintln(cmd.OutOrStdout(), app.URL(e.cfg.Tld))
	}
	return nil
}
