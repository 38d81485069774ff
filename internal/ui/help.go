package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// renderHelpContent renders the help information shown in the pager
func (r *HelpRenderer) renderHelpContent(keys keyMap) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	entry := func(b *strings.Builder, k, desc string) {
		b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", k)), descStyle.Render(desc)))
	}

	var help strings.Builder
	help.WriteString(titleStyle.Render("BAM! - Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Search"))
	help.WriteString("\n")
	entry(&help, "type", "Show only apps whose name contains the text")
	entry(&help, keys.Clear.Help().Key, "Clear the search")
	help.WriteString(descStyle.Render("  Matching is case-sensitive and literal: no wildcards or patterns."))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Navigation"))
	help.WriteString("\n")
	entry(&help, keys.Up.Help().Key, "Previous app")
	entry(&help, keys.Down.Help().Key, "Next app")
	entry(&help, keys.Select.Help().Key, "Print the app URL and exit")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	entry(&help, keys.Help.Help().Key, "Show this help (q closes it)")
	entry(&help, keys.Quit.Help().Key, "Quit")

	return help.String()
}

// pagerCommand shows text in the ov pager. It satisfies tea.ExecCommand, so
// Bubble Tea releases the terminal while it runs.
type pagerCommand struct {
	content string
}

func (c *pagerCommand) SetStdin(io.Reader)  {}
func (c *pagerCommand) SetStdout(io.Writer) {}
func (c *pagerCommand) SetStderr(io.Writer) {}

// Run shows the content and blocks until the pager exits
func (c *pagerCommand) Run() error {
	root, err := oviewer.NewRoot(strings.NewReader(c.content))
	if err != nil {
		return err
	}

	// Don't write the content back to the screen on exit
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// showInPager returns a command that runs the pager with content
func showInPager(content string) tea.Cmd {
	return tea.Exec(&pagerCommand{content: content}, func(err error) tea.Msg {
		return helpPagerMsg{err: err}
	})
}
