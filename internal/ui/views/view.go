package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bam/internal/domain"
)

// chromeLines is the number of lines around the list: padding, title,
// search box with its border and margin, status and help.
const chromeLines = 9

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Tld           string
	Query         string
	SearchInput   string // rendered search box
	Apps          []domain.App
	Cursor        int // index into Apps of the selected app, -1 if none
	Total         int
	ShowPorts     bool
	ShowKind      bool
	StatusMessage string
	StatusIsError bool
	HelpLine      string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")
	content.WriteString(r.styles.Search.Render(state.SearchInput))
	content.WriteString("\n")

	switch {
	case state.Total == 0:
		content.WriteString(r.styles.Dim.Render("No apps configured."))
	case len(state.Apps) == 0:
		content.WriteString(r.styles.Dim.Render("No apps match"))
	default:
		content.WriteString(r.renderList(state))
	}
	content.WriteString("\n")

	if state.StatusMessage != "" {
		content.WriteString("\n")
		if state.StatusIsError {
			content.WriteString(r.styles.StatusError.Render(state.StatusMessage))
		} else {
			content.WriteString(r.styles.StatusInfo.Render(state.StatusMessage))
		}
	}

	if state.HelpLine != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.HelpLine))
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

// renderTitle renders the logo with the filter indicator and counts right aligned
func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("BAM!")

	right := r.styles.Count.Render(fmt.Sprintf("%d/%d", len(state.Apps), state.Total))
	if state.Query != "" {
		right = r.styles.Filter.Render(fmt.Sprintf("[Filter: %s]", state.Query)) + "  " + right
	}

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

// renderList renders the visible apps, scrolled so the cursor stays in view
func (r *Renderer) renderList(state ViewState) string {
	start, end := Window(len(state.Apps), state.Cursor, state.Height-chromeLines)

	var lines []string
	if start > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		lines = append(lines, r.renderApp(state, state.Apps[i], i == state.Cursor))
	}
	if end < len(state.Apps) {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("  ↓ %d more", len(state.Apps)-end)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderApp(state ViewState, app domain.App, selected bool) string {
	prefix := "  "
	if selected {
		prefix = "> "
	}

	name := r.highlight(app.Name, state.Query)
	parts := []string{prefix + name}

	if state.ShowKind {
		badge := lipgloss.NewStyle().Foreground(lipgloss.Color(KindColor(app.Kind)))
		parts = append(parts, badge.Render(string(app.Kind)))
	}
	if state.ShowPorts && app.Port > 0 {
		parts = append(parts, r.styles.Dim.Render(fmt.Sprintf(":%d", app.Port)))
	}
	if state.Tld != "" {
		parts = append(parts, r.styles.Dim.Render(app.URL(state.Tld)))
	}

	line := strings.Join(parts, "  ")
	if selected {
		return r.styles.SelectionBg.Render(line)
	}
	return line
}

// highlight marks the first occurrence of query in name
func (r *Renderer) highlight(name, query string) string {
	idx := strings.Index(name, query)
	if query == "" || idx < 0 {
		return r.styles.Name.Render(name)
	}
	return r.styles.Name.Render(name[:idx]) +
		r.styles.Highlight.Render(name[idx:idx+len(query)]) +
		r.styles.Name.Render(name[idx+len(query):])
}

// Window returns the [start, end) range of a list of n entries to draw in
// height lines so that cursor is included. A non-positive height draws all.
func Window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > n {
		end = n
		start = end - height
	}
	return start, end
}
