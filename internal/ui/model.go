package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"bam/internal/domain"
	"bam/internal/filter"
	"bam/internal/ui/views"
)

// statusTimeout is how long informational status messages stay visible
const statusTimeout = 3 * time.Second

// Options configures a Model
type Options struct {
	Apps      []domain.App
	Tld       string
	Policy    filter.MissingLabelPolicy
	ShowPorts bool
	ShowKind  bool
	Logger    *zap.Logger
}

// Model represents the UI state
type Model struct {
	opts   Options
	logger *zap.Logger

	search  textinput.Model
	rows    rowList
	trigger *filter.Trigger
	cursor  int // position among the visible rows

	width  int
	height int

	keys         keyMap
	help         help.Model
	helpRenderer *HelpRenderer
	renderer     *views.Renderer
	openPager    func(content string) tea.Cmd

	statusMessage string
	statusIsError bool

	selected    domain.App
	hasSelected bool
}

// NewModel creates a new UI model and runs the filter once for the empty query
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "app name"
	search.Focus()

	m := &Model{
		opts:         opts,
		logger:       logger,
		search:       search,
		rows:         newRowList(opts.Apps),
		keys:         defaultKeyMap(),
		help:         help.New(),
		helpRenderer: NewHelpRenderer(),
		renderer:     views.NewRenderer(),
		openPager:    showInPager,
	}
	m.trigger = filter.NewTrigger(filter.New(opts.Policy), m.rows)
	m.applyQuery("")

	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = msg.Width - len(m.search.Prompt) - 6
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case AppsChangedMsg:
		m.setApps(msg.Apps)
		if m.statusIsError {
			return m, nil
		}
		return m, m.setStatus(fmt.Sprintf("%d apps loaded", len(msg.Apps)), false)

	case helpPagerMsg:
		if msg.err != nil {
			m.logger.Warn("Help pager failed", zap.Error(msg.err))
			return m, m.setStatus(fmt.Sprintf("Help pager failed: %v", msg.err), true)
		}
		return m, nil

	case clearStatusMsg:
		if !m.statusIsError {
			m.statusMessage = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Select):
		app, ok := m.Current()
		if !ok {
			return m, nil
		}
		m.selected = app
		m.hasSelected = true
		m.logger.Info("App selected", zap.String("name", app.Name))
		return m, tea.Quit

	case key.Matches(msg, m.keys.Clear):
		m.search.SetValue("")
		m.applyQuery("")
		return m, nil

	case key.Matches(msg, m.keys.Help):
		return m, m.openPager(m.helpRenderer.renderHelpContent(m.keys))
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyQuery(m.search.Value())
	return m, cmd
}

// applyQuery re-runs the filter if query changed since the last run
func (m *Model) applyQuery(query string) {
	ran, err := m.trigger.Set(query)
	if !ran {
		return
	}
	m.afterFilter(err)
}

// setApps replaces the listed apps and filters them with the current query
func (m *Model) setApps(apps []domain.App) {
	current, hadCurrent := m.Current()

	m.opts.Apps = apps
	m.rows = newRowList(apps)
	err := m.trigger.Rebind(m.rows)
	m.logger.Info("App list updated", zap.Int("count", len(apps)))

	m.cursor = 0
	if hadCurrent {
		for pos, idx := range m.rows.visibleIndices() {
			if m.rows[idx].app.Name == current.Name {
				m.cursor = pos
				break
			}
		}
	}
	m.afterFilter(err)
}

func (m *Model) afterFilter(err error) {
	if err != nil {
		m.logger.Error("Filter failed", zap.String("query", m.trigger.Query()), zap.Error(err))
		m.statusMessage = fmt.Sprintf("filter: %v", err)
		m.statusIsError = true
	} else if m.statusIsError {
		m.statusMessage = ""
		m.statusIsError = false
	}

	visible := len(m.rows.visibleIndices())
	if m.cursor >= visible {
		m.cursor = visible - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	m.logger.Debug("Filter applied",
		zap.String("query", m.trigger.Query()),
		zap.Int("visible", visible),
		zap.Int("total", len(m.rows)))
}

func (m *Model) moveCursor(delta int) {
	visible := len(m.rows.visibleIndices())
	if visible == 0 {
		return
	}
	m.cursor = (m.cursor + delta + visible) % visible
}

func (m *Model) setStatus(msg string, isError bool) tea.Cmd {
	m.statusMessage = msg
	m.statusIsError = isError
	if isError {
		return nil
	}
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// Current returns the app under the cursor
func (m *Model) Current() (domain.App, bool) {
	idx := m.rows.visibleIndices()
	if len(idx) == 0 {
		return domain.App{}, false
	}
	return m.rows[idx[m.cursor]].app, true
}

// Selected returns the app chosen with enter, if any
func (m *Model) Selected() (domain.App, bool) {
	return m.selected, m.hasSelected
}

// Query returns the query the list is currently filtered with
func (m *Model) Query() string {
	return m.trigger.Query()
}

// VisibleApps returns the apps that match the current query, in list order
func (m *Model) VisibleApps() []domain.App {
	var apps []domain.App
	for _, idx := range m.rows.visibleIndices() {
		apps = append(apps, m.rows[idx].app)
	}
	return apps
}

// View implements tea.Model
func (m *Model) View() string {
	visible := m.VisibleApps()
	cursor := m.cursor
	if len(visible) == 0 {
		cursor = -1
	}

	return m.renderer.Render(views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Tld:           m.opts.Tld,
		Query:         m.trigger.Query(),
		SearchInput:   m.search.View(),
		Apps:          visible,
		Cursor:        cursor,
		Total:         len(m.rows),
		ShowPorts:     m.opts.ShowPorts,
		ShowKind:      m.opts.ShowKind,
		StatusMessage: m.statusMessage,
		StatusIsError: m.statusIsError,
		HelpLine:      m.help.View(m.keys),
	})
}
