package ui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/loglens/internal/config"
	"github.com/user/loglens/internal/expand"
	"github.com/user/loglens/internal/highlight"
	"github.com/user/loglens/internal/render"
	"github.com/user/loglens/internal/store"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeCommand
)

type cursorPos struct {
	x, y int
}

// viewState holds the scroll window and cursor saved while the expanded
// single-line view is active.
type viewState struct {
	startLine int
	endLine   int
	cursor    cursorPos
}

// Model is the main application model
type Model struct {
	cfg    *config.Config
	store  *store.LogStore
	engine *highlight.Engine
	screen *render.Screen

	// Expanded single-line view
	mat           *expand.Materializer
	expandedStore *store.LogStore
	expandPath    string
	savedView     viewState

	mode         Mode
	commandInput textinput.Model

	// Terminal geometry; rows/cols is the content area
	width  int
	height int
	rows   int
	cols   int

	// Window and cursor state
	startLine int
	endLine   int
	cursor    cursorPos
	rowMap    []int // physical row -> logical line number
	content   string

	filename string
	status   string

	statusStyle lipgloss.Style
	helpStyle   lipgloss.Style
}

// NewModel opens the file and creates the application model.
func NewModel(path string, cfg *config.Config) (*Model, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}

	engine := highlight.NewEngine()
	if err := engine.SetSearchColor(cfg.Theme.SearchMatch); err != nil {
		slog.Debug("bad search_match color in config", "color", cfg.Theme.SearchMatch)
	}

	screen := render.NewScreen(engine)
	if cfg.Display.SyntaxHighlight && render.IsSyntaxHighlightable(path) {
		screen.SetSyntax(render.NewSyntaxRenderer(path))
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	statusBar, _ := highlight.LookupColor(cfg.Theme.StatusBar)
	statusText, _ := highlight.LookupColor(cfg.Theme.StatusText)

	return &Model{
		cfg:          cfg,
		store:        st,
		engine:       engine,
		screen:       screen,
		mat:          expand.NewMaterializer(),
		commandInput: ti,
		filename:     filepath.Base(path),
		statusStyle:  lipgloss.NewStyle().Background(statusBar).Foreground(statusText),
		helpStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}, nil
}

// Close releases the stores and any materialized expand file.
func (m *Model) Close() error {
	if m.expandedStore != nil {
		m.expandedStore.Close()
		m.mat.Cleanup(m.expandPath)
	}
	return m.store.Close()
}

// activeStore returns the store currently on screen.
func (m *Model) activeStore() *store.LogStore {
	if m.expandedStore != nil {
		return m.expandedStore
	}
	return m.store
}

// currentLine translates the cursor row back to a logical line number via
// the row map from the last refresh.
func (m *Model) currentLine() int {
	if m.cursor.y < 0 || m.cursor.y >= len(m.rowMap) {
		return 0
	}
	return m.rowMap[m.cursor.y]
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve one row for the status bar and one for command input
		m.rows = msg.Height - 2
		if m.rows < 1 {
			m.rows = 1
		}
		m.cols = msg.Width
		if m.cols < 1 {
			m.cols = 1
		}
		m.refresh()
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeCommand {
		return m.handleCommandKey(msg)
	}

	key := msg.String()
	binds := &m.cfg.Keybindings

	switch {
	case matchKey(key, binds.Quit):
		return m, tea.Quit

	case key == "/" || key == "?" || key == ":":
		m.mode = ModeCommand
		m.status = ""
		if key == ":" {
			m.commandInput.SetValue("")
		} else {
			m.commandInput.SetValue(key)
		}
		m.commandInput.Focus()
		m.commandInput.CursorEnd()
		return m, textinput.Blink

	case matchKey(key, binds.CursorDown):
		m.moveCursor(0, 1)
	case matchKey(key, binds.CursorUp):
		m.moveCursor(0, -1)
	case matchKey(key, binds.CursorLeft):
		m.moveCursor(-1, 0)
	case matchKey(key, binds.CursorRight):
		m.moveCursor(1, 0)

	case matchKey(key, binds.PageDown):
		m.pageDown()
	case matchKey(key, binds.PageUp):
		m.pageUp()

	case matchKey(key, binds.Top):
		m.startLine = 0
		m.endLine = m.rows
		m.cursor = cursorPos{}
		m.refresh()

	case matchKey(key, binds.Bottom):
		m.startLine, m.endLine = m.activeStore().EndOfFileWindow(m.rows, m.cols, m.cfg.Display.MaxRowsPerLine)
		m.cursor = cursorPos{}
		m.refresh()

	case matchKey(key, binds.HideLine):
		m.activeStore().HideLine(m.currentLine())
		m.refresh()

	case matchKey(key, binds.Isolate):
		m.activeStore().Isolate(m.currentLine())
		m.startLine = 0
		m.endLine = m.rows
		m.cursor = cursorPos{}
		m.refresh()

	case matchKey(key, binds.Unisolate):
		if m.activeStore().Restore() {
			m.refresh()
		}

	case matchKey(key, binds.Expand):
		m.toggleExpanded()
	}

	return m, nil
}

func (m *Model) handleCommandKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		input := m.commandInput.Value()
		m.mode = ModeNormal
		m.commandInput.Blur()

		result, err := handleCommand(input, m.currentLine(), m.activeStore(), m.engine)
		if err != nil {
			m.status = err.Error()
			slog.Debug("command failed", "input", input, "err", err)
		}
		if result.Jumped {
			m.startLine = result.Jump
			m.endLine = clampLine(m.startLine+m.rows, m.activeStore().LineCount())
			m.cursor = cursorPos{}
		}
		m.refresh()
		return m, nil

	case "esc":
		m.mode = ModeNormal
		m.commandInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

// moveCursor moves within the drawn rows, scrolling the window by one line
// when the cursor pushes past the top or bottom edge.
func (m *Model) moveCursor(dx, dy int) {
	newX := m.cursor.x + dx
	newY := m.cursor.y + dy

	if newY < 0 {
		if m.startLine > 0 {
			m.startLine--
			m.endLine = m.startLine + m.rows
			m.refresh()
		}
		return
	}
	if newY > len(m.rowMap)-1 {
		total := m.activeStore().LineCount()
		if m.endLine+1 >= total {
			return
		}
		m.startLine = clampLine(m.startLine+1, total)
		m.endLine = clampLine(m.endLine+1, total)
		m.refresh()
		return
	}

	if newX < 0 {
		newX = 0
	} else if newX >= m.cols {
		newX = m.cols - 1
	}
	m.cursor = cursorPos{x: newX, y: newY}
}

func (m *Model) pageUp() {
	if m.startLine == 0 {
		return
	}
	m.startLine -= m.rows
	if m.startLine < 0 {
		m.startLine = 0
	}
	m.endLine = clampLine(m.startLine+m.rows, m.activeStore().LineCount())
	m.refresh()
}

func (m *Model) pageDown() {
	if m.endLine+1 >= m.activeStore().LineCount() {
		return
	}
	m.startLine = m.endLine + 1
	m.endLine = clampLine(m.startLine+m.rows, m.activeStore().LineCount())
	m.refresh()
}

// toggleExpanded switches between the normal view and a second store over
// the cursor line materialized into a temp file, hard-wrapped at the
// terminal width.
func (m *Model) toggleExpanded() {
	if m.expandedStore != nil {
		m.expandedStore.Close()
		if err := m.mat.Cleanup(m.expandPath); err != nil {
			slog.Debug("expand cleanup", "err", err)
		}
		m.expandedStore = nil
		m.expandPath = ""

		m.startLine = m.savedView.startLine
		m.endLine = m.savedView.endLine
		m.cursor = m.savedView.cursor
		m.refresh()
		return
	}

	m.savedView = viewState{startLine: m.startLine, endLine: m.endLine, cursor: m.cursor}

	text, _ := m.store.LineText(m.currentLine())
	path, err := m.mat.WriteLine(text, m.cols)
	if err != nil {
		m.status = err.Error()
		return
	}

	st, err := store.Open(path)
	if err != nil {
		m.mat.Cleanup(path)
		m.status = err.Error()
		return
	}
	slog.Debug("expanded view", "line", m.currentLine(), "path", path)

	m.expandedStore = st
	m.expandPath = path
	m.startLine = 0
	m.endLine = m.rows
	m.cursor = cursorPos{}
	m.refresh()
}

// refresh re-renders the window and row map, then snaps the tracked window
// and cursor to what was actually drawn.
func (m *Model) refresh() {
	if m.rows == 0 || m.cols == 0 {
		return
	}

	lines := m.activeStore().VisibleWindow(m.startLine, m.rows)
	m.content, m.rowMap = m.screen.Render(lines, m.rows, m.cols, m.cfg.Display.MaxRowsPerLine)

	if len(m.rowMap) > 0 {
		m.startLine = m.rowMap[0]
		m.endLine = m.rowMap[len(m.rowMap)-1]
	}
	if m.cursor.y > len(m.rowMap)-1 {
		m.cursor.y = len(m.rowMap) - 1
		if m.cursor.y < 0 {
			m.cursor.y = 0
		}
	}
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.content)
	drawn := len(m.rowMap)
	for i := drawn; i < m.rows; i++ {
		if i > 0 || drawn > 0 {
			b.WriteString("\n")
		}
		b.WriteString("~")
	}
	b.WriteString("\n")

	st := m.activeStore()
	mode := ""
	if m.expandedStore != nil {
		mode = " [expanded]"
	}
	searchInfo := ""
	if p := m.engine.SearchPattern(); p != "" {
		searchInfo = fmt.Sprintf("  /%s", p)
	}
	status := fmt.Sprintf(" %s%s  L%d/%d  %d visible%s",
		m.filename, mode, m.currentLine()+1, st.LineCount(), st.VisibleLineCount(), searchInfo)
	if m.status != "" {
		status = " " + m.status
	}
	b.WriteString(m.statusStyle.Width(m.width).Render(status))
	b.WriteString("\n")

	if m.mode == ModeCommand {
		b.WriteString(m.commandInput.View())
	} else {
		help := "j/k:move  f/b:page  g/G:top/end  x:hide  o/O:isolate  e:expand  /:search  :cmd  q:quit"
		b.WriteString(m.helpStyle.Render(help))
	}

	return b.String()
}

func matchKey(key string, bindings []string) bool {
	for _, b := range bindings {
		if key == b {
			return true
		}
	}
	return false
}

func clampLine(n, total int) int {
	if n > total {
		return total
	}
	return n
}
