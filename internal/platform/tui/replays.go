package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cubes/internal/storage"
)

// Browser layout constants
const (
	maxReplays = 200 // Max replays to load
)

// BrowserKeyMap defines the key bindings for the replay browser.
type BrowserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Watch  key.Binding
	Delete key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Watch, k.Delete, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k BrowserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Watch, k.Delete, k.Quit},
	}
}

// DefaultBrowserKeyMap returns default key bindings.
func DefaultBrowserKeyMap() BrowserKeyMap {
	return BrowserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Watch: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "watch"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BrowserModel is the Bubble Tea model listing archived replays.
type BrowserModel struct {
	store    *storage.Store
	replays  []storage.ReplaySummary
	table    table.Model
	help     help.Model
	keys     BrowserKeyMap
	width    int
	height   int
	err      error
	selected int64
	quitting bool
}

// NewBrowserModel creates a replay browser.
func NewBrowserModel(store *storage.Store, width, height int) *BrowserModel {
	h := help.New()
	h.ShowAll = false

	m := &BrowserModel{
		store:  store,
		keys:   DefaultBrowserKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadReplays()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *BrowserModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Score", Width: 8},
		{Title: "Level", Width: 6},
		{Title: "Lines", Width: 6},
		{Title: "Length", Width: 8},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)
	t.SetStyles(browserTableStyles())
	return t
}

// loadReplays reloads the archive into the table.
func (m *BrowserModel) loadReplays() {
	m.replays = nil
	if m.store != nil {
		list, err := m.store.ListReplays(maxReplays)
		if err != nil {
			m.err = err
		} else {
			m.replays = list
		}
	}

	rows := make([]table.Row, len(m.replays))
	for i, r := range m.replays {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", r.ID),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Level),
			fmt.Sprintf("%d", r.Lines),
			r.Duration().Round(time.Second).String(),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.GotoBottom()
	}
}

// current returns the replay under the cursor.
func (m *BrowserModel) current() (storage.ReplaySummary, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.replays) {
		return storage.ReplaySummary{}, false
	}
	return m.replays[i], true
}

// Selected returns the replay chosen for watching, or 0.
func (m *BrowserModel) Selected() int64 { return m.selected }

// Init initializes the browser model.
func (m *BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Watch):
			if r, ok := m.current(); ok {
				m.selected = r.ID
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if r, ok := m.current(); ok && m.store != nil {
				if err := m.store.DeleteReplay(r.ID); err != nil {
					m.err = err
				}
				m.loadReplays()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.loadReplays()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m *BrowserModel) View() string {
	if m.quitting || m.selected != 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(centerText(fmt.Sprintf("REPLAYS (%d)", len(m.replays)), m.width)))
	b.WriteString("\n\n")

	b.WriteString(centerText(frameStyle.Render(m.renderTableContent()), m.width))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m *BrowserModel) renderTableContent() string {
	if len(m.replays) == 0 {
		return emptyStyle.Render("No replays recorded yet.\nFinish a game to record one!")
	}
	return m.table.View()
}

// centerText pads text to center it within width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunBrowser runs the replay browser and returns the ID the user chose to
// watch, or 0 when they quit.
func RunBrowser(store *storage.Store, width, height int) (int64, error) {
	model := NewBrowserModel(store, width, height)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return 0, err
	}
	return model.Selected(), nil
}
