package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cubes/internal/core"
	"github.com/vovakirdan/cubes/internal/replay"
)

// PlaybackKeyMap defines the keys available while watching a replay.
type PlaybackKeyMap struct {
	Pause key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlaybackKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PlaybackKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultPlaybackKeyMap returns default key bindings.
func DefaultPlaybackKeyMap() PlaybackKeyMap {
	return PlaybackKeyMap{
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p/space", "pause"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// PlaybackModel replays a recorded game at its recorded tick rate.
type PlaybackModel struct {
	player *replay.Player
	keys   PlaybackKeyMap
	help   help.Model
	screen *core.Screen
	view   *ScreenRenderer

	paused   bool
	err      error
	quitting bool
}

// NewPlaybackModel creates a playback model for rep.
func NewPlaybackModel(rep *replay.Replay, width, height int) (*PlaybackModel, error) {
	player, err := replay.NewPlayer(rep)
	if err != nil {
		return nil, err
	}
	screen := core.NewScreen(width, max(height-1, 1))
	return &PlaybackModel{
		player: player,
		keys:   DefaultPlaybackKeyMap(),
		help:   help.New(),
		screen: screen,
		view:   NewScreenRenderer(screen, DefaultKeyMap()),
	}, nil
}

// Err returns the error that stopped playback, if any.
func (m *PlaybackModel) Err() error { return m.err }

// Init starts the tick loop.
func (m *PlaybackModel) Init() tea.Cmd {
	return tickCmd(m.player.Replay().TickRate)
}

// Update handles messages and advances playback.
func (m *PlaybackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.paused && !m.player.Done() && m.err == nil {
			if _, err := m.player.Step(); err != nil {
				m.err = err
			}
		}
		return m, tickCmd(m.player.Replay().TickRate)
	}

	return m, nil
}

func (m *PlaybackModel) status() string {
	played, total := m.player.Progress()
	switch {
	case m.err != nil:
		return "DIVERGED"
	case m.player.Done():
		return "END OF REPLAY"
	case m.paused:
		return fmt.Sprintf("|| %d/%d", played, total)
	default:
		return fmt.Sprintf(">  %d/%d", played, total)
	}
}

// View renders the replayed game.
func (m *PlaybackModel) View() string {
	if m.quitting {
		return ""
	}

	if m.view.TooSmall() {
		m.view.RenderTooSmall()
	} else {
		m.view.SetStatus(m.status())
		m.player.Engine().Present(m.view)
	}

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	title := fmt.Sprintf("replay #%d  ", m.player.Replay().ID)
	b.WriteString(helpStyle.Render(title + m.help.View(m.keys)))
	return b.String()
}

// RunPlayback plays rep in the terminal until the user quits.
func RunPlayback(rep *replay.Replay, width, height int) error {
	model, err := NewPlaybackModel(rep, width, height)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return model.Err()
}
