package tui

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cubes/internal/core"
	"github.com/vovakirdan/cubes/internal/cubes"
	"github.com/vovakirdan/cubes/internal/replay"
	"github.com/vovakirdan/cubes/internal/storage"
)

// Options configures the play model.
type Options struct {
	Config core.RuntimeConfig
	Keys   KeyMap
	Store  *storage.Store // nil disables recording
	Logger *log.Logger
}

// Model is the Bubble Tea model for playing cubes.
type Model struct {
	engine   *cubes.Engine
	keys     KeyMap
	help     help.Model
	screen   *core.Screen
	view     *ScreenRenderer
	recorder *replay.Recorder
	store    *storage.Store
	logger   *log.Logger
	config   core.RuntimeConfig

	pending  core.Action
	saved    []int64
	quitting bool
}

// NewModel creates a play model with a fresh engine in the start phase.
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	screen := core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1))
	m := &Model{
		engine: cubes.New(cubes.WithSeed(cfg.Seed), cubes.WithLogger(logger)),
		keys:   opts.Keys,
		help:   help.New(),
		screen: screen,
		view:   NewScreenRenderer(screen, opts.Keys),
		store:  opts.Store,
		logger: logger,
		config: cfg,
	}
	if m.store != nil {
		m.recorder = replay.NewRecorder(cfg.TickRate)
	}
	return m
}

// Engine returns the engine driven by the model.
func (m *Model) Engine() *cubes.Engine { return m.engine }

// Saved returns the IDs of the replays stored during this session.
func (m *Model) Saved() []int64 { return m.saved }

// Init starts the tick loop.
func (m *Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m.step()
		return m, tickCmd(m.config.TickRate)
	}

	return m, nil
}

// handleKey records the action for the next tick. The last key pressed
// before a tick wins.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Action(msg)
	if action == core.ActionQuit {
		m.quit()
		return m, tea.Quit
	}
	if action == core.ActionNone && m.engine.Phase() != cubes.PhasePlaying {
		// Any key leaves the start and game over screens.
		action = core.ActionHardDrop
	}
	if action != core.ActionNone {
		m.pending = action
	}
	return m, nil
}

// step advances the engine by one fixed interval.
func (m *Model) step() {
	action := m.pending
	m.pending = core.ActionNone

	res, err := m.engine.Tick(action, tickInterval(m.config.TickRate))
	if err != nil {
		m.logger.Error("tick failed", "err", err)
		return
	}
	if m.recorder == nil {
		return
	}
	if rep := m.recorder.Observe(m.engine, action, res); rep != nil {
		m.save(rep)
	}
}

func (m *Model) save(rep *replay.Replay) {
	id, err := m.store.SaveReplay(rep)
	if err != nil {
		m.logger.Warn("could not save replay", "err", err)
		return
	}
	m.saved = append(m.saved, id)
	m.logger.Info("replay saved", "id", id, "score", rep.Score, "ticks", rep.Ticks)
}

func (m *Model) quit() {
	m.quitting = true
	if m.recorder != nil && m.recorder.Active() {
		m.logger.Debug("discarding unfinished recording")
		m.recorder.Discard()
	}
}

// View renders the current state to a string for display.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if m.view.TooSmall() {
		m.view.RenderTooSmall()
	} else {
		m.engine.Present(m.view)
	}

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Run starts the Bubble Tea program for a play session and returns the
// IDs of the replays it saved.
func Run(opts Options) ([]int64, error) {
	model := NewModel(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return model.Saved(), err
}
