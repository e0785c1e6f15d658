package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cubes/internal/config"
	"github.com/vovakirdan/cubes/internal/core"
)

// KeyMap holds one binding per game action. It translates Bubble Tea key
// messages to actions and feeds the help footer.
type KeyMap struct {
	RotateCW  key.Binding
	RotateCCW key.Binding
	Left      key.Binding
	Right     key.Binding
	SoftDrop  key.Binding
	HardDrop  key.Binding
	Pause     key.Binding
	Quit      key.Binding
}

// NewKeyMap builds bindings from the configured key lists.
func NewKeyMap(cfg config.KeyConfig) KeyMap {
	return KeyMap{
		RotateCW:  newBinding(cfg.RotateCW, "rotate"),
		RotateCCW: newBinding(cfg.RotateCCW, "rotate back"),
		Left:      newBinding(cfg.Left, "left"),
		Right:     newBinding(cfg.Right, "right"),
		SoftDrop:  newBinding(cfg.SoftDrop, "soft drop"),
		HardDrop:  newBinding(cfg.HardDrop, "hard drop"),
		Pause:     newBinding(cfg.Pause, "pause"),
		Quit:      newBinding(cfg.Quit, "quit"),
	}
}

// DefaultKeyMap returns the bindings of the default configuration.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(config.Default().Keys)
}

func newBinding(keys []string, desc string) key.Binding {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = normalizeKey(k)
	}
	return key.NewBinding(
		key.WithKeys(names...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
}

// normalizeKey converts config key names to the strings Bubble Tea reports.
func normalizeKey(k string) string {
	if k == "space" {
		return " "
	}
	return k
}

// Action translates a key message. Unbound keys map to ActionNone.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.RotateCW):
		return core.ActionRotateCW
	case key.Matches(msg, k.RotateCCW):
		return core.ActionRotateCCW
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.SoftDrop):
		return core.ActionSoftDrop
	case key.Matches(msg, k.HardDrop):
		return core.ActionHardDrop
	}
	return core.ActionNone
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.RotateCW, k.HardDrop, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.SoftDrop, k.HardDrop},
		{k.RotateCW, k.RotateCCW, k.Pause, k.Quit},
	}
}
