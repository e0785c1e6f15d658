// Package tui provides the Bubble Tea host for the cubes engine.
// It paces ticks, maps keys to actions, draws the engine's snapshots and
// runs replay playback and the replay browser.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	return tea.Tick(tickInterval(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// tickInterval is the fixed time step handed to the engine each tick.
func tickInterval(tickRate int) time.Duration {
	return time.Second / time.Duration(tickRate)
}
