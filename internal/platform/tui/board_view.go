package tui

import (
	"fmt"

	"github.com/vovakirdan/cubes/internal/core"
	"github.com/vovakirdan/cubes/internal/cubes"
)

// Layout constants. Each board cell is two terminal columns wide.
const (
	cellWidth  = 2
	wellWidth  = cubes.BoardWidth*cellWidth + 2
	wellHeight = cubes.BoardHeight + 2
	panelGap   = 2
	panelWidth = 20

	MinWidth  = wellWidth + panelGap + panelWidth
	MinHeight = wellHeight
)

// ScreenRenderer draws engine snapshots onto a core.Screen.
type ScreenRenderer struct {
	screen *core.Screen
	keys   KeyMap
	status string

	ox, oy int
	paused bool
}

var _ cubes.Renderer = (*ScreenRenderer)(nil)

// boardRect is the well in board cells.
var boardRect = core.NewRect(0, 0, cubes.BoardWidth, cubes.BoardHeight)

// NewScreenRenderer creates a renderer drawing onto s.
func NewScreenRenderer(s *core.Screen, keys KeyMap) *ScreenRenderer {
	return &ScreenRenderer{screen: s, keys: keys}
}

// SetStatus sets an extra line shown in the side panel.
func (r *ScreenRenderer) SetStatus(status string) {
	r.status = status
}

// TooSmall reports whether the screen cannot fit the well and the panel.
func (r *ScreenRenderer) TooSmall() bool {
	return r.screen.Width() < MinWidth || r.screen.Height() < MinHeight
}

// RenderTooSmall draws the resize hint.
func (r *ScreenRenderer) RenderTooSmall() {
	r.screen.Clear()
	r.overlay("Window too small", fmt.Sprintf("Resize to %dx%d", MinWidth, MinHeight))
}

func (r *ScreenRenderer) layout() {
	r.ox = max(0, (r.screen.Width()-MinWidth)/2)
	r.oy = max(0, (r.screen.Height()-MinHeight)/2)
}

// RenderStartScreen draws the title, the best score and the controls.
func (r *ScreenRenderer) RenderStartScreen(highscore int) {
	s := r.screen
	s.Clear()
	r.paused = false

	lines := 0
	for _, group := range r.keys.FullHelp() {
		lines += len(group)
	}
	y := max(0, (s.Height()-(lines+8))/2)

	title := "C U B E S"
	s.DrawTextColor((s.Width()-len(title))/2, y, title, titleColor)
	y += 2
	s.DrawTextCentered(y, fmt.Sprintf("Highscore: %d", highscore))
	y += 2

	for _, group := range r.keys.FullHelp() {
		for _, b := range group {
			line := fmt.Sprintf("%-14s %-12s", b.Help().Key, b.Help().Desc)
			s.DrawTextColor((s.Width()-len(line))/2, y, line, labelColor)
			y++
		}
	}
	y++
	s.DrawTextCentered(y, "Press any key to start")
}

// RenderBoard draws the well, the settled blocks and the side panel.
func (r *ScreenRenderer) RenderBoard(b cubes.BoardSnapshot) {
	r.screen.Clear()
	r.layout()
	r.drawWell(b)
	r.drawPanel(b)

	r.paused = b.Paused
	if b.Paused {
		r.overlay("PAUSED", fmt.Sprintf("Press %s to resume", r.keys.Pause.Help().Key))
	}
}

// RenderActivePiece draws the falling piece over the well. Nothing is drawn
// while paused so the overlay stays readable.
func (r *ScreenRenderer) RenderActivePiece(p cubes.PieceSnapshot) {
	if r.paused {
		return
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if !p.Shape[i][j] {
				continue
			}
			x, y := p.X+j, p.Y+i
			if !boardRect.Contains(x, y) {
				continue
			}
			r.drawCell(x, y, '█', p.Color)
		}
	}
}

// RenderEndScreen draws the final board with the game over box.
func (r *ScreenRenderer) RenderEndScreen(b cubes.BoardSnapshot) {
	r.screen.Clear()
	r.layout()
	r.paused = false
	r.drawWell(b)
	r.drawPanel(b)
	r.overlay(
		"GAME OVER",
		fmt.Sprintf("Score %d   Best %d", b.Score, b.Highscore),
		"Press any key",
	)
}

func (r *ScreenRenderer) drawWell(b cubes.BoardSnapshot) {
	r.screen.DrawBoxColor(core.NewRect(r.ox, r.oy, wellWidth, wellHeight), frameColor)
	for y := 0; y < cubes.BoardHeight; y++ {
		for x := 0; x < cubes.BoardWidth; x++ {
			if b.Cells[y][x] {
				r.drawCell(x, y, '█', stackColor)
			} else {
				r.screen.SetCell(r.ox+1+x*cellWidth+1, r.oy+1+y, '.', emptyColor)
			}
		}
	}
}

func (r *ScreenRenderer) drawCell(x, y int, ch rune, c core.Color) {
	sx := r.ox + 1 + x*cellWidth
	sy := r.oy + 1 + y
	for k := 0; k < cellWidth; k++ {
		r.screen.SetCell(sx+k, sy, ch, c)
	}
}

func (r *ScreenRenderer) drawPanel(b cubes.BoardSnapshot) {
	s := r.screen
	px := r.ox + wellWidth + panelGap
	y := r.oy + 1

	s.DrawTextColor(px, y, "CUBES", titleColor)
	y += 2
	for _, f := range []struct {
		label string
		value int
	}{
		{"Score", b.Score},
		{"Level", b.Level},
		{"Lines", b.Lines},
		{"Best", b.Highscore},
	} {
		s.DrawTextColor(px, y, f.label, labelColor)
		s.DrawText(px, y+1, fmt.Sprintf("%d", f.value))
		y += 3
	}
	if r.status != "" {
		s.DrawTextColor(px, y, r.status, statusColor)
	}
}

// overlay draws a centered box with one line of text per row.
func (r *ScreenRenderer) overlay(lines ...string) {
	s := r.screen
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len([]rune(l)))
	}
	boxW := maxLen + 4
	boxH := len(lines) + 2
	box := core.NewRect((s.Width()-boxW)/2, (s.Height()-boxH)/2, boxW, boxH)

	s.DrawRect(box, ' ')
	s.DrawBoxColor(box, overlayColor)
	for i, l := range lines {
		s.DrawTextCentered(box.Y+1+i, l)
	}
}
