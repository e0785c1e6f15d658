package cubes

import "github.com/vovakirdan/cubes/internal/core"

// PieceSnapshot is a read-only copy of the falling piece.
type PieceSnapshot struct {
	Kind     Kind
	Rotation int
	X, Y     int
	// Fall is the sub-row descent progress in [0, StepsPerCell).
	Fall  int
	Shape Shape
	Color core.Color
}

// Renderer draws the engine's state. Implementations are called from Present
// and must not retain the snapshots.
type Renderer interface {
	RenderStartScreen(highscore int)
	RenderBoard(board BoardSnapshot)
	RenderActivePiece(piece PieceSnapshot)
	RenderEndScreen(board BoardSnapshot)
}

// Present calls the renderer methods matching the current phase: the start
// screen, the board plus falling piece while playing or paused, or the end
// screen.
func (e *Engine) Present(r Renderer) {
	switch e.phase {
	case PhaseStart:
		r.RenderStartScreen(e.highscore)
	case PhasePlaying, PhasePaused:
		bs := e.board.Snapshot()
		bs.Paused = e.phase == PhasePaused
		r.RenderBoard(bs)
		if e.falling != nil {
			r.RenderActivePiece(e.falling.Snapshot())
		}
	case PhaseGameOver:
		r.RenderEndScreen(e.board.Snapshot())
	}
}
