package cubes

// Fixed playfield geometry.
const (
	BoardWidth  = 10
	BoardHeight = 24

	// SentinelRow is the row whose occupancy after a lock ends the game.
	SentinelRow = 2
)

// Board is the settled-block grid plus the counters of one game.
type Board struct {
	cells [BoardHeight][BoardWidth]bool

	score     int
	level     int
	highscore int
	lines     int
}

// NewBoard returns an empty board at score 0 and level 1. The highscore is
// inherited from earlier games of the same process.
func NewBoard(highscore int) *Board {
	return &Board{
		level:     1,
		highscore: highscore,
	}
}

// Cell reports whether (x, y) is occupied. Coordinates off the board are
// reported empty.
func (b *Board) Cell(x, y int) bool {
	if x < 0 || x >= BoardWidth || y < 0 || y >= BoardHeight {
		return false
	}
	return b.cells[y][x]
}

// IsRowFull reports whether every cell of row y is occupied.
func (b *Board) IsRowFull(y int) bool {
	for x := 0; x < BoardWidth; x++ {
		if !b.cells[y][x] {
			return false
		}
	}
	return true
}

// RowHasBlock reports whether any cell of row y is occupied.
func (b *Board) RowHasBlock(y int) bool {
	for x := 0; x < BoardWidth; x++ {
		if b.cells[y][x] {
			return true
		}
	}
	return false
}

// ClearRowAndShift removes row y, moves every row above it down by one and
// empties the top row.
func (b *Board) ClearRowAndShift(y int) {
	for k := y; k > 0; k-- {
		b.cells[k] = b.cells[k-1]
	}
	b.cells[0] = [BoardWidth]bool{}
}

// Place marks every cell of the piece's active rotation as occupied.
// The caller guarantees the piece is inside the board.
func (b *Board) Place(p Piece) {
	shape := p.Shape()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if shape[i][j] {
				b.cells[p.Y+i][p.X+j] = true
			}
		}
	}
}

// Score returns the points earned this game.
func (b *Board) Score() int { return b.score }

// Level returns the current level, starting at 1.
func (b *Board) Level() int { return b.level }

// Highscore returns the best score seen, including this game's.
func (b *Board) Highscore() int { return b.highscore }

// Lines returns the number of rows cleared this game.
func (b *Board) Lines() int { return b.lines }

// BoardSnapshot is a read-only copy of the board handed to renderers.
type BoardSnapshot struct {
	Cells     [BoardHeight][BoardWidth]bool
	Score     int
	Level     int
	Highscore int
	Lines     int
	Paused    bool
}

// Snapshot copies the board.
func (b *Board) Snapshot() BoardSnapshot {
	return BoardSnapshot{
		Cells:     b.cells,
		Score:     b.score,
		Level:     b.level,
		Highscore: b.highscore,
		Lines:     b.lines,
	}
}
