package cubes

// Scoring constants.
const (
	PointsPerRow = 100
	LevelStep    = 1000
)

// Verdict is the outcome of settling the board after a lock.
type Verdict int

const (
	VerdictContinue Verdict = iota
	VerdictGameOver
)

func (v Verdict) String() string {
	if v == VerdictGameOver {
		return "game_over"
	}
	return "continue"
}

// SettleResult describes one settle pass.
type SettleResult struct {
	Verdict Verdict
	Rows    int  // rows cleared
	Points  int  // score gained
	LevelUp bool // level advanced by one
}

// Settle runs after a piece is placed. If the sentinel row holds any block
// the game is over and nothing else happens. Otherwise full rows are cleared
// top to bottom: the k-th row cleared in one pass is worth k*PointsPerRow, so
// one, two, three and four rows give 100, 300, 600 and 1000. A row index is
// examined again after a shift since the row above has moved into it. The
// level advances at most once per lock, when score reaches level*LevelStep.
func (b *Board) Settle() SettleResult {
	if b.RowHasBlock(SentinelRow) {
		return SettleResult{Verdict: VerdictGameOver}
	}

	var res SettleResult
	for y := 0; y < BoardHeight; {
		if !b.IsRowFull(y) {
			y++
			continue
		}
		b.ClearRowAndShift(y)
		res.Rows++
		res.Points += PointsPerRow * res.Rows
	}

	b.score += res.Points
	b.lines += res.Rows
	if b.score >= b.level*LevelStep {
		b.level++
		res.LevelUp = true
	}
	b.highscore = max(b.highscore, b.score)
	return res
}
