package cubes

// Snapshot captures the engine state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64 // ticks since the engine was created
	GameTicks uint64 // playing ticks since the current game started
	Phase     Phase
	GameSeed  uint32
	RNGState  uint32

	Score     int
	Level     int
	Lines     int
	Highscore int

	HasPiece bool
	Kind     Kind
	Pose     Pose
	Fall     int

	Cells [BoardHeight][BoardWidth]bool
}

// Snapshot returns the current engine snapshot.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:      e.tick,
		GameTicks: e.gameTicks,
		Phase:     e.phase,
		GameSeed:  e.gameSeed,
		RNGState:  e.rng.State(),
		Level:     1,
		Highscore: e.Highscore(),
	}
	if e.board != nil {
		snap.Score = e.board.Score()
		snap.Level = e.board.Level()
		snap.Lines = e.board.Lines()
		snap.Cells = e.board.cells
	}
	if e.falling != nil {
		snap.HasPiece = true
		snap.Kind = e.falling.Piece.Kind
		snap.Pose = e.falling.Piece.Pose()
		snap.Fall = e.falling.Fall
	}
	return snap
}

// Hash returns a simple hash of the game-scoped state. Tick and Highscore
// depend on earlier games and are left out so two runs of the same game
// hash equal.
func (snap *Snapshot) Hash() uint64 {
	h := snap.GameTicks
	h = h*31 + uint64(snap.Phase)         //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.GameSeed)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.RNGState)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score)         //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Level)         //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Lines)         //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Kind)          //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Pose.X)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Pose.Y)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Pose.Rotation) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Fall)          //#nosec G115 -- hash computation
	h *= 31
	if snap.HasPiece {
		h++
	}

	for _, row := range snap.Cells {
		var bits uint64
		for x, occupied := range row {
			if occupied {
				bits |= 1 << x
			}
		}
		h = h*31 + bits
	}
	return h
}
