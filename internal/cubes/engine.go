// Package cubes implements the falling-block game engine: board, tetromino
// catalog, movement and collision, line clearing and scoring, and the phase
// machine that ties them together. It performs no I/O; a host feeds it one
// action and a time delta per tick and asks it to present itself to a
// Renderer.
package cubes

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cubes/internal/bbs"
	"github.com/vovakirdan/cubes/internal/core"
)

// GravityRate is the number of descent steps gravity applies per second.
const GravityRate = 60

// GravityInterval is the time gravity needs for one descent step.
const GravityInterval = time.Second / GravityRate

// ErrNegativeDelta is returned by Tick when time runs backwards.
var ErrNegativeDelta = errors.New("cubes: negative time delta")

// Phase is the top-level game state.
type Phase int

const (
	PhaseStart Phase = iota
	PhasePlaying
	PhasePaused
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// TickResult reports what happened during one Tick.
type TickResult struct {
	Tick uint64
	From Phase
	To   Phase

	// GameSeed is non-zero on the tick that started a new game and holds
	// the generator state the game began from.
	GameSeed uint32
	// Reseeds lists the entropy values the generator drew during the tick.
	Reseeds []uint32

	Spawned bool
	Piece   Kind
	Locked  bool
	Blocked Collision
	Rows    int
	Points  int
	LevelUp bool
}

// Engine owns all game state. It is not safe for concurrent use.
type Engine struct {
	phase   Phase
	board   *Board
	falling *Falling
	rng     *bbs.Generator

	highscore int
	gravity   time.Duration

	tick      uint64
	gameTicks uint64
	gameSeed  uint32
	reseeds   []uint32

	seed    uint32
	entropy func() uint32
	logger  *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed fixes the generator's initial state. Zero means the state is
// drawn from entropy when the first game starts.
func WithSeed(seed uint32) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithEntropy replaces the source the generator reseeds from.
func WithEntropy(f func() uint32) Option {
	return func(e *Engine) {
		e.entropy = f
	}
}

// WithLogger sets the logger used for game events.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine in the start phase.
func New(opts ...Option) *Engine {
	e := &Engine{
		phase:  PhaseStart,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}

	genOpts := []bbs.Option{bbs.WithReseedHook(e.noteReseed)}
	if e.entropy != nil {
		genOpts = append(genOpts, bbs.WithEntropy(e.entropy))
	}
	e.rng = bbs.New(e.seed, genOpts...)
	return e
}

func (e *Engine) noteReseed(s uint32) {
	e.reseeds = append(e.reseeds, s)
	e.logger.Debug("generator reseeded", "state", s)
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Highscore returns the best score reached in this engine's lifetime.
func (e *Engine) Highscore() int {
	if e.board != nil {
		return max(e.highscore, e.board.Highscore())
	}
	return e.highscore
}

// Tick advances the engine by one frame. The action is the single input
// for this frame; anything that is not a gameplay action counts as none.
// dt is the wall time since the previous tick and drives gravity.
func (e *Engine) Tick(action core.Action, dt time.Duration) (TickResult, error) {
	if dt < 0 {
		return TickResult{Tick: e.tick, From: e.phase, To: e.phase}, ErrNegativeDelta
	}
	if !action.IsGameplay() {
		action = core.ActionNone
	}

	e.tick++
	e.reseeds = e.reseeds[:0]
	res := TickResult{Tick: e.tick, From: e.phase}

	switch e.phase {
	case PhaseStart:
		if action != core.ActionNone {
			e.startGame(&res)
		}
	case PhasePlaying:
		e.play(action, dt, &res)
	case PhasePaused:
		if action == core.ActionPause {
			e.setPhase(PhasePlaying)
		}
	case PhaseGameOver:
		if action != core.ActionNone {
			e.highscore = e.Highscore()
			e.board = nil
			e.falling = nil
			e.setPhase(PhaseStart)
		}
	default:
		panic("cubes: engine in unknown phase")
	}

	if len(e.reseeds) > 0 {
		res.Reseeds = append([]uint32(nil), e.reseeds...)
	}
	res.To = e.phase
	return res, nil
}

func (e *Engine) setPhase(p Phase) {
	e.logger.Debug("phase change", "from", e.phase, "to", p)
	e.phase = p
}

func (e *Engine) startGame(res *TickResult) {
	e.board = NewBoard(e.highscore)
	e.falling = nil
	e.gravity = 0
	e.gameTicks = 0
	e.gameSeed = e.rng.Begin()
	res.GameSeed = e.gameSeed
	e.logger.Info("game started", "seed", e.gameSeed, "highscore", e.highscore)
	e.setPhase(PhasePlaying)
}

func (e *Engine) play(action core.Action, dt time.Duration, res *TickResult) {
	if action == core.ActionPause {
		e.setPhase(PhasePaused)
		return
	}
	e.gameTicks++

	if e.falling == nil {
		p := Spawn(e.rng)
		e.falling = &Falling{Piece: p}
		e.gravity = 0
		res.Spawned = true
		res.Piece = p.Kind
		e.logger.Debug("spawn", "kind", p.Kind)
		return
	}

	e.gravity += dt
	steps := int(e.gravity / GravityInterval)
	e.gravity -= time.Duration(steps) * GravityInterval

	mv := e.falling.Apply(e.board, action, steps)
	res.Blocked = mv.Blocked
	if mv.Resting {
		e.logger.Debug("rotation blocked on resting piece", "kind", mv.Piece.Kind)
	}
	if mv.Outcome != OutcomeLocked {
		return
	}

	res.Locked = true
	res.Piece = mv.Piece.Kind
	e.falling = nil

	sr := e.board.Settle()
	res.Rows = sr.Rows
	res.Points = sr.Points
	res.LevelUp = sr.LevelUp
	e.logger.Debug("lock", "kind", mv.Piece.Kind, "x", mv.Piece.X, "y", mv.Piece.Y, "rows", sr.Rows)
	if sr.LevelUp {
		e.logger.Info("level up", "level", e.board.Level(), "score", e.board.Score())
	}
	if sr.Verdict == VerdictGameOver {
		e.highscore = e.Highscore()
		e.logger.Info("game over", "score", e.board.Score(), "lines", e.board.Lines(), "highscore", e.highscore)
		e.setPhase(PhaseGameOver)
	}
}
