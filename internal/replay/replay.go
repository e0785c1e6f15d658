// Package replay records games played on a cubes.Engine and plays them back.
// A recording holds the game seed, every entropy value the generator reseeded
// from and the non-empty actions with their tick offsets. Feeding those into
// a fresh engine at the same tick rate reproduces the game exactly.
package replay

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/cubes/internal/core"
	"github.com/vovakirdan/cubes/internal/cubes"
)

var (
	// ErrDiverged means a replayed game did not end the way it was recorded.
	ErrDiverged = errors.New("replay: diverged from recording")
	// ErrEntropyExhausted means the game asked for more reseed values than
	// were recorded.
	ErrEntropyExhausted = errors.New("replay: recorded reseed values exhausted")
)

// Event is one non-empty action and the tick it was applied on, counted
// from the tick that started the game.
type Event struct {
	Tick   uint64
	Action core.Action
}

// Replay is a complete recorded game.
type Replay struct {
	ID        int64
	CreatedAt time.Time

	Seed     uint32
	TickRate int
	Start    core.Action
	Reseeds  []uint32
	Events   []Event

	Ticks uint64
	Score int
	Level int
	Lines int
	Hash  uint64
}

// Interval is the fixed time step the game was recorded with.
func (r *Replay) Interval() time.Duration {
	return time.Second / time.Duration(r.TickRate)
}

// Duration is the game's length at the recorded tick rate.
func (r *Replay) Duration() time.Duration {
	return time.Duration(r.Ticks) * r.Interval() //#nosec G115 -- tick counts stay far below overflow
}

// Validate checks that the recording is internally consistent.
func (r *Replay) Validate() error {
	if r.Seed == 0 {
		return errors.New("replay: zero seed")
	}
	if r.TickRate <= 0 {
		return fmt.Errorf("replay: invalid tick rate %d", r.TickRate)
	}
	if !r.Start.IsGameplay() {
		return fmt.Errorf("replay: start action %v is not a gameplay action", r.Start)
	}
	var last uint64
	for i, ev := range r.Events {
		if ev.Tick == 0 || ev.Tick <= last || ev.Tick > r.Ticks {
			return fmt.Errorf("replay: event %d at tick %d out of order", i, ev.Tick)
		}
		if !ev.Action.IsGameplay() {
			return fmt.Errorf("replay: event %d has non-gameplay action %v", i, ev.Action)
		}
		last = ev.Tick
	}
	return nil
}

// Recorder watches an engine's ticks and assembles a Replay per game.
type Recorder struct {
	tickRate int
	cur      *Replay
	tick     uint64
}

// NewRecorder creates a recorder for a host ticking at tickRate.
func NewRecorder(tickRate int) *Recorder {
	return &Recorder{tickRate: tickRate}
}

// Active reports whether a game is being recorded.
func (r *Recorder) Active() bool {
	return r.cur != nil
}

// Observe must be called after every engine tick with the action passed to
// Tick and its result. It returns the finished replay on the tick the game
// ends, nil otherwise.
func (r *Recorder) Observe(e *cubes.Engine, action core.Action, res cubes.TickResult) *Replay {
	if res.GameSeed != 0 {
		r.cur = &Replay{
			CreatedAt: time.Now(),
			Seed:      res.GameSeed,
			TickRate:  r.tickRate,
			Start:     action,
		}
		r.tick = 0
		return nil
	}
	if r.cur == nil {
		return nil
	}

	r.tick++
	if action.IsGameplay() {
		r.cur.Events = append(r.cur.Events, Event{Tick: r.tick, Action: action})
	}
	r.cur.Reseeds = append(r.cur.Reseeds, res.Reseeds...)

	if res.To != cubes.PhaseGameOver {
		return nil
	}

	snap := e.Snapshot()
	done := r.cur
	done.Ticks = r.tick
	done.Score = snap.Score
	done.Level = snap.Level
	done.Lines = snap.Lines
	done.Hash = snap.Hash()
	r.cur = nil
	return done
}

// Discard drops the game being recorded.
func (r *Recorder) Discard() {
	r.cur = nil
}
