package replay

import (
	"fmt"

	"github.com/vovakirdan/cubes/internal/bbs"
	"github.com/vovakirdan/cubes/internal/core"
	"github.com/vovakirdan/cubes/internal/cubes"
)

// Player drives a fresh engine through a recording, one tick per Step.
type Player struct {
	rep     *Replay
	engine  *cubes.Engine
	entropy func() bool

	started bool
	tick    uint64
	next    int
}

// NewPlayer builds an engine seeded from the recording. Extra options are
// applied after the seed and entropy ones.
func NewPlayer(rep *Replay, opts ...cubes.Option) (*Player, error) {
	if err := rep.Validate(); err != nil {
		return nil, err
	}
	next, ok := bbs.Sequence(rep.Reseeds)
	all := append([]cubes.Option{cubes.WithSeed(rep.Seed), cubes.WithEntropy(next)}, opts...)
	return &Player{
		rep:     rep,
		engine:  cubes.New(all...),
		entropy: ok,
	}, nil
}

// Engine returns the engine being driven, for presenting.
func (p *Player) Engine() *cubes.Engine { return p.engine }

// Replay returns the recording being played.
func (p *Player) Replay() *Replay { return p.rep }

// Done reports whether every recorded tick has been played.
func (p *Player) Done() bool {
	return p.started && p.tick >= p.rep.Ticks
}

// Progress returns the ticks played and the total.
func (p *Player) Progress() (uint64, uint64) {
	return p.tick, p.rep.Ticks
}

// Step plays the next recorded tick. The first call starts the game.
func (p *Player) Step() (cubes.TickResult, error) {
	if p.Done() {
		return cubes.TickResult{}, fmt.Errorf("replay: step past end at tick %d", p.tick)
	}

	action := p.rep.Start
	if p.started {
		p.tick++
		action = core.ActionNone
		if p.next < len(p.rep.Events) && p.rep.Events[p.next].Tick == p.tick {
			action = p.rep.Events[p.next].Action
			p.next++
		}
	}

	res, err := p.engine.Tick(action, p.rep.Interval())
	if err != nil {
		return res, fmt.Errorf("replay: tick %d: %w", p.tick, err)
	}
	if !p.started {
		p.started = true
		if res.GameSeed != p.rep.Seed {
			return res, fmt.Errorf("%w: game seed %d, recorded %d", ErrDiverged, res.GameSeed, p.rep.Seed)
		}
	}
	if !p.entropy() {
		return res, fmt.Errorf("%w: %w at tick %d", ErrDiverged, ErrEntropyExhausted, p.tick)
	}
	if res.To == cubes.PhaseGameOver && p.tick != p.rep.Ticks {
		return res, fmt.Errorf("%w: game over at tick %d, recorded %d", ErrDiverged, p.tick, p.rep.Ticks)
	}
	return res, nil
}

// Verify replays the whole recording and checks that the game ends on the
// recorded tick with the recorded score and state hash.
func Verify(rep *Replay) (cubes.Snapshot, error) {
	p, err := NewPlayer(rep)
	if err != nil {
		return cubes.Snapshot{}, err
	}
	for !p.Done() {
		if _, err := p.Step(); err != nil {
			return p.engine.Snapshot(), err
		}
	}

	snap := p.engine.Snapshot()
	switch {
	case snap.Phase != cubes.PhaseGameOver:
		return snap, fmt.Errorf("%w: phase %v after %d ticks", ErrDiverged, snap.Phase, rep.Ticks)
	case snap.Score != rep.Score:
		return snap, fmt.Errorf("%w: score %d, recorded %d", ErrDiverged, snap.Score, rep.Score)
	case snap.Hash() != rep.Hash:
		return snap, fmt.Errorf("%w: state hash %#x, recorded %#x", ErrDiverged, snap.Hash(), rep.Hash)
	}
	return snap, nil
}
