package replay

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/cubes/internal/core"
	"github.com/vovakirdan/cubes/internal/cubes"
)

func counterEntropy(start uint32) func() uint32 {
	n := start
	return func() uint32 {
		n += 0x9E3779B9
		return n
	}
}

var script = []core.Action{
	core.ActionNone, core.ActionLeft, core.ActionRotateCW, core.ActionNone,
	core.ActionSoftDrop, core.ActionRight, core.ActionNone, core.ActionHardDrop,
	core.ActionQuit, core.ActionRotateCCW, core.ActionLeft, core.ActionLeft,
	core.ActionHardDrop, core.ActionNone,
}

// record plays one scripted game to the end and returns its recording.
func record(t *testing.T, seed uint32) *Replay {
	t.Helper()
	e := cubes.New(cubes.WithSeed(seed), cubes.WithEntropy(counterEntropy(seed)))
	rec := NewRecorder(60)
	dt := time.Second / 60

	res, err := e.Tick(core.ActionLeft, dt)
	require.NoError(t, err)
	require.Nil(t, rec.Observe(e, core.ActionLeft, res))
	require.True(t, rec.Active())

	for i := 0; i < 20000; i++ {
		a := script[i%len(script)]
		res, err := e.Tick(a, dt)
		require.NoError(t, err)
		if rep := rec.Observe(e, a, res); rep != nil {
			require.False(t, rec.Active())
			return rep
		}
	}
	t.Fatal("scripted game did not end")
	return nil
}

func TestRecorderCapturesGame(t *testing.T) {
	rep := record(t, 4242)

	assert.Equal(t, uint32(4242), rep.Seed)
	assert.Equal(t, 60, rep.TickRate)
	assert.Equal(t, core.ActionLeft, rep.Start)
	assert.NotZero(t, rep.Ticks)
	assert.NotEmpty(t, rep.Events)
	assert.GreaterOrEqual(t, rep.Level, 1)
	assert.NoError(t, rep.Validate())

	for _, ev := range rep.Events {
		assert.NotEqual(t, core.ActionQuit, ev.Action, "quit must not be recorded")
		assert.NotEqual(t, core.ActionNone, ev.Action)
	}
}

func TestRecorderIgnoresTicksBeforeStart(t *testing.T) {
	e := cubes.New(cubes.WithSeed(9))
	rec := NewRecorder(60)

	res, err := e.Tick(core.ActionNone, time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, rec.Observe(e, core.ActionNone, res))
	assert.False(t, rec.Active())
}

func TestRecorderDiscard(t *testing.T) {
	e := cubes.New(cubes.WithSeed(9))
	rec := NewRecorder(60)

	res, err := e.Tick(core.ActionPause, time.Millisecond)
	require.NoError(t, err)
	rec.Observe(e, core.ActionPause, res)
	require.True(t, rec.Active())

	rec.Discard()
	assert.False(t, rec.Active())
}

func TestVerifyRoundTrip(t *testing.T) {
	for _, seed := range []uint32{1, 7, 4242, 0xDEADBEEF} {
		rep := record(t, seed)
		snap, err := Verify(rep)
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, cubes.PhaseGameOver, snap.Phase)
		assert.Equal(t, rep.Hash, snap.Hash())
		assert.Equal(t, rep.Ticks, snap.GameTicks)
	}
}

func TestVerifyRecordsReseeds(t *testing.T) {
	// State 1 is a fixed point, so the second spawn forces a reseed.
	rep := record(t, 1)
	require.NotEmpty(t, rep.Reseeds)

	_, err := Verify(rep)
	require.NoError(t, err)

	rep.Reseeds = nil
	_, err = Verify(rep)
	assert.True(t, errors.Is(err, ErrEntropyExhausted), "got %v", err)
	assert.ErrorIs(t, err, ErrDiverged)
}

func TestVerifyDetectsTampering(t *testing.T) {
	rep := record(t, 4242)

	tampered := *rep
	tampered.Events = append([]Event(nil), rep.Events...)
	for i, ev := range tampered.Events {
		if ev.Action == core.ActionHardDrop {
			tampered.Events[i].Action = core.ActionRight
			break
		}
	}
	_, err := Verify(&tampered)
	assert.ErrorIs(t, err, ErrDiverged)

	wrongScore := *rep
	wrongScore.Score += 100
	_, err = Verify(&wrongScore)
	assert.ErrorIs(t, err, ErrDiverged)

	wrongSeed := *rep
	wrongSeed.Seed++
	_, err = Verify(&wrongSeed)
	assert.ErrorIs(t, err, ErrDiverged)
}

func TestValidate(t *testing.T) {
	valid := Replay{
		Seed:     5,
		TickRate: 60,
		Start:    core.ActionLeft,
		Ticks:    10,
		Events:   []Event{{Tick: 1, Action: core.ActionLeft}, {Tick: 4, Action: core.ActionHardDrop}},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *Replay)
	}{
		{"zero seed", func(r *Replay) { r.Seed = 0 }},
		{"zero tick rate", func(r *Replay) { r.TickRate = 0 }},
		{"start none", func(r *Replay) { r.Start = core.ActionNone }},
		{"event at zero", func(r *Replay) { r.Events[0].Tick = 0 }},
		{"event out of order", func(r *Replay) { r.Events[1].Tick = 1 }},
		{"event past end", func(r *Replay) { r.Events[1].Tick = 11 }},
		{"quit event", func(r *Replay) { r.Events[0].Action = core.ActionQuit }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			r.Events = append([]Event(nil), valid.Events...)
			tt.mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestPlayerProgress(t *testing.T) {
	rep := record(t, 77)
	p, err := NewPlayer(rep)
	require.NoError(t, err)

	played, total := p.Progress()
	assert.Zero(t, played)
	assert.Equal(t, rep.Ticks, total)

	res, err := p.Step()
	require.NoError(t, err)
	assert.Equal(t, rep.Seed, res.GameSeed)
	assert.Equal(t, cubes.PhasePlaying, p.Engine().Phase())

	for !p.Done() {
		_, err := p.Step()
		require.NoError(t, err)
	}
	played, _ = p.Progress()
	assert.Equal(t, rep.Ticks, played)

	_, err = p.Step()
	assert.Error(t, err)
}

func TestReplayDuration(t *testing.T) {
	r := Replay{TickRate: 50, Ticks: 100}
	assert.Equal(t, 20*time.Millisecond, r.Interval())
	assert.Equal(t, 2*time.Second, r.Duration())
}
