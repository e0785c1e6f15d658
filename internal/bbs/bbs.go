// Package bbs implements the Blum Blum Shub style generator that picks the
// next tetromino.
//
// The recurrence squares a 32-bit state modulo N = P*Q, with the square taken
// in 64 bits, and keeps the low 32 bits of the remainder as the new state.
// That recurrence has attracting fixed points and short cycles (0 is the
// obvious one). Generator treats any of them as a degenerate state and reseeds
// instead of surfacing an error. A generator created with a non-zero state
// derives its reseed values from that state, so a fixed seed always yields
// the same sequence.
package bbs

import "math"

// Primes of the modulus.
const (
	P uint64 = 4294967311
	Q uint64 = 1062232319
	N        = P * Q
)

// historySize bounds the cycle detector. The longest attracting cycle of the
// recurrence is 21 states long.
const historySize = 32

// Step is the pure reference recurrence: s' = s² mod N, truncated to 32 bits.
func Step(s uint32) uint32 {
	x := uint64(s) * uint64(s)
	return uint32(x % N) //#nosec G115 -- truncation is part of the recurrence
}

// Generator owns one PRNG state. The zero value is ready to use and seeds
// itself from Seed on the first draw.
type Generator struct {
	state   uint32
	history [historySize]uint32
	filled  int
	next    int

	origin  uint32
	reseeds uint32

	entropy  func() uint32
	onReseed func(uint32)
}

// Option configures a Generator.
type Option func(*Generator)

// WithEntropy replaces the source used for lazy initialization and
// reseeding. It takes precedence over values derived from the initial state.
// Replays inject their recorded values here.
func WithEntropy(f func() uint32) Option {
	return func(g *Generator) {
		g.entropy = f
	}
}

// WithReseedHook registers a callback invoked with every value drawn from the
// entropy source.
func WithReseedHook(f func(uint32)) Option {
	return func(g *Generator) {
		g.onReseed = f
	}
}

// New creates a generator with the given initial state. A zero state means
// the state is taken from the entropy source on the first draw.
func New(state uint32, opts ...Option) *Generator {
	g := &Generator{state: state, origin: state}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns the current state without advancing it.
func (g *Generator) State() uint32 {
	return g.state
}

// Begin starts a fresh, reproducible stream: it forgets the cycle history,
// seeds from entropy if the state is still zero, and returns the state.
// Two generators that Begin with the same state and the same entropy source
// draw identical sequences.
func (g *Generator) Begin() uint32 {
	g.filled, g.next = 0, 0
	if g.state == 0 {
		g.reseed()
	}
	return g.state
}

// Uint32 advances the state and returns it.
func (g *Generator) Uint32() uint32 {
	if g.state == 0 {
		g.reseed()
	}

	s := Step(g.state)
	if s == 0 || g.seen(s) {
		g.reseed()
		s = Step(g.state)
	}

	g.state = s
	g.remember(s)
	return s
}

// Intn returns Uint32() mod n. It panics if n <= 0.
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		panic("bbs: invalid argument to Intn")
	}
	return int(g.Uint32() % uint32(n)) //#nosec G115 -- n is positive and small
}

// Float64 returns the next output scaled into [0, 1).
func (g *Generator) Float64() float64 {
	f := float64(g.Uint32()) / float64(math.MaxUint32)
	if f >= 1 {
		return math.Nextafter(1, 0)
	}
	return f
}

func (g *Generator) reseed() {
	var s uint32
	switch {
	case g.entropy != nil:
		s = g.entropy()
	case g.origin != 0:
		s = derive(g.origin, g.reseeds)
	default:
		s = Seed()
	}
	g.reseeds++
	if s == 0 {
		s = fallbackSeed
	}
	g.state = s
	g.filled, g.next = 0, 0
	if g.onReseed != nil {
		g.onReseed(s)
	}
}

func (g *Generator) seen(s uint32) bool {
	for i := 0; i < g.filled; i++ {
		if g.history[i] == s {
			return true
		}
	}
	return false
}

func (g *Generator) remember(s uint32) {
	g.history[g.next] = s
	g.next = (g.next + 1) % historySize
	if g.filled < historySize {
		g.filled++
	}
}

// derive returns the n-th reseed value for a generator seeded with origin.
func derive(origin, n uint32) uint32 {
	x := origin ^ (n+1)*0x9E3779B9
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}
