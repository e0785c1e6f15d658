package bbs

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// fallbackSeed is used when both entropy and the clock yield zero.
const fallbackSeed uint32 = 0x9E3779B9

// Seed returns an unpredictable non-zero 32-bit seed. It prefers the
// operating system's entropy pool, which is backed by the CPU's hardware
// generator where one exists, and falls back to the wall clock.
func Seed() uint32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err == nil {
		if s := binary.LittleEndian.Uint32(buf[:]); s != 0 {
			return s
		}
	}
	return clockSeed(time.Now())
}

func clockSeed(now time.Time) uint32 {
	if s := uint32(now.Unix()); s != 0 { //#nosec G115 -- truncation intended
		return s
	}
	return fallbackSeed
}

// Sequence returns an entropy source that yields the given values in order
// and then reports exhaustion through ok. It is how replays feed recorded
// reseed values back into a Generator.
func Sequence(values []uint32) (next func() uint32, ok func() bool) {
	i := 0
	exhausted := false
	next = func() uint32 {
		if i >= len(values) {
			exhausted = true
			return fallbackSeed
		}
		v := values[i]
		i++
		return v
	}
	ok = func() bool {
		return !exhausted
	}
	return next, ok
}
