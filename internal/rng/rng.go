// Package rng provides the process-wide pseudorandom source used by the
// animations. It is seeded once at startup, usually from a hardware noise
// reading, and never reseeded.
package rng

import (
	"math/rand"
	"time"
)

// Source is a seeded pseudorandom source. It is not safe for concurrent use;
// only the render goroutine draws from it.
type Source struct {
	r *rand.Rand
}

// New creates a new Source seeded with the given seed.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a number in [0, n). It returns 0 if n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.Intn(n)
}

// Range returns a number in [lo, hi). It returns lo if hi <= lo.
func (s *Source) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.Intn(hi-lo)
}

// Random8 returns a number in [0, 255].
func (s *Source) Random8() uint8 {
	return uint8(s.r.Intn(256))
}

// Range8 returns a number in [lo, hi).
func (s *Source) Range8(lo, hi uint8) uint8 {
	return uint8(s.Range(int(lo), int(hi)))
}

// Duration returns a duration in [lo, hi), truncated to milliseconds.
func (s *Source) Duration(lo, hi time.Duration) time.Duration {
	ms := s.Range(int(lo/time.Millisecond), int(hi/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}
