// Package gate provides periodic gates: guards that let a block of code run at
// most once per interval.
package gate

import "time"

// Gate fires at most once per period. The zero value is a gate with a zero
// period, which fires on every Tick after the first.
//
// A gate is armed by its first Tick, which records the current time and does
// not fire. After that, Tick fires when at least one period has elapsed since
// the last fire. Missed periods are dropped, not queued: a gate that is not
// checked for several periods fires once.
type Gate struct {
	last   time.Time
	period time.Duration
	armed  bool
}

// New creates a new gate with the given period.
func New(period time.Duration) *Gate {
	return &Gate{period: period}
}

// Tick reports whether the gate fires at the given time.
func (g *Gate) Tick(now time.Time) bool {
	if !g.armed {
		g.armed = true
		g.last = now
		return false
	}

	if now.Sub(g.last) < g.period {
		return false
	}

	g.last = now
	return true
}

// Period returns the current period.
func (g *Gate) Period() time.Duration {
	return g.period
}

// SetPeriod changes the period. It is meant to be called from inside the
// block guarded by Tick and takes effect on the next Tick.
func (g *Gate) SetPeriod(period time.Duration) {
	g.period = period
}

// Reset disarms the gate. The next Tick arms it again.
func (g *Gate) Reset() {
	g.armed = false
	g.last = time.Time{}
}
