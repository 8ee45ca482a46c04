package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2022, 2, 20, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

func TestGateDropsMissedPeriods(t *testing.T) {
	g := New(time.Second)

	var fired []int
	for _, ms := range []int{0, 500, 1000, 1500, 2100} {
		if g.Tick(at(ms)) {
			fired = append(fired, ms)
		}
	}

	assert.Equal(t, []int{1000, 2100}, fired)
}

func TestGateNoBurstAfterLongGap(t *testing.T) {
	g := New(10 * time.Millisecond)
	g.Tick(at(0))

	assert.True(t, g.Tick(at(1000)))
	assert.False(t, g.Tick(at(1001)))
	assert.False(t, g.Tick(at(1009)))
	assert.True(t, g.Tick(at(1010)))
}

func TestGateFireCountBound(t *testing.T) {
	const period = 7
	g := New(period * time.Millisecond)

	var fires int
	for ms := 0; ms <= 1000; ms += 3 {
		if g.Tick(at(ms)) {
			fires++
		}
	}

	limit := (1000 + period - 1) / period
	assert.LessOrEqual(t, fires, limit)
	assert.Greater(t, fires, 0)
}

func TestGateSetPeriodAppliesToNextTick(t *testing.T) {
	g := New(100 * time.Millisecond)
	g.Tick(at(0))

	if assert.True(t, g.Tick(at(100))) {
		g.SetPeriod(time.Second)
	}
	assert.Equal(t, time.Second, g.Period())
	assert.False(t, g.Tick(at(300)))
	assert.False(t, g.Tick(at(1099)))
	assert.True(t, g.Tick(at(1100)))
}

func TestGatesAreIndependent(t *testing.T) {
	fast := New(20 * time.Millisecond)
	slow := New(5 * time.Second)
	fast.Tick(at(0))
	slow.Tick(at(0))

	var fastFires, slowFires int
	for ms := 1; ms <= 10000; ms++ {
		if fast.Tick(at(ms)) {
			fastFires++
		}
		if slow.Tick(at(ms)) {
			slowFires++
		}
	}

	assert.Equal(t, 500, fastFires)
	assert.Equal(t, 2, slowFires)
}

func TestGateReset(t *testing.T) {
	g := New(time.Millisecond)
	g.Tick(at(0))
	assert.True(t, g.Tick(at(5)))

	g.Reset()
	assert.False(t, g.Tick(at(100)))
	assert.True(t, g.Tick(at(101)))
}

func TestZeroGate(t *testing.T) {
	var g Gate
	assert.False(t, g.Tick(at(0)))
	assert.True(t, g.Tick(at(0)))
}
