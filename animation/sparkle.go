package animation

import (
	"time"

	"libdb.so/ledman/internal/gate"
	"libdb.so/ledman/internal/led"
)

// trailSparkle scrolls a trail of dim random hues along the strip, walks an
// accent pixel from one end to the other and flashes highlights on their own
// randomized timers.
type trailSparkle struct {
	step      *gate.Gate
	highlight *gate.Gate
	accent    *gate.Gate
	done      int
}

func newTrailSparkle(s *Stage) trailSparkle {
	return trailSparkle{
		step:      gate.New(20 * time.Millisecond),
		highlight: gate.New(s.Rand.Duration(100*time.Millisecond, time.Second)),
		accent:    gate.New(s.Rand.Duration(223*time.Millisecond, 531*time.Millisecond)),
	}
}

func (r *trailSparkle) render(s *Stage, now time.Time) {
	if !r.step.Tick(now) {
		return
	}

	n := len(s.LEDs)
	if n == 0 {
		return
	}

	s.LEDs.ShiftUp()

	lo := s.Rand.Intn(n / 2)
	hi := s.Rand.Range(n/2, n)
	for i := lo; i < hi; i++ {
		s.LEDs[i] = led.HSV(s.Rand.Range8(128, 255), 255, s.Rand.Range8(0, 70)).RGB()
	}
	s.Show()

	if r.done < n {
		s.LEDs[r.done] = led.RGB(s.Rand.Range8(20, 200), 0, s.Rand.Random8())
		r.done++
	} else {
		r.done = 0
		s.LEDs[0] = led.Black
	}

	if r.highlight.Tick(now) {
		s.LEDs.Set(s.randomPixel(), led.CornflowerBlue)
		s.Show()
		r.highlight.SetPeriod(s.Rand.Duration(100*time.Millisecond, time.Second))
	}

	if r.accent.Tick(now) {
		s.LEDs.Set(s.randomPixel(), led.RGB(s.Rand.Random8(), s.Rand.Random8(), s.Rand.Random8()))
		r.accent.SetPeriod(s.Rand.Duration(223*time.Millisecond, 531*time.Millisecond))
	}

	s.LEDs.Set(s.randomPixel(), led.Purple)
	s.LEDs.FadeToBlackBy(20)
	s.Show()
}

// dotScatter drops a random dot, then on the next step recolors it and a
// second random pixel before blanking it and fading the strip.
type dotScatter struct {
	step *gate.Gate
	dot  int
	lit  bool
}

func newDotScatter() dotScatter {
	return dotScatter{step: gate.New(20 * time.Millisecond)}
}

func (r *dotScatter) render(s *Stage, now time.Time) {
	if len(s.LEDs) == 0 || !r.step.Tick(now) {
		return
	}

	if !r.lit {
		r.dot = s.randomPixel()
		s.LEDs[r.dot] = led.RGB(s.Rand.Random8(), s.Rand.Random8(), 120)
		s.Show()
		r.lit = true
		return
	}

	s.LEDs.Set(r.dot, led.CornflowerBlue)
	s.LEDs.Set(s.randomPixel(), led.Red)
	s.Show()
	s.LEDs.Set(r.dot, led.Black)
	s.LEDs.FadeToBlackBy(10)
	r.lit = false
}

// band is a half-open range [lo, hi) of 8-bit values.
type band struct{ lo, hi uint8 }

func (b band) pick(s *Stage) uint8 { return s.Rand.Range8(b.lo, b.hi) }

// bandRefresh repaints every pixel with a random color drawn from its bands,
// optionally lights one pixel white, shows the frame and clears the buffer
// again. Called once per tick, it produces a strobing field of noise.
type bandRefresh struct {
	hue, sat, val band
	highlight     bool
}

func (r *bandRefresh) render(s *Stage) {
	if len(s.LEDs) == 0 {
		return
	}
	for i := range s.LEDs {
		s.LEDs[i] = led.HSV(r.hue.pick(s), r.sat.pick(s), r.val.pick(s)).RGB()
	}
	if r.highlight {
		s.LEDs[s.randomPixel()] = led.White
	}
	s.Show()
	s.LEDs.Clear()
}
