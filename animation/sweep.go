package animation

import (
	"time"

	"libdb.so/ledman/internal/gate"
	"libdb.so/ledman/internal/led"
)

// dotScroll walks a single randomly colored dot across the strip in steps of
// three, following the index map.
type dotScroll struct {
	step *gate.Gate
	pos  int
}

func newDotScroll() dotScroll {
	return dotScroll{step: gate.New(22 * time.Millisecond)}
}

func (r *dotScroll) render(s *Stage, now time.Time) {
	n := len(s.LEDs)
	if n == 0 || !r.step.Tick(now) {
		return
	}

	if r.pos >= n {
		r.pos = 0
	}

	s.LEDs.Clear()
	s.LEDs.Set(s.At(r.pos), led.HSV(s.Rand.Random8(), 255, 255).RGB())
	s.LEDs.Set(s.randomPixel(), led.HSV(128, 150, 100).RGB())
	s.Show()

	r.pos += 3
}

// colorStrobe flashes the whole strip in a random hue for a moment, five
// times a second.
type colorStrobe struct {
	flash *gate.Gate
	hold  time.Duration
	lit   bool
	since time.Time
}

func newColorStrobe() colorStrobe {
	return colorStrobe{
		flash: gate.New(200 * time.Millisecond),
		hold:  10 * time.Millisecond,
	}
}

func (r *colorStrobe) render(s *Stage, now time.Time) {
	if r.lit && now.Sub(r.since) >= r.hold {
		s.Clear()
		r.lit = false
	}

	if r.flash.Tick(now) {
		s.LEDs.Fill(led.HSV(s.Rand.Random8(), 255, 255).RGB())
		s.Show()
		r.lit = true
		r.since = now
	}
}

// ltrDot draws every third pixel left to right in one hue, fading behind
// itself, and picks a new hue on every pass.
type ltrDot struct {
	draw *gate.Gate
	fade *gate.Gate
	pos  int
	hue  uint8
}

func newLTRDot() ltrDot {
	return ltrDot{
		draw: gate.New(30 * time.Millisecond),
		fade: gate.New(2 * time.Millisecond),
	}
}

func (r *ltrDot) render(s *Stage, now time.Time) {
	n := len(s.LEDs)
	if n == 0 {
		return
	}

	if r.draw.Tick(now) {
		s.LEDs.Set(s.At(r.pos), led.HSV(r.hue, 255, 255).RGB())
		s.Show()
		r.pos += 3
		if r.pos >= n {
			r.pos = 0
		}
	}

	if r.fade.Tick(now) {
		s.LEDs.FadeToBlackBy(10)
	}

	if r.pos == 0 {
		r.hue = s.Rand.Random8()
	}
}
