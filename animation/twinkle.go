package animation

import (
	"time"

	"libdb.so/ledman/internal/gate"
	"libdb.so/ledman/internal/led"
)

// starTwinkle bounces a blue dot between the ends of the strip, turning
// around early at random, while white and orange stars twinkle around it.
type starTwinkle struct {
	step *gate.Gate
	red  *gate.Gate
	flip *gate.Gate

	pos      int
	backward bool
}

func newStarTwinkle() starTwinkle {
	return starTwinkle{
		step: gate.New(11 * time.Millisecond),
		red:  gate.New(10 * time.Second),
		flip: gate.New(time.Second),
	}
}

var twinkleDot = led.HSV(166, 255, 200).RGB()

func (r *starTwinkle) render(s *Stage, now time.Time) {
	n := len(s.LEDs)
	if n == 0 || !r.step.Tick(now) {
		return
	}

	star := s.randomPixel()
	switch {
	case star%3 == 0:
		s.LEDs[star] = led.DarkOrange
	case star == r.pos:
		s.LEDs[star] = led.Red
	default:
		s.LEDs[star] = led.White
	}

	s.LEDs.Set(r.pos, twinkleDot)

	switch {
	case r.pos <= 0 && r.backward:
		r.backward = false
	case r.pos >= n-1 && !r.backward:
		r.backward = true
	}

	if r.backward {
		r.pos--
	} else {
		r.pos++
	}
	r.pos = max(0, min(r.pos, n-1))

	if r.red.Tick(now) {
		s.LEDs[s.randomPixel()] = led.Red
	}

	if r.flip.Tick(now) {
		r.backward = !r.backward
		r.flip.SetPeriod(s.Rand.Duration(100*time.Millisecond, 3*time.Second))
	}

	s.LEDs.FadeToBlackBy(8)
	s.Show()
}
