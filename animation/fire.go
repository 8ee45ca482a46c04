package animation

import (
	"time"

	"libdb.so/ledman/internal/led"
)

// fire simulates a one-dimensional heat field rising from the start of the
// strip and maps it through the heat palette. Unlike the other animations it
// paces itself by sleeping for one frame period after every frame.
type fire struct {
	heat []uint8
}

func newFire(s *Stage) fire {
	return fire{heat: make([]uint8, len(s.LEDs))}
}

// sparkZone is the number of cells at the bottom of the fire that new sparks
// can land in.
const sparkZone = 7

func (r *fire) render(s *Stage) {
	n := len(s.LEDs)
	if n == 0 {
		return
	}
	if len(r.heat) != n {
		r.heat = make([]uint8, n)
	}

	cfg := s.cfg

	// Cool down every cell a little.
	cooldown := cfg.Cooling*10/n + 2
	if cooldown > 255 {
		cooldown = 255
	}
	for i := range r.heat {
		r.heat[i] = led.QSub8(r.heat[i], uint8(s.Rand.Intn(cooldown)))
	}

	// Let the heat drift up and diffuse a little.
	for k := n - 1; k >= 2; k-- {
		r.heat[k] = uint8((int(r.heat[k-1]) + 2*int(r.heat[k-2])) / 3)
	}

	// Randomly ignite new sparks near the bottom.
	if int(s.Rand.Random8()) < cfg.Sparking {
		y := s.Rand.Intn(min(sparkZone, n))
		r.heat[y] = led.QAdd8(r.heat[y], s.Rand.Range8(160, 255))
	}

	for j, h := range r.heat {
		// Scale the heat down to 0-240 to stay off the wrapping end of the
		// palette.
		c := led.ColorFromPalette(&s.heat, led.Scale8(h, 240), 255, true)
		if cfg.ReverseFire {
			s.LEDs[n-1-j] = c
		} else {
			s.LEDs[j] = c
		}
	}

	s.Show()

	if cfg.FPS > 0 {
		s.Sleep(time.Second / time.Duration(cfg.FPS))
	}
}
