package animation

import (
	"time"

	"libdb.so/ledman/internal/gate"
	"libdb.so/ledman/internal/led"
	"libdb.so/ledman/internal/wave"
)

// beatWave paints the shared palette across the strip, indexed by the sum of
// four sine waves beating at slightly different rates.
type beatWave struct {
	blend  *gate.Gate
	reroll *gate.Gate
}

func newBeatWave() beatWave {
	return beatWave{
		blend:  gate.New(100 * time.Millisecond),
		reroll: gate.New(5 * time.Second),
	}
}

func (r *beatWave) render(s *Stage, now time.Time) {
	t := s.Elapsed(now)
	w1 := wave.BeatSin8(t, 9, 0, 255)
	w2 := wave.BeatSin8(t, 8, 0, 255)
	w3 := wave.BeatSin8(t, 7, 0, 255)
	w4 := wave.BeatSin8(t, 6, 0, 255)

	for i := range s.LEDs {
		index := uint8(i) + w1 + w2 + w3 + w4
		s.LEDs[i] = led.ColorFromPalette(&s.Palettes.Current, index, 255, true)
	}

	if r.blend.Tick(now) {
		s.Palettes.Blend(s.cfg.MaxChanges)
	}

	if r.reroll.Tick(now) {
		s.Palettes.Target = s.randomPalette()
	}

	s.Show()
}

// Noise coordinates for the inch worm.
const (
	wormXScale = 30
	wormYScale = 30
)

// inchWorm drops pixels at a position read from a slowly moving noise field,
// leaving a fading trail, and now and then throws in a burst of white
// sparkles.
type inchWorm struct {
	palettes led.PalettePair
	dist     uint16

	step    *gate.Gate
	reroll  *gate.Gate
	sparkle *gate.Gate
	burst   *gate.Gate
	pending int
}

func newInchWorm(s *Stage) inchWorm {
	return inchWorm{
		palettes: led.PalettePair{
			Current: led.LavaColors,
			Target:  led.OceanColors,
		},
		dist:    uint16(s.Rand.Intn(12345)),
		step:    gate.New(10 * time.Millisecond),
		reroll:  gate.New(5 * time.Second),
		sparkle: gate.New(s.Rand.Duration(10*time.Second, 35*time.Second)),
		burst:   gate.New(50 * time.Millisecond),
	}
}

func (r *inchWorm) render(s *Stage, now time.Time) {
	n := len(s.LEDs)
	if n == 0 {
		return
	}

	if r.step.Tick(now) {
		r.palettes.Blend(s.cfg.MaxChanges)
		r.move(s, now)
		s.LEDs.FadeToBlackBy(4)
	}

	if r.reroll.Tick(now) {
		r.palettes.Target = s.randomPalette()
	}

	if r.sparkle.Tick(now) {
		r.pending = s.Rand.Range(10, 30)
		r.sparkle.SetPeriod(s.Rand.Duration(10*time.Second, 35*time.Second))
	}

	if r.pending > 0 && r.burst.Tick(now) {
		s.LEDs[s.randomPixel()] = led.White
		r.pending--
	}

	s.Show()
}

func (r *inchWorm) move(s *Stage, now time.Time) {
	n := len(s.LEDs)

	loc := s.Noise.Noise8(wormXScale, r.dist+wormYScale) % 255
	pos := led.Map(int(loc), 0, 255, 0, n)
	if pos >= n {
		pos = n - 1
	}

	s.LEDs[pos] = led.ColorFromPalette(&r.palettes.Current, uint8(pos), 255, true)
	r.dist += uint16(wave.BeatSin8(s.Elapsed(now), 10, 1, 4))
}
