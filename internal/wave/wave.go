// Package wave implements the periodic and coherent-noise functions used by
// the moving animations.
package wave

import (
	"math"
	"time"

	"github.com/aquilax/go-perlin"
)

// Beat8 returns a sawtooth that rises from 0 to 255 bpm times per minute.
func Beat8(elapsed time.Duration, bpm uint8) uint8 {
	ms := uint64(elapsed / time.Millisecond)
	// 280/65536 of a beat per millisecond at 1 BPM, scaled to 8 bits.
	return uint8((ms * uint64(bpm) * 280) >> 16)
}

// Sin8 returns the sine of theta, where 0..255 covers one full turn, scaled
// to 1..255 with 128 at the zero crossing.
func Sin8(theta uint8) uint8 {
	s := math.Sin(float64(theta) * 2 * math.Pi / 256)
	return uint8(math.Round(128 + 127*s))
}

// BeatSin8 returns a sine wave oscillating between lo and hi bpm times per
// minute.
func BeatSin8(elapsed time.Duration, bpm, lo, hi uint8) uint8 {
	if hi < lo {
		lo, hi = hi, lo
	}
	s := Sin8(Beat8(elapsed, bpm))
	return lo + uint8(uint16(s)*(uint16(hi-lo)+1)>>8)
}

// Noise is a 2D coherent noise field.
type Noise struct {
	p *perlin.Perlin
}

// Noise parameters: alpha is the weight of each octave, beta the frequency
// multiplier between octaves, octaves the number of octaves summed.
const (
	noiseAlpha   = 2
	noiseBeta    = 2
	noiseOctaves = 3
)

// NewNoise creates a new noise field with the given seed.
func NewNoise(seed int64) *Noise {
	return &Noise{p: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed)}
}

// Noise8 samples the field at (x, y) given in 8.8 fixed point, so that 256
// units cover one lattice cell. The result spans 0..255 with 128 at zero.
func (n *Noise) Noise8(x, y uint16) uint8 {
	v := n.p.Noise2D(float64(x)/256, float64(y)/256)
	return uint8(math.Max(0, math.Min(255, math.Round(128+128*v))))
}
