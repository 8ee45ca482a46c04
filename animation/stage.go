// Package animation contains the catalog of LED animations and the shared
// state they draw on.
package animation

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"libdb.so/ledman/internal/layout"
	"libdb.so/ledman/internal/led"
	"libdb.so/ledman/internal/rng"
	"libdb.so/ledman/internal/wave"
)

// Shower is the interface for types that can push a frame to the strip.
type Shower interface {
	// Show pushes the given LEDs to the strip, scaled by brightness.
	// Implementations must not retain leds after returning.
	Show(leds led.LEDs, brightness uint8) error
}

// Config tunes the animations.
type Config struct {
	// Cooling is how much the fire cools down per frame. Higher values make
	// shorter flames.
	Cooling int `toml:"cooling"`
	// Sparking is the chance out of 255 that a new spark is lit per frame.
	Sparking int `toml:"sparking"`
	// FPS is the frame rate of the fire.
	FPS int `toml:"fps"`
	// MaxChanges is the number of channel steps a palette blend may take at
	// once.
	MaxChanges int `toml:"max_changes"`
	// ReverseFire makes the fire burn from the end of the strip.
	ReverseFire bool `toml:"reverse_fire"`
}

// DefaultConfig returns the default animation configuration.
func DefaultConfig() Config {
	return Config{
		Cooling:    70,
		Sparking:   120,
		FPS:        100,
		MaxChanges: 24,
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.Cooling < 0 || c.Cooling > 255 {
		return errors.New("cooling must be within 0-255")
	}
	if c.Sparking < 0 || c.Sparking > 255 {
		return errors.New("sparking must be within 0-255")
	}
	if c.FPS <= 0 {
		return errors.New("fps must be positive")
	}
	if c.MaxChanges <= 0 {
		return errors.New("max_changes must be positive")
	}
	return nil
}

// StartupBrightness is the brightness a new Stage starts with.
const StartupBrightness = 180

// Stage is the state shared by every animation: the pixel buffer, the index
// map, the shared palette pair and the random source. It is owned by the
// render goroutine.
type Stage struct {
	// LEDs is the pixel buffer. It is never resized.
	LEDs led.LEDs
	// Palettes is the palette pair shared by the palette-blending animations.
	Palettes led.PalettePair
	// Brightness is the global brightness applied when the frame is shown.
	Brightness uint8
	// Rand is the random source every animation draws from.
	Rand *rng.Source
	// Noise is the coherent noise field used by the moving animations.
	Noise *wave.Noise
	// Sleep blocks the render goroutine. It is only used by the fire, which
	// runs at its own frame rate.
	Sleep func(time.Duration)

	cfg    Config
	boot   time.Time
	index  []int
	heat   led.Palette16
	out    Shower
	logger *slog.Logger
}

// StageOpts are the options for NewStage.
type StageOpts struct {
	// NumLEDs is the length of the pixel buffer.
	NumLEDs int
	// Index maps logical positions to physical ones. If nil, the identity
	// map is used.
	Index []int
	// Seed seeds the random source and the noise field.
	Seed int64
	// Boot is the time the animations count their beats from. Defaults to
	// time.Now().
	Boot time.Time
	// Config tunes the animations.
	Config Config
	// Output receives every frame.
	Output Shower
	// Logger is used to report output failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewStage creates a new Stage.
func NewStage(opts StageOpts) *Stage {
	if opts.Index == nil {
		opts.Index = layout.MapLayout(1, opts.NumLEDs, opts.NumLEDs)
	}
	if opts.Boot.IsZero() {
		opts.Boot = time.Now()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Stage{
		LEDs: led.NewLEDs(opts.NumLEDs),
		Palettes: led.PalettePair{
			Current: led.RainbowColors,
			Target:  led.OceanColors,
		},
		Brightness: StartupBrightness,
		Rand:       rng.New(opts.Seed),
		Noise:      wave.NewNoise(opts.Seed),
		Sleep:      time.Sleep,
		cfg:        opts.Config,
		boot:       opts.Boot,
		index:      opts.Index,
		heat:       led.HeatColors,
		out:        opts.Output,
		logger:     opts.Logger,
	}
}

// Show pushes the current buffer to the output. Output errors are logged and
// otherwise ignored; the next frame simply tries again.
func (s *Stage) Show() {
	if s.out == nil {
		return
	}
	if err := s.out.Show(s.LEDs, s.Brightness); err != nil {
		s.logger.Warn(
			"failed to show frame",
			"error", err)
	}
}

// Clear turns every LED off and shows the result.
func (s *Stage) Clear() {
	s.LEDs.Clear()
	s.Show()
}

// At returns the physical index of the logical position i. Positions outside
// the index map are returned as is; LEDs.Set ignores them if they are out of
// range.
func (s *Stage) At(i int) int {
	if i < 0 || i >= len(s.index) {
		return i
	}
	return s.index[i]
}

// Elapsed returns the time since boot.
func (s *Stage) Elapsed(now time.Time) time.Duration {
	d := now.Sub(s.boot)
	if d < 0 {
		return 0
	}
	return d
}

// randomPixel returns a random index into the buffer.
func (s *Stage) randomPixel() int {
	return s.Rand.Intn(len(s.LEDs))
}

// randomPalette returns a gradient through four random bright hues.
func (s *Stage) randomPalette() led.Palette16 {
	r := s.Rand
	return led.GradientPalette(
		led.HSV(r.Random8(), 255, r.Range8(128, 255)),
		led.HSV(r.Random8(), 255, r.Range8(128, 255)),
		led.HSV(r.Random8(), 192, r.Range8(128, 255)),
		led.HSV(r.Random8(), 255, r.Range8(128, 255)),
	)
}
