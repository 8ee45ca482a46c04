// Package input reads the optional hardware controls: a brightness knob on an
// ADC channel and a color select button on a GPIO pin.
package input

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"libdb.so/ledman/control"
	"libdb.so/ledman/internal/led"
	"libdb.so/ledman/internal/metrics"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
)

// ADC is an analog input. analog.PinADC satisfies it.
type ADC interface {
	// Range returns the lowest and highest sample the input can produce.
	Range() (analog.Sample, analog.Sample)
	// Read takes a sample.
	Read() (analog.Sample, error)
}

// Knob smooths a potentiometer reading into a brightness. The raw value is
// averaged over a few samples, run through an exponential moving average
// and mapped onto 0-255; changes within the deadband are ignored.
type Knob struct {
	adc      ADC
	min, max int32
	alpha    float64
	deadband int

	ema    int
	primed bool
	last   int
}

// Knob defaults.
const (
	KnobSamples  = 3
	KnobAlpha    = 0.8
	KnobDeadband = 2
)

// NewKnob creates a new Knob reading from adc.
func NewKnob(adc ADC) *Knob {
	lo, hi := adc.Range()
	if lo.Raw < 0 {
		// Differential inputs report a negative floor the knob never reaches.
		lo.Raw = 0
	}
	return &Knob{
		adc:      adc,
		min:      lo.Raw,
		max:      hi.Raw,
		alpha:    KnobAlpha,
		deadband: KnobDeadband,
	}
}

// Poll reads the knob. It returns the new brightness and true if the knob
// moved past the deadband since the last reported value.
func (k *Knob) Poll() (uint8, bool, error) {
	var sum int
	for i := 0; i < KnobSamples; i++ {
		s, err := k.adc.Read()
		if err != nil {
			return 0, false, errors.Wrap(err, "failed to read knob")
		}
		sum += int(s.Raw)
	}
	mean := sum / KnobSamples

	if !k.primed {
		k.ema = mean
		k.primed = true
	}
	k.ema = int(k.alpha*float64(mean) + (1-k.alpha)*float64(k.ema))

	v := led.Map(k.ema, int(k.min), int(k.max), 0, 255)
	v = max(0, min(v, 255))

	diff := v - k.last
	if diff < 0 {
		diff = -diff
	}
	if diff <= k.deadband {
		return uint8(k.last), false, nil
	}

	k.last = v
	return uint8(v), true, nil
}

// DefaultColors are the colors the color button cycles through.
var DefaultColors = []led.HSVColor{
	led.HSV(85, 76, 254),
	led.HSV(0, 0, 255),
	led.HSV(28, 182, 225),
	led.HSV(28, 182, 255),
	led.HSV(164, 4, 255),
	led.HSV(164, 4, 176),
	led.HSV(85, 61, 254),
	led.HSV(72, 61, 85),
	led.HSV(0, 0, 0),
}

// DefaultDebounce is the shortest time between two button presses.
const DefaultDebounce = 300 * time.Millisecond

// ColorButton cycles through a list of colors while it is held down.
type ColorButton struct {
	pin      gpio.PinIn
	colors   []led.HSVColor
	debounce time.Duration

	next int
	last time.Time
}

// NewColorButton creates a new ColorButton. The pin is high while the button
// is pressed.
func NewColorButton(pin gpio.PinIn, colors []led.HSVColor, debounce time.Duration) *ColorButton {
	if len(colors) == 0 {
		colors = DefaultColors
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &ColorButton{
		pin:      pin,
		colors:   colors,
		debounce: debounce,
	}
}

// Poll reads the button. It returns the next color and true if the button is
// pressed and the debounce time has passed since the last press.
func (b *ColorButton) Poll(now time.Time) (led.HSVColor, bool) {
	if b.pin.Read() != gpio.High {
		return led.HSVColor{}, false
	}
	if !b.last.IsZero() && now.Sub(b.last) <= b.debounce {
		return led.HSVColor{}, false
	}

	c := b.colors[b.next]
	b.next = (b.next + 1) % len(b.colors)
	b.last = now
	return c, true
}

// NoiseSeed derives a random seed from a floating analog input. If adc is
// nil, the seed comes from the clock alone.
func NoiseSeed(adc ADC) (int64, error) {
	h := fnv.New64a()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(time.Now().UnixNano()))
	h.Write(buf[:])

	if adc != nil {
		for i := 0; i < 8; i++ {
			s, err := adc.Read()
			if err != nil {
				return 0, errors.Wrap(err, "failed to read noise input")
			}
			binary.LittleEndian.PutUint32(buf[:4], uint32(s.Raw))
			h.Write(buf[:4])
		}
	}

	return int64(h.Sum64()), nil
}

// DefaultInterval is how often the Poller reads the controls.
const DefaultInterval = 10 * time.Millisecond

// PollerOpts are the options for NewPoller.
type PollerOpts struct {
	// Knob is the brightness knob. Nil disables it.
	Knob ADC
	// Button is the color select button. Nil disables it.
	Button gpio.PinIn
	// Colors are the colors the button cycles through.
	Colors []led.HSVColor
	// Debounce is the shortest time between two button presses.
	Debounce time.Duration
	// Interval is how often the controls are read.
	Interval time.Duration
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Poller reads the hardware controls and forwards them to a control
// channel.
type Poller struct {
	ch       *control.Channel
	knob     *Knob
	button   *ColorButton
	interval time.Duration
	logger   *slog.Logger
}

// NewPoller creates a new Poller.
func NewPoller(ch *control.Channel, opts PollerOpts) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	p := &Poller{
		ch:       ch,
		interval: opts.Interval,
		logger:   opts.Logger,
	}
	if opts.Knob != nil {
		p.knob = NewKnob(opts.Knob)
	}
	if opts.Button != nil {
		p.button = NewColorButton(opts.Button, opts.Colors, opts.Debounce)
	}
	return p
}

// Poll reads the controls once. A button press takes precedence over the
// knob.
func (p *Poller) Poll(now time.Time) error {
	if p.button != nil {
		if c, ok := p.button.Poll(now); ok {
			p.logger.Debug(
				"color button pressed",
				"color", c)
			metrics.ControlRequest("button", "color")

			p.ch.EnterSolidColor(c)
			return nil
		}
	}

	if p.knob != nil {
		b, ok, err := p.knob.Poll()
		if err != nil {
			return err
		}
		if ok {
			p.logger.Debug(
				"brightness knob turned",
				"brightness", b)
			metrics.ControlRequest("knob", "brightness")

			p.ch.SetBrightness(max(b, control.MinBrightness))
			p.ch.SetMode(control.Bright)
		}
	}

	return nil
}

// Run polls the controls until ctx is canceled. Read errors are logged and
// do not stop the poller.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := p.Poll(now); err != nil {
				p.logger.Warn(
					"failed to poll hardware input",
					"error", err)
			}
		}
	}
}
