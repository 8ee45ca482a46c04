// Package control holds the requests shared between the control surfaces
// and the render loop.
//
// Every field of a Channel is written by the control surfaces (the HTTP API,
// the knob and the button) and read once per tick by the scheduler. Fields
// are individually atomic; writes are last-write-wins.
package control

import (
	"fmt"
	"strings"
	"sync/atomic"

	"libdb.so/ledman/animation"
	"libdb.so/ledman/internal/led"
)

// Mode is the rendering mode of the strip.
type Mode int32

const (
	// Bright applies a new brightness once and returns to the previous mode.
	Bright Mode = iota
	// Animation runs the selected animation.
	Animation
	// SolidColor fills the strip with the requested color.
	SolidColor
	// Off keeps the strip dark.
	Off
)

var modeNames = [...]string{
	Bright:     "bright",
	Animation:  "animation",
	SolidColor: "solid_color",
	Off:        "off",
}

// ModeNames returns the names of every mode, in order.
func ModeNames() []string {
	return append([]string(nil), modeNames[:]...)
}

// String returns the name of the mode.
func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int32(m))
}

// ParseMode parses a mode name as returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MinBrightness is the lowest brightness a control surface may request.
const MinBrightness = 24

// Channel carries control requests to the render loop.
type Channel struct {
	mode       atomic.Int32
	animation  atomic.Int32
	brightness atomic.Uint32
	color      atomic.Uint32 // led.HSVColor.Pack
	entered    atomic.Bool   // set by EnterSolidColor until the scheduler sees it
	status     Status
}

// NewChannel creates a new Channel. The strip starts off at full brightness
// with no animation selected.
func NewChannel() *Channel {
	ch := &Channel{}
	ch.mode.Store(int32(Off))
	ch.animation.Store(int32(animation.Clear))
	ch.brightness.Store(255)
	return ch
}

// Mode returns the requested mode.
func (ch *Channel) Mode() Mode {
	return Mode(ch.mode.Load())
}

// SetMode requests a new mode.
func (ch *Channel) SetMode(m Mode) {
	ch.mode.Store(int32(m))
}

// RestoreMode switches from the Bright mode back to m. It does nothing if
// the mode was changed away from Bright in the meantime.
func (ch *Channel) RestoreMode(m Mode) bool {
	return ch.mode.CompareAndSwap(int32(Bright), int32(m))
}

// Animation returns the selected animation.
func (ch *Channel) Animation() animation.Selector {
	return animation.Selector(ch.animation.Load())
}

// SetAnimation selects an animation. It does not change the mode.
func (ch *Channel) SetAnimation(sel animation.Selector) {
	ch.animation.Store(int32(sel))
}

// Brightness returns the requested brightness.
func (ch *Channel) Brightness() uint8 {
	return uint8(ch.brightness.Load())
}

// SetBrightness requests a new brightness. It does not change the mode.
func (ch *Channel) SetBrightness(b uint8) {
	ch.brightness.Store(uint32(b))
}

// Color returns the requested solid color.
func (ch *Channel) Color() led.HSVColor {
	return led.UnpackHSV(ch.color.Load())
}

// SetColor requests a new solid color. It does not change the mode.
func (ch *Channel) SetColor(c led.HSVColor) {
	ch.color.Store(c.Pack())
}

// EnterSolidColor requests c as a solid color at its own brightness and
// switches to the SolidColor mode. Unlike SetColor, the scheduler repaints
// the strip even if c is the color it last applied.
func (ch *Channel) EnterSolidColor(c led.HSVColor) {
	ch.SetColor(c)
	ch.SetBrightness(c.V)
	ch.entered.Store(true)
	ch.SetMode(SolidColor)
}

// TakeSolidEntry reports whether EnterSolidColor was called since the last
// call to TakeSolidEntry.
func (ch *Channel) TakeSolidEntry() bool {
	return ch.entered.Swap(false)
}

// SetColorValue replaces the value of the requested color, keeping its hue
// and saturation.
func (ch *Channel) SetColorValue(v uint8) {
	for {
		old := ch.color.Load()
		c := led.UnpackHSV(old)
		c.V = v
		if ch.color.CompareAndSwap(old, c.Pack()) {
			return
		}
	}
}

// Status returns the status published by the render loop and the sensors.
func (ch *Channel) Status() *Status {
	return &ch.status
}

// Status is what the strip is currently doing, for display purposes.
type Status struct {
	animation   atomic.Pointer[string]
	temperature atomic.Pointer[string]
}

// Animation returns the name of what is currently playing.
func (s *Status) Animation() string {
	return load(&s.animation)
}

// SetAnimation sets the name of what is currently playing.
func (s *Status) SetAnimation(name string) {
	s.animation.Store(&name)
}

// Temperature returns the last temperature reading as reported by the
// sensor, or an empty string if there is none.
func (s *Status) Temperature() string {
	return load(&s.temperature)
}

// SetTemperature publishes a temperature reading.
func (s *Status) SetTemperature(reading string) {
	s.temperature.Store(&reading)
}

func load(p *atomic.Pointer[string]) string {
	if v := p.Load(); v != nil {
		return *v
	}
	return ""
}
