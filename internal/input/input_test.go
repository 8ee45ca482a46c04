package input

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/ledman/control"
	"libdb.so/ledman/internal/led"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type fakeADC struct {
	raw   int32
	err   error
	reads int
}

func (a *fakeADC) Range() (analog.Sample, analog.Sample) {
	return analog.Sample{Raw: 0}, analog.Sample{Raw: 4095}
}

func (a *fakeADC) Read() (analog.Sample, error) {
	a.reads++
	if a.err != nil {
		return analog.Sample{}, a.err
	}
	return analog.Sample{Raw: a.raw}, nil
}

func TestKnob(t *testing.T) {
	adc := &fakeADC{raw: 2048}
	knob := NewKnob(adc)

	b, ok, err := knob.Poll()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint8(127), b)
	assert.Equal(t, KnobSamples, adc.reads)

	// The smoothed value moves by two steps, which is inside the deadband.
	adc.raw = 2080
	b, ok, err = knob.Poll()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, uint8(127), b)

	adc.raw = 2200
	b, ok, err = knob.Poll()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint8(135), b)
}

func TestKnobFullScale(t *testing.T) {
	adc := &fakeADC{raw: 4095}
	knob := NewKnob(adc)

	b, ok, err := knob.Poll()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint8(255), b)

	_, ok, err = knob.Poll()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKnobReadError(t *testing.T) {
	knob := NewKnob(&fakeADC{err: errors.New("bus fault")})

	_, _, err := knob.Poll()
	assert.ErrorContains(t, err, "bus fault")
}

func TestColorButton(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO17", Num: 17, L: gpio.Low}
	button := NewColorButton(pin, nil, 0)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, ok := button.Poll(now)
	assert.False(t, ok, "released button must not fire")

	pin.L = gpio.High

	c, ok := button.Poll(now)
	require.True(t, ok)
	assert.Equal(t, DefaultColors[0], c)

	_, ok = button.Poll(now.Add(100 * time.Millisecond))
	assert.False(t, ok, "held button must be debounced")

	now = now.Add(301 * time.Millisecond)
	c, ok = button.Poll(now)
	require.True(t, ok)
	assert.Equal(t, DefaultColors[1], c)

	for i := 2; i < len(DefaultColors); i++ {
		now = now.Add(time.Second)
		_, ok = button.Poll(now)
		require.True(t, ok)
	}

	now = now.Add(time.Second)
	c, ok = button.Poll(now)
	require.True(t, ok)
	assert.Equal(t, DefaultColors[0], c, "colors wrap around")
}

func TestPollerButton(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO17", Num: 17, L: gpio.High}
	knob := &fakeADC{raw: 4095}

	ch := control.NewChannel()
	p := NewPoller(ch, PollerOpts{
		Knob:   knob,
		Button: pin,
		Colors: []led.HSVColor{led.HSV(28, 182, 225)},
	})

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, p.Poll(now))

	assert.Equal(t, control.SolidColor, ch.Mode())
	assert.Equal(t, led.HSV(28, 182, 225), ch.Color())
	assert.Equal(t, uint8(225), ch.Brightness())
	assert.Zero(t, knob.reads, "button press skips the knob")
}

func TestPollerKnob(t *testing.T) {
	ch := control.NewChannel()
	ch.SetMode(control.Animation)

	p := NewPoller(ch, PollerOpts{Knob: &fakeADC{raw: 2048}})
	require.NoError(t, p.Poll(time.Now()))

	assert.Equal(t, control.Bright, ch.Mode())
	assert.Equal(t, uint8(127), ch.Brightness())

	// An unchanged knob leaves the mode alone.
	ch.SetMode(control.Animation)
	require.NoError(t, p.Poll(time.Now()))
	assert.Equal(t, control.Animation, ch.Mode())
}

func TestPollerKnobFloorsBrightness(t *testing.T) {
	ch := control.NewChannel()
	ch.SetMode(control.Animation)

	knob := &fakeADC{raw: 100}
	p := NewPoller(ch, PollerOpts{Knob: knob})
	require.NoError(t, p.Poll(time.Now()))

	assert.Equal(t, control.Bright, ch.Mode())
	assert.Equal(t, uint8(control.MinBrightness), ch.Brightness())
}

func TestPollerButtonMarksSolidEntry(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO17", Num: 17, L: gpio.High}
	c := led.HSV(85, 76, 254)

	ch := control.NewChannel()
	ch.SetColor(c)
	p := NewPoller(ch, PollerOpts{
		Button: pin,
		Colors: []led.HSVColor{c},
	})

	require.NoError(t, p.Poll(time.Now()))
	assert.Equal(t, control.SolidColor, ch.Mode())
	assert.True(t, ch.TakeSolidEntry(), "pressing the current color still enters SolidColor")
	assert.False(t, ch.TakeSolidEntry())
}

func TestPollerRun(t *testing.T) {
	ch := control.NewChannel()
	p := NewPoller(ch, PollerOpts{
		Knob:     &fakeADC{err: errors.New("bus fault")},
		Interval: time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, control.Off, ch.Mode())
}

func TestNoiseSeed(t *testing.T) {
	_, err := NoiseSeed(nil)
	require.NoError(t, err)

	adc := &fakeADC{raw: 1234}
	_, err = NoiseSeed(adc)
	require.NoError(t, err)
	assert.Equal(t, 8, adc.reads)

	_, err = NoiseSeed(&fakeADC{err: errors.New("bus fault")})
	assert.Error(t, err)
}
