package input

import (
	"fmt"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

// HardwareOpts names the hardware controls to open. An empty I2CBus or
// ButtonPin disables the respective control; ADC channels count from 0, so a
// channel is disabled with -1.
type HardwareOpts struct {
	// I2CBus is the I2C bus the ADS1115 ADC is on, e.g. "1". Empty disables
	// both analog inputs.
	I2CBus string
	// ADCAddress is the I2C address of the ADC. Zero uses the default.
	ADCAddress uint16
	// KnobChannel is the single-ended ADC channel (0-3) of the brightness
	// knob, or -1.
	KnobChannel int
	// SeedChannel is the single-ended ADC channel (0-3) left floating for
	// seeding the random generator, or -1.
	SeedChannel int
	// ButtonPin is the GPIO pin name of the color button, e.g. "GPIO17".
	ButtonPin string
}

var adcChannels = [...]ads1x15.Channel{
	ads1x15.Channel0,
	ads1x15.Channel1,
	ads1x15.Channel2,
	ads1x15.Channel3,
}

// Hardware holds the opened hardware controls. Fields are nil when the
// control is disabled.
type Hardware struct {
	Knob   ADC
	Seed   ADC
	Button gpio.PinIn

	bus  i2c.BusCloser
	pins []analog.PinADC
}

// OpenHardware initializes the host drivers and opens the controls named in
// opts.
func OpenHardware(opts HardwareOpts) (*Hardware, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize host drivers")
	}

	h := &Hardware{}

	if opts.ButtonPin != "" {
		pin := gpioreg.ByName(opts.ButtonPin)
		if pin == nil {
			return nil, fmt.Errorf("unknown GPIO pin %q", opts.ButtonPin)
		}
		// The button pulls the line high against an external pull-down.
		if err := pin.In(gpio.PullDown, gpio.NoEdge); err != nil {
			return nil, errors.Wrapf(err, "failed to configure pin %s", opts.ButtonPin)
		}
		h.Button = pin
	}

	if opts.I2CBus == "" {
		return h, nil
	}

	bus, err := i2creg.Open(opts.I2CBus)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open I2C bus %q", opts.I2CBus)
	}
	h.bus = bus

	adcOpts := ads1x15.DefaultOpts
	if opts.ADCAddress != 0 {
		adcOpts.I2cAddress = opts.ADCAddress
	}

	adc, err := ads1x15.NewADS1115(bus, &adcOpts)
	if err != nil {
		h.Close()
		return nil, errors.Wrap(err, "failed to open ADS1115")
	}

	open := func(channel int) (analog.PinADC, error) {
		if channel < 0 || channel >= len(adcChannels) {
			return nil, fmt.Errorf("ADC channel %d out of range", channel)
		}
		pin, err := adc.PinForChannel(adcChannels[channel], 5*physic.Volt, 100*physic.Hertz, ads1x15.BestQuality)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open ADC channel %d", channel)
		}
		h.pins = append(h.pins, pin)
		return pin, nil
	}

	if opts.KnobChannel >= 0 {
		pin, err := open(opts.KnobChannel)
		if err != nil {
			h.Close()
			return nil, err
		}
		h.Knob = pin
	}

	if opts.SeedChannel >= 0 {
		pin, err := open(opts.SeedChannel)
		if err != nil {
			h.Close()
			return nil, err
		}
		h.Seed = pin
	}

	return h, nil
}

// Close releases the ADC channels and the I2C bus.
func (h *Hardware) Close() error {
	var firstErr error
	for _, pin := range h.pins {
		if err := pin.Halt(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if h.bus != nil {
		if err := h.bus.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
