package ledman

import (
	"encoding"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"libdb.so/ledman/animation"
	"libdb.so/ledman/control"
	"libdb.so/ledman/internal/api"
	"libdb.so/ledman/internal/led"
)

// Config is the configuration for the ledman daemon.
type Config struct {
	// Output is the transport the frames are written to.
	Output OutputKind `toml:"output"`
	// Device is the path to the serial device of the LED controller.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud"`
	// SPIPort is the SPI port the strip is wired to when Output is "spi".
	// Empty picks the first port.
	SPIPort string `toml:"spi_port"`
	// SPIHz is the SPI clock.
	SPIHz int64 `toml:"spi_hz"`
	// Tick is the period of the render loop.
	Tick TOMLDuration `toml:"tick"`
	// Brightness is the brightness the strip starts with.
	Brightness int `toml:"brightness"`
	// MaxCurrent is the most current the power supply may deliver, in
	// milliamps. Zero disables power limiting.
	MaxCurrent int `toml:"max_current_ma"`
	// Volts is the voltage of the power supply.
	Volts int `toml:"volts"`

	Startup   StartupConfig    `toml:"startup"`
	Layout    LayoutConfig     `toml:"layout"`
	Animation animation.Config `toml:"animation"`
	API       APIConfig        `toml:"api"`
	Input     InputConfig      `toml:"input"`
}

// OutputKind is the kind of transport to write frames to.
type OutputKind string

const (
	// SerialOutput writes frames to an LED controller over a serial port.
	SerialOutput OutputKind = "serial"
	// SPIOutput drives a WS2812 strip directly from an SPI port.
	SPIOutput OutputKind = "spi"
	// DiscardOutput drops every frame.
	DiscardOutput OutputKind = "discard"
)

// StartupConfig is what the strip does after booting.
type StartupConfig struct {
	// Mode is the mode the strip starts in.
	Mode control.Mode `toml:"mode"`
	// Animation is the animation selected at startup.
	Animation int `toml:"animation"`
}

// LayoutConfig describes how the LEDs are wired.
type LayoutConfig struct {
	// LEDs is the number of LEDs.
	LEDs int `toml:"leds"`
	// Rows is the number of rows of a serpentine matrix. 1 means a plain
	// strip.
	Rows int `toml:"rows"`
	// Cols is the number of columns of a serpentine matrix.
	Cols int `toml:"cols"`
}

// APIConfig is the configuration for the control API.
type APIConfig struct {
	// Listen is the address to serve on. Empty disables the API.
	Listen string `toml:"listen"`
	// About describes the device on the about endpoint.
	About api.Info `toml:"about"`
}

// InputConfig is the configuration for the hardware controls.
type InputConfig struct {
	// Enabled turns the hardware controls on.
	Enabled bool `toml:"enabled"`
	// I2CBus is the I2C bus of the ADS1115 the knob is wired to.
	I2CBus string `toml:"i2c_bus"`
	// ADCAddress is the I2C address of the ADS1115.
	ADCAddress uint16 `toml:"adc_address"`
	// KnobChannel is the ADC channel of the brightness knob, or -1.
	KnobChannel int `toml:"knob_channel"`
	// SeedChannel is the floating ADC channel used to seed the random
	// generator, or -1.
	SeedChannel int `toml:"seed_channel"`
	// ButtonPin is the GPIO pin of the color button.
	ButtonPin string `toml:"button_pin"`
	// Poll is how often the controls are read.
	Poll TOMLDuration `toml:"poll"`
	// Debounce is the shortest time between two button presses.
	Debounce TOMLDuration `toml:"debounce"`
	// Colors are the colors the button cycles through.
	Colors []led.HSVColor `toml:"color"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output:     SerialOutput,
		Device:     "/dev/ttyACM0",
		Baud:       115200,
		SPIHz:      2_500_000,
		Tick:       TOMLDuration(time.Millisecond),
		Brightness: animation.StartupBrightness,
		MaxCurrent: 2000,
		Volts:      5,
		Startup: StartupConfig{
			Mode:      control.Off,
			Animation: int(animation.Clear),
		},
		Layout: LayoutConfig{
			LEDs: 105,
			Rows: 1,
		},
		Animation: animation.DefaultConfig(),
		API: APIConfig{
			Listen: ":8080",
			About: api.Info{
				HostName:     "ledman",
				FriendlyName: "ledman Lights",
				DeviceFamily: "ledman",
				Description:  "LEDs baby!",
			},
		},
		Input: InputConfig{
			I2CBus:      "1",
			KnobChannel: 0,
			SeedChannel: 1,
			ButtonPin:   "GPIO16",
			Poll:        TOMLDuration(10 * time.Millisecond),
			Debounce:    TOMLDuration(300 * time.Millisecond),
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Output {
	case SerialOutput:
		if c.Device == "" {
			return errors.New("serial output needs a device")
		}
		if c.Baud <= 0 {
			return errors.New("baud must be positive")
		}
	case SPIOutput:
		if c.SPIHz <= 0 {
			return errors.New("spi_hz must be positive")
		}
	case DiscardOutput:
	default:
		return fmt.Errorf("unknown output %q", c.Output)
	}

	if c.Tick <= 0 {
		return errors.New("tick must be positive")
	}
	if c.Brightness < 0 || c.Brightness > 255 {
		return errors.New("brightness must be within 0-255")
	}
	if c.MaxCurrent < 0 || c.Volts < 0 {
		return errors.New("power limit must not be negative")
	}

	if c.Layout.LEDs <= 0 {
		return errors.New("no LEDs configured")
	}
	if c.Layout.LEDs > 0xFFFF {
		return fmt.Errorf("too many LEDs: %d", c.Layout.LEDs)
	}
	if c.Layout.Rows < 1 {
		return errors.New("layout needs at least one row")
	}
	if c.Layout.Rows > 1 && c.Layout.Cols < 1 {
		return fmt.Errorf("layout with %d rows needs at least one column", c.Layout.Rows)
	}

	if !animation.Selector(c.Startup.Animation).IsValid() {
		return fmt.Errorf("unknown startup animation %d", c.Startup.Animation)
	}

	if err := c.Animation.Validate(); err != nil {
		return errors.Wrap(err, "invalid animation config")
	}

	if c.Input.Enabled && c.Input.Poll <= 0 {
		return errors.New("input poll interval must be positive")
	}

	return nil
}

// TOMLDuration is a duration that can be parsed from TOML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ParseConfig parses a configuration from a reader. Missing keys keep their
// values from DefaultConfig.
func ParseConfig(r io.Reader) (*Config, error) {
	config := DefaultConfig()
	if err := toml.NewDecoder(r).Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}
