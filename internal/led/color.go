package led

import "fmt"

// RGBColor is a single LED color in RGB order.
type RGBColor [3]uint8

// RGB creates a new RGBColor.
func RGB(r, g, b uint8) RGBColor {
	return RGBColor{r, g, b}
}

// Hex creates a new RGBColor from a 0xRRGGBB code.
func Hex(code uint32) RGBColor {
	return RGBColor{uint8(code >> 16), uint8(code >> 8), uint8(code)}
}

// R returns the red channel.
func (c RGBColor) R() uint8 { return c[0] }

// G returns the green channel.
func (c RGBColor) G() uint8 { return c[1] }

// B returns the blue channel.
func (c RGBColor) B() uint8 { return c[2] }

// IsBlack returns true if all channels are zero.
func (c RGBColor) IsBlack() bool {
	return c == RGBColor{}
}

// Scale scales every channel by brightness/256.
func (c RGBColor) Scale(brightness uint8) RGBColor {
	return RGBColor{
		Scale8Video(c[0], brightness),
		Scale8Video(c[1], brightness),
		Scale8Video(c[2], brightness),
	}
}

func (c RGBColor) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// UnmarshalText parses colors written as "#rrggbb".
func (c *RGBColor) UnmarshalText(text []byte) error {
	var r, g, b uint8
	if _, err := fmt.Sscanf(string(text), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return fmt.Errorf("invalid color %q: %w", text, err)
	}
	*c = RGBColor{r, g, b}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c RGBColor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Named colors used by the animations.
var (
	Black          = Hex(0x000000)
	White          = Hex(0xFFFFFF)
	Red            = Hex(0xFF0000)
	DarkRed        = Hex(0x8B0000)
	Maroon         = Hex(0x800000)
	Orange         = Hex(0xFFA500)
	DarkOrange     = Hex(0xFF8C00)
	OrangeRed      = Hex(0xFF4500)
	Purple         = Hex(0x800080)
	CornflowerBlue = Hex(0x6495ED)
)

// HSVColor is a color in the 8-bit hue/saturation/value space. A full hue
// circle spans 0-255.
type HSVColor struct {
	H uint8 `toml:"h" json:"h"`
	S uint8 `toml:"s" json:"s"`
	V uint8 `toml:"v" json:"v"`
}

// HSV creates a new HSVColor.
func HSV(h, s, v uint8) HSVColor {
	return HSVColor{H: h, S: s, V: v}
}

func (c HSVColor) String() string {
	return fmt.Sprintf("hsv(%d,%d,%d)", c.H, c.S, c.V)
}

// RGB converts the color using a "rainbow" hue mapping, which gives yellow
// more room on the wheel than a plain spectrum does. The hue circle is split
// into eight sections of 32 steps each.
func (c HSVColor) RGB() RGBColor {
	offset8 := (c.H & 0x1F) << 3
	third := Scale8(offset8, 85)
	twoThirds := Scale8(offset8, 170)

	var r, g, b uint8
	switch c.H >> 5 {
	case 0: // red to orange
		r, g, b = 255-third, third, 0
	case 1: // orange to yellow
		r, g, b = 171, 85+third, 0
	case 2: // yellow to green
		r, g, b = 171-twoThirds, 170+third, 0
	case 3: // green to aqua
		r, g, b = 0, 255-third, third
	case 4: // aqua to blue
		r, g, b = 0, 171-twoThirds, 85+twoThirds
	case 5: // blue to purple
		r, g, b = third, 0, 255-third
	case 6: // purple to pink
		r, g, b = 85+third, 0, 171-third
	default: // pink to red
		r, g, b = 170+third, 0, 85-third
	}

	if c.S != 255 {
		if c.S == 0 {
			r, g, b = 255, 255, 255
		} else {
			desat := 255 - c.S
			desat = Scale8Video(desat, desat)
			satScale := 255 - desat
			r = Scale8(r, satScale) + desat
			g = Scale8(g, satScale) + desat
			b = Scale8(b, satScale) + desat
		}
	}

	if c.V != 255 {
		v := Scale8Video(c.V, c.V)
		if v == 0 {
			return RGBColor{}
		}
		r = Scale8(r, v)
		g = Scale8(g, v)
		b = Scale8(b, v)
	}

	return RGBColor{r, g, b}
}

// Pack packs the color into the low 24 bits of an integer.
func (c HSVColor) Pack() uint32 {
	return uint32(c.H)<<16 | uint32(c.S)<<8 | uint32(c.V)
}

// UnpackHSV reverses Pack.
func UnpackHSV(v uint32) HSVColor {
	return HSVColor{H: uint8(v >> 16), S: uint8(v >> 8), V: uint8(v)}
}
