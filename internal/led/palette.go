package led

// Palette16 is a 16-entry color gradient table. Colors between entries are
// interpolated by ColorFromPalette.
type Palette16 [16]RGBColor

// PalettePair is a palette that is slowly blended towards a target palette.
type PalettePair struct {
	Current Palette16
	Target  Palette16
}

// Blend moves Current towards Target, changing at most maxChanges channel
// values.
func (p *PalettePair) Blend(maxChanges int) {
	p.Current.BlendToward(&p.Target, maxChanges)
}

// BlendToward moves every channel of p one step closer to target, stopping
// after maxChanges channel adjustments.
func (p *Palette16) BlendToward(target *Palette16, maxChanges int) {
	var changes int
	for i := range p {
		for ch := 0; ch < 3; ch++ {
			cur, want := p[i][ch], target[i][ch]
			switch {
			case cur == want:
				continue
			case cur < want:
				cur++
			default:
				cur--
				if cur > want {
					cur--
				}
			}
			p[i][ch] = cur
			changes++
			if changes >= maxChanges {
				return
			}
		}
	}
}

// ColorFromPalette returns the color at index, where the upper four bits
// select the palette entry and the lower four bits the distance to the next
// one. If blend is false, the entry is used as is.
func ColorFromPalette(p *Palette16, index, brightness uint8, blend bool) RGBColor {
	hi := index >> 4
	lo := index & 0x0F

	c := p[hi]
	if blend && lo != 0 {
		next := p[(hi+1)&0x0F]
		f2 := lo << 4
		f1 := 255 - f2
		for ch := range c {
			c[ch] = Scale8(c[ch], f1) + Scale8(next[ch], f2)
		}
	}

	if brightness != 255 {
		c = c.Scale(brightness)
	}
	return c
}

// GradientPalette builds a palette that fades evenly through the given
// colors. With four colors, they land on entries 0, 5, 10 and 15.
func GradientPalette(colors ...HSVColor) Palette16 {
	var p Palette16
	switch len(colors) {
	case 0:
		return p
	case 1:
		for i := range p {
			p[i] = colors[0].RGB()
		}
		return p
	}

	last := len(p) - 1
	segments := len(colors) - 1
	for i := range p {
		pos := i * segments * 255 / last
		seg := pos / 255
		if seg >= segments {
			seg = segments - 1
		}
		frac := uint8(pos - seg*255)
		from := colors[seg].RGB()
		to := colors[seg+1].RGB()
		p[i] = RGBColor{
			Lerp8(from[0], to[0], frac),
			Lerp8(from[1], to[1], frac),
			Lerp8(from[2], to[2], frac),
		}
	}
	return p
}

func hexPalette(codes ...uint32) Palette16 {
	var p Palette16
	for i := range p {
		p[i] = Hex(codes[i])
	}
	return p
}

// Built-in palettes.
var (
	HeatColors = hexPalette(
		0x000000, 0x330000, 0x660000, 0x990000, 0xCC0000, 0xFF0000,
		0xFF3300, 0xFF6600, 0xFF9900, 0xFFCC00, 0xFFFF00,
		0xFFFF33, 0xFFFF66, 0xFFFF99, 0xFFFFCC, 0xFFFFFF,
	)
	RainbowColors = hexPalette(
		0xFF0000, 0xD52A00, 0xAB5500, 0xAB7F00, 0xABAB00, 0x56D500,
		0x00FF00, 0x00D52A, 0x00AB55, 0x0056AA, 0x0000FF, 0x2A00D5,
		0x5500AB, 0x7F0081, 0xAB0055, 0xD5002B,
	)
	OceanColors = hexPalette(
		0x191970, 0x00008B, 0x191970, 0x000080, 0x00008B, 0x0000CD,
		0x2E8B57, 0x008080, 0x5F9EA0, 0x0000FF, 0x008B8B, 0x6495ED,
		0x7FFFD4, 0x2E8B57, 0x00FFFF, 0x87CEFA,
	)
	LavaColors = hexPalette(
		0x000000, 0x800000, 0x000000, 0x800000, 0x8B0000, 0x8B0000,
		0x800000, 0x8B0000, 0x8B0000, 0x8B0000, 0xFF0000, 0xFFA500,
		0xFFFFFF, 0xFFA500, 0xFF0000, 0x8B0000,
	)
)
