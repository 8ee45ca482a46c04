package led

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaturatingMath(t *testing.T) {
	assert.Equal(t, uint8(255), QAdd8(200, 100))
	assert.Equal(t, uint8(150), QAdd8(100, 50))
	assert.Equal(t, uint8(0), QSub8(10, 20))
	assert.Equal(t, uint8(5), QSub8(25, 20))
	assert.Equal(t, uint8(240), Scale8(255, 240))
	assert.Equal(t, uint8(0), Scale8(255, 0)+Scale8(0, 255))
	assert.Equal(t, uint8(1), Scale8Video(1, 1))
	assert.Equal(t, uint8(0), Scale8Video(0, 200))
}

func TestMap(t *testing.T) {
	assert.Equal(t, 104, Map(254, 0, 255, 0, 105))
	assert.Equal(t, 0, Map(0, 0, 255, 0, 105))
	assert.Equal(t, 7, Map(7, 3, 3, 7, 9))
}

func TestHSVPrimaries(t *testing.T) {
	tests := []struct {
		name string
		in   HSVColor
		want RGBColor
	}{
		{"red", HSV(0, 255, 255), RGB(255, 0, 0)},
		{"green", HSV(96, 255, 255), RGB(0, 255, 0)},
		{"blue", HSV(160, 255, 255), RGB(0, 0, 255)},
		{"white", HSV(42, 0, 255), RGB(255, 255, 255)},
		{"black", HSV(42, 255, 0), RGB(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.RGB())
		})
	}
}

func TestHSVPack(t *testing.T) {
	c := HSV(10, 200, 150)
	assert.Equal(t, c, UnpackHSV(c.Pack()))
}

func TestRGBColorText(t *testing.T) {
	var c RGBColor
	require.NoError(t, c.UnmarshalText([]byte("#6495ed")))
	assert.Equal(t, CornflowerBlue, c)

	b, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "#6495ed", string(b))

	assert.Error(t, c.UnmarshalText([]byte("cornflower")))
}

func TestFadeToBlackReachesZero(t *testing.T) {
	leds := NewLEDs(4)
	leds.Fill(White)
	for i := 0; i < 200; i++ {
		leds.FadeToBlackBy(20)
	}
	for i, c := range leds {
		assert.True(t, c.IsBlack(), "led %d is %s", i, c)
	}
}

func TestShiftUp(t *testing.T) {
	leds := LEDs{Red, White, Black}
	leds.ShiftUp()
	assert.Equal(t, LEDs{Red, Red, White}, leds)
}

func TestSetIgnoresOutOfRange(t *testing.T) {
	leds := NewLEDs(2)
	leds.Set(-1, Red)
	leds.Set(2, Red)
	leds.SetRange(-3, 10, White)
	assert.Equal(t, LEDs{White, White}, leds)
}

func TestWriteToAndPixels(t *testing.T) {
	leds := LEDs{RGB(1, 2, 3), RGB(4, 5, 6)}
	var buf bytes.Buffer
	n, err := leds.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, buf.Bytes())
	assert.Equal(t, buf.Bytes(), leds.AsPixels())
}

func TestScaleInto(t *testing.T) {
	leds := LEDs{White}
	dst := leds.ScaleInto(nil, 128)
	require.Len(t, dst, 1)
	assert.Equal(t, RGB(128, 128, 128), dst[0])
	assert.Equal(t, White, leds[0])
}

func TestPaletteBlendConverges(t *testing.T) {
	pair := PalettePair{Current: LavaColors, Target: OceanColors}
	for i := 0; i < 10000; i++ {
		pair.Blend(24)
	}
	assert.Equal(t, pair.Target, pair.Current)
}

func TestPaletteBlendRespectsMaxChanges(t *testing.T) {
	var from, to Palette16
	for i := range to {
		to[i] = White
	}
	from.BlendToward(&to, 5)

	var changed int
	for _, c := range from {
		for _, ch := range c {
			if ch != 0 {
				changed++
			}
		}
	}
	assert.Equal(t, 5, changed)
}

func TestColorFromPalette(t *testing.T) {
	assert.Equal(t, HeatColors[0], ColorFromPalette(&HeatColors, 0, 255, false))
	assert.Equal(t, HeatColors[15], ColorFromPalette(&HeatColors, 0xF0, 255, true))

	mid := ColorFromPalette(&HeatColors, 0x58, 255, true)
	assert.Equal(t, uint8(255), mid.R())
	assert.Greater(t, mid.G(), uint8(0))
}

func TestGradientPaletteEndpoints(t *testing.T) {
	p := GradientPalette(HSV(0, 255, 255), HSV(96, 255, 255), HSV(160, 255, 255), HSV(0, 0, 255))
	assert.Equal(t, Red, p[0])
	assert.Equal(t, White, p[15])
}
