package control

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/ledman/animation"
	"libdb.so/ledman/internal/led"
)

func TestNewChannelDefaults(t *testing.T) {
	ch := NewChannel()
	assert.Equal(t, Off, ch.Mode())
	assert.Equal(t, animation.Clear, ch.Animation())
	assert.Equal(t, uint8(255), ch.Brightness())
	assert.Equal(t, led.HSVColor{}, ch.Color())
	assert.Equal(t, "", ch.Status().Animation())
	assert.Equal(t, "", ch.Status().Temperature())
}

func TestModeText(t *testing.T) {
	for _, m := range []Mode{Bright, Animation, SolidColor, Off} {
		text, err := m.MarshalText()
		require.NoError(t, err)

		var got Mode
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, m, got)
	}

	_, err := ParseMode("disco")
	assert.Error(t, err)

	m, err := ParseMode("Solid_Color")
	require.NoError(t, err)
	assert.Equal(t, SolidColor, m)

	assert.Equal(t, "Mode(9)", Mode(9).String())
	assert.Equal(t, []string{"bright", "animation", "solid_color", "off"}, ModeNames())
}

func TestRestoreMode(t *testing.T) {
	ch := NewChannel()

	ch.SetMode(Bright)
	assert.True(t, ch.RestoreMode(Animation))
	assert.Equal(t, Animation, ch.Mode())

	// A request that lands between the Bright tick and the restore wins.
	ch.SetMode(Off)
	assert.False(t, ch.RestoreMode(Animation))
	assert.Equal(t, Off, ch.Mode())
}

func TestSetColorValue(t *testing.T) {
	ch := NewChannel()
	ch.SetColor(led.HSV(10, 200, 150))
	ch.SetColorValue(42)
	assert.Equal(t, led.HSV(10, 200, 42), ch.Color())
}

func TestColorIsNeverTorn(t *testing.T) {
	ch := NewChannel()
	a := led.HSV(1, 1, 1)
	b := led.HSV(200, 200, 200)
	ch.SetColor(a)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			if i%2 == 0 {
				ch.SetColor(b)
			} else {
				ch.SetColor(a)
			}
		}
	}()

	for i := 0; i < 10000; i++ {
		c := ch.Color()
		require.True(t, c == a || c == b, "torn read: %v", c)
	}
	wg.Wait()
}

func TestStatus(t *testing.T) {
	ch := NewChannel()
	ch.Status().SetAnimation("Fire")
	ch.Status().SetTemperature("Ambient: 71.2 Object: 80.1")
	assert.Equal(t, "Fire", ch.Status().Animation())
	assert.Equal(t, "Ambient: 71.2 Object: 80.1", ch.Status().Temperature())
}
