package output

import (
	"libdb.so/ledman/internal/led"
	"libdb.so/ledman/internal/metrics"
)

// Power draw of a WS2812B at full brightness, in milliwatts at 5V, per
// channel, plus the idle draw of each LED.
const (
	redMilliwatts   = 16 * 5
	greenMilliwatts = 11 * 5
	blueMilliwatts  = 15 * 5
	darkMilliwatts  = 1 * 5
)

// PowerLimit caps the power drawn by the strip. The zero value imposes no
// limit.
type PowerLimit struct {
	// Volts is the supply voltage.
	Volts int
	// MaxMilliamps is the most current the supply may deliver.
	MaxMilliamps int
}

// Enabled returns true if the limit is set.
func (p PowerLimit) Enabled() bool {
	return p.Volts > 0 && p.MaxMilliamps > 0
}

// Milliwatts estimates the power drawn by showing leds at full brightness.
func Milliwatts(leds led.LEDs) int {
	var total int
	for _, c := range leds {
		total += int(c.R()) * redMilliwatts
		total += int(c.G()) * greenMilliwatts
		total += int(c.B()) * blueMilliwatts
	}
	return total>>8 + len(leds)*darkMilliwatts
}

// Brightness returns the highest brightness, at most the given one, at which
// leds can be shown within the limit.
func (p PowerLimit) Brightness(leds led.LEDs, brightness uint8) uint8 {
	if !p.Enabled() {
		return brightness
	}

	budget := p.Volts * p.MaxMilliamps
	requested := Milliwatts(leds) * (int(brightness) + 1) >> 8
	if requested <= budget {
		metrics.PowerScale(255)
		return brightness
	}

	limited := uint8(int(brightness) * budget / requested)
	metrics.PowerScale(uint8(int(limited) * 255 / max(int(brightness), 1)))
	return limited
}
