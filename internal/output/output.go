// Package output pushes frames from the render loop to the LED hardware.
package output

import (
	"log/slog"

	"github.com/pkg/errors"
	"libdb.so/ledman/internal/led"
	"libdb.so/ledman/internal/metrics"
)

// ErrBusy is returned by a Transport that is still busy with the previous
// frame. The frame is dropped.
var ErrBusy = errors.New("transport busy")

// Transport writes raw pixel data to a strip.
type Transport interface {
	// WriteFrame writes one frame of RGB data, three bytes per LED. The
	// transport must not retain pix after returning. It returns ErrBusy if
	// the frame was dropped because the strip is not ready yet.
	WriteFrame(pix []byte) error
	// Close turns the strip off and releases the transport.
	Close() error
	// String returns the name of the transport.
	String() string
}

// Sink adapts a Transport into an animation.Shower. It applies the global
// brightness and the power limit before handing the frame over. A Sink is
// not safe for concurrent use.
type Sink struct {
	transport Transport
	limit     PowerLimit
	logger    *slog.Logger
	scaled    led.LEDs
}

// NewSink creates a new Sink writing to t.
func NewSink(t Transport, limit PowerLimit, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		transport: t,
		limit:     limit,
		logger:    logger,
	}
}

// Transport returns the underlying transport.
func (s *Sink) Transport() Transport {
	return s.transport
}

// Show writes leds to the strip at the given brightness, reduced as needed to
// stay within the power limit. A frame dropped because the transport is busy
// is not an error.
func (s *Sink) Show(leds led.LEDs, brightness uint8) error {
	name := s.transport.String()

	brightness = s.limit.Brightness(leds, brightness)
	s.scaled = leds.ScaleInto(s.scaled, brightness)

	if err := s.transport.WriteFrame(s.scaled.AsPixels()); err != nil {
		if errors.Is(err, ErrBusy) {
			metrics.FrameDropped(name)
			return nil
		}
		metrics.FrameError(name)
		return errors.Wrapf(err, "failed to write frame to %s", name)
	}

	metrics.Frame(name, brightness)
	return nil
}

// Discard is a Transport that drops every frame. It is used when no strip is
// attached.
type Discard struct {
	// Frames counts the frames written.
	Frames int
	// Last is a copy of the last frame written.
	Last []byte
}

var _ Transport = (*Discard)(nil)

// WriteFrame implements Transport.
func (d *Discard) WriteFrame(pix []byte) error {
	d.Frames++
	d.Last = append(d.Last[:0], pix...)
	return nil
}

// Close implements Transport.
func (d *Discard) Close() error { return nil }

// String implements Transport.
func (d *Discard) String() string { return "discard" }
