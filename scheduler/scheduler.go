// Package scheduler implements the mode scheduler: once per tick it reads the
// control channel and either steps the selected animation, paints a solid
// color, applies a new brightness or keeps the strip dark.
package scheduler

import (
	"log/slog"
	"time"

	"libdb.so/ledman/animation"
	"libdb.so/ledman/control"
	"libdb.so/ledman/internal/led"
	"libdb.so/ledman/internal/metrics"
)

// SolidColorName is the status name published while a solid color is shown.
const SolidColorName = "Solid Color"

// Scheduler multiplexes the rendering modes onto one stage. It is not safe
// for concurrent use; Tick must only be called from the render goroutine.
type Scheduler struct {
	ch      *control.Channel
	catalog *animation.Catalog
	stage   *animation.Stage
	logger  *slog.Logger

	// previous is the mode Bright returns to. It is never Bright.
	previous control.Mode
	// applied is the last solid color painted.
	applied led.HSVColor

	published animation.Selector
	announced bool
	lastMode  control.Mode
}

// New creates a new Scheduler.
func New(ch *control.Channel, catalog *animation.Catalog, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		ch:       ch,
		catalog:  catalog,
		stage:    catalog.Stage(),
		logger:   logger,
		previous: control.Off,
		lastMode: -1,
	}
}

// Previous returns the mode that the next Bright request will return to.
func (s *Scheduler) Previous() control.Mode {
	return s.previous
}

// Tick runs one step of the current mode.
func (s *Scheduler) Tick(now time.Time) {
	mode := s.ch.Mode()
	if mode != s.lastMode {
		s.logger.Debug(
			"switching mode",
			"from", s.lastMode,
			"to", mode)
		s.lastMode = mode
	}

	switch mode {
	case control.Animation:
		s.previous = control.Animation
		sel := s.ch.Animation()
		s.catalog.Render(sel, now)
		s.announce(sel)

	case control.SolidColor:
		c := s.ch.Color()
		if !s.ch.TakeSolidEntry() && c == s.applied {
			break
		}
		s.previous = control.SolidColor
		s.applied = c
		s.announced = false
		s.ch.Status().SetAnimation(SolidColorName)

		s.stage.LEDs.Fill(c.RGB())
		s.stage.Brightness = c.V
		s.ch.SetBrightness(c.V)
		s.stage.Show()

	case control.Bright:
		b := s.ch.Brightness()
		s.stage.Brightness = b
		s.stage.Show()
		s.ch.SetColorValue(b)
		s.ch.RestoreMode(s.previous)

	case control.Off:
		s.stage.Clear()

	default:
		return
	}

	metrics.Tick(mode.String())
}

// announce publishes the name of the selected animation when it changes.
func (s *Scheduler) announce(sel animation.Selector) {
	if s.announced && sel == s.published {
		return
	}
	name := s.catalog.Name(sel)
	if name == "" {
		return
	}
	s.ch.Status().SetAnimation(name)
	s.published = sel
	s.announced = true
}
