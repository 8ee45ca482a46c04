// Package ledman drives an addressable LED strip. A render loop runs the
// mode scheduler once per tick while the control API and the hardware
// controls swap modes under it.
package ledman

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"libdb.so/ledman/animation"
	"libdb.so/ledman/control"
	"libdb.so/ledman/internal/api"
	"libdb.so/ledman/internal/input"
	"libdb.so/ledman/internal/layout"
	"libdb.so/ledman/internal/output"
	"libdb.so/ledman/scheduler"
)

// Daemon is the main ledman daemon.
type Daemon struct {
	cfg     *Config
	logger  *slog.Logger
	ch      *control.Channel
	started time.Time
}

// NewDaemon creates a new ledman daemon.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	ch := control.NewChannel()
	ch.SetAnimation(animation.Selector(cfg.Startup.Animation))
	ch.SetBrightness(uint8(cfg.Brightness))
	ch.SetMode(cfg.Startup.Mode)

	return &Daemon{
		cfg:     cfg,
		logger:  logger,
		ch:      ch,
		started: time.Now(),
	}, nil
}

// Channel returns the control channel of the daemon.
func (d *Daemon) Channel() *control.Channel {
	return d.ch
}

// Run starts the daemon. It blocks until the given context is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	var hw *input.Hardware
	if d.cfg.Input.Enabled {
		var err error
		hw, err = input.OpenHardware(input.HardwareOpts{
			I2CBus:      d.cfg.Input.I2CBus,
			ADCAddress:  d.cfg.Input.ADCAddress,
			KnobChannel: d.cfg.Input.KnobChannel,
			SeedChannel: d.cfg.Input.SeedChannel,
			ButtonPin:   d.cfg.Input.ButtonPin,
		})
		if err != nil {
			return errors.Wrap(err, "failed to open hardware controls")
		}
		defer hw.Close()
	}

	var seedADC input.ADC
	if hw != nil {
		seedADC = hw.Seed
	}
	seed, err := input.NoiseSeed(seedADC)
	if err != nil {
		return errors.Wrap(err, "failed to seed random generator")
	}

	transport, err := d.openTransport()
	if err != nil {
		return err
	}
	defer func() {
		if err := transport.Close(); err != nil {
			d.logger.Warn(
				"failed to close transport",
				"transport", transport,
				"error", err)
		}
	}()

	sink := output.NewSink(transport, output.PowerLimit{
		Volts:        d.cfg.Volts,
		MaxMilliamps: d.cfg.MaxCurrent,
	}, d.logger)

	stage := animation.NewStage(animation.StageOpts{
		NumLEDs: d.cfg.Layout.LEDs,
		Index:   layout.MapLayout(d.cfg.Layout.Rows, d.cfg.Layout.Cols, d.cfg.Layout.LEDs),
		Seed:    seed,
		Boot:    d.started,
		Config:  d.cfg.Animation,
		Output:  sink,
		Logger:  d.logger,
	})
	stage.Brightness = uint8(d.cfg.Brightness)

	catalog := animation.NewCatalog(stage)
	sched := scheduler.New(d.ch, catalog, d.logger)

	errg, ctx := errgroup.WithContext(ctx)

	if serial, ok := transport.(*output.Serial); ok {
		errg.Go(func() error {
			return serial.Run(ctx)
		})
	}

	if d.cfg.API.Listen != "" {
		srv := api.NewServer(api.Options{
			Channel:    d.ch,
			Animations: catalog.List(),
			Info:       d.cfg.API.About,
			Started:    d.started,
			Logger:     d.logger.With("component", "api"),
		})
		errg.Go(func() error {
			return srv.ListenAndServe(ctx, d.cfg.API.Listen)
		})
	}

	if hw != nil && (hw.Knob != nil || hw.Button != nil) {
		poller := input.NewPoller(d.ch, d.pollerOpts(hw))
		errg.Go(func() error {
			return poller.Run(ctx)
		})
	}

	errg.Go(func() error {
		return d.renderLoop(ctx, stage, sched)
	})

	return errg.Wait()
}

func (d *Daemon) pollerOpts(hw *input.Hardware) input.PollerOpts {
	return input.PollerOpts{
		Knob:     hw.Knob,
		Button:   hw.Button,
		Colors:   d.cfg.Input.Colors,
		Debounce: time.Duration(d.cfg.Input.Debounce),
		Interval: time.Duration(d.cfg.Input.Poll),
		Logger:   d.logger.With("component", "input"),
	}
}

func (d *Daemon) openTransport() (output.Transport, error) {
	switch d.cfg.Output {
	case SerialOutput:
		s, err := output.OpenSerial(d.cfg.Device, d.cfg.Baud, d.cfg.Layout.LEDs, d.logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case SPIOutput:
		s, err := output.OpenSPI(d.cfg.SPIPort, d.cfg.SPIHz, d.cfg.Layout.LEDs)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return &output.Discard{}, nil
	}
}

// renderLoop clears the strip and then ticks the scheduler until ctx is
// canceled.
func (d *Daemon) renderLoop(ctx context.Context, stage *animation.Stage, sched *scheduler.Scheduler) error {
	stage.Clear()

	ticker := time.NewTicker(time.Duration(d.cfg.Tick))
	defer ticker.Stop()

	d.logger.Debug(
		"render loop started",
		"tick", time.Duration(d.cfg.Tick),
		"leds", len(stage.LEDs))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			sched.Tick(now)
		}
	}
}
