package output

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"
	"libdb.so/ledman/ledserial"
)

// DefaultAckTimeout is how long Serial waits for the controller to
// acknowledge a frame before sending the next one anyway.
const DefaultAckTimeout = time.Second

// initAttempts is the number of times the initialize packet is sent before
// giving up on the controller.
const initAttempts = 5

// Serial is a Transport that drives a strip controller running the ledserial
// firmware over a serial port. Only one frame is in flight at a time: frames
// written while the previous one is not yet acknowledged are dropped.
type Serial struct {
	port    io.ReadWriteCloser
	numLEDs int
	logger  *slog.Logger

	// AckTimeout is how long to wait for an acknowledgement before giving
	// up on it.
	AckTimeout time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error

	mu      sync.Mutex
	ready   bool
	waiting bool
	sentAt  time.Time
	inited  chan struct{}
}

var _ Transport = (*Serial)(nil)

// OpenSerial opens the serial device at the given baud rate.
func OpenSerial(device string, baud, numLEDs int, logger *slog.Logger) (*Serial, error) {
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open serial port")
	}

	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "failed to reset read timeout")
	}

	return NewSerial(port, numLEDs, logger), nil
}

// NewSerial creates a Serial transport over an already opened port.
func NewSerial(port io.ReadWriteCloser, numLEDs int, logger *slog.Logger) *Serial {
	if logger == nil {
		logger = slog.Default()
	}
	return &Serial{
		port:       port,
		numLEDs:    numLEDs,
		logger:     logger,
		AckTimeout: DefaultAckTimeout,
		inited:     make(chan struct{}),
	}
}

// String implements Transport.
func (s *Serial) String() string { return "serial" }

// Ready returns true once the controller has acknowledged the initialize
// packet.
func (s *Serial) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// WriteFrame implements Transport.
func (s *Serial) WriteFrame(pix []byte) error {
	now := time.Now()

	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.waiting && now.Sub(s.sentAt) < s.AckTimeout {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.waiting {
		s.logger.Warn(
			"controller did not acknowledge frame in time",
			"timeout", s.AckTimeout)
	}
	s.waiting = true
	s.sentAt = now
	s.mu.Unlock()

	return s.writePacket(ledserial.SetPacket{Pix: pix})
}

// Close clears the strip and closes the port. It is safe to call more than
// once.
func (s *Serial) Close() error {
	s.closeOnce.Do(func() {
		if err := s.writePacket(ledserial.ClearPacket{}); err != nil {
			s.logger.Debug(
				"failed to clear strip before closing",
				"error", err)
		}
		if err := s.port.Close(); err != nil {
			s.closeErr = errors.Wrap(err, "failed to close serial port")
		}
	})
	return s.closeErr
}

// Run initializes the controller and reads its packets until ctx is
// canceled or the controller panics. The port is closed when Run returns.
func (s *Serial) Run(ctx context.Context) error {
	errg, ctx := errgroup.WithContext(ctx)

	errg.Go(func() error {
		<-ctx.Done()
		s.logger.Debug("closing serial port")
		if err := s.Close(); err != nil {
			return err
		}
		return ctx.Err()
	})

	errg.Go(func() error {
		return s.readPackets(ctx)
	})

	errg.Go(func() error {
		return s.initialize(ctx)
	})

	return errg.Wait()
}

func (s *Serial) initialize(ctx context.Context) error {
	for i := 0; i < initAttempts; i++ {
		s.logger.Debug(
			"sending initialize packet",
			"num_leds", s.numLEDs,
			"attempt", i+1)

		if err := s.writePacket(ledserial.InitializePacket{
			NumLEDs: uint16(s.numLEDs),
		}); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.inited:
			return nil
		case <-time.After(s.AckTimeout):
		}
	}

	return errors.New("controller did not acknowledge initialization")
}

func (s *Serial) readPackets(ctx context.Context) error {
	for ctx.Err() == nil {
		p, err := ledserial.ReadOutgoingPacket(s.port, ledserial.ReadContext{
			NumLEDs: uint16(s.numLEDs),
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// A short read indicates a timeout. This is expected.
			if errors.Is(err, io.EOF) {
				continue
			}
			if errors.Is(err, ledserial.ErrChecksum) {
				s.logger.Warn("dropping corrupted packet from controller")
				continue
			}
			return errors.Wrap(err, "failed to read packet")
		}

		if err := s.handlePacket(p); err != nil {
			return err
		}
	}

	return ctx.Err()
}

func (s *Serial) handlePacket(p ledserial.OutgoingPacket) error {
	switch p := p.(type) {
	case ledserial.AckPacket:
		s.mu.Lock()
		defer s.mu.Unlock()

		s.waiting = false
		if p.IncomingPacketType == ledserial.TypeInitializePacket && !s.ready {
			s.logger.Debug("controller initialized")
			s.ready = true
			close(s.inited)
		}

	case ledserial.ErrorPacket:
		s.logger.Warn(
			"received error packet from controller",
			"message", p.Message)

		s.mu.Lock()
		s.waiting = false
		s.mu.Unlock()

	case ledserial.PanicPacket:
		s.logger.Error("controller unrecoverably panicked")
		return errors.New("controller panicked")

	case ledserial.LogPacket:
		s.logger.Info(
			"received log packet from controller",
			"message", p.Message)

	default:
		return errors.Errorf("received unknown packet from controller: %s", p.Type())
	}

	return nil
}

func (s *Serial) writePacket(p ledserial.IncomingPacket) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := ledserial.WriteIncomingPacket(s.port, p); err != nil {
		return errors.Wrapf(err, "failed to write %s packet", p.Type())
	}
	return nil
}
