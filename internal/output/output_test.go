package output

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/ledman/internal/led"
	"libdb.so/ledman/ledserial"
	"periph.io/x/conn/v3/spi/spitest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSinkScalesByBrightness(t *testing.T) {
	d := &Discard{}
	sink := NewSink(d, PowerLimit{}, discardLogger())

	leds := led.LEDs{led.White, led.RGB(200, 100, 0)}
	require.NoError(t, sink.Show(leds, 128))

	assert.Equal(t, 1, d.Frames)
	want := led.LEDs{led.White.Scale(128), led.RGB(200, 100, 0).Scale(128)}
	assert.Equal(t, want.AsPixels(), d.Last)

	// The caller's buffer is left alone.
	assert.Equal(t, led.White, leds[0])
}

type busyTransport struct{ Discard }

func (b *busyTransport) WriteFrame([]byte) error { return ErrBusy }

type brokenTransport struct{ Discard }

func (b *brokenTransport) WriteFrame([]byte) error { return errors.New("unplugged") }

func TestSinkDropsBusyFrames(t *testing.T) {
	sink := NewSink(&busyTransport{}, PowerLimit{}, discardLogger())
	assert.NoError(t, sink.Show(led.NewLEDs(3), 255))
}

func TestSinkReportsErrors(t *testing.T) {
	sink := NewSink(&brokenTransport{}, PowerLimit{}, discardLogger())
	err := sink.Show(led.NewLEDs(3), 255)
	assert.ErrorContains(t, err, "unplugged")
}

func TestPowerLimit(t *testing.T) {
	white := led.NewLEDs(105)
	white.Fill(led.White)

	limit := PowerLimit{Volts: 5, MaxMilliamps: 2000}

	b := limit.Brightness(white, 255)
	assert.Less(t, b, uint8(255))
	assert.Greater(t, b, uint8(0))
	assert.LessOrEqual(t, Milliwatts(white)*int(b)>>8, 5*2000)

	dark := led.NewLEDs(105)
	assert.Equal(t, uint8(255), limit.Brightness(dark, 255))

	assert.Equal(t, uint8(255), PowerLimit{}.Brightness(white, 255))
	assert.Equal(t, uint8(24), limit.Brightness(white, 24))
}

func TestSPIWritesEncodedFrames(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewSPI(spitest.NewRecordRaw(&buf), 2_500_000, 3)
	require.NoError(t, err)

	require.NoError(t, s.WriteFrame(led.LEDs{led.Red, led.White, led.Black}.AsPixels()))
	// Every data bit is expanded into three SPI bits.
	assert.GreaterOrEqual(t, buf.Len(), 3*9)
	assert.Equal(t, "spi", s.String())

	require.NoError(t, s.Close())
}

// fakePort connects a Serial to a fake controller through pipes.
type fakePort struct {
	hostR *io.PipeReader
	hostW *io.PipeWriter
	devR  *io.PipeReader
	devW  *io.PipeWriter
}

func newFakePort() *fakePort {
	var p fakePort
	p.hostR, p.devW = io.Pipe()
	p.devR, p.hostW = io.Pipe()
	return &p
}

func (p *fakePort) Read(b []byte) (int, error)  { return p.hostR.Read(b) }
func (p *fakePort) Write(b []byte) (int, error) { return p.hostW.Write(b) }

func (p *fakePort) Close() error {
	p.hostW.Close()
	p.hostR.Close()
	return nil
}

// fakeController answers packets the way the firmware does.
type fakeController struct {
	port    *fakePort
	ackSets bool

	mu      sync.Mutex
	packets []ledserial.IncomingPacket
}

func (c *fakeController) run() {
	var ctx ledserial.ReadContext
	for {
		p, err := ledserial.ReadIncomingPacket(c.port.devR, ctx)
		if err != nil {
			return
		}

		c.mu.Lock()
		c.packets = append(c.packets, p)
		c.mu.Unlock()

		if init, ok := p.(ledserial.InitializePacket); ok {
			ctx.NumLEDs = init.NumLEDs
		}
		if _, ok := p.(ledserial.SetPacket); ok && !c.ackSets {
			continue
		}

		ack := ledserial.AckPacket{IncomingPacketType: p.Type()}
		if err := ledserial.WriteOutgoingPacket(c.port.devW, ack); err != nil {
			return
		}
	}
}

func (c *fakeController) received() []ledserial.IncomingPacket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ledserial.IncomingPacket(nil), c.packets...)
}

func startSerial(t *testing.T, ackSets bool) (*Serial, *fakeController, context.CancelFunc, <-chan error) {
	t.Helper()

	port := newFakePort()
	ctrl := &fakeController{port: port, ackSets: ackSets}
	go ctrl.run()

	s := NewSerial(port, 2, discardLogger())
	s.AckTimeout = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, s.Ready, time.Second, time.Millisecond)
	return s, ctrl, cancel, done
}

func TestSerialSendsFrames(t *testing.T) {
	s, ctrl, cancel, done := startSerial(t, true)

	pix := []byte{1, 2, 3, 4, 5, 6}
	require.NoError(t, s.WriteFrame(pix))

	require.Eventually(t, func() bool {
		return len(ctrl.received()) >= 2
	}, time.Second, time.Millisecond)

	got := ctrl.received()
	assert.Equal(t, ledserial.InitializePacket{NumLEDs: 2}, got[0])
	assert.Equal(t, ledserial.SetPacket{Pix: pix}, got[1])

	// Once acknowledged, the next frame goes through.
	require.Eventually(t, func() bool {
		return s.WriteFrame(pix) == nil
	}, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestSerialDropsFramesUntilAcked(t *testing.T) {
	s, _, cancel, done := startSerial(t, false)
	defer func() {
		cancel()
		<-done
	}()

	pix := []byte{1, 2, 3, 4, 5, 6}
	require.NoError(t, s.WriteFrame(pix))
	assert.ErrorIs(t, s.WriteFrame(pix), ErrBusy)

	time.Sleep(60 * time.Millisecond)
	assert.NoError(t, s.WriteFrame(pix), "frame should be sent after the ack timeout")
}

func TestSerialBusyBeforeInitialize(t *testing.T) {
	s := NewSerial(newFakePort(), 2, discardLogger())
	assert.ErrorIs(t, s.WriteFrame([]byte{0, 0, 0, 0, 0, 0}), ErrBusy)
}

func TestSerialControllerPanic(t *testing.T) {
	port := newFakePort()
	s := NewSerial(port, 2, discardLogger())

	go func() {
		// Swallow the initialize packet and panic.
		ledserial.ReadIncomingPacket(port.devR, ledserial.ReadContext{})
		ledserial.WriteOutgoingPacket(port.devW, ledserial.PanicPacket{})
		io.Copy(io.Discard, port.devR)
	}()

	err := s.Run(context.Background())
	assert.ErrorContains(t, err, "controller panicked")
}
