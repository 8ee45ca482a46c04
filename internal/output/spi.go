package output

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// SPI is a Transport that drives a WS2812 strip directly from an SPI port by
// NRZ-encoding the pixel data.
type SPI struct {
	dev  *nrzled.Dev
	port spi.PortCloser
}

var _ Transport = (*SPI)(nil)

// OpenSPI opens the named SPI port. An empty name opens the first port
// available.
func OpenSPI(name string, hz int64, numLEDs int) (*SPI, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize host drivers")
	}

	port, err := spireg.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SPI port")
	}

	s, err := NewSPI(port, hz, numLEDs)
	if err != nil {
		port.Close()
		return nil, err
	}

	return s, nil
}

// NewSPI creates an SPI transport over an already opened port. It takes
// ownership of port.
func NewSPI(port spi.PortCloser, hz int64, numLEDs int) (*SPI, error) {
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: numLEDs,
		Channels:  3,
		Freq:      physic.Frequency(hz) * physic.Hertz,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create nrzled device")
	}

	return &SPI{dev: dev, port: port}, nil
}

// String implements Transport.
func (s *SPI) String() string { return "spi" }

// WriteFrame implements Transport.
func (s *SPI) WriteFrame(pix []byte) error {
	_, err := s.dev.Write(pix)
	return err
}

// Close implements Transport.
func (s *SPI) Close() error {
	if err := s.dev.Halt(); err != nil {
		s.port.Close()
		return errors.Wrap(err, "failed to halt strip")
	}
	return s.port.Close()
}
