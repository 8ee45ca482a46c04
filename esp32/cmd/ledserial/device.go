package main

import (
	"errors"
	"fmt"
	"machine"

	"libdb.so/ledman/esp32"
	"libdb.so/ledman/ledserial"
	"tinygo.org/x/drivers/ws2812"
)

// Device stores the current state of the device.
type Device struct {
	serial SerialReadWriter
	led    ws2812.Device

	numLEDs uint16
}

// NewDevice creates a new device.
func NewDevice(serial machine.Serialer, ledPin machine.Pin) *Device {
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Device{
		serial: WrapSerial(serial),
		led:    ws2812.New(ledPin),
	}
}

// Run runs the device loop forever. Every packet is answered with either an
// ack or an error packet.
func (d *Device) Run() {
	for {
		p, err := d.readPacket()
		if err != nil {
			if errors.Is(err, ledserial.ErrChecksum) {
				d.logError(err)
				continue
			}
			d.panic(err)
		}

		if err := d.handlePacket(p); err != nil {
			d.logError(err)
			continue
		}

		d.sendPacket(ledserial.AckPacket{
			IncomingPacketType: p.Type(),
		})
	}
}

func (d *Device) panic(err error) {
	d.logError(err)
	d.sendPacket(ledserial.PanicPacket{})
	panic("device panic")
}

func (d *Device) logError(err error) {
	d.sendPacket(ledserial.ErrorPacket{Message: err.Error()})
}

func (d *Device) sendPacket(p ledserial.OutgoingPacket) {
	ledserial.WriteOutgoingPacket(d.serial, p)
}

func (d *Device) readPacket() (ledserial.IncomingPacket, error) {
	esp32.StatusLED.High()
	defer esp32.StatusLED.Low()

	return ledserial.ReadIncomingPacket(d.serial, ledserial.ReadContext{
		NumLEDs: d.numLEDs,
	})
}

func (d *Device) handlePacket(p ledserial.IncomingPacket) error {
	switch p := p.(type) {
	case ledserial.InitializePacket:
		if p.NumLEDs < 1 {
			return fmt.Errorf("invalid number of LEDs: %d", p.NumLEDs)
		}
		d.numLEDs = p.NumLEDs
		d.clearLEDs()

	case ledserial.ClearPacket:
		d.clearLEDs()

	case ledserial.SetPacket:
		if d.numLEDs == 0 {
			return errors.New("set packet before initialize")
		}
		// The strip wants GRB.
		for i := 0; i+2 < len(p.Pix); i += 3 {
			d.led.WriteByte(p.Pix[i+1])
			d.led.WriteByte(p.Pix[i])
			d.led.WriteByte(p.Pix[i+2])
		}

	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	return nil
}

func (d *Device) clearLEDs() {
	for i := 0; i < 3*int(d.numLEDs); i++ {
		d.led.WriteByte(0)
	}
}
