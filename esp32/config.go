// Package esp32 holds the board wiring of the ESP32 LED controller.
package esp32

import "machine"

var (
	// DataPin drives the data line of the strip.
	DataPin = machine.GPIO5
	// StatusLED blinks while a packet is being read.
	StatusLED = machine.LED
	// Baud is the baud rate of the UART link to the host.
	Baud uint32 = 115200
)
