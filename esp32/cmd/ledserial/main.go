// Command ledserial receives frames from the ledman daemon over the UART and
// writes them to a WS2812 strip.
package main

import (
	"machine"

	"libdb.so/ledman/esp32"
)

func main() {
	uart := machine.Serial
	uart.Configure(machine.UARTConfig{BaudRate: esp32.Baud})

	esp32.StatusLED.Configure(machine.PinConfig{Mode: machine.PinOutput})

	NewDevice(uart, esp32.DataPin).Run()
}
