package main

import (
	"io"
	"machine"
	"runtime"
	"time"
)

type serialIO struct {
	machine.Serialer
}

// SerialReadWriter is a machine.Serialer usable as an io.ReadWriter.
type SerialReadWriter interface {
	io.ReadWriter
	ReadByte() (byte, error)
	WriteByte(byte) error
	// Buffered returns the number of bytes currently buffered in the serial
	// device.
	Buffered() int
}

// WrapSerial wraps a machine.Serialer in an io.ReadWriter.
func WrapSerial(serial machine.Serialer) SerialReadWriter {
	return serialIO{Serialer: serial}
}

// Read reads what is buffered, or sleeps for a millisecond and reads nothing
// if the buffer is empty.
func (s serialIO) Read(b []byte) (int, error) {
	n := min(s.Buffered(), len(b))
	if n == 0 {
		time.Sleep(time.Millisecond)
		return 0, nil
	}

	for i := 0; i < n; i++ {
		c, err := s.ReadByte()
		if err != nil {
			return i, err
		}
		b[i] = c
	}

	runtime.Gosched()
	return n, nil
}

func (s serialIO) Write(b []byte) (int, error) {
	for i, c := range b {
		if err := s.WriteByte(c); err != nil {
			return i, err
		}
	}
	runtime.Gosched()
	return len(b), nil
}
