// Package ledserial implements the LED serial protocol spoken between the
// daemon and the strip controller.
//
// Every packet is framed as a one-byte type, a type-specific payload and a
// little-endian CRC-32 (IEEE) of the type and payload. The host sends
// incoming packets (from the controller's point of view); the controller
// answers every one of them with an AckPacket, or with an ErrorPacket if it
// could not be handled.
package ledserial

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
)

// Endianness defines the endianness of the protocol.
var Endianness = binary.LittleEndian

// MaxMessageLength is the longest message an outgoing packet can carry.
const MaxMessageLength = 1<<16 - 1

// IncomingPacketType is a type of packet sent to the controller.
type IncomingPacketType uint8

const (
	TypeInitializePacket IncomingPacketType = iota
	TypeClearPacket
	TypeSetPacket
)

// String returns a string representation of the packet type.
func (t IncomingPacketType) String() string {
	switch t {
	case TypeInitializePacket:
		return "initialize"
	case TypeClearPacket:
		return "clear"
	case TypeSetPacket:
		return "set"
	default:
		return fmt.Sprintf("IncomingPacketType(%d)", t)
	}
}

// IncomingPacket is a packet sent to the controller.
type IncomingPacket interface {
	// Type returns the type of packet.
	Type() IncomingPacketType
}

// InitializePacket tells the controller how many LEDs the strip has. It must
// be sent before any SetPacket.
type InitializePacket struct {
	NumLEDs uint16
}

// ClearPacket turns every LED off.
type ClearPacket struct{}

// SetPacket sets the LED strip to the given colors, three bytes per LED in
// RGB order.
type SetPacket struct {
	Pix []uint8
}

func (p InitializePacket) Type() IncomingPacketType { return TypeInitializePacket }
func (p ClearPacket) Type() IncomingPacketType      { return TypeClearPacket }
func (p SetPacket) Type() IncomingPacketType        { return TypeSetPacket }

// OutgoingPacketType is a type of packet sent by the controller.
type OutgoingPacketType uint8

const (
	TypeErrorPacket OutgoingPacketType = iota
	TypePanicPacket
	TypeLogPacket
	TypeAckPacket
)

// String returns a string representation of the packet type.
func (t OutgoingPacketType) String() string {
	switch t {
	case TypeErrorPacket:
		return "error"
	case TypePanicPacket:
		return "panic"
	case TypeLogPacket:
		return "log"
	case TypeAckPacket:
		return "ack"
	default:
		return fmt.Sprintf("OutgoingPacketType(%d)", t)
	}
}

// OutgoingPacket is a packet sent by the controller.
type OutgoingPacket interface {
	// Type returns the type of packet.
	Type() OutgoingPacketType
}

// ErrorPacket is a packet that indicates an error occurred.
type ErrorPacket struct {
	Message string
}

// PanicPacket is a packet that indicates the program cannot recover.
type PanicPacket struct{}

// LogPacket is a packet that contains a log message.
type LogPacket struct {
	Message string
}

// AckPacket acknowledges that an incoming packet was handled.
type AckPacket struct {
	IncomingPacketType IncomingPacketType
}

func (p ErrorPacket) Type() OutgoingPacketType { return TypeErrorPacket }
func (p PanicPacket) Type() OutgoingPacketType { return TypePanicPacket }
func (p LogPacket) Type() OutgoingPacketType   { return TypeLogPacket }
func (p AckPacket) Type() OutgoingPacketType   { return TypeAckPacket }

// ReadContext is the state of the LED strip. Data in this structure are
// required for the device to read incoming packets.
type ReadContext struct {
	// NumLEDs is the number of LEDs in the strip.
	NumLEDs uint16
}

// ErrChecksum is returned when a packet fails its checksum.
var ErrChecksum = errors.New("packet checksum mismatch")

// frameReader reads one packet while hashing everything but the trailing
// checksum.
type frameReader struct {
	r    io.Reader
	hash hash.Hash32
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{r: r, hash: crc32.NewIEEE()}
}

func (f *frameReader) Read(b []byte) (int, error) {
	n, err := f.r.Read(b)
	f.hash.Write(b[:n])
	return n, err
}

func (f *frameReader) readType() (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(f, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (f *frameReader) readMessage() (string, error) {
	var length uint16
	if err := binary.Read(f, Endianness, &length); err != nil {
		return "", fmt.Errorf("failed to read message length: %w", err)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(f, buf); err != nil {
		return "", fmt.Errorf("failed to read message: %w", err)
	}
	return string(buf), nil
}

// verify reads the trailing checksum, bypassing the hash.
func (f *frameReader) verify() error {
	want := f.hash.Sum32()

	var checksum uint32
	if err := binary.Read(f.r, Endianness, &checksum); err != nil {
		return fmt.Errorf("failed to read packet checksum: %w", err)
	}
	if checksum != want {
		return ErrChecksum
	}
	return nil
}

// ReadIncomingPacket reads an incoming packet from the given reader.
func ReadIncomingPacket(r io.Reader, context ReadContext) (IncomingPacket, error) {
	f := newFrameReader(r)

	ptypeByte, err := f.readType()
	if err != nil {
		return nil, fmt.Errorf("failed to read incoming packet type: %w", err)
	}

	var packet IncomingPacket
	switch ptype := IncomingPacketType(ptypeByte); ptype {
	case TypeInitializePacket:
		var p InitializePacket
		if err := binary.Read(f, Endianness, &p); err != nil {
			return nil, fmt.Errorf("failed to read number of LEDs: %w", err)
		}
		packet = p

	case TypeClearPacket:
		packet = ClearPacket{}

	case TypeSetPacket:
		p := SetPacket{Pix: make([]uint8, 3*int(context.NumLEDs))}
		if _, err := io.ReadFull(f, p.Pix); err != nil {
			return nil, fmt.Errorf("failed to read pixel data: %w", err)
		}
		packet = p

	default:
		return nil, fmt.Errorf("unknown packet type: %s", ptype)
	}

	if err := f.verify(); err != nil {
		return nil, err
	}

	return packet, nil
}

// WriteIncomingPacket writes an incoming packet to the given writer in a
// single Write call.
func WriteIncomingPacket(w io.Writer, p IncomingPacket) error {
	var buf bytes.Buffer

	switch p := p.(type) {
	case InitializePacket:
		buf.WriteByte(byte(TypeInitializePacket))
		binary.Write(&buf, Endianness, p)
	case ClearPacket:
		buf.WriteByte(byte(TypeClearPacket))
	case SetPacket:
		buf.Grow(1 + len(p.Pix) + 4)
		buf.WriteByte(byte(TypeSetPacket))
		buf.Write(p.Pix)
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	return writeFrame(w, &buf)
}

// ReadOutgoingPacket reads an outgoing packet from the given reader.
func ReadOutgoingPacket(r io.Reader, context ReadContext) (OutgoingPacket, error) {
	f := newFrameReader(r)

	ptypeByte, err := f.readType()
	if err != nil {
		return nil, fmt.Errorf("failed to read outgoing packet type: %w", err)
	}

	var packet OutgoingPacket
	switch ptype := OutgoingPacketType(ptypeByte); ptype {
	case TypeErrorPacket:
		msg, err := f.readMessage()
		if err != nil {
			return nil, fmt.Errorf("error packet: %w", err)
		}
		packet = ErrorPacket{Message: msg}

	case TypePanicPacket:
		packet = PanicPacket{}

	case TypeLogPacket:
		msg, err := f.readMessage()
		if err != nil {
			return nil, fmt.Errorf("log packet: %w", err)
		}
		packet = LogPacket{Message: msg}

	case TypeAckPacket:
		acked, err := f.readType()
		if err != nil {
			return nil, fmt.Errorf("failed to read acked packet type: %w", err)
		}
		packet = AckPacket{IncomingPacketType: IncomingPacketType(acked)}

	default:
		return nil, fmt.Errorf("unknown packet type: %s", ptype)
	}

	if err := f.verify(); err != nil {
		return nil, err
	}

	return packet, nil
}

// WriteOutgoingPacket writes an outgoing packet to the given writer in a
// single Write call. Messages longer than MaxMessageLength are truncated.
func WriteOutgoingPacket(w io.Writer, p OutgoingPacket) error {
	var buf bytes.Buffer

	writeMessage := func(msg string) {
		if len(msg) > MaxMessageLength {
			msg = msg[:MaxMessageLength]
		}
		binary.Write(&buf, Endianness, uint16(len(msg)))
		buf.WriteString(msg)
	}

	switch p := p.(type) {
	case ErrorPacket:
		buf.WriteByte(byte(TypeErrorPacket))
		writeMessage(p.Message)
	case PanicPacket:
		buf.WriteByte(byte(TypePanicPacket))
	case LogPacket:
		buf.WriteByte(byte(TypeLogPacket))
		writeMessage(p.Message)
	case AckPacket:
		buf.WriteByte(byte(TypeAckPacket))
		buf.WriteByte(byte(p.IncomingPacketType))
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	return writeFrame(w, &buf)
}

func writeFrame(w io.Writer, buf *bytes.Buffer) error {
	var sum [4]byte
	Endianness.PutUint32(sum[:], crc32.ChecksumIEEE(buf.Bytes()))
	buf.Write(sum[:])

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write packet: %w", err)
	}
	return nil
}
