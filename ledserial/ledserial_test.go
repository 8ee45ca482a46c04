package ledserial

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomingPackets(t *testing.T) {
	ctx := ReadContext{NumLEDs: 3}
	packets := []IncomingPacket{
		InitializePacket{NumLEDs: 3},
		ClearPacket{},
		SetPacket{Pix: []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9}},
	}

	var buf bytes.Buffer
	for _, p := range packets {
		require.NoError(t, WriteIncomingPacket(&buf, p))
	}

	for _, want := range packets {
		got, err := ReadIncomingPacket(&buf, ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ReadIncomingPacket(&buf, ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestOutgoingPackets(t *testing.T) {
	packets := []OutgoingPacket{
		ErrorPacket{Message: "invalid number of pixels: 4"},
		PanicPacket{},
		LogPacket{Message: "hello"},
		AckPacket{IncomingPacketType: TypeSetPacket},
	}

	var buf bytes.Buffer
	for _, p := range packets {
		require.NoError(t, WriteOutgoingPacket(&buf, p))
	}

	for _, want := range packets {
		got, err := ReadOutgoingPacket(&buf, ReadContext{})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSetPacketWireFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIncomingPacket(&buf, SetPacket{Pix: []uint8{0xAA, 0xBB, 0xCC}}))

	b := buf.Bytes()
	require.Len(t, b, 1+3+4)
	assert.Equal(t, byte(TypeSetPacket), b[0])
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, b[1:4])
}

func TestChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIncomingPacket(&buf, SetPacket{Pix: []uint8{1, 2, 3}}))

	b := buf.Bytes()
	b[2] ^= 0xFF

	_, err := ReadIncomingPacket(bytes.NewReader(b), ReadContext{NumLEDs: 1})
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestUnknownPacketType(t *testing.T) {
	_, err := ReadOutgoingPacket(bytes.NewReader([]byte{0x7F}), ReadContext{})
	assert.Error(t, err)

	_, err = ReadIncomingPacket(bytes.NewReader([]byte{0x7F}), ReadContext{})
	assert.Error(t, err)
}

func TestLongMessageIsTruncated(t *testing.T) {
	msg := string(bytes.Repeat([]byte{'x'}, MaxMessageLength+10))

	var buf bytes.Buffer
	require.NoError(t, WriteOutgoingPacket(&buf, LogPacket{Message: msg}))

	p, err := ReadOutgoingPacket(&buf, ReadContext{})
	require.NoError(t, err)
	assert.Len(t, p.(LogPacket).Message, MaxMessageLength)
}

func TestPacketTypeStrings(t *testing.T) {
	assert.Equal(t, "set", TypeSetPacket.String())
	assert.Equal(t, "ack", TypeAckPacket.String())
	assert.Equal(t, "IncomingPacketType(9)", IncomingPacketType(9).String())
}
