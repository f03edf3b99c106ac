package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAddrLenLayout(t *testing.T) {
	packet := EraseCmd{Addr: 0x04030201, Len: 0x08070605}.Encode()

	require.Len(t, packet, addrLenCmdSize)
	assert.Equal(t, []byte{CmdErase, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, packet)
}

func TestEncodeSelectLayout(t *testing.T) {
	packet := SelectCmd{Chip: 0x0A0B0C0D}.Encode()

	require.Len(t, packet, selectCmdSize)
	assert.Equal(t, []byte{CmdSelect, 0x0D, 0x0C, 0x0B, 0x0A}, packet)
}

func TestEncodeWriteDataLayout(t *testing.T) {
	packet := WriteDataCmd{Data: []byte{0xAA, 0xBB, 0xCC}}.Encode()

	assert.Equal(t, []byte{CmdWriteData, 3, 0xAA, 0xBB, 0xCC}, packet)
}

func TestParseCommandRoundTrip(t *testing.T) {
	cmds := []Command{
		ReadIDCmd{},
		EraseCmd{Addr: 0x20000, Len: 0x40000},
		ReadCmd{Addr: 0x800, Len: 0x1000},
		WriteStartCmd{Addr: 0, Len: 0x800},
		WriteDataCmd{Data: []byte{1, 2, 3, 4, 5}},
		WriteEndCmd{},
		SelectCmd{Chip: 2},
		ReadBadBlocksCmd{},
	}

	for _, cmd := range cmds {
		got, err := ParseCommand(cmd.Encode())
		require.NoError(t, err, "%#v", cmd)
		assert.Equal(t, cmd, got)
	}
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		name   string
		packet []byte
		code   ErrCode
	}{
		{"empty packet", []byte{}, ErrCmdDataSize},
		{"unknown opcode", []byte{0x08}, ErrCmdInvalid},
		{"erase payload short", []byte{CmdErase, 1, 2, 3}, ErrCmdDataSize},
		{"read payload short", []byte{CmdRead}, ErrCmdDataSize},
		{"write-start payload short", []byte{CmdWriteStart, 0, 0, 0, 0, 0, 0, 0}, ErrCmdDataSize},
		{"select payload short", []byte{CmdSelect, 1, 2}, ErrCmdDataSize},
		{"write-data missing length", []byte{CmdWriteData}, ErrCmdDataSize},
		{"write-data truncated", []byte{CmdWriteData, 5, 1, 2}, ErrCmdDataSize},
		{"write-data exceeds packet buffer", append([]byte{CmdWriteData, 63}, make([]byte, 63)...), ErrCmdDataSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCommand(tt.packet)
			require.Error(t, err)
			perr, ok := err.(*Error)
			require.True(t, ok, "expected protocol error, got %T", err)
			assert.Equal(t, tt.code, perr.Code)
		})
	}
}

// A write-data fragment of the maximum size fills the transport packet
// exactly.
func TestWriteDataMaxFragment(t *testing.T) {
	data := make([]byte, MaxDataChunk)
	for i := range data {
		data[i] = byte(i)
	}

	packet := WriteDataCmd{Data: data}.Encode()
	require.Len(t, packet, PacketBufSize)

	got, err := ParseCommand(packet)
	require.NoError(t, err)
	assert.Equal(t, WriteDataCmd{Data: data}, got)
}

// Trailing garbage after a declared write-data fragment is ignored: serial
// reads may hand over a full transport buffer.
func TestWriteDataIgnoresTrailingBytes(t *testing.T) {
	packet := []byte{CmdWriteData, 2, 0xAA, 0xBB, 0xFF, 0xFF}

	got, err := ParseCommand(packet)
	require.NoError(t, err)
	assert.Equal(t, WriteDataCmd{Data: []byte{0xAA, 0xBB}}, got)
}

// Every opcode below cmdCount decodes to a command when given a full-size
// payload; everything at or above it is rejected.
func TestOpcodeRange(t *testing.T) {
	payload := make([]byte, PacketBufSize-1)

	for op := 0; op < cmdCount; op++ {
		packet := append([]byte{byte(op)}, payload...)
		cmd, err := ParseCommand(packet)
		require.NoError(t, err, "opcode 0x%02X", op)
		assert.Equal(t, byte(op), cmd.Code())
	}

	for op := cmdCount; op < 0x100; op++ {
		packet := append([]byte{byte(op)}, payload...)
		_, err := ParseCommand(packet)
		perr, ok := err.(*Error)
		require.True(t, ok, "opcode 0x%02X", op)
		assert.Equal(t, ErrCmdInvalid, perr.Code)
	}
}

func TestOpcode(t *testing.T) {
	op, err := Opcode([]byte{CmdReadID, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, byte(CmdReadID), op)

	_, err = Opcode(nil)
	require.Error(t, err)
	assert.True(t, IsError(err))
}
