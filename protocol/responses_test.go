package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLayouts(t *testing.T) {
	assert.Equal(t, []byte{RespStatus, StatusOK}, OKStatus())
	assert.Equal(t, []byte{RespStatus, StatusError, 109}, ErrorStatus(ErrCmdInvalid))
	assert.Equal(t, []byte{RespStatus, StatusBadBlock, 0x00, 0x00, 0x02, 0x00}, BadBlockInfo(0x20000))
	assert.Equal(t, []byte{RespStatus, StatusWriteAck, 0x00, 0x08, 0x00, 0x00}, WriteAck(0x800))
}

func TestDataLayout(t *testing.T) {
	packet, err := Data([]byte{0xDE, 0xAD})
	require.NoError(t, err)
	assert.Equal(t, []byte{RespData, 2, 0xDE, 0xAD}, packet)
}

func TestDataRejectsOversizePayload(t *testing.T) {
	_, err := Data(make([]byte, MaxDataChunk+1))
	require.Error(t, err)

	packet, err := Data(make([]byte, MaxDataChunk))
	require.NoError(t, err)
	assert.Len(t, packet, PacketBufSize)
}

func TestParseResponseRoundTrip(t *testing.T) {
	data, err := Data([]byte{1, 2, 3})
	require.NoError(t, err)

	tests := []struct {
		packet []byte
		want   Response
	}{
		{OKStatus(), OKResp{}},
		{ErrorStatus(ErrNandWrite), ErrResp{Code: ErrNandWrite}},
		{BadBlockInfo(0x40000), BadBlockResp{Addr: 0x40000}},
		{WriteAck(4096), WriteAckResp{Bytes: 4096}},
		{data, DataResp{Payload: []byte{1, 2, 3}}},
	}

	for _, tt := range tests {
		got, err := ParseResponse(tt.packet)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseResponseErrors(t *testing.T) {
	tests := []struct {
		name   string
		packet []byte
	}{
		{"too short", []byte{RespStatus}},
		{"data length mismatch", []byte{RespData, 5, 1, 2}},
		{"error status without code", []byte{RespStatus, StatusError}},
		{"bad-block truncated address", []byte{RespStatus, StatusBadBlock, 1, 2}},
		{"write-ack truncated count", []byte{RespStatus, StatusWriteAck, 1}},
		{"unknown status subcode", []byte{RespStatus, 0x7F}},
		{"unknown response kind", []byte{0x42, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.packet)
			assert.Error(t, err)
		})
	}
}

func TestErrorStringNamesCode(t *testing.T) {
	err := Errf(ErrChipNotSelected)
	assert.True(t, IsError(err))
	assert.Contains(t, err.Error(), "chip is not selected")
	assert.Contains(t, err.Error(), "106")
}
