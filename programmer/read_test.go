package programmer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashworks/go-nandprog/protocol"
)

// dataBytes reassembles the payloads of the data responses in resps and
// asserts nothing else but bad-block info showed up.
func dataBytes(t *testing.T, resps []protocol.Response) []byte {
	t.Helper()
	var out []byte
	for _, resp := range resps {
		switch v := resp.(type) {
		case protocol.DataResp:
			out = append(out, v.Payload...)
		case protocol.BadBlockResp:
		default:
			t.Fatalf("unexpected response %#v", resp)
		}
	}
	return out
}

func TestReadValidation(t *testing.T) {
	tests := []struct {
		name string
		addr uint32
		len  uint32
		code protocol.ErrCode
	}{
		{"region exceeds chip", testChipSize - testPageSize, 2 * testPageSize, protocol.ErrAddrExceeded},
		{"address not page aligned", 100, testPageSize, protocol.ErrAddrNotAligned},
		{"zero length", 0, 0, protocol.ErrLenInvalid},
		{"length not page aligned", 0, testPageSize + 4, protocol.ErrLenNotAligned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t)
			r.selectChip(t)

			resps := r.do(t, protocol.ReadCmd{Addr: tt.addr, Len: tt.len})
			requireError(t, resps, tt.code)
			assert.Equal(t, 0, r.sim.Reads, "validation errors must not touch hardware")
		})
	}
}

func TestReadRoundTrip(t *testing.T) {
	r := newRig(t)
	r.selectChip(t)

	data := pattern(2 * testPageSize)
	r.writeRegion(t, testBlockSize, data, 62)

	resps := r.do(t, protocol.ReadCmd{Addr: testBlockSize, Len: uint32(len(data))})
	assert.Equal(t, data, dataBytes(t, resps))
	assert.Equal(t, 2, r.sim.Reads)
}

// A read never emits a terminal status packet: the host counts data bytes.
func TestReadEmitsOnlyData(t *testing.T) {
	r := newRig(t)
	r.selectChip(t)

	resps := r.do(t, protocol.ReadCmd{Addr: 0, Len: testPageSize})
	for _, resp := range resps {
		_, ok := resp.(protocol.DataResp)
		require.True(t, ok, "expected only data responses, got %#v", resp)
	}
}

func TestReadChunking(t *testing.T) {
	r := newRig(t)
	r.selectChip(t)

	resps := r.do(t, protocol.ReadCmd{Addr: 0, Len: testPageSize})

	// page is delivered in transport-sized chunks, the last one short
	var total uint32
	for i, resp := range resps {
		d, ok := resp.(protocol.DataResp)
		require.True(t, ok)
		if i < len(resps)-1 {
			assert.Len(t, d.Payload, protocol.MaxDataChunk)
		}
		total += uint32(len(d.Payload))
	}
	assert.Equal(t, uint32(testPageSize), total)

	want := testPageSize/protocol.MaxDataChunk + 1
	assert.Len(t, resps, want)
}

// An unreadable page is reported as a bad block, and the stream continues so
// the host still receives the declared byte count.
func TestReadFailureReportsBadBlockAndContinues(t *testing.T) {
	r := newRig(t)
	r.selectChip(t)
	r.sim.FailRead(1)

	resps := r.do(t, protocol.ReadCmd{Addr: 0, Len: 3 * testPageSize})

	var badBlocks []uint32
	var total int
	for _, resp := range resps {
		switch v := resp.(type) {
		case protocol.BadBlockResp:
			badBlocks = append(badBlocks, v.Addr)
		case protocol.DataResp:
			total += len(v.Payload)
		default:
			t.Fatalf("unexpected response %#v", resp)
		}
	}
	assert.Equal(t, []uint32{testPageSize}, badBlocks)
	assert.Equal(t, 3*testPageSize, total)
}

// A driver read timeout is advisory: no error, no bad-block info, and the
// stream still carries the declared byte count. Only the async write path
// treats timeouts as fatal.
func TestReadTimeoutStillDeliversDeclaredBytes(t *testing.T) {
	r := newRig(t)
	r.selectChip(t)
	r.sim.TimeoutRead(1)

	resps := r.do(t, protocol.ReadCmd{Addr: 0, Len: 3 * testPageSize})

	var total int
	for _, resp := range resps {
		d, ok := resp.(protocol.DataResp)
		require.True(t, ok, "expected only data responses, got %#v", resp)
		total += len(d.Payload)
	}
	assert.Equal(t, 3*testPageSize, total)
}

// Host flow control parks the sender between data packets but never loses
// any of them.
func TestReadHonorsFlowControl(t *testing.T) {
	r := newRig(t)
	r.selectChip(t)

	data := pattern(testPageSize)
	r.writeRegion(t, 0, data, 62)

	r.tr.ReadyAfter = 5
	resps := r.do(t, protocol.ReadCmd{Addr: 0, Len: testPageSize})
	assert.Equal(t, data, dataBytes(t, resps))
}

func TestReadRequiresChip(t *testing.T) {
	r := newRig(t)

	resps := r.do(t, protocol.ReadCmd{Addr: 0, Len: testPageSize})
	requireError(t, resps, protocol.ErrChipNotSelected)
}
