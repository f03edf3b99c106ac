package programmer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashworks/go-nandprog/protocol"
)

func TestScanCleanChip(t *testing.T) {
	r := newRig(t)
	r.selectChip(t)

	resps := r.do(t, protocol.ReadBadBlocksCmd{})
	require.Equal(t, []protocol.Response{protocol.OKResp{}}, resps)
	assert.Equal(t, 0, r.prog.BadBlocks().Len())
}

func TestScanFindsMarkedBlocks(t *testing.T) {
	r := newRig(t)
	r.selectChip(t)

	r.sim.MarkBad(0)
	r.sim.MarkBad(7 * testBlockSize)

	resps := r.do(t, protocol.ReadBadBlocksCmd{})

	var found []uint32
	for _, resp := range resps[:len(resps)-1] {
		bb, ok := resp.(protocol.BadBlockResp)
		require.True(t, ok, "expected bad-block info, got %#v", resp)
		found = append(found, bb.Addr)
	}
	assert.Equal(t, []uint32{0, 7 * testBlockSize}, found)
	assert.Equal(t, protocol.OKResp{}, resps[len(resps)-1])

	// the table mirrors what was reported
	assert.Equal(t, []uint32{0, 7 * testBlockSize}, r.prog.BadBlocks().Addresses())
	assert.True(t, r.prog.BadBlocks().Contains(0))
	assert.True(t, r.prog.BadBlocks().Contains(7*testBlockSize))
	assert.False(t, r.prog.BadBlocks().Contains(testBlockSize))
}

// Selecting a chip resets the table; the scan rebuilds it.
func TestScanTableResetsOnSelect(t *testing.T) {
	r := newRig(t)
	r.selectChip(t)

	r.sim.MarkBad(3 * testBlockSize)
	r.do(t, protocol.ReadBadBlocksCmd{})
	require.Equal(t, 1, r.prog.BadBlocks().Len())

	r.selectChip(t)
	assert.Equal(t, 0, r.prog.BadBlocks().Len())
}

// A mark that cannot be read aborts the scan: a table built from unreadable
// marks would mislead every later erase.
func TestScanAbortsOnReadFailure(t *testing.T) {
	r := newRig(t)
	r.selectChip(t)

	pagesPerBlock := uint32(testBlockSize / testPageSize)
	r.sim.FailRead(2 * pagesPerBlock)

	resps := r.do(t, protocol.ReadBadBlocksCmd{})
	requireError(t, resps, protocol.ErrNandRead)
}

// Marks may sit in the first or the second page of a block.
func TestScanChecksSecondPageMark(t *testing.T) {
	r := newRig(t)
	r.selectChip(t)

	// mark only the second page of block 4
	pagesPerBlock := uint32(testBlockSize / testPageSize)
	r.sim.MarkBadPage(4*pagesPerBlock + 1)

	resps := r.do(t, protocol.ReadBadBlocksCmd{})

	require.GreaterOrEqual(t, len(resps), 2)
	bb, ok := resps[0].(protocol.BadBlockResp)
	require.True(t, ok)
	assert.Equal(t, uint32(4*testBlockSize), bb.Addr)
	assert.True(t, r.prog.BadBlocks().Contains(4*testBlockSize))
}
