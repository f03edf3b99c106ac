package programmer

import "sort"

// BadBlockTable is the set of known-bad block start addresses. Membership is
// advisory (erase skips listed blocks) and additive (the scan appends on
// discovery); entries live until the next chip select.
type BadBlockTable struct {
	blocks map[uint32]struct{}
}

// NewBadBlockTable returns an empty table.
func NewBadBlockTable() *BadBlockTable {
	return &BadBlockTable{blocks: make(map[uint32]struct{})}
}

// Contains reports whether the block starting at addr is marked bad.
func (t *BadBlockTable) Contains(addr uint32) bool {
	_, ok := t.blocks[addr]
	return ok
}

// Add marks the block starting at addr as bad.
func (t *BadBlockTable) Add(addr uint32) {
	t.blocks[addr] = struct{}{}
}

// Reset clears the table.
func (t *BadBlockTable) Reset() {
	t.blocks = make(map[uint32]struct{})
}

// Len returns the number of known bad blocks.
func (t *BadBlockTable) Len() int {
	return len(t.blocks)
}

// Addresses returns the bad block start addresses in ascending order.
func (t *BadBlockTable) Addresses() []uint32 {
	out := make([]uint32, 0, len(t.blocks))
	for addr := range t.blocks {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
