package chipdb

// ChipInfo is the immutable geometry of one NAND part.
type ChipInfo struct {
	// Name is the manufacturer part number
	Name string

	// PageSize is the main-area page size in bytes
	PageSize uint32

	// BlockSize is the erase block size in bytes
	BlockSize uint32

	// Size is the total main-area capacity in bytes
	Size uint32

	// SpareSize is the spare-area size per page in bytes
	SpareSize uint32
}

// PagesPerBlock returns the number of pages in one erase block.
func (c *ChipInfo) PagesPerBlock() uint32 { return c.BlockSize / c.PageSize }

// Blocks returns the number of erase blocks on the part.
func (c *ChipInfo) Blocks() uint32 { return c.Size / c.BlockSize }

// PageAligned reports whether v is a multiple of the page size.
func (c *ChipInfo) PageAligned(v uint32) bool { return v&(c.PageSize-1) == 0 }

// BlockAligned reports whether v is a multiple of the block size.
func (c *ChipInfo) BlockAligned(v uint32) bool { return v&(c.BlockSize-1) == 0 }

// Directory resolves a select index to chip geometry.
type Directory struct {
	chips []ChipInfo
}

// New creates a directory over the given entries. Entries are addressed by
// their position, matching the protocol's select index.
func New(chips ...ChipInfo) *Directory {
	return &Directory{chips: chips}
}

// Builtin returns the directory of known parts.
func Builtin() *Directory {
	return New(builtinChips...)
}

// Lookup resolves a select index. The second result is false when the index
// is outside the directory.
func (d *Directory) Lookup(index uint32) (*ChipInfo, bool) {
	if index >= uint32(len(d.chips)) {
		return nil, false
	}
	return &d.chips[index], true
}

// List returns a copy of all entries in index order.
func (d *Directory) List() []ChipInfo {
	out := make([]ChipInfo, len(d.chips))
	copy(out, d.chips)
	return out
}

// builtinChips is the factory table. Geometry per the parts' datasheets.
var builtinChips = []ChipInfo{
	{Name: "K9F2G08U0C", PageSize: 2048, BlockSize: 0x20000, Size: 0x10000000, SpareSize: 64},
	{Name: "K9F1G08U0E", PageSize: 2048, BlockSize: 0x20000, Size: 0x8000000, SpareSize: 64},
	{Name: "NAND512W3A", PageSize: 512, BlockSize: 0x4000, Size: 0x4000000, SpareSize: 16},
	{Name: "HY27US08121B", PageSize: 512, BlockSize: 0x4000, Size: 0x4000000, SpareSize: 16},
	{Name: "W25N01GV", PageSize: 2048, BlockSize: 0x20000, Size: 0x8000000, SpareSize: 64},
	{Name: "W25N512GV", PageSize: 2048, BlockSize: 0x20000, Size: 0x4000000, SpareSize: 64},
}
