package nand

import "fmt"

// SpareSize is the simulated spare-area size per page.
const SpareSize = 64

// MemSim is an in-memory NAND chip. It honors the Driver contract including
// the asynchronous page-program model: a programmed page is not committed
// until ReadStatus has been polled past the configured busy latency.
//
// Erased cells read back 0xFF. Failure injection is per page (program, read)
// and per block (erase), plus "stuck" pages whose program never completes,
// for exercising timeout paths.
type MemSim struct {
	pageSize  uint32
	blockSize uint32
	size      uint32

	main  []byte
	spare []byte
	id    ID

	// async program state
	pending     bool
	pendingPage uint32
	pendingBuf  []byte
	busyLeft    int
	busyPolls   int

	failProgram  map[uint32]bool
	failRead     map[uint32]bool
	failErase    map[uint32]bool
	timeoutRead  map[uint32]bool
	timeoutErase map[uint32]bool
	stuck        map[uint32]bool

	// Overlapped reports that a second program was issued while one was
	// still pending. The core must never cause this.
	Overlapped bool

	// op counters, readable by tests
	Erases   int
	Programs int
	Reads    int
	Inits    int
}

var _ Driver = (*MemSim)(nil)

// NewMemSim creates a simulated chip with the given geometry. The whole
// array starts erased (0xFF). Sizes must be powers of two with
// pageSize <= blockSize <= size.
func NewMemSim(pageSize, blockSize, size uint32) *MemSim {
	pages := size / pageSize
	m := &MemSim{
		pageSize:    pageSize,
		blockSize:   blockSize,
		size:        size,
		main:        make([]byte, size),
		spare:       make([]byte, pages*SpareSize),
		id:          ID{Maker: 0xEC, Device: 0xDA, Third: 0x10, Fourth: 0x95},
		failProgram:  make(map[uint32]bool),
		failRead:     make(map[uint32]bool),
		failErase:    make(map[uint32]bool),
		timeoutRead:  make(map[uint32]bool),
		timeoutErase: make(map[uint32]bool),
		stuck:        make(map[uint32]bool),
	}
	for i := range m.main {
		m.main[i] = 0xFF
	}
	for i := range m.spare {
		m.spare[i] = 0xFF
	}
	return m
}

// SetID overrides the identification bytes.
func (m *MemSim) SetID(id ID) { m.id = id }

// SetBusyPolls sets how many ReadStatus polls a page program stays busy
// before committing. Zero commits on the first poll.
func (m *MemSim) SetBusyPolls(n int) { m.busyPolls = n }

// MarkBad writes a non-0xFF bad-block mark into the spare area of the first
// page of the block containing addr.
func (m *MemSim) MarkBad(addr uint32) {
	page := (addr / m.blockSize) * (m.blockSize / m.pageSize)
	m.spare[page*SpareSize] = 0x00
}

// MarkBadPage writes a non-0xFF bad-block mark into the spare area of one
// specific page, for parts that mark the block's second page.
func (m *MemSim) MarkBadPage(page uint32) {
	m.spare[page*SpareSize] = 0x00
}

// FailProgram makes programming of the given page report StatusError.
func (m *MemSim) FailProgram(page uint32) { m.failProgram[page] = true }

// FailRead makes reads of the given page report StatusError.
func (m *MemSim) FailRead(page uint32) { m.failRead[page] = true }

// FailErase makes erase of the block containing the given page report
// StatusError.
func (m *MemSim) FailErase(page uint32) { m.failErase[m.blockOf(page)] = true }

// TimeoutRead makes reads of the given page report StatusTimeout.
func (m *MemSim) TimeoutRead(page uint32) { m.timeoutRead[page] = true }

// TimeoutErase makes erase of the block containing the given page report
// StatusTimeout.
func (m *MemSim) TimeoutErase(page uint32) { m.timeoutErase[m.blockOf(page)] = true }

// StickProgram makes programming of the given page stay busy forever.
func (m *MemSim) StickProgram(page uint32) { m.stuck[page] = true }

// Page returns a copy of the committed contents of one page.
func (m *MemSim) Page(page uint32) []byte {
	out := make([]byte, m.pageSize)
	copy(out, m.main[page*m.pageSize:])
	return out
}

func (m *MemSim) blockOf(page uint32) uint32 {
	pagesPerBlock := m.blockSize / m.pageSize
	return page / pagesPerBlock
}

func (m *MemSim) Init() error {
	m.Inits++
	m.pending = false
	m.busyLeft = 0
	return nil
}

func (m *MemSim) ReadID() (ID, error) {
	return m.id, nil
}

func (m *MemSim) EraseBlock(page uint32) Status {
	m.Erases++
	if page*m.pageSize >= m.size {
		return StatusError
	}
	block := m.blockOf(page)
	if m.failErase[block] {
		return StatusError
	}
	if m.timeoutErase[block] {
		return StatusTimeout
	}
	start := block * m.blockSize
	for i := start; i < start+m.blockSize; i++ {
		m.main[i] = 0xFF
	}
	firstPage := block * (m.blockSize / m.pageSize)
	pagesPerBlock := m.blockSize / m.pageSize
	for p := firstPage; p < firstPage+pagesPerBlock; p++ {
		for i := uint32(0); i < SpareSize; i++ {
			m.spare[p*SpareSize+i] = 0xFF
		}
	}
	return StatusReady
}

func (m *MemSim) ReadPage(buf []byte, page uint32, pageSize uint32) Status {
	m.Reads++
	if pageSize != m.pageSize || page*m.pageSize >= m.size {
		return StatusError
	}
	if m.failRead[page] {
		return StatusError
	}
	if m.timeoutRead[page] {
		return StatusTimeout
	}
	copy(buf[:pageSize], m.main[page*m.pageSize:])
	return StatusReady
}

func (m *MemSim) WritePageAsync(buf []byte, page uint32, pageSize uint32) {
	m.Programs++
	if m.pending {
		m.Overlapped = true
	}
	m.pending = true
	m.pendingPage = page
	m.pendingBuf = append(m.pendingBuf[:0], buf[:pageSize]...)
	m.busyLeft = m.busyPolls
}

func (m *MemSim) ReadStatus() Status {
	if !m.pending {
		return StatusReady
	}
	if m.stuck[m.pendingPage] {
		return StatusBusy
	}
	if m.busyLeft > 0 {
		m.busyLeft--
		return StatusBusy
	}
	m.pending = false
	if m.failProgram[m.pendingPage] {
		return StatusError
	}
	if m.pendingPage*m.pageSize >= m.size {
		return StatusError
	}
	// NAND programming only clears bits
	dst := m.main[m.pendingPage*m.pageSize:]
	for i, b := range m.pendingBuf {
		dst[i] &= b
	}
	return StatusReady
}

func (m *MemSim) ReadSpare(buf []byte, page uint32, pageSize uint32, n uint32) Status {
	if pageSize != m.pageSize || page*m.pageSize >= m.size {
		return StatusError
	}
	if m.failRead[page] {
		return StatusError
	}
	if n > SpareSize {
		n = SpareSize
	}
	copy(buf[:n], m.spare[page*SpareSize:])
	return StatusReady
}

func (m *MemSim) String() string {
	return fmt.Sprintf("memsim %d/%d/%d", m.pageSize, m.blockSize, m.size)
}
