package programmer

import (
	"errors"
	"fmt"

	"github.com/flashworks/go-nandprog/chipdb"
	"github.com/flashworks/go-nandprog/nand"
	"github.com/flashworks/go-nandprog/protocol"
)

// pageState is the page-assembly buffer: exactly one outstanding page at a
// time, 0 <= offset <= page size.
type pageState struct {
	buf    []byte
	index  uint32
	offset uint32
}

// Programmer is the device-side protocol and storage-control core. It owns
// all session state: the selected chip geometry, the write cursor, the page
// buffer, the acknowledgment watermark, and the in-flight write flag.
//
// Programmer is not safe for concurrent use; drive it from one goroutine.
type Programmer struct {
	transport Transport
	driver    nand.Driver
	chips     *chipdb.Directory
	config    Config

	badBlocks *BadBlockTable

	// nil until a chip select succeeds
	chip *chipdb.ChipInfo

	// write cursor
	addr      uint32
	length    uint32
	addrIsSet bool

	page         pageState
	bytesWritten uint32
	bytesAck     uint32

	writeInFlight bool
	writeAddr     uint32
	writePolls    uint32

	readBuf []byte
}

// New creates a Programmer over the given transport, flash driver and chip
// directory.
//
// Example:
//
//	prog := programmer.New(transport, driver, chipdb.Builtin(),
//	    programmer.WithLogger(logger),
//	    programmer.WithWriteTimeout(100000),
//	)
func New(transport Transport, driver nand.Driver, chips *chipdb.Directory, opts ...Option) *Programmer {
	if transport == nil {
		panic("transport cannot be nil")
	}
	if driver == nil {
		panic("driver cannot be nil")
	}
	if chips == nil {
		panic("chip directory cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Programmer{
		transport: transport,
		driver:    driver,
		chips:     chips,
		config:    cfg,
		badBlocks: NewBadBlockTable(),
		page:      pageState{buf: make([]byte, cfg.MaxPageSize)},
		readBuf:   make([]byte, cfg.MaxPageSize),
	}
}

// Tick runs one scheduling slice: it drains every pending command packet and
// then polls the in-flight page write, if any. Call it repeatedly from the
// owner's loop.
func (p *Programmer) Tick() {
	p.handlePackets()
	p.pollWrite()
}

// Chip returns the selected chip geometry, or nil when no chip is selected.
func (p *Programmer) Chip() *chipdb.ChipInfo {
	return p.chip
}

// BadBlocks returns the session's bad-block table.
func (p *Programmer) BadBlocks() *BadBlockTable {
	return p.badBlocks
}

// handlePackets drains the transport, processing each pending command to
// full success or error signaling before releasing its packet.
func (p *Programmer) handlePackets() {
	for {
		packet := p.transport.Peek()
		if packet == nil {
			return
		}

		err := p.handleCommand(packet)

		p.transport.Consume()

		if err != nil {
			p.logError("command failed", "err", err)
			p.sendError(wireCode(err))
		}
	}
}

// handleCommand validates and routes one command packet. Chip selection is
// checked before anything else: until a select succeeds, select is the only
// opcode accepted.
func (p *Programmer) handleCommand(packet []byte) error {
	op, err := protocol.Opcode(packet)
	if err != nil {
		return err
	}

	if p.chip == nil && op != protocol.CmdSelect {
		return protocol.Errf(protocol.ErrChipNotSelected)
	}

	cmd, err := protocol.ParseCommand(packet)
	if err != nil {
		return err
	}

	switch c := cmd.(type) {
	case protocol.SelectCmd:
		return p.selectChip(c)
	case protocol.ReadIDCmd:
		return p.readID()
	case protocol.EraseCmd:
		return p.erase(c)
	case protocol.ReadCmd:
		return p.read(c)
	case protocol.WriteStartCmd:
		return p.writeStart(c)
	case protocol.WriteDataCmd:
		return p.writeData(c)
	case protocol.WriteEndCmd:
		return p.writeEnd()
	case protocol.ReadBadBlocksCmd:
		return p.scanBadBlocks()
	default:
		return protocol.Errf(protocol.ErrCmdInvalid)
	}
}

// selectChip resolves geometry, reinitializes the flash interface and clears
// the bad-block table. A failed lookup leaves the session with no chip.
func (p *Programmer) selectChip(c protocol.SelectCmd) error {
	p.logDebug("chip select", "index", c.Chip)

	info, ok := p.chips.Lookup(c.Chip)
	if !ok {
		p.chip = nil
		p.logError("chip not found", "index", c.Chip)
		return protocol.Errf(protocol.ErrChipNotFound)
	}

	if info.PageSize > p.config.MaxPageSize {
		p.chip = nil
		p.logError("page size exceeds buffer capacity",
			"page_size", info.PageSize, "capacity", p.config.MaxPageSize)
		return protocol.Errf(protocol.ErrBufOverflow)
	}

	if err := p.driver.Init(); err != nil {
		p.chip = nil
		return fmt.Errorf("flash init: %w", err)
	}
	p.badBlocks.Reset()
	p.chip = info

	p.logInfo("chip selected", "name", info.Name,
		"page_size", info.PageSize, "block_size", info.BlockSize, "size", info.Size)

	return p.sendOK()
}

// pollWrite is the tick-driven completion poller. No-op when no write is in
// flight; otherwise one status sample, with the busy counter running toward
// the timeout ceiling.
func (p *Programmer) pollWrite() {
	if !p.writeInFlight {
		return
	}
	if err := p.checkWriteStatus(); err != nil {
		p.sendError(protocol.ErrNandWrite)
	}
}

// checkWriteStatus samples the flash status once and advances the in-flight
// write's state machine. Ready and error are both terminal; only error
// additionally reports a bad block, at the address latched when the page was
// committed. Busy counts toward the timeout ceiling.
func (p *Programmer) checkWriteStatus() error {
	switch st := p.driver.ReadStatus(); st {
	case nand.StatusError:
		err := p.sendBadBlock(p.writeAddr)
		p.clearWrite()
		if err != nil {
			return err
		}
	case nand.StatusReady:
		p.clearWrite()
	case nand.StatusBusy:
		p.writePolls++
		if p.writePolls >= p.config.WriteTimeoutPolls {
			p.logError("NAND write timeout", "addr", hex32(p.writeAddr))
			p.clearWrite()
			return protocol.Errf(protocol.ErrNandWrite)
		}
	default:
		p.logError("unknown NAND status", "status", st)
		p.clearWrite()
		return protocol.Errf(protocol.ErrNandWrite)
	}
	return nil
}

func (p *Programmer) clearWrite() {
	p.writeInFlight = false
	p.writePolls = 0
}

// --- response helpers -------------------------------------------------

func (p *Programmer) sendOK() error {
	if err := p.transport.Send(protocol.OKStatus()); err != nil {
		return fmt.Errorf("send ok status: %w", err)
	}
	return nil
}

// sendError is best effort: a transport that cannot carry the error response
// cannot carry anything else either.
func (p *Programmer) sendError(code protocol.ErrCode) {
	if err := p.transport.Send(protocol.ErrorStatus(code)); err != nil {
		p.logError("send error status failed", "code", byte(code), "err", err)
	}
}

func (p *Programmer) sendBadBlock(addr uint32) error {
	if err := p.transport.Send(protocol.BadBlockInfo(addr)); err != nil {
		return fmt.Errorf("send bad block info: %w", err)
	}
	return nil
}

func (p *Programmer) sendWriteAck(bytes uint32) error {
	if err := p.transport.Send(protocol.WriteAck(bytes)); err != nil {
		return fmt.Errorf("send write ack: %w", err)
	}
	return nil
}

// wireCode maps a handler error to the one-byte code sent to the host.
// Anything that is not a protocol error surfaces as internal.
func wireCode(err error) protocol.ErrCode {
	var perr *protocol.Error
	if errors.As(err, &perr) {
		return perr.Code
	}
	return protocol.ErrInternal
}

func hex32(v uint32) string {
	return fmt.Sprintf("0x%08X", v)
}

// --- logging helpers ---------------------------------------------------

func (p *Programmer) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}

func (p *Programmer) logInfo(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Info(msg, keysAndValues...)
	}
}

func (p *Programmer) logError(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Error(msg, keysAndValues...)
	}
}
