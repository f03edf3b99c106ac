package programmer

import "github.com/flashworks/go-nandprog/protocol"

// writeStart validates the declared region and resets the write cursor, the
// page buffer and the ack watermark. The write indicator stays on until
// write-end.
func (p *Programmer) writeStart(c protocol.WriteStartCmd) error {
	p.config.Indicators.SetWrite(true)

	p.logDebug("write start", "addr", hex32(c.Addr), "len", hex32(c.Len))

	if uint64(c.Addr)+uint64(c.Len) > uint64(p.chip.Size) {
		p.logError("write region exceeds chip size",
			"addr", hex32(c.Addr), "len", hex32(c.Len), "size", hex32(p.chip.Size))
		return protocol.Errf(protocol.ErrAddrExceeded)
	}
	if !p.chip.PageAligned(c.Addr) {
		p.logError("write address not page aligned", "addr", hex32(c.Addr))
		return protocol.Errf(protocol.ErrAddrNotAligned)
	}
	if c.Len == 0 {
		return protocol.Errf(protocol.ErrLenInvalid)
	}
	if !p.chip.PageAligned(c.Len) {
		p.logError("write length not page aligned", "len", hex32(c.Len))
		return protocol.Errf(protocol.ErrLenNotAligned)
	}

	p.addr = c.Addr
	p.length = c.Len
	p.addrIsSet = true

	p.page.index = c.Addr / p.chip.PageSize
	p.page.offset = 0

	p.bytesWritten = 0
	p.bytesAck = 0

	return p.sendOK()
}

// writeData assembles one fragment into the page buffer, committing the page
// to the write pipeline whenever it fills exactly, then placing any
// remainder at the start of the reset buffer. An ack is emitted once a
// page's worth of new bytes has been committed or the declared total has
// arrived.
func (p *Programmer) writeData(c protocol.WriteDataCmd) error {
	if !p.addrIsSet {
		p.logError("write address is not set")
		return protocol.Errf(protocol.ErrAddrInvalid)
	}
	if p.addr >= p.chip.Size {
		p.logError("write address exceeds chip size", "addr", hex32(p.addr))
		return protocol.Errf(protocol.ErrAddrExceeded)
	}

	pageSize := p.chip.PageSize
	n := uint32(len(c.Data))

	head := n
	if p.page.offset+n > pageSize {
		head = pageSize - p.page.offset
	}
	copy(p.page.buf[p.page.offset:], c.Data[:head])
	p.page.offset += head

	if p.page.offset == pageSize {
		if err := p.commitPage(); err != nil {
			p.logError("page commit failed", "page", p.page.index, "err", err)
			return protocol.Errf(protocol.ErrNandWrite)
		}
		p.addr += pageSize
		p.page.index++
		p.page.offset = 0
	}

	if rest := n - head; rest > 0 {
		copy(p.page.buf, c.Data[head:])
		p.page.offset += rest
	}

	p.bytesWritten += n
	if p.bytesWritten-p.bytesAck >= pageSize || p.bytesWritten == p.length {
		if err := p.sendWriteAck(p.bytesWritten); err != nil {
			return err
		}
		p.bytesAck = p.bytesWritten
	}

	if p.bytesWritten > p.length {
		p.logError("write data exceeds declared length",
			"written", hex32(p.bytesWritten), "declared", hex32(p.length))
		return protocol.Errf(protocol.ErrLenExceeded)
	}

	return nil
}

// writeEnd closes the session. A partially assembled page is an error, not
// an implicit flush.
func (p *Programmer) writeEnd() error {
	defer p.config.Indicators.SetWrite(false)

	p.addrIsSet = false

	if p.page.offset != 0 {
		p.logError("incomplete page at write end", "pending", p.page.offset)
		return protocol.Errf(protocol.ErrNandWrite)
	}

	return p.sendOK()
}

// commitPage hands the assembled page to the flash. If a previous program is
// still in flight it is waited out synchronously, bounded by the same
// timeout ceiling the tick poller uses, so at most one program operation is
// ever outstanding.
func (p *Programmer) commitPage() error {
	if p.writeInFlight {
		p.logDebug("waiting for previous NAND write")
		for p.writeInFlight {
			if err := p.checkWriteStatus(); err != nil {
				return err
			}
		}
	}

	p.logDebug("NAND write", "addr", hex32(p.addr), "bytes", p.chip.PageSize)

	p.driver.WritePageAsync(p.page.buf[:p.chip.PageSize], p.page.index, p.chip.PageSize)
	p.writeInFlight = true
	// latch the page's own address: the cursor advances past it while the
	// program is still in flight
	p.writeAddr = p.addr

	return nil
}
