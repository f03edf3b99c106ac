package programmer

import (
	"fmt"

	"github.com/flashworks/go-nandprog/nand"
	"github.com/flashworks/go-nandprog/protocol"
)

// readID queries the flash identification bytes and returns them in a single
// data response.
func (p *Programmer) readID() error {
	p.config.Indicators.SetRead(true)
	defer p.config.Indicators.SetRead(false)

	p.logDebug("read ID")

	id, err := p.driver.ReadID()
	if err != nil {
		return fmt.Errorf("read id: %w", err)
	}

	packet, err := protocol.Data(id.Bytes())
	if err != nil {
		return err
	}
	if err := p.transport.Send(packet); err != nil {
		return fmt.Errorf("send id: %w", err)
	}
	return nil
}

// read streams a page-aligned region to the host in transport-sized chunks.
// The send-ready wait is the core's only blocking point: it parks on host
// flow control between data packets.
func (p *Programmer) read(c protocol.ReadCmd) error {
	p.config.Indicators.SetRead(true)
	defer p.config.Indicators.SetRead(false)

	addr, length := c.Addr, c.Len
	p.logDebug("read", "addr", hex32(addr), "len", hex32(length))

	if uint64(addr)+uint64(length) > uint64(p.chip.Size) {
		p.logError("read region exceeds chip size",
			"addr", hex32(addr), "len", hex32(length), "size", hex32(p.chip.Size))
		return protocol.Errf(protocol.ErrAddrExceeded)
	}
	if !p.chip.PageAligned(addr) {
		p.logError("read address not page aligned", "addr", hex32(addr))
		return protocol.Errf(protocol.ErrAddrNotAligned)
	}
	if length == 0 {
		return protocol.Errf(protocol.ErrLenInvalid)
	}
	if !p.chip.PageAligned(length) {
		p.logError("read length not page aligned", "len", hex32(length))
		return protocol.Errf(protocol.ErrLenNotAligned)
	}

	pageSize := p.chip.PageSize
	page := addr / pageSize

	for length > 0 {
		if err := p.readPage(addr, page); err != nil {
			return err
		}

		offset := uint32(0)
		for offset < pageSize && length > 0 {
			chunk := pageSize - offset
			if chunk > protocol.MaxDataChunk {
				chunk = protocol.MaxDataChunk
			}
			if chunk > length {
				chunk = length
			}

			packet, err := protocol.Data(p.readBuf[offset : offset+chunk])
			if err != nil {
				return err
			}

			for !p.transport.SendReady() {
			}

			if err := p.transport.Send(packet); err != nil {
				return fmt.Errorf("send read data: %w", err)
			}

			offset += chunk
			length -= chunk
		}

		if length > 0 {
			addr += pageSize
			if addr >= p.chip.Size {
				p.logError("read address exceeds chip size", "addr", hex32(addr))
				return protocol.Errf(protocol.ErrAddrExceeded)
			}
			page++
		}
	}

	return nil
}

// readPage reads one page into the read buffer. A page the part flags as
// failed is reported as a bad block and whatever the buffer holds is still
// streamed; a driver timeout is logged and the loop advances. Only an
// unrecognized status aborts the command.
func (p *Programmer) readPage(addr, page uint32) error {
	p.logDebug("NAND read", "addr", hex32(addr))

	switch st := p.driver.ReadPage(p.readBuf[:p.chip.PageSize], page, p.chip.PageSize); st {
	case nand.StatusReady:
	case nand.StatusError:
		if err := p.sendBadBlock(addr); err != nil {
			return err
		}
	case nand.StatusTimeout:
		p.logError("NAND read timeout", "addr", hex32(addr))
	default:
		p.logError("unknown NAND status", "status", st)
		return protocol.Errf(protocol.ErrNandRead)
	}
	return nil
}
