package programmer

import (
	"github.com/flashworks/go-nandprog/nand"
	"github.com/flashworks/go-nandprog/protocol"
)

// erase erases a block-aligned region. Blocks listed in the bad-block table
// are reported and skipped. Skipped blocks do not consume remaining length,
// except on a whole-chip erase, where they must, or a chip with bad blocks
// could never finish.
func (p *Programmer) erase(c protocol.EraseCmd) error {
	p.config.Indicators.SetWrite(true)
	defer p.config.Indicators.SetWrite(false)

	addr, length := c.Addr, c.Len
	p.logDebug("erase", "addr", hex32(addr), "len", hex32(length))

	if !p.chip.BlockAligned(addr) {
		p.logError("erase address not block aligned",
			"addr", hex32(addr), "block_size", hex32(p.chip.BlockSize))
		return protocol.Errf(protocol.ErrAddrNotAligned)
	}
	if length == 0 {
		return protocol.Errf(protocol.ErrLenInvalid)
	}
	if !p.chip.BlockAligned(length) {
		p.logError("erase length not block aligned",
			"len", hex32(length), "block_size", hex32(p.chip.BlockSize))
		return protocol.Errf(protocol.ErrLenNotAligned)
	}
	if uint64(addr)+uint64(length) > uint64(p.chip.Size) {
		p.logError("erase region exceeds chip size",
			"addr", hex32(addr), "len", hex32(length), "size", hex32(p.chip.Size))
		return protocol.Errf(protocol.ErrAddrExceeded)
	}

	wholeChip := c.Len == p.chip.Size
	page := addr / p.chip.PageSize
	pagesPerBlock := p.chip.PagesPerBlock()

	for length > 0 {
		if addr >= p.chip.Size {
			p.logError("erase address exceeds chip size", "addr", hex32(addr))
			return protocol.Errf(protocol.ErrAddrExceeded)
		}

		isBad := p.badBlocks.Contains(addr)
		if isBad {
			p.logDebug("skipped bad block", "addr", hex32(addr))
			if err := p.sendBadBlock(addr); err != nil {
				return err
			}
		} else if err := p.eraseBlock(addr, page); err != nil {
			return err
		}

		addr += p.chip.BlockSize
		page += pagesPerBlock

		if !isBad || wholeChip {
			length -= p.chip.BlockSize
		}
	}

	return p.sendOK()
}

// eraseBlock erases one block. A part-reported failure is surfaced as a
// bad-block response and the erase continues; it is not added to the table,
// which only the scan populates. A driver timeout is logged and the loop
// advances. Only an unrecognized status aborts the command.
func (p *Programmer) eraseBlock(addr, page uint32) error {
	p.logDebug("NAND erase", "addr", hex32(addr))

	switch st := p.driver.EraseBlock(page); st {
	case nand.StatusReady:
	case nand.StatusError:
		if err := p.sendBadBlock(addr); err != nil {
			return err
		}
	case nand.StatusTimeout:
		p.logError("NAND erase timeout", "addr", hex32(addr))
	default:
		p.logError("unknown NAND status", "status", st)
		return protocol.Errf(protocol.ErrNandErase)
	}
	return nil
}
