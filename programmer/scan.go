package programmer

import (
	"github.com/flashworks/go-nandprog/nand"
	"github.com/flashworks/go-nandprog/protocol"
)

// scanBadBlocks walks every block on the chip and checks the factory
// bad-block mark: the first spare-area byte of the block's first page, and
// of the second page when the first looks good. A marked block is reported
// to the host and added to the bad-block table.
func (p *Programmer) scanBadBlocks() error {
	p.config.Indicators.SetRead(true)
	defer p.config.Indicators.SetRead(false)

	p.logDebug("bad block scan")

	blocks := p.chip.Blocks()
	pagesPerBlock := p.chip.PagesPerBlock()

	for block := uint32(0); block < blocks; block++ {
		page := block * pagesPerBlock

		isBad, err := p.checkBlockMark(block, page)
		if err != nil {
			return err
		}
		if !isBad {
			if _, err := p.checkBlockMark(block, page+1); err != nil {
				return err
			}
		}
	}

	return p.sendOK()
}

// checkBlockMark reads the bad-block mark of one page. Any read failure is
// fatal to the scan: a table built from unreadable marks would be wrong.
func (p *Programmer) checkBlockMark(block, page uint32) (bool, error) {
	addr := block * p.chip.BlockSize

	var mark [1]byte
	switch st := p.driver.ReadSpare(mark[:], page, p.chip.PageSize, 1); st {
	case nand.StatusReady:
	case nand.StatusError:
		p.logError("bad block mark read failed", "addr", hex32(addr))
		return false, protocol.Errf(protocol.ErrNandRead)
	case nand.StatusTimeout:
		p.logError("bad block mark read timeout", "addr", hex32(addr))
		return false, protocol.Errf(protocol.ErrNandRead)
	default:
		p.logError("unknown NAND status", "status", st)
		return false, protocol.Errf(protocol.ErrNandRead)
	}

	if mark[0] == protocol.GoodBlockMark {
		return false, nil
	}

	p.logInfo("bad block found", "addr", hex32(addr), "mark", mark[0])

	if err := p.sendBadBlock(addr); err != nil {
		return true, err
	}
	p.badBlocks.Add(addr)

	return true, nil
}
