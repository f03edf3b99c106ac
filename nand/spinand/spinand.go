package spinand

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/flashworks/go-nandprog/nand"
)

// SPI-NAND command set:
//   - [W25N01GV|8.1 Instruction Set Table 1]
const (
	cmdReset          = 0xFF
	cmdReadJEDECID    = 0x9F
	cmdGetFeature     = 0x0F
	cmdSetFeature     = 0x1F
	cmdWriteEnable    = 0x06
	cmdPageDataRead   = 0x13 // array page -> cache
	cmdReadFromCache  = 0x03
	cmdProgramLoad    = 0x02 // host -> cache
	cmdProgramExecute = 0x10 // cache -> array, runs in background
	cmdBlockErase     = 0xD8
)

// Feature register addresses.
const (
	regProtection = 0xA0
	regConfig     = 0xB0
	regStatus     = 0xC0
)

// Status register bits.
const (
	statusBusy      = 1 << 0
	statusEraseFail = 1 << 2
	statusProgFail  = 1 << 3
	statusECCMask   = 3 << 4
	statusECCUncorr = 2 << 4
)

// readyTimeout bounds the synchronous waits (reset, page-to-cache load,
// erase). Longest datasheet figure is block erase at 10ms max.
const readyTimeout = 100 * time.Millisecond

// Device drives one SPI-NAND part. It satisfies nand.Driver.
type Device struct {
	conn spi.Conn
}

var _ nand.Driver = (*Device)(nil)

// New wraps an established SPI connection. The connection must be mode 0
// with 8-bit words.
func New(conn spi.Conn) *Device {
	return &Device{conn: conn}
}

// Open initializes the periph host, opens the named SPI port (empty string
// selects the first available) and connects to the part.
func Open(portName string, freq physic.Frequency) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("open SPI port %q: %w", portName, err)
	}
	conn, err := port.Connect(freq, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("connect SPI: %w", err)
	}
	return New(conn), nil
}

// tx runs one full-duplex transaction over buf.
func (d *Device) tx(buf []byte) error {
	return d.conn.Tx(buf, buf)
}

func (d *Device) getFeature(reg byte) (byte, error) {
	buf := []byte{cmdGetFeature, reg, 0}
	if err := d.tx(buf); err != nil {
		return 0, err
	}
	return buf[2], nil
}

func (d *Device) setFeature(reg, val byte) error {
	return d.tx([]byte{cmdSetFeature, reg, val})
}

func (d *Device) writeEnable() error {
	return d.tx([]byte{cmdWriteEnable})
}

// waitReady polls the busy bit until the part goes idle or the bound
// expires. It returns the last status register value.
func (d *Device) waitReady(timeout time.Duration) (byte, error) {
	deadline := time.Now().Add(timeout)
	for {
		status, err := d.getFeature(regStatus)
		if err != nil {
			return 0, err
		}
		if status&statusBusy == 0 {
			return status, nil
		}
		if time.Now().After(deadline) {
			return status, fmt.Errorf("SPI-NAND busy past %v", timeout)
		}
		time.Sleep(10 * time.Microsecond)
	}
}

// Init resets the part and lifts the factory block protection so the whole
// array is erasable and programmable.
func (d *Device) Init() error {
	if err := d.tx([]byte{cmdReset}); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if _, err := d.waitReady(readyTimeout); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := d.setFeature(regProtection, 0x00); err != nil {
		return fmt.Errorf("unlock protection: %w", err)
	}
	return nil
}

// ReadID returns the JEDEC identification bytes.
func (d *Device) ReadID() (nand.ID, error) {
	// opcode, dummy, then three ID bytes
	buf := []byte{cmdReadJEDECID, 0, 0, 0, 0}
	if err := d.tx(buf); err != nil {
		return nand.ID{}, fmt.Errorf("read JEDEC id: %w", err)
	}
	return nand.ID{Maker: buf[2], Device: buf[3], Third: buf[4]}, nil
}

// EraseBlock erases the block containing the given page. Erase is short
// enough to wait out synchronously.
func (d *Device) EraseBlock(page uint32) nand.Status {
	if err := d.writeEnable(); err != nil {
		return nand.StatusError
	}
	if err := d.tx([]byte{cmdBlockErase, 0, byte(page >> 8), byte(page)}); err != nil {
		return nand.StatusError
	}
	status, err := d.waitReady(readyTimeout)
	if err != nil {
		return nand.StatusTimeout
	}
	if status&statusEraseFail != 0 {
		return nand.StatusError
	}
	return nand.StatusReady
}

// ReadPage loads the page into the on-die cache and clocks out the main
// area. An uncorrectable ECC result reports StatusError.
func (d *Device) ReadPage(buf []byte, page uint32, pageSize uint32) nand.Status {
	status, err := d.loadPage(page)
	if err != nil {
		return nand.StatusTimeout
	}
	if status&statusECCMask == statusECCUncorr {
		return nand.StatusError
	}
	if err := d.readCache(buf[:pageSize], 0); err != nil {
		return nand.StatusError
	}
	return nand.StatusReady
}

// WritePageAsync loads the cache and issues program-execute without waiting.
// Completion is observed via ReadStatus.
func (d *Device) WritePageAsync(buf []byte, page uint32, pageSize uint32) {
	if err := d.writeEnable(); err != nil {
		return
	}
	load := make([]byte, 3+pageSize)
	load[0] = cmdProgramLoad
	// column address 0
	copy(load[3:], buf[:pageSize])
	if err := d.tx(load); err != nil {
		return
	}
	_ = d.tx([]byte{cmdProgramExecute, 0, byte(page >> 8), byte(page)})
}

// ReadStatus samples the status register once and maps it to the driver
// status model.
func (d *Device) ReadStatus() nand.Status {
	status, err := d.getFeature(regStatus)
	if err != nil {
		return nand.StatusTimeout
	}
	if status&statusBusy != 0 {
		return nand.StatusBusy
	}
	if status&statusProgFail != 0 {
		return nand.StatusError
	}
	return nand.StatusReady
}

// ReadSpare reads n bytes from the spare area, which sits in the cache at
// column offset pageSize after a page load.
func (d *Device) ReadSpare(buf []byte, page uint32, pageSize uint32, n uint32) nand.Status {
	if _, err := d.loadPage(page); err != nil {
		return nand.StatusTimeout
	}
	if err := d.readCache(buf[:n], pageSize); err != nil {
		return nand.StatusError
	}
	return nand.StatusReady
}

// loadPage moves one array page into the on-die cache and waits for it.
func (d *Device) loadPage(page uint32) (byte, error) {
	if err := d.tx([]byte{cmdPageDataRead, 0, byte(page >> 8), byte(page)}); err != nil {
		return 0, err
	}
	return d.waitReady(readyTimeout)
}

// readCache clocks out len(buf) bytes from the cache at the given column.
func (d *Device) readCache(buf []byte, column uint32) error {
	out := make([]byte, 4+len(buf))
	out[0] = cmdReadFromCache
	out[1] = byte(column >> 8)
	out[2] = byte(column)
	// out[3] dummy byte
	if err := d.tx(out); err != nil {
		return err
	}
	copy(buf, out[4:])
	return nil
}
