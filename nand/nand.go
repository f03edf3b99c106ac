package nand

// Status is the outcome of a NAND primitive, mirroring the part's status
// register after the operation.
type Status int

const (
	// StatusReady means the operation completed successfully
	StatusReady Status = iota

	// StatusError means the part flagged the operation as failed
	StatusError

	// StatusBusy means an asynchronous operation is still in progress
	StatusBusy

	// StatusTimeout means the driver gave up waiting on the part
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	case StatusBusy:
		return "busy"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ID holds the NAND identification bytes returned by the read-id primitive.
type ID struct {
	// Maker is the JEDEC manufacturer code
	Maker byte

	// Device is the device code
	Device byte

	// Third is the third ID byte (internal chip count, cell type)
	Third byte

	// Fourth is the fourth ID byte (page size, block size, organization)
	Fourth byte
}

// Bytes returns the ID in wire order for a read-id data response.
func (id ID) Bytes() []byte {
	return []byte{id.Maker, id.Device, id.Third, id.Fourth}
}

// Driver is the low-level flash driver consumed by the programmer core.
//
// Implementations are not required to be safe for concurrent use; the core
// drives them from a single thread of control.
type Driver interface {
	// Init (re)initializes the interface to the part. Called on chip select.
	Init() error

	// ReadID returns the part's identification bytes.
	ReadID() (ID, error)

	// EraseBlock erases the block containing the given page index and
	// returns the resulting status.
	EraseBlock(page uint32) Status

	// ReadPage reads pageSize bytes of the given page into buf.
	ReadPage(buf []byte, page uint32, pageSize uint32) Status

	// WritePageAsync starts programming pageSize bytes of buf into the given
	// page and returns immediately. Completion is observed via ReadStatus.
	WritePageAsync(buf []byte, page uint32, pageSize uint32)

	// ReadStatus samples the part's status register once.
	ReadStatus() Status

	// ReadSpare reads n bytes from the spare area of the given page, i.e.
	// starting at column offset pageSize.
	ReadSpare(buf []byte, page uint32, pageSize uint32, n uint32) Status
}
