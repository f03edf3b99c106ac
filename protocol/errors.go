package protocol

import "fmt"

// ErrCode is a one-byte protocol error code. Codes are transmitted as the
// absolute value of the firmware-internal negative result.
type ErrCode byte

// Protocol error codes.
const (
	// ErrInternal is a generic failure inside the device
	ErrInternal ErrCode = 1

	// ErrAddrExceeded means the address or region runs past the chip size
	ErrAddrExceeded ErrCode = 100

	// ErrAddrInvalid means no write address was established by write-start
	ErrAddrInvalid ErrCode = 101

	// ErrAddrNotAligned means the address violates page/block alignment
	ErrAddrNotAligned ErrCode = 102

	// ErrNandWrite means a NAND page program failed
	ErrNandWrite ErrCode = 103

	// ErrNandRead means a NAND page read failed
	ErrNandRead ErrCode = 104

	// ErrNandErase means a NAND block erase failed
	ErrNandErase ErrCode = 105

	// ErrChipNotSelected means no chip is selected yet
	ErrChipNotSelected ErrCode = 106

	// ErrChipNotFound means the select index is not in the chip directory
	ErrChipNotFound ErrCode = 107

	// ErrCmdDataSize means the command payload size is wrong
	ErrCmdDataSize ErrCode = 108

	// ErrCmdInvalid means the opcode is unknown
	ErrCmdInvalid ErrCode = 109

	// ErrBufOverflow means a transport buffer limit was exceeded
	ErrBufOverflow ErrCode = 110

	// ErrLenNotAligned means the length violates page/block alignment
	ErrLenNotAligned ErrCode = 111

	// ErrLenExceeded means more data arrived than write-start declared
	ErrLenExceeded ErrCode = 112

	// ErrLenInvalid means the length is zero
	ErrLenInvalid ErrCode = 113
)

// Error is a protocol-level failure carrying the wire error code. The
// dispatcher is the single place that converts an Error into an error-status
// response.
type Error struct {
	// Code is the one-byte code sent to the host
	Code ErrCode
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d)", errName(e.Code), byte(e.Code))
}

// Errf returns a protocol Error for the given code. The package keeps one
// constructor so call sites read uniformly.
func Errf(code ErrCode) error {
	return &Error{Code: code}
}

// IsError reports whether err is a protocol Error.
func IsError(err error) bool {
	_, ok := err.(*Error)
	return ok
}

// errName returns a human-readable name for an error code.
func errName(code ErrCode) string {
	switch code {
	case ErrInternal:
		return "internal error"
	case ErrAddrExceeded:
		return "address exceeds chip size"
	case ErrAddrInvalid:
		return "write address is not set"
	case ErrAddrNotAligned:
		return "address is not aligned"
	case ErrNandWrite:
		return "NAND write failed"
	case ErrNandRead:
		return "NAND read failed"
	case ErrNandErase:
		return "NAND erase failed"
	case ErrChipNotSelected:
		return "chip is not selected"
	case ErrChipNotFound:
		return "chip not found"
	case ErrCmdDataSize:
		return "command payload size invalid"
	case ErrCmdInvalid:
		return "unknown command"
	case ErrBufOverflow:
		return "transport buffer overflow"
	case ErrLenNotAligned:
		return "length is not aligned"
	case ErrLenExceeded:
		return "length exceeds declared total"
	case ErrLenInvalid:
		return "length is zero"
	default:
		return fmt.Sprintf("unknown error code %d", byte(code))
	}
}
