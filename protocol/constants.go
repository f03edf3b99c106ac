package protocol

// Command opcodes. The first byte of every command packet.
const (
	// CmdReadID queries the NAND identification bytes
	CmdReadID = 0x00

	// CmdErase erases a block-aligned region
	CmdErase = 0x01

	// CmdRead streams a page-aligned region back to the host
	CmdRead = 0x02

	// CmdWriteStart begins a write session for a page-aligned region
	CmdWriteStart = 0x03

	// CmdWriteData appends a fragment of page data to the write session
	CmdWriteData = 0x04

	// CmdWriteEnd closes the write session
	CmdWriteEnd = 0x05

	// CmdSelect selects the target chip by directory index
	CmdSelect = 0x06

	// CmdReadBadBlocks scans the whole chip for factory bad-block marks
	CmdReadBadBlocks = 0x07

	// cmdCount is one past the highest valid opcode
	cmdCount = 0x08
)

// Response kinds. The first byte of every response packet.
const (
	// RespData carries a data payload; INFO is the payload length
	RespData = 0x00

	// RespStatus carries a status subcode in INFO
	RespStatus = 0x01
)

// Status subcodes for RespStatus responses.
const (
	// StatusOK indicates the command completed successfully
	StatusOK = 0x00

	// StatusError is followed by a one-byte error code
	StatusError = 0x01

	// StatusBadBlock is followed by the 32-bit address of a bad block
	StatusBadBlock = 0x02

	// StatusWriteAck is followed by the 32-bit cumulative byte count
	StatusWriteAck = 0x03
)

// Packet geometry.
const (
	// PacketBufSize is the transport packet size. Commands must fit in one
	// packet and response payloads are chunked to it.
	PacketBufSize = 64

	// RespHeaderSize is the size of the [KIND][INFO] response header
	RespHeaderSize = 2

	// MaxDataChunk is the largest data payload in a single response packet
	MaxDataChunk = PacketBufSize - RespHeaderSize

	// MaxPageSize is the largest NAND page the protocol core buffers
	MaxPageSize = 0x0800
)

// GoodBlockMark is the spare-area sentinel of a healthy block. Any other
// value in the first byte of the spare area of a block's first or second
// page marks the block bad.
const GoodBlockMark = 0xFF

// Fixed command packet sizes (opcode byte included).
const (
	addrLenCmdSize   = 9 // opcode(1) + addr(4) + len(4)
	selectCmdSize    = 5 // opcode(1) + chip(4)
	writeDataHdrSize = 2 // opcode(1) + len(1)
)
