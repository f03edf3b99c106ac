package protocol

import "encoding/binary"

// Command is the decoded form of one command packet. The concrete type
// identifies the operation; payloads are plain exported fields.
type Command interface {
	// Code returns the wire opcode of the command
	Code() byte

	// Encode builds the command packet ready to send to the device
	Encode() []byte
}

// ReadIDCmd queries the NAND identification bytes.
type ReadIDCmd struct{}

// EraseCmd erases Len bytes starting at Addr. Both must be block-aligned.
type EraseCmd struct {
	Addr uint32
	Len  uint32
}

// ReadCmd streams Len bytes starting at Addr. Both must be page-aligned.
type ReadCmd struct {
	Addr uint32
	Len  uint32
}

// WriteStartCmd begins a write session of Len bytes at Addr. Both must be
// page-aligned.
type WriteStartCmd struct {
	Addr uint32
	Len  uint32
}

// WriteDataCmd carries one fragment of write data. Fragments may split a
// logical page arbitrarily; the device reassembles them.
type WriteDataCmd struct {
	Data []byte
}

// WriteEndCmd closes the write session started by WriteStartCmd.
type WriteEndCmd struct{}

// SelectCmd selects the chip with the given directory index.
type SelectCmd struct {
	Chip uint32
}

// ReadBadBlocksCmd scans the whole chip for factory bad-block marks.
type ReadBadBlocksCmd struct{}

func (ReadIDCmd) Code() byte        { return CmdReadID }
func (EraseCmd) Code() byte         { return CmdErase }
func (ReadCmd) Code() byte          { return CmdRead }
func (WriteStartCmd) Code() byte    { return CmdWriteStart }
func (WriteDataCmd) Code() byte     { return CmdWriteData }
func (WriteEndCmd) Code() byte      { return CmdWriteEnd }
func (SelectCmd) Code() byte        { return CmdSelect }
func (ReadBadBlocksCmd) Code() byte { return CmdReadBadBlocks }

func (c ReadIDCmd) Encode() []byte { return []byte{CmdReadID} }

func (c EraseCmd) Encode() []byte { return encodeAddrLen(CmdErase, c.Addr, c.Len) }

func (c ReadCmd) Encode() []byte { return encodeAddrLen(CmdRead, c.Addr, c.Len) }

func (c WriteStartCmd) Encode() []byte { return encodeAddrLen(CmdWriteStart, c.Addr, c.Len) }

func (c WriteDataCmd) Encode() []byte {
	packet := make([]byte, 0, writeDataHdrSize+len(c.Data))
	packet = append(packet, CmdWriteData, byte(len(c.Data)))
	packet = append(packet, c.Data...)
	return packet
}

func (c WriteEndCmd) Encode() []byte { return []byte{CmdWriteEnd} }

func (c SelectCmd) Encode() []byte {
	packet := make([]byte, selectCmdSize)
	packet[0] = CmdSelect
	binary.LittleEndian.PutUint32(packet[1:], c.Chip)
	return packet
}

func (c ReadBadBlocksCmd) Encode() []byte { return []byte{CmdReadBadBlocks} }

// encodeAddrLen builds the common [OPCODE][ADDR(4)][LEN(4)] packet.
func encodeAddrLen(code byte, addr, length uint32) []byte {
	packet := make([]byte, addrLenCmdSize)
	packet[0] = code
	binary.LittleEndian.PutUint32(packet[1:5], addr)
	binary.LittleEndian.PutUint32(packet[5:9], length)
	return packet
}

// Opcode returns the opcode byte of a raw command packet without decoding
// the payload. It reports ErrCmdDataSize for an empty packet.
func Opcode(packet []byte) (byte, error) {
	if len(packet) == 0 {
		return 0, Errf(ErrCmdDataSize)
	}
	return packet[0], nil
}

// ParseCommand decodes one command packet into its variant type.
//
// Unknown opcodes report ErrCmdInvalid. Payloads shorter than the opcode
// requires, or a write-data fragment that cannot fit its declared length in
// one transport packet, report ErrCmdDataSize.
func ParseCommand(packet []byte) (Command, error) {
	if len(packet) == 0 {
		return nil, Errf(ErrCmdDataSize)
	}

	switch packet[0] {
	case CmdReadID:
		return ReadIDCmd{}, nil

	case CmdErase:
		addr, length, err := parseAddrLen(packet)
		if err != nil {
			return nil, err
		}
		return EraseCmd{Addr: addr, Len: length}, nil

	case CmdRead:
		addr, length, err := parseAddrLen(packet)
		if err != nil {
			return nil, err
		}
		return ReadCmd{Addr: addr, Len: length}, nil

	case CmdWriteStart:
		addr, length, err := parseAddrLen(packet)
		if err != nil {
			return nil, err
		}
		return WriteStartCmd{Addr: addr, Len: length}, nil

	case CmdWriteData:
		if len(packet) < writeDataHdrSize {
			return nil, Errf(ErrCmdDataSize)
		}
		n := int(packet[1])
		if writeDataHdrSize+n > PacketBufSize || writeDataHdrSize+n > len(packet) {
			return nil, Errf(ErrCmdDataSize)
		}
		return WriteDataCmd{Data: packet[writeDataHdrSize : writeDataHdrSize+n]}, nil

	case CmdWriteEnd:
		return WriteEndCmd{}, nil

	case CmdSelect:
		if len(packet) < selectCmdSize {
			return nil, Errf(ErrCmdDataSize)
		}
		return SelectCmd{Chip: binary.LittleEndian.Uint32(packet[1:5])}, nil

	case CmdReadBadBlocks:
		return ReadBadBlocksCmd{}, nil

	default:
		return nil, Errf(ErrCmdInvalid)
	}
}

// parseAddrLen decodes the common [OPCODE][ADDR(4)][LEN(4)] payload.
func parseAddrLen(packet []byte) (addr, length uint32, err error) {
	if len(packet) < addrLenCmdSize {
		return 0, 0, Errf(ErrCmdDataSize)
	}
	addr = binary.LittleEndian.Uint32(packet[1:5])
	length = binary.LittleEndian.Uint32(packet[5:9])
	return addr, length, nil
}
