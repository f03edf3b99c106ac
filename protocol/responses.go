package protocol

import (
	"encoding/binary"
	"fmt"
)

// OKStatus builds an ok status response.
func OKStatus() []byte {
	return []byte{RespStatus, StatusOK}
}

// ErrorStatus builds an error status response carrying the error code.
func ErrorStatus(code ErrCode) []byte {
	return []byte{RespStatus, StatusError, byte(code)}
}

// BadBlockInfo builds a bad-block status response for the block at addr.
func BadBlockInfo(addr uint32) []byte {
	packet := make([]byte, RespHeaderSize+4)
	packet[0] = RespStatus
	packet[1] = StatusBadBlock
	binary.LittleEndian.PutUint32(packet[RespHeaderSize:], addr)
	return packet
}

// WriteAck builds a write-ack status response carrying the cumulative number
// of bytes handed to the flash write path.
func WriteAck(bytes uint32) []byte {
	packet := make([]byte, RespHeaderSize+4)
	packet[0] = RespStatus
	packet[1] = StatusWriteAck
	binary.LittleEndian.PutUint32(packet[RespHeaderSize:], bytes)
	return packet
}

// Data builds a data response. The payload must fit one transport packet.
func Data(payload []byte) ([]byte, error) {
	if len(payload) > MaxDataChunk {
		return nil, fmt.Errorf("data payload %d bytes exceeds chunk limit %d", len(payload), MaxDataChunk)
	}
	packet := make([]byte, 0, RespHeaderSize+len(payload))
	packet = append(packet, RespData, byte(len(payload)))
	packet = append(packet, payload...)
	return packet, nil
}

// Response is the decoded form of one response packet.
type Response interface {
	respKind() byte
}

// DataResp is a data response payload chunk.
type DataResp struct {
	Payload []byte
}

// OKResp is a terminal ok status.
type OKResp struct{}

// ErrResp is a terminal error status carrying the wire error code.
type ErrResp struct {
	Code ErrCode
}

// BadBlockResp reports one bad block encountered during erase, read or scan.
type BadBlockResp struct {
	Addr uint32
}

// WriteAckResp acknowledges cumulative bytes committed to the write path.
type WriteAckResp struct {
	Bytes uint32
}

func (DataResp) respKind() byte     { return RespData }
func (OKResp) respKind() byte       { return RespStatus }
func (ErrResp) respKind() byte      { return RespStatus }
func (BadBlockResp) respKind() byte { return RespStatus }
func (WriteAckResp) respKind() byte { return RespStatus }

// ParseResponse decodes one response packet. It is the host-side counterpart
// of the builders above and is also used by the tests to check device output.
func ParseResponse(packet []byte) (Response, error) {
	if len(packet) < RespHeaderSize {
		return nil, fmt.Errorf("response too short: got %d bytes, minimum is %d", len(packet), RespHeaderSize)
	}

	switch packet[0] {
	case RespData:
		n := int(packet[1])
		if RespHeaderSize+n != len(packet) {
			return nil, fmt.Errorf("data response length mismatch: header says %d, packet has %d", n, len(packet)-RespHeaderSize)
		}
		return DataResp{Payload: packet[RespHeaderSize:]}, nil

	case RespStatus:
		switch packet[1] {
		case StatusOK:
			return OKResp{}, nil
		case StatusError:
			if len(packet) < RespHeaderSize+1 {
				return nil, fmt.Errorf("error status missing code byte")
			}
			return ErrResp{Code: ErrCode(packet[RespHeaderSize])}, nil
		case StatusBadBlock:
			if len(packet) < RespHeaderSize+4 {
				return nil, fmt.Errorf("bad-block status missing address")
			}
			return BadBlockResp{Addr: binary.LittleEndian.Uint32(packet[RespHeaderSize:])}, nil
		case StatusWriteAck:
			if len(packet) < RespHeaderSize+4 {
				return nil, fmt.Errorf("write-ack status missing byte count")
			}
			return WriteAckResp{Bytes: binary.LittleEndian.Uint32(packet[RespHeaderSize:])}, nil
		default:
			return nil, fmt.Errorf("unknown status subcode 0x%02X", packet[1])
		}

	default:
		return nil, fmt.Errorf("unknown response kind 0x%02X", packet[0])
	}
}
