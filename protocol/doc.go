// Package protocol implements the NAND programmer wire protocol.
//
// This package provides the command and response codec spoken between a host
// application and the programmer device over a packet transport. Each command
// arrives fully formed in one transport packet; the device answers with one
// or more response packets.
//
// # Protocol Overview
//
// Commands are tagged by a one-byte opcode followed by an opcode-specific
// payload. All multi-byte fields are little-endian:
//
//	read-id:         [0x00]
//	erase:           [0x01][ADDR(4)][LEN(4)]
//	read:            [0x02][ADDR(4)][LEN(4)]
//	write-start:     [0x03][ADDR(4)][LEN(4)]
//	write-data:      [0x04][LEN(1)][DATA...]
//	write-end:       [0x05]
//	select:          [0x06][CHIP(4)]
//	read-bad-blocks: [0x07]
//
// Responses carry a two-byte header [KIND][INFO]. Data responses (kind 0x00)
// use INFO as the payload length and append up to MaxDataChunk bytes. Status
// responses (kind 0x01) use INFO as a subcode:
//
//	ok:        [0x01][0x00]
//	error:     [0x01][0x01][ERR_CODE]
//	bad-block: [0x01][0x02][ADDR(4)]
//	write-ack: [0x01][0x03][BYTES(4)]
//
// # Command Codec
//
// The device side decodes packets with ParseCommand, which returns one of the
// command variant types:
//
//	cmd, err := protocol.ParseCommand(packet)
//	switch c := cmd.(type) {
//	case protocol.EraseCmd:
//	    // c.Addr, c.Len
//	}
//
// Host applications and tests build packets with the Encode method of each
// variant, and decode device replies with ParseResponse.
package protocol
