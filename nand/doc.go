// Package nand defines the low-level NAND flash driver contract consumed by
// the programmer core, and provides MemSim, an in-memory simulated chip used
// by the tests and the device emulator.
//
// A Driver exposes the raw primitives of a parallel or SPI NAND part: block
// erase, synchronous page read, asynchronous page program, status register
// read, and spare-area read. Page program is fire-and-forget; callers poll
// ReadStatus until the part leaves StatusBusy.
package nand
