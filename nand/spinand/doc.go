// Package spinand implements the nand.Driver contract for W25N-class
// SPI-NAND parts over a periph.io SPI connection.
//
// SPI-NAND moves data through an on-die page cache: reads load a page into
// the cache and then clock it out; writes load the cache and then issue a
// program-execute, which runs in the array while the bus is free. That
// program-execute is exactly the asynchronous page write the programmer core
// expects, with completion observed through the status register's busy bit.
package spinand
