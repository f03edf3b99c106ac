// Package programmer implements the device-side core of the NAND programmer:
// it decodes host commands from a packet transport, drives block/page flash
// operations through a nand.Driver, tracks defective blocks, and streams
// data back.
//
// # Control Model
//
// The core is single-threaded and cooperatively scheduled. The owner calls
// Tick repeatedly; each tick drains every pending command packet from the
// transport and then polls the one possibly in-flight asynchronous page
// write:
//
//	prog := programmer.New(transport, driver, chipdb.Builtin(),
//	    programmer.WithLogger(logger),
//	)
//	for {
//	    prog.Tick()
//	}
//
// No command other than chip select is accepted until a select succeeds.
// Handlers emit their own success and informational responses; the
// dispatcher is the single place that converts a handler error into an
// error-status response.
//
// # Write Pipeline
//
// Write data arrives in arbitrarily fragmented packets and is reassembled
// into full pages. A full page is handed to the driver as an asynchronous
// program operation; at most one is in flight at any instant. A new page
// commit first waits, bounded by the configured timeout, for the previous
// one. Between pages, completion is observed by the per-tick poller, so
// command parsing never blocks on the flash.
//
// # Failure Policies
//
// A block that fails to erase or a page that fails to read is reported with
// a bad-block response and the operation continues; a driver timeout during
// erase or read is logged and the loop advances. The asynchronous write path
// is stricter: a timeout or unrecognized status there is fatal to the write
// session. These two policies are deliberate and must not be unified.
package programmer
