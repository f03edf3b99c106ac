// Package transport provides packet transports for the programmer core:
// Loopback, an in-memory queue used by tests and host-side harnesses, and
// Serial, a CDC-style serial port carrying one command per read.
package transport
