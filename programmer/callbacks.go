package programmer

// Transport is the packet channel between the host and the device. The core
// borrows the packet returned by Peek for the duration of one command and
// releases it with Consume before peeking again.
//
// Peek and Consume must not block. Send may block until the host drains its
// side. SendReady reports host-side flow control for bulk data streaming.
type Transport interface {
	// Peek returns the next pending command packet, or nil if none is
	// available. Repeated calls without Consume return the same packet.
	Peek() []byte

	// Consume releases the packet returned by Peek.
	Consume()

	// Send transmits one response packet to the host.
	Send(p []byte) error

	// SendReady reports whether the host can accept another data packet.
	SendReady() bool
}

// Logger is an optional logging interface the core reports through. It
// allows integration with any logging framework.
//
// Example with logrus:
//
//	type LogrusLogger struct{ L *logrus.Logger }
//	func (l *LogrusLogger) Debug(msg string, kv ...interface{}) { l.L.Debug(append([]interface{}{msg}, kv...)...) }
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

// Indicators drives the device's read/write activity lights. Purely
// observational; the core never reads them back.
type Indicators interface {
	// SetRead turns the read-activity indicator on or off
	SetRead(on bool)

	// SetWrite turns the write-activity indicator on or off
	SetWrite(on bool)
}

// nopIndicators is used when no indicators are configured.
type nopIndicators struct{}

func (nopIndicators) SetRead(bool)  {}
func (nopIndicators) SetWrite(bool) {}
