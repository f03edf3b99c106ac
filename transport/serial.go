package transport

import (
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"

	"github.com/flashworks/go-nandprog/protocol"
)

// peekTimeout bounds the port read behind Peek so the scheduling loop keeps
// ticking when the host is idle.
const peekTimeout = 5 * time.Millisecond

// Serial carries the protocol over a serial port, CDC style: every port read
// yields at most one command packet. The kernel's transmit buffering stands
// in for host flow control, so SendReady is always true.
type Serial struct {
	port    serial.Port
	buf     [protocol.PacketBufSize]byte
	pending []byte
}

// OpenSerial opens the given serial device as a packet transport.
//
// Example:
//
//	t, err := transport.OpenSerial("/dev/ttyACM0", 115200)
func OpenSerial(device string, baud int) (*Serial, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, errors.Wrapf(err, "open serial port %s", device)
	}
	if err := port.SetReadTimeout(peekTimeout); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "set read timeout")
	}
	return &Serial{port: port}, nil
}

func (s *Serial) Peek() []byte {
	if s.pending != nil {
		return s.pending
	}
	n, err := s.port.Read(s.buf[:])
	if err != nil || n == 0 {
		return nil
	}
	s.pending = s.buf[:n]
	return s.pending
}

func (s *Serial) Consume() {
	s.pending = nil
}

func (s *Serial) Send(p []byte) error {
	if _, err := s.port.Write(p); err != nil {
		return errors.Wrap(err, "serial write")
	}
	return nil
}

func (s *Serial) SendReady() bool {
	return true
}

// Close releases the serial port.
func (s *Serial) Close() error {
	return s.port.Close()
}
