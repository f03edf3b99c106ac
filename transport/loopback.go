package transport

// Loopback is an in-memory packet transport. The host side enqueues command
// packets with Push and collects device output with Responses; the device
// side sees the programmer's Peek/Consume/Send contract.
type Loopback struct {
	cmds      [][]byte
	cur       []byte
	hasCur    bool
	responses [][]byte

	// SendErr, when set, is returned by every Send. For fault-path tests.
	SendErr error

	// ReadyAfter delays SendReady: the first ReadyAfter calls report false.
	ReadyAfter int
}

// NewLoopback returns an empty loopback transport.
func NewLoopback() *Loopback {
	return &Loopback{}
}

// Push enqueues one command packet for the device to peek.
func (l *Loopback) Push(packet []byte) {
	p := make([]byte, len(packet))
	copy(p, packet)
	l.cmds = append(l.cmds, p)
}

// Responses returns and clears everything the device has sent so far.
func (l *Loopback) Responses() [][]byte {
	out := l.responses
	l.responses = nil
	return out
}

// Pending reports how many command packets are still queued.
func (l *Loopback) Pending() int {
	n := len(l.cmds)
	if l.hasCur {
		n++
	}
	return n
}

func (l *Loopback) Peek() []byte {
	if !l.hasCur {
		if len(l.cmds) == 0 {
			return nil
		}
		l.cur = l.cmds[0]
		l.cmds = l.cmds[1:]
		l.hasCur = true
	}
	return l.cur
}

func (l *Loopback) Consume() {
	l.cur = nil
	l.hasCur = false
}

func (l *Loopback) Send(p []byte) error {
	if l.SendErr != nil {
		return l.SendErr
	}
	out := make([]byte, len(p))
	copy(out, p)
	l.responses = append(l.responses, out)
	return nil
}

func (l *Loopback) SendReady() bool {
	if l.ReadyAfter > 0 {
		l.ReadyAfter--
		return false
	}
	return true
}
