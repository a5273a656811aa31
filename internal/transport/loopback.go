// Package transport provides internal/interfaces.Port implementations: a
// real termios2 serial port (internal/transport/serial_linux.go) and an
// in-memory LoopbackPort used by tests and the sim CLI command.
package transport

import (
	"errors"
	"sync"
)

// ErrEmpty is returned by GetByte when no byte is currently available.
var ErrEmpty = errors.New("transport: empty")

// LoopbackPort is an in-memory byte pipe satisfying interfaces.Port: a
// cross-platform double that a host-side driver (a test, or the sim CLI's
// synthetic client) feeds and drains directly, with no real hardware
// underneath.
//
// inbound holds bytes the device side has not yet consumed via GetByte.
// outbound holds bytes the device side has written via PutByte, for the
// host side to drain with DrainOutbound.
type LoopbackPort struct {
	mu       sync.Mutex
	inbound  []byte
	outbound []byte

	dropped uint8

	maxOutbound int // 0 means unbounded
}

// NewLoopbackPort constructs an empty LoopbackPort. maxOutbound, if
// nonzero, caps the undrained outbound buffer; PutByte past the cap fails
// with DroppedError-equivalent behavior and increments DroppedPackets,
// mirroring a saturated UART TX FIFO.
func NewLoopbackPort(maxOutbound int) *LoopbackPort {
	return &LoopbackPort{maxOutbound: maxOutbound}
}

// PutByte implements interfaces.Port: it appends to the outbound buffer
// for the host side to drain.
func (p *LoopbackPort) PutByte(b byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.maxOutbound > 0 && len(p.outbound) >= p.maxOutbound {
		if p.dropped < 0xFF {
			p.dropped++
		}
		return errDropped
	}
	p.outbound = append(p.outbound, b)
	return nil
}

// GetByte implements interfaces.Port: it pops the oldest byte the host
// side has fed via Feed, or ErrEmpty if none is queued.
func (p *LoopbackPort) GetByte() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.inbound) == 0 {
		return 0, ErrEmpty
	}
	b := p.inbound[0]
	p.inbound = p.inbound[1:]
	return b, nil
}

// DroppedPackets implements interfaces.Port.
func (p *LoopbackPort) DroppedPackets() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Feed appends bytes to the inbound buffer, as if a host had just
// transmitted them over the wire. Host-side test/sim helper, not part of
// interfaces.Port.
func (p *LoopbackPort) Feed(b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inbound = append(p.inbound, b...)
}

// DrainOutbound removes and returns every byte the device side has
// written so far. Host-side test/sim helper.
func (p *LoopbackPort) DrainOutbound() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.outbound
	p.outbound = nil
	return out
}

// PendingInbound reports how many fed bytes the device side has not yet
// consumed.
func (p *LoopbackPort) PendingInbound() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inbound)
}

var errDropped = errors.New("transport: outbound saturated")
